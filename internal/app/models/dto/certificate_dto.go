package dto

import "github.com/yigit/certdesk/internal/app/models"

// CertificateRequest selects the student and carries the generation form values
type CertificateRequest struct {
	GRN       string               `json:"grn" validate:"required" example:"4521"`
	Overrides models.FormOverrides `json:"overrides"`
}

// CountersResponse lists the next certificate number per type
type CountersResponse struct {
	Counters map[models.CertificateType]int `json:"counters"`
}
