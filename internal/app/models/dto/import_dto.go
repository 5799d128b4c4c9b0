package dto

import "github.com/yigit/certdesk/internal/app/models"

// ImportRowsRequest carries roster rows keyed by their source headers
type ImportRowsRequest struct {
	Rows []map[string]string `json:"rows" validate:"required,min=1"`
}

// ResolveDuplicatesRequest carries the duplicates of an import pass with the chosen actions
type ResolveDuplicatesRequest struct {
	Duplicates []models.Duplicate `json:"duplicates" validate:"required,min=1"`
}
