package dto

// UpdateStudentRequest carries the fields to change, keyed by canonical field name
type UpdateStudentRequest struct {
	Fields map[string]string `json:"fields" validate:"required,min=1"`
}
