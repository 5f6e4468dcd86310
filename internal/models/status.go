package models

// Status is the health payload served by GET /status.
type Status struct {
	Success bool   `json:"success"`
	Version string `json:"version"`
	Message string `json:"message"`
}
