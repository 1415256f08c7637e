package handler

import (
	"ddinvest/internal/registration/models"
	id "ddinvest/pkg/domain"
)

// StartResponse is returned when a registration opens.
type StartResponse struct {
	ID    id.RegistrationID `json:"id"`
	State models.State      `json:"state"`
}

// ErrorResponse is the error envelope for workflow operations. State is the
// snapshot after the failure, so the form can re-render from it.
type ErrorResponse struct {
	Error            string        `json:"error"`
	ErrorDescription string        `json:"error_description,omitempty"`
	State            *models.State `json:"state,omitempty"`
}
