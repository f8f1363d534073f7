package api

import (
	"encoding/json"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/contractviewer/internal/contract"
	"github.com/starford/contractviewer/internal/formservice"
	"github.com/starford/contractviewer/internal/models"
)

// FetchResponse is the successful fetch proxy payload.
type FetchResponse struct {
	Success  bool                  `json:"success" example:"true" validate:"required"`
	Data     json.RawMessage       `json:"data" swaggertype:"object" validate:"required"`
	Metadata models.ObjectMetadata `json:"metadata" validate:"required"`
}

// FetchErrorResponse is returned when the stored document cannot be served.
type FetchErrorResponse struct {
	Success bool   `json:"success" example:"false"`
	Error   string `json:"error" example:"dropbox download /data.json: HTTP 409: path/not_found" validate:"required"`
	Details string `json:"details" example:"path/not_found" validate:"required"`
}

// ImportResponse is the flat record and confidence metadata of a document.
// Source is the stored path when the document came from storage.
type ImportResponse struct {
	Record   contract.Record    `json:"record" validate:"required"`
	Metadata *contract.Metadata `json:"metadata,omitempty"`
	Source   string             `json:"source,omitempty" example:"/data.json"`
}

// FormState is the current form (aliased from the domain layer).
type FormState = formservice.State

// FieldsResponse is the form layout.
type FieldsResponse struct {
	Sections []contract.Section `json:"sections" validate:"required"`
}

// SetFieldRequest is the request body for changing one field.
type SetFieldRequest struct {
	Value *string `json:"value" example:"Jan Peeters" validate:"required"`
}

// Validate requires the value member. An empty string is a valid value.
func (r *SetFieldRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Value, validation.NotNil),
	)
}

// RecordRequest is the body accepted by export and print: either a flat map
// of field values or {"record": {...}, "metadata": {...}}.
type RecordRequest struct {
	Record   map[string]string  `json:"record"`
	Metadata *contract.Metadata `json:"metadata,omitempty"`
}
