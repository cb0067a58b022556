package shared

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
)

// Global validator instance for reuse
var validate = validator.New()

// DecodeJSON decodes the request body into the given struct.
// Unknown fields are silently ignored, which is what lets PATCH bodies
// carry extra keys without them ever reaching the domain.
func DecodeJSON(r *http.Request, v interface{}) error {
	return json.NewDecoder(r.Body).Decode(v)
}

// ValidateRequest validates the given struct using its validate tags.
func ValidateRequest(v interface{}) error {
	return validate.Struct(v)
}
