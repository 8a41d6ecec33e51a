package shared

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
)

// Validate is the process-wide validator instance, shared so compiled
// struct metadata is reused across requests.
var Validate = validator.New()

// DecodeJSON decodes the request body into the given struct.
func DecodeJSON(r *http.Request, v interface{}) error {
	return json.NewDecoder(r.Body).Decode(v)
}

// ValidateRequest validates the given struct, preferring a Validate method
// when the type provides one.
func ValidateRequest(v interface{}) error {
	if withValidate, ok := v.(interface{ Validate() error }); ok {
		return withValidate.Validate()
	}
	return Validate.Struct(v)
}
