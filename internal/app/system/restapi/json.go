package restapi

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/dalemusser/fittrack/internal/app/system/apierr"
)

// errorBody is the JSON shape of every failed response.
type errorBody struct {
	Error   string            `json:"error"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// WriteJSON writes payload with status as application/json.
func WriteJSON(w http.ResponseWriter, status int, payload any) {
	writeJSON(w, status, payload)
}

// writeError maps err through apierr and writes the error body.
// A 503 carries the store error verbatim. Other server errors get a
// generic message; the detail goes to the log.
func writeError(w http.ResponseWriter, err error) int {
	status := apierr.Status(err)
	body := errorBody{Error: apierr.Code(err), Message: err.Error()}

	var ve *apierr.ValidationError
	var re *apierr.ReferenceError
	switch {
	case errors.As(err, &ve):
		body.Message = "Invalid input."
		body.Fields = ve.Fields
	case errors.As(err, &re):
		body.Message = fmt.Sprintf("Invalid pk %q - object does not exist.", re.ID)
		body.Fields = map[string]string{re.Field: body.Message}
	case status == http.StatusInternalServerError:
		body.Message = "Internal server error."
	}
	writeJSON(w, status, body)
	return status
}

// DecodeBody unmarshals a JSON object into v. Malformed JSON and values of
// the wrong type come back as a ValidationError naming the field.
func DecodeBody(body []byte, v any) error {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		body = []byte("{}")
	}
	if body[0] != '{' {
		return apierr.Invalid("non_field_errors", "Invalid data. Expected a JSON object.")
	}

	err := json.Unmarshal(body, v)
	if err == nil {
		return nil
	}
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return apierr.Invalid(typeErr.Field, typeMessage(typeErr.Type.Kind().String()))
	}
	return apierr.Invalid("non_field_errors", "JSON parse error - "+err.Error())
}

func typeMessage(kind string) string {
	switch kind {
	case "int", "int32", "int64":
		return "A valid integer is required."
	case "string":
		return "Not a valid string."
	default:
		return "Invalid value."
	}
}
