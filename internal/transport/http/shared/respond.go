// Package shared holds the JSON response helpers every handler uses, so
// error envelopes stay consistent across the API.
package shared

import (
	"encoding/json"
	"net/http"

	dErrors "sponsorreg/pkg/domain-errors"
)

// ErrorResponse is the JSON envelope for failed requests.
type ErrorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description,omitempty"`
	Field            string `json:"field,omitempty"`
}

// WriteJSON writes v with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError translates a domain error into the standard envelope. Internal
// errors report only the code; their messages may carry details callers
// should not see.
func WriteError(w http.ResponseWriter, err error) {
	code := dErrors.GetCode(err)
	resp := ErrorResponse{Error: string(code)}
	if code != dErrors.CodeInternal {
		resp.ErrorDescription = dErrors.Message(err)
		resp.Field = dErrors.FieldName(err)
	}
	WriteJSON(w, dErrors.ToHTTPStatus(code), resp)
}
