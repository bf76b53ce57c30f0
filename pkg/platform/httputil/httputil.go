// Package httputil writes the JSON envelope every API response uses:
//
//	{"success": bool, "message": string, "data": {...}, "errors": [...]}
package httputil

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"sync/atomic"

	dErrors "hireme/pkg/domain-errors"
)

const maxBodyBytes = 1 << 20

// Envelope is the response body shape shared by success and failure responses.
type Envelope struct {
	Success bool                 `json:"success"`
	Message string               `json:"message"`
	Code    string               `json:"code,omitempty"`
	Data    any                  `json:"data,omitempty"`
	Errors  []dErrors.FieldError `json:"errors,omitempty"`
	Detail  string               `json:"detail,omitempty"`
}

var exposeInternal atomic.Bool

// ExposeInternalErrors toggles whether internal error causes are echoed to
// clients. Only enabled in development.
func ExposeInternalErrors(enabled bool) {
	exposeInternal.Store(enabled)
}

// WriteJSON writes v as the response body with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteSuccess writes a success envelope.
func WriteSuccess(w http.ResponseWriter, status int, message string, data any) {
	WriteJSON(w, status, Envelope{Success: true, Message: message, Data: data})
}

// WriteError maps err onto a failure envelope. Internal errors never leak
// their message unless ExposeInternalErrors(true) was called.
func WriteError(w http.ResponseWriter, err error) {
	de, ok := dErrors.As(err)
	if !ok {
		de = dErrors.Wrap(err, dErrors.CodeInternal, "internal server error")
	}

	status := dErrors.ToHTTPStatus(de.Code)
	env := Envelope{
		Success: false,
		Message: de.Message,
		Code:    string(de.Code),
		Errors:  de.Fields,
	}
	if status >= http.StatusInternalServerError {
		env.Message = "Something went wrong"
		if exposeInternal.Load() && err != nil {
			env.Detail = err.Error()
		}
	}
	WriteJSON(w, status, env)
}

// DecodeJSON decodes a request body into dst, rejecting unknown trailing data
// and bodies over 1MB.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.Is(err, io.EOF):
			return dErrors.New(dErrors.CodeBadRequest, "request body is required")
		case errors.As(err, &maxErr):
			return dErrors.New(dErrors.CodeBadRequest, "request body too large")
		default:
			return dErrors.New(dErrors.CodeBadRequest, "invalid JSON body")
		}
	}
	return nil
}

// Preparable is implemented by request DTOs that trim and check their own fields.
type Preparable interface {
	Normalize()
	Validate() error
}

// DecodeAndPrepare decodes the body into req, normalizes it and validates it.
func DecodeAndPrepare(w http.ResponseWriter, r *http.Request, req Preparable) error {
	if err := DecodeJSON(w, r, req); err != nil {
		return err
	}
	req.Normalize()
	return req.Validate()
}
