package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/conduit-lang/classmeta/internal/classdef"
	"github.com/conduit-lang/classmeta/internal/store"
	"github.com/conduit-lang/classmeta/runtime/classes"
)

// ErrorResponse represents a standard error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// statusOf maps an error to the response status
func statusOf(err error) int {
	switch {
	case errors.Is(err, classes.ErrNotFound), errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, classes.ErrInvalid), errors.Is(err, classdef.ErrUnsupportedFormat):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func codeOf(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "bad_request"
	case http.StatusUnauthorized:
		return "unauthorized"
	case http.StatusNotFound:
		return "not_found"
	case http.StatusUnprocessableEntity:
		return "unprocessable"
	}
	return "internal_error"
}

func renderError(w http.ResponseWriter, status int, err error) {
	renderJSON(w, status, &ErrorResponse{
		Error:   "error",
		Message: err.Error(),
		Code:    codeOf(status),
	})
}

func renderJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
