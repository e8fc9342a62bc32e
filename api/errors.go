// Package api exposes the resolution engine over HTTP.
package api

import (
	"encoding/json"
	"net/http"
)

// Error kinds are terminal: each converts directly into a structured
// response body, nothing is retried internally.

type apiError struct {
	Code    int
	Domain  string
	Reason  string
	Message string
	Details interface{}
}

var (
	errInvalidKey = &apiError{
		Code:    http.StatusBadRequest,
		Domain:  "usageLimits",
		Reason:  "keyInvalid",
		Message: "Missing or invalid API key.",
	}

	errDailyLimit = &apiError{
		Code:    http.StatusForbidden,
		Domain:  "usageLimits",
		Reason:  "dailyLimitExceeded",
		Message: "You have exceeded your daily limit.",
	}

	errNotFound = &apiError{
		Code:    http.StatusNotFound,
		Domain:  "geolocation",
		Reason:  "notFound",
		Message: "Not found",
	}
)

// parseError builds the ParseError kind. The detail payload carries the
// sub-kind: {"decode": "..."} for undecodable bodies, {"validation":
// {field: message}} for well-formed but wrong-shaped ones. Decode always
// takes precedence because validation never ran.
func parseError(details interface{}) *apiError {
	return &apiError{
		Code:    http.StatusBadRequest,
		Domain:  "global",
		Reason:  "parseError",
		Message: "Parse Error",
		Details: details,
	}
}

type errorItem struct {
	Domain  string `json:"domain"`
	Reason  string `json:"reason"`
	Message string `json:"message"`
}

type errorBody struct {
	Error struct {
		Errors  []errorItem `json:"errors"`
		Code    int         `json:"code"`
		Message string      `json:"message"`
		Details interface{} `json:"details,omitempty"`
	} `json:"error"`
}

func (e *apiError) write(w http.ResponseWriter) {
	body := errorBody{}
	body.Error.Code = e.Code
	body.Error.Message = e.Message
	body.Error.Details = e.Details
	body.Error.Errors = []errorItem{{
		Domain:  e.Domain,
		Reason:  e.Reason,
		Message: e.Message,
	}}

	writeJSON(w, e.Code, &body)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	encoder := json.NewEncoder(w)
	encoder.SetEscapeHTML(false)
	encoder.Encode(payload) // nolint: errcheck
}
