package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/jonathan/jobswipe/internal/catalog"
)

// Response messages of POST /parse
const (
	MsgUnsupportedFormat = "Unsupported format. Only PDF supported in this version."
	MsgServerError       = "Server error while parsing resume."
	MsgMissingFile       = "No resume file uploaded."
	MsgUploadTooLarge    = "Uploaded file is too large."
	MsgParsedWithAI      = "Parsed using AI. Please verify for accuracy."
)

// ParseConfidence is reported for every successful parse
const ParseConfidence = 0.95

// HTTPStatus maps a collaborator error to the status code of a non-parse endpoint.
// POST /parse always answers 500 on failure.
func HTTPStatus(err error) int {
	var catErr *catalog.Error
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.As(err, &catErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
