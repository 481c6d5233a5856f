package proxy

import (
	"encoding/json"
	"fmt"
	"net/http"

	"lovepaws/gateway/pkg/proxy/types"
)

// WriteJSONResponse writes a JSON response to the HTTP response writer.
// It sets the appropriate content-type header and handles marshaling errors.
func WriteJSONResponse(w http.ResponseWriter, statusCode int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		return fmt.Errorf("failed to encode JSON response: %w", err)
	}

	return nil
}

// WriteData writes a 200 {"data": data} response.
func WriteData(w http.ResponseWriter, data any) error {
	return WriteJSONResponse(w, http.StatusOK, &types.DataResponse{Data: data})
}

// WriteErrorResponse writes errResp with its status code.
func WriteErrorResponse(w http.ResponseWriter, errResp *types.ErrorResponse) error {
	return WriteJSONResponse(w, errResp.HTTPStatusCode(), errResp)
}

// WriteError writes the standard error body for status.
func WriteError(w http.ResponseWriter, status int) error {
	return WriteErrorResponse(w, types.NewErrorResponse(status))
}
