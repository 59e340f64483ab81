package errors

import (
	"encoding/json"
	"net/http"
)

type errorResponse struct {
	Message    string `json:"message"`
	StatusCode int    `json:"statusCode"`
	Detail     string `json:"detail,omitempty"`
}

// WriteError escribe err como JSON. Cualquier error que no sea AppError
// sale como 500.
func WriteError(w http.ResponseWriter, err error) {
	appErr := FromError(err)

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(appErr.StatusCode)
	_ = json.NewEncoder(w).Encode(errorResponse{
		Message:    appErr.Message,
		StatusCode: appErr.StatusCode,
		Detail:     appErr.Detail,
	})
}
