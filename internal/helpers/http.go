package helpers

import (
	"encoding/json"
	"net/http"

	"github.com/isometry/gh-webhook-gateway/internal/gwerr"
	"github.com/isometry/gh-webhook-gateway/internal/models"
)

type errorResponse struct {
	Error string `json:"error"`
}

// ErrorPayload derives the sanitized JSON error body and status code for the
// given error, per the gateway error taxonomy.
func ErrorPayload(err error) (int, string) {
	status, message := gwerr.ResponseFor(err)
	body, _ := json.Marshal(errorResponse{Error: message})
	return status, string(body)
}

// RespondHTTP writes the handler outcome to the response writer: the shaped
// response on success, a JSON error envelope with a derived status otherwise.
func RespondHTTP(response models.Response, err error, rw http.ResponseWriter) {
	if err != nil {
		status, body := ErrorPayload(err)
		rw.Header().Set("Content-Type", "application/json")
		rw.WriteHeader(status)
		_, _ = rw.Write([]byte(body))
		return
	}

	for k, v := range response.Headers {
		rw.Header().Set(k, v)
	}
	statusCode := response.StatusCode
	if statusCode == 0 {
		statusCode = http.StatusOK
	}
	rw.WriteHeader(statusCode)
	_, _ = rw.Write([]byte(response.Body))
}
