package api

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/quitbet/quitbet/internal/services"
)

type errorBody struct {
	Error string             `json:"error"`
	Code  services.ErrorCode `json:"code"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps ServiceError codes onto HTTP statuses. Anything untyped is
// treated as a storage-level failure.
func writeError(w http.ResponseWriter, log *zap.Logger, err error) {
	se, ok := services.AsServiceError(err)
	if !ok {
		log.Error("unhandled error", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal error", Code: services.ErrorStorage})
		return
	}
	status := http.StatusInternalServerError
	switch se.Code {
	case services.ErrorInvalid:
		status = http.StatusBadRequest
	case services.ErrorForbidden:
		status = http.StatusForbidden
	case services.ErrorNotFound:
		status = http.StatusNotFound
	case services.ErrorStorage:
		log.Error("storage failure", zap.Error(err))
	}
	writeJSON(w, status, errorBody{Error: se.Message, Code: se.Code})
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid request body", Code: services.ErrorInvalid})
		return false
	}
	return true
}
