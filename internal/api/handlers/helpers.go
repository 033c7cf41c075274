package handlers

import (
	"encoding/json"
	"net/http"

	"food-delivery-service/internal/platform/obs"

	"github.com/sirupsen/logrus"
)

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logFor(r).WithError(err).Warn("encode response failed")
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, map[string]string{"error": msg})
}

func logFor(r *http.Request) *logrus.Entry {
	return logrus.WithFields(logrus.Fields{
		"req_id": obs.RequestID(r.Context()),
		"method": r.Method,
		"path":   r.URL.Path,
	})
}
