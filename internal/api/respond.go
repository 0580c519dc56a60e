package api

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"
)

func RespondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Error().Err(err).Msg("could not encode response")
	}
}

// RespondError writes the error envelope. Field errors, when given, are added
// under "errors".
func RespondError(w http.ResponseWriter, status int, message string, fields ...map[string]string) {
	payload := map[string]interface{}{
		"status":  "error",
		"message": message,
		"code":    status,
	}
	if len(fields) > 0 && len(fields[0]) > 0 {
		payload["errors"] = fields[0]
	}
	RespondJSON(w, status, payload)
}
