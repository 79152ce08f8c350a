package actions

import (
	"crypto/subtle"
	"encoding/json"
	"net"
	"net/http"
	"strconv"
	"strings"

	"github.com/pathakanu/myNotes/internal/settings"
)

// TokenHeader carries the shared secret of the action endpoint.
const TokenHeader = "X-Actions-Token"

type actionResponse struct {
	Handled bool   `json:"handled"`
	Message string `json:"message,omitempty"`
}

// Handler serves POST /notifications/action with form or query fields
// action_type, reminder_id and the optional snooze_minutes.
// With a token, callers must send it in TokenHeader. Without one, only loopback callers are served.
func (r *Receiver) Handler(token string) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodPost {
			w.Header().Set("Allow", http.MethodPost)
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		if token != "" {
			if subtle.ConstantTimeCompare([]byte(req.Header.Get(TokenHeader)), []byte(token)) != 1 {
				r.logger.Warn().Str("remote", req.RemoteAddr).Msg("action rejected: bad token")
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
		} else if !isLoopback(req.RemoteAddr) {
			r.logger.Warn().Str("remote", req.RemoteAddr).Msg("action rejected: not loopback")
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}
		if err := req.ParseForm(); err != nil {
			http.Error(w, "invalid form", http.StatusBadRequest)
			return
		}

		actionType := strings.ToUpper(strings.TrimSpace(req.FormValue("action_type")))
		if actionType == "" {
			http.Error(w, "action_type is required", http.StatusBadRequest)
			return
		}
		reminderID, err := strconv.ParseInt(req.FormValue("reminder_id"), 10, 64)
		if err != nil {
			http.Error(w, "reminder_id must be a number", http.StatusBadRequest)
			return
		}
		snooze, _ := strconv.Atoi(req.FormValue("snooze_minutes"))

		msg, err := r.Handle(req.Context(), Action{
			Type:          settings.NotificationActionType(actionType),
			ReminderID:    reminderID,
			SnoozeMinutes: snooze,
		})
		if err != nil {
			r.logger.Error().Err(err).Int64("reminder_id", reminderID).Msg("notification action")
			http.Error(w, "could not apply action", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(actionResponse{Handled: msg != "", Message: msg}); err != nil {
			r.logger.Error().Err(err).Msg("encode action response")
		}
	}
}

func isLoopback(remoteAddr string) bool {
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		host = remoteAddr
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}
