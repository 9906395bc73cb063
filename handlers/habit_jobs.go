package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"cloud.google.com/go/firestore"
	"firebase.google.com/go/v4/messaging"
)

const (
	ActionGenerateOccurrences = "generate-occurrences"
	ActionSendReminders       = "send-reminders"
)

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// HabitJobs is the scheduler-facing entry point. The body selects the
// action and may override the reference date:
//
//	{"action": "generate-occurrences", "today": "2026-08-28"}
//
// Missing or unknown actions get 404, internal failures 500; success
// echoes the request body with a result summary added.
func HabitJobs(store *firestore.Client, fcm *messaging.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body == nil {
			body = map[string]interface{}{}
		}

		action, _ := body["action"].(string)
		if action == "" {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "No action"})
			return
		}

		today := time.Now()
		if raw, ok := body["today"].(string); ok && raw != "" {
			parsed, err := parseToday(raw)
			if err != nil {
				writeJSON(w, http.StatusNotFound, map[string]string{"error": "Invalid today"})
				return
			}
			today = parsed
		}

		run := NewJobRun(today, store, fcm)

		var result string
		var err error
		switch action {
		case ActionGenerateOccurrences:
			result, err = GenerateOccurrences(r.Context(), run)
		case ActionSendReminders:
			result, err = SendReminders(r.Context(), run)
		default:
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "Not valid"})
			return
		}

		if err != nil {
			log.Printf("[HabitJobs] Action %s failed | run=%s: %v", action, run.RunID, err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}

		body["result"] = result
		writeJSON(w, http.StatusOK, body)
	}
}

func parseToday(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", raw)
}
