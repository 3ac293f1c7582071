package core

import (
	"context"
	"encoding/json"
	"expvar"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

const maxBodyBytes = 1 << 20

type Notifier interface {
	Forward(ctx context.Context, sms SMS) bool
}

type response struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

type receiver struct {
	notifier Notifier
}

func (rc *receiver) webhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		slog.Error("Error processing webhook", "error", err)
		writeJSON(w, http.StatusInternalServerError, response{Status: "error", Message: fmt.Sprintf("failed to read request body: %v", err)})
		return
	}

	sms, ok, err := ParseWebhook(body)
	if err != nil {
		slog.Error("Error processing webhook", "error", err)
		writeJSON(w, http.StatusInternalServerError, response{Status: "error", Message: err.Error()})
		return
	}
	if !ok {
		slog.Info("Ignoring webhook event")
		writeJSON(w, http.StatusOK, response{Status: "ignored", Message: "Not a message.received event"})
		return
	}

	sms.Id = uuid.New().String()
	slog.Info("Received SMS webhook", "id", sms.Id, "from", sms.From, "to", sms.To, "received_at", sms.ReceivedAt)

	if !rc.notifier.Forward(r.Context(), sms) {
		writeJSON(w, http.StatusInternalServerError, response{Status: "error", Message: "Failed to send email"})
		return
	}
	writeJSON(w, http.StatusOK, response{Status: "success", Message: "Email sent"})
}

func health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, response{Status: "healthy"})
}

func writeJSON(w http.ResponseWriter, status int, v response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("Failed to write response", "error", err)
	}
}

// NewHandler routes the webhook, health and expvar endpoints.
func NewHandler(notifier Notifier) http.Handler {
	rc := &receiver{notifier: notifier}

	r := mux.NewRouter()
	r.Use(recoverMiddleware)
	r.HandleFunc("/webhook", rc.webhook).Methods(http.MethodPost)
	r.HandleFunc("/health", health).Methods(http.MethodGet)
	r.Handle("/debug/vars", expvar.Handler()).Methods(http.MethodGet)
	return r
}
