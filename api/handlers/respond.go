package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/linesmerrill/road-report-console/backend"
	"github.com/linesmerrill/road-report-console/config"
	"github.com/linesmerrill/road-report-console/metrics"
	"github.com/linesmerrill/road-report-console/session"
)

const maxBodyBytes = 1 << 20

var (
	errEmptyBody  = errors.New("request body is empty")
	errMissingVar = errors.New("missing path parameter")
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	b, err := json.Marshal(v)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(b)
}

// upstreamError answers with the backend message when there is one and the
// operation's default otherwise
func upstreamError(w http.ResponseWriter, fallback string, err error) {
	config.ErrorStatus(backend.Message(err, fallback), backend.StatusCode(err), w, err)
}

func decodeBody(r *http.Request, v interface{}) error {
	err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(v)
	if errors.Is(err, io.EOF) {
		return errEmptyBody
	}
	return err
}

// objectIDVar reads a path variable that must be a backend document id
func objectIDVar(w http.ResponseWriter, r *http.Request, name string) (string, bool) {
	id := mux.Vars(r)[name]
	if _, err := primitive.ObjectIDFromHex(id); err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return "", false
	}
	return id, true
}

// pathVar reads a path variable that only has to be non-empty
func pathVar(w http.ResponseWriter, r *http.Request, name string) (string, bool) {
	v := strings.TrimSpace(mux.Vars(r)[name])
	if v == "" {
		config.ErrorStatus(name+" is required", http.StatusBadRequest, w, errMissingVar)
		return "", false
	}
	return v, true
}

// actorID returns the caller's user id for event attribution
func actorID(r *http.Request) string {
	if s, ok := session.FromContext(r.Context()); ok {
		return s.Claims().UserID
	}
	return ""
}

func requestID(r *http.Request) string {
	return metrics.RequestID(r.Context())
}

func blank(values ...string) bool {
	for _, v := range values {
		if strings.TrimSpace(v) == "" {
			return true
		}
	}
	return false
}
