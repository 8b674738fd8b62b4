package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/cocstats/stats-api/internal/logic"
	"github.com/cocstats/stats-api/internal/models"
)

// RequestIDHeader carries the per-request ID on responses
const RequestIDHeader = "X-Request-ID"

// Health check endpoint
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":    "ok",
		"timestamp": time.Now().UTC(),
	})
}

// Ready check endpoint
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	// Check all dependencies
	checks := map[string]bool{
		"mongo": h.mongo.Ping(ctx) == nil,
		"redis": h.redis.Ping(ctx) == nil,
	}

	allHealthy := true
	for _, ok := range checks {
		if !ok {
			allHealthy = false
			break
		}
	}

	status := http.StatusOK
	if !allHealthy {
		status = http.StatusServiceUnavailable
	}
	h.jsonResponse(w, status, map[string]interface{}{
		"ready":      allHealthy,
		"checks":     checks,
		"queueDepth": h.pool.QueueDepth(),
	})
}

// RequestID tags every response with an ID, reusing a valid inbound one
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r)
	})
}

func (h *Handler) jsonResponse(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func (h *Handler) errorResponse(w http.ResponseWriter, status int, message string) {
	h.jsonResponse(w, status, map[string]string{"error": message})
}

// serviceError maps a service failure onto a status code
func (h *Handler) serviceError(w http.ResponseWriter, r *http.Request, err error, msg string) {
	switch {
	case errors.Is(err, logic.ErrInvalidTownhallFilter), errors.Is(err, logic.ErrInvalidDirection):
		h.errorResponse(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, logic.ErrNotFound):
		h.errorResponse(w, http.StatusNotFound, msg+": not found")
	case errors.Is(err, context.DeadlineExceeded):
		h.logger.Warnw(msg, "path", r.URL.Path, "error", err)
		h.errorResponse(w, http.StatusGatewayTimeout, msg+": timed out")
	default:
		h.logger.Errorw(msg, "path", r.URL.Path, "error", err)
		h.errorResponse(w, http.StatusInternalServerError, msg)
	}
}

// validationError reports the first failed field of a query struct
func (h *Handler) validationError(w http.ResponseWriter, err error) {
	h.errorResponse(w, http.StatusBadRequest, "invalid parameters: "+err.Error())
}

// withTimeout bounds a request's store work by the configured query timeout
func (h *Handler) withTimeout(r *http.Request) (context.Context, context.CancelFunc) {
	if h.queryTimeout <= 0 {
		return context.WithCancel(r.Context())
	}
	return context.WithTimeout(r.Context(), h.queryTimeout)
}

// clanTagParam reads a tag from the path; "#" may be sent as %23 or omitted
func clanTagParam(r *http.Request, name string) string {
	return models.NormalizeTag(chi.URLParam(r, name))
}

// tagsParam reads a tag list given as repeated and/or comma-separated values
func tagsParam(r *http.Request, name string) []string {
	var tags []string
	seen := make(map[string]struct{})
	for _, raw := range r.URL.Query()[name] {
		for _, part := range strings.Split(raw, ",") {
			tag := models.NormalizeTag(part)
			if tag == "" {
				continue
			}
			if _, dup := seen[tag]; dup {
				continue
			}
			seen[tag] = struct{}{}
			tags = append(tags, tag)
		}
	}
	return tags
}

// timeParam accepts RFC3339, YYYY-MM-DD, the game time format or unix seconds.
// An empty value is the zero time.
func timeParam(r *http.Request, name string) (time.Time, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return time.Time{}, nil
	}
	if sec, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return time.Unix(sec, 0).UTC(), nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02", models.GameTimeLayout} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid %s: %q", name, raw)
}

func intParam(r *http.Request, name string, fallback int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q", name, raw)
	}
	return v, nil
}

func boolParam(r *http.Request, name string) (bool, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return false, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %q", name, raw)
	}
	return v, nil
}
