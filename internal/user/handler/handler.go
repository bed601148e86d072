// Package handler is the thin HTTP layer over the user store. It decodes and
// validates input, maps store errors to status codes, and emits domain
// events; business rules live in the models and store packages.
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"userd/internal/events"
	"userd/internal/platform/metrics"
	"userd/internal/user"
	"userd/internal/user/models"
	"userd/internal/user/store"
)

// Handler wires user endpoints to the store and event channel.
type Handler struct {
	store   store.Store
	events  events.Events
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// New constructs a user handler with its dependencies.
func New(store store.Store, events events.Events, logger *slog.Logger, metrics *metrics.Metrics) *Handler {
	return &Handler{
		store:   store,
		events:  events,
		logger:  logger,
		metrics: metrics,
	}
}

// Register mounts user endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/v1/users/{id}", h.HandleGetUser)
	r.Post("/v1/users", h.HandleCreateUser)
}

// HandleGetUser handles GET /v1/users/{id} requests.
func (h *Handler) HandleGetUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte("Invalid user ID format"))
		return
	}

	found, err := h.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorResponse{Error: "User not found"})
			return
		}
		var schemaErr *store.SchemaError
		if errors.As(err, &schemaErr) {
			// Stored data drifted out from under the domain rules.
			// Surface nothing to the client, but log everything.
			h.logger.ErrorContext(ctx, "stored user fails current validation",
				"request_id", middleware.GetReqID(ctx),
				"user_id", schemaErr.UserID,
				"error", schemaErr.Err,
			)
		} else {
			h.logger.ErrorContext(ctx, "user lookup failed",
				"request_id", middleware.GetReqID(ctx),
				"user_id", id,
				"error", err,
			)
		}
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Internal Server Error"})
		return
	}

	writeJSON(w, http.StatusOK, found)
}

// HandleCreateUser handles POST /v1/users requests.
func (h *Handler) HandleCreateUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var input models.User
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid request body"})
		return
	}

	if errs := models.ValidateUser(input); errs != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: errs.Error()})
		return
	}

	saved, err := h.store.Put(ctx, input)
	if err != nil {
		h.logger.ErrorContext(ctx, "user creation failed",
			"request_id", middleware.GetReqID(ctx),
			"error", err,
		)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Internal Server Error"})
		return
	}

	h.metrics.IncrementUsersCreated()
	h.events.Emit(ctx, user.Created{User: saved})

	writeJSON(w, http.StatusCreated, saved)
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
