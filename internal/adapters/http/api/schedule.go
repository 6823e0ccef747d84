package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/okian/rendezvous/internal/domain/model"
)

// ScheduleDependencies defines the event operations.
type ScheduleDependencies interface {
	Schedule(ctx context.Context, category string) ([]model.Event, error)
	GetEvent(ctx context.Context, id string) (model.Event, error)
	CreateEvent(ctx context.Context, e model.Event) (model.Event, error)
	UpdateEvent(ctx context.Context, e model.Event) (model.Event, error)
	DeleteEvent(ctx context.Context, id string) error
}

// ScheduleHandler serves the public schedule and admin event management.
type ScheduleHandler struct {
	deps    ScheduleDependencies
	creator *idempotentCreator
}

// NewScheduleHandler creates a new schedule handler.
func NewScheduleHandler(deps ScheduleDependencies, creator *idempotentCreator) *ScheduleHandler {
	return &ScheduleHandler{deps: deps, creator: creator}
}

// eventRequest is the body of event create and update requests.
type eventRequest struct {
	Name        string `json:"name"`
	Category    string `json:"category"`
	Date        string `json:"date"`
	Time        string `json:"time"`
	Venue       string `json:"venue"`
	Description string `json:"description"`
}

func (e eventRequest) validate() error {
	switch {
	case strings.TrimSpace(e.Name) == "":
		return fmt.Errorf("%w: missing name", ErrBadRequest)
	case strings.TrimSpace(e.Category) == "":
		return fmt.Errorf("%w: missing category", ErrBadRequest)
	}
	if e.Date != "" {
		if _, err := time.Parse(time.DateOnly, e.Date); err != nil {
			return fmt.Errorf("%w: invalid date; must be YYYY-MM-DD", ErrBadRequest)
		}
	}
	if e.Time != "" {
		if _, err := time.Parse("15:04", e.Time); err != nil {
			return fmt.Errorf("%w: invalid time; must be HH:MM", ErrBadRequest)
		}
	}
	return nil
}

func (e eventRequest) model(id string) model.Event {
	return model.Event{
		ID:          id,
		Name:        strings.TrimSpace(e.Name),
		Category:    strings.TrimSpace(e.Category),
		Date:        e.Date,
		Time:        e.Time,
		Venue:       strings.TrimSpace(e.Venue),
		Description: e.Description,
	}
}

type scheduleResponse struct {
	Events []model.Event `json:"events"`
}

// HandleList handles GET /api/v1/schedule?category=.
func (h *ScheduleHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	events, err := h.deps.Schedule(r.Context(), r.URL.Query().Get("category"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, scheduleResponse{Events: events})
}

// HandleCreate handles POST /api/v1/admin/events.
func (h *ScheduleHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req eventRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeServiceError(w, err)
		return
	}
	if err := req.validate(); err != nil {
		writeServiceError(w, err)
		return
	}
	h.creator.serve(w, r, "events",
		func(ctx context.Context) (string, any, error) {
			e, err := h.deps.CreateEvent(ctx, req.model(""))
			return e.ID, e, err
		},
		func(ctx context.Context, id string) (any, error) { return h.deps.GetEvent(ctx, id) },
	)
}

// HandleUpdate handles PUT /api/v1/admin/events/{id}.
func (h *ScheduleHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req eventRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeServiceError(w, err)
		return
	}
	if err := req.validate(); err != nil {
		writeServiceError(w, err)
		return
	}
	e, err := h.deps.UpdateEvent(r.Context(), req.model(pathVar(r, "id")))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

// HandleDelete handles DELETE /api/v1/admin/events/{id}.
func (h *ScheduleHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.deps.DeleteEvent(r.Context(), pathVar(r, "id")); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
