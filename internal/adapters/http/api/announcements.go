package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/okian/rendezvous/internal/adapters/blobstore"
	"github.com/okian/rendezvous/internal/adapters/repository"
	"github.com/okian/rendezvous/internal/domain/model"
)

// AnnouncementDependencies defines the announcement operations.
type AnnouncementDependencies interface {
	Announcements(ctx context.Context, f repository.AnnouncementFilter) ([]model.Announcement, error)
	AnnouncementAudio(ctx context.Context, id string) (blobstore.Object, error)
	GetAnnouncement(ctx context.Context, id string) (model.Announcement, error)
	CreateAnnouncement(ctx context.Context, a model.Announcement) (model.Announcement, error)
	UpdateAnnouncement(ctx context.Context, a model.Announcement) (model.Announcement, error)
	ToggleAnnouncement(ctx context.Context, id string) (model.Announcement, error)
	DeleteAnnouncement(ctx context.Context, id string) error
	SynthesizeAnnouncement(ctx context.Context, id, voice string) (model.Announcement, error)
}

// AnnouncementsHandler serves announcements.
type AnnouncementsHandler struct {
	deps    AnnouncementDependencies
	creator *idempotentCreator
}

// NewAnnouncementsHandler creates a new announcements handler.
func NewAnnouncementsHandler(deps AnnouncementDependencies, creator *idempotentCreator) *AnnouncementsHandler {
	return &AnnouncementsHandler{deps: deps, creator: creator}
}

// announcementRequest is the body of announcement create and update
// requests. Missing is_active and priority keep the current values on
// update; on create they default to active and medium.
type announcementRequest struct {
	Title    string         `json:"title"`
	Content  string         `json:"content"`
	Priority model.Priority `json:"priority"`
	Category string         `json:"category"`
	Active   *bool          `json:"is_active"`
}

func (a announcementRequest) validate() error {
	switch {
	case strings.TrimSpace(a.Title) == "":
		return fmt.Errorf("%w: missing title", ErrBadRequest)
	case strings.TrimSpace(a.Content) == "":
		return fmt.Errorf("%w: missing content", ErrBadRequest)
	case a.Priority != "" && !a.Priority.Valid():
		return fmt.Errorf("%w: unknown priority %q", ErrBadRequest, a.Priority)
	}
	return nil
}

func (a announcementRequest) apply(dst model.Announcement) model.Announcement {
	dst.Title = strings.TrimSpace(a.Title)
	dst.Content = a.Content
	if a.Priority != "" {
		dst.Priority = a.Priority
	}
	dst.Category = strings.TrimSpace(a.Category)
	if a.Active != nil {
		dst.Active = *a.Active
	}
	return dst
}

type announcementsResponse struct {
	Announcements []model.Announcement `json:"announcements"`
}

func (h *AnnouncementsHandler) list(w http.ResponseWriter, r *http.Request, activeOnly bool) {
	q := r.URL.Query()
	items, err := h.deps.Announcements(r.Context(), repository.AnnouncementFilter{
		Query:      strings.TrimSpace(q.Get("q")),
		Category:   strings.TrimSpace(q.Get("category")),
		Priority:   model.Priority(strings.ToLower(strings.TrimSpace(q.Get("priority")))),
		ActiveOnly: activeOnly,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, announcementsResponse{Announcements: items})
}

// HandleList handles GET /api/v1/announcements?q=&category=&priority=.
// Only active announcements are listed.
func (h *AnnouncementsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, true)
}

// HandleListAll handles GET /api/v1/admin/announcements.
func (h *AnnouncementsHandler) HandleListAll(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, false)
}

// HandleAudio handles GET /api/v1/announcements/{id}/audio.
func (h *AnnouncementsHandler) HandleAudio(w http.ResponseWriter, r *http.Request) {
	obj, err := h.deps.AnnouncementAudio(r.Context(), pathVar(r, "id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeObject(w, obj)
}

// HandleCreate handles POST /api/v1/admin/announcements.
func (h *AnnouncementsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req announcementRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeServiceError(w, err)
		return
	}
	if err := req.validate(); err != nil {
		writeServiceError(w, err)
		return
	}
	h.creator.serve(w, r, "announcements",
		func(ctx context.Context) (string, any, error) {
			a, err := h.deps.CreateAnnouncement(ctx, req.apply(model.Announcement{Active: true}))
			return a.ID, a, err
		},
		func(ctx context.Context, id string) (any, error) { return h.deps.GetAnnouncement(ctx, id) },
	)
}

// HandleUpdate handles PUT /api/v1/admin/announcements/{id}.
func (h *AnnouncementsHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req announcementRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeServiceError(w, err)
		return
	}
	if err := req.validate(); err != nil {
		writeServiceError(w, err)
		return
	}
	current, err := h.deps.GetAnnouncement(r.Context(), pathVar(r, "id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	a, err := h.deps.UpdateAnnouncement(r.Context(), req.apply(current))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

// HandleToggle handles POST /api/v1/admin/announcements/{id}/toggle.
func (h *AnnouncementsHandler) HandleToggle(w http.ResponseWriter, r *http.Request) {
	a, err := h.deps.ToggleAnnouncement(r.Context(), pathVar(r, "id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

// HandleDelete handles DELETE /api/v1/admin/announcements/{id}.
func (h *AnnouncementsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.deps.DeleteAnnouncement(r.Context(), pathVar(r, "id")); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleSynthesize handles POST /api/v1/admin/announcements/{id}/audio?voice=.
func (h *AnnouncementsHandler) HandleSynthesize(w http.ResponseWriter, r *http.Request) {
	a, err := h.deps.SynthesizeAnnouncement(r.Context(), pathVar(r, "id"), r.URL.Query().Get("voice"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}
