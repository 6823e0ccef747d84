package api

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strconv"

	service "github.com/okian/rendezvous/internal/app"
	"github.com/okian/rendezvous/internal/domain/poster"
)

// PosterDependencies defines the poster operations.
type PosterDependencies interface {
	Poster(ctx context.Context, resultID, templateID string) (service.Poster, error)
	PosterTemplates() []poster.Template
	QueueEventPosters(ctx context.Context, eventID, templateID string) (int, error)
}

// PosterHandler serves result posters.
type PosterHandler struct {
	deps PosterDependencies
}

// NewPosterHandler creates a new poster handler.
func NewPosterHandler(deps PosterDependencies) *PosterHandler {
	return &PosterHandler{deps: deps}
}

type templateResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type templatesResponse struct {
	Default   string             `json:"default"`
	Templates []templateResponse `json:"templates"`
}

type queuedResponse struct {
	Enqueued int `json:"enqueued"`
}

// HandlePoster handles GET /api/v1/results/{id}/poster?template=.
func (h *PosterHandler) HandlePoster(w http.ResponseWriter, r *http.Request) {
	p, err := h.deps.Poster(r.Context(), pathVar(r, "id"), r.URL.Query().Get("template"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(p.Data)))
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": p.Filename}))
	w.Header().Set("X-Poster-Cache", cacheHeader(p.Cached))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(p.Data)
}

func cacheHeader(cached bool) string {
	if cached {
		return "hit"
	}
	return "miss"
}

// HandleTemplates handles GET /api/v1/poster-templates.
func (h *PosterHandler) HandleTemplates(w http.ResponseWriter, _ *http.Request) {
	tpls := h.deps.PosterTemplates()
	out := templatesResponse{Default: poster.DefaultTemplate, Templates: make([]templateResponse, 0, len(tpls))}
	for _, t := range tpls {
		out.Templates = append(out.Templates, templateResponse{ID: t.ID, Name: t.Name})
	}
	writeJSON(w, http.StatusOK, out)
}

// HandleQueueEvent handles POST /api/v1/admin/events/{id}/posters?template=.
// Posters are rendered in the background.
func (h *PosterHandler) HandleQueueEvent(w http.ResponseWriter, r *http.Request) {
	n, err := h.deps.QueueEventPosters(r.Context(), pathVar(r, "id"), r.URL.Query().Get("template"))
	if errors.Is(err, service.ErrBackpressure) {
		writeError(w, http.StatusTooManyRequests, "backpressure", fmt.Errorf("%w (enqueued %d)", err, n))
		return
	}
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, queuedResponse{Enqueued: n})
}
