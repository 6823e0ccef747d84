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

// GalleryDependencies defines the gallery operations.
type GalleryDependencies interface {
	Gallery(ctx context.Context, f repository.GalleryFilter) ([]model.GalleryItem, error)
	GetGalleryItem(ctx context.Context, id string) (model.GalleryItem, error)
	GalleryImage(ctx context.Context, id string) (blobstore.Object, error)
	LikeGalleryItem(ctx context.Context, id string) (model.GalleryItem, error)
	CreateGalleryItem(ctx context.Context, g model.GalleryItem, contentType string, data []byte) (model.GalleryItem, error)
	UpdateGalleryItem(ctx context.Context, g model.GalleryItem) (model.GalleryItem, error)
	DeleteGalleryItem(ctx context.Context, id string) error
}

// GalleryHandler serves the photo gallery.
type GalleryHandler struct {
	deps      GalleryDependencies
	creator   *idempotentCreator
	maxUpload int64
}

// NewGalleryHandler creates a new gallery handler.
func NewGalleryHandler(deps GalleryDependencies, creator *idempotentCreator, maxUpload int64) *GalleryHandler {
	return &GalleryHandler{deps: deps, creator: creator, maxUpload: maxUpload}
}

// galleryRequest carries the descriptive fields of a gallery item, either
// as JSON or as multipart form values.
type galleryRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	EventName   string `json:"event_name"`
	Category    string `json:"category"`
}

func (g galleryRequest) validate() error {
	if strings.TrimSpace(g.Title) == "" {
		return fmt.Errorf("%w: missing title", ErrBadRequest)
	}
	return nil
}

func (g galleryRequest) model(id string) model.GalleryItem {
	return model.GalleryItem{
		ID:          id,
		Title:       strings.TrimSpace(g.Title),
		Description: g.Description,
		EventName:   strings.TrimSpace(g.EventName),
		Category:    strings.TrimSpace(g.Category),
	}
}

type galleryResponse struct {
	Items []model.GalleryItem `json:"items"`
}

// HandleList handles GET /api/v1/gallery?q=&category=.
func (h *GalleryHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	items, err := h.deps.Gallery(r.Context(), repository.GalleryFilter{
		Query:    strings.TrimSpace(q.Get("q")),
		Category: strings.TrimSpace(q.Get("category")),
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, galleryResponse{Items: items})
}

// HandleImage handles GET /api/v1/gallery/{id}/image.
func (h *GalleryHandler) HandleImage(w http.ResponseWriter, r *http.Request) {
	obj, err := h.deps.GalleryImage(r.Context(), pathVar(r, "id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeObject(w, obj)
}

// HandleLike handles POST /api/v1/gallery/{id}/like.
func (h *GalleryHandler) HandleLike(w http.ResponseWriter, r *http.Request) {
	item, err := h.deps.LikeGalleryItem(r.Context(), pathVar(r, "id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

// HandleCreate handles POST /api/v1/admin/gallery with a multipart "file"
// field plus title, description, event_name and category values.
func (h *GalleryHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	if err := parseUpload(w, r, h.maxUpload); err != nil {
		writeServiceError(w, err)
		return
	}
	req := galleryRequest{
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
		EventName:   r.FormValue("event_name"),
		Category:    r.FormValue("category"),
	}
	if err := req.validate(); err != nil {
		writeServiceError(w, err)
		return
	}
	up, err := imageField(r, "file")
	if err != nil {
		writeServiceError(w, err)
		return
	}
	h.creator.serve(w, r, "gallery",
		func(ctx context.Context) (string, any, error) {
			g, err := h.deps.CreateGalleryItem(ctx, req.model(""), up.ContentType, up.Data)
			return g.ID, g, err
		},
		func(ctx context.Context, id string) (any, error) { return h.deps.GetGalleryItem(ctx, id) },
	)
}

// HandleUpdate handles PUT /api/v1/admin/gallery/{id}. The image is kept.
func (h *GalleryHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req galleryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeServiceError(w, err)
		return
	}
	if err := req.validate(); err != nil {
		writeServiceError(w, err)
		return
	}
	item, err := h.deps.UpdateGalleryItem(r.Context(), req.model(pathVar(r, "id")))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

// HandleDelete handles DELETE /api/v1/admin/gallery/{id}.
func (h *GalleryHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.deps.DeleteGalleryItem(r.Context(), pathVar(r, "id")); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
