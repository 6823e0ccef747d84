package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/okian/rendezvous/internal/adapters/blobstore"
	"github.com/okian/rendezvous/internal/domain/model"
	"github.com/okian/rendezvous/internal/domain/results"
)

// ResultsDependencies defines the result operations.
type ResultsDependencies interface {
	GroupedResults(ctx context.Context) ([]results.EventGroup, error)
	Results(ctx context.Context) ([]model.Result, error)
	GetResult(ctx context.Context, id string) (model.Result, error)
	CreateResult(ctx context.Context, r model.Result) (model.Result, error)
	UpdateResult(ctx context.Context, r model.Result) (model.Result, error)
	DeleteResult(ctx context.Context, id string) error
	AddResultPhoto(ctx context.Context, resultID, contentType string, data []byte) (model.Result, error)
	ResultPhoto(ctx context.Context, resultID, key string) (blobstore.Object, error)
}

// ResultsHandler serves grouped results and admin result management.
type ResultsHandler struct {
	deps      ResultsDependencies
	creator   *idempotentCreator
	maxUpload int64
}

// NewResultsHandler creates a new results handler.
func NewResultsHandler(deps ResultsDependencies, creator *idempotentCreator, maxUpload int64) *ResultsHandler {
	return &ResultsHandler{deps: deps, creator: creator, maxUpload: maxUpload}
}

// resultRequest is the body of result create and update requests. Points
// are always derived from the position.
type resultRequest struct {
	EventID     string `json:"event_id"`
	Participant string `json:"participant"`
	Position    int    `json:"position"`
}

func (q resultRequest) validate() error {
	switch {
	case strings.TrimSpace(q.Participant) == "":
		return fmt.Errorf("%w: missing participant", ErrBadRequest)
	case q.Position < 1:
		return fmt.Errorf("%w: position must be at least 1", ErrBadRequest)
	}
	return nil
}

func (q resultRequest) model(id string) model.Result {
	return model.Result{
		ID:          id,
		EventID:     strings.TrimSpace(q.EventID),
		Participant: q.Participant,
		Position:    q.Position,
	}
}

type groupedResponse struct {
	Groups []results.EventGroup `json:"groups"`
}

type resultsResponse struct {
	Results []model.Result `json:"results"`
}

// HandleGrouped handles GET /api/v1/results.
func (h *ResultsHandler) HandleGrouped(w http.ResponseWriter, r *http.Request) {
	groups, err := h.deps.GroupedResults(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, groupedResponse{Groups: groups})
}

// HandlePhoto handles GET /api/v1/results/{id}/photos/{key}.
func (h *ResultsHandler) HandlePhoto(w http.ResponseWriter, r *http.Request) {
	obj, err := h.deps.ResultPhoto(r.Context(), pathVar(r, "id"), pathVar(r, "key"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeObject(w, obj)
}

// HandleList handles GET /api/v1/admin/results.
func (h *ResultsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	all, err := h.deps.Results(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resultsResponse{Results: all})
}

// HandleCreate handles POST /api/v1/admin/results.
func (h *ResultsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req resultRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeServiceError(w, err)
		return
	}
	if err := req.validate(); err != nil {
		writeServiceError(w, err)
		return
	}
	h.creator.serve(w, r, "results",
		func(ctx context.Context) (string, any, error) {
			res, err := h.deps.CreateResult(ctx, req.model(""))
			return res.ID, res, err
		},
		func(ctx context.Context, id string) (any, error) { return h.deps.GetResult(ctx, id) },
	)
}

// HandleUpdate handles PUT /api/v1/admin/results/{id}.
func (h *ResultsHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req resultRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeServiceError(w, err)
		return
	}
	if err := req.validate(); err != nil {
		writeServiceError(w, err)
		return
	}
	res, err := h.deps.UpdateResult(r.Context(), req.model(pathVar(r, "id")))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// HandleDelete handles DELETE /api/v1/admin/results/{id}.
func (h *ResultsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.deps.DeleteResult(r.Context(), pathVar(r, "id")); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleAddPhoto handles POST /api/v1/admin/results/{id}/photos with a
// multipart "file" field.
func (h *ResultsHandler) HandleAddPhoto(w http.ResponseWriter, r *http.Request) {
	if err := parseUpload(w, r, h.maxUpload); err != nil {
		writeServiceError(w, err)
		return
	}
	up, err := imageField(r, "file")
	if err != nil {
		writeServiceError(w, err)
		return
	}
	res, err := h.deps.AddResultPhoto(r.Context(), pathVar(r, "id"), up.ContentType, up.Data)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}
