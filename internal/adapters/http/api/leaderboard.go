package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/okian/rendezvous/internal/domain/model"
)

// LeaderboardDependencies defines the interface for leaderboard operations.
type LeaderboardDependencies interface {
	Leaderboard(ctx context.Context, limit int) ([]model.LeaderboardEntry, error)
	ParticipantStanding(ctx context.Context, participant string) (model.LeaderboardEntry, error)
}

// LeaderboardHandler handles leaderboard requests.
type LeaderboardHandler struct {
	deps     LeaderboardDependencies
	maxLimit int
}

// NewLeaderboardHandler creates a new leaderboard handler.
func NewLeaderboardHandler(deps LeaderboardDependencies, maxLimit int) *LeaderboardHandler {
	return &LeaderboardHandler{
		deps:     deps,
		maxLimit: maxLimit,
	}
}

type leaderboardResponse struct {
	Entries []model.LeaderboardEntry `json:"entries"`
}

// HandleGetLeaderboard handles GET /api/v1/leaderboard?limit=N requests.
// Without a limit every participant is returned.
func (h *LeaderboardHandler) HandleGetLeaderboard(w http.ResponseWriter, r *http.Request) {
	n, err := queryInt(r, "limit", 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	if n < 0 {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: limit must be positive", ErrBadRequest))
		return
	}
	if n > h.maxLimit {
		writeError(w, http.StatusBadRequest, "limit_exceeded",
			fmt.Errorf("%w: limit must not exceed %d", ErrBadRequest, h.maxLimit))
		return
	}
	entries, err := h.deps.Leaderboard(r.Context(), n)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, leaderboardResponse{Entries: entries})
}

// HandleGetParticipant handles GET /api/v1/leaderboard/{participant}.
func (h *LeaderboardHandler) HandleGetParticipant(w http.ResponseWriter, r *http.Request) {
	entry, err := h.deps.ParticipantStanding(r.Context(), pathVar(r, "participant"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}
