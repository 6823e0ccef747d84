package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/okian/rendezvous/internal/adapters/blobstore"
)

const (
	maxJSONBytes      = 1 << 20
	idempotencyHeader = "Idempotency-Key"
)

func pathVar(r *http.Request, name string) string {
	return mux.Vars(r)[name]
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return fmt.Errorf("%w: body exceeds %d bytes", ErrPayloadTooLarge, tooLarge.Limit)
		}
		return fmt.Errorf("%w: %w", ErrBadRequest, err)
	}
	return nil
}

// queryInt parses an optional integer query parameter.
func queryInt(r *http.Request, name string, def int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer", ErrBadRequest, name)
	}
	return n, nil
}

type upload struct {
	ContentType string
	Data        []byte
}

// parseUpload reads a multipart form capped at limit bytes.
func parseUpload(w http.ResponseWriter, r *http.Request, limit int64) error {
	if r.ContentLength > limit {
		return fmt.Errorf("%w: upload exceeds %d bytes", ErrPayloadTooLarge, limit)
	}
	r.Body = http.MaxBytesReader(w, r.Body, limit)
	if err := r.ParseMultipartForm(limit); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return fmt.Errorf("%w: upload exceeds %d bytes", ErrPayloadTooLarge, limit)
		}
		return fmt.Errorf("%w: %w", ErrBadRequest, err)
	}
	return nil
}

// imageField returns the image uploaded in field of a parsed multipart form.
func imageField(r *http.Request, field string) (upload, error) {
	f, hdr, err := r.FormFile(field)
	if err != nil {
		return upload{}, fmt.Errorf("%w: missing %s file", ErrBadRequest, field)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return upload{}, fmt.Errorf("%w: read %s: %w", ErrBadRequest, field, err)
	}
	if len(data) == 0 {
		return upload{}, fmt.Errorf("%w: %s is empty", ErrBadRequest, field)
	}
	ct := hdr.Header.Get("Content-Type")
	if ct == "" || ct == "application/octet-stream" {
		ct = http.DetectContentType(data)
	}
	if !strings.HasPrefix(ct, "image/") {
		return upload{}, fmt.Errorf("%w: %s must be an image, got %s", ErrBadRequest, field, ct)
	}
	return upload{ContentType: ct, Data: data}, nil
}

func writeObject(w http.ResponseWriter, obj blobstore.Object) {
	w.Header().Set("Content-Type", obj.ContentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(obj.Data)))
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(obj.Data)
}

// IdempotencyDependencies runs create operations at most once per key.
type IdempotencyDependencies interface {
	Idempotent(ctx context.Context, scope, key string, create func() (string, error)) (string, bool, error)
}

type createdResponse struct {
	ID       string `json:"id"`
	Replayed bool   `json:"replayed"`
	Data     any    `json:"data"`
}

// idempotentCreator answers admin creates, replaying the first result for a
// repeated Idempotency-Key header.
type idempotentCreator struct {
	deps IdempotencyDependencies
}

func newIdempotentCreator(deps IdempotencyDependencies) *idempotentCreator {
	return &idempotentCreator{deps: deps}
}

func (c *idempotentCreator) serve(
	w http.ResponseWriter,
	r *http.Request,
	scope string,
	create func(ctx context.Context) (string, any, error),
	load func(ctx context.Context, id string) (any, error),
) {
	ctx := r.Context()
	var created any
	id, replayed, err := c.deps.Idempotent(ctx, scope, r.Header.Get(idempotencyHeader), func() (string, error) {
		id, rec, err := create(ctx)
		created = rec
		return id, err
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if !replayed {
		writeJSON(w, http.StatusCreated, createdResponse{ID: id, Data: created})
		return
	}
	rec, err := load(ctx, id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, createdResponse{ID: id, Replayed: true, Data: rec})
}
