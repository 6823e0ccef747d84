// Package blobstore keeps uploaded and generated binaries in BoltDB buckets.
package blobstore

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.etcd.io/bbolt"

	"github.com/okian/rendezvous/pkg/metrics"
)

// Bucket names.
const (
	BucketGallery      = "gallery"
	BucketResultPhotos = "result-photos"
	BucketPosters      = "posters"
	BucketAudio        = "announcement-audio"
)

// Buckets lists every bucket created at open.
var Buckets = []string{BucketGallery, BucketResultPhotos, BucketPosters, BucketAudio} //nolint:gochecknoglobals // fixed set

// Object is a stored binary with its content type.
type Object struct {
	Key         string
	ContentType string
	Data        []byte
}

// BucketStats summarises one bucket.
type BucketStats struct {
	Objects int   `json:"objects"`
	Bytes   int64 `json:"bytes"`
}

// Store provides keyed binary storage grouped in buckets.
type Store interface {
	Put(ctx context.Context, bucket, key, contentType string, data []byte) error
	Get(ctx context.Context, bucket, key string) (Object, error)
	Has(ctx context.Context, bucket, key string) (bool, error)
	Delete(ctx context.Context, bucket, key string) error
	Stats(ctx context.Context) (map[string]BucketStats, error)
	Close() error
}

// BoltStore implements Store on a single BoltDB file.
type BoltStore struct {
	db *bbolt.DB
}

var _ Store = (*BoltStore)(nil)

// Open opens or creates the BoltDB file at path with every bucket.
func Open(path string) (*BoltStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create blob directory %s: %w", dir, err)
		}
	}
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open blob store at %s: %w", path, err)
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		for _, name := range Buckets {
			if _, err := tx.CreateBucketIfNotExists([]byte(name)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create blob buckets: %w", err)
	}
	return &BoltStore{db: db}, nil
}

// Values are stored as "<content type>\n<data>".
func encode(contentType string, data []byte) []byte {
	out := make([]byte, 0, len(contentType)+1+len(data))
	out = append(out, contentType...)
	out = append(out, '\n')
	return append(out, data...)
}

func decode(key string, raw []byte) (Object, error) {
	i := bytes.IndexByte(raw, '\n')
	if i < 0 {
		return Object{}, fmt.Errorf("%w: %s", ErrCorrupt, key)
	}
	data := make([]byte, len(raw)-i-1)
	copy(data, raw[i+1:])
	return Object{Key: key, ContentType: string(raw[:i]), Data: data}, nil
}

func bucketOf(tx *bbolt.Tx, name string) (*bbolt.Bucket, error) {
	b := tx.Bucket([]byte(name))
	if b == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownBucket, name)
	}
	return b, nil
}

// Put stores data under key, replacing any previous object.
func (s *BoltStore) Put(ctx context.Context, bucket, key, contentType string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if key == "" {
		return fmt.Errorf("put %s: empty key", bucket)
	}
	err := s.db.Update(func(tx *bbolt.Tx) error {
		b, err := bucketOf(tx, bucket)
		if err != nil {
			return err
		}
		return b.Put([]byte(key), encode(contentType, data))
	})
	if err != nil {
		return fmt.Errorf("put %s/%s: %w", bucket, key, err)
	}
	metrics.RecordBlobBytes(bucket, len(data))
	return nil
}

// Get loads the object stored under key.
func (s *BoltStore) Get(ctx context.Context, bucket, key string) (Object, error) {
	if err := ctx.Err(); err != nil {
		return Object{}, err
	}
	var obj Object
	err := s.db.View(func(tx *bbolt.Tx) error {
		b, err := bucketOf(tx, bucket)
		if err != nil {
			return err
		}
		raw := b.Get([]byte(key))
		if raw == nil {
			return ErrNotFound
		}
		obj, err = decode(key, raw)
		return err
	})
	if err != nil {
		return Object{}, fmt.Errorf("get %s/%s: %w", bucket, key, err)
	}
	return obj, nil
}

// Has reports whether key exists without copying its data.
func (s *BoltStore) Has(ctx context.Context, bucket, key string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	var found bool
	err := s.db.View(func(tx *bbolt.Tx) error {
		b, err := bucketOf(tx, bucket)
		if err != nil {
			return err
		}
		found = b.Get([]byte(key)) != nil
		return nil
	})
	return found, err
}

// Delete removes key. Deleting a missing key is not an error.
func (s *BoltStore) Delete(ctx context.Context, bucket, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		b, err := bucketOf(tx, bucket)
		if err != nil {
			return err
		}
		return b.Delete([]byte(key))
	})
}

// Stats counts objects and payload bytes per bucket.
func (s *BoltStore) Stats(ctx context.Context) (map[string]BucketStats, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make(map[string]BucketStats, len(Buckets))
	err := s.db.View(func(tx *bbolt.Tx) error {
		for _, name := range Buckets {
			b, err := bucketOf(tx, name)
			if err != nil {
				return err
			}
			var st BucketStats
			err = b.ForEach(func(_, v []byte) error {
				st.Objects++
				if i := bytes.IndexByte(v, '\n'); i >= 0 {
					st.Bytes += int64(len(v) - i - 1)
				}
				return nil
			})
			if err != nil {
				return err
			}
			out[name] = st
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("blob stats: %w", err)
	}
	return out, nil
}

// Close closes the BoltDB file.
func (s *BoltStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
