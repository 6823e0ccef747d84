package blobstore_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/okian/rendezvous/internal/adapters/blobstore"
	. "github.com/smartystreets/goconvey/convey"
)

func TestBoltStore(t *testing.T) {
	Convey("Given an open blob store", t, func() {
		ctx := context.Background()
		s, err := blobstore.Open(filepath.Join(t.TempDir(), "nested", "blobs.db"))
		So(err, ShouldBeNil)
		defer s.Close()

		Convey("When an object is stored", func() {
			So(s.Put(ctx, blobstore.BucketGallery, "img-1", "image/png", []byte("\x89PNG\nrest")), ShouldBeNil)

			Convey("Then it reads back with its content type", func() {
				obj, err := s.Get(ctx, blobstore.BucketGallery, "img-1")
				So(err, ShouldBeNil)
				So(obj.ContentType, ShouldEqual, "image/png")
				So(string(obj.Data), ShouldEqual, "\x89PNG\nrest")

				ok, err := s.Has(ctx, blobstore.BucketGallery, "img-1")
				So(err, ShouldBeNil)
				So(ok, ShouldBeTrue)
			})

			Convey("Then buckets are independent", func() {
				_, err := s.Get(ctx, blobstore.BucketPosters, "img-1")
				So(errors.Is(err, blobstore.ErrNotFound), ShouldBeTrue)
			})

			Convey("Then stats count it", func() {
				st, err := s.Stats(ctx)
				So(err, ShouldBeNil)
				So(st[blobstore.BucketGallery], ShouldResemble, blobstore.BucketStats{Objects: 1, Bytes: 9})
				So(st[blobstore.BucketAudio].Objects, ShouldEqual, 0)
				So(len(st), ShouldEqual, len(blobstore.Buckets))
			})

			Convey("And then deleted", func() {
				So(s.Delete(ctx, blobstore.BucketGallery, "img-1"), ShouldBeNil)
				_, err := s.Get(ctx, blobstore.BucketGallery, "img-1")
				So(errors.Is(err, blobstore.ErrNotFound), ShouldBeTrue)
				So(s.Delete(ctx, blobstore.BucketGallery, "img-1"), ShouldBeNil)
			})
		})

		Convey("When an unknown bucket is used", func() {
			err := s.Put(ctx, "avatars", "k", "image/png", nil)
			So(errors.Is(err, blobstore.ErrUnknownBucket), ShouldBeTrue)
			_, err = s.Get(ctx, "avatars", "k")
			So(errors.Is(err, blobstore.ErrUnknownBucket), ShouldBeTrue)
		})

		Convey("When the key is empty", func() {
			So(s.Put(ctx, blobstore.BucketGallery, "", "image/png", []byte("x")), ShouldNotBeNil)
		})

		Convey("When the context is cancelled", func() {
			cctx, cancel := context.WithCancel(ctx)
			cancel()
			So(errors.Is(s.Put(cctx, blobstore.BucketGallery, "k", "x", nil), context.Canceled), ShouldBeTrue)
		})
	})
}
