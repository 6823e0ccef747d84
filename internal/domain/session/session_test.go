package session_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/okian/rendezvous/internal/domain/session"
	. "github.com/smartystreets/goconvey/convey"
	"golang.org/x/crypto/bcrypt"
)

var t0 = time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)

func TestAuthorize(t *testing.T) {
	Convey("Given a session issued at t0 for 24h", t, func() {
		s := session.New("admin", t0, session.DefaultTTL)

		Convey("Then it is valid inside the window", func() {
			So(session.Authorize(s, t0), ShouldBeNil)
			So(session.Authorize(s, t0.Add(23*time.Hour)), ShouldBeNil)
		})

		Convey("Then it expires at the end of the window", func() {
			So(errors.Is(session.Authorize(s, t0.Add(24*time.Hour)), session.ErrExpired), ShouldBeTrue)
			So(errors.Is(session.Authorize(s, t0.Add(48*time.Hour)), session.ErrExpired), ShouldBeTrue)
		})

		Convey("Then it is not valid before issue", func() {
			So(errors.Is(session.Authorize(s, t0.Add(-time.Second)), session.ErrNotYetValid), ShouldBeTrue)
		})
	})

	Convey("Given malformed sessions", t, func() {
		So(errors.Is(session.Authorize(session.Session{}, t0), session.ErrInvalidSession), ShouldBeTrue)
		So(errors.Is(session.Authorize(session.New("", t0, time.Hour), t0), session.ErrInvalidSession), ShouldBeTrue)
		So(errors.Is(session.Authorize(session.New("admin", t0, -time.Hour), t0), session.ErrInvalidSession), ShouldBeTrue)
	})
}

func TestIssuer(t *testing.T) {
	Convey("Given an issuer", t, func() {
		iss, err := session.NewIssuer([]byte("festival-secret"), time.Hour)
		So(err, ShouldBeNil)
		So(iss.TTL(), ShouldEqual, time.Hour)

		Convey("When a token is issued and parsed back", func() {
			token, issued, err := iss.Issue("admin", t0.Add(500*time.Millisecond))
			So(err, ShouldBeNil)

			parsed, err := iss.Parse(token)

			Convey("Then the session round-trips", func() {
				So(err, ShouldBeNil)
				So(parsed.Subject, ShouldEqual, issued.Subject)
				So(parsed.Subject, ShouldEqual, "admin")
				So(parsed.IssuedAt, ShouldEqual, t0)
				So(parsed.ExpiresAt, ShouldEqual, t0.Add(time.Hour))
			})

			Convey("Then an expired token still parses and Authorize rejects it", func() {
				So(errors.Is(session.Authorize(parsed, t0.Add(2*time.Hour)), session.ErrExpired), ShouldBeTrue)
			})

			Convey("Then a tampered token is rejected", func() {
				_, err := iss.Parse(token[:len(token)-2] + flip(token[len(token)-2:]))
				So(errors.Is(err, session.ErrInvalidToken), ShouldBeTrue)
			})

			Convey("Then another secret cannot verify it", func() {
				other, _ := session.NewIssuer([]byte("another-secret"), time.Hour)
				_, err := other.Parse(token)
				So(errors.Is(err, session.ErrInvalidToken), ShouldBeTrue)
			})
		})

		Convey("When parsing garbage", func() {
			_, err := iss.Parse("not-a-token")
			So(errors.Is(err, session.ErrInvalidToken), ShouldBeTrue)
		})
	})

	Convey("Given an empty secret", t, func() {
		_, err := session.NewIssuer(nil, time.Hour)
		So(err, ShouldNotBeNil)
	})

	Convey("Given a zero ttl", t, func() {
		iss, err := session.NewIssuer([]byte("k"), 0)
		So(err, ShouldBeNil)
		So(iss.TTL(), ShouldEqual, session.DefaultTTL)
	})
}

func TestCredentials(t *testing.T) {
	Convey("Given admin credentials", t, func() {
		creds, err := session.NewCredentials("admin", "admin1209", session.WithCost(bcrypt.MinCost))
		So(err, ShouldBeNil)
		So(creds.Username(), ShouldEqual, "admin")

		Convey("Then the right pair verifies", func() {
			So(creds.Verify("admin", "admin1209"), ShouldBeNil)
		})

		Convey("Then a wrong user or password is rejected", func() {
			So(errors.Is(creds.Verify("Admin", "admin1209"), session.ErrBadCredentials), ShouldBeTrue)
			So(errors.Is(creds.Verify("admin", "admin"), session.ErrBadCredentials), ShouldBeTrue)
			So(errors.Is(creds.Verify("", ""), session.ErrBadCredentials), ShouldBeTrue)
		})
	})

	Convey("Given empty credentials", t, func() {
		_, err := session.NewCredentials("", "x")
		So(err, ShouldNotBeNil)
	})
}

// flip changes the signature tail so it no longer verifies.
func flip(s string) string {
	if strings.HasPrefix(s, "A") {
		return "B" + s[1:]
	}
	return "A" + s[1:]
}
