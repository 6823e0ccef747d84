package poster

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/okian/rendezvous/internal/domain/model"
)

// Filename returns the download name "<participant>-<event>-result.png",
// folded to ASCII so it can travel in a Content-Disposition header.
func Filename(r model.Result) string {
	return safePart(r.Participant, "participant") + "-" + safePart(r.EventName, "event") + "-result.png"
}

func safePart(s, fallback string) string {
	folded, _, err := transform.String(transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC), s)
	if err != nil {
		folded = s
	}
	out := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == ' ', r == '-', r == '_', r == '.':
			return r
		case r > unicode.MaxASCII:
			return -1
		default:
			return '_'
		}
	}, folded)
	out = strings.Trim(strings.TrimSpace(out), ".")
	if out == "" {
		return fallback
	}
	return out
}
