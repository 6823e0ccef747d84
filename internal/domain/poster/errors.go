package poster

import "errors"

var (
	// ErrUnknownTemplate is returned for a template id outside the table.
	ErrUnknownTemplate = errors.New("unknown poster template")
	// ErrFontLoad is returned when the embedded fonts cannot be parsed.
	ErrFontLoad = errors.New("load poster font")
)
