package tts

import "errors"

var (
	ErrDisabled     = errors.New("text-to-speech is not configured")
	ErrEmptyText    = errors.New("text to synthesise is empty")
	ErrUnknownVoice = errors.New("unknown voice")
	ErrUpstream     = errors.New("text-to-speech upstream error")
)
