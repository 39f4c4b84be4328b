// Package apperr defines the typed failures of the generation pipeline.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a failure by pipeline step.
type Kind string

const (
	KindUnknown        Kind = "unknown"
	KindInvalidRequest Kind = "invalid_request"
	KindAIService      Kind = "ai_service"
	KindEmptyContent   Kind = "empty_content"
	KindDeckCreation   Kind = "deck_creation"
	KindDownload       Kind = "download"
)

// Fixed user-facing messages.
const (
	MsgTitleRequired    = "Title is required"
	MsgNoContent        = "No content generated"
	MsgAIFailed         = "Failed to generate AI content"
	MsgDeckFailed       = "Failed to create PowerPoint presentation"
	MsgDownloadFailed   = "Failed to download presentation"
	MsgFilenameRequired = "No filename provided"
)

// Error is a classified failure with an optional underlying cause.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// HTTPStatus maps the kind onto a response status.
func (e *Error) HTTPStatus() int {
	switch e.Kind {
	case KindInvalidRequest:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// Retryable reports whether repeating the same request may succeed.
func (e *Error) Retryable() bool {
	return e.Kind == KindAIService
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(err error, kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func InvalidRequest(message string) *Error {
	return New(KindInvalidRequest, message)
}

func AIService(err error) *Error {
	return Wrap(err, KindAIService, MsgAIFailed)
}

func EmptyContent() *Error {
	return New(KindEmptyContent, MsgNoContent)
}

func DeckCreation(err error) *Error {
	return Wrap(err, KindDeckCreation, MsgDeckFailed)
}

func Download(err error) *Error {
	return Wrap(err, KindDownload, MsgDownloadFailed)
}

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// StatusOf returns the HTTP status for err, 500 when unclassified.
func StatusOf(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.HTTPStatus()
	}
	return http.StatusInternalServerError
}
