package models

import (
	"errors"
	"fmt"
)

var (
	ErrNoFiles             = errors.New("no files in upload")
	ErrMalformedUpload     = errors.New("malformed multipart upload")
	ErrInvalidCID          = errors.New("invalid cid")
	ErrBadRequest          = errors.New("bad request")
	ErrNotFound            = errors.New("pin not found")
	ErrUpstreamUnavailable = errors.New("pinning service unavailable")
)

// UpstreamError: ответ пиннинг-сервиса со статусом вне 2xx.
type UpstreamError struct {
	StatusCode int
	Message    string
}

func (e *UpstreamError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("pinning service responded with status %d", e.StatusCode)
	}
	return fmt.Sprintf("pinning service responded with status %d: %s", e.StatusCode, e.Message)
}
