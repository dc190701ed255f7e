package service

import "net/http"

type statusError struct {
	status  int
	message string
}

func (e *statusError) Error() string   { return e.message }
func (e *statusError) StatusCode() int { return e.status }

var (
	ErrDocumentNotFound   error = &statusError{http.StatusNotFound, "document not found"}
	ErrFontNotFound       error = &statusError{http.StatusNotFound, "font not found"}
	ErrSessionNotFound    error = &statusError{http.StatusNotFound, "editor session not found"}
	ErrUnsupportedLocale  error = &statusError{http.StatusBadRequest, "unsupported locale"}
	ErrInvalidSlug        error = &statusError{http.StatusBadRequest, "invalid slug"}
	ErrDocumentUnreadable error = &statusError{http.StatusUnprocessableEntity, "stored document cannot be edited"}
)
