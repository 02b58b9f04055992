package entity

import "errors"

var (
	ErrEmptyMessage     = errors.New("message is empty")
	ErrSendInProgress   = errors.New("a message is already being sent")
	ErrSessionNotFound  = errors.New("session not found")
	ErrDocumentNotFound = errors.New("document not found")
	ErrMessageNotFound  = errors.New("message not found")
	ErrUnsupportedFile  = errors.New("only PDF files are supported")
	ErrSelectionStale   = errors.New("a later selection replaced this one")
	ErrDuplicateReply   = errors.New("backend reply reuses an existing message id")
)

type ErrorKind string

const (
	ErrorNetwork           ErrorKind = "network_failure"
	ErrorUpload            ErrorKind = "upload_failure"
	ErrorResolutionMiss    ErrorKind = "resolution_miss"
	ErrorEmptyFilterResult ErrorKind = "empty_filter_result"
)

// ErrorState is the single user-visible error value.
type ErrorState struct {
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
}
