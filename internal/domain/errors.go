package domain

import "errors"

// ErrorKind classifies a pipeline failure. Client kinds map to HTTP 400,
// server kinds to HTTP 500.
type ErrorKind string

const (
	KindMissingFile         ErrorKind = "missing_file"
	KindUnsupportedType     ErrorKind = "unsupported_type"
	KindInvalidImageContent ErrorKind = "invalid_image_content"
	KindStorageUnavailable  ErrorKind = "storage_unavailable"
	KindStorageWriteFailed  ErrorKind = "storage_write_failed"
	KindVerificationFailed  ErrorKind = "verification_failed"
	KindProcessingFailed    ErrorKind = "processing_failed"
)

// ClientError reports whether the kind is the caller's fault.
func (k ErrorKind) ClientError() bool {
	switch k {
	case KindMissingFile, KindUnsupportedType, KindInvalidImageContent:
		return true
	}
	return false
}

// Error is a kind-tagged pipeline failure. Message is the caller-facing
// text; Err keeps the underlying cause for logs and never reaches callers.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return string(e.Kind) + ": " + e.Message + ": " + e.Err.Error()
	}
	return string(e.Kind) + ": " + e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError builds a kind-tagged error with a caller-facing message.
func NewError(kind ErrorKind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Err: cause}
}

// KindOf extracts the kind from an error chain. The second return is false
// for errors the pipeline did not classify.
func KindOf(err error) (ErrorKind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return "", false
}
