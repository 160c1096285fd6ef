package errx

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/redis/go-redis/v9"
)

const (
	// SystemErrorMessage is a user-facing fallback when internal errors occur.
	SystemErrorMessage = "internal server error"
	// UnknownNodeMessage marks a conversation graph definition bug.
	UnknownNodeMessage = "unknown conversation node"
	// ClassificationErrorMessage marks a failure inside the message classifier.
	ClassificationErrorMessage = "message classification failed"
	// GenerationErrorMessage describes generation backend failures.
	GenerationErrorMessage = "generation backend failed"
	// RedisErrorMessage describes Redis related failures.
	RedisErrorMessage = "redis operation failed"
	// RedisNotFoundMessage describes a missing Redis key.
	RedisNotFoundMessage = "redis key not found"
)

// ErrUnknownNode is matched with errors.Is for any unknown-node AppError.
var ErrUnknownNode = errors.New("unknown node")

// AppError wraps an underlying error with an HTTP status and safe message.
type AppError struct {
	Err     error
	Status  int
	Message string
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

// Unwrap exposes the underlying error for errors.Is / errors.As support.
func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError with the provided information.
func New(err error, status int, message string) *AppError {
	return &AppError{
		Err:     err,
		Status:  status,
		Message: message,
	}
}

// Internal wraps err as a 500 with the generic system message.
func Internal(err error) *AppError {
	return New(err, http.StatusInternalServerError, SystemErrorMessage)
}

// UnknownNode reports that from tried to route to a node outside its edge set.
func UnknownNode(from, to string) *AppError {
	return New(fmt.Errorf("%w: %q -> %q", ErrUnknownNode, from, to), http.StatusInternalServerError, UnknownNodeMessage)
}

// Classification wraps a classifier failure.
func Classification(err error) *AppError {
	return New(err, http.StatusInternalServerError, ClassificationErrorMessage)
}

// WrapGeneration wraps a backend error with a consistent status code and message.
func WrapGeneration(err error) error {
	if err == nil {
		return nil
	}
	return New(err, http.StatusBadGateway, GenerationErrorMessage)
}

// WrapRedis maps Redis errors to AppError with appropriate status codes.
func WrapRedis(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, redis.Nil) {
		return New(err, http.StatusNotFound, RedisNotFoundMessage)
	}
	return New(err, http.StatusBadGateway, RedisErrorMessage)
}

// StatusOf returns the HTTP status carried by err, or 500 when err is not an AppError.
func StatusOf(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Status
	}
	return http.StatusInternalServerError
}

// Is reports whether the target matches the underlying error or the AppError itself.
func (e *AppError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// As allows casting to AppError or the wrapped error in a chain.
func (e *AppError) As(target any) bool {
	if errors.As(e.Err, target) {
		return true
	}
	if t, ok := target.(**AppError); ok {
		*t = e
		return true
	}
	return false
}
