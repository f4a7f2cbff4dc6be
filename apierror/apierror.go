// Package apierror maps domain failures onto HTTP responses.
package apierror

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

type Error struct {
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, message string) *Error {
	return &Error{Status: status, Message: message}
}

func Unauthorized(message string) *Error { return New(http.StatusUnauthorized, message) }
func Forbidden(message string) *Error    { return New(http.StatusForbidden, message) }
func Validation(message string) *Error   { return New(http.StatusBadRequest, message) }
func NotFound(message string) *Error     { return New(http.StatusNotFound, message) }
func Conflict(message string) *Error     { return New(http.StatusConflict, message) }

// Precondition is used when a referenced row is missing or still linked.
func Precondition(message string) *Error {
	return New(http.StatusPreconditionFailed, message)
}

// Internal wraps an unexpected failure. Only message is shown to clients.
func Internal(message string, err error) *Error {
	return &Error{Status: http.StatusInternalServerError, Message: message, Err: err}
}

// Status returns the HTTP status for err, 500 for anything unrecognised.
func Status(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

// IsDuplicateKey reports whether err is a unique constraint violation.
func IsDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// IsForeignKeyViolation reports whether err is a foreign key violation.
func IsForeignKeyViolation(err error) bool {
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}

// Respond logs err under tag and writes {"error": message}.
func Respond(c *gin.Context, tag string, err error) {
	status := Status(err)
	message := "Internal error"

	var apiErr *Error
	switch {
	case errors.As(err, &apiErr):
		message = apiErr.Message
	case errors.Is(err, gorm.ErrRecordNotFound):
		message = "Not found"
	}

	if status >= http.StatusInternalServerError {
		log.Printf("%s %v", tag, err)
	}
	c.AbortWithStatusJSON(status, gin.H{"error": message})
}
