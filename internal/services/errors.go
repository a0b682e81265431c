// Package services defines the business logic for cities, points of interest
// and files. This file centralizes common service-level error values so that
// they can be consistently returned by service methods and checked by callers.
//
// These errors are intended for internal use by the service layer and translation
// into user-facing messages or HTTP status codes should be performed at the
// handler/controller layer.
package services

import (
	"errors"
	"strings"

	"github.com/tbourn/cityinfo-api/internal/validation"
)

var (
	// ErrCityNotFound indicates that the requested city does not exist.
	ErrCityNotFound = errors.New("city not found")

	// ErrPointOfInterestNotFound indicates that the point of interest does not
	// exist or belongs to a different city.
	ErrPointOfInterestNotFound = errors.New("point of interest not found")

	// ErrCommitFailed is returned by Create and Delete when the unit of work
	// reported that no rows were affected.
	ErrCommitFailed = errors.New("no changes were saved")

	// ErrFileNotFound is returned when a requested file is not available.
	ErrFileNotFound = errors.New("file not found")

	// ErrInvalidUpload is returned for empty, oversized, or non-PDF uploads.
	ErrInvalidUpload = errors.New("no file or an invalid one has been provided")
)

// ValidationError carries the field errors of a rejected write model or a
// patch document that could not be applied.
type ValidationError struct {
	Fields []validation.FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		if f.Field == "" {
			parts = append(parts, f.Message)
			continue
		}
		parts = append(parts, f.Field+": "+f.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}
