package entity

import "errors"

// Domain errors
var (
	// Request errors
	ErrMissingQuestion = errors.New("question is required")
	ErrInvalidHistory  = errors.New("invalid chat history")

	// File errors
	ErrInvalidFile       = errors.New("invalid file")
	ErrFileTooLarge      = errors.New("file too large")
	ErrTooManyFiles      = errors.New("too many files")
	ErrInvalidExtension  = errors.New("invalid file extension")
	ErrTotalSizeTooLarge = errors.New("total file size too large")

	// Configuration errors
	ErrMissingSearchTarget = errors.New("no document index serving config configured")
	ErrMissingCredentials  = errors.New("no credentials available for document index")

	// Search errors
	ErrTargetNotFound = errors.New("serving config not found")

	// Generation errors
	ErrStreamInterrupted = errors.New("generation stream interrupted")
	ErrEmptyCompletion   = errors.New("generation returned no choices")

	// Validation errors
	ErrMissingField  = errors.New("required field is missing")
	ErrInvalidFormat = errors.New("invalid format")
)
