package models

import (
	"errors"
	"fmt"
)

// Application-wide standard errors
var (
	// Request validation
	ErrValidation        = errors.New("validation failed")
	ErrMissingGenre      = fmt.Errorf("%w: genre is required", ErrValidation)
	ErrMissingFields     = fmt.Errorf("%w: parentScreenID and choice are required", ErrValidation)
	ErrInvalidTemplate   = fmt.Errorf("%w: template key and body are required", ErrValidation)
	ErrInvalidParameters = fmt.Errorf("%w: parameters must be a non-empty object", ErrValidation)

	// Lookups
	ErrNotFound       = errors.New("resource not found")
	ErrParentNotFound = fmt.Errorf("%w: parent screen", ErrNotFound)

	// Persistence
	ErrStoreWrite      = errors.New("store write failed")
	ErrDuplicateScreen = errors.New("screen id already exists")
	ErrTemplateExists  = errors.New("template already exists")

	// Generation backends. Always recovered by the offline path.
	ErrBackend = errors.New("generation backend failed")
)
