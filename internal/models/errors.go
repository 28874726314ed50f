package models

import (
	"errors"
)

var (
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
	ErrValidation = errors.New("validation error")

	ErrEmptyCatalog = errors.New("content catalog is empty")
	ErrNoDataset    = errors.New("no dataset loaded")
)
