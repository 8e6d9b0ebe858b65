package service

import (
	"errors"

	"theraplay/internal/repository"
)

var (
	// ErrReportNotFound is returned when an operation targets a report that does not exist
	ErrReportNotFound = errors.New("report not found")

	// ErrNotReportOwner is returned when a doctor acts on a report owned by another doctor
	ErrNotReportOwner = errors.New("doctor does not own this report")

	// ErrAlreadyReviewed is returned when a report's review transition is attempted twice
	ErrAlreadyReviewed = errors.New("report has already been reviewed")

	// ErrNoGamesSelected is returned when a report is built with an empty game selection
	ErrNoGamesSelected = errors.New("at least one game must be selected")

	// ErrSerialization is returned when report content cannot be encoded or decoded.
	// Shares identity with the repository sentinel so errors.Is works across layers.
	ErrSerialization = repository.ErrSerialization
)
