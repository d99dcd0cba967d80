package service

import "errors"

var (
	// ErrEmptyInput is returned for blank user input.
	ErrEmptyInput = errors.New("service: input cannot be empty")
	// ErrPlaceNotFound is returned when a manually entered place can't be resolved.
	ErrPlaceNotFound = errors.New("service: place not found")
	// ErrTurnInProgress is returned when a message arrives while a reply is still streaming.
	ErrTurnInProgress = errors.New("service: assistant reply in progress")
)
