package domain

import "errors"

var (
	// Common domain errors
	ErrNotFound              = errors.New("entity not found")
	ErrAlreadyExists         = errors.New("entity already exists")
	ErrInvalidArgument       = errors.New("invalid argument")
	ErrUnsupportedConversion = errors.New("unsupported conversion pair")
	ErrExternalTool          = errors.New("external tool failure")
	ErrTimeout               = errors.New("conversion timed out")
	ErrEmptyInputSet         = errors.New("merge requires at least one input")
	ErrIO                    = errors.New("i/o failure")
	ErrFileTooLarge          = errors.New("file exceeds upload limit")
	ErrNoPendingAction       = errors.New("no pending action for user")
	ErrWrongInputType        = errors.New("uploaded file does not match selected action")
)
