package gfx

import "errors"

var (
	// ErrContextInitialized is returned by Init when a context is already installed.
	ErrContextInitialized = errors.New("gfx: context already initialized")
	// ErrLayoutNotFound is returned when a bind group layout name is not registered.
	ErrLayoutNotFound = errors.New("gfx: bind group layout not registered")
	// ErrPipelineNotFound is returned when a pipeline name is not registered.
	ErrPipelineNotFound = errors.New("gfx: render pipeline not registered")
)
