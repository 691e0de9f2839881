package model

import "errors"

var (
	// ErrNotFound is returned by stores when nothing matched the lookup.
	ErrNotFound = errors.New("not found")
	// ErrNotAuthorized is returned when the caller may not touch the recipe.
	// Missing and foreign recipes both map to it.
	ErrNotAuthorized = errors.New("not authorized")
	// ErrInvalidMimeType is returned for uploads outside the image allow-list.
	ErrInvalidMimeType = errors.New("invalid mime type")
	// ErrInvalidInput wraps request validation failures.
	ErrInvalidInput = errors.New("invalid input")
	// ErrEmailTaken is returned on signup with an already registered email.
	ErrEmailTaken = errors.New("email is already taken")
	// ErrInvalidCredentials is returned on login with unknown email or wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")
)
