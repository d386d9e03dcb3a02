package common

import "errors"

// Business logic errors
var (
	// General errors
	ErrNotFound  = errors.New("resource not found")
	ErrForbidden = errors.New("forbidden")

	// Validation errors
	ErrValidation   = errors.New("invalid input")
	ErrInvalidInput = ErrValidation

	// Content errors
	ErrContentNotFound   = errors.New("content not found")
	ErrNotArticleContent = errors.New("translations only supported for articles")
	ErrNotMediaContent   = errors.New("media only supported for video, audio and publication content")

	// Translation / version errors
	ErrTranslationNotFound = errors.New("translation not found")
	ErrTranslationExists   = errors.New("translation already exists for this language")
	ErrVersionNotFound     = errors.New("version not found")
	ErrVersionConflict     = errors.New("concurrent version write conflict")

	// Tag errors
	ErrTagNotFound  = errors.New("tag not found")
	ErrTagKeyExists = errors.New("tag with this key already exists")

	// Media errors
	ErrMediaNotFound = errors.New("media not found")

	// Webhook errors
	ErrWebhookNotFound = errors.New("webhook not found")

	// Auth errors
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
)

// IsConflict reports whether err maps to a 409 response
func IsConflict(err error) bool {
	return errors.Is(err, ErrTranslationExists) ||
		errors.Is(err, ErrTagKeyExists) ||
		errors.Is(err, ErrVersionConflict)
}

// IsNotFound reports whether err maps to a 404 response
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrContentNotFound) ||
		errors.Is(err, ErrTranslationNotFound) ||
		errors.Is(err, ErrVersionNotFound) ||
		errors.Is(err, ErrTagNotFound) ||
		errors.Is(err, ErrMediaNotFound) ||
		errors.Is(err, ErrWebhookNotFound) ||
		errors.Is(err, ErrUserNotFound)
}

// IsValidation reports whether err maps to a 400 response
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrNotArticleContent) ||
		errors.Is(err, ErrNotMediaContent)
}
