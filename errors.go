package weblocale

import "errors"

var (
	ErrNoLanguages            = errors.New("no supported languages configured")
	ErrUnknownDefaultLanguage = errors.New("default language not in supported set")
	ErrUnsupportedLanguage    = errors.New("unsupported language")
	ErrMissingLoader          = errors.New("no dataset loader configured")
	ErrMissingDocument        = errors.New("no document configured")
	ErrNotInitialized         = errors.New("localizer is not initialized")
	ErrClosed                 = errors.New("localizer is closed")
	ErrStorageUnavailable     = errors.New("preference storage unavailable")
)
