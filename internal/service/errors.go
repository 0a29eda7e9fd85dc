package service

import "errors"

var (
	// ErrLoad is matched by every *LoadError.
	ErrLoad = errors.New("failed to load products")
	// ErrCatalogNotReady is returned by AddToCart before the catalog has loaded.
	ErrCatalogNotReady = errors.New("catalog not loaded")
	// ErrUnknownProduct is returned by AddToCart for an ID missing from the catalog.
	ErrUnknownProduct = errors.New("unknown product")
)

// LoadError is the terminal failure of a session's catalog fetch.
type LoadError struct {
	cause error
}

// Message is the fixed text shown to the user in place of the catalog.
func (e *LoadError) Message() string {
	return ErrLoad.Error()
}

func (e *LoadError) Error() string {
	if e.cause == nil {
		return ErrLoad.Error()
	}
	return ErrLoad.Error() + ": " + e.cause.Error()
}

func (e *LoadError) Unwrap() error { return e.cause }

func (e *LoadError) Is(target error) bool { return target == ErrLoad }
