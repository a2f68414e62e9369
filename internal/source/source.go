// Package source defines the external item feeds the panel polls. A source
// that is not configured is skipped silently; a source that fails a fetch
// reports the failure and leaves its stored snapshot untouched.
package source

import (
	"context"
	"fmt"

	"github.com/sandeepkv93/paneld/internal/model"
)

type Source interface {
	Name() model.Source
	Configured() bool
	Fetch(ctx context.Context) ([]model.ExternalItem, error)
}

// FailureKind is a coarse taxonomy for fetch errors. The poll loop treats
// every kind the same way (log and move on); the kind only shapes the log
// line and the status shown in the footer.
type FailureKind string

const (
	FailureNetwork   FailureKind = "network"
	FailureAuth      FailureKind = "auth"
	FailureRateLimit FailureKind = "rate_limit"
	FailureDecode    FailureKind = "decode"
)

// FetchError wraps a source failure with its kind and origin.
type FetchError struct {
	Source model.Source
	Kind   FailureKind
	Err    error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("source %s: %s: %v", e.Source, e.Kind, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

func NewFetchError(src model.Source, kind FailureKind, err error) *FetchError {
	return &FetchError{Source: src, Kind: kind, Err: err}
}
