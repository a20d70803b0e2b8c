// Package apperr defines the error taxonomy shared across the engine.
package apperr

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrConflict      = errors.New("conflict")
	ErrAlreadyExists = errors.New("already exists")
)

// ConfigError reports a missing or malformed document configuration file.
// It is fatal for that document only; discovery continues with the rest.
type ConfigError struct {
	Path string
	Err  error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("document config %s: %v", e.Path, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// DiscoveryError invalidates the ordering guarantees of the whole build:
// a duplicate document prefix or a cycle in the document hierarchy.
type DiscoveryError struct {
	Prefixes []string
	Reason   string
}

func (e *DiscoveryError) Error() string {
	if len(e.Prefixes) == 0 {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Reason, strings.Join(e.Prefixes, ", "))
}

// ItemParseError reports a malformed item file. The graph builder converts
// it into an error-level issue and keeps loading the remaining items.
type ItemParseError struct {
	Path string
	UID  string
	Err  error
}

func (e *ItemParseError) Error() string {
	return fmt.Sprintf("item file %s: %v", e.Path, e.Err)
}

func (e *ItemParseError) Unwrap() error { return e.Err }
