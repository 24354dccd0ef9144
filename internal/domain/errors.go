package domain

import (
	"errors"
	"fmt"
)

// ErrNoToken is returned when no Spotify credentials have been cached yet.
var ErrNoToken = errors.New("no cached token, run the authorize command first")

// FetchError means the now-playing provider could not be reached or refused us
type FetchError struct {
	Op  string
	Err error
}

func (e *FetchError) Error() string { return fmt.Sprintf("fetch %s: %v", e.Op, e.Err) }
func (e *FetchError) Unwrap() error { return e.Err }

// DecodeError means an image was retrieved but could not be used
type DecodeError struct {
	Source string
	Err    error
}

func (e *DecodeError) Error() string { return fmt.Sprintf("decode %s: %v", e.Source, e.Err) }
func (e *DecodeError) Unwrap() error { return e.Err }

// PanelError means the display hardware rejected a clean or display call
type PanelError struct {
	Op  string
	Err error
}

func (e *PanelError) Error() string { return fmt.Sprintf("panel %s: %v", e.Op, e.Err) }
func (e *PanelError) Unwrap() error { return e.Err }

// ConfigError is fatal at startup
type ConfigError struct {
	Key string
	Err error
}

func (e *ConfigError) Error() string { return fmt.Sprintf("config %q: %v", e.Key, e.Err) }
func (e *ConfigError) Unwrap() error { return e.Err }
