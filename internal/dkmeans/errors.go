package dkmeans

import (
	"errors"
	"fmt"

	"github.com/jmylchreest/dynpal/internal/colourspace"
)

var (
	// ErrInvalidConfig is matched by every *ConfigError.
	ErrInvalidConfig = errors.New("invalid clusterer configuration")

	// ErrInvalidSample is matched by every *InputError.
	ErrInvalidSample = errors.New("invalid sample")
)

// ConfigError reports a rejected configuration value.
type ConfigError struct {
	Field  string
	Value  any
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid %s %v: %s", e.Field, e.Value, e.Reason)
}

// Is makes errors.Is(err, ErrInvalidConfig) hold.
func (e *ConfigError) Is(target error) bool { return target == ErrInvalidConfig }

// InputError reports a sample with a channel outside 0-255.
// The clusterer is left untouched when it is returned.
type InputError struct {
	Sample  colourspace.Sample
	Channel int
}

func (e *InputError) Error() string {
	return fmt.Sprintf("sample %v: channel %d value %d outside 0-%d",
		e.Sample, e.Channel, e.Sample[e.Channel], colourspace.MaxChannel)
}

// Is makes errors.Is(err, ErrInvalidSample) hold.
func (e *InputError) Is(target error) bool { return target == ErrInvalidSample }
