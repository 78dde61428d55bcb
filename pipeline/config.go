/*
NAME
  config.go

DESCRIPTION
  config.go provides the configuration settings for a pipeline Encoder or
  Decoder.

AUTHORS
  Saxon Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package pipeline orchestrates whole-sequence IAMF encoding and decoding:
// it drives AudioCodec delegates across temporal units, owns the sample
// processor state machine, and wires the default logging sink.
package pipeline

import (
	"github.com/ausocean/iamf/iamferr"
	"github.com/ausocean/iamf/obu"
	"github.com/ausocean/utils/logging"
)

// Defaults applied by NewConfig. NewDefaultLogger also substitutes the log
// rotation defaults for LogMaxSizeMB, LogMaxBackups, and LogMaxAgeDays
// values left at zero.
const (
	defaultLogMaxSizeMB  = 100
	defaultLogMaxBackups = 3
	defaultLogMaxAgeDays = 28
	defaultLogVerbosity  = logging.Info
	defaultLogSuppress   = false

	defaultPrimaryProfile    = obu.ProfileSimple
	defaultAdditionalProfile = obu.ProfileSimple
)

// Config provides parameters relevant to one Encoder or Decoder instance. A
// new Config should be passed through Validate before use; zero-valued
// fields are not implicitly defaulted except where noted.
type Config struct {
	// LogPath is the file lumberjack rotates logs into. Empty disables the
	// default file sink; callers may still supply their own Logger.
	LogPath string

	// LogMaxSizeMB, LogMaxBackups, and LogMaxAgeDays configure lumberjack's
	// rotation policy. Zero selects the package defaults.
	LogMaxSizeMB  int
	LogMaxBackups int
	LogMaxAgeDays int

	// LogVerbosity is the minimum level NewDefaultLogger logs at.
	LogVerbosity int8

	// LogSuppress is passed to logging.New as its suppress flag; when true,
	// repeated log messages are suppressed.
	LogSuppress bool

	// PrimaryProfile and AdditionalProfile populate the IA Sequence Header
	// this Encoder emits.
	PrimaryProfile    obu.Profile
	AdditionalProfile obu.Profile

	// EmitTemporalDelimiters controls whether Encoder writes a Temporal
	// Delimiter OBU ahead of each temporal unit's contents.
	EmitTemporalDelimiters bool
}

// NewConfig returns a Config with package defaults applied.
func NewConfig() *Config {
	return &Config{
		LogMaxSizeMB:      defaultLogMaxSizeMB,
		LogMaxBackups:     defaultLogMaxBackups,
		LogMaxAgeDays:     defaultLogMaxAgeDays,
		LogVerbosity:      defaultLogVerbosity,
		LogSuppress:       defaultLogSuppress,
		PrimaryProfile:    defaultPrimaryProfile,
		AdditionalProfile: defaultAdditionalProfile,
	}
}

// Validate checks c for internally inconsistent settings.
func (c *Config) Validate() error {
	if c.LogMaxSizeMB < 0 {
		return iamferr.New(iamferr.InvalidInput, "Config.Validate", "LogMaxSizeMB must be >= 0, got %d", c.LogMaxSizeMB)
	}
	if c.LogMaxBackups < 0 {
		return iamferr.New(iamferr.InvalidInput, "Config.Validate", "LogMaxBackups must be >= 0, got %d", c.LogMaxBackups)
	}
	if c.LogMaxAgeDays < 0 {
		return iamferr.New(iamferr.InvalidInput, "Config.Validate", "LogMaxAgeDays must be >= 0, got %d", c.LogMaxAgeDays)
	}
	return nil
}
