/*
NAME
  logging.go

DESCRIPTION
  logging.go wires the package's default logging.Logger: a lumberjack
  rotating file sink behind the ausocean/utils/logging leveled logger.

AUTHORS
  Saxon Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package pipeline

import (
	"io"

	"github.com/ausocean/utils/logging"
	"gopkg.in/natefinch/lumberjack.v2"
)

// NewDefaultLogger returns the package's standard logging.Logger: a
// lumberjack-rotated file sink at cfg.LogPath, leveled at
// cfg.LogVerbosity. If cfg.LogPath is empty, logs are discarded.
func NewDefaultLogger(cfg *Config) logging.Logger {
	var w io.Writer = io.Discard
	if cfg.LogPath != "" {
		maxSize, maxBackups, maxAge := cfg.LogMaxSizeMB, cfg.LogMaxBackups, cfg.LogMaxAgeDays
		if maxSize == 0 {
			maxSize = defaultLogMaxSizeMB
		}
		if maxBackups == 0 {
			maxBackups = defaultLogMaxBackups
		}
		if maxAge == 0 {
			maxAge = defaultLogMaxAgeDays
		}
		w = &lumberjack.Logger{
			Filename:   cfg.LogPath,
			MaxSize:    maxSize,
			MaxBackups: maxBackups,
			MaxAge:     maxAge,
		}
	}
	return logging.New(cfg.LogVerbosity, w, cfg.LogSuppress)
}
