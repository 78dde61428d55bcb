/*
DESCRIPTION
  config_test.go provides testing for config.go.

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

import "testing"

func TestNewConfigValidates(t *testing.T) {
	if err := NewConfig().Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestConfigValidateRejectsNegativeLogSettings(t *testing.T) {
	cases := []struct {
		name string
		cfg  *Config
	}{
		{"negative max size", &Config{LogMaxSizeMB: -1}},
		{"negative max backups", &Config{LogMaxBackups: -1}},
		{"negative max age", &Config{LogMaxAgeDays: -1}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if err := c.cfg.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestNewDefaultLoggerDiscardsWithoutLogPath(t *testing.T) {
	l := NewDefaultLogger(NewConfig())
	if l == nil {
		t.Fatal("expected a non-nil logger even without LogPath set")
	}
}
