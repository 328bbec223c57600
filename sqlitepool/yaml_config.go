// Copyright 2026 The sqlitekit Authors
// SPDX-License-Identifier: Apache-2.0

package sqlitepool

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/lucerna-dev/sqlitekit"
)

// YAMLConfig is the on-disk shape of a pool or shared-connection
// configuration block, the same way a service loads its settings from
// a YAML file rather than building a Config literal by hand.
// LoadYAMLConfig turns this into a Config.
type YAMLConfig struct {
	Path            string `yaml:"path"`
	MaxPoolSize     int    `yaml:"max_pool_size"`
	ReadOnly        bool   `yaml:"read_only"`
	CreateIfMissing *bool  `yaml:"create_if_missing"`
	JournalWAL      bool   `yaml:"journal_wal"`
	ForeignKeys     bool   `yaml:"foreign_keys"`
	// BusyTimeout is a duration string parsed with time.ParseDuration
	// (e.g. "5s"), not a YAML native type.
	BusyTimeout string `yaml:"busy_timeout"`
}

// LoadYAMLConfig reads and parses a YAML pool configuration file at
// path.
func LoadYAMLConfig(path string) (YAMLConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return YAMLConfig{}, fmt.Errorf("sqlitepool: reading %s: %w", path, err)
	}
	var cfg YAMLConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return YAMLConfig{}, fmt.Errorf("sqlitepool: parsing %s: %w", path, err)
	}
	return cfg, nil
}

// ToConfig converts y into a Pool Config. create defaults to true when
// CreateIfMissing is unset.
func (y YAMLConfig) ToConfig() (Config, error) {
	create := true
	if y.CreateIfMissing != nil {
		create = *y.CreateIfMissing
	}
	mode := sqlitekit.OpenReadWrite(create)
	if y.ReadOnly {
		mode = sqlitekit.OpenReadOnly()
	}

	var busyTimeout time.Duration
	if y.BusyTimeout != "" {
		d, err := time.ParseDuration(y.BusyTimeout)
		if err != nil {
			return Config{}, fmt.Errorf("sqlitepool: busy_timeout: %w", err)
		}
		busyTimeout = d
	}

	return Config{
		Path:        y.Path,
		MaxPoolSize: y.MaxPoolSize,
		Mode:        mode,
		Profile: sqlitekit.PragmaProfile{
			JournalWAL:  y.JournalWAL,
			ForeignKeys: y.ForeignKeys,
			BusyTimeout: busyTimeout,
		},
	}, nil
}

// ToSharedConfig converts y into a SharedConn Config.
func (y YAMLConfig) ToSharedConfig() (SharedConfig, error) {
	c, err := y.ToConfig()
	if err != nil {
		return SharedConfig{}, err
	}
	return SharedConfig{Path: c.Path, Mode: c.Mode, Profile: c.Profile}, nil
}
