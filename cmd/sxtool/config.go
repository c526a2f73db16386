// Copyright (c) 2026, Scenex Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// config holds the tool defaults read from the optional config file
// at ~/.config/sxtool/config.toml.
type config struct {
	// LogLevel is the default log level: debug, info, warn, error.
	LogLevel string

	// UndoDepth is the document undo queue depth; 0 keeps the
	// document default.
	UndoDepth int
}

func configPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "sxtool", "config.toml"), nil
}

// loadConfig reads the config file, returning defaults when it does
// not exist.
func loadConfig() (*config, error) {
	cfg := &config{}
	path, err := configPath()
	if err != nil {
		return cfg, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, err
	}
	if err := toml.Unmarshal(b, cfg); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}
