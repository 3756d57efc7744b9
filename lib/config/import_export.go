// SPDX-License-Identifier: MIT
// Copyright (c) 2020 Brian Starkey <stark3y@gmail.com>
package config

import (
	"io"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
)

func (c *Config) validate() error {
	for _, dev := range c.Devices {
		if err := dev.validate(); err != nil {
			return err
		}
	}
	return nil
}

func (c *Config) WriteTOML(w io.Writer) error {
	enc := toml.NewEncoder(w)
	return enc.Encode(c)
}

// Decode parses device profiles from TOML and merges them over the
// built-in ones.
func Decode(data string) (*Config, error) {
	var file Config
	_, err := toml.Decode(data, &file)
	if err != nil {
		return nil, errors.Wrap(err, "Parsing config")
	}

	return load(&file)
}

// LoadConfig is Decode for a file on disk.
func LoadConfig(filename string) (*Config, error) {
	var file Config
	_, err := toml.DecodeFile(filename, &file)
	if err != nil {
		return nil, errors.Wrap(err, "Loading config")
	}

	return load(&file)
}

func load(file *Config) (*Config, error) {
	err := file.validate()
	if err != nil {
		return nil, err
	}

	cfg := Default()
	cfg.merge(file)

	return cfg, nil
}
