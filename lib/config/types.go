// SPDX-License-Identifier: MIT
// Copyright (c) 2020 Brian Starkey <stark3y@gmail.com>
package config

import (
	"fmt"
	"sort"

	"github.com/mkroman/evic/lib/firmware"
	"github.com/pkg/errors"
)

const DefaultDevice = "vtcmini"

type Device struct {
	ID      string `toml:"id"`
	Name    string `toml:"name,omitempty"`
	ROMSize int64  `toml:"rom_size"`
}

func (d *Device) String() string {
	var s string
	s += "Device:\n"
	s += fmt.Sprintf("   ID: %s\n", d.ID)
	if len(d.Name) > 0 {
		s += fmt.Sprintf("   Name: %s\n", d.Name)
	}
	s += fmt.Sprintf("   ROM: %d (0x%x) bytes\n", d.ROMSize, d.ROMSize)
	return s
}

func (d *Device) validate() error {
	if len(d.ID) == 0 {
		return errors.New("device has no id")
	}
	if d.ROMSize <= 0 {
		return fmt.Errorf("device '%s': invalid rom_size %d", d.ID, d.ROMSize)
	}
	// Profiles may only shrink the ROM, never grow it
	if d.ROMSize > firmware.ROMSize {
		return fmt.Errorf("device '%s': rom_size %d exceeds the maximum of %d", d.ID, d.ROMSize, firmware.ROMSize)
	}
	return nil
}

type Config struct {
	Devices []*Device `toml:"device,omitempty"`
}

// Default returns the built-in device profiles.
func Default() *Config {
	return &Config{
		Devices: []*Device{
			&Device{
				ID:      DefaultDevice,
				Name:    "eVic VTC Mini",
				ROMSize: firmware.ROMSize,
			},
		},
	}
}

func (c *Config) Lookup(id string) (*Device, error) {
	for _, dev := range c.Devices {
		if dev.ID == id {
			return dev, nil
		}
	}

	return nil, fmt.Errorf("unknown device '%s'", id)
}

// merge adds the devices from other, replacing any with the same ID.
func (c *Config) merge(other *Config) {
	for _, dev := range other.Devices {
		replaced := false
		for i, have := range c.Devices {
			if have.ID == dev.ID {
				c.Devices[i] = dev
				replaced = true
				break
			}
		}
		if !replaced {
			c.Devices = append(c.Devices, dev)
		}
	}

	sort.SliceStable(c.Devices, func(i, j int) bool {
		return c.Devices[i].ID < c.Devices[j].ID
	})
}
