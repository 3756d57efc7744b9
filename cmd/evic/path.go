// SPDX-License-Identifier: MIT
// Copyright (c) 2020 Brian Starkey <stark3y@gmail.com>
package main

import (
	"path/filepath"
	"strings"
)

const (
	defaultStem = "firmware"
	defaultExt  = "bin"
)

// SuffixedPath inserts suffix between the file name and its extension,
// using defaultExt when the input has none.
func SuffixedPath(path, suffix string) string {
	dir, base := filepath.Split(path)

	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	ext = strings.TrimPrefix(ext, ".")

	// Dotfiles like ".bin" have no stem
	if len(stem) == 0 {
		stem, ext = base, ""
	}
	if len(stem) == 0 {
		stem = defaultStem
	}
	if len(ext) == 0 {
		ext = defaultExt
	}

	return filepath.Join(dir, stem+suffix+"."+ext)
}
