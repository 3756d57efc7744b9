// SPDX-License-Identifier: MIT
// Copyright (c) 2020 Brian Starkey <stark3y@gmail.com>
package firmware

const keyOffset = 408376

// Key returns the keystream byte for index i of an image which is size
// bytes long.
func Key(i, size uint64) byte {
	return byte(i + keyOffset + size - size/keyOffset)
}

// xorInPlace applies the keystream for an image of length size over data.
// Running it twice with the same size restores the input.
func xorInPlace(data []byte, size uint64) {
	for i := range data {
		data[i] ^= Key(uint64(i), size)
	}
}
