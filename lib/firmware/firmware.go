// SPDX-License-Identifier: MIT
// Copyright (c) 2020 Brian Starkey <stark3y@gmail.com>
package firmware

import (
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/sigurn/crc16"
)

// ROMSize is the capacity of the ROM in the eVic VTC Mini.
const ROMSize = 120 * 1024

var (
	ErrTooLarge = errors.New("the firmware image exceeds the device's ROM capacity")
	ErrEmpty    = errors.New("the firmware image is empty")
)

var crct = crc16.MakeTable(crc16.CRC16_XMODEM)

type Firmware struct {
	data []byte
}

// Decrypt reads the whole of rd and applies the firmware keystream to it.
// The transform is its own inverse, so the same call also encrypts.
func Decrypt(rd io.ReadSeeker) (*Firmware, error) {
	return DecryptLimit(rd, ROMSize)
}

// Encrypt is Decrypt, named for the other direction.
func Encrypt(rd io.ReadSeeker) (*Firmware, error) {
	return DecryptLimit(rd, ROMSize)
}

// DecryptLimit is Decrypt for a device with a ROM of limit bytes.
func DecryptLimit(rd io.ReadSeeker, limit int64) (*Firmware, error) {
	size, err := rd.Seek(0, io.SeekEnd)
	if err != nil {
		return nil, errors.Wrap(err, "Seeking end of firmware")
	}

	if size > limit {
		return nil, errors.Wrapf(ErrTooLarge, "%d bytes, capacity %d", size, limit)
	} else if size == 0 {
		return nil, ErrEmpty
	}

	_, err = rd.Seek(0, io.SeekStart)
	if err != nil {
		return nil, errors.Wrap(err, "Seeking start of firmware")
	}

	data := make([]byte, size)
	_, err = io.ReadFull(rd, data)
	if err != nil {
		return nil, errors.Wrap(err, "Reading firmware")
	}

	xorInPlace(data, uint64(size))

	return &Firmware{
		data: data,
	}, nil
}

// Save writes the whole firmware buffer to w. On error, whatever w received
// must be treated as invalid.
func (fw *Firmware) Save(w io.Writer) error {
	n, err := w.Write(fw.data)
	if err != nil {
		return errors.Wrap(err, "Writing firmware")
	} else if n != len(fw.data) {
		return errors.Wrap(io.ErrShortWrite, "Writing firmware")
	}

	return nil
}

func (fw *Firmware) Len() int {
	return len(fw.data)
}

func (fw *Firmware) Bytes() []byte {
	return fw.data
}

// Checksum is the CRC-16/XMODEM of the current buffer contents.
func (fw *Firmware) Checksum() uint16 {
	return crc16.Checksum(fw.data, crct)
}

// Load opens the file at path and decrypts it in memory.
func Load(path string) (*Firmware, error) {
	return LoadLimit(path, ROMSize)
}

func LoadLimit(path string, limit int64) (*Firmware, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "Opening firmware")
	}
	defer f.Close()

	return DecryptLimit(f, limit)
}
