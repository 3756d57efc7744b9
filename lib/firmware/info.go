// SPDX-License-Identifier: MIT
// Copyright (c) 2020 Brian Starkey <stark3y@gmail.com>
package firmware

import (
	"fmt"
	"hash/crc32"
)

type Info struct {
	Size     int    `toml:"size"`
	Capacity int64  `toml:"capacity"`
	Free     int64  `toml:"free"`
	CRC16    uint16 `toml:"crc16"`
	CRC32    uint32 `toml:"crc32"`
}

func (fw *Firmware) Info(limit int64) *Info {
	return &Info{
		Size:     len(fw.data),
		Capacity: limit,
		Free:     limit - int64(len(fw.data)),
		CRC16:    fw.Checksum(),
		CRC32:    crc32.Checksum(fw.data, crc32.IEEETable),
	}
}

func (i *Info) String() string {
	var s string
	s += "Firmware:\n"
	s += fmt.Sprintf("   Size: %d (0x%x) bytes\n", i.Size, i.Size)
	s += fmt.Sprintf("   Free: %d of %d bytes\n", i.Free, i.Capacity)
	s += fmt.Sprintf("   CRC16: 0x%04x\n", i.CRC16)
	s += fmt.Sprintf("   CRC32: 0x%08x\n", i.CRC32)
	return s
}
