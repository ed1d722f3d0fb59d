/*
   fd1541 - Commodore 1541 disk drive emulator
   Copyright (c) 2026, the fd1541 authors

   This file is part of fd1541.

   fd1541 is free software: you can redistribute it and/or modify
   it under the terms of the GNU General Public License as published by
   the Free Software Foundation, either version 3 of the License, or
   (at your option) any later version.

   fd1541 is distributed in the hope that it will be useful,
   but WITHOUT ANY WARRANTY; without even the implied warranty of
   MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
   GNU General Public License for more details.

   You should have received a copy of the GNU General Public License
   along with fd1541. If not, see <http://www.gnu.org/licenses/>.
*/

package dos

import (
	"github.com/fd1541/fd1541/pkg/disk"
)

/*
	The BAM (block availability map) lives in sector 0 of the directory
	track. Bytes 4 through 0x8F hold four bytes per track: a free-block
	count followed by a 24 bit little-endian bitmap, one bit per sector, a
	set bit meaning free. Byte 0x90 onward holds the disk name (16 bytes,
	0xA0 padded) and the two disk ID bytes at 0xA2/0xA3.
*/

//
const (
	bamNameOffset = 0x90
	bamIDOffset   = 0xA2
)

//
func (fs *FileSystem) bam() *Block {
	return fs.blocks[BlockNr(DirTrack, 0)]
}

// Name returns the disk name stored in the BAM.
func (fs *FileSystem) Name() string {
	b := fs.bam()
	return TrimName(b.Data[bamNameOffset:bamNameOffset+16], NamePad)
}

// SetName stores the disk name in the BAM, truncated to 16 bytes.
func (fs *FileSystem) SetName(name string) {
	b := fs.bam()
	copy(b.Data[bamNameOffset:], PadName(name, 16, NamePad))
}

// DiskID returns the two disk ID bytes.
func (fs *FileSystem) DiskID() (byte, byte) {
	b := fs.bam()
	return b.Data[bamIDOffset], b.Data[bamIDOffset+1]
}

// IsFree reports whether the given sector is marked free in the BAM.
// Sectors beyond the BAM's 35 track reach count as allocated.
func (fs *FileSystem) IsFree(t, s int) bool {
	if t > disk.StandardTracks {
		return false
	}
	b := fs.bam()
	return b.Data[4*t+1+s/8]&(1<<(s%8)) != 0
}

//
func (fs *FileSystem) markAllocated(t, s int) {
	if t > disk.StandardTracks {
		return
	}
	b := fs.bam()
	if b.Data[4*t+1+s/8]&(1<<(s%8)) != 0 {
		b.Data[4*t+1+s/8] &^= 1 << (s % 8)
		b.Data[4*t]--
	}
}

//
func (fs *FileSystem) markFree(t, s int) {
	if t > disk.StandardTracks {
		return
	}
	b := fs.bam()
	if b.Data[4*t+1+s/8]&(1<<(s%8)) == 0 {
		b.Data[4*t+1+s/8] |= 1 << (s % 8)
		b.Data[4*t]++
	}
}

// FreeBlocks counts the free blocks outside the directory track.
func (fs *FileSystem) FreeBlocks() int {
	n := 0
	b := fs.bam()
	for t := 1; t <= min(fs.numTracks, disk.StandardTracks); t++ {
		if t != DirTrack {
			n += int(b.Data[4*t])
		}
	}
	return n
}

// initBAM writes a fresh BAM for an empty disk: all sectors free except
// the BAM block and the first directory block.
func (fs *FileSystem) initBAM(name string, id1, id2 byte) {

	b := fs.bam()
	b.Data = [BlockSize]byte{}

	b.SetNextLink(DirTrack, 1)
	b.Data[2] = 0x41 // DOS version

	for t := 1; t <= min(fs.numTracks, disk.StandardTracks); t++ {
		sectors := disk.SectorsInTrack(t)
		b.Data[4*t] = byte(sectors)
		for s := 0; s < sectors; s++ {
			b.Data[4*t+1+s/8] |= 1 << (s % 8)
		}
	}

	for i := bamNameOffset; i <= 0xAA; i++ {
		b.Data[i] = NamePad
	}
	fs.SetName(name)
	b.Data[bamIDOffset] = id1
	b.Data[bamIDOffset+1] = id2
	b.Data[0xA5] = '2'
	b.Data[0xA6] = 'A'

	fs.markAllocated(DirTrack, 0)
	fs.markAllocated(DirTrack, 1)
}

//
func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
