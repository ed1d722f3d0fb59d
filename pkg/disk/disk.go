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

package disk

import (
	"fmt"
)

//
const (
	// MaxBytesOnTrack is the capacity of the backing array of one halftrack.
	// It exceeds the longest nominal track length to leave headroom for
	// overlong tracks from bitstream images.
	MaxBytesOnTrack = 7928

	// MaxBitsOnTrack is the bit capacity of one halftrack.
	MaxBitsOnTrack = MaxBytesOnTrack * 8

	// GapByte is the standard inter-block filler byte.
	GapByte = 0x55
)

/*
	Disk is the magnetic surface of a floppy disk, stored as one bit array
	per halftrack. A halftrack is a ring: head positions wrap modulo the
	track's length in bits. Indexes into data and length run from 1 through
	NumHalftracks, index 0 is padding.

	Head positions passed to the exported read/write methods are wrapped
	into [0, length) first. The unexported variants require a valid position
	and panic otherwise; that is a programming error, not a data error.
*/
type Disk struct {
	//
	data   [NumHalftracks + 1][MaxBytesOnTrack]byte
	length [NumHalftracks + 1]int
	//
	writeProtected bool
	modified       bool
}

// NewDisk creates an empty, freshly formatted-blank surface with default
// track lengths.
func NewDisk() *Disk {
	d := &Disk{}
	d.Clear()
	d.modified = false
	return d
}

//
func (d *Disk) IsWriteProtected() bool {
	return d.writeProtected
}

//
func (d *Disk) SetWriteProtected(b bool) {
	d.writeProtected = b
}

//
func (d *Disk) IsModified() bool {
	return d.modified
}

//
func (d *Disk) SetModified(b bool) {
	d.modified = b
}

// LengthOfHalftrack returns the length of the given halftrack in bits.
func (d *Disk) LengthOfHalftrack(ht int) int {
	return d.length[ht]
}

// LengthOfTrack returns the length of the given full track in bits.
func (d *Disk) LengthOfTrack(t int) int {
	return d.length[HalftrackOf(t)]
}

// SetLengthOfHalftrack sets the bit length of a halftrack. The length must
// not exceed the backing array.
func (d *Disk) SetLengthOfHalftrack(ht, bits int) {
	if bits < 0 || bits > MaxBitsOnTrack {
		panic(fmt.Sprintf("invalid halftrack length %d", bits))
	}
	d.length[ht] = bits
}

// IsValidHeadPos reports whether pos lies inside the given halftrack.
func (d *Disk) IsValidHeadPos(ht, pos int) bool {
	return IsHalftrackNumber(ht) && 0 <= pos && pos < d.length[ht]
}

// Wrap folds a wrapped-over head position back into [0, length).
func (d *Disk) Wrap(ht, pos int) int {
	l := d.length[ht]
	if pos < 0 {
		return pos + l
	}
	if pos >= l {
		return pos - l
	}
	return pos
}

// readBit expects pos inside the halftrack bounds.
func (d *Disk) readBit(ht, pos int) byte {
	if !d.IsValidHeadPos(ht, pos) {
		panic(fmt.Sprintf("invalid head position %d:%d", ht, pos))
	}
	if d.data[ht][pos/8]&(0x80>>(pos%8)) != 0 {
		return 1
	}
	return 0
}

// ReadBit reads a single bit from a halftrack, wrapping pos first.
func (d *Disk) ReadBit(ht, pos int) byte {
	return d.readBit(ht, d.Wrap(ht, pos))
}

// writeBit expects pos inside the halftrack bounds.
func (d *Disk) writeBit(ht, pos int, bit bool) {
	if !d.IsValidHeadPos(ht, pos) {
		panic(fmt.Sprintf("invalid head position %d:%d", ht, pos))
	}
	if bit {
		d.data[ht][pos/8] |= 0x80 >> (pos % 8)
	} else {
		d.data[ht][pos/8] &^= 0x80 >> (pos % 8)
	}
	d.modified = true
}

// WriteBit writes a single bit to a halftrack, wrapping pos first.
func (d *Disk) WriteBit(ht, pos int, bit bool) {
	d.writeBit(ht, d.Wrap(ht, pos), bit)
}

// WriteBitToTrack writes a single bit to a full track.
func (d *Disk) WriteBitToTrack(t, pos int, bit bool) {
	d.WriteBit(HalftrackOf(t), pos, bit)
}

// WriteBits writes the same bit count times, starting at pos.
func (d *Disk) WriteBits(ht, pos int, bit bool, count int) {
	for i := 0; i < count; i++ {
		d.WriteBit(ht, pos+i, bit)
	}
}

// WriteBitsToTrack writes the same bit count times to a full track.
func (d *Disk) WriteBitsToTrack(t, pos int, bit bool, count int) {
	d.WriteBits(HalftrackOf(t), pos, bit, count)
}

// WriteByte writes eight bits MSB first, starting at pos.
func (d *Disk) WriteByte(ht, pos int, value byte) {
	for mask := byte(0x80); mask != 0; mask >>= 1 {
		d.WriteBit(ht, pos, value&mask != 0)
		pos++
	}
}

// WriteByteToTrack writes eight bits MSB first to a full track.
func (d *Disk) WriteByteToTrack(t, pos int, value byte) {
	d.WriteByte(HalftrackOf(t), pos, value)
}

// ReadByteFrom reads eight bits MSB first, starting at pos.
func (d *Disk) ReadByteFrom(ht, pos int) byte {
	var v byte
	for i := 0; i < 8; i++ {
		v = v<<1 | d.ReadBit(ht, pos+i)
	}
	return v
}

// WriteGap fills length gap bytes, starting at pos.
func (d *Disk) WriteGap(ht, pos, length int) {
	for i := 0; i < length; i++ {
		d.WriteByte(ht, pos, GapByte)
		pos += 8
	}
}

// WriteGapToTrack fills length gap bytes on a full track.
func (d *Disk) WriteGapToTrack(t, pos, length int) {
	d.WriteGap(HalftrackOf(t), pos, length)
}

// writeGCRByte writes the 10 bit GCR representation of value, MSB first.
func (d *Disk) writeGCRByte(ht, pos int, value byte) {
	enc := EncodeByte(value)
	for i := 9; i >= 0; i-- {
		d.WriteBit(ht, pos, enc&(1<<i) != 0)
		pos++
	}
}

// WriteGCRByteToTrack writes the 10 bit GCR representation of value to a
// full track.
func (d *Disk) WriteGCRByteToTrack(t, pos int, value byte) {
	d.writeGCRByte(HalftrackOf(t), pos, value)
}

// ClearHalftrack erases a single halftrack and resets it to its default
// length.
func (d *Disk) ClearHalftrack(ht int) {
	d.data[ht] = [MaxBytesOnTrack]byte{}
	d.length[ht] = Defaults(TrackOf(ht)).LengthInBits
}

// Clear reverts the surface to a factory-new disk. All data is erased and
// all tracks get their default lengths. The write protection mark is left
// alone, it belongs to the host, not to the surface.
func (d *Disk) Clear() {
	for ht := 1; ht <= NumHalftracks; ht++ {
		d.ClearHalftrack(ht)
	}
	d.modified = true
}

// HalftrackIsEmpty reports whether a halftrack carries no data at all. This
// scans the whole track; do not call it per bit.
func (d *Disk) HalftrackIsEmpty(ht int) bool {
	for _, b := range d.data[ht] {
		if b != 0 {
			return false
		}
	}
	return true
}

// TrackIsEmpty reports whether a full track carries no data at all.
func (d *Disk) TrackIsEmpty(t int) bool {
	return d.HalftrackIsEmpty(HalftrackOf(t))
}

// CopyFrom replaces this surface with the contents of another disk. The
// write protection mark is copied as well; the modified flag is cleared,
// the copy reflects what is on file.
func (d *Disk) CopyFrom(other *Disk) {
	d.data = other.data
	d.length = other.length
	d.writeProtected = other.writeProtected
	d.modified = false
}
