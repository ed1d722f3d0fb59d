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

	log "github.com/sirupsen/logrus"
)

//
const (
	headerBlockBits = 10 * 10
	dataBlockBits   = 10 * 260
)

// SectorError records a recoverable decode failure for a single sector.
// Other sectors of the same disk may still decode fine.
type SectorError struct {
	Track  int
	Sector int
	Code   byte
	Reason string
}

//
func (e SectorError) Error() string {
	return fmt.Sprintf("track %d, sector %d: %s", e.Track, e.Sector, e.Reason)
}

// sectorWindow holds the discovered bit offsets of one sector's blocks
// within an unrolled halftrack.
type sectorWindow struct {
	headerBegin, headerEnd int
	dataBegin, dataEnd     int
}

/*
	Analyzer decodes the GCR bitstream of a disk surface back into logical
	sector bytes. It works on an unrolled copy of each halftrack (each bit
	one byte, track doubled) so that blocks wrapping around the index hole
	need no special treatment.
*/
type Analyzer struct {
	//
	length [NumHalftracks + 1]int
	bits   [NumHalftracks + 1][]byte
	//
	windows [MaxSectors]sectorWindow
	errors  []SectorError
}

// NewAnalyzer unrolls the surface of d for decoding. The drive owning d
// must be in a stable, non-spinning state while this runs.
func NewAnalyzer(d *Disk) *Analyzer {

	a := &Analyzer{}

	for ht := 1; ht <= NumHalftracks; ht++ {

		l := d.length[ht]
		a.length[ht] = l

		// headroom behind the unrolled copy keeps block reads near the end
		// of the second revolution in bounds
		a.bits[ht] = make([]byte, 2*l+dataBlockBits)

		for i := 0; i < l; i++ {
			a.bits[ht][i] = d.readBit(ht, i)
		}
		copy(a.bits[ht][l:2*l], a.bits[ht][:l])
	}

	return a
}

// Errors returns the per-sector errors collected so far.
func (a *Analyzer) Errors() []SectorError {
	return a.errors
}

//
func (a *Analyzer) logError(t, s int, code byte, format string,
	args ...interface{}) {

	e := SectorError{
		Track:  t,
		Sector: s,
		Code:   code,
		Reason: fmt.Sprintf(format, args...),
	}
	log.Warnf("decode: %v", e)
	a.errors = append(a.errors, e)
}

// decodeByteAt decodes 10 unrolled bits into a byte, high codeword first.
func (a *Analyzer) decodeByteAt(ht, pos int) (byte, bool) {

	var v uint16
	for i := 0; i < 10; i++ {
		v = v<<1 | uint16(a.bits[ht][pos+i])
	}

	return DecodeByte(v)
}

/*
	DecodeDisk converts the surface into a sector-linear byte stream in D64
	order and returns it together with the per-sector errors encountered.
	Undecodable sectors are left zero-filled in the stream; decoding only
	fails entirely when not a single sector could be recovered.
*/
func (a *Analyzer) DecodeDisk() ([]byte, []SectorError, error) {

	numTracks := StandardTracks
	for ht := 2*StandardTracks + 1; ht <= NumHalftracks; ht++ {
		if a.length[ht] > 0 && !a.halftrackIsEmpty(ht) {
			numTracks = NumTracks
			break
		}
	}

	dest := make([]byte, Defaults(numTracks).FirstSector*256+
		SectorsInTrack(numTracks)*256)
	decoded := 0

	for t := 1; t <= numTracks; t++ {
		decoded += a.decodeTrack(t, dest[Defaults(t).FirstSector*256:])
	}

	if decoded == 0 {
		return nil, a.errors, fmt.Errorf("no valid sectors on disk")
	}

	return dest, a.errors, nil
}

//
func (a *Analyzer) halftrackIsEmpty(ht int) bool {
	for _, b := range a.bits[ht][:a.length[ht]] {
		if b != 0 {
			return false
		}
	}
	return true
}

// decodeTrack decodes all sectors of a track into dest and returns the
// number of sectors recovered.
func (a *Analyzer) decodeTrack(t int, dest []byte) int {

	a.analyzeHalftrack(HalftrackOf(t))

	decoded := 0
	for s := 0; s < SectorsInTrack(t); s++ {
		if a.decodeSector(t, s, dest[s*256:]) {
			decoded++
		}
	}

	return decoded
}

/*
	analyzeHalftrack scans the unrolled bitstream for sync runs, classifies
	the block behind each run by its ID byte, and records the bit windows of
	every sector's header and data block in a.windows.
*/
func (a *Analyzer) analyzeHalftrack(ht int) {

	a.windows = [MaxSectors]sectorWindow{}
	l := a.length[ht]
	if l == 0 {
		return
	}

	// a block starts where a run of ten or more one-bits ends
	blockID := make(map[int]byte)
	ones := 0
	for i := 0; i < 2*l-10; i++ {
		if a.bits[ht][i] == 0 && ones >= 10 {
			if id, ok := a.decodeByteAt(ht, i); ok {
				blockID[i] = id
			}
		}
		if a.bits[ht][i] != 0 {
			ones++
		} else {
			ones = 0
		}
	}

	// locate the first header block
	start := 0
	for ; start < l; start++ {
		if blockID[start] == 0x08 {
			break
		}
	}
	if start == l {
		return
	}

	// walk one full revolution, pairing header and data blocks
	sector := -1
	for i := start; i < start+l; i++ {

		switch blockID[i] {

		case 0x08:
			s, ok := a.decodeByteAt(ht, i+20)
			if !ok || int(s) >= SectorsInHalftrack(ht) {
				sector = -1
				continue
			}
			sector = int(s)
			if a.windows[sector].headerEnd != 0 {
				return // seen before, we are around
			}
			a.windows[sector].headerBegin = i
			a.windows[sector].headerEnd = i + headerBlockBits

		case 0x07:
			if sector >= 0 {
				a.windows[sector].dataBegin = i
				a.windows[sector].dataEnd = i + dataBlockBits
			}
		}
	}
}

/*
	decodeSector decodes the 256 payload bytes of one sector into dest,
	verifying the header and data checksums. Failures are recorded as
	SectorErrors; the caller keeps going with the other sectors.
*/
func (a *Analyzer) decodeSector(t, s int, dest []byte) bool {

	ht := HalftrackOf(t)
	w := a.windows[s]

	if w.headerBegin == w.headerEnd {
		a.logError(t, s, ErrHeaderBlockNotFound, "no header block found")
		return false
	}

	if err := a.checkHeader(ht, t, s, w.headerBegin); err != nil {
		a.logError(t, s, ErrHeaderBlockChecksum, "%v", err)
		// a bad header checksum does not keep us from reading the data
	}

	if w.dataBegin == w.dataEnd {
		a.logError(t, s, ErrDataBlockNotFound, "no data block found")
		return false
	}

	pos := w.dataBegin + 10 // skip the block ID
	checksum := byte(0)

	for i := 0; i < 256; i++ {
		b, ok := a.decodeByteAt(ht, pos)
		if !ok {
			a.logError(t, s, ErrDataBlockChecksum,
				"invalid GCR codeword at bit %d", pos)
			return false
		}
		dest[i] = b
		checksum ^= b
		pos += 10
	}

	stored, ok := a.decodeByteAt(ht, pos)
	if !ok || stored != checksum {
		a.logError(t, s, ErrDataBlockChecksum,
			"data checksum mismatch (have %02X, want %02X)", stored, checksum)
		return false
	}

	return true
}

//
func (a *Analyzer) checkHeader(ht, t, s, begin int) error {

	pos := begin + 10

	stored, ok1 := a.decodeByteAt(ht, pos)
	sec, ok2 := a.decodeByteAt(ht, pos+10)
	trk, ok3 := a.decodeByteAt(ht, pos+20)
	id2, ok4 := a.decodeByteAt(ht, pos+30)
	id1, ok5 := a.decodeByteAt(ht, pos+40)

	if !(ok1 && ok2 && ok3 && ok4 && ok5) {
		return fmt.Errorf("invalid GCR codeword in header block")
	}

	if checksum := id1 ^ id2 ^ trk ^ sec; checksum != stored {
		return fmt.Errorf(
			"header checksum mismatch (have %02X, want %02X)", stored, checksum)
	}

	return nil
}

// DiskName extracts the disk name from the BAM sector of the directory
// track, PETSCII padding stripped.
func (a *Analyzer) DiskName() string {

	var bam [256]byte
	a.analyzeHalftrack(HalftrackOf(18))
	if !a.decodeSector(18, 0, bam[:]) {
		return ""
	}

	name := make([]byte, 0, 16)
	for i := 0x90; i < 0xA0; i++ {
		if bam[i] == 0xA0 {
			break
		}
		name = append(name, bam[i])
	}

	return string(name)
}
