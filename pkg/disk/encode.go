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
	log "github.com/sirupsen/logrus"
)

/*
	SectorSource is what the track encoder needs from a filesystem or sector
	image: the two disk ID bytes, the 256 byte payload of each sector, and
	the error code to reproduce for it. Error codes follow the D64
	convention; SectorOK means the sector is healthy.
*/
type SectorSource interface {
	//
	NumTracks() int

	//
	DiskID() (byte, byte)

	// ReadSector returns the 256 payload bytes of the given sector
	ReadSector(t, s int) []byte

	// ErrorCode returns the D64 error code to reproduce for the given sector
	ErrorCode(t, s int) byte
}

// D64 sector error codes. Some D64 files carry one of these per sector;
// the encoder reproduces them on the surface where possible.
const (
	SectorOK                 = 0x1
	ErrHeaderBlockNotFound   = 0x2
	ErrNoSyncSequence        = 0x3
	ErrDataBlockNotFound     = 0x4
	ErrDataBlockChecksum     = 0x5
	ErrWriteProtectOn        = 0x8
	ErrHeaderBlockChecksum   = 0x9
	ErrDiskIDMismatch        = 0xB
	ErrDriveNotReady         = 0xF
)

// Per speed zone: track length in bits for encoding, and the tail gap in
// bytes behind even and odd sectors. The even/odd asymmetry compensates the
// head skew accumulated by the interleaved logical sector numbering; disks
// are only byte-identical to originals when it is reproduced exactly.
var (
	encodedTrackLength = [4]int{6250 * 8, 6666 * 8, 7142 * 8, 7692 * 8}
	tailGapEven        = [4]int{9, 12, 17, 8}
	tailGapOdd         = [4]int{9, 11, 13, 10}
)

/*
	Encode writes the sectors of src onto the surface as a GCR bitstream,
	with sync runs, header and data blocks, checksums and gaps. When
	alignTracks is set, the first sector of each track starts at the track's
	stagger position instead of position zero.
*/
func (d *Disk) Encode(src SectorSource, alignTracks bool) {

	numTracks := src.NumTracks()

	for t := 1; t <= numTracks; t++ {

		zone := SpeedZoneOfTrack(t)
		d.length[HalftrackOf(t)] = encodedTrackLength[zone]

		start := 0
		if alignTracks {
			start = int(float64(encodedTrackLength[zone]) * Defaults(t).Stagger)
		}

		bits := d.encodeTrack(src, t, start)
		log.Debugf("encoded track %d with %d bits", t, bits)
	}

	// remaining halftracks stay empty
	for ht := 2 * numTracks; ht <= NumHalftracks; ht++ {
		d.ClearHalftrack(ht)
	}

	d.modified = true
}

// encodeTrack lays out all sectors of a track in ascending order, starting
// at head position start. Returns the number of encoded bits.
func (d *Disk) encodeTrack(src SectorSource, t, start int) int {

	totalBits := 0
	offset := start

	for s := 0; s < SectorsInTrack(t); s++ {
		bits := d.encodeSector(src, t, s, offset)
		offset += bits
		totalBits += bits
	}

	return totalBits
}

/*
	encodeSector translates the logical bytes of a single sector into the
	drive's native representation:

	    sync, header (08 cksum s t id2 id1 0F 0F), header gap,
	    sync, data (07, 256 bytes, cksum, 00 00), tail gap

	The requested error code is baked into the stream the same way a faulty
	drive would have produced it.
*/
func (d *Disk) encodeSector(src SectorSource, t, s, start int) int {

	offset := start
	errorCode := src.ErrorCode(t, s)

	id1, id2 := src.DiskID()
	checksum := id1 ^ id2 ^ byte(t) ^ byte(s)

	// header sync; a "no sync" error gets zeroes instead
	d.WriteBitsToTrack(t, offset, errorCode != ErrNoSyncSequence, 40)
	offset += 40

	// header block ID
	if errorCode == ErrHeaderBlockNotFound {
		d.WriteGCRByteToTrack(t, offset, 0x00)
	} else {
		d.WriteGCRByteToTrack(t, offset, 0x08)
	}
	offset += 10

	// header checksum
	if errorCode == ErrHeaderBlockChecksum {
		d.WriteGCRByteToTrack(t, offset, checksum^0xFF)
	} else {
		d.WriteGCRByteToTrack(t, offset, checksum)
	}
	offset += 10

	// sector and track number
	d.WriteGCRByteToTrack(t, offset, byte(s))
	offset += 10
	d.WriteGCRByteToTrack(t, offset, byte(t))
	offset += 10

	// disk ID, low byte first
	if errorCode == ErrDiskIDMismatch {
		d.WriteGCRByteToTrack(t, offset, id2^0xFF)
		offset += 10
		d.WriteGCRByteToTrack(t, offset, id1^0xFF)
		offset += 10
	} else {
		d.WriteGCRByteToTrack(t, offset, id2)
		offset += 10
		d.WriteGCRByteToTrack(t, offset, id1)
		offset += 10
	}

	// header padding
	d.WriteGCRByteToTrack(t, offset, 0x0F)
	offset += 10
	d.WriteGCRByteToTrack(t, offset, 0x0F)
	offset += 10

	// header gap
	d.WriteGapToTrack(t, offset, 9)
	offset += 9 * 8

	// data sync
	d.WriteBitsToTrack(t, offset, errorCode != ErrNoSyncSequence, 40)
	offset += 40

	// data block ID; with the error, the block becomes undiscoverable but
	// the stream stays in sync because the first GCR bit is 0
	if errorCode == ErrDataBlockNotFound {
		d.WriteGCRByteToTrack(t, offset, 0x00)
	} else {
		d.WriteGCRByteToTrack(t, offset, 0x07)
	}
	offset += 10

	// payload
	checksum = 0
	payload := src.ReadSector(t, s)
	for i := 0; i < 256; i++ {
		b := payload[i]
		checksum ^= b
		d.WriteGCRByteToTrack(t, offset, b)
		offset += 10
	}

	// data checksum
	if errorCode == ErrDataBlockChecksum {
		d.WriteGCRByteToTrack(t, offset, checksum^0xFF)
	} else {
		d.WriteGCRByteToTrack(t, offset, checksum)
	}
	offset += 10

	// data padding
	d.WriteGCRByteToTrack(t, offset, 0x00)
	offset += 10
	d.WriteGCRByteToTrack(t, offset, 0x00)
	offset += 10

	// tail gap, asymmetric between even and odd sectors
	gap := tailGapEven[SpeedZoneOfTrack(t)]
	if s%2 == 1 {
		gap = tailGapOdd[SpeedZoneOfTrack(t)]
	}
	d.WriteGapToTrack(t, offset, gap)
	offset += gap * 8

	return offset - start
}
