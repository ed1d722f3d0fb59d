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

//
const (
	// BlockSize is the payload size of one sector.
	BlockSize = 256

	// BlockPayload is the number of file bytes per block; the first two
	// bytes hold the chain link.
	BlockPayload = BlockSize - 2

	// DirTrack holds the BAM and the directory chain.
	DirTrack = 18
)

// Block is one 256 byte sector of the filesystem.
type Block struct {
	Nr   int
	Data [BlockSize]byte
}

// NextLink returns the chain link stored in the first two bytes. A track
// of zero marks the end of a chain; the sector byte then holds the index
// of the last used payload byte.
func (b *Block) NextLink() (t, s int) {
	return int(b.Data[0]), int(b.Data[1])
}

//
func (b *Block) SetNextLink(t, s int) {
	b.Data[0] = byte(t)
	b.Data[1] = byte(s)
}

// BlockNr translates a track/sector pair into a linear block number.
func BlockNr(t, s int) int {
	return disk.Defaults(t).FirstSector + s
}

// TSLink translates a linear block number back into a track/sector pair.
func TSLink(nr int) (t, s int) {
	for t = 1; t < disk.NumTracks; t++ {
		if nr < disk.Defaults(t+1).FirstSector {
			break
		}
	}
	return t, nr - disk.Defaults(t).FirstSector
}

// NumBlocks returns the total block count of an image with the given
// number of tracks.
func NumBlocks(tracks int) int {
	return disk.Defaults(tracks).FirstSector + disk.SectorsInTrack(tracks)
}
