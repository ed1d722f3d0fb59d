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

//
const (
	// DirEntrySize is the size of one directory slot.
	DirEntrySize = 32

	// DirEntriesPerBlock is the number of slots in one directory block.
	DirEntriesPerBlock = BlockSize / DirEntrySize

	// DefaultCapacity is the number of directory slots a freshly formatted
	// disk provides without growing the chain.
	DefaultCapacity = 144

	// FileTypePRG is the directory entry type byte of a closed PRG file.
	FileTypePRG = 0x82
)

// DirEntry is a view into one 32 byte directory slot. The first two bytes
// of a slot are only meaningful in the block's first slot, where they hold
// the chain link of the directory block itself.
type DirEntry []byte

//
func (e DirEntry) isEmpty() bool {
	return e[2] == 0
}

// FileType returns the entry's type byte (0x82 for a closed PRG).
func (e DirEntry) FileType() byte {
	return e[2]
}

// FirstLink returns the track/sector of the file's first data block.
func (e DirEntry) FirstLink() (t, s int) {
	return int(e[3]), int(e[4])
}

// FileName returns the entry's name, PETSCII padding stripped.
func (e DirEntry) FileName() string {
	return TrimName(e[5:5+16], NamePad)
}

// BlockCount returns the file's size in blocks as recorded in the entry.
func (e DirEntry) BlockCount() int {
	return int(e[0x1E]) | int(e[0x1F])<<8
}

//
func (e DirEntry) set(name string, t, s, blocks int) {
	e[2] = FileTypePRG
	e[3] = byte(t)
	e[4] = byte(s)
	copy(e[5:], PadName(name, 16, NamePad))
	e[0x1E] = byte(blocks)
	e[0x1F] = byte(blocks >> 8)
}

/*
	directory walks the chain of directory blocks starting at track 18,
	sector 1 and returns the occupied entries in chain order. The chain is
	bounded by the block count of the disk, so a corrupted circular chain
	cannot loop forever.
*/
func (fs *FileSystem) directory() []DirEntry {

	var entries []DirEntry

	t, s := DirTrack, 1
	for steps := 0; t != 0 && steps < len(fs.blocks); steps++ {

		b := fs.blocks[BlockNr(t, s)]
		for i := 0; i < DirEntriesPerBlock; i++ {
			e := DirEntry(b.Data[i*DirEntrySize : (i+1)*DirEntrySize])
			if !e.isEmpty() {
				entries = append(entries, e)
			}
		}

		t, s = b.NextLink()
	}

	return entries
}

// freeSlot returns the first unoccupied directory slot, or nil when the
// chain is exhausted.
func (fs *FileSystem) freeSlot() DirEntry {

	seen := 0

	t, s := DirTrack, 1
	for steps := 0; t != 0 && steps < len(fs.blocks); steps++ {

		b := fs.blocks[BlockNr(t, s)]
		for i := 0; i < DirEntriesPerBlock; i++ {
			if seen == fs.capacity {
				return nil
			}
			seen++
			e := DirEntry(b.Data[i*DirEntrySize : (i+1)*DirEntrySize])
			if e.isEmpty() {
				return e
			}
		}

		t, s = b.NextLink()
	}

	return nil
}

// growDirectory appends one block to the directory chain. Returns false
// when the directory track has no free sector left.
func (fs *FileSystem) growDirectory() bool {

	last := fs.blocks[BlockNr(DirTrack, 1)]
	for steps := 0; steps < len(fs.blocks); steps++ {
		t, s := last.NextLink()
		if t == 0 {
			break
		}
		last = fs.blocks[BlockNr(t, s)]
	}

	for s := 1; s < 19; s++ {
		if fs.IsFree(DirTrack, s) {
			fs.markAllocated(DirTrack, s)
			b := fs.blocks[BlockNr(DirTrack, s)]
			b.Data = [BlockSize]byte{}
			b.SetNextLink(0, 0xFF)
			last.SetNextLink(DirTrack, s)
			return true
		}
	}

	return false
}
