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
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/fd1541/fd1541/pkg/disk"
)

// Structural errors reported by MakeFile. They are raised before anything
// is written, so a failed call leaves the filesystem untouched.
var (
	ErrDiskFull      = errors.New("not enough free blocks on disk")
	ErrDirectoryFull = errors.New("directory is full")
)

/*
	FileSystem is an in-memory CBM DOS disk: a linear array of 256 byte
	blocks holding BAM, directory chain and file chains, plus an optional
	per-sector error table carried over from extended D64 images. It
	implements disk.SectorSource, so a surface can be encoded straight from
	it.
*/
type FileSystem struct {
	numTracks int
	blocks    []*Block
	// D64 error codes, one per block; nil when the source image had none
	errors []byte
	// number of directory slots the disk will grow to
	capacity int
}

// NewFileSystem returns a freshly formatted, empty disk with the given
// number of tracks (35 or 42).
func NewFileSystem(tracks int) (*FileSystem, error) {

	if tracks != disk.StandardTracks && tracks != disk.NumTracks {
		return nil, fmt.Errorf("unsupported track count: %d", tracks)
	}

	fs := &FileSystem{
		numTracks: tracks,
		blocks:    make([]*Block, NumBlocks(tracks)),
		capacity:  DefaultCapacity,
	}
	for i := range fs.blocks {
		fs.blocks[i] = &Block{Nr: i}
	}

	fs.Format("", 'F', 'D')

	return fs, nil
}

// Format erases the disk: fresh BAM with the given name and ID, an empty
// directory chain, all data blocks free.
func (fs *FileSystem) Format(name string, id1, id2 byte) {

	for _, b := range fs.blocks {
		b.Data = [BlockSize]byte{}
	}

	fs.initBAM(name, id1, id2)

	dir := fs.blocks[BlockNr(DirTrack, 1)]
	dir.SetNextLink(0, 0xFF)
}

// NumTracks returns the number of tracks of the disk.
func (fs *FileSystem) NumTracks() int {
	return fs.numTracks
}

// ReadSector returns the 256 payload bytes of the given sector.
func (fs *FileSystem) ReadSector(t, s int) []byte {
	return fs.blocks[BlockNr(t, s)].Data[:]
}

// ErrorCode returns the D64 error code recorded for the given sector.
func (fs *FileSystem) ErrorCode(t, s int) byte {
	if fs.errors == nil {
		return disk.SectorOK
	}
	return fs.errors[BlockNr(t, s)]
}

// SetCapacity changes the number of directory slots the disk may grow to.
func (fs *FileSystem) SetCapacity(n int) {
	fs.capacity = n
}

// NumFiles returns the number of files in the directory.
func (fs *FileSystem) NumFiles() int {
	return len(fs.directory())
}

// FileName returns the name of the nth directory entry.
func (fs *FileSystem) FileName(n int) string {

	dir := fs.directory()
	if n < 0 || n >= len(dir) {
		return ""
	}

	return dir[n].FileName()
}

// FileSize returns the size in bytes of the nth file, the two load
// address bytes included.
func (fs *FileSystem) FileSize(n int) int {
	return len(fs.CopyFile(n))
}

// LoadAddr returns the load address of the nth file, taken from its first
// two data bytes.
func (fs *FileSystem) LoadAddr(n int) uint16 {

	data := fs.CopyFile(n)
	if len(data) < 2 {
		return 0
	}

	return uint16(data[0]) | uint16(data[1])<<8
}

// CopyFile returns the contents of the nth file, load address included.
// A broken chain yields the bytes recovered up to the break.
func (fs *FileSystem) CopyFile(n int) []byte {

	dir := fs.directory()
	if n < 0 || n >= len(dir) {
		return nil
	}

	t, s := dir[n].FirstLink()
	return fs.readChain(t, s)
}

// ItemCount, ItemName, ItemSize and ReadByte make the filesystem usable
// as a generic file collection for the converters.
func (fs *FileSystem) ItemCount() int {
	return fs.NumFiles()
}

//
func (fs *FileSystem) ItemName(n int) string {
	return fs.FileName(n)
}

//
func (fs *FileSystem) ItemSize(n int) int {
	return fs.FileSize(n)
}

//
func (fs *FileSystem) ReadByte(n, offset int) byte {

	data := fs.CopyFile(n)
	if offset < 0 || offset >= len(data) {
		return 0
	}

	return data[offset]
}

// CopyFileTo copies up to len(dst) bytes of the nth file into dst,
// skipping skip leading bytes (typically the two load address bytes).
// Returns the number of bytes copied.
func (fs *FileSystem) CopyFileTo(n int, dst []byte, skip int) int {

	data := fs.CopyFile(n)
	if skip >= len(data) {
		return 0
	}

	return copy(dst, data[skip:])
}

// readChain collects the payload of a block chain. The walk is bounded by
// the disk's block count, so circular chains terminate.
func (fs *FileSystem) readChain(t, s int) []byte {

	var data []byte

	for steps := 0; t != 0 && steps < len(fs.blocks); steps++ {

		if !disk.IsValidTrackSectorPair(t, s) {
			log.Warnf("file chain leaves disk at %d/%d", t, s)
			break
		}

		b := fs.blocks[BlockNr(t, s)]
		t, s = b.NextLink()

		if t == 0 {
			// the sector byte of the last block holds the index of the
			// last used payload byte
			if s < 2 {
				break
			}
			data = append(data, b.Data[2:s+1]...)
		} else {
			data = append(data, b.Data[2:]...)
		}
	}

	return data
}

/*
	MakeFile adds a PRG file to the disk. data carries the complete file,
	the two load address bytes first. Free blocks and a directory slot are
	secured before the first write, so ErrDiskFull and ErrDirectoryFull
	leave the filesystem unchanged.
*/
func (fs *FileSystem) MakeFile(name string, data []byte) error {

	needed := (len(data) + BlockPayload - 1) / BlockPayload
	if needed == 0 {
		needed = 1
	}

	if needed > fs.FreeBlocks() {
		return ErrDiskFull
	}

	slot := fs.freeSlot()
	if slot == nil {
		if fs.numSlots() >= fs.capacity || !fs.canGrowDirectory() {
			return ErrDirectoryFull
		}
		if !fs.growDirectory() {
			return ErrDirectoryFull
		}
		slot = fs.freeSlot()
		if slot == nil {
			return ErrDirectoryFull
		}
	}

	first, err := fs.writeChain(data)
	if err != nil {
		return err
	}

	t, s := TSLink(first)
	slot.set(name, t, s, needed)

	log.WithFields(log.Fields{
		"name":   name,
		"blocks": needed,
	}).Debug("file added")

	return nil
}

//
func (fs *FileSystem) numSlots() int {

	slots := 0

	t, s := DirTrack, 1
	for steps := 0; t != 0 && steps < len(fs.blocks); steps++ {
		slots += DirEntriesPerBlock
		t, s = fs.blocks[BlockNr(t, s)].NextLink()
	}

	return slots
}

//
func (fs *FileSystem) canGrowDirectory() bool {
	for s := 1; s < 19; s++ {
		if fs.IsFree(DirTrack, s) {
			return true
		}
	}
	return false
}

// writeChain stores data as a chain of blocks, allocated in ascending
// track order, the directory track skipped. Returns the block number of
// the chain's first block.
func (fs *FileSystem) writeChain(data []byte) (int, error) {

	first := -1
	var prev *Block

	for {
		nr := fs.allocDataBlock()
		if nr < 0 {
			// cannot happen, MakeFile checked the free count
			return -1, ErrDiskFull
		}

		b := fs.blocks[nr]
		b.Data = [BlockSize]byte{}

		if first < 0 {
			first = nr
		}
		if prev != nil {
			t, s := TSLink(nr)
			prev.SetNextLink(t, s)
		}

		n := copy(b.Data[2:], data)
		data = data[n:]

		if len(data) == 0 {
			b.SetNextLink(0, n+1)
			return first, nil
		}

		prev = b
	}
}

// allocDataBlock marks the first free data block allocated and returns
// its number, or -1 when the disk is full.
func (fs *FileSystem) allocDataBlock() int {

	for t := 1; t <= min(fs.numTracks, disk.StandardTracks); t++ {
		if t == DirTrack {
			continue
		}
		for s := 0; s < disk.SectorsInTrack(t); s++ {
			if fs.IsFree(t, s) {
				fs.markAllocated(t, s)
				return BlockNr(t, s)
			}
		}
	}

	return -1
}

/*
	Check verifies the consistency of the BAM against the directory: every
	block reachable through the directory chain or a file chain must be
	marked allocated. It returns the first inconsistency found.
*/
func (fs *FileSystem) Check() error {

	check := func(t, s int) error {

		for steps := 0; t != 0 && steps < len(fs.blocks); steps++ {
			if !disk.IsValidTrackSectorPair(t, s) {
				return fmt.Errorf("chain leaves disk at %d/%d", t, s)
			}
			if fs.IsFree(t, s) {
				return fmt.Errorf("block %d/%d in use but marked free", t, s)
			}
			t, s = fs.blocks[BlockNr(t, s)].NextLink()
		}

		return nil
	}

	if fs.IsFree(DirTrack, 0) {
		return fmt.Errorf("BAM block marked free")
	}
	if err := check(DirTrack, 1); err != nil {
		return fmt.Errorf("directory: %v", err)
	}

	for n, e := range fs.directory() {
		t, s := e.FirstLink()
		if err := check(t, s); err != nil {
			return fmt.Errorf("file %d (%s): %v", n, e.FileName(), err)
		}
	}

	return nil
}

/*
	FromImage builds a filesystem from a D64 byte stream. Plain and
	extended layouts are recognized by size: 683 blocks for 35 tracks, 768
	for 40, 802 for 42, each optionally followed by one error byte per
	block.
*/
func FromImage(data []byte) (*FileSystem, error) {

	var tracks int
	var hasErrors bool

	switch len(data) {
	case 683 * 256:
		tracks = 35
	case 683 * 257:
		tracks, hasErrors = 35, true
	case 768 * 256:
		tracks = 40
	case 768 * 257:
		tracks, hasErrors = 40, true
	case 802 * 256:
		tracks = 42
	case 802 * 257:
		tracks, hasErrors = 42, true
	default:
		return nil, fmt.Errorf("unrecognized image size: %d bytes", len(data))
	}

	fs := &FileSystem{
		numTracks: tracks,
		blocks:    make([]*Block, NumBlocks(tracks)),
		capacity:  DefaultCapacity,
	}

	for i := range fs.blocks {
		fs.blocks[i] = &Block{Nr: i}
		copy(fs.blocks[i].Data[:], data[i*256:(i+1)*256])
	}

	if hasErrors {
		fs.errors = make([]byte, len(fs.blocks))
		copy(fs.errors, data[len(fs.blocks)*256:])
	}

	return fs, nil
}

// ToImage serializes the filesystem into a D64 byte stream, appending the
// error table when one is present.
func (fs *FileSystem) ToImage() []byte {

	data := make([]byte, 0, len(fs.blocks)*256+len(fs.errors))

	for _, b := range fs.blocks {
		data = append(data, b.Data[:]...)
	}
	data = append(data, fs.errors...)

	return data
}
