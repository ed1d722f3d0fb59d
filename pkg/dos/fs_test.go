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
	"bytes"
	"testing"

	"github.com/fd1541/fd1541/pkg/disk"
)

//
func testFile(size int) []byte {
	data := make([]byte, size)
	data[0] = 0x01
	data[1] = 0x08
	for i := 2; i < size; i++ {
		data[i] = byte(i)
	}
	return data
}

func TestFormat(t *testing.T) {

	fs, err := NewFileSystem(disk.StandardTracks)
	if err != nil {
		t.Fatal(err)
	}

	if fs.NumFiles() != 0 {
		t.Error("fresh disk has directory entries")
	}

	// 683 blocks total, minus BAM, dir block, and the rest of track 18
	// which is excluded from the free count
	if got := fs.FreeBlocks(); got != 664 {
		t.Errorf("free blocks on fresh disk: %d, want 664", got)
	}

	id1, id2 := fs.DiskID()
	if id1 != 'F' || id2 != 'D' {
		t.Errorf("disk ID %c%c, want FD", id1, id2)
	}

	fs.SetName("GAMES")
	if fs.Name() != "GAMES" {
		t.Errorf("disk name %q, want GAMES", fs.Name())
	}

	if err := fs.Check(); err != nil {
		t.Errorf("fresh disk fails check: %v", err)
	}
}

func TestMakeFile(t *testing.T) {

	fs, _ := NewFileSystem(disk.StandardTracks)

	data := testFile(300)
	if err := fs.MakeFile("TEST", data); err != nil {
		t.Fatal(err)
	}

	if fs.NumFiles() != 1 {
		t.Fatalf("directory has %d entries, want 1", fs.NumFiles())
	}
	if fs.FileName(0) != "TEST" {
		t.Errorf("file name %q, want TEST", fs.FileName(0))
	}
	if fs.FileSize(0) != 300 {
		t.Errorf("file size %d, want 300", fs.FileSize(0))
	}
	if fs.LoadAddr(0) != 0x0801 {
		t.Errorf("load address %04X, want 0801", fs.LoadAddr(0))
	}
	if !bytes.Equal(fs.CopyFile(0), data) {
		t.Error("file contents do not round trip")
	}

	// 300 bytes need two blocks
	if got := fs.FreeBlocks(); got != 662 {
		t.Errorf("free blocks after write: %d, want 662", got)
	}

	if err := fs.Check(); err != nil {
		t.Errorf("disk fails check after write: %v", err)
	}
}

func TestMakeFileExactPayload(t *testing.T) {

	fs, _ := NewFileSystem(disk.StandardTracks)

	// exactly one block of payload
	data := testFile(BlockPayload)
	if err := fs.MakeFile("FULL", data); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(fs.CopyFile(0), data) {
		t.Error("single full block does not round trip")
	}

	// empty file still takes one block
	if err := fs.MakeFile("EMPTY", nil); err != nil {
		t.Fatal(err)
	}
	if fs.FileSize(1) != 0 {
		t.Errorf("empty file has size %d", fs.FileSize(1))
	}
}

func TestDiskFull(t *testing.T) {

	fs, _ := NewFileSystem(disk.StandardTracks)

	big := testFile(600 * BlockPayload)
	if err := fs.MakeFile("BIG", big); err != nil {
		t.Fatal(err)
	}

	free := fs.FreeBlocks()
	over := testFile((free + 1) * BlockPayload)
	if err := fs.MakeFile("OVER", over); err != ErrDiskFull {
		t.Fatalf("expected ErrDiskFull, got %v", err)
	}

	// the failed call must not have changed anything
	if fs.NumFiles() != 1 {
		t.Error("failed MakeFile left a directory entry")
	}
	if fs.FreeBlocks() != free {
		t.Error("failed MakeFile allocated blocks")
	}
	if err := fs.Check(); err != nil {
		t.Errorf("disk inconsistent after failed write: %v", err)
	}
}

func TestDirectoryGrowsAndFills(t *testing.T) {

	fs, _ := NewFileSystem(disk.StandardTracks)
	fs.SetCapacity(16)

	data := testFile(10)
	for i := 0; i < 16; i++ {
		if err := fs.MakeFile("FILE", data); err != nil {
			t.Fatalf("file %d: %v", i, err)
		}
	}

	// the first dir block holds 8 slots, so the chain must have grown
	if fs.NumFiles() != 16 {
		t.Fatalf("directory has %d entries, want 16", fs.NumFiles())
	}

	if err := fs.MakeFile("ONEMORE", data); err != ErrDirectoryFull {
		t.Fatalf("expected ErrDirectoryFull, got %v", err)
	}

	if err := fs.Check(); err != nil {
		t.Errorf("disk fails check: %v", err)
	}
}

func TestImageRoundTrip(t *testing.T) {

	fs, _ := NewFileSystem(disk.StandardTracks)
	fs.SetName("ROUND")
	if err := fs.MakeFile("TRIP", testFile(1000)); err != nil {
		t.Fatal(err)
	}

	img := fs.ToImage()
	if len(img) != 683*256 {
		t.Fatalf("image size %d, want %d", len(img), 683*256)
	}

	back, err := FromImage(img)
	if err != nil {
		t.Fatal(err)
	}

	if back.Name() != "ROUND" {
		t.Errorf("name after round trip: %q", back.Name())
	}
	if back.NumFiles() != 1 || back.FileName(0) != "TRIP" {
		t.Error("directory lost in round trip")
	}
	if !bytes.Equal(back.CopyFile(0), fs.CopyFile(0)) {
		t.Error("file contents lost in round trip")
	}
	if !bytes.Equal(back.ToImage(), img) {
		t.Error("image not byte-identical after round trip")
	}
}

func TestFromImageSizes(t *testing.T) {

	for _, tc := range []struct {
		blocks, tracks int
		errors         bool
	}{
		{683, 35, false},
		{683, 35, true},
		{768, 40, false},
		{802, 42, false},
		{802, 42, true},
	} {
		size := tc.blocks * 256
		if tc.errors {
			size += tc.blocks
		}
		fs, err := FromImage(make([]byte, size))
		if err != nil {
			t.Fatalf("size %d: %v", size, err)
		}
		if fs.NumTracks() != tc.tracks {
			t.Errorf("size %d: %d tracks, want %d",
				size, fs.NumTracks(), tc.tracks)
		}
		if tc.errors != (fs.errors != nil) {
			t.Errorf("size %d: error table presence wrong", size)
		}
	}

	if _, err := FromImage(make([]byte, 12345)); err == nil {
		t.Error("bogus image size accepted")
	}
}

func TestErrorCodes(t *testing.T) {

	fs, _ := NewFileSystem(disk.StandardTracks)
	if fs.ErrorCode(1, 0) != disk.SectorOK {
		t.Error("fresh disk reports sector errors")
	}

	img := make([]byte, 683*257)
	for i := 683 * 256; i < len(img); i++ {
		img[i] = disk.SectorOK
	}
	img[683*256+5] = disk.ErrDataBlockChecksum

	loaded, err := FromImage(img)
	if err != nil {
		t.Fatal(err)
	}

	tt, s := TSLink(5)
	if loaded.ErrorCode(tt, s) != disk.ErrDataBlockChecksum {
		t.Error("error code not carried over from image")
	}
}

func TestCopyFileTo(t *testing.T) {

	fs, _ := NewFileSystem(disk.StandardTracks)
	data := testFile(300)
	if err := fs.MakeFile("PART", data); err != nil {
		t.Fatal(err)
	}

	// skip the two load address bytes
	dst := make([]byte, 298)
	if n := fs.CopyFileTo(0, dst, 2); n != 298 {
		t.Fatalf("copied %d bytes, want 298", n)
	}
	if !bytes.Equal(dst, data[2:]) {
		t.Error("copied payload differs")
	}

	// a short destination bounds the copy
	head := make([]byte, 10)
	if n := fs.CopyFileTo(0, head, 2); n != 10 {
		t.Errorf("copied %d bytes into short destination, want 10", n)
	}
	if !bytes.Equal(head, data[2:12]) {
		t.Error("bounded copy payload differs")
	}

	// skipping past the end copies nothing
	if n := fs.CopyFileTo(0, dst, 500); n != 0 {
		t.Errorf("copied %d bytes with out-of-range skip, want 0", n)
	}
}

func TestCircularChainTerminates(t *testing.T) {

	fs, _ := NewFileSystem(disk.StandardTracks)
	if err := fs.MakeFile("LOOP", testFile(500)); err != nil {
		t.Fatal(err)
	}

	// corrupt the chain into a loop
	dir := fs.directory()
	t1, s1 := dir[0].FirstLink()
	b := fs.blocks[BlockNr(t1, s1)]
	b.SetNextLink(t1, s1)

	// must return, not hang
	fs.CopyFile(0)

	if err := fs.Check(); err != nil {
		t.Logf("check flags corrupted disk: %v", err)
	}
}
