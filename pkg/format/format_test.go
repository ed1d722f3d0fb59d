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

package format

import (
	"bytes"
	"testing"

	"github.com/fd1541/fd1541/pkg/disk"
	"github.com/fd1541/fd1541/pkg/dos"
)

// testProgram is a program file of the given size, load address 0x0801.
func testProgram(size int) []byte {
	data := make([]byte, size)
	data[0] = 0x01
	data[1] = 0x08
	for i := 2; i < size; i++ {
		data[i] = byte(i)
	}
	return data
}

//
func testFileSystem(t *testing.T, files ...string) *dos.FileSystem {
	t.Helper()
	fs, err := dos.NewFileSystem(35)
	if err != nil {
		t.Fatal(err)
	}
	fs.SetName("TEST DISK")
	for n, f := range files {
		if err := fs.MakeFile(f, testProgram(200+n*300)); err != nil {
			t.Fatal(err)
		}
	}
	return fs
}

func TestSplitNameTypeCompressor(t *testing.T) {

	for _, tc := range []struct {
		file, name, typ, comp string
	}{
		{"game.d64", "game", "d64", ""},
		{"game.d64.gz", "game", "d64", "gz"},
		{"Demo.T64", "Demo", "t64", ""},
		{"image.g64.zip", "image", "g64", "zip"},
		{"intro.prg.7z", "intro", "prg", "7z"},
		{"/some/dir/tool.d64", "tool", "d64", ""},
		{"noext", "noext", "", ""},
		{"strange.bin", "strange", "", ""},
	} {
		name, typ, comp := SplitNameTypeCompressor(tc.file)
		if name != tc.name || typ != tc.typ || comp != tc.comp {
			t.Errorf("%s: got (%q, %q, %q), want (%q, %q, %q)", tc.file,
				name, typ, comp, tc.name, tc.typ, tc.comp)
		}
	}
}

func TestNewFormat(t *testing.T) {

	for _, typ := range []string{"d64", "g64", "prg", "t64"} {
		if _, err := NewFormat(typ); err != nil {
			t.Errorf("%s: %v", typ, err)
		}
	}
	if _, err := NewFormat("tap"); err == nil {
		t.Error("unsupported format accepted")
	}
}

func TestD64RoundTrip(t *testing.T) {

	fs := testFileSystem(t, "ALPHA", "BETA")

	var buf bytes.Buffer
	if err := NewD64().Write(fs, &buf); err != nil {
		t.Fatal(err)
	}
	if buf.Len() != 683*256 {
		t.Fatalf("image size %d, want %d", buf.Len(), 683*256)
	}

	back, err := NewD64().Read(&buf, true)
	if err != nil {
		t.Fatal(err)
	}

	if back.Name() != "TEST DISK" {
		t.Errorf("disk name %q after round trip", back.Name())
	}
	if back.NumFiles() != 2 || back.FileName(1) != "BETA" {
		t.Error("directory lost in round trip")
	}
	if !bytes.Equal(back.CopyFile(0), fs.CopyFile(0)) {
		t.Error("file contents lost in round trip")
	}
}

func TestD64StrictRejectsInconsistentImage(t *testing.T) {

	fs := testFileSystem(t, "VICTIM")

	var buf bytes.Buffer
	if err := NewD64().Write(fs, &buf); err != nil {
		t.Fatal(err)
	}

	// point the directory entry's file chain off the disk
	img := buf.Bytes()
	img[dos.BlockNr(dos.DirTrack, 1)*256+3] = 60

	if _, err := NewD64().Read(bytes.NewReader(img), true); err == nil {
		t.Error("strict read accepted an inconsistent image")
	}

	// a forgiving read logs and carries on
	if _, err := NewD64().Read(bytes.NewReader(img), false); err != nil {
		t.Errorf("non-strict read failed: %v", err)
	}
}

func TestPRGRoundTrip(t *testing.T) {

	data := testProgram(500)

	p := NewPRG()
	p.SetName("INTRO")

	fs, err := p.Read(bytes.NewReader(data), false)
	if err != nil {
		t.Fatal(err)
	}
	if fs.NumFiles() != 1 || fs.FileName(0) != "INTRO" {
		t.Fatal("program file not imported under its name")
	}
	if fs.LoadAddr(0) != 0x0801 {
		t.Errorf("load address %04X, want 0801", fs.LoadAddr(0))
	}

	var buf bytes.Buffer
	if err := p.Write(fs, &buf); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(buf.Bytes(), data) {
		t.Error("program bytes lost in round trip")
	}
}

func TestPRGRejectsShortInput(t *testing.T) {

	if _, err := NewPRG().Read(bytes.NewReader([]byte{0x01}), false); err == nil {
		t.Error("one byte program accepted")
	}

	fs, _ := dos.NewFileSystem(35)
	if err := NewPRG().Write(fs, &bytes.Buffer{}); err == nil {
		t.Error("export from empty disk accepted")
	}
}

func TestG64RoundTrip(t *testing.T) {

	fs := testFileSystem(t, "GAMMA")

	var buf bytes.Buffer
	if err := NewG64().Write(fs, &buf); err != nil {
		t.Fatal(err)
	}

	back, err := NewG64().Read(&buf, true)
	if err != nil {
		t.Fatal(err)
	}

	if back.Name() != "TEST DISK" {
		t.Errorf("disk name %q after round trip", back.Name())
	}
	if back.NumFiles() != 1 || back.FileName(0) != "GAMMA" {
		t.Fatal("directory lost in round trip")
	}
	if !bytes.Equal(back.CopyFile(0), fs.CopyFile(0)) {
		t.Error("file contents lost in round trip")
	}
}

func TestG64DiskRoundTrip(t *testing.T) {

	fs := testFileSystem(t, "DELTA")

	var buf bytes.Buffer
	g := NewG64()
	if err := g.Write(fs, &buf); err != nil {
		t.Fatal(err)
	}

	d, err := g.ReadDisk(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatal(err)
	}
	if d.IsModified() {
		t.Error("deserialized surface reports modified")
	}

	var again bytes.Buffer
	if err := g.WriteDisk(d, &again); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(again.Bytes(), buf.Bytes()) {
		t.Error("bitstream image not byte-identical after round trip")
	}
}

func TestG64ZeroLengthHalftracks(t *testing.T) {

	// foreign tools write images with untracked halftracks as zero bits;
	// such a track must not come back as a zero-length ring
	img := append([]byte(g64Signature), g64Version)
	for ht := 1; ht <= disk.NumHalftracks; ht++ {
		img = append(img, 0, 0)
	}

	d, err := NewG64().ReadDisk(bytes.NewReader(img))
	if err != nil {
		t.Fatal(err)
	}

	for ht := 1; ht <= disk.NumHalftracks; ht++ {
		want := disk.Defaults(disk.TrackOf(ht)).LengthInBits
		if got := d.LengthOfHalftrack(ht); got != want {
			t.Fatalf("halftrack %d: length %d, want default %d",
				ht, got, want)
		}
	}

	// head positions on such a track stay readable
	if d.ReadBit(1, 5) != 0 {
		t.Error("empty default track carries data")
	}
}

func TestG64RejectsForeignData(t *testing.T) {

	if _, err := NewG64().ReadDisk(
		bytes.NewReader([]byte("PK\x03\x04 certainly not"))); err == nil {
		t.Error("foreign data accepted as bitstream image")
	}

	bad := append([]byte(g64Signature), 99)
	if _, err := NewG64().ReadDisk(bytes.NewReader(bad)); err == nil {
		t.Error("unknown bitstream version accepted")
	}
}

// memCollection is an in-memory Collection for import tests.
type memCollection struct {
	names []string
	data  [][]byte
}

func (c *memCollection) ItemCount() int        { return len(c.names) }
func (c *memCollection) ItemName(n int) string { return c.names[n] }
func (c *memCollection) ItemSize(n int) int    { return len(c.data[n]) }

func (c *memCollection) ReadByte(n, offset int) byte {
	return c.data[n][offset]
}

func TestImport(t *testing.T) {

	c := &memCollection{
		names: []string{"ONE", "TWO"},
		data:  [][]byte{testProgram(100), testProgram(400)},
	}

	fs, err := Import(c, "IMPORTED")
	if err != nil {
		t.Fatal(err)
	}

	if fs.Name() != "IMPORTED" {
		t.Errorf("disk name %q, want IMPORTED", fs.Name())
	}
	if fs.NumFiles() != 2 {
		t.Fatalf("%d files imported, want 2", fs.NumFiles())
	}
	if !bytes.Equal(fs.CopyFile(1), c.data[1]) {
		t.Error("imported file contents differ")
	}
}

func TestImportOverflow(t *testing.T) {

	c := &memCollection{
		names: []string{"HUGE"},
		data:  [][]byte{testProgram(700 * dos.BlockPayload)},
	}

	if _, err := Import(c, "TOO BIG"); err == nil {
		t.Error("import larger than the disk accepted")
	}
}
