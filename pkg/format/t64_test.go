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
	"encoding/binary"
	"testing"
)

// tapeArchive builds a container with one entry and the given header
// fields, for exercising the repair paths.
func tapeArchive(usedEntries, endAddr int, payload []byte) []byte {

	data := make([]byte, t64HeaderSize+t64EntrySize+len(payload))

	copy(data, "C64 tape image file")
	binary.LittleEndian.PutUint16(data[32:], 0x0100)
	binary.LittleEndian.PutUint16(data[34:], 1)
	binary.LittleEndian.PutUint16(data[36:], uint16(usedEntries))
	copy(data[40:64], padSpaces("OLD TAPE", 24))

	e := data[t64HeaderSize:]
	e[0] = 1
	e[1] = 0x82
	binary.LittleEndian.PutUint16(e[2:], 0x0801)
	binary.LittleEndian.PutUint16(e[4:], uint16(endAddr))
	binary.LittleEndian.PutUint32(e[8:], uint32(t64HeaderSize+t64EntrySize))
	copy(e[16:32], padSpaces("RESCUED", 16))

	copy(data[t64HeaderSize+t64EntrySize:], payload)

	return data
}

func TestT64RoundTrip(t *testing.T) {

	fs := testFileSystem(t, "FIRST", "SECOND")

	var buf bytes.Buffer
	if err := NewT64().Write(fs, &buf); err != nil {
		t.Fatal(err)
	}

	// at least 30 table slots get reserved, two of them used
	raw := buf.Bytes()
	if got := binary.LittleEndian.Uint16(raw[34:]); got != 30 {
		t.Errorf("table has %d slots, want 30", got)
	}
	if got := binary.LittleEndian.Uint16(raw[36:]); got != 2 {
		t.Errorf("table reports %d used entries, want 2", got)
	}

	back, err := NewT64().Read(&buf, true)
	if err != nil {
		t.Fatal(err)
	}

	if back.Name() != "TEST DISK" {
		t.Errorf("tape name %q after round trip", back.Name())
	}
	if back.NumFiles() != 2 {
		t.Fatalf("%d files after round trip, want 2", back.NumFiles())
	}
	for n := 0; n < 2; n++ {
		if back.FileName(n) != fs.FileName(n) {
			t.Errorf("file %d name %q, want %q",
				n, back.FileName(n), fs.FileName(n))
		}
		if !bytes.Equal(back.CopyFile(n), fs.CopyFile(n)) {
			t.Errorf("file %d contents lost in round trip", n)
		}
	}
}

func TestT64WriteRefusesEmptyDisk(t *testing.T) {

	fs := testFileSystem(t)
	if err := NewT64().Write(fs, &bytes.Buffer{}); err == nil {
		t.Error("export from empty disk accepted")
	}
}

func TestT64RepairsZeroEntryCount(t *testing.T) {

	payload := testProgram(100)[2:]
	data := tapeArchive(0, 0x0801+len(payload), payload)

	fs, err := NewT64().Read(bytes.NewReader(data), false)
	if err != nil {
		t.Fatal(err)
	}

	if fs.NumFiles() != 1 {
		t.Fatalf("rescan found %d files, want 1", fs.NumFiles())
	}
	if fs.FileName(0) != "RESCUED" {
		t.Errorf("file name %q, want RESCUED", fs.FileName(0))
	}
	if !bytes.Equal(fs.CopyFile(0)[2:], payload) {
		t.Error("payload lost during rescan")
	}
}

func TestT64RepairsBrokenEndAddress(t *testing.T) {

	payload := testProgram(300)[2:]
	data := tapeArchive(1, t64BrokenEndAddr, payload)

	fs, err := NewT64().Read(bytes.NewReader(data), false)
	if err != nil {
		t.Fatal(err)
	}

	// the real size comes from the container size, not the end address
	if got := fs.FileSize(0); got != len(payload)+2 {
		t.Errorf("restored size %d, want %d", got, len(payload)+2)
	}
	if !bytes.Equal(fs.CopyFile(0)[2:], payload) {
		t.Error("payload lost during size repair")
	}
	if fs.LoadAddr(0) != 0x0801 {
		t.Errorf("load address %04X, want 0801", fs.LoadAddr(0))
	}
}

func TestT64EntryPastContainerEnd(t *testing.T) {

	payload := testProgram(50)[2:]
	// end address claims far more data than the container holds
	data := tapeArchive(1, 0x0801+4096, payload)

	if _, err := NewT64().Read(bytes.NewReader(data), true); err == nil {
		t.Error("strict read accepted a truncated entry")
	}

	fs, err := NewT64().Read(bytes.NewReader(data), false)
	if err != nil {
		t.Fatal(err)
	}
	if fs.NumFiles() != 0 {
		t.Error("truncated entry not dropped")
	}
}

func TestT64RejectsForeignData(t *testing.T) {

	if _, err := NewT64().Read(
		bytes.NewReader([]byte("GCR-1541 whatever, 64 bytes of it at "+
			"least so the header check is reached..")), false); err == nil {
		t.Error("foreign data accepted as tape archive")
	}

	if _, err := NewT64().Read(
		bytes.NewReader([]byte("C64")), false); err == nil {
		t.Error("truncated header accepted")
	}
}
