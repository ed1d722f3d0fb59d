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
	"testing"
)

func TestNewDiskDefaults(t *testing.T) {

	d := NewDisk()

	if d.IsModified() {
		t.Error("fresh disk reports modified")
	}
	if d.IsWriteProtected() {
		t.Error("fresh disk reports write protected")
	}

	for ht := 1; ht <= NumHalftracks; ht++ {
		want := Defaults(TrackOf(ht)).LengthInBits
		if got := d.LengthOfHalftrack(ht); got != want {
			t.Fatalf("halftrack %d: length %d, want %d", ht, got, want)
		}
		if !d.HalftrackIsEmpty(ht) {
			t.Fatalf("halftrack %d not empty on fresh disk", ht)
		}
	}
}

func TestBitReadWrite(t *testing.T) {

	d := NewDisk()
	ht := HalftrackOf(18)

	d.WriteBit(ht, 100, true)
	if d.ReadBit(ht, 100) != 1 {
		t.Error("bit not set after write")
	}
	if !d.IsModified() {
		t.Error("write did not mark disk modified")
	}

	d.WriteBit(ht, 100, false)
	if d.ReadBit(ht, 100) != 0 {
		t.Error("bit still set after clearing")
	}
}

func TestHeadPositionWrap(t *testing.T) {

	d := NewDisk()
	ht := 1
	l := d.LengthOfHalftrack(ht)

	d.WriteBit(ht, 0, true)
	if d.ReadBit(ht, l) != 1 {
		t.Error("position l does not wrap to 0")
	}
	if d.ReadBit(ht, -l) != 1 {
		t.Error("position -l does not wrap to 0")
	}

	d.WriteBit(ht, l+5, true)
	if d.ReadBit(ht, 5) != 1 {
		t.Error("write past the end does not wrap")
	}
}

func TestByteReadWrite(t *testing.T) {

	d := NewDisk()
	ht := 3

	d.WriteByte(ht, 40, 0xC5)
	if v := d.ReadByteFrom(ht, 40); v != 0xC5 {
		t.Errorf("read back %02X, want C5", v)
	}

	// MSB first
	if d.ReadBit(ht, 40) != 1 || d.ReadBit(ht, 47) != 1 {
		t.Error("byte not written MSB first")
	}
	if d.ReadBit(ht, 41) != 1 || d.ReadBit(ht, 42) != 0 {
		t.Error("byte bit order wrong")
	}
}

func TestWriteGap(t *testing.T) {

	d := NewDisk()
	ht := 7

	d.WriteGap(ht, 0, 3)
	for i := 0; i < 3; i++ {
		if v := d.ReadByteFrom(ht, i*8); v != GapByte {
			t.Fatalf("gap byte %d is %02X, want %02X", i, v, GapByte)
		}
	}
}

func TestClear(t *testing.T) {

	d := NewDisk()
	d.WriteByte(5, 0, 0xFF)
	d.SetLengthOfHalftrack(5, 4711)

	d.Clear()

	if !d.HalftrackIsEmpty(5) {
		t.Error("halftrack not empty after clear")
	}
	if got, want := d.LengthOfHalftrack(5), Defaults(3).LengthInBits; got != want {
		t.Errorf("halftrack 5 length after clear: %d, want %d", got, want)
	}
	if !d.IsModified() {
		t.Error("clear did not mark disk modified")
	}
}

func TestCopyFrom(t *testing.T) {

	src := NewDisk()
	src.WriteByte(9, 16, 0xA7)
	src.SetWriteProtected(true)

	dst := NewDisk()
	dst.CopyFrom(src)

	if v := dst.ReadByteFrom(9, 16); v != 0xA7 {
		t.Errorf("copied surface reads %02X, want A7", v)
	}
	if !dst.IsWriteProtected() {
		t.Error("write protection not copied")
	}
	if dst.IsModified() {
		t.Error("copy marked destination modified")
	}

	// the copy must be independent
	src.WriteByte(9, 16, 0x00)
	if v := dst.ReadByteFrom(9, 16); v != 0xA7 {
		t.Error("copy shares storage with source")
	}
}

func TestGeometry(t *testing.T) {

	if HalftrackOf(1) != 1 || HalftrackOf(42) != 83 {
		t.Error("halftrack mapping broken")
	}
	if TrackOf(1) != 1 || TrackOf(2) != 1 || TrackOf(83) != 42 {
		t.Error("track mapping broken")
	}

	for _, tc := range []struct {
		track, sectors, zone int
	}{
		{1, 21, 3}, {17, 21, 3},
		{18, 19, 2}, {24, 19, 2},
		{25, 18, 1}, {30, 18, 1},
		{31, 17, 0}, {35, 17, 0}, {42, 17, 0},
	} {
		if got := SectorsInTrack(tc.track); got != tc.sectors {
			t.Errorf("track %d: %d sectors, want %d", tc.track, got, tc.sectors)
		}
		if got := SpeedZoneOfTrack(tc.track); got != tc.zone {
			t.Errorf("track %d: zone %d, want %d", tc.track, got, tc.zone)
		}
	}

	if !IsValidTrackSectorPair(1, 20) || IsValidTrackSectorPair(1, 21) {
		t.Error("sector bounds of track 1 broken")
	}
	if !IsValidTrackSectorPair(35, 16) || IsValidTrackSectorPair(35, 17) {
		t.Error("sector bounds of track 35 broken")
	}
	if IsValidTrackSectorPair(0, 0) || IsValidTrackSectorPair(43, 0) {
		t.Error("track bounds broken")
	}
}
