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

// patternSource serves deterministic sector payloads for codec tests.
type patternSource struct {
	tracks int
	errors map[[2]int]byte
}

func (p *patternSource) NumTracks() int       { return p.tracks }
func (p *patternSource) DiskID() (byte, byte) { return 'F', 'D' }

func (p *patternSource) ReadSector(t, s int) []byte {
	b := make([]byte, 256)
	for i := range b {
		b[i] = byte(t*31 + s*7 + i)
	}
	return b
}

func (p *patternSource) ErrorCode(t, s int) byte {
	if c, ok := p.errors[[2]int{t, s}]; ok {
		return c
	}
	return SectorOK
}

func TestEncodeDecodeRoundTrip(t *testing.T) {

	src := &patternSource{tracks: StandardTracks}
	d := NewDisk()
	d.Encode(src, true)

	for tr := 1; tr <= StandardTracks; tr++ {
		zone := SpeedZoneOfTrack(tr)
		if got := d.LengthOfTrack(tr); got != encodedTrackLength[zone] {
			t.Fatalf("track %d: encoded length %d, want %d",
				tr, got, encodedTrackLength[zone])
		}
	}

	data, errs, err := NewAnalyzer(d).DecodeDisk()
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if len(errs) != 0 {
		t.Fatalf("decode reported %d sector errors: %v", len(errs), errs)
	}

	want := Defaults(StandardTracks).FirstSector*256 +
		SectorsInTrack(StandardTracks)*256
	if len(data) != want {
		t.Fatalf("decoded %d bytes, want %d", len(data), want)
	}

	for tr := 1; tr <= StandardTracks; tr++ {
		for s := 0; s < SectorsInTrack(tr); s++ {
			off := (Defaults(tr).FirstSector + s) * 256
			exp := src.ReadSector(tr, s)
			for i := 0; i < 256; i++ {
				if data[off+i] != exp[i] {
					t.Fatalf("track %d sector %d byte %d: got %02X, want %02X",
						tr, s, i, data[off+i], exp[i])
				}
			}
		}
	}
}

func TestEncodeReproducesChecksumError(t *testing.T) {

	src := &patternSource{
		tracks: StandardTracks,
		errors: map[[2]int]byte{{7, 3}: ErrDataBlockChecksum},
	}
	d := NewDisk()
	d.Encode(src, false)

	data, errs, err := NewAnalyzer(d).DecodeDisk()
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}

	if len(errs) != 1 {
		t.Fatalf("expected exactly one sector error, got %d: %v",
			len(errs), errs)
	}
	if errs[0].Track != 7 || errs[0].Sector != 3 {
		t.Fatalf("error reported for %d/%d, want 7/3",
			errs[0].Track, errs[0].Sector)
	}
	if errs[0].Code != ErrDataBlockChecksum {
		t.Fatalf("error code %X, want %X", errs[0].Code, ErrDataBlockChecksum)
	}

	// the neighboring sector must be unaffected
	off := (Defaults(7).FirstSector + 4) * 256
	exp := src.ReadSector(7, 4)
	for i := 0; i < 256; i++ {
		if data[off+i] != exp[i] {
			t.Fatalf("sector 7/4 corrupted at byte %d", i)
		}
	}
}

func TestDecodeEmptyDiskFails(t *testing.T) {
	if _, _, err := NewAnalyzer(NewDisk()).DecodeDisk(); err == nil {
		t.Fatal("decoding a blank surface did not fail")
	}
}

func TestExtendedDiskDetection(t *testing.T) {

	src := &patternSource{tracks: NumTracks}
	d := NewDisk()
	d.Encode(src, false)

	data, _, err := NewAnalyzer(d).DecodeDisk()
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}

	want := Defaults(NumTracks).FirstSector*256 + SectorsInTrack(NumTracks)*256
	if len(data) != want {
		t.Fatalf("decoded %d bytes, want %d (42 track layout)",
			len(data), want)
	}
}
