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
	"encoding/binary"
	"fmt"
	"io"

	log "github.com/sirupsen/logrus"

	"github.com/fd1541/fd1541/pkg/disk"
	"github.com/fd1541/fd1541/pkg/dos"
)

//
const (
	g64Signature = "GCR-1541"
	g64Version   = 0
)

/*
	G64 is a reader/writer for the halftrack bitstream format: the
	signature and a version byte, followed by one bit array per halftrack,
	each prefixed with its length in bits as a 16 bit little-endian word.
	Tracks keep their native bit lengths; nothing is padded to a canonical
	length.
*/
type G64 struct{}

//
func NewG64() *G64 {
	return &G64{}
}

//
func (g *G64) Read(in io.Reader, strict bool) (*dos.FileSystem, error) {

	d, err := g.ReadDisk(in)
	if err != nil {
		return nil, err
	}

	img, errs, err := disk.NewAnalyzer(d).DecodeDisk()
	if err != nil {
		return nil, err
	}
	if len(errs) > 0 {
		if strict {
			return nil, fmt.Errorf("%d sectors failed to decode", len(errs))
		}
		log.Warnf("%d sectors failed to decode", len(errs))
	}

	return dos.FromImage(img)
}

//
func (g *G64) Write(fs *dos.FileSystem, out io.Writer) error {

	d := disk.NewDisk()
	d.Encode(fs, true)

	return g.WriteDisk(d, out)
}

// ReadDisk deserializes a bitstream image straight onto a surface,
// without any decoding.
func (g *G64) ReadDisk(in io.Reader) (*disk.Disk, error) {

	sig := make([]byte, len(g64Signature)+1)
	if _, err := io.ReadFull(in, sig); err != nil {
		return nil, err
	}
	if string(sig[:len(g64Signature)]) != g64Signature {
		return nil, fmt.Errorf("not a bitstream image")
	}
	if sig[len(g64Signature)] != g64Version {
		return nil, fmt.Errorf(
			"unsupported bitstream image version: %d", sig[len(g64Signature)])
	}

	d := disk.NewDisk()

	for ht := 1; ht <= disk.NumHalftracks; ht++ {

		var bits uint16
		if err := binary.Read(in, binary.LittleEndian, &bits); err != nil {
			return nil, fmt.Errorf("halftrack %d: %w", ht, err)
		}
		if int(bits) > disk.MaxBitsOnTrack {
			return nil, fmt.Errorf(
				"halftrack %d: invalid bit count %d", ht, bits)
		}
		if bits == 0 {
			// a zero-length ring would break head position wrapping;
			// keep the empty track at its default length instead
			log.Debugf("halftrack %d has no bits, keeping default length", ht)
			continue
		}

		data := make([]byte, (int(bits)+7)/8)
		if _, err := io.ReadFull(in, data); err != nil {
			return nil, fmt.Errorf("halftrack %d: %w", ht, err)
		}

		d.SetLengthOfHalftrack(ht, int(bits))
		for i := 0; i < int(bits); i++ {
			d.WriteBit(ht, i, data[i/8]&(0x80>>(i%8)) != 0)
		}
	}

	d.SetModified(false)

	return d, nil
}

// WriteDisk serializes a surface into a bitstream image, at native track
// lengths.
func (g *G64) WriteDisk(d *disk.Disk, out io.Writer) error {

	if _, err := out.Write(
		append([]byte(g64Signature), g64Version)); err != nil {
		return err
	}

	for ht := 1; ht <= disk.NumHalftracks; ht++ {

		bits := d.LengthOfHalftrack(ht)
		if err := binary.Write(
			out, binary.LittleEndian, uint16(bits)); err != nil {
			return err
		}

		data := make([]byte, (bits+7)/8)
		for i := 0; i < bits; i++ {
			if d.ReadBit(ht, i) != 0 {
				data[i/8] |= 0x80 >> (i % 8)
			}
		}

		if _, err := out.Write(data); err != nil {
			return err
		}
	}

	return nil
}
