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
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/fd1541/fd1541/pkg/dos"
)

//
const (
	t64HeaderSize = 64
	t64EntrySize  = 32
	t64Signature  = "C64"

	// end address left behind by a widespread buggy conversion tool;
	// files carrying it get their real size restored from the container
	t64BrokenEndAddr = 0xC3C6
)

/*
	T64 is a reader/writer for tape archive containers: a 64 byte header
	with the entry table size, followed by 32 byte directory entries and
	the file data. Many T64 files in circulation were written by broken
	tools; two known defects are repaired during read, with a log message
	each.
*/
type T64 struct{}

//
func NewT64() *T64 {
	return &T64{}
}

//
func (t *T64) Read(in io.Reader, strict bool) (*dos.FileSystem, error) {

	data, err := io.ReadAll(in)
	if err != nil {
		return nil, err
	}
	if len(data) < t64HeaderSize {
		return nil, fmt.Errorf("container too short: %d bytes", len(data))
	}
	if string(data[:len(t64Signature)]) != t64Signature {
		return nil, fmt.Errorf("not a tape archive container")
	}

	maxEntries := int(binary.LittleEndian.Uint16(data[34:]))
	usedEntries := int(binary.LittleEndian.Uint16(data[36:]))
	tapeName := strings.TrimRight(string(data[40:64]), " \x00")

	if t64HeaderSize+maxEntries*t64EntrySize > len(data) {
		return nil, fmt.Errorf("entry table extends past container end")
	}

	if usedEntries == 0 {
		// broken tools leave the used count zero; rescan the table
		for n := 0; n < maxEntries; n++ {
			if data[t64HeaderSize+n*t64EntrySize] != 0 {
				usedEntries = n + 1
			}
		}
		log.Warnf("zero entry count in tape archive, rescan found %d",
			usedEntries)
	}

	fs, err := dos.NewFileSystem(35)
	if err != nil {
		return nil, err
	}
	fs.SetName(tapeName)

	for n := 0; n < usedEntries; n++ {

		e := data[t64HeaderSize+n*t64EntrySize:]
		if e[0] == 0 {
			continue
		}

		start := int(binary.LittleEndian.Uint16(e[2:]))
		end := int(binary.LittleEndian.Uint16(e[4:]))
		offset := int(binary.LittleEndian.Uint32(e[8:]))
		name := strings.TrimRight(string(e[16:32]), " \x00")

		size := end - start
		if end == t64BrokenEndAddr {
			size = len(data) - offset
			log.Warnf("broken end address in entry %d (%s), "+
				"using %d bytes from container size", n, name, size)
		}

		if size < 0 || offset < 0 || offset+size > len(data) {
			if strict {
				return nil, fmt.Errorf("entry %d (%s) extends past "+
					"container end", n, name)
			}
			log.Errorf("entry %d (%s) extends past container end, dropped",
				n, name)
			continue
		}

		file := make([]byte, 2+size)
		binary.LittleEndian.PutUint16(file, uint16(start))
		copy(file[2:], data[offset:offset+size])

		if err := fs.MakeFile(name, file); err != nil {
			return nil, fmt.Errorf("entry %d (%s): %w", n, name, err)
		}
	}

	log.Debugf("%d files loaded from tape archive", fs.NumFiles())

	return fs, nil
}

//
func (t *T64) Write(fs *dos.FileSystem, out io.Writer) error {

	count := fs.ItemCount()
	if count == 0 {
		return fmt.Errorf("no file to export")
	}

	// common tools reserve at least 30 table slots
	slots := count
	if slots < 30 {
		slots = 30
	}

	header := make([]byte, t64HeaderSize)
	copy(header, "C64 tape image file")
	binary.LittleEndian.PutUint16(header[32:], 0x0100)
	binary.LittleEndian.PutUint16(header[34:], uint16(slots))
	binary.LittleEndian.PutUint16(header[36:], uint16(count))
	copy(header[40:64], padSpaces(fs.Name(), 24))

	if _, err := out.Write(header); err != nil {
		return err
	}

	offset := t64HeaderSize + slots*t64EntrySize

	for n := 0; n < count; n++ {

		size := fs.ItemSize(n) - 2
		start := int(fs.LoadAddr(n))

		e := make([]byte, t64EntrySize)
		e[0] = 1    // normal tape file
		e[1] = 0x82 // PRG
		binary.LittleEndian.PutUint16(e[2:], uint16(start))
		binary.LittleEndian.PutUint16(e[4:], uint16(start+size))
		binary.LittleEndian.PutUint32(e[8:], uint32(offset))
		copy(e[16:32], padSpaces(fs.ItemName(n), 16))

		if _, err := out.Write(e); err != nil {
			return err
		}

		offset += size
	}

	if slots > count {
		if _, err := out.Write(
			make([]byte, (slots-count)*t64EntrySize)); err != nil {
			return err
		}
	}

	for n := 0; n < count; n++ {
		if _, err := out.Write(fs.CopyFile(n)[2:]); err != nil {
			return err
		}
	}

	return nil
}

//
func padSpaces(s string, width int) []byte {

	field := make([]byte, width)
	n := copy(field, s)
	for ; n < width; n++ {
		field[n] = ' '
	}

	return field
}
