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
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/fd1541/fd1541/pkg/disk"
	"github.com/fd1541/fd1541/pkg/dos"
)

/*
	Collection is what any source of files looks like to the converters: a
	list of items with names, sizes and random byte access. File containers
	and the virtual filesystem both provide it; a converter never needs to
	know the concrete kind behind it.
*/
type Collection interface {
	ItemCount() int
	ItemName(n int) string
	// ItemSize is the item's size in bytes, load address included
	ItemSize(n int) int
	ReadByte(n, offset int) byte
}

// Reader interface for reading in a disk image or file container
type Reader interface {
	// when setting strict, structural inconsistencies fail the read
	// instead of being logged
	Read(in io.Reader, strict bool) (*dos.FileSystem, error)
}

// Writer interface for writing out a disk image or file container
type Writer interface {
	Write(fs *dos.FileSystem, out io.Writer) error
}

// ReaderWriter interface for reading/writing a disk image
type ReaderWriter interface {
	Reader
	Writer
}

//
func NewFormat(typ string) (ReaderWriter, error) {

	switch typ {

	case "d64":
		return NewD64(), nil

	case "g64":
		return NewG64(), nil

	case "prg":
		return NewPRG(), nil

	case "t64":
		return NewT64(), nil

	default:
		return nil, fmt.Errorf("unsupported image format: %s", typ)
	}
}

// Import builds a freshly formatted virtual filesystem holding the items
// of a collection.
func Import(c Collection, diskName string) (*dos.FileSystem, error) {

	fs, err := dos.NewFileSystem(disk.StandardTracks)
	if err != nil {
		return nil, err
	}
	fs.SetName(diskName)

	for n := 0; n < c.ItemCount(); n++ {

		data := make([]byte, c.ItemSize(n))
		for i := range data {
			data[i] = c.ReadByte(n, i)
		}

		if err := fs.MakeFile(c.ItemName(n), data); err != nil {
			return nil, fmt.Errorf("item %d (%s): %w", n, c.ItemName(n), err)
		}
	}

	return fs, nil
}

//
func SplitNameTypeCompressor(file string) (name, typ, compressor string) {

	_, n := filepath.Split(file)

	for {
		ext := filepath.Ext(n)
		if ext == "" {
			name = n
			break
		}

		n = strings.TrimSuffix(n, ext)
		ext = strings.ToLower(strings.TrimPrefix(ext, "."))

		switch ext {

		case "d64":
			fallthrough
		case "g64":
			fallthrough
		case "prg":
			fallthrough
		case "t64":
			typ = ext

		case "gz":
			fallthrough
		case "gzip":
			fallthrough
		case "zip":
			fallthrough
		case "7z":
			compressor = ext
		}
	}

	return name, typ, compressor
}
