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

	log "github.com/sirupsen/logrus"

	"github.com/fd1541/fd1541/pkg/dos"
)

// PRG is a reader/writer for raw program files: a 16 bit little-endian
// load address followed by the program bytes. A PRG holds exactly one
// file; the name comes from the host file, not from the container.
type PRG struct {
	name string
}

//
func NewPRG() *PRG {
	return &PRG{name: "PRG"}
}

// SetName sets the file name to use for the next Read, since the
// container itself has none.
func (p *PRG) SetName(name string) {
	p.name = name
}

//
func (p *PRG) Read(in io.Reader, strict bool) (*dos.FileSystem, error) {

	data, err := io.ReadAll(in)
	if err != nil {
		return nil, err
	}
	if len(data) < 2 {
		return nil, fmt.Errorf("program file too short: %d bytes", len(data))
	}

	fs, err := dos.NewFileSystem(35)
	if err != nil {
		return nil, err
	}
	fs.SetName(p.name)

	if err := fs.MakeFile(p.name, data); err != nil {
		return nil, err
	}

	return fs, nil
}

// Write exports the first file; a PRG cannot hold more. Further files are
// dropped with an advisory.
func (p *PRG) Write(fs *dos.FileSystem, out io.Writer) error {

	if fs.ItemCount() == 0 {
		return fmt.Errorf("no file to export")
	}
	if fs.ItemCount() > 1 {
		log.Warnf("disk has %d files, exporting only the first",
			fs.ItemCount())
	}

	_, err := out.Write(fs.CopyFile(0))
	return err
}
