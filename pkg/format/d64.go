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
	"io"

	log "github.com/sirupsen/logrus"

	"github.com/fd1541/fd1541/pkg/dos"
)

// D64 is a reader/writer for the D64 format, the sector-linear image of a
// disk: all sectors in track order, value for value, optionally followed
// by one error code byte per sector.
type D64 struct{}

//
func NewD64() *D64 {
	return &D64{}
}

//
func (d *D64) Read(in io.Reader, strict bool) (*dos.FileSystem, error) {

	data, err := io.ReadAll(in)
	if err != nil {
		return nil, err
	}

	fs, err := dos.FromImage(data)
	if err != nil {
		return nil, err
	}

	if err := fs.Check(); err != nil {
		if strict {
			return nil, err
		}
		log.Warnf("image is inconsistent: %v", err)
	}

	log.Debugf("%d files loaded", fs.NumFiles())

	return fs, nil
}

//
func (d *D64) Write(fs *dos.FileSystem, out io.Writer) error {
	_, err := out.Write(fs.ToImage())
	return err
}
