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

package run

import (
	"bufio"
	"fmt"
	"io"
	"io/ioutil"
	"net/url"
	"os"
	"strconv"
)

//
func NewLoad() *Load {

	l := &Load{}
	l.Runner = *NewRunner(
		`load [-d|--drive {device}] -i|--input {file}|--ref {reference} [-f|--force]
     [-w|--writeprotect] [-a|--address {address}]`,
		"load disk image into daemon",
		`
Use the load command to insert a disk image into one of the daemon's drives.
The image can come from a local file, or from the daemon's repository when
given as a reference.`,
		"", `- Supported image types are d64, g64, t64, and prg, optionally compressed
  with gzip, zip, or 7z. The type is derived from the file extension, and can
  be overridden with --type.

`+runnerHelpEpilogue, l.Run)

	l.AddBaseSettings()
	l.AddSetting(&l.File, "input", "i", "", nil, "disk image input file", false)
	l.AddSetting(&l.Ref, "ref", "", "", nil,
		"repo reference of disk image to load", false)
	l.AddSetting(&l.Type, "type", "t", "", nil,
		"image type, overrides file extension", false)
	l.AddSetting(&l.Drive, "drive", "d", "", 8, "device number (8 or 9)", false)
	l.AddSetting(&l.Force, "force", "f", "", false,
		"force replacing modified disk in daemon", false)
	l.AddSetting(&l.WriteProtect, "writeprotect", "w", "", false,
		"write protect the disk", false)

	return l
}

//
type Load struct {
	//
	Runner
	//
	Drive        int
	File         string
	Ref          string
	Type         string
	Force        bool
	WriteProtect bool
}

//
func (l *Load) Run() error {

	l.ParseSettings()

	if err := validateDevice(l.Drive); err != nil {
		return err
	}

	if l.File == "" && l.Ref == "" {
		return fmt.Errorf("need either an input file or a repo reference")
	}

	typ := l.Type
	var body io.Reader

	if l.File != "" {
		f, err := os.Open(l.File)
		if err != nil {
			return err
		}
		defer f.Close()
		body = bufio.NewReader(f)
		if typ == "" {
			typ = getExtension(l.File)
		}
	}

	path := fmt.Sprintf("/drive/%d?type=%s&force=%s&writeprotect=%s",
		l.Drive, typ, strconv.FormatBool(l.Force),
		strconv.FormatBool(l.WriteProtect))
	if l.Ref != "" {
		path = fmt.Sprintf("%s&ref=%s", path, url.QueryEscape(l.Ref))
	}

	resp, err := l.apiCall("PUT", path, false, body)
	if err != nil {
		return err
	}
	defer resp.Close()

	msg, err := ioutil.ReadAll(resp)
	if err != nil {
		return err
	}

	fmt.Printf("%s", msg)
	return nil
}
