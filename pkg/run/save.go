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
	"os"
)

//
func NewSave() *Save {

	s := &Save{}
	s.Runner = *NewRunner(
		"save [-d|--drive {device}] -o|--output {file} [-f|--force] [-a|--address {address}]",
		"get disk image from daemon and save",
		`
Use the save command to get the disk from one of the daemon's drives and save
it to an image file.`,
		"", `- The format for saving the file is determined by the file extension of the
  given file name. Currently supported formats are .d64, .g64, .t64, and .prg

`+runnerHelpEpilogue, s.Run)

	s.AddBaseSettings()
	s.AddSetting(&s.File, "output", "o", "", nil, "disk image output file", true)
	s.AddSetting(&s.Drive, "drive", "d", "", 8, "device number (8 or 9)", false)
	s.AddSetting(&s.Force, "force", "f", "", false,
		"force overwriting output file", false)

	return s
}

//
type Save struct {
	//
	Runner
	//
	File  string
	Drive int
	Force bool
}

//
func (s *Save) Run() error {

	s.ParseSettings()

	if err := validateDevice(s.Drive); err != nil {
		return err
	}

	if !s.Force {
		if _, err := os.Stat(s.File); err == nil &&
			!GetUserConfirmation("File exists, overwrite?") {
			return nil
		}
	}

	resp, err := s.apiCall("GET",
		fmt.Sprintf("/drive/%d?type=%s", s.Drive, getExtension(s.File)),
		false, nil)
	if err != nil {
		return err
	}

	defer resp.Close()

	f, err := os.Create(s.File)
	if err != nil {
		return err
	}
	defer f.Close()

	out := bufio.NewWriter(f)
	defer out.Flush()

	if _, err := io.Copy(out, resp); err != nil {
		return err
	}

	fmt.Println("disk image saved")
	return nil
}
