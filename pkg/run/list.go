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
	"fmt"
	"io/ioutil"
)

//
func NewList() *List {

	l := &List{}
	l.Runner = *NewRunner(
		"ls [-d|--drive {device}] [-a|--address {address}]",
		"get drive list from daemon",
		`
Use the ls command to get a drive list from the daemon. With --drive, the
directory of the disk in that drive is listed instead.`,
		"", runnerHelpEpilogue, l.Run)

	l.AddBaseSettings()
	l.AddSetting(&l.Drive, "drive", "d", "", -1,
		"device number (8 or 9); when given, list the disk directory", false)

	return l
}

//
type List struct {
	//
	Runner
	//
	Drive int
}

//
func (l *List) Run() error {

	l.ParseSettings()

	path := "/list"
	if l.Drive != -1 {
		if err := validateDevice(l.Drive); err != nil {
			return err
		}
		path = fmt.Sprintf("/drive/%d/list", l.Drive)
	}

	resp, err := l.apiCall("GET", path, false, nil)
	if err != nil {
		return err
	}
	defer resp.Close()

	list, err := ioutil.ReadAll(resp)
	if err != nil {
		return err
	}

	fmt.Printf("%s\n", list)
	return nil
}
