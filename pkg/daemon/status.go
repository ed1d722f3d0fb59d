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

package daemon

import (
	"fmt"
)

// Status is a snapshot of one drive unit, safe to hand out after the
// unit's lock is released again.
type Status struct {
	Device         int    `json:"device"`
	Name           string `json:"name"`
	State          string `json:"state"`
	HasDisk        bool   `json:"hasDisk"`
	Busy           bool   `json:"busy"`
	Swapping       bool   `json:"swapping"`
	WriteProtected bool   `json:"writeProtected"`
	Modified       bool   `json:"modified"`
	Rotating       bool   `json:"rotating"`
	Track          string `json:"track"`
}

//
func (s *Status) String() string {

	if s.Busy {
		return fmt.Sprintf("%d: <busy>", s.Device)
	}

	name := s.Name
	if name == "" {
		name = "<no disk>"
	}
	if !s.HasDisk && !s.Swapping {
		name = "<empty>"
	}

	write := 'w'
	if s.WriteProtected {
		write = 'r'
	}

	mod := ' '
	if s.Modified {
		mod = '*'
	}

	motor := ' '
	if s.Rotating {
		motor = 'm'
	}

	return fmt.Sprintf("%d: %-16s %s %c%c%c track %s",
		s.Device, name, s.State, write, mod, motor, s.Track)
}
