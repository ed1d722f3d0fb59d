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

package control

import (
	"fmt"

	"github.com/fd1541/fd1541/pkg/daemon"
)

//
type Status struct {
	Units []*daemon.Status `json:"units"`
}

//
func (s *Status) Add(u *daemon.Status) {
	s.Units = append(s.Units, u)
}

//
func (s *Status) String() string {
	ret := "\n"
	for _, u := range s.Units {
		ret = fmt.Sprintf("%s%s\n", ret, u)
	}
	return ret
}

//
type Version struct {
	Daemon string `json:"daemon"`
}

//
func (v *Version) String() string {
	return fmt.Sprintf("daemon:     %s", v.Daemon)
}
