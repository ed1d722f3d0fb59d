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
	"net/http"

	"github.com/fd1541/fd1541/pkg/daemon"
)

// config changes a drive setting: connected, power, or writeprotect.
func (a *api) config(w http.ResponseWriter, req *http.Request) {

	device, err := getIntArg(req, "drive", -1)
	if handleError(err, http.StatusUnprocessableEntity, w) {
		return
	}

	if device < daemon.FirstDevice ||
		daemon.FirstDevice+daemon.DriveCount <= device {
		handleError(fmt.Errorf("invalid unit: %d", device),
			http.StatusUnprocessableEntity, w)
		return
	}

	item := getArg(req, "item")
	on := isFlagSet(req, "on")

	if handleError(
		a.daemon.Configure(device, item, on),
		http.StatusUnprocessableEntity, w) {
		return
	}

	sendReply([]byte(
		fmt.Sprintf("unit %d: %s set to %v", device, item, on)),
		http.StatusOK, w)
}
