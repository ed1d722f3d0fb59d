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
	"bytes"
	"fmt"
	"net/http"
	"strings"
)

// save exports the disk in the drive in the requested image format. The
// drive has to be idle: motor off, no disk swap in flight.
func (a *api) save(w http.ResponseWriter, req *http.Request) {

	drive := getDrive(w, req)
	if drive == -1 {
		return
	}

	writer := getFormat(w, req, "d64")
	if writer == nil {
		return
	}

	fs, err := a.daemon.Export(drive)
	if err != nil {
		handleExportError(err, drive, w)
		return
	}

	var out bytes.Buffer
	if handleError(
		writer.Write(fs, &out), http.StatusInternalServerError, w) {
		return
	}

	a.daemon.Saved(drive)
	w.WriteHeader(http.StatusOK)
	w.Write(out.Bytes())
}

//
func handleExportError(err error, drive int, w http.ResponseWriter) {
	if strings.Contains(err.Error(), "busy") ||
		strings.Contains(err.Error(), "could not lock") {
		handleError(fmt.Errorf("unit %d busy", drive), http.StatusLocked, w)
	} else {
		handleError(err, http.StatusUnprocessableEntity, w)
	}
}
