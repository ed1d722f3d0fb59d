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
	"io"
	"net/http"
	"strings"

	"github.com/fd1541/fd1541/pkg/format"
	"github.com/fd1541/fd1541/pkg/repo"
)

//
const maxImageSize = 4194304

//
func (a *api) load(w http.ResponseWriter, req *http.Request) {

	drive := getDrive(w, req)
	if drive == -1 {
		return
	}

	var in io.ReadCloser

	if ref, err := getRef(req); ref != "" {
		if err == nil {
			in, err = repo.Resolve(ref, a.repository)
		}
		if err != nil {
			handleError(err, http.StatusNotAcceptable, w)
			return
		}
	} else {
		in = http.MaxBytesReader(nil, req.Body, maxImageSize)
	}

	ir, err := format.NewImageReader(in, getArg(req, "compressor"))
	if err != nil {
		handleError(err, http.StatusUnprocessableEntity, w)
		return
	}
	defer ir.Close()

	typ := getArg(req, "type")
	if typ == "" {
		typ = ir.Type()
	}

	reader, err := format.NewFormat(typ)
	if handleError(err, http.StatusUnprocessableEntity, w) {
		return
	}

	name := getArg(req, "name")
	if name == "" {
		name = ir.Name()
	}
	if p, ok := reader.(*format.PRG); ok && name != "" {
		p.SetName(name)
	}

	fs, err := reader.Read(ir, false)
	if err != nil {
		handleError(fmt.Errorf("image corrupted: %v", err),
			http.StatusUnprocessableEntity, w)
		return
	}

	if handleError(req.Body.Close(), http.StatusInternalServerError, w) {
		return
	}

	err = a.daemon.Load(drive, fs, name,
		isFlagSet(req, "writeprotect"), isFlagSet(req, "force"))
	if err != nil {
		if strings.Contains(err.Error(), "could not lock") {
			handleError(fmt.Errorf("unit %d busy", drive),
				http.StatusLocked, w)
		} else if strings.Contains(err.Error(), "is modified") {
			handleError(fmt.Errorf("disk in unit %d is modified", drive),
				http.StatusConflict, w)
		} else {
			handleError(err, http.StatusInternalServerError, w)
		}

	} else {
		sendReply([]byte(
			fmt.Sprintf("loaded disk into unit %d", drive)), http.StatusOK, w)
	}
}
