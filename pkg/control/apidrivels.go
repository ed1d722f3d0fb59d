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
	"encoding/hex"
	"fmt"
	"io"
	"net/http"

	"github.com/fd1541/fd1541/pkg/dos"
)

//
func (a *api) dump(w http.ResponseWriter, req *http.Request) {
	a.driveInfo(w, req, "dump")
}

//
func (a *api) driveList(w http.ResponseWriter, req *http.Request) {
	a.driveInfo(w, req, "ls")
}

// driveInfo decodes the disk in the drive and streams either its directory
// or a dump of one of its files. The drive has to be in a stable state for
// this, see Daemon.Export.
func (a *api) driveInfo(w http.ResponseWriter, req *http.Request, info string) {

	drive := getDrive(w, req)
	if drive == -1 {
		return
	}

	fs, err := a.daemon.Export(drive)
	if err != nil {
		handleExportError(err, drive, w)
		return
	}

	var bytes []byte
	name := getArg(req, "file")
	if info == "dump" && name != "" {
		n := findFile(fs, name)
		if n == -1 {
			handleError(fmt.Errorf("no file %q on disk in unit %d",
				name, drive), http.StatusUnprocessableEntity, w)
			return
		}
		bytes = fs.CopyFile(n)
	}

	read, write := io.Pipe()

	go func() {
		switch info {

		case "dump":
			if name != "" {
				d := hex.Dumper(write)
				defer d.Close()
				d.Write(bytes)
			} else {
				writeDiskInfo(write, fs)
			}

		case "ls":
			WriteFileList(write, fs)
		}
		write.Close()
	}()

	sendStreamReply(read, http.StatusOK, w)
}

// WriteFileList writes the directory of fs in the layout of the drive's
// own directory listing.
func WriteFileList(w io.Writer, fs *dos.FileSystem) {

	id1, id2 := fs.DiskID()
	fmt.Fprintf(w, "\n0 \"%-16s\" %c%c 2A\n", fs.Name(), id1, id2)

	for n := 0; n < fs.NumFiles(); n++ {
		blocks := (fs.FileSize(n) + dos.BlockPayload - 1) / dos.BlockPayload
		fmt.Fprintf(w, "%-5d\"%s\" PRG\n", blocks, fs.FileName(n))
	}

	fmt.Fprintf(w, "%d BLOCKS FREE.\n", fs.FreeBlocks())
}

//
func writeDiskInfo(w io.Writer, fs *dos.FileSystem) {

	id1, id2 := fs.DiskID()
	fmt.Fprintf(w, "\nname:   %s\nid:     %c%c\ntracks: %d\n\n",
		fs.Name(), id1, id2, fs.NumTracks())

	for n := 0; n < fs.NumFiles(); n++ {
		fmt.Fprintf(w, "%-18s %6d bytes  load address $%04X\n",
			fs.FileName(n), fs.FileSize(n), fs.LoadAddr(n))
	}
}

//
func findFile(fs *dos.FileSystem, name string) int {
	for n := 0; n < fs.NumFiles(); n++ {
		if fs.FileName(n) == name {
			return n
		}
	}
	return -1
}
