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
	"encoding/hex"
	"fmt"
	"io"
	"io/ioutil"
	"os"

	"github.com/fd1541/fd1541/pkg/dos"
	"github.com/fd1541/fd1541/pkg/format"
)

//
func NewDump() *Dump {

	d := &Dump{}
	d.Runner = *NewRunner(
		"dump [-d|--drive {device}] [-f|--file {file}] [-i|--input {file}] [-a|--address {address}]",
		"dump disk from file or daemon",
		`
Use the dump command to output info about a disk from file or from daemon,
or a hex dump of one of its files.`,
		"", runnerHelpEpilogue, d.Run)

	d.AddBaseSettings()
	d.AddSetting(&d.Input, "input", "i", "", nil, "disk image input file", false)
	d.AddSetting(&d.Drive, "drive", "d", "", 8, "device number (8 or 9)", false)
	d.AddSetting(&d.File, "file", "f", "", nil, "file on disk to dump", false)

	return d
}

//
type Dump struct {
	//
	Runner
	//
	Drive int
	Input string
	File  string
}

//
func (d *Dump) Run() error {

	d.ParseSettings()

	if d.Input != "" {
		f, err := os.Open(d.Input)
		if err != nil {
			return err
		}
		defer f.Close()

		_, typ, comp := format.SplitNameTypeCompressor(d.Input)

		rd, err := format.NewImageReader(
			ioutil.NopCloser(bufio.NewReader(f)), comp)
		if err != nil {
			return err
		}

		if typ == "" {
			typ = rd.Type()
		}

		form, err := format.NewFormat(typ)
		if err != nil {
			return err
		}

		fs, err := form.Read(rd, false)
		if err != nil {
			return err
		}

		if d.File != "" {
			n := findFile(fs, d.File)
			if n == -1 {
				return fmt.Errorf("no file '%s' on disk", d.File)
			}
			dmp := hex.Dumper(os.Stdout)
			defer dmp.Close()
			dmp.Write(fs.CopyFile(n))

		} else {
			printDiskInfo(fs)
		}

	} else {
		if err := validateDevice(d.Drive); err != nil {
			return err
		}

		resp, err := d.apiCall("GET",
			fmt.Sprintf("/drive/%d/dump?file=%s", d.Drive, d.File), false, nil)
		if err != nil {
			return err
		}
		defer resp.Close()

		if _, err := io.Copy(os.Stdout, resp); err != nil {
			return err
		}
	}

	fmt.Println()
	return nil
}

//
func printDiskInfo(fs *dos.FileSystem) {

	id1, id2 := fs.DiskID()
	fmt.Printf("\nname:   %s\nid:     %c%c\ntracks: %d\n\n",
		fs.Name(), id1, id2, fs.NumTracks())

	for n := 0; n < fs.NumFiles(); n++ {
		fmt.Printf("%-18s %6d bytes  load address $%04X\n",
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
