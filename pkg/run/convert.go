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
	"io/ioutil"
	"os"

	"github.com/fd1541/fd1541/pkg/format"
)

//
func NewConvert() *Convert {

	c := &Convert{}
	c.Runner = *NewRunner(
		"convert -i|--input {file} -o|--output {file} [-s|--strict] [-f|--force]",
		"convert between disk image formats",
		`
Use the convert command to convert a disk image from one format into another,
without going through the daemon. Input and output formats are derived from
the file extensions.`,
		"", `- Supported image types are d64, g64, t64, and prg; the input may
  additionally be compressed with gzip, zip, or 7z.

`+runnerHelpEpilogue, c.Run)

	c.AddBaseSettings()
	c.AddSetting(&c.Input, "input", "i", "", nil, "input image file", true)
	c.AddSetting(&c.Output, "output", "o", "", nil, "output image file", true)
	c.AddSetting(&c.Strict, "strict", "s", "", false,
		"fail on defects in the input image", false)
	c.AddSetting(&c.Force, "force", "f", "", false,
		"force overwriting output file", false)

	return c
}

//
type Convert struct {
	//
	Runner
	//
	Input  string
	Output string
	Strict bool
	Force  bool
}

//
func (c *Convert) Run() error {

	c.ParseSettings()

	if !c.Force {
		if _, err := os.Stat(c.Output); err == nil &&
			!GetUserConfirmation("File exists, overwrite?") {
			return nil
		}
	}

	f, err := os.Open(c.Input)
	if err != nil {
		return err
	}
	defer f.Close()

	name, typ, comp := format.SplitNameTypeCompressor(c.Input)

	rd, err := format.NewImageReader(ioutil.NopCloser(bufio.NewReader(f)), comp)
	if err != nil {
		return err
	}

	if typ == "" {
		typ = rd.Type()
	}

	in, err := format.NewFormat(typ)
	if err != nil {
		return err
	}
	if p, ok := in.(*format.PRG); ok && name != "" {
		p.SetName(name)
	}

	fs, err := in.Read(rd, c.Strict)
	if err != nil {
		return err
	}

	out, err := format.NewFormat(getExtension(c.Output))
	if err != nil {
		return err
	}

	o, err := os.Create(c.Output)
	if err != nil {
		return err
	}
	defer o.Close()

	w := bufio.NewWriter(o)
	defer w.Flush()

	if err := out.Write(fs, w); err != nil {
		return err
	}

	fmt.Printf("converted '%s' to '%s'\n", c.Input, c.Output)
	return nil
}
