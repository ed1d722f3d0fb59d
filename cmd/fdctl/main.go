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

package main

import (
	"fmt"
	"os"

	"github.com/fd1541/fd1541/pkg/run"
)

//
func synopsis() {
	fmt.Print(`
synopsis: fdctl {serve|load|unload|save|ls|dump|convert|config|search|version} ...

run 'fdctl {action} -h|--help' to see detailed info

`)
}

//
func main() {

	var action string
	var args []string

	if len(os.Args) > 1 {
		action = os.Args[1]
	}

	if len(os.Args) > 2 {
		args = os.Args[2:]
	}

	switch action {

	case "serve":
		run.DieOnError(run.NewServe().Execute(args))

	case "load":
		run.DieOnError(run.NewLoad().Execute(args))

	case "unload":
		run.DieOnError(run.NewUnload().Execute(args))

	case "save":
		run.DieOnError(run.NewSave().Execute(args))

	case "ls":
		run.DieOnError(run.NewList().Execute(args))

	case "dump":
		run.DieOnError(run.NewDump().Execute(args))

	case "convert":
		run.DieOnError(run.NewConvert().Execute(args))

	case "config":
		run.DieOnError(run.NewConfig().Execute(args))

	case "search":
		run.DieOnError(run.NewSearch().Execute(args))

	case "version":
		run.DieOnError(run.NewVersion().Execute(args))

	case "":
		fallthrough
	case "-h":
		fallthrough
	case "--help":
		synopsis()

	default:
		run.Die("unknown action: %s\n", action)
	}
}
