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

package repo

import (
	"os"
	"path/filepath"
	"testing"
)

func TestIndexOnlyHoldsDiskImages(t *testing.T) {

	repoDir := t.TempDir()

	if err := os.MkdirAll(filepath.Join(repoDir, "GAMES"), 0755); err != nil {
		t.Fatal(err)
	}
	for _, f := range []string{
		filepath.Join("GAMES", "Boulder Dash.d64"),
		"intro.prg.gz",
		"readme.txt",
	} {
		if err := os.WriteFile(
			filepath.Join(repoDir, f), []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	i, err := NewIndex(filepath.Join(t.TempDir(), "index"), repoDir)
	if err != nil {
		t.Fatal(err)
	}
	defer i.Stop()

	if err := i.Start(); err != nil {
		t.Fatal(err)
	}

	res, err := i.Search("boulder", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Hits) != 1 ||
		res.Hits[0] != filepath.Join("GAMES", "Boulder Dash.d64") {
		t.Errorf("search for boulder returned %v", res.Hits)
	}

	// compressed images are indexed, plain text files are not
	if res, err = i.Search("intro", 10); err != nil || len(res.Hits) != 1 {
		t.Errorf("search for intro returned %v (%v)", res.Hits, err)
	}
	if res, err = i.Search("readme", 10); err != nil || len(res.Hits) != 0 {
		t.Errorf("search for readme returned %v (%v)", res.Hits, err)
	}
}
