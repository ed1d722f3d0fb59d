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
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

/*
	Resolve turns a disk image reference into a reader. An http or https
	URL is fetched; anything else is a path relative to the repository
	root. References trying to climb out of the repository are refused.
*/
func Resolve(ref, repository string) (io.ReadCloser, error) {

	if strings.HasPrefix(ref, "http://") ||
		strings.HasPrefix(ref, "https://") {
		return NewHTTPSource(ref)
	}

	if repository == "" {
		return nil, fmt.Errorf("no repository configured")
	}

	path := filepath.Join(repository, filepath.FromSlash(ref))

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	root, err := filepath.Abs(repository)
	if err != nil {
		return nil, err
	}
	if !strings.HasPrefix(abs, root+string(filepath.Separator)) {
		return nil, fmt.Errorf("reference outside repository: %s", ref)
	}

	return NewFileSource(abs)
}
