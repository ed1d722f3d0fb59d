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

package dos

// NamePad is the fill byte of name fields in directory and BAM blocks
// (a shifted space in PETSCII).
const NamePad = 0xA0

// ToPETSCII converts a host string into PETSCII bytes. Lower case ASCII
// letters map to the unshifted PETSCII letters, printable ASCII passes
// through, everything else becomes a space.
func ToPETSCII(s string) []byte {

	out := make([]byte, len(s))

	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case 'a' <= c && c <= 'z':
			out[i] = c - 'a' + 'A'
		case 0x20 <= c && c <= 0x5F:
			out[i] = c
		default:
			out[i] = ' '
		}
	}

	return out
}

// FromPETSCII converts PETSCII bytes into a host string. Non-printable
// codes become spaces.
func FromPETSCII(b []byte) string {

	out := make([]byte, len(b))

	for i, c := range b {
		if 0x20 <= c && c <= 0x5F {
			out[i] = c
		} else if 0xC1 <= c && c <= 0xDA { // shifted letters
			out[i] = c - 0xC1 + 'A'
		} else {
			out[i] = ' '
		}
	}

	return string(out)
}

/*
	PadName lays a name into a fixed-width field, padding with pad. Overlong
	names are truncated, never null-terminated; the field always holds
	exactly width bytes.
*/
func PadName(name string, width int, pad byte) []byte {

	field := make([]byte, width)
	pet := ToPETSCII(name)

	n := copy(field, pet)
	for ; n < width; n++ {
		field[n] = pad
	}

	return field
}

// TrimName reads a fixed-width name field back, stripping the padding.
func TrimName(field []byte, pad byte) string {

	end := len(field)
	for end > 0 && field[end-1] == pad {
		end--
	}

	return FromPETSCII(field[:end])
}
