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

package disk

// InvalidGCR is returned by DecodeNibble for the 16 five-bit patterns that
// are not valid GCR codewords. Real drive hardware cannot recover data from
// such a bitstream either, so callers have to check for it.
const InvalidGCR = 0xFF

// gcrEncode maps 4 data bits to 5 GCR bits.
var gcrEncode = [16]byte{
	0x0a, 0x0b, 0x12, 0x13, //  0 -  3
	0x0e, 0x0f, 0x16, 0x17, //  4 -  7
	0x09, 0x19, 0x1a, 0x1b, //  8 - 11
	0x0d, 0x1d, 0x1e, 0x15, // 12 - 15
}

// gcrDecode maps 5 GCR bits back to 4 data bits, invalid patterns map to
// InvalidGCR.
var gcrDecode = [32]byte{
	0xFF, 0xFF, 0xFF, 0xFF, // 0x00 - 0x03
	0xFF, 0xFF, 0xFF, 0xFF, // 0x04 - 0x07
	0xFF, 8, 0, 1, // 0x08 - 0x0B
	0xFF, 12, 4, 5, // 0x0C - 0x0F
	0xFF, 0xFF, 2, 3, // 0x10 - 0x13
	0xFF, 15, 6, 7, // 0x14 - 0x17
	0xFF, 9, 10, 11, // 0x18 - 0x1B
	0xFF, 13, 14, 0xFF, // 0x1C - 0x1F
}

// EncodeNibble converts a 4 bit value into its 5 bit GCR codeword.
func EncodeNibble(v byte) byte {
	return gcrEncode[v&0x0F]
}

// DecodeNibble converts a 5 bit pattern back into the 4 bit value it encodes,
// or InvalidGCR if the pattern is not a GCR codeword.
func DecodeNibble(codeword byte) byte {
	return gcrDecode[codeword&0x1F]
}

// IsGCR reports whether the given 5 bit pattern is a valid GCR codeword.
func IsGCR(codeword byte) bool {
	return gcrDecode[codeword&0x1F] != InvalidGCR
}

// EncodeByte converts a byte into its 10 bit GCR representation, high nibble
// first. The upper 6 bits of the returned value are zero.
func EncodeByte(v byte) uint16 {
	return uint16(EncodeNibble(v>>4))<<5 | uint16(EncodeNibble(v))
}

// DecodeByte converts 10 GCR bits, high codeword first, back into a byte.
// The second return value is false when either codeword is invalid; the
// byte value is unusable in that case.
func DecodeByte(codewords uint16) (byte, bool) {
	hi := DecodeNibble(byte(codewords >> 5))
	lo := DecodeNibble(byte(codewords))
	return hi<<4 | lo, hi != InvalidGCR && lo != InvalidGCR
}
