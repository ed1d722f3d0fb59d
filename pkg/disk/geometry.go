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

//
const (
	// NumTracks is the number of physical tracks the head can reach. Standard
	// disks use 35 tracks, extended images up to 42.
	NumTracks = 42

	// NumHalftracks addresses the same surface at half step resolution,
	// halftrack = 2*track - 1, plus the parking position above track 42.
	NumHalftracks = 2 * NumTracks // 84

	// StandardTracks is the track count of a standard formatted disk.
	StandardTracks = 35

	// MaxSectors is the highest sector count of any track.
	MaxSectors = 21
)

// TrackDefaults collects the nominal per-track constants of the drive
// mechanics: sector count, speed zone, track size, the logical number of the
// track's first sector, and the relative angular position at which the first
// sector is written (head skew accumulated while the drive steps outward).
type TrackDefaults struct {
	Sectors       int
	SpeedZone     int
	LengthInBytes int
	LengthInBits  int
	FirstSector   int
	Stagger       float64
}

// trackDefaults is indexed by track number 1 through 42; index 0 is padding.
var trackDefaults = [NumTracks + 1]TrackDefaults{
	{},
	{21, 3, 7693, 7693 * 8, 0, 0.268956},    // track 1
	{21, 3, 7693, 7693 * 8, 21, 0.724382},   // track 2
	{21, 3, 7693, 7693 * 8, 42, 0.179808},   // track 3
	{21, 3, 7693, 7693 * 8, 63, 0.635234},   // track 4
	{21, 3, 7693, 7693 * 8, 84, 0.090660},   // track 5
	{21, 3, 7693, 7693 * 8, 105, 0.546086},  // track 6
	{21, 3, 7693, 7693 * 8, 126, 0.001512},  // track 7
	{21, 3, 7693, 7693 * 8, 147, 0.456938},  // track 8
	{21, 3, 7693, 7693 * 8, 168, 0.912364},  // track 9
	{21, 3, 7693, 7693 * 8, 189, 0.367790},  // track 10
	{21, 3, 7693, 7693 * 8, 210, 0.823216},  // track 11
	{21, 3, 7693, 7693 * 8, 231, 0.278642},  // track 12
	{21, 3, 7693, 7693 * 8, 252, 0.734068},  // track 13
	{21, 3, 7693, 7693 * 8, 273, 0.189494},  // track 14
	{21, 3, 7693, 7693 * 8, 294, 0.644920},  // track 15
	{21, 3, 7693, 7693 * 8, 315, 0.100346},  // track 16
	{21, 3, 7693, 7693 * 8, 336, 0.555772},  // track 17
	{19, 2, 7143, 7143 * 8, 357, 0.011198},  // track 18
	{19, 2, 7143, 7143 * 8, 376, 0.466624},  // track 19
	{19, 2, 7143, 7143 * 8, 395, 0.922050},  // track 20
	{19, 2, 7143, 7143 * 8, 414, 0.377476},  // track 21
	{19, 2, 7143, 7143 * 8, 433, 0.832902},  // track 22
	{19, 2, 7143, 7143 * 8, 452, 0.288328},  // track 23
	{19, 2, 7143, 7143 * 8, 471, 0.743754},  // track 24
	{18, 1, 6667, 6667 * 8, 490, 0.199180},  // track 25
	{18, 1, 6667, 6667 * 8, 508, 0.654606},  // track 26
	{18, 1, 6667, 6667 * 8, 526, 0.110032},  // track 27
	{18, 1, 6667, 6667 * 8, 544, 0.565458},  // track 28
	{18, 1, 6667, 6667 * 8, 562, 0.020884},  // track 29
	{18, 1, 6667, 6667 * 8, 580, 0.476310},  // track 30
	{17, 0, 6250, 6250 * 8, 598, 0.931736},  // track 31
	{17, 0, 6250, 6250 * 8, 615, 0.387162},  // track 32
	{17, 0, 6250, 6250 * 8, 632, 0.842588},  // track 33
	{17, 0, 6250, 6250 * 8, 649, 0.298014},  // track 34
	{17, 0, 6250, 6250 * 8, 666, 0.753440},  // track 35
	{17, 0, 6250, 6250 * 8, 683, 0.208866},  // track 36
	{17, 0, 6250, 6250 * 8, 700, 0.664292},  // track 37
	{17, 0, 6250, 6250 * 8, 717, 0.119718},  // track 38
	{17, 0, 6250, 6250 * 8, 734, 0.575144},  // track 39
	{17, 0, 6250, 6250 * 8, 751, 0.030570},  // track 40
	{17, 0, 6250, 6250 * 8, 768, 0.485996},  // track 41
	{17, 0, 6250, 6250 * 8, 785, 0.941422},  // track 42
}

// TrackOf maps a halftrack number to its track number.
func TrackOf(ht int) int {
	return (ht + 1) / 2
}

// HalftrackOf maps a track number to its halftrack number.
func HalftrackOf(t int) int {
	return 2*t - 1
}

// Defaults returns the geometry constants for the given track.
func Defaults(t int) TrackDefaults {
	return trackDefaults[t]
}

// SectorsInTrack returns the number of sectors stored in the given track.
func SectorsInTrack(t int) int {
	return trackDefaults[t].Sectors
}

// SectorsInHalftrack returns the number of sectors stored in the given
// halftrack.
func SectorsInHalftrack(ht int) int {
	return SectorsInTrack(TrackOf(ht))
}

// SpeedZoneOfTrack returns the default speed zone of the given track.
func SpeedZoneOfTrack(t int) int {
	return trackDefaults[t].SpeedZone
}

// SpeedZoneOfHalftrack returns the default speed zone of the given halftrack.
func SpeedZoneOfHalftrack(ht int) int {
	return SpeedZoneOfTrack(TrackOf(ht))
}

// IsTrackNumber reports whether t is a valid track number.
func IsTrackNumber(t int) bool {
	return 1 <= t && t <= NumTracks
}

// IsHalftrackNumber reports whether ht is a valid halftrack number.
func IsHalftrackNumber(ht int) bool {
	return 1 <= ht && ht <= NumHalftracks
}

// IsValidTrackSectorPair reports whether sector s exists on track t.
func IsValidTrackSectorPair(t, s int) bool {
	return IsTrackNumber(t) && 0 <= s && s < SectorsInTrack(t)
}

// IsValidHalftrackSectorPair reports whether sector s exists on halftrack ht.
func IsValidHalftrackSectorPair(ht, s int) bool {
	return IsHalftrackNumber(ht) && 0 <= s && s < SectorsInHalftrack(ht)
}
