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

package drive

import (
	log "github.com/sirupsen/logrus"
)

// InsertionStatus is the position of a disk in the drive slot.
type InsertionStatus int

//
const (
	FullyEjected InsertionStatus = iota
	PartiallyInserted
	FullyInserted
	PartiallyEjected
)

//
func (s InsertionStatus) String() string {
	switch s {
	case FullyEjected:
		return "FULLY_EJECTED"
	case PartiallyInserted:
		return "PARTIALLY_INSERTED"
	case FullyInserted:
		return "FULLY_INSERTED"
	case PartiallyEjected:
		return "PARTIALLY_EJECTED"
	}
	return "???"
}

// diskChangeDelay is the light barrier passage time in vsync ticks. Drive
// firmware polls the sensor; an instantaneous swap would slip past it and
// desynchronize the DOS, so each state transition holds for this long.
const diskChangeDelay = 17

// InsertionStatus returns the slot state of the drive.
func (dr *Drive) InsertionStatus() InsertionStatus {
	return dr.insertionStatus
}

// HasDisk reports whether a disk is fully inserted.
func (dr *Drive) HasDisk() bool {
	return dr.insertionStatus == FullyInserted
}

/*
	InsertDisk stages d for insertion and starts the light barrier timer.
	The disk's bytes only reach the live surface when the state machine
	arrives at FullyInserted, two delays later. While a swap is in flight,
	further calls are ignored; the staged disk is not replaced.
*/
func (dr *Drive) InsertDisk(d *Disk) {

	if dr.pendingDisk != nil || dr.insertionStatus != FullyEjected {
		log.Debugf("drive %d: disk swap already in flight, insert ignored",
			dr.device)
		return
	}

	dr.pendingDisk = d
	dr.diskChangeCounter = diskChangeDelay
}

// EjectDisk starts pulling the disk out of the slot. A no-op unless a
// disk is fully inserted and no swap is pending.
func (dr *Drive) EjectDisk() {

	if dr.pendingDisk != nil || dr.insertionStatus != FullyInserted {
		log.Debugf("drive %d: no disk to eject", dr.device)
		return
	}

	dr.diskChangeCounter = diskChangeDelay
}

// VsyncTick advances the insertion state machine by one video frame. A
// pending transition fires when its delay runs out, then the next one is
// armed.
func (dr *Drive) VsyncTick() {

	if dr.diskChangeCounter <= 0 {
		return
	}
	dr.diskChangeCounter--
	if dr.diskChangeCounter > 0 {
		return
	}

	switch dr.insertionStatus {

	case FullyEjected:

		// the disk edge reaches the light barrier
		dr.insertionStatus = PartiallyInserted
		dr.diskChangeCounter = diskChangeDelay

	case PartiallyInserted:

		// the disk settles onto the spindle; its content goes live
		dr.insertionStatus = FullyInserted
		dr.disk.CopyFrom(dr.pendingDisk)
		dr.pendingDisk = nil
		dr.emit(MsgDiskInserted)

	case FullyInserted:

		// the disk leaves the spindle, the surface is gone
		dr.insertionStatus = PartiallyEjected
		dr.disk.Clear()
		dr.disk.SetModified(false)
		dr.diskChangeCounter = diskChangeDelay

	case PartiallyEjected:

		dr.insertionStatus = FullyEjected
		dr.emit(MsgDiskEjected)
	}

	log.WithFields(log.Fields{
		"drive": dr.device,
		"state": dr.insertionStatus,
	}).Trace("disk slot")
}
