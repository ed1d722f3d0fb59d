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

package daemon

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/fd1541/fd1541/pkg/disk"
	"github.com/fd1541/fd1541/pkg/drive"
)

/*
	Unit is one hosted drive: the drive itself, its host-side chip
	stand-ins, and a staging slot for the next disk to insert. The lock
	serializes the emulation loop against API operations; whoever holds it
	owns the unit's entire state.
*/
type Unit struct {
	//
	drive *drive.Drive
	port  *logicPort
	//
	name    string
	pending *disk.Disk
	//
	lock chan bool
}

//
func newUnit(device int, notify drive.Notify) *Unit {

	u := &Unit{
		port: &logicPort{},
		lock: make(chan bool, 1),
	}
	u.drive = drive.NewDrive(device, nopCPU{}, &quietVIA{}, u.port, notify)
	u.drive.SetConnected(true)
	u.drive.SetSwitchedOn(true)

	return u
}

//
func (u *Unit) Lock(ctx context.Context) bool {
	select {
	case u.lock <- true:
		log.Trace("unit locked")
		return true
	case <-ctx.Done():
		log.Debug("unit lock timed out")
		return false
	}
}

//
func (u *Unit) Unlock() {
	select {
	case <-u.lock:
		log.Trace("unit unlocked")
	default:
		log.Debug("unit was already unlocked")
	}
}

//
func (u *Unit) lockWithTimeout() bool {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	return u.Lock(ctx)
}

// Drive exposes the unit's drive; only call while holding the lock.
func (u *Unit) Drive() *drive.Drive {
	return u.drive
}

//
func (u *Unit) Name() string {
	return u.name
}

// stage queues a disk for insertion. The frame loop feeds it to the
// drive's slot once any swap in flight has settled. A load without a
// host-side name picks up the disk's own label.
func (u *Unit) stage(d *disk.Disk, name string) {
	if name == "" {
		name = disk.NewAnalyzer(d).DiskName()
	}
	u.pending = d
	u.name = name
	if u.drive.HasDisk() {
		u.drive.EjectDisk()
	}
}

// executeFrame advances the unit by one video frame. Skipped entirely
// when someone else holds the unit; a frame of drift does not matter,
// torn state would.
func (u *Unit) executeFrame() {

	select {
	case u.lock <- true:
	default:
		return
	}
	defer u.Unlock()

	u.drive.Execute(frameDuration)
	u.drive.VsyncTick()

	if u.pending != nil &&
		u.drive.InsertionStatus() == drive.FullyEjected {
		u.drive.InsertDisk(u.pending)
		u.pending = nil
	}
}

//
func (u *Unit) status() *Status {

	dr := u.drive
	dsk := dr.Disk()

	return &Status{
		Device:         dr.Device(),
		Name:           u.name,
		State:          dr.InsertionStatus().String(),
		HasDisk:        dr.HasDisk(),
		Swapping:       u.pending != nil,
		WriteProtected: dsk.IsWriteProtected(),
		Modified:       dsk.IsModified(),
		Rotating:       dr.IsRotating(),
		Track:          fmt.Sprintf("%.1f", float64(dr.Halftrack()+1)/2),
	}
}
