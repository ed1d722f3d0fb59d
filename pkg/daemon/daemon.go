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
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/fd1541/fd1541/pkg/disk"
	"github.com/fd1541/fd1541/pkg/dos"
)

//
const (
	// DriveCount is the number of drive units the daemon hosts.
	DriveCount = 2

	// FirstDevice is the serial bus device number of the first unit.
	FirstDevice = 8

	// frameDuration is one PAL video frame in drive time units (20 ms).
	frameDuration = 200_000_000

	// framePeriod is the wall clock pacing of the emulation loop.
	framePeriod = 20 * time.Millisecond
)

// the daemon that runs the drive units and owns their surfaces
type Daemon struct {
	//
	units []*Unit
	//
	listeners *listeners
	stop      chan struct{}
}

//
func NewDaemon() *Daemon {

	d := &Daemon{
		listeners: newListeners(),
		stop:      make(chan struct{}),
	}

	for ix := 0; ix < DriveCount; ix++ {
		d.units = append(d.units, newUnit(FirstDevice+ix, d.listeners.emit))
	}

	return d
}

/*
	Serve runs the emulation loop until Stop is called: one frame of drive
	time per tick, followed by a vsync for the insertion state machines.
	Each unit is locked for the duration of its frame; everything outside
	the loop that wants to mutate a unit takes the same lock, which gives
	the suspend/resume bracket without any further synchronization.
*/
func (d *Daemon) Serve() error {

	log.Infof("daemon starts running %d drive units", len(d.units))

	ticker := time.NewTicker(framePeriod)
	defer ticker.Stop()

	for {
		select {

		case <-d.stop:
			log.Info("daemon stopped")
			return nil

		case <-ticker.C:
			for _, u := range d.units {
				u.executeFrame()
			}
		}
	}
}

//
func (d *Daemon) Stop() {
	close(d.stop)
}

// Listen registers a listener for drive events.
func (d *Daemon) Listen() chan Event {
	return d.listeners.add()
}

// Unlisten removes a listener again.
func (d *Daemon) Unlisten(ch chan Event) {
	d.listeners.remove(ch)
}

// GetUnit gets the unit with the given device number, locked. The caller
// must unlock it. ok is false when the unit is busy.
func (d *Daemon) GetUnit(device int) (u *Unit, ok bool) {

	u = d.getUnit(device)
	if u == nil {
		return nil, true
	}

	if !u.lockWithTimeout() {
		return nil, false
	}

	return u, true
}

//
func (d *Daemon) getUnit(device int) *Unit {
	ix := device - FirstDevice
	if 0 <= ix && ix < len(d.units) {
		return d.units[ix]
	}
	return nil
}

/*
	Load brings a filesystem into the drive with the given device number.
	The filesystem is encoded onto a fresh surface, which is then fed to
	the drive's disk slot; the swap completes a few frames later, once the
	insertion state machine has run its course. When a modified disk sits
	in the drive, loading fails unless forced.
*/
func (d *Daemon) Load(device int, fs *dos.FileSystem, name string,
	writeProtected, force bool) error {

	u, ok := d.GetUnit(device)
	if !ok {
		return fmt.Errorf("could not lock unit %d", device)
	}
	if u == nil {
		return fmt.Errorf("no such unit: %d", device)
	}
	defer u.Unlock()

	if !force && u.drive.Disk().IsModified() {
		return fmt.Errorf("disk in unit %d is modified", device)
	}

	dsk := disk.NewDisk()
	dsk.Encode(fs, true)
	dsk.SetModified(false)
	dsk.SetWriteProtected(writeProtected)

	u.stage(dsk, name)

	log.WithFields(log.Fields{
		"unit": device,
		"name": name,
	}).Info("disk staged for insertion")

	return nil
}

// Unload ejects the disk from the drive with the given device number.
// Fails when the disk is modified, unless forced.
func (d *Daemon) Unload(device int, force bool) error {

	u, ok := d.GetUnit(device)
	if !ok {
		return fmt.Errorf("could not lock unit %d", device)
	}
	if u == nil {
		return fmt.Errorf("no such unit: %d", device)
	}
	defer u.Unlock()

	if !u.drive.HasDisk() {
		return fmt.Errorf("no disk in unit %d", device)
	}
	if !force && u.drive.Disk().IsModified() {
		return fmt.Errorf("disk in unit %d is modified", device)
	}

	u.name = ""
	u.drive.EjectDisk()

	return nil
}

/*
	Export decodes the surface of the given unit back into a filesystem.
	The drive has to be in a stable state for this: motor off and no disk
	swap in flight. The unit stays locked for the duration of the decode,
	so the emulation loop cannot touch the surface half-way through.
*/
func (d *Daemon) Export(device int) (*dos.FileSystem, error) {

	u, ok := d.GetUnit(device)
	if !ok {
		return nil, fmt.Errorf("could not lock unit %d", device)
	}
	if u == nil {
		return nil, fmt.Errorf("no such unit: %d", device)
	}
	defer u.Unlock()

	if !u.drive.HasDisk() {
		return nil, fmt.Errorf("no disk in unit %d", device)
	}
	if u.drive.IsRotating() || u.pending != nil {
		return nil, fmt.Errorf("unit %d is busy", device)
	}

	img, errs, err := disk.NewAnalyzer(u.drive.Disk()).DecodeDisk()
	if err != nil {
		return nil, err
	}
	for _, e := range errs {
		log.Warnf("unit %d: %v", device, e)
	}

	return dos.FromImage(img)
}

// Saved marks the unit's disk as written back to file.
func (d *Daemon) Saved(device int) error {

	u, ok := d.GetUnit(device)
	if !ok {
		return fmt.Errorf("could not lock unit %d", device)
	}
	if u == nil {
		return fmt.Errorf("no such unit: %d", device)
	}
	defer u.Unlock()

	u.drive.MarkDiskSaved()
	return nil
}

// Configure changes a drive setting of the given unit.
func (d *Daemon) Configure(device int, item string, on bool) error {

	u, ok := d.GetUnit(device)
	if !ok {
		return fmt.Errorf("could not lock unit %d", device)
	}
	if u == nil {
		return fmt.Errorf("no such unit: %d", device)
	}
	defer u.Unlock()

	switch item {

	case "connected":
		u.drive.SetConnected(on)

	case "power":
		u.drive.SetSwitchedOn(on)

	case "writeprotect":
		u.drive.Disk().SetWriteProtected(on)

	default:
		return fmt.Errorf("unknown config item: %s", item)
	}

	log.WithFields(log.Fields{
		"unit": device,
		"item": item,
		"on":   on,
	}).Info("unit configured")

	return nil
}

// GetStatus returns a snapshot of the unit's state, or nil for an
// unknown device number.
func (d *Daemon) GetStatus(device int) *Status {

	u, ok := d.GetUnit(device)
	if u == nil {
		if !ok {
			return &Status{Device: device, Busy: true}
		}
		return nil
	}
	defer u.Unlock()

	return u.status()
}
