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
	"bytes"
	"strings"
	"testing"

	"github.com/fd1541/fd1541/pkg/dos"
	"github.com/fd1541/fd1541/pkg/drive"
)

//
func testFileSystem(t *testing.T) *dos.FileSystem {

	t.Helper()

	fs, err := dos.NewFileSystem(35)
	if err != nil {
		t.Fatal(err)
	}
	fs.SetName("UNIT TEST")

	data := make([]byte, 400)
	data[0] = 0x01
	data[1] = 0x08
	for i := 2; i < len(data); i++ {
		data[i] = byte(i)
	}
	if err := fs.MakeFile("PROGRAM", data); err != nil {
		t.Fatal(err)
	}

	return fs
}

// settle runs frames until the staged disk has fully arrived in the
// given unit's slot.
func settle(d *Daemon, device int) bool {

	for i := 0; i < 200; i++ {
		for _, u := range d.units {
			u.executeFrame()
		}
		if s := d.GetStatus(device); s != nil && s.HasDisk && !s.Swapping {
			return true
		}
	}

	return false
}

func TestNewDaemonUnits(t *testing.T) {

	d := NewDaemon()

	for dev := FirstDevice; dev < FirstDevice+DriveCount; dev++ {
		u, ok := d.GetUnit(dev)
		if !ok || u == nil {
			t.Fatalf("device %d missing", dev)
		}
		if u.Drive().Device() != dev {
			t.Errorf("unit reports device %d, want %d",
				u.Drive().Device(), dev)
		}
		u.Unlock()
	}

	for _, dev := range []int{FirstDevice - 1, FirstDevice + DriveCount} {
		if u, _ := d.GetUnit(dev); u != nil {
			t.Errorf("device %d should not exist", dev)
		}
	}
}

func TestLoadAndSettle(t *testing.T) {

	d := NewDaemon()

	if err := d.Load(FirstDevice, testFileSystem(t), "GAME",
		false, false); err != nil {
		t.Fatal(err)
	}

	s := d.GetStatus(FirstDevice)
	if s.HasDisk {
		t.Error("disk live before the insertion settled")
	}
	if !s.Swapping {
		t.Error("unit not swapping right after load")
	}

	if !settle(d, FirstDevice) {
		t.Fatal("staged disk never arrived")
	}

	s = d.GetStatus(FirstDevice)
	if s.Name != "GAME" {
		t.Errorf("unit name %q, want GAME", s.Name)
	}
	if s.Modified {
		t.Error("freshly loaded disk reports modified")
	}

	// the other unit is untouched
	if s := d.GetStatus(FirstDevice + 1); s.HasDisk {
		t.Error("load leaked into the neighboring unit")
	}
}

func TestLoadNameFromDiskLabel(t *testing.T) {

	d := NewDaemon()

	// a load without a host-side name picks up the disk's own label
	if err := d.Load(FirstDevice, testFileSystem(t), "",
		false, false); err != nil {
		t.Fatal(err)
	}
	if !settle(d, FirstDevice) {
		t.Fatal("staged disk never arrived")
	}

	if s := d.GetStatus(FirstDevice); s.Name != "UNIT TEST" {
		t.Errorf("unit name %q, want the disk label UNIT TEST", s.Name)
	}
}

func TestLoadRefusesModifiedDisk(t *testing.T) {

	d := NewDaemon()

	if err := d.Load(FirstDevice, testFileSystem(t), "FIRST",
		false, false); err != nil {
		t.Fatal(err)
	}
	if !settle(d, FirstDevice) {
		t.Fatal("staged disk never arrived")
	}

	u, _ := d.GetUnit(FirstDevice)
	u.Drive().Disk().WriteBit(1, 0, true)
	u.Unlock()

	err := d.Load(FirstDevice, testFileSystem(t), "SECOND", false, false)
	if err == nil || !strings.Contains(err.Error(), "modified") {
		t.Fatalf("load over a modified disk: %v", err)
	}

	if err := d.Load(FirstDevice, testFileSystem(t), "SECOND",
		false, true); err != nil {
		t.Errorf("forced load failed: %v", err)
	}
}

func TestUnload(t *testing.T) {

	d := NewDaemon()

	if err := d.Unload(FirstDevice, false); err == nil {
		t.Error("unload from empty unit accepted")
	}

	if err := d.Load(FirstDevice, testFileSystem(t), "GAME",
		false, false); err != nil {
		t.Fatal(err)
	}
	if !settle(d, FirstDevice) {
		t.Fatal("staged disk never arrived")
	}

	if err := d.Unload(FirstDevice, false); err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 200; i++ {
		for _, u := range d.units {
			u.executeFrame()
		}
	}

	s := d.GetStatus(FirstDevice)
	if s.HasDisk {
		t.Error("disk still in the slot after unload")
	}
	if s.Name != "" {
		t.Errorf("unit still carries name %q", s.Name)
	}
}

func TestExportRoundTrip(t *testing.T) {

	d := NewDaemon()
	fs := testFileSystem(t)

	if _, err := d.Export(FirstDevice); err == nil {
		t.Error("export from empty unit accepted")
	}

	if err := d.Load(FirstDevice, fs, "GAME", false, false); err != nil {
		t.Fatal(err)
	}
	if !settle(d, FirstDevice) {
		t.Fatal("staged disk never arrived")
	}

	back, err := d.Export(FirstDevice)
	if err != nil {
		t.Fatal(err)
	}

	if back.Name() != "UNIT TEST" {
		t.Errorf("disk name %q after export", back.Name())
	}
	if back.NumFiles() != 1 || back.FileName(0) != "PROGRAM" {
		t.Fatal("directory lost in export")
	}
	if !bytes.Equal(back.CopyFile(0), fs.CopyFile(0)) {
		t.Error("file contents lost in export")
	}
}

func TestExportNeedsStableState(t *testing.T) {

	d := NewDaemon()

	if err := d.Load(FirstDevice, testFileSystem(t), "GAME",
		false, false); err != nil {
		t.Fatal(err)
	}
	if !settle(d, FirstDevice) {
		t.Fatal("staged disk never arrived")
	}

	u, _ := d.GetUnit(FirstDevice)
	u.Drive().SetRotating(true)
	u.Unlock()

	if _, err := d.Export(FirstDevice); err == nil ||
		!strings.Contains(err.Error(), "busy") {
		t.Errorf("export with the motor running: %v", err)
	}

	u, _ = d.GetUnit(FirstDevice)
	u.Drive().SetRotating(false)
	u.Unlock()

	if _, err := d.Export(FirstDevice); err != nil {
		t.Errorf("export after motor stop failed: %v", err)
	}
}

func TestSaved(t *testing.T) {

	d := NewDaemon()

	if err := d.Load(FirstDevice, testFileSystem(t), "GAME",
		false, false); err != nil {
		t.Fatal(err)
	}
	if !settle(d, FirstDevice) {
		t.Fatal("staged disk never arrived")
	}

	u, _ := d.GetUnit(FirstDevice)
	u.Drive().Disk().WriteBit(1, 0, true)
	u.Unlock()

	if !d.GetStatus(FirstDevice).Modified {
		t.Fatal("surface write did not mark the disk modified")
	}

	if err := d.Saved(FirstDevice); err != nil {
		t.Fatal(err)
	}
	if d.GetStatus(FirstDevice).Modified {
		t.Error("disk still modified after save")
	}
}

func TestConfigure(t *testing.T) {

	d := NewDaemon()

	if err := d.Configure(FirstDevice, "writeprotect", true); err != nil {
		t.Fatal(err)
	}
	if !d.GetStatus(FirstDevice).WriteProtected {
		t.Error("write protection not set")
	}

	if err := d.Configure(FirstDevice, "writeprotect", false); err != nil {
		t.Fatal(err)
	}
	if d.GetStatus(FirstDevice).WriteProtected {
		t.Error("write protection not cleared")
	}

	if err := d.Configure(FirstDevice, "power", false); err != nil {
		t.Fatal(err)
	}
	if err := d.Configure(FirstDevice, "connected", false); err != nil {
		t.Fatal(err)
	}

	if err := d.Configure(FirstDevice, "turbo", true); err == nil {
		t.Error("unknown config item accepted")
	}
}

func TestListeners(t *testing.T) {

	d := NewDaemon()
	ch := d.Listen()

	if err := d.Load(FirstDevice, testFileSystem(t), "GAME",
		false, false); err != nil {
		t.Fatal(err)
	}
	if !settle(d, FirstDevice) {
		t.Fatal("staged disk never arrived")
	}

	var inserted bool
	for done := false; !done; {
		select {
		case e := <-ch:
			if e.Device == FirstDevice && e.Msg == drive.MsgDiskInserted {
				inserted = true
			}
		default:
			done = true
		}
	}
	if !inserted {
		t.Error("no insert event reached the listener")
	}

	d.Unlisten(ch)
	if _, open := <-ch; open {
		t.Error("listener channel not closed on unlisten")
	}

	// removing twice must not panic
	d.Unlisten(ch)
}

func TestStatusString(t *testing.T) {

	s := &Status{Device: 8, Busy: true}
	if got := s.String(); !strings.Contains(got, "<busy>") {
		t.Errorf("busy status reads %q", got)
	}

	s = &Status{Device: 8, State: "EJECTED"}
	if got := s.String(); !strings.Contains(got, "<empty>") {
		t.Errorf("empty status reads %q", got)
	}

	s = &Status{
		Device:   9,
		Name:     "GAME",
		State:    "INSERTED",
		HasDisk:  true,
		Modified: true,
		Rotating: true,
		Track:    "18.0",
	}
	got := s.String()
	for _, want := range []string{"9:", "GAME", "w*m", "track 18.0"} {
		if !strings.Contains(got, want) {
			t.Errorf("status %q misses %q", got, want)
		}
	}
}
