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

	"github.com/fd1541/fd1541/pkg/disk"
)

// CPU executes the drive's processor, one cycle at a time.
type CPU interface {
	ExecuteOneCycle()
}

// VIA is an I/O chip serviced once per CPU cycle. A chip with no pending
// activity reports a wake-up cycle in the future; the drive then skips it
// and bumps its idle counter instead.
type VIA interface {
	Execute()
	WakeUpCycle() uint64
	Idle()
}

// ShiftRegisterPort is the VIA wired to the read/write logic board: its
// port A latch feeds the write shift register, its control lines gate the
// byte-ready signal, and CA1 is its edge-triggered byte-ready input.
type ShiftRegisterPort interface {
	VIA

	// CA2 gates the byte-ready signal
	CA2() bool

	// CB2 selects read mode (high) or write mode (low)
	CB2() bool

	// PortA returns the output latch feeding the write shift register
	PortA() byte

	// SetCA1 signals a byte-ready edge
	SetCA1(bool)
}

// Msg identifies a drive event sent to the notification callback.
type Msg int

//
const (
	MsgDiskInserted Msg = iota
	MsgDiskEjected
	MsgDiskSaved
	MsgDiskUnsaved
	MsgMotorOn
	MsgMotorOff
	MsgHeadStep
	MsgLEDOn
	MsgLEDOff
)

// Notify receives drive events, tagged with the emitting drive's device
// number. May be nil.
type Notify func(msg Msg, device int)

// Time units are tenths of a nanosecond, so that all four bit-cell rates
// come out as integers.
const (
	// cpuCyclePeriod is the duration of one CPU cycle (1 MHz).
	cpuCyclePeriod = 10000
)

// carryPeriod is the bit-cell duration per speed zone. The bit rate rises
// towards the outer tracks; zone 3 cells are the shortest.
var carryPeriod = [4]int64{10000, 9375, 8750, 8125}

/*
	Drive is the mechanical and logic-board state of one disk drive: the
	surface it owns, the spinning motor, the stepper head, and the shift
	register plumbing between the surface and the I/O chip.

	The drive is driven synchronously by its owner: Execute advances it by a
	slice of emulated time, VsyncTick advances the disk insertion state
	machine once per video frame. There is no internal locking; the owner
	suspends execution around any outside mutation.
*/
type Drive struct {
	device int
	notify Notify

	cpu  CPU
	via1 VIA
	via2 ShiftRegisterPort

	// configuration
	connected  bool
	switchedOn bool

	// the surface, exclusively owned by this drive
	disk *Disk

	// insertion state machine
	insertionStatus   InsertionStatus
	diskChangeCounter int64
	pendingDisk       *Disk

	// dual clock
	elapsedTime uint64
	nextClock   int64
	nextCarry   int64
	cpuCycle    uint64

	// logic board
	counterUF4       uint64
	carryCounter     uint64
	readShiftreg     uint64
	writeShiftreg    byte
	byteReady        bool
	byteReadyCounter int
	sync             bool

	// mechanics
	spinning  bool
	redLED    bool
	halftrack int
	offset    int
	zone      int
}

// Disk is the surface type the drive operates on.
type Disk = disk.Disk

// NewDrive wires up a drive with the given device number (8 or 9 on the
// serial bus) and collaborators.
func NewDrive(device int, cpu CPU, via1 VIA, via2 ShiftRegisterPort,
	notify Notify) *Drive {

	return &Drive{
		device:    device,
		notify:    notify,
		cpu:       cpu,
		via1:      via1,
		via2:      via2,
		disk:      disk.NewDisk(),
		halftrack: 1,
		byteReady: true,
	}
}

//
func (dr *Drive) Device() int {
	return dr.device
}

// Disk exposes the drive's surface. Outside readers must bring the drive
// into a stable, non-spinning state first.
func (dr *Drive) Disk() *Disk {
	return dr.disk
}

//
func (dr *Drive) IsConnected() bool {
	return dr.connected
}

//
func (dr *Drive) SetConnected(b bool) {
	dr.connected = b
}

//
func (dr *Drive) IsSwitchedOn() bool {
	return dr.switchedOn
}

//
func (dr *Drive) SetSwitchedOn(b bool) {
	dr.switchedOn = b
}

// IsActive reports whether the drive takes part in emulation.
func (dr *Drive) IsActive() bool {
	return dr.connected && dr.switchedOn
}

//
func (dr *Drive) IsRotating() bool {
	return dr.spinning
}

//
func (dr *Drive) Halftrack() int {
	return dr.halftrack
}

//
func (dr *Drive) HeadOffset() int {
	return dr.offset
}

//
func (dr *Drive) Zone() int {
	return dr.zone
}

//
func (dr *Drive) emit(msg Msg) {
	if dr.notify != nil {
		dr.notify(msg, dr.device)
	}
}

// SetRotating switches the spindle motor.
func (dr *Drive) SetRotating(b bool) {

	if dr.spinning == b {
		return
	}
	dr.spinning = b

	if b {
		dr.emit(MsgMotorOn)
	} else {
		dr.emit(MsgMotorOff)
	}
}

// SetRedLED switches the drive's activity LED.
func (dr *Drive) SetRedLED(b bool) {

	if dr.redLED == b {
		return
	}
	dr.redLED = b

	if b {
		dr.emit(MsgLEDOn)
	} else {
		dr.emit(MsgLEDOff)
	}
}

// SetZone selects the bit-cell rate. Zones outside 0 through 3 are
// clamped.
func (dr *Drive) SetZone(z int) {

	if z < 0 {
		z = 0
	}
	if z > 3 {
		z = 3
	}

	if z != dr.zone {
		log.Tracef("drive %d: zone %d -> %d", dr.device, dr.zone, z)
		dr.zone = z
	}
}

// MarkDiskSaved clears the surface's modified flag, e.g. after the host
// wrote it back to file.
func (dr *Drive) MarkDiskSaved() {
	if dr.disk.IsModified() {
		dr.disk.SetModified(false)
		dr.emit(MsgDiskSaved)
	}
}

//
func (dr *Drive) markDiskUnsaved() {
	if !dr.disk.IsModified() {
		dr.disk.SetModified(true)
		dr.emit(MsgDiskUnsaved)
	}
}

/*
	Execute advances the drive by duration time units. Two deadlines race:
	the CPU clock ticking every microsecond, and the carry clock ticking at
	the zone's bit-cell rate. Whichever is nearer fires first; on return
	both deadlines lie at or beyond the elapsed-time watermark.
*/
func (dr *Drive) Execute(duration uint64) {

	dr.elapsedTime += duration

	if !dr.IsActive() {
		// keep the clocks in step so switching on later starts clean
		dr.nextClock = int64(dr.elapsedTime)
		dr.nextCarry = int64(dr.elapsedTime)
		return
	}

	for dr.nextClock < int64(dr.elapsedTime) ||
		dr.nextCarry < int64(dr.elapsedTime) {

		if dr.nextClock <= dr.nextCarry {

			dr.cpuCycle++
			dr.cpu.ExecuteOneCycle()

			if dr.cpuCycle >= dr.via1.WakeUpCycle() {
				dr.via1.Execute()
			} else {
				dr.via1.Idle()
			}
			if dr.cpuCycle >= dr.via2.WakeUpCycle() {
				dr.via2.Execute()
			} else {
				dr.via2.Idle()
			}

			dr.nextClock += cpuCyclePeriod

		} else {

			if dr.spinning {
				dr.executeUF4()
			}
			dr.nextCarry += carryPeriod[dr.zone]
		}
	}
}

//
func (dr *Drive) readMode() bool {
	return dr.via2.CB2()
}

//
func (dr *Drive) writeMode() bool {
	return !dr.via2.CB2()
}

// lightBarrier is the write protect sensor. It is blocked while a disk
// passes through the slot, and by the notch sticker of a protected disk.
func (dr *Drive) lightBarrier() bool {
	return dr.insertionStatus == PartiallyInserted ||
		dr.insertionStatus == PartiallyEjected ||
		dr.disk.IsWriteProtected()
}

//
func (dr *Drive) readBitFromHead() byte {
	return dr.disk.ReadBit(dr.halftrack, dr.offset)
}

//
func (dr *Drive) writeBitToHead(bit bool) {
	dr.disk.WriteBit(dr.halftrack, dr.offset, bit)
}

//
func (dr *Drive) rotateDisk() {
	dr.offset++
	if dr.offset >= dr.disk.LengthOfHalftrack(dr.halftrack) {
		dr.offset = 0
	}
}

/*
	executeUF4 runs one quarter of a bit cell. Counter UF4 free-runs and is
	reset by every incoming one-bit, which locks the quartered clock onto
	the data stream: after a one-bit, phase 2 sees the counter's bits 2 and
	3 clear and shifts a one into the read register; once the counter has
	moved past 4, each further phase 2 shifts in a zero until the next
	one-bit resets it.
*/
func (dr *Drive) executeUF4() {

	dr.counterUF4++
	dr.carryCounter++

	// a new bit arrives under the head every fourth quarter cycle
	if dr.carryCounter%4 == 0 {
		if dr.readMode() && dr.readBitFromHead() != 0 {
			dr.counterUF4 = 0
		}
		dr.rotateDisk()
	}

	// SYNC is driven by the read shift register and suppressed while
	// writing
	dr.sync = (dr.readShiftreg&0x3FF) != 0x3FF || dr.writeMode()
	if !dr.sync {
		dr.byteReadyCounter = 0
	}

	switch dr.counterUF4 & 0x03 {

	case 0x00, 0x01:

		dr.updateByteReady()

	case 0x02:

		dr.raiseByteReady()

		if dr.sync {
			dr.byteReadyCounter = (dr.byteReadyCounter + 1) % 8
		} else {
			dr.byteReadyCounter = 0
		}

		if dr.writeMode() && !dr.lightBarrier() {
			// must run before the bit lands and sets the modified flag
			dr.markDiskUnsaved()
			dr.writeBitToHead(dr.writeShiftreg&0x80 != 0)
		}
		dr.writeShiftreg <<= 1

		dr.readShiftreg <<= 1
		if dr.counterUF4&0x0C == 0 {
			dr.readShiftreg |= 1
		}

	case 0x03:

		// a full byte has passed through, latch the next one to write
		if dr.byteReadyCounter == 7 {
			dr.writeShiftreg = dr.via2.PortA()
		}
	}
}

// updateByteReady recomputes the byte-ready output from the chip control
// line, the counter's second bit and the byte-ready counter. The chip's
// edge input only sees actual changes.
func (dr *Drive) updateByteReady() {

	ready := !(dr.via2.CA2() &&
		dr.counterUF4&0x02 == 0 &&
		dr.byteReadyCounter == 7)

	dr.setByteReady(ready)
}

//
func (dr *Drive) raiseByteReady() {
	dr.setByteReady(true)
}

//
func (dr *Drive) setByteReady(b bool) {
	if dr.byteReady != b {
		dr.byteReady = b
		dr.via2.SetCA1(b)
	}
}

// ReadShiftreg exposes the read shift register's current byte.
func (dr *Drive) ReadShiftreg() byte {
	return byte(dr.readShiftreg)
}

// Sync exposes the sync detection line: false while the read shift
// register sees a sync run, true while ordinary data passes the head.
// The hardware line is active low.
func (dr *Drive) Sync() bool {
	return dr.sync
}

// StepUp moves the head one halftrack towards the center, keeping the
// head's angular position by rescaling the bit offset to the new track
// length. Refuses to move beyond the innermost halftrack.
func (dr *Drive) StepUp() {
	dr.step(dr.halftrack + 1)
}

// StepDown moves the head one halftrack towards the rim.
func (dr *Drive) StepDown() {
	dr.step(dr.halftrack - 1)
}

//
func (dr *Drive) step(ht int) {

	if !disk.IsHalftrackNumber(ht) {
		log.Debugf("drive %d: head stays at halftrack %d",
			dr.device, dr.halftrack)
		return
	}

	oldLen := dr.disk.LengthOfHalftrack(dr.halftrack)
	newLen := dr.disk.LengthOfHalftrack(ht)

	dr.halftrack = ht
	if oldLen > 0 {
		dr.offset = dr.offset * newLen / oldLen
	}
	if dr.offset >= newLen {
		dr.offset = 0
	}

	dr.emit(MsgHeadStep)
}
