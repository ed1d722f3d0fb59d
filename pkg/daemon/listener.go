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
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/fd1541/fd1541/pkg/drive"
)

// Event is one drive notification, tagged with the emitting unit's
// device number.
type Event struct {
	Device int       `json:"device"`
	Msg    drive.Msg `json:"msg"`
}

//
func (e Event) String() string {

	var m string
	switch e.Msg {
	case drive.MsgDiskInserted:
		m = "disk inserted"
	case drive.MsgDiskEjected:
		m = "disk ejected"
	case drive.MsgDiskSaved:
		m = "disk saved"
	case drive.MsgDiskUnsaved:
		m = "disk modified"
	case drive.MsgMotorOn:
		m = "motor on"
	case drive.MsgMotorOff:
		m = "motor off"
	case drive.MsgHeadStep:
		m = "head step"
	case drive.MsgLEDOn:
		m = "LED on"
	case drive.MsgLEDOff:
		m = "LED off"
	default:
		m = "???"
	}

	return m
}

// listeners fans drive events out to everyone who asked. Slow listeners
// drop events rather than stalling the emulation loop.
type listeners struct {
	sync.Mutex
	//
	chans map[chan Event]bool
}

//
func newListeners() *listeners {
	return &listeners{chans: make(map[chan Event]bool)}
}

//
func (l *listeners) add() chan Event {

	l.Lock()
	defer l.Unlock()

	ch := make(chan Event, 16)
	l.chans[ch] = true

	return ch
}

//
func (l *listeners) remove(ch chan Event) {

	l.Lock()
	defer l.Unlock()

	if l.chans[ch] {
		delete(l.chans, ch)
		close(ch)
	}
}

//
func (l *listeners) emit(msg drive.Msg, device int) {

	e := Event{Device: device, Msg: msg}
	log.WithField("unit", device).Tracef("event: %s", e)

	l.Lock()
	defer l.Unlock()

	for ch := range l.chans {
		select {
		case ch <- e:
		default:
		}
	}
}
