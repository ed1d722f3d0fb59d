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
	"math"
)

/*
	Host-side stand-ins for the drive's collaborators. The daemon serves
	disk images; it does not run drive firmware, so the processor does
	nothing and the bus chip never has pending work. The logic port keeps
	the shift register plumbing alive in read mode and counts byte-ready
	edges, which is what the status reporting needs.
*/

//
type nopCPU struct{}

func (nopCPU) ExecuteOneCycle() {}

//
type quietVIA struct {
	idle uint64
}

func (v *quietVIA) Execute() {}

func (v *quietVIA) WakeUpCycle() uint64 { return math.MaxUint64 }

func (v *quietVIA) Idle() { v.idle++ }

//
type logicPort struct {
	quietVIA
	//
	latch     byte
	ca1       bool
	byteEdges uint64
}

// CA2 keeps the byte-ready gate open.
func (p *logicPort) CA2() bool { return true }

// CB2 high selects read mode.
func (p *logicPort) CB2() bool { return true }

//
func (p *logicPort) PortA() byte { return p.latch }

//
func (p *logicPort) SetCA1(b bool) {
	p.ca1 = b
	if b {
		p.byteEdges++
	}
}
