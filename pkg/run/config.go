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

package run

import (
	"fmt"
	"io/ioutil"
	"strconv"
)

//
func NewConfig() *Config {

	c := &Config{}
	c.Runner = *NewRunner(
		`config [-d|--drive {device}] -i|--item {connected|power|writeprotect}
       [--on|--off] [-a|--address {address}]`,
		"change drive settings",
		`
Use the config command to change a setting of one of the daemon's drives:
whether it is connected to the bus, switched on, and whether the disk in it
is write protected.`,
		"", runnerHelpEpilogue, c.Run)

	c.AddBaseSettings()
	c.AddSetting(&c.Drive, "drive", "d", "", 8, "device number (8 or 9)", false)
	c.AddSetting(&c.Item, "item", "i", "", nil,
		"setting to change: connected, power, or writeprotect", true)
	c.AddSetting(&c.On, "on", "", "", false, "turn the setting on", false)
	c.AddSetting(&c.Off, "off", "", "", false, "turn the setting off", false)

	return c
}

//
type Config struct {
	//
	Runner
	//
	Drive int
	Item  string
	On    bool
	Off   bool
}

//
func (c *Config) Run() error {

	c.ParseSettings()

	if err := validateDevice(c.Drive); err != nil {
		return err
	}

	if c.On == c.Off {
		return fmt.Errorf("specify either --on or --off")
	}

	resp, err := c.apiCall("PUT", fmt.Sprintf("/config?drive=%d&item=%s&on=%s",
		c.Drive, c.Item, strconv.FormatBool(c.On)), false, nil)
	if err != nil {
		return err
	}
	defer resp.Close()

	msg, err := ioutil.ReadAll(resp)
	if err != nil {
		return err
	}

	fmt.Printf("%s", msg)
	return nil
}
