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
	"os"
	"os/signal"
	"sync"
	"syscall"

	log "github.com/sirupsen/logrus"

	"github.com/fd1541/fd1541/pkg/control"
	"github.com/fd1541/fd1541/pkg/daemon"
	"github.com/fd1541/fd1541/pkg/repo"
)

//
func NewServe() *Serve {

	s := &Serve{}
	s.Runner = *NewRunner(
		`serve [-l|--listen {address}] [-r|--repo {repo base folder}]`,
		"daemon & API server command",
		`Use the serve command for running the drive daemon and API server. The daemon
emulates two drive units, with device numbers 8 and 9. Optionally, you can point
it at a disk image repository, from which images can then be loaded by reference
and searched.`,
		"", `- Logging can be configured with these environment variables:

  LOG_FORMAT		set to 'json' for JSON logging
  LOG_FORCE_COLORS	set to non-empty for forcing colorized log entries
  LOG_METHODS		set to non-empty for including methods in log
  LOG_LEVEL		panic, fatal, error, warn, info, debug, trace

`+runnerHelpEpilogue, s.Run)

	s.AddBaseSettings()
	s.AddSetting(&s.Listen, "listen", "l", "FD1541_LISTEN", "0.0.0.0:8642",
		"address the API server listens on", false)
	s.AddSetting(&s.Repository, "repo", "r", "FD1541_REPO", nil,
		`disk image repo base folder; when omitted, loading
images from daemon host's file system is prohibited`, false)

	return s
}

//
type Serve struct {
	//
	Runner
	//
	Listen     string
	Repository string
}

//
func (s *Serve) Run() error {

	s.ParseSettings()

	var index *repo.Index

	if s.Repository != "" {
		var err error
		if index, err = repo.NewIndex("", s.Repository); err != nil {
			log.Errorf("cannot open repo index: %v", err)
		} else if err = index.Start(); err != nil {
			log.Errorf("cannot start repo index: %v", err)
			index = nil
		}
	}

	wg := &sync.WaitGroup{}
	wg.Add(2)

	d := daemon.NewDaemon()
	go func() {
		defer wg.Done()
		if err := d.Serve(); err != nil {
			log.Errorf("daemon closed with error: %v", err)
		} else {
			log.Info("daemon stopped")
		}
	}()

	api := control.NewAPIServer(s.Listen, s.Repository, d, index)
	go func() {
		defer wg.Done()
		if err := api.Serve(); err != nil {
			log.Errorf("API server closed with error: %v", err)
		} else {
			log.Info("API server stopped")
		}
	}()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	sigCount := 0
	done := make(chan bool)

	for {

		select {

		case sig := <-sigs: // interrupt signal
			log.WithField("signal", sig).Info("signal received")
			sigCount++

			switch sigCount {

			case 1:
				go func() {
					log.Info("shutting down, hit Ctrl-C twice to force exit...")
					api.Stop()
					d.Stop()
					if index != nil {
						index.Stop()
					}
					wg.Wait()
					log.Info("fd1541 stopped")
					done <- true
				}()

			case 2:
				log.Warn("shutdown in progress, hit Ctrl-C again to force exit")

			default:
				log.Warn("forcing daemon to stop immediately")
				os.Exit(1)
			}

		case <-done: // shutdown sequence complete
			return nil
		}
	}
}
