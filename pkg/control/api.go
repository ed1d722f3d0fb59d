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

package control

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/fd1541/fd1541/pkg/daemon"
	"github.com/fd1541/fd1541/pkg/format"
	"github.com/fd1541/fd1541/pkg/repo"
)

//
type APIServer interface {
	Serve() error
	Stop() error
}

//
func NewAPIServer(addr, repository string, d *daemon.Daemon,
	index *repo.Index) APIServer {
	return &api{
		address:    addr,
		repository: repository,
		daemon:     d,
		index:      index,
	}
}

//
type api struct {
	address    string
	repository string
	daemon     *daemon.Daemon
	index      *repo.Index
	server     *http.Server
}

//
func (a *api) Serve() error {

	router := mux.NewRouter().StrictSlash(true)

	addRoute(router, "status", "GET", "/status", a.status)
	addRoute(router, "watch", "GET", "/watch", a.watch)
	addRoute(router, "ls", "GET", "/list", a.list)
	addRoute(router, "load", "PUT", "/drive/{drive:[8-9]}", a.load)
	addRoute(router, "unload", "GET", "/drive/{drive:[8-9]}/unload", a.unload)
	addRoute(router, "save", "GET", "/drive/{drive:[8-9]}", a.save)
	addRoute(router, "dump", "GET", "/drive/{drive:[8-9]}/dump", a.dump)
	addRoute(router, "drivels", "GET", "/drive/{drive:[8-9]}/list", a.driveList)
	addRoute(router, "config", "PUT", "/config", a.config)
	addRoute(router, "search", "GET", "/search", a.search)
	addRoute(router, "version", "GET", "/version", a.version)

	addr := a.address
	if len(strings.Split(addr, ":")) < 2 {
		addr = fmt.Sprintf("%s:8642", a.address)
	}

	log.Infof("fd1541 API starts listening on %s", addr)
	a.server = &http.Server{Addr: addr, Handler: router}

	err := a.server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

//
func (a *api) Stop() error {
	if a.server != nil {
		log.Info("API server stopping...")
		err := a.server.Shutdown(context.Background())
		a.server = nil
		return err
	}
	return nil
}

//
func addRoute(r *mux.Router, name, method, pattern string,
	handler http.HandlerFunc) {
	r.Methods(method).
		Path(pattern).
		Name(name).
		Handler(requestLogger(handler, name))
}

//
func requestLogger(inner http.Handler, name string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

		log.WithFields(log.Fields{
			"remote": r.RemoteAddr,
			"method": r.Method,
			"path":   r.RequestURI,
		}).Debugf("API BEGIN | %s", name)

		start := time.Now()
		inner.ServeHTTP(w, r)

		log.WithFields(log.Fields{
			"remote":   r.RemoteAddr,
			"method":   r.Method,
			"path":     r.RequestURI,
			"duration": time.Since(start),
		}).Debugf("API END   | %s", name)
	})
}

// watch long-polls the daemon's event stream: the reply is the next drive
// event, or 408 when the timeout passes without one.
func (a *api) watch(w http.ResponseWriter, req *http.Request) {

	timeout, err := getIntArg(req, "timeout", 600)
	if err != nil || timeout < 0 || 1800 < timeout {
		timeout = 600
	}

	log.Infof("starting watch for %s, timeout %d", req.RemoteAddr, timeout)

	events := a.daemon.Listen()
	defer a.daemon.Unlisten(events)

	select {

	case e, ok := <-events:
		if !ok {
			sendReply([]byte{}, http.StatusGone, w)
			return
		}
		log.Infof("sending drive event to %s", req.RemoteAddr)
		if wantsJSON(req) {
			sendJSONReply(e, http.StatusOK, w)
		} else {
			sendReply([]byte(
				fmt.Sprintf("unit %d: %s", e.Device, e)), http.StatusOK, w)
		}

	case <-time.After(time.Duration(timeout) * time.Second):
		log.Infof("closing watch for %s after timeout", req.RemoteAddr)
		sendReply([]byte{}, http.StatusRequestTimeout, w)
	}
}

//
func getDrive(w http.ResponseWriter, req *http.Request) int {
	vars := mux.Vars(req)
	drive, err := strconv.Atoi(vars["drive"])
	if handleError(err, http.StatusUnprocessableEntity, w) {
		return -1
	}
	return drive
}

//
func getFormat(w http.ResponseWriter, req *http.Request,
	fallback string) format.ReaderWriter {

	arg := getArg(req, "type")
	if arg == "" {
		arg = fallback
	}
	ret, err := format.NewFormat(arg)
	if handleError(err, http.StatusUnprocessableEntity, w) {
		return nil
	}
	return ret
}

//
func getRef(req *http.Request) (string, error) {
	return url.QueryUnescape(req.URL.Query().Get("ref"))
}

//
func isFlagSet(req *http.Request, flag string) bool {
	return getArg(req, flag) == "true"
}

//
func getArg(req *http.Request, arg string) string {
	ret, err := url.QueryUnescape(req.URL.Query().Get(arg))
	if err != nil {
		return ""
	}
	return ret
}

//
func getIntArg(req *http.Request, arg string, def int) (int, error) {
	val := getArg(req, arg)
	if val == "" {
		return def, nil
	}
	return strconv.Atoi(val)
}

//
func setHeaders(h http.Header, json bool) {
	if json {
		h.Set("Content-Type", "application/json; charset=UTF-8")
	} else {
		h.Set("Content-Type", "text/plain; charset=UTF-8")
	}
}

//
func handleError(e error, statusCode int, w http.ResponseWriter) bool {

	if e == nil {
		return false
	}

	log.Errorf("%v", e)

	setHeaders(w.Header(), false)
	w.WriteHeader(statusCode)
	if _, err := w.Write([]byte(fmt.Sprintf("%v\n", e))); err != nil {
		log.Errorf("problem writing error: %v", err)
	}

	return true
}

//
func sendReply(body []byte, statusCode int, w http.ResponseWriter) {
	setHeaders(w.Header(), false)
	w.WriteHeader(statusCode)
	if _, err := fmt.Fprintf(w, "%s\n", body); err != nil {
		log.Errorf("problem sending reply: %v", err)
	}
}

//
func sendStreamReply(r io.Reader, statusCode int, w http.ResponseWriter) {
	setHeaders(w.Header(), false)
	w.WriteHeader(statusCode)
	if _, err := io.Copy(w, r); err != nil {
		log.Errorf("problem sending reply: %v", err)
	}
}

//
func sendJSONReply(obj interface{}, statusCode int, w http.ResponseWriter) {
	setHeaders(w.Header(), true)
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(obj); err != nil {
		log.Errorf("problem writing error: %v", err)
	}
}

//
func wantsJSON(req *http.Request) bool {
	return req.Header.Get("Content-Type") == "application/json"
}
