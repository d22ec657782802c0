// Package web provides the HTTP control surface for the acer-backlight
// daemon: get/set brightness plus a status page.
package web

import (
	"context"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/lau-bin/acer-brightness/internal/backlight"
	"github.com/lau-bin/acer-brightness/internal/status"
)

// Backlight is the slice of the controller the HTTP handlers need.
type Backlight interface {
	Level() int
	SetLevel(level int, now time.Time) error
}

// Server serves the brightness endpoints and status page over HTTP.
type Server struct {
	httpServer *http.Server
	tracker    *status.Tracker
	bl         Backlight
}

// New creates a Server that reads state from the tracker and drives the
// given backlight.
func New(addr string, tracker *status.Tracker, bl Backlight) *Server {
	s := &Server{tracker: tracker, bl: bl}

	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/index.html", s.handleIndex)
	mux.HandleFunc("/index.json", s.handleJSON)
	mux.HandleFunc("/brightness", s.handleBrightness)

	s.httpServer = &http.Server{
		Addr:    addr,
		Handler: mux,
	}
	return s
}

// ListenAndServe starts listening. It blocks until the server is shut down.
func (s *Server) ListenAndServe() error {
	return s.httpServer.ListenAndServe()
}

// Serve accepts connections on the given listener. Useful for tests.
func (s *Server) Serve(ln net.Listener) error {
	return s.httpServer.Serve(ln)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" && r.URL.Path != "/index.html" {
		http.NotFound(w, r)
		return
	}
	snap := s.tracker.Snapshot()
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	renderHTML(w, snap)
}

func (s *Server) handleJSON(w http.ResponseWriter, r *http.Request) {
	snap := s.tracker.Snapshot()
	w.Header().Set("Content-Type", "application/json")
	w.Write(status.FormatJSON(snap))
}

// handleBrightness reads or sets the brightness level. GET returns the
// intended level as plain text (there is no firmware readback, so this is
// the cached intent, like the old sysfs file). POST/PUT takes a bare
// integer body; out-of-range values are clamped, not rejected.
func (s *Server) handleBrightness(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		fmt.Fprintf(w, "%d\n", s.bl.Level())

	case http.MethodPost, http.MethodPut:
		body, err := io.ReadAll(io.LimitReader(r.Body, 64))
		if err != nil {
			http.Error(w, "read body", http.StatusBadRequest)
			return
		}
		raw := strings.TrimSpace(string(body))
		level, err := strconv.Atoi(raw)
		if err != nil {
			http.Error(w, fmt.Sprintf("not an integer: %q", raw), http.StatusBadRequest)
			return
		}

		level = backlight.Clamp(level)
		if err := s.bl.SetLevel(level, time.Now()); err != nil {
			log.Printf("web: set brightness %d failed: %v", level, err)
			http.Error(w, "apply failed", http.StatusBadGateway)
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		fmt.Fprintf(w, "%d\n", level)

	default:
		w.Header().Set("Allow", "GET, POST, PUT")
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}
