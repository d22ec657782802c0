//go:build linux

package activity

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"unsafe"

	"golang.org/x/sys/unix"
)

// EvdevSource watches one or more evdev keyboard devices for key presses.
type EvdevSource struct {
	files []*os.File
}

// NewEvdevSource opens the given /dev/input/event* devices. At least one
// must open successfully; individual failures are logged and skipped so one
// unplugged keyboard does not take the daemon down.
func NewEvdevSource(paths []string) (*EvdevSource, error) {
	var files []*os.File
	for _, path := range paths {
		f, err := os.Open(path)
		if err != nil {
			log.Printf("activity: skipping %s: %v (tip: run as root or join the 'input' group)", path, err)
			continue
		}
		log.Printf("activity: watching %s (%s)", path, deviceName(f.Fd()))
		files = append(files, f)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("activity: no input devices available from %v", paths)
	}
	return &EvdevSource{files: files}, nil
}

// Start launches one reader goroutine per device.
func (s *EvdevSource) Start(notify func()) error {
	for _, f := range s.files {
		go readEvents(f, notify)
	}
	return nil
}

// Close closes all devices, which unblocks the reader goroutines.
func (s *EvdevSource) Close() error {
	var firstErr error
	for _, f := range s.files {
		if err := f.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func readEvents(f *os.File, notify func()) {
	evSize := binary.Size(inputEvent{})
	buf := make([]byte, evSize)
	reader := bytes.NewReader(buf)

	for {
		if _, err := io.ReadFull(f, buf); err != nil {
			if !errors.Is(err, os.ErrClosed) {
				log.Printf("activity: read %s: %v", f.Name(), err)
			}
			return
		}

		reader.Reset(buf)
		var ev inputEvent
		if err := binary.Read(reader, binary.LittleEndian, &ev); err != nil {
			// Skip malformed events
			continue
		}

		if isKeyDown(ev) {
			notify()
		}
	}
}

// deviceName returns the kernel-reported device name via EVIOCGNAME, or a
// placeholder when the ioctl fails.
func deviceName(fd uintptr) string {
	var buf [256]byte
	// EVIOCGNAME(len) = _IOC(_IOC_READ, 'E', 0x06, len)
	req := uintptr(2<<30 | len(buf)<<16 | 'E'<<8 | 0x06)
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, fd, req, uintptr(unsafe.Pointer(&buf[0])))
	if errno != 0 {
		return "unknown device"
	}
	n := bytes.IndexByte(buf[:], 0)
	if n < 0 {
		n = len(buf)
	}
	return string(buf[:n])
}
