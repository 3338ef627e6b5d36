package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/jrick/logrotate/rotator"
	"github.com/pkg/errors"
)

const normalLogSize = 512

// Callsite selects whether log headers carry the file and line of the
// logging call.
type Callsite uint32

// Callsite modes.
const (
	// CallsiteNone omits the logging callsite.
	CallsiteNone Callsite = iota

	// CallsiteShort adds the file name and line, e.g. flow.go:42.
	CallsiteShort

	// CallsiteLong adds the full path and line, e.g. /a/b/flow.go:42.
	CallsiteLong
)

// callsiteFromEnv reads the callsite mode from the LOGFLAGS environment
// variable. shortfile wins when both shortfile and longfile are given.
func callsiteFromEnv() Callsite {
	callsite := CallsiteNone
	for _, flag := range strings.Split(os.Getenv("LOGFLAGS"), ",") {
		switch strings.TrimSpace(flag) {
		case "shortfile":
			return CallsiteShort
		case "longfile":
			callsite = CallsiteLong
		}
	}
	return callsite
}

// RotationSettings controls when a log file is rolled and how many rolled
// files are kept.
type RotationSettings struct {
	ThresholdKB int64
	MaxRolls    int
}

// DefaultRotation rolls log files at 100 MB and keeps the last 8.
var DefaultRotation = RotationSettings{ThresholdKB: 100 * 1000, MaxRolls: 8}

var errAlreadyRunning = errors.New("the logger is already running")

type levelWriter struct {
	io.WriteCloser
	minLevel Level
}

// Backend fans log entries out to its writers from a single goroutine, so
// writes from concurrent subsystems never interleave.
type Backend struct {
	callsite Callsite
	running  atomic.Bool
	writers  []levelWriter
	entries  chan logEntry
	drained  sync.WaitGroup
}

// NewBackendWithCallsite creates a backend with an explicit callsite mode.
func NewBackendWithCallsite(callsite Callsite) *Backend {
	return &Backend{callsite: callsite, entries: make(chan logEntry)}
}

// NewBackend creates a backend whose callsite mode comes from LOGFLAGS.
func NewBackend() *Backend {
	return NewBackendWithCallsite(callsiteFromEnv())
}

// AddLogWriter registers w to receive every entry at or above minLevel.
// Writers can only be added before Run.
func (b *Backend) AddLogWriter(w io.WriteCloser, minLevel Level) error {
	if b.IsRunning() {
		return errAlreadyRunning
	}
	b.writers = append(b.writers, levelWriter{WriteCloser: w, minLevel: minLevel})
	return nil
}

// AddLogFile registers a rotated log file with the default rotation settings.
func (b *Backend) AddLogFile(logFile string, minLevel Level) error {
	return b.AddRotatedLogFile(logFile, minLevel, DefaultRotation)
}

// AddRotatedLogFile registers a log file rolled according to rotation. The
// file and its directory are created if missing.
func (b *Backend) AddRotatedLogFile(logFile string, minLevel Level, rotation RotationSettings) error {
	if b.IsRunning() {
		return errAlreadyRunning
	}
	if dir := filepath.Dir(logFile); dir != "." {
		err := os.MkdirAll(dir, 0700)
		if err != nil {
			return errors.Wrapf(err, "failed to create log directory %s", dir)
		}
	}
	fileRotator, err := rotator.New(logFile, rotation.ThresholdKB, false, rotation.MaxRolls)
	if err != nil {
		return errors.Wrapf(err, "failed to create rotator for %s", logFile)
	}
	return b.AddLogWriter(fileRotator, minLevel)
}

// Run starts draining log entries into the writers. It may be called once.
func (b *Backend) Run() error {
	if !b.running.CompareAndSwap(false, true) {
		return errAlreadyRunning
	}
	b.drained.Add(1)
	go b.drain()
	return nil
}

func (b *Backend) drain() {
	defer b.drained.Done()
	defer func() {
		if err := recover(); err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "Fatal error in the logger backend: %+v\n%s\n", err, debug.Stack())
		}
	}()

	for entry := range b.entries {
		for _, writer := range b.writers {
			if entry.level >= writer.minLevel {
				_, _ = writer.Write(entry.log)
			}
		}
	}
}

// IsRunning reports whether Run was called and the backend hasn't been closed.
func (b *Backend) IsRunning() bool {
	return b.running.Load()
}

// Close flushes pending entries and closes every writer.
func (b *Backend) Close() {
	b.running.Store(false)
	close(b.entries)
	b.drained.Wait()
	for _, writer := range b.writers {
		_ = writer.Close()
	}
}

// Logger returns a logger for subsystemTag that writes to b. The logger is
// disabled until its level is set.
func (b *Backend) Logger(subsystemTag string) *Logger {
	return &Logger{lvl: LevelOff, tag: subsystemTag, b: b}
}
