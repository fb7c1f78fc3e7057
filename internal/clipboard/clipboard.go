// Package clipboard reads and writes text on the system clipboard.
package clipboard

import (
	"fmt"
	"sync"

	"golang.design/x/clipboard"

	"github.com/zhubert/parley/internal/logger"
)

// Backend is the clipboard implementation. Tests swap it with SetBackend.
type Backend interface {
	Init() error
	Read() []byte
	Write(data []byte)
}

type systemBackend struct{}

func (systemBackend) Init() error       { return clipboard.Init() }
func (systemBackend) Read() []byte      { return clipboard.Read(clipboard.FmtText) }
func (systemBackend) Write(data []byte) { clipboard.Write(clipboard.FmtText, data) }

var (
	mu          sync.Mutex
	backend     Backend = systemBackend{}
	initialized bool
	initErr     error
)

// SetBackend replaces the clipboard implementation and returns the previous one.
func SetBackend(b Backend) Backend {
	mu.Lock()
	defer mu.Unlock()
	prev := backend
	backend = b
	initialized = false
	initErr = nil
	return prev
}

// Init initializes the clipboard. It is safe to call multiple times; a
// failure is remembered so later calls return it without retrying.
func Init() error {
	mu.Lock()
	defer mu.Unlock()
	return initLocked()
}

func initLocked() error {
	if initialized {
		return initErr
	}
	initialized = true
	if err := backend.Init(); err != nil {
		logger.WithComponent("clipboard").Warn("failed to initialize", "error", err)
		initErr = fmt.Errorf("failed to initialize clipboard: %w", err)
		return initErr
	}
	logger.WithComponent("clipboard").Debug("initialized")
	return nil
}

// WriteText puts text on the clipboard
func WriteText(text string) error {
	mu.Lock()
	defer mu.Unlock()
	if err := initLocked(); err != nil {
		return err
	}
	backend.Write([]byte(text))
	return nil
}

// ReadText returns the clipboard text, or "" when it holds none
func ReadText() (string, error) {
	mu.Lock()
	defer mu.Unlock()
	if err := initLocked(); err != nil {
		return "", err
	}
	return string(backend.Read()), nil
}
