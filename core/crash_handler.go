package core

import (
	"runtime/debug"
	"sync"

	log "github.com/sirupsen/logrus"
)

var (
	crashMu      sync.RWMutex
	crashHandler func(r any)
)

// SetCrashHandler installs a hook that runs before a recovered panic is logged
// The terminal viewer uses it to restore the screen before output goes to stderr
func SetCrashHandler(fn func(r any)) {
	crashMu.Lock()
	defer crashMu.Unlock()
	crashHandler = fn
}

// HandleCrash is the unified panic handler for background goroutines
// Logs the panic with its stack and lets the owning service degrade instead of killing the process
func HandleCrash(r any) {
	if r == nil {
		return
	}

	crashMu.RLock()
	fn := crashHandler
	crashMu.RUnlock()
	if fn != nil {
		fn(r)
	}

	log.WithFields(log.Fields{
		"panic": r,
		"stack": string(debug.Stack()),
	}).Error("recovered goroutine crash")
}

// Go runs a function in a new goroutine with panic recovery
// Use this instead of the 'go' keyword for long-lived service loops
func Go(fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				HandleCrash(r)
			}
		}()
		fn()
	}()
}
