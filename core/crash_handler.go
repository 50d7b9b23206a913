package core

import (
	"fmt"
	"os"
	"runtime/debug"
	"sync"
)

// Finisher restores an output device (terminal screen, audio) before the process exits
type Finisher interface {
	Fini()
}

var (
	crashMu        sync.Mutex
	crashFinishers []Finisher
)

// OnCrash registers a device to be finalized before a crash report is printed
func OnCrash(f Finisher) {
	crashMu.Lock()
	defer crashMu.Unlock()
	crashFinishers = append(crashFinishers, f)
}

// HandleCrash is the unified panic handler that restores devices and prints the stack trace
func HandleCrash(r any) {
	if r == nil {
		return
	}

	crashMu.Lock()
	for i := len(crashFinishers) - 1; i >= 0; i-- {
		crashFinishers[i].Fini()
	}
	crashFinishers = nil
	crashMu.Unlock()

	fmt.Fprintf(os.Stderr, "\n\x1b[31mCRASH DETECTED: %v\x1b[0m\n", r)
	fmt.Fprintf(os.Stderr, "Stack Trace:\n%s\n", debug.Stack())

	os.Exit(1)
}

// Go runs a function in a new goroutine with panic recovery
// Use this instead of the 'go' keyword to ensure terminal cleanup on crash
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
