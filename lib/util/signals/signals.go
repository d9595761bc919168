package signals

import (
	"os"
	"os/signal"
	"sync"
	"syscall"
)

// Handler is a callback invoked when the matching signal arrives.
type Handler func()

var (
	mu                sync.RWMutex
	interruptHandlers []Handler
	reloadHandlers    []Handler

	sigChan = make(chan os.Signal, 4)
)

// RegisterInterruptHandler registers a handler to run when the process
// receives SIGINT or SIGTERM. Handlers run in registration order.
// Nil handlers are silently ignored.
func RegisterInterruptHandler(f Handler) {
	if f == nil {
		return
	}
	mu.Lock()
	defer mu.Unlock()
	interruptHandlers = append(interruptHandlers, f)
}

// RegisterReloadHandler registers a handler to run on SIGHUP.
// Nil handlers are silently ignored.
func RegisterReloadHandler(f Handler) {
	if f == nil {
		return
	}
	mu.Lock()
	defer mu.Unlock()
	reloadHandlers = append(reloadHandlers, f)
}

func handleInterrupt() {
	mu.RLock()
	snapshot := make([]Handler, len(interruptHandlers))
	copy(snapshot, interruptHandlers)
	mu.RUnlock()
	for _, h := range snapshot {
		h()
	}
}

func handleReload() {
	mu.RLock()
	snapshot := make([]Handler, len(reloadHandlers))
	copy(snapshot, reloadHandlers)
	mu.RUnlock()
	for _, h := range snapshot {
		h()
	}
}

// Handle blocks dispatching incoming signals to registered handlers.
// Run it on its own goroutine.
func Handle() {
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	for sig := range sigChan {
		switch sig {
		case syscall.SIGHUP:
			handleReload()
		case syscall.SIGINT, syscall.SIGTERM:
			handleInterrupt()
		}
	}
}
