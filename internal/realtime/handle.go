package realtime

import "sync"

// The process-wide hub handle. Stateless HTTP handlers reach the one live
// hub through it; each process instance has its own handle, which is why
// the /emit gateway fallback exists for cross-instance delivery.
var (
	handleMu   sync.RWMutex
	currentHub *Hub
)

// SetHub installs the live hub for this process, replacing any previous one.
func SetHub(h *Hub) {
	handleMu.Lock()
	defer handleMu.Unlock()
	currentHub = h
}

// CurrentHub returns the live hub, or nil if none has been initialized
// in this process yet.
func CurrentHub() *Hub {
	handleMu.RLock()
	defer handleMu.RUnlock()
	return currentHub
}

// EnsureHub returns the live hub, initializing one on first use.
// Called when the first websocket client connects.
func EnsureHub() *Hub {
	handleMu.Lock()
	defer handleMu.Unlock()
	if currentHub == nil {
		currentHub = NewHub()
	}
	return currentHub
}

// ResetHub clears the handle. Intended for tests.
func ResetHub() {
	handleMu.Lock()
	defer handleMu.Unlock()
	currentHub = nil
}
