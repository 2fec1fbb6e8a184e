package googletasks

import "sync"

// handles maps Google's opaque task ids to small process-local integers,
// handed out in first-seen order starting at 1.
type handles struct {
	mu       sync.Mutex
	byRemote map[string]int
	byLocal  map[int]string
	next     int
}

func newHandles() *handles {
	return &handles{
		byRemote: make(map[string]int),
		byLocal:  make(map[int]string),
	}
}

// local returns the handle for remoteID, assigning one if needed.
func (h *handles) local(remoteID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	if id, ok := h.byRemote[remoteID]; ok {
		return id
	}
	h.next++
	h.byRemote[remoteID] = h.next
	h.byLocal[h.next] = remoteID
	return h.next
}

// remote returns the Google id behind a handle.
func (h *handles) remote(id int) (string, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	remoteID, ok := h.byLocal[id]
	return remoteID, ok
}

// forget drops a handle. The integer is never reused.
func (h *handles) forget(id int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if remoteID, ok := h.byLocal[id]; ok {
		delete(h.byLocal, id)
		delete(h.byRemote, remoteID)
	}
}
