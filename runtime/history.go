package runtime

import "fmt"

// History keeps the last chat lines for replay to newcomers.
// It has no lock of its own: the router only touches it inside Registry.Atomically.
type History struct {
	lines []string
	start int
	size  int
}

func NewHistory(capacity int) (*History, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("history capacity must be positive, got %d", capacity)
	}
	return &History{lines: make([]string, capacity)}, nil
}

// Push appends a line, evicting the oldest one when full.
func (h *History) Push(line string) {
	if h.size < len(h.lines) {
		h.lines[(h.start+h.size)%len(h.lines)] = line
		h.size++
		return
	}
	h.lines[h.start] = line
	h.start = (h.start + 1) % len(h.lines)
}

// Lines returns a copy, oldest first.
func (h *History) Lines() []string {
	out := make([]string, h.size)
	for i := range out {
		out[i] = h.lines[(h.start+i)%len(h.lines)]
	}
	return out
}

func (h *History) Len() int {
	return h.size
}

func (h *History) Cap() int {
	return len(h.lines)
}
