package dashboard

import "sync"

// DefaultHistorySize is the default number of samples retained per device.
const DefaultHistorySize = 60

// History keeps recent calculated-rate samples per device for the trend
// sparkline. It lives for one session only.
type History struct {
	mu      sync.RWMutex
	size    int
	devices map[string]*ringBuffer
}

// ringBuffer is a fixed-size circular buffer for float64 values.
type ringBuffer struct {
	data  []float64
	head  int
	count int
	size  int
}

// NewHistory creates a history with the specified buffer size per device.
func NewHistory(size int) *History {
	if size <= 0 {
		size = DefaultHistorySize
	}
	return &History{
		size:    size,
		devices: make(map[string]*ringBuffer),
	}
}

// Push records a sample for the device.
func (h *History) Push(device string, value float64) {
	h.mu.Lock()
	defer h.mu.Unlock()

	buf, ok := h.devices[device]
	if !ok {
		buf = newRingBuffer(h.size)
		h.devices[device] = buf
	}
	buf.push(value)
}

// Last returns up to count samples for the device, oldest first.
func (h *History) Last(device string, count int) []float64 {
	h.mu.RLock()
	defer h.mu.RUnlock()

	buf, ok := h.devices[device]
	if !ok {
		return nil
	}
	return buf.getLast(count)
}

// Retain drops every device not in keep, so boards that leave the rig do
// not pin memory for the rest of the session.
func (h *History) Retain(keep map[string]bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for device := range h.devices {
		if !keep[device] {
			delete(h.devices, device)
		}
	}
}

func newRingBuffer(size int) *ringBuffer {
	return &ringBuffer{
		data: make([]float64, size),
		size: size,
	}
}

func (r *ringBuffer) push(value float64) {
	r.data[r.head] = value
	r.head = (r.head + 1) % r.size
	if r.count < r.size {
		r.count++
	}
}

// getLast returns the last count values in chronological order (oldest first).
func (r *ringBuffer) getLast(count int) []float64 {
	if count <= 0 || r.count == 0 {
		return nil
	}
	if count > r.count {
		count = r.count
	}

	result := make([]float64, count)
	// head is the next write position, so the newest value sits at head-1.
	start := (r.head - count + r.size) % r.size
	for i := 0; i < count; i++ {
		result[i] = r.data[(start+i)%r.size]
	}
	return result
}
