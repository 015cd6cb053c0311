package utils

import (
	"sync"

	"market-dashboard/src/models"
)

// -----------------------------------------------------------------------------
// HistoryRing is a fixed-size circular buffer of packed history points.
// True ring buffer - no implicit resizing.
// -----------------------------------------------------------------------------

type HistoryRing struct {
	data     [][models.HP_NUM_FEATURES]float64
	capacity int
	index    int // next write position
	size     int
}

// -----------------------------------------------------------------------------

func NewHistoryRing(capacity int) *HistoryRing {
	if capacity <= 0 {
		capacity = 500
	}
	return &HistoryRing{
		data:     make([][models.HP_NUM_FEATURES]float64, capacity),
		capacity: capacity,
	}
}

// -----------------------------------------------------------------------------

// Append records one point, overwriting the oldest once full.
func (rb *HistoryRing) Append(p models.MHistoryPoint) {
	rb.data[rb.index] = [models.HP_NUM_FEATURES]float64{
		float64(p.Timestamp),
		p.Price,
		p.ChangePercent,
		p.VolumeRatio,
	}
	rb.index = (rb.index + 1) % rb.capacity
	if rb.size < rb.capacity {
		rb.size++
	}
}

// -----------------------------------------------------------------------------

// Latest returns the n most recent points, oldest first.
func (rb *HistoryRing) Latest(n int) []models.MHistoryPoint {
	if rb.size == 0 || n <= 0 {
		return []models.MHistoryPoint{}
	}
	count := n
	if count > rb.size {
		count = rb.size
	}

	result := make([]models.MHistoryPoint, count)
	startIdx := (rb.index - count + rb.capacity) % rb.capacity
	for i := 0; i < count; i++ {
		row := rb.data[(startIdx+i)%rb.capacity]
		result[i] = models.MHistoryPoint{
			Timestamp:     int64(row[models.HP_IDX_TIMESTAMP]),
			Price:         row[models.HP_IDX_PRICE],
			ChangePercent: row[models.HP_IDX_CHG_PCT],
			VolumeRatio:   row[models.HP_IDX_VOL_RATIO],
		}
	}
	return result
}

// -----------------------------------------------------------------------------

func (rb *HistoryRing) Size() int {
	return rb.size
}

// -----------------------------------------------------------------------------

// Resize changes the capacity, keeping the newest points when shrinking.
func (rb *HistoryRing) Resize(newCapacity int) {
	if newCapacity <= 0 || newCapacity == rb.capacity {
		return
	}

	count := rb.size
	if count > newCapacity {
		count = newCapacity
	}
	newData := make([][models.HP_NUM_FEATURES]float64, newCapacity)
	startIdx := (rb.index - count + rb.capacity) % rb.capacity
	for i := 0; i < count; i++ {
		newData[i] = rb.data[(startIdx+i)%rb.capacity]
	}

	rb.data = newData
	rb.capacity = newCapacity
	rb.size = count
	rb.index = count % newCapacity
}

// -----------------------------------------------------------------------------
// SnapshotHistory keeps one ring per symbol so the API can serve recent
// refresh-over-refresh movement without touching storage.
// -----------------------------------------------------------------------------

type SnapshotHistory struct {
	rings    map[string]*HistoryRing
	capacity int
	mu       sync.RWMutex
}

// -----------------------------------------------------------------------------

func NewSnapshotHistory(pointsPerSymbol int) *SnapshotHistory {
	if pointsPerSymbol <= 0 {
		pointsPerSymbol = 500
	}
	return &SnapshotHistory{
		rings:    make(map[string]*HistoryRing),
		capacity: pointsPerSymbol,
	}
}

// -----------------------------------------------------------------------------

// Record condenses one snapshot into its symbol's ring.
func (h *SnapshotHistory) Record(snap models.MQuoteSnapshot) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ring, ok := h.rings[snap.Symbol]
	if !ok {
		ring = NewHistoryRing(h.capacity)
		h.rings[snap.Symbol] = ring
	}
	ring.Append(models.MHistoryPoint{
		Timestamp:     snap.LastUpdate.Unix(),
		Price:         snap.CurrentPrice,
		ChangePercent: snap.PercentChange,
		VolumeRatio:   snap.VolumeRatio,
	})
}

// -----------------------------------------------------------------------------

// Latest returns the newest n points of a symbol, oldest first. An unknown
// symbol yields an empty slice.
func (h *SnapshotHistory) Latest(symbol string, n int) []models.MHistoryPoint {
	h.mu.RLock()
	defer h.mu.RUnlock()

	ring, ok := h.rings[symbol]
	if !ok {
		return []models.MHistoryPoint{}
	}
	return ring.Latest(n)
}

// -----------------------------------------------------------------------------

// Symbols lists every symbol with at least one recorded point.
func (h *SnapshotHistory) Symbols() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	out := make([]string, 0, len(h.rings))
	for s := range h.rings {
		out = append(out, s)
	}
	return out
}
