package stats

// ClimbHistorySize is the number of 1 m/s airspeed bins.
const ClimbHistorySize = 100

// ClimbHistory accumulates climb rate by rounded indicated airspeed, for
// glide polar refinement.
type ClimbHistory struct {
	sum   [ClimbHistorySize]float64
	count [ClimbHistorySize]uint32
}

// Add records a climb rate at the given airspeed bin. Out-of-range speeds are ignored.
func (h *ClimbHistory) Add(speed int, climb float64) {
	if speed < 0 || speed >= ClimbHistorySize {
		return
	}
	h.sum[speed] += climb
	h.count[speed]++
}

// Has reports whether the bin holds any samples.
func (h *ClimbHistory) Has(speed int) bool {
	return speed >= 0 && speed < ClimbHistorySize && h.count[speed] > 0
}

// Get returns the average climb rate recorded at the speed bin.
func (h *ClimbHistory) Get(speed int) float64 {
	if !h.Has(speed) {
		return 0
	}
	return h.sum[speed] / float64(h.count[speed])
}

// Count returns the number of samples in the speed bin.
func (h *ClimbHistory) Count(speed int) int {
	if speed < 0 || speed >= ClimbHistorySize {
		return 0
	}
	return int(h.count[speed])
}

// Clear empties all bins.
func (h *ClimbHistory) Clear() {
	*h = ClimbHistory{}
}
