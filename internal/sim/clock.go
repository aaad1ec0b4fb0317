package sim

// Accumulator converts variable frame times into a whole number of fixed
// ticks, carrying the remainder to the next frame.
type Accumulator struct {
	Interval float64
	// MaxTicks caps the ticks per frame so a stalled frame cannot spiral;
	// the excess time is dropped. 0 means no cap.
	MaxTicks int

	pending float64
}

// Advance adds frame seconds and returns the ticks now due.
func (a *Accumulator) Advance(frame float64) int {
	if !(a.Interval > 0) || !(frame > 0) {
		return 0
	}
	a.pending += frame
	n := int(a.pending / a.Interval)
	a.pending -= float64(n) * a.Interval
	if a.MaxTicks > 0 && n > a.MaxTicks {
		n = a.MaxTicks
		a.pending = 0
	}
	return n
}

// Reset drops the carried time.
func (a *Accumulator) Reset() {
	a.pending = 0
}
