package scale

// Band divides a continuous range into equal bands, one per name.
type Band struct {
	names  []string
	index  map[string]int
	values []float64
	step   float64
}

// NewBand assigns each unique name a band of [r0, r1] in order. When r1 < r0
// the assignment is reversed, so the first name gets the band nearest r1.
// Duplicate names keep their first position.
func NewBand(names []string, r0, r1 float64) *Band {
	b := &Band{index: make(map[string]int, len(names))}
	for _, n := range names {
		if _, ok := b.index[n]; ok {
			continue
		}
		b.index[n] = len(b.names)
		b.names = append(b.names, n)
	}

	reverse := r1 < r0
	start, stop := r0, r1
	if reverse {
		start, stop = r1, r0
	}
	n := len(b.names)
	b.step = (stop - start) / float64(max(1, n))
	b.values = make([]float64, n)
	for i := range b.values {
		b.values[i] = start + b.step*float64(i)
	}
	if reverse {
		for i, j := 0, n-1; i < j; i, j = i+1, j-1 {
			b.values[i], b.values[j] = b.values[j], b.values[i]
		}
	}
	return b
}

// Position returns the start of name's band.
func (b *Band) Position(name string) (float64, bool) {
	i, ok := b.index[name]
	if !ok {
		return 0, false
	}
	return b.values[i], true
}

// Bandwidth returns the height of every band.
func (b *Band) Bandwidth() float64 { return b.step }

// Domain returns the band names in assignment order.
func (b *Band) Domain() []string { return b.names }
