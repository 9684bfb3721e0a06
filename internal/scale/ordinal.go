package scale

// Category10 is d3's schemeCategory10 palette.
var Category10 = []string{
	"#1f77b4", "#ff7f0e", "#2ca02c", "#d62728", "#9467bd",
	"#8c564b", "#e377c2", "#7f7f7f", "#bcbd22", "#17becf",
}

// Ordinal assigns palette entries to names in order of first appearance,
// cycling when there are more names than colors.
type Ordinal struct {
	index   map[string]int
	palette []string
}

// NewOrdinal seeds the scale's domain with names. A nil palette selects Category10.
func NewOrdinal(names []string, palette []string) *Ordinal {
	if len(palette) == 0 {
		palette = Category10
	}
	o := &Ordinal{index: make(map[string]int, len(names)), palette: palette}
	for _, n := range names {
		o.lookup(n)
	}
	return o
}

// Color returns name's color. A name outside the seeded domain is appended
// to it, like d3's implicit ordinal domain.
func (o *Ordinal) Color(name string) string {
	return o.palette[o.lookup(name)%len(o.palette)]
}

func (o *Ordinal) lookup(name string) int {
	i, ok := o.index[name]
	if !ok {
		i = len(o.index)
		o.index[name] = i
	}
	return i
}
