package arena

import "slices"

const percentileWindow = 100 * 10000

// Percentile is a sliding-window sample, used by the benchmark
// harnesses to report allocation latency distributions. Once the
// window is full, new samples overwrite the oldest ones.
type Percentile struct {
	data   []float64
	pos    int
	sorted bool
}

// NewPercentile
func NewPercentile() *Percentile {
	return &Percentile{
		data: make([]float64, 0, 1024),
	}
}

// Add records one sample.
func (p *Percentile) Add(v float64) {
	p.sorted = false
	if len(p.data) == percentileWindow {
		p.pos = (p.pos + 1) % percentileWindow
		p.data[p.pos] = v
	} else {
		p.data = append(p.data, v)
	}
}

// Len returns the number of held samples.
func (p *Percentile) Len() int {
	return len(p.data)
}

func (p *Percentile) sort() {
	if !p.sorted {
		slices.Sort(p.data)
		p.sorted = true
	}
}

// Percentile returns the q-th percentile (0 < q < 100) of the held
// samples, or 0 when empty.
func (p *Percentile) Percentile(q float64) float64 {
	if len(p.data) == 0 {
		return 0
	}
	p.sort()
	i := int(q / 100 * float64(len(p.data)))
	if i >= len(p.data) {
		i = len(p.data) - 1
	}
	return p.data[i]
}

// Min
func (p *Percentile) Min() float64 {
	if len(p.data) == 0 {
		return 0
	}
	p.sort()
	return p.data[0]
}

// Max
func (p *Percentile) Max() float64 {
	if len(p.data) == 0 {
		return 0
	}
	p.sort()
	return p.data[len(p.data)-1]
}

// Avg
func (p *Percentile) Avg() float64 {
	if len(p.data) == 0 {
		return 0
	}
	var sum float64
	for _, v := range p.data {
		sum += v
	}
	return sum / float64(len(p.data))
}
