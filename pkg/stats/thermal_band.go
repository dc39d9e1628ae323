package stats

import "math"

const (
	// ThermalBandBins is the number of height bins.
	ThermalBandBins = 16
	// ThermalBandMinWidth is the initial bin height in meters.
	ThermalBandMinWidth = 25.0

	maxGrowSteps = 64
)

// ThermalBand is a height-binned histogram of climb rate. The bin width
// doubles whenever a sample lies above the covered range, so the histogram
// spans the whole band with a fixed number of bins.
type ThermalBand struct {
	binWidth  float64
	sum       [ThermalBandBins]float64
	count     [ThermalBandBins]uint32
	maxHeight float64
}

// Add records a climb rate at a height above the working floor.
// Negative or non-finite input is ignored.
func (b *ThermalBand) Add(height, vario float64) {
	if height < 0 || math.IsNaN(height) || math.IsInf(height, 0) ||
		math.IsNaN(vario) || math.IsInf(vario, 0) {
		return
	}
	if b.binWidth == 0 {
		b.binWidth = ThermalBandMinWidth
	}
	for i := 0; i < maxGrowSteps && height >= b.binWidth*ThermalBandBins; i++ {
		b.grow()
	}

	i := ThermalBandBins - 1
	if f := height / b.binWidth; f < ThermalBandBins {
		i = int(f)
	}
	b.sum[i] += vario
	b.count[i]++

	if height > b.maxHeight {
		b.maxHeight = height
	}
}

// grow merges adjacent bin pairs into the lower half and doubles the width.
func (b *ThermalBand) grow() {
	const half = ThermalBandBins / 2
	for i := 0; i < half; i++ {
		b.sum[i] = b.sum[2*i] + b.sum[2*i+1]
		b.count[i] = b.count[2*i] + b.count[2*i+1]
	}
	for i := half; i < ThermalBandBins; i++ {
		b.sum[i] = 0
		b.count[i] = 0
	}
	b.binWidth *= 2
}

// MaxHeight returns the highest height recorded.
func (b *ThermalBand) MaxHeight() float64 {
	return b.maxHeight
}

// BinWidth returns the current bin height in meters (0 when empty).
func (b *ThermalBand) BinWidth() float64 {
	return b.binWidth
}

// Average returns the mean climb rate of bin i and whether it holds samples.
func (b *ThermalBand) Average(i int) (float64, bool) {
	if i < 0 || i >= ThermalBandBins || b.count[i] == 0 {
		return 0, false
	}
	return b.sum[i] / float64(b.count[i]), true
}

// Empty reports whether no sample was recorded.
func (b *ThermalBand) Empty() bool {
	return b.binWidth == 0
}

// Reset clears the histogram.
func (b *ThermalBand) Reset() {
	*b = ThermalBand{}
}
