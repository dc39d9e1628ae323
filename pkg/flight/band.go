package flight

import "math"

// updateBand computes the working band and, while climbing, feeds the
// thermal band histogram.
func (e *Engine) updateBand() {
	c := &e.calc
	b := &c.ThermalBand

	te, ok := e.cur.TotalEnergyAltitude()
	if !ok {
		return
	}

	base := e.cfg.TerrainBaseFallback
	if c.TerrainValid {
		base = c.TerrainAltitude
	}

	b.WorkingHeight = te - (e.cfg.SafetyHeight + base)
	if b.WorkingHeight < 0 {
		b.WorkingFraction = 0
		return
	}

	if b.MaxThermalHeight > 0 {
		b.WorkingFraction = b.WorkingHeight / b.MaxThermalHeight
	} else {
		b.WorkingFraction = 1
	}
	b.Ceiling = math.Max(b.MaxThermalHeight+e.cfg.SafetyHeight, te)

	if !e.timeAdvanced() || !c.Circling || c.AverageVario < 0 || !e.cur.BruttoVarioAvailable {
		return
	}
	if b.MaxThermalHeight == 0 {
		b.MaxThermalHeight = b.WorkingHeight
	}
	c.BandHistogram.Add(b.WorkingHeight, e.cur.BruttoVario)
	b.MaxThermalHeight = math.Max(b.MaxThermalHeight, c.BandHistogram.MaxHeight())
}
