package flight

import "soarcalc/pkg/terrain"

// updateTerrain resolves the terrain height below the aircraft and the
// height above ground.
func (e *Engine) updateTerrain() {
	s := &e.cur
	c := &e.calc

	if !s.LocationAvailable || e.c.Terrain == nil {
		c.TerrainValid = false
		c.TerrainAltitude = 0
		c.AltitudeAGLValid = false
		c.AltitudeAGL = 0
		return
	}

	h, status := e.c.Terrain.HeightAt(s.Location)
	switch status {
	case terrain.Invalid:
		c.TerrainValid = false
		return
	case terrain.Water:
		h = 0
	}

	c.TerrainValid = true
	c.TerrainAltitude = h

	if s.NavAltitudeAvailable {
		c.AltitudeAGL = s.NavAltitude - h
		c.AltitudeAGLValid = true
	} else {
		c.AltitudeAGLValid = false
	}
}
