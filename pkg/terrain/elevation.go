// Package terrain resolves ground elevation from the ETOPO1 global relief grid.
package terrain

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"os"
)

const (
	// ETOPO1 Constants (cell-registered: 10801 rows × 21601 cols)
	etopo1Rows = 10801
	etopo1Cols = 21601
	etopo1Size = etopo1Rows * etopo1Cols * 2 // 16-bit signed integers

	cellsPerDegree = 60.0
)

// ErrOutOfBounds is returned for coordinates outside the globe.
var ErrOutOfBounds = errors.New("coordinates out of bounds")

// ElevationGetter retrieves terrain elevation.
type ElevationGetter interface {
	GetElevation(lat, lon float64) (int16, error)
}

// ElevationProvider reads elevation data from ETOPO1.
type ElevationProvider struct {
	file *os.File
}

// NewElevationProvider opens the ETOPO1 binary file.
func NewElevationProvider(path string) (*ElevationProvider, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open elevation file: %w", err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stat elevation file: %w", err)
	}

	if info.Size() != int64(etopo1Size) {
		f.Close()
		return nil, fmt.Errorf("invalid ETOPO1 file size: expected %d, got %d", etopo1Size, info.Size())
	}

	return &ElevationProvider{
		file: f,
	}, nil
}

// Close closes the file handle.
func (e *ElevationProvider) Close() error {
	return e.file.Close()
}

// cellIndex maps a coordinate to its grid cell.
func cellIndex(lat, lon float64) (row, col int, err error) {
	if !(lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180) {
		return 0, 0, fmt.Errorf("%w: %f, %f", ErrOutOfBounds, lat, lon)
	}

	row = int(math.Round((90.0 - lat) * cellsPerDegree))
	col = int(math.Round((lon + 180.0) * cellsPerDegree))

	if row >= etopo1Rows {
		row = etopo1Rows - 1
	}
	if col >= etopo1Cols {
		col %= etopo1Cols
	}
	return row, col, nil
}

// GetElevation returns the elevation in meters at the given lat/lon.
// Negative values are below sea level.
func (e *ElevationProvider) GetElevation(lat, lon float64) (int16, error) {
	row, col, err := cellIndex(lat, lon)
	if err != nil {
		return 0, err
	}

	offset := int64(row*etopo1Cols+col) * 2

	var b [2]byte
	if _, err := e.file.ReadAt(b[:], offset); err != nil {
		return 0, fmt.Errorf("read elevation at %d/%d: %w", row, col, err)
	}

	return int16(binary.LittleEndian.Uint16(b[:])), nil
}
