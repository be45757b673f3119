// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package sdf

import (
	"math"
	"slices"
	"sync"

	"github.com/gogpu/sdfatlas/raster"
)

// threshold separates inside from outside coverage.
const threshold = 0.5

// offset is a neighbor position relative to the probe pixel, with the
// Euclidean length from the probe point to the neighbor's center.
type offset struct {
	dx, dy int
	length float64
}

type offsetKey struct {
	spread float64
	factor int
}

// Computer computes distance fields from coverage masks.
//
// For every destination pixel the probe point is the pixel center mapped
// into the supersampled mask. The computer scans neighbors in order of
// increasing distance, up to spread·factor supersampled pixels, for pixels
// on the other side of the coverage threshold. A neighbor q with coverage cq
// places the boundary |cq-0.5| from its center toward the probe, so a hard
// edge lies midway between pixel centers and a pixel with coverage exactly
// 0.5 lies on the boundary. A probe pixel with partial coverage cp is itself
// crossed by the edge and is at most |cp-0.5| away from it.
//
// Computer is safe for concurrent use. Sorted neighbor tables are cached per
// (spread, factor) pair.
type Computer struct {
	mu      sync.Mutex
	offsets map[offsetKey][]offset
}

// NewComputer creates a new Computer.
func NewComputer() *Computer {
	return &Computer{
		offsets: make(map[offsetKey][]offset),
	}
}

// Compute returns the distance field of mask at cellSize x cellSize
// destination pixels. mask.Size must equal cellSize*factor and spread is in
// destination pixels.
func (c *Computer) Compute(mask *raster.Mask, cellSize, factor int, spread float64) *Field {
	if factor < 1 {
		factor = 1
	}
	field := NewField(cellSize)
	if mask == nil || mask.IsEmpty() {
		// Every pixel is far outside; the zero value already encodes that.
		return field
	}

	offs := c.table(spread, factor)
	half := factor / 2

	for y := range cellSize {
		sy := y*factor + half
		row := field.Pix[y*cellSize : (y+1)*cellSize]
		for x := range cellSize {
			sx := x*factor + half
			d, found := nearestBoundary(mask, sx, sy, offs)
			cp := mask.At(sx, sy)
			inside := cp > threshold
			switch {
			case !found && inside:
				row[x] = 1
			case !found:
				row[x] = 0
			default:
				sd := d / float64(factor)
				if !inside {
					sd = -sd
				}
				row[x] = Normalize(sd, spread)
			}
		}
	}
	return field
}

// nearestBoundary returns the distance in supersampled pixels from the probe
// at (sx, sy) to the nearest estimated threshold crossing.
func nearestBoundary(mask *raster.Mask, sx, sy int, offs []offset) (float64, bool) {
	cp := mask.At(sx, sy)
	if cp == threshold {
		return 0, true
	}
	inside := cp > threshold

	best := math.Inf(1)
	if cp > 0 && cp < 1 {
		best = math.Abs(float64(cp) - threshold)
	}

	for _, o := range offs {
		// Any neighbor at this length or beyond is at least length-0.5 away.
		if o.length-threshold >= best {
			break
		}
		cq := mask.At(sx+o.dx, sy+o.dy)
		if inside == (cq > threshold) && cq != threshold {
			continue
		}
		d := o.length - math.Abs(float64(cq)-threshold)
		if d < best {
			best = d
		}
	}
	return best, !math.IsInf(best, 1)
}

// table returns the neighbor offsets within reach of the spread, sorted by
// length. Offsets whose boundary estimate can fall within the spread are
// kept, so the reach is spread·factor + 0.5.
func (c *Computer) table(spread float64, factor int) []offset {
	key := offsetKey{spread: spread, factor: factor}

	c.mu.Lock()
	defer c.mu.Unlock()
	if offs, ok := c.offsets[key]; ok {
		return offs
	}

	// With an even factor the probe point sits on a pixel corner, half a
	// pixel from the center of the sampled pixel.
	shift := 0.0
	if factor%2 == 0 {
		shift = 0.5
	}
	reach := spread*float64(factor) + threshold
	r := int(math.Ceil(reach)) + 1

	offs := make([]offset, 0, (2*r+1)*(2*r+1))
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			length := math.Hypot(float64(dx)+shift, float64(dy)+shift)
			if length > reach || length == 0 {
				continue
			}
			offs = append(offs, offset{dx: dx, dy: dy, length: length})
		}
	}
	slices.SortStableFunc(offs, func(a, b offset) int {
		switch {
		case a.length < b.length:
			return -1
		case a.length > b.length:
			return 1
		default:
			return 0
		}
	})

	c.offsets[key] = offs
	return offs
}
