package mediancut

import (
	"math"
	"sort"
)

// paletteNode is a node of a KD-tree over palette entries. Each node keeps
// the palette index of its color so lookups resolve straight to an index.
type paletteNode struct {
	Color       RGB
	Index       int
	Left, Right *paletteNode
	SplitAxis   Channel
}

type indexedColor struct {
	color RGB
	index int
}

// buildPaletteTree constructs a KD-tree over the palette. The axis for each
// level is the channel with the largest variance among the colors at that
// level.
func buildPaletteTree(palette Palette) *paletteNode {
	entries := make([]indexedColor, len(palette))
	for i, c := range palette {
		entries[i] = indexedColor{color: c, index: i}
	}
	return buildKDTree(entries)
}

func buildKDTree(entries []indexedColor) *paletteNode {
	if len(entries) == 0 {
		return nil
	}

	axis := chooseSplitAxis(entries)

	// Stable so that duplicate palette colors keep the lowest index first.
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].color.channel(axis) < entries[j].color.channel(axis)
	})

	median := len(entries) / 2
	return &paletteNode{
		Color:     entries[median].color,
		Index:     entries[median].index,
		Left:      buildKDTree(entries[:median]),
		Right:     buildKDTree(entries[median+1:]),
		SplitAxis: axis,
	}
}

// chooseSplitAxis returns the channel with the largest variance.
func chooseSplitAxis(entries []indexedColor) Channel {
	var varR, varG, varB float64
	var meanR, meanG, meanB float64

	for _, e := range entries {
		meanR += float64(e.color.R)
		meanG += float64(e.color.G)
		meanB += float64(e.color.B)
	}
	n := float64(len(entries))
	meanR /= n
	meanG /= n
	meanB /= n

	for _, e := range entries {
		varR += math.Pow(float64(e.color.R)-meanR, 2)
		varG += math.Pow(float64(e.color.G)-meanG, 2)
		varB += math.Pow(float64(e.color.B)-meanB, 2)
	}

	if varR >= varG && varR >= varB {
		return Red
	} else if varG >= varB {
		return Green
	}
	return Blue
}

// nearest returns the palette index of the color closest to target.
// Among equally close entries the lowest palette index wins.
func (node *paletteNode) nearest(target RGB) int {
	best, _ := node.nearestNeighbor(target, NoSelection, math.MaxFloat64)
	return best
}

func (node *paletteNode) nearestNeighbor(
	target RGB, best int, bestDist float64) (int, float64) {
	if node == nil {
		return best, bestDist
	}

	dist := node.Color.colorDistance(target)
	if dist < bestDist || (dist == bestDist && node.Index < best) {
		best = node.Index
		bestDist = dist
	}

	axisDistance := float64(target.channel(node.SplitAxis)) -
		float64(node.Color.channel(node.SplitAxis))
	next, other := node.Left, node.Right
	if axisDistance >= 0 {
		next, other = node.Right, node.Left
	}

	best, bestDist = next.nearestNeighbor(target, best, bestDist)

	// The other side can only hold a closer color if the splitting plane
	// is within the current best distance.
	if math.Abs(axisDistance) <= bestDist {
		best, bestDist = other.nearestNeighbor(target, best, bestDist)
	}

	return best, bestDist
}
