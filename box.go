package mediancut

import (
	"math"
	"sort"
)

// Channel identifies one axis of the RGB color space.
type Channel int

const (
	Red Channel = iota
	Green
	Blue
)

// rangeBias scales the red and green ranges of a box when choosing the
// axis to split on. Blue is left unscaled.
const rangeBias = 1.2

func (ch Channel) String() string {
	switch ch {
	case Green:
		return "G"
	case Blue:
		return "B"
	default:
		return "R"
	}
}

// ColorBox is a partition of the distinct colors of an image. A box owns
// its member slice; splitting hands every member to exactly one child.
type ColorBox struct {
	Members     []WeightedColor
	TotalWeight int
	Dominant    Channel
}

// newColorBox takes ownership of members and computes the box statistics:
// total weight, and the dominant channel as the strictly largest biased
// range, defaulting to Red on ties or when the box has no spread.
func newColorBox(members []WeightedColor) ColorBox {
	box := ColorBox{Members: members}

	minR, minG, minB := 255, 255, 255
	maxR, maxG, maxB := 0, 0, 0
	for _, m := range members {
		r, g, b := int(m.R), int(m.G), int(m.B)
		if r > maxR {
			maxR = r
		}
		if g > maxG {
			maxG = g
		}
		if b > maxB {
			maxB = b
		}
		if r < minR {
			minR = r
		}
		if g < minG {
			minG = g
		}
		if b < minB {
			minB = b
		}
		box.TotalWeight += m.Weight
	}

	dr := float64(maxR-minR) * rangeBias
	dg := float64(maxG-minG) * rangeBias
	db := float64(maxB - minB)

	switch {
	case dr > dg && dr > db:
		box.Dominant = Red
	case dg > dr && dg > db:
		box.Dominant = Green
	case db > dr && db > dg:
		box.Dominant = Blue
	default:
		box.Dominant = Red
	}
	return box
}

// splittable reports whether the box can be cut into two non-empty
// halves.
func (b ColorBox) splittable() bool {
	return b.TotalWeight != 1 && len(b.Members) != 1
}

// split sorts the members along the dominant channel and cuts them at
// index (n+1)/2, placing the median member itself in the low half. Equal values keep their relative order. The receiver must not
// be used afterwards: its members now belong to the two children.
func (b ColorBox) split() (low, high ColorBox) {
	members := b.Members
	ch := b.Dominant
	sort.SliceStable(members, func(i, j int) bool {
		return members[i].channel(ch) < members[j].channel(ch)
	})
	k := (len(members) + 1) / 2
	return newColorBox(members[:k:k]), newColorBox(members[k:])
}

// Representative returns the frequency-weighted mean color of the box,
// rounded half away from zero on each channel.
func (b ColorBox) Representative() RGB {
	if b.TotalWeight <= 0 {
		return RGB{}
	}
	var r, g, bl int64
	for _, m := range b.Members {
		w := int64(m.Weight)
		r += int64(m.R) * w
		g += int64(m.G) * w
		bl += int64(m.B) * w
	}
	total := float64(b.TotalWeight)
	return RGB{
		R: clampChannel(math.Round(float64(r) / total)),
		G: clampChannel(math.Round(float64(g) / total)),
		B: clampChannel(math.Round(float64(bl) / total)),
	}
}

func clampChannel(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
