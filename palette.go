package mediancut

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
)

// PaletteEntry is the serialized form of one palette color.
type PaletteEntry struct {
	Index int     `json:"index"`
	Hex   string  `json:"hex"`
	R     uint8   `json:"r"`
	G     uint8   `json:"g"`
	B     uint8   `json:"b"`
	Code  [3]int  `json:"code"`
	Count int     `json:"count"`
	Share float64 `json:"share"`
}

// Entries describes each palette color with its pixel count and share of
// the image. counts may be nil, in which case counts and shares are zero.
func (p Palette) Entries(counts []int) []PaletteEntry {
	total := 0
	for _, c := range counts {
		total += c
	}
	entries := make([]PaletteEntry, len(p))
	for i, c := range p {
		entry := PaletteEntry{
			Index: i,
			Hex:   c.Hex(),
			R:     c.R,
			G:     c.G,
			B:     c.B,
			Code:  c.Code(),
		}
		if i < len(counts) {
			entry.Count = counts[i]
			if total > 0 {
				entry.Share = float64(counts[i]) / float64(total)
			}
		}
		entries[i] = entry
	}
	return entries
}

// WritePaletteJSON writes the palette as an indented JSON array of
// entries in palette order.
func WritePaletteJSON(w io.Writer, palette Palette, counts []int) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(palette.Entries(counts)); err != nil {
		return fmt.Errorf("error encoding palette: %w", err)
	}
	return nil
}

// ReadPaletteJSON reads a palette written by WritePaletteJSON. Colors are
// taken from the hex field and ordered by index.
func ReadPaletteJSON(r io.Reader) (Palette, error) {
	var entries []PaletteEntry
	if err := json.NewDecoder(r).Decode(&entries); err != nil {
		return nil, fmt.Errorf("error unmarshalling JSON: %w", err)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Index < entries[j].Index
	})

	palette := make(Palette, len(entries))
	for i, e := range entries {
		if e.Index != i {
			return nil, fmt.Errorf("palette index %d missing or duplicated", i)
		}
		c, err := ParseHex(e.Hex)
		if err != nil {
			return nil, err
		}
		palette[i] = c
	}
	return palette, nil
}

// SavePalette writes the palette JSON to a file.
func SavePalette(path string, palette Palette, counts []int) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()
	return WritePaletteJSON(f, palette, counts)
}

// LoadPalette reads a palette JSON file.
func LoadPalette(path string) (Palette, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error reading file: %w", err)
	}
	defer f.Close()
	return ReadPaletteJSON(f)
}

// PrintPalette writes one line per palette color: index, hex, in-game
// code, pixel count and share.
func PrintPalette(w io.Writer, palette Palette, counts []int) error {
	for _, e := range palette.Entries(counts) {
		_, err := fmt.Fprintf(w, "%3d\t%s\tcode=%d,%d,%d\tcount=%d\tshare=%.2f%%\n",
			e.Index, e.Hex, e.Code[0], e.Code[1], e.Code[2], e.Count, e.Share*100)
		if err != nil {
			return err
		}
	}
	return nil
}
