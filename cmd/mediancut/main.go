package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/wbrown/mediancut"
	"github.com/wbrown/mediancut/imageutil"
)

type options struct {
	colors    int
	size      int
	crop      image.Rectangle
	interp    imageutil.Interpolation
	outputDir string
	cell      int
	json      bool
	svg       bool
	swatches  bool
	highlight int
	ansi      bool
	nearest   bool
}

func main() {
	inputFile := flag.String("input", "",
		"Path to the input image file")
	inputDir := flag.String("dir", "",
		"Directory of images to process in batch")
	outputDir := flag.String("output", ".",
		"Directory to write results to")
	colors := flag.Int("colors", 16,
		"Maximum number of colors in the palette")
	size := flag.Int("size", 32,
		"Width and height of the working grid in pixels")
	cropFlag := flag.String("crop", "",
		"Square crop region as x,y,w,h with w equal to h (default: centered square)")
	interpFlag := flag.String("interp", "area",
		"Resampling method: area, linear, or nearest")
	cell := flag.Int("cell", 20,
		"Size of one grid cell in rendered output")
	jsonOut := flag.Bool("json", false,
		"Write the palette as JSON")
	svgOut := flag.Bool("svg", false,
		"Write the quantized grid as SVG")
	swatches := flag.Bool("swatches", false,
		"Write a labelled palette swatch PNG")
	highlight := flag.Int("highlight", -1,
		"Write a PNG highlighting the pixels of this palette index")
	ansi := flag.Bool("ansi", false,
		"Print the quantized grid to the terminal")
	nearest := flag.Bool("nearest", false,
		"Map colors no box owns to the nearest palette entry")
	timeout := flag.Duration("timeout", 30*time.Second,
		"Time limit for processing")
	flag.Parse()

	if *inputFile == "" && *inputDir == "" {
		fmt.Println("Please provide an image with -input or a directory with -dir")
		flag.PrintDefaults()
		os.Exit(2)
	}

	interp, err := parseInterpolation(*interpFlag)
	if err != nil {
		log.Fatal(err)
	}
	crop, err := parseCrop(*cropFlag)
	if err != nil {
		log.Fatal(err)
	}
	if err := os.MkdirAll(*outputDir, 0o755); err != nil {
		log.Fatalf("cannot create output directory: %v", err)
	}

	opts := options{
		colors:    *colors,
		size:      *size,
		crop:      crop,
		interp:    interp,
		outputDir: *outputDir,
		cell:      *cell,
		json:      *jsonOut,
		svg:       *svgOut,
		swatches:  *swatches,
		highlight: *highlight,
		ansi:      *ansi,
		nearest:   *nearest,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, *timeout)
	defer cancel()

	if *inputDir != "" {
		if err := runBatch(ctx, *inputDir, opts); err != nil {
			log.Fatal(err)
		}
		return
	}
	if err := runSingle(ctx, *inputFile, opts); err != nil {
		log.Fatal(err)
	}
}

// runSingle quantizes one image on a background worker.
func runSingle(ctx context.Context, path string, opts options) error {
	req, err := loadRequest(path, opts)
	if err != nil {
		return err
	}

	var remapOpts []mediancut.RemapperOption
	if opts.nearest {
		remapOpts = append(remapOpts, mediancut.WithNearestFallback())
	}
	worker := mediancut.NewWorker(mediancut.WithRemapperOptions(remapOpts...))
	worker.Start(ctx)
	defer worker.Close()

	start := time.Now()
	resp, err := worker.Submit(ctx, req)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	log.Printf("%s: %d colors in %s", filepath.Base(path), len(resp.Palette), time.Since(start))

	return writeOutputs(path, req.Width, req.Height, resp, opts)
}

// runBatch quantizes every supported image in dir concurrently.
func runBatch(ctx context.Context, dir string, opts options) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("cannot read input directory: %w", err)
	}

	var paths []string
	var reqs []mediancut.Request
	for _, e := range entries {
		if e.IsDir() || !imageutil.IsSupportedImage(e.Name()) {
			continue
		}
		path := filepath.Join(dir, e.Name())
		req, err := loadRequest(path, opts)
		if err != nil {
			log.Printf("%s: skipped: %v", e.Name(), err)
			continue
		}
		paths = append(paths, path)
		reqs = append(reqs, req)
	}
	if len(reqs) == 0 {
		return fmt.Errorf("no images found in %s", dir)
	}

	start := time.Now()
	resps, err := mediancut.ProcessBatch(ctx, reqs)
	if err != nil {
		return err
	}
	log.Printf("%d images in %s", len(resps), time.Since(start))

	for i, resp := range resps {
		if err := writeOutputs(paths[i], reqs[i].Width, reqs[i].Height, resp, opts); err != nil {
			log.Printf("%s: error: %v", filepath.Base(paths[i]), err)
		}
	}
	return nil
}

// loadRequest loads an image, crops and resamples it to the working grid
// and packs it into a request.
func loadRequest(path string, opts options) (mediancut.Request, error) {
	img, err := imageutil.LoadImage(path)
	if err != nil {
		return mediancut.Request{}, err
	}
	grid, err := imageutil.Grid(img, opts.crop, opts.size, opts.interp)
	if err != nil {
		return mediancut.Request{}, err
	}
	return mediancut.Request{
		Pixels:     imageutil.Pixels(grid),
		Width:      opts.size,
		Height:     opts.size,
		TargetSize: opts.colors,
	}, nil
}

func writeOutputs(path string, width, height int, resp mediancut.Response, opts options) error {
	base := filepath.Join(opts.outputDir,
		strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))
	counts := mediancut.Counts(resp.PixelPaletteIndex, len(resp.Palette))

	for _, msg := range resp.Diagnostics {
		log.Printf("%s: %s", filepath.Base(path), msg)
	}
	if err := mediancut.PrintPalette(os.Stdout, resp.Palette, counts); err != nil {
		return err
	}

	grid, err := mediancut.GridImage(resp.Pixels, width, height, opts.cell)
	if err != nil {
		return err
	}
	if err := imageutil.SavePNG(grid.RGBA, base+".png"); err != nil {
		return err
	}

	if opts.json {
		if err := mediancut.SavePalette(base+".palette.json", resp.Palette, counts); err != nil {
			return err
		}
	}

	if opts.svg {
		f, err := os.Create(base + ".svg")
		if err != nil {
			return fmt.Errorf("failed to create file: %w", err)
		}
		err = mediancut.WriteSVG(f, resp.Pixels, width, height, resp.Palette, opts.cell)
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return err
		}
	}

	if opts.swatches {
		sw, err := mediancut.DrawSwatches(resp.Palette, counts, opts.cell*2)
		if err != nil {
			return err
		}
		if err := imageutil.SavePNG(sw.RGBA, base+".swatches.png"); err != nil {
			return err
		}
	}

	if opts.highlight >= 0 {
		if opts.highlight >= len(resp.Palette) {
			return fmt.Errorf("highlight index %d out of range (palette has %d colors)",
				opts.highlight, len(resp.Palette))
		}
		hl, err := mediancut.HighlightImage(resp.Pixels, width, height,
			resp.PixelPaletteIndex, opts.highlight, opts.cell)
		if err != nil {
			return err
		}
		name := fmt.Sprintf("%s.highlight%d.png", base, opts.highlight)
		if err := imageutil.SavePNG(hl.RGBA, name); err != nil {
			return err
		}
	}

	if opts.ansi {
		out, err := mediancut.RenderANSI(resp.Pixels, width, height)
		if err != nil {
			return err
		}
		fmt.Print(out)
		fmt.Print(mediancut.RenderPaletteANSI(resp.Palette))
	}
	return nil
}

func parseInterpolation(s string) (imageutil.Interpolation, error) {
	switch strings.ToLower(s) {
	case "area":
		return imageutil.InterpolationArea, nil
	case "linear":
		return imageutil.InterpolationLinear, nil
	case "nearest":
		return imageutil.InterpolationNearest, nil
	default:
		return 0, fmt.Errorf("invalid interpolation %q, options are area, linear, or nearest", s)
	}
}

// parseCrop parses "x,y,w,h". An empty string means no explicit crop.
func parseCrop(s string) (image.Rectangle, error) {
	if s == "" {
		return image.Rectangle{}, nil
	}
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return image.Rectangle{}, fmt.Errorf("crop must be x,y,w,h, got %q", s)
	}
	var v [4]int
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return image.Rectangle{}, fmt.Errorf("crop value %q: %w", p, err)
		}
		v[i] = n
	}
	if v[2] <= 0 || v[3] <= 0 {
		return image.Rectangle{}, fmt.Errorf("crop size must be positive, got %dx%d", v[2], v[3])
	}
	if v[2] != v[3] {
		return image.Rectangle{}, fmt.Errorf("crop must be square, got %dx%d", v[2], v[3])
	}
	return image.Rect(v[0], v[1], v[0]+v[2], v[1]+v[3]), nil
}
