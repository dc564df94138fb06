package mediancut

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
)

// ErrWorkerClosed is returned by Submit after the worker has stopped.
var ErrWorkerClosed = errors.New("worker closed")

// ErrWorkerNotStarted is returned by Submit before Start has been called.
var ErrWorkerNotStarted = errors.New("worker not started")

// Request asks for Pixels, a packed RGBA buffer of Width*Height pixels,
// to be reduced to at most TargetSize colors.
type Request struct {
	Pixels     []byte
	Width      int
	Height     int
	TargetSize int
}

// Response carries the reduced pixels, the palette, and the palette index
// of every pixel.
type Response struct {
	Pixels            []byte
	Palette           Palette
	PixelPaletteIndex []int
	Diagnostics       []string
	Partial           bool
}

// Process runs the full pipeline for one request: histogram, median cut,
// remap. It takes ownership of req.Pixels; the returned Response.Pixels is
// the same buffer rewritten in place.
func Process(req Request) (Response, error) {
	return process(NewQuantizer(), nil, req)
}

func process(q *Quantizer, remapOpts []RemapperOption, req Request) (Response, error) {
	colors, err := Histogram(req.Pixels, req.Width, req.Height)
	if err != nil {
		return Response{}, err
	}
	result, err := q.Quantize(colors, req.TargetSize)
	if err != nil {
		return Response{}, err
	}
	remapper := NewRemapper(result, remapOpts...)
	index, err := remapper.RemapInto(req.Pixels, req.Pixels, req.Width, req.Height)
	if err != nil {
		return Response{}, err
	}
	return Response{
		Pixels:            req.Pixels,
		Palette:           result.Palette,
		PixelPaletteIndex: index,
		Diagnostics:       result.Diagnostics,
		Partial:           result.Partial,
	}, nil
}

// ProcessBatch processes every request on its own goroutine and returns
// the responses in request order. The first error encountered is returned.
func ProcessBatch(ctx context.Context, reqs []Request) ([]Response, error) {
	if len(reqs) == 0 {
		return nil, fmt.Errorf("%w: no requests provided", ErrInvalidInput)
	}

	q := NewQuantizer()
	results := make([]Response, len(reqs))
	errs := make(chan error, len(reqs))

	var wg sync.WaitGroup
	for i, r := range reqs {
		wg.Add(1)
		go func(idx int, req Request) {
			defer wg.Done()
			if err := ctx.Err(); err != nil {
				errs <- err
				return
			}
			resp, err := process(q, nil, req)
			if err != nil {
				errs <- fmt.Errorf("request %d: %w", idx, err)
				return
			}
			results[idx] = resp
		}(i, r)
	}

	wg.Wait()
	close(errs)

	for err := range errs {
		return nil, err
	}
	return results, nil
}

type outcome struct {
	resp Response
	err  error
}

type job struct {
	ctx   context.Context
	req   Request
	reply chan outcome
}

// Worker runs quantization requests on a background goroutine so callers
// on an interactive path never block on the computation itself. Requests
// are handled one at a time in submission order.
type Worker struct {
	quantizer *Quantizer
	remapOpts []RemapperOption
	queueSize int

	jobs      chan job
	done      chan struct{}
	started   atomic.Bool
	startOnce sync.Once
	closeOnce sync.Once
}

// WorkerOption is a functional option for configuring a Worker.
type WorkerOption func(*Worker)

// WithQuantizer sets the quantizer used for every request.
func WithQuantizer(q *Quantizer) WorkerOption {
	return func(w *Worker) {
		w.quantizer = q
	}
}

// WithRemapperOptions sets the options passed to each request's Remapper.
func WithRemapperOptions(opts ...RemapperOption) WorkerOption {
	return func(w *Worker) {
		w.remapOpts = opts
	}
}

// WithQueueSize sets how many submitted requests may wait for the worker.
func WithQueueSize(n int) WorkerOption {
	return func(w *Worker) {
		w.queueSize = n
	}
}

// NewWorker creates a Worker. Call Start before submitting requests.
func NewWorker(opts ...WorkerOption) *Worker {
	w := &Worker{
		queueSize: 1,
		done:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.quantizer == nil {
		w.quantizer = NewQuantizer()
	}
	if w.queueSize < 0 {
		w.queueSize = 0
	}
	w.jobs = make(chan job, w.queueSize)
	return w
}

// Start launches the background goroutine. It runs until ctx is done or
// Close is called. Calling Start more than once has no effect.
func (w *Worker) Start(ctx context.Context) {
	w.startOnce.Do(func() {
		w.started.Store(true)
		go w.run(ctx)
	})
}

func (w *Worker) run(ctx context.Context) {
	defer w.Close()
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.done:
			return
		case j := <-w.jobs:
			if err := j.ctx.Err(); err != nil {
				j.reply <- outcome{err: err}
				continue
			}
			resp, err := process(w.quantizer, w.remapOpts, j.req)
			j.reply <- outcome{resp: resp, err: err}
		}
	}
}

// Submit hands req to the worker and waits for its response. Ownership of
// req.Pixels passes to the worker; the caller must not touch the buffer
// until Submit returns, after which it belongs to the Response. If ctx is
// done first, Submit returns ctx.Err() and the result is discarded; the
// buffer stays with the worker and must not be reused. Submit fails with
// ErrWorkerNotStarted until Start has been called.
func (w *Worker) Submit(ctx context.Context, req Request) (Response, error) {
	select {
	case <-w.done:
		return Response{}, ErrWorkerClosed
	default:
	}
	if !w.started.Load() {
		return Response{}, ErrWorkerNotStarted
	}

	reply := make(chan outcome, 1)
	select {
	case w.jobs <- job{ctx: ctx, req: req, reply: reply}:
	case <-ctx.Done():
		return Response{}, ctx.Err()
	case <-w.done:
		return Response{}, ErrWorkerClosed
	}

	select {
	case out := <-reply:
		return out.resp, out.err
	case <-ctx.Done():
		return Response{}, ctx.Err()
	case <-w.done:
		return Response{}, ErrWorkerClosed
	}
}

// Close stops the worker. Pending and future submissions fail with
// ErrWorkerClosed.
func (w *Worker) Close() {
	w.closeOnce.Do(func() {
		close(w.done)
	})
}
