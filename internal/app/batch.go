package app

import (
	"errors"
	"fmt"
	"runtime"
	"sync"

	"knitpattern/internal/logging"
	"knitpattern/internal/project"
	"knitpattern/internal/quantize"
	"knitpattern/pkg/grid"
)

// ErrNoImages is returned for a job without images.
var ErrNoImages = errors.New("app: job lists no images")

// BatchOptions controls a job run.
type BatchOptions struct {
	OpenCV  bool // decode with OpenCV instead of the Go decoders
	Workers int  // parallel decoders; 0 means one per CPU
	DryRun  bool // synthesize without writing files
}

// Output describes one processed image.
type Output struct {
	Image  string
	Result *Result
	Files  []string
}

// RunJob processes every image of job. Images are decoded and quantized in
// parallel, then synthesized one after the other in job order so that the
// background phase runs on from canvas to canvas. On success job.Continuity
// holds the phase after the last canvas; the caller saves the job.
func RunJob(projectPath string, job *project.File, opt BatchOptions) ([]Output, error) {
	paths, err := job.GetImagePaths(projectPath)
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, ErrNoImages
	}
	motifs, err := LoadMotifs(job, projectPath)
	if err != nil {
		return nil, err
	}

	bases, err := quantizeAll(paths, job.Quantize, opt)
	if err != nil {
		return nil, err
	}

	log := logging.Logger()
	state := job.Continuity
	outputs := make([]Output, len(paths))
	for i, path := range paths {
		res, err := Synthesize(bases[i], job, motifs, state)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		outputs[i] = Output{Image: path, Result: res}
		if !opt.DryRun {
			files, err := Export(projectPath, job, path, res.Pattern)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", path, err)
			}
			outputs[i].Files = files
		}
		log.Info("pattern synthesized", "image", path,
			"rows", res.Pattern.Rows(), "cols", res.Pattern.Cols(),
			"shift", res.Shift, "cutoff", res.Next.Cutoff)
		state = res.Next
	}
	job.Continuity = state
	return outputs, nil
}

// quantizeAll decodes paths concurrently, returning matrices in input order.
func quantizeAll(paths []string, qo quantize.Options, opt BatchOptions) ([]*grid.Matrix, error) {
	load := quantize.Decode
	if opt.OpenCV {
		load = quantize.Load
	}
	numWorkers := opt.Workers
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}

	out := make([]*grid.Matrix, len(paths))
	errs := make([]error, len(paths))
	sem := make(chan struct{}, numWorkers)
	var wg sync.WaitGroup
	for i, path := range paths {
		wg.Add(1)
		go func(i int, path string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			out[i], errs[i] = load(path, qo)
		}(i, path)
	}
	wg.Wait()

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return out, nil
}
