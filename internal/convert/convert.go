// Package convert turns a directory of DICOM slices into windowed
// 3-channel JPEG images, one file at a time.
package convert

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/mrsinham/dicomwindow/internal/dicom"
	"github.com/mrsinham/dicomwindow/internal/window"
)

// Options contains all parameters needed to convert a directory.
type Options struct {
	InputDir  string
	OutputDir string
	Windows   [3]window.Spec
	Recursive bool // walk subdirectories and mirror them in OutputDir

	Degenerate window.DegeneratePolicy
	Quality    int  // JPEG quality, 0 = DefaultQuality
	Resize     int  // output edge length in pixels, 0 = source size
	Annotate   bool // draw window names onto the image

	// Output control
	Quiet            bool
	Out              io.Writer                // progress output, defaults to os.Stdout
	ProgressCallback func(current, total int) // optional, called after every file
}

// Result is the outcome of converting one file.
type Result struct {
	Source      string
	Output      string
	Rows, Cols  int
	Frames      int // frames in the source; only the first is converted
	Calibration window.Calibration
	Err         error
}

// Report collects the per-file results of a run.
type Report struct {
	Results []Result
}

// Converted returns the number of files written.
func (r *Report) Converted() int {
	n := 0
	for _, res := range r.Results {
		if res.Err == nil {
			n++
		}
	}
	return n
}

// Failed returns the results that carry an error.
func (r *Report) Failed() []Result {
	var failed []Result
	for _, res := range r.Results {
		if res.Err != nil {
			failed = append(failed, res)
		}
	}
	return failed
}

// Run converts every file in opts.InputDir. Failures of individual files are
// recorded in the report and do not stop the run; the returned error is only
// set for problems that prevent the run as a whole.
func Run(opts Options) (*Report, error) {
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}
	if opts.Degenerate == "" {
		opts.Degenerate = window.DegenerateZero
	}

	info, err := os.Stat(opts.InputDir)
	if err != nil {
		return nil, fmt.Errorf("input directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("input %s is not a directory", opts.InputDir)
	}
	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	sources, err := ListSources(opts.InputDir, opts.Recursive, opts.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("list input directory: %w", err)
	}

	if !opts.Quiet {
		fmt.Fprintf(out, "Converting %d files from %s\n", len(sources), opts.InputDir)
		for ch, s := range opts.Windows {
			fmt.Fprintf(out, "  Channel %d: %s\n", ch, s)
		}
	}

	report := &Report{Results: make([]Result, 0, len(sources))}
	for i, rel := range sources {
		res := convertFile(opts, rel)
		report.Results = append(report.Results, res)

		if !opts.Quiet {
			if res.Err != nil {
				fmt.Fprintf(out, "  ✗ %s: %v\n", rel, res.Err)
			} else {
				if res.Calibration.Source == window.Defaulted {
					fmt.Fprintf(out, "  %s: rescale tags unusable, using slope 1 intercept 0\n", rel)
				}
				if res.Frames > 1 {
					fmt.Fprintf(out, "  %s: %d frames, converted the first only\n", rel, res.Frames)
				}
			}
		}
		if opts.ProgressCallback != nil {
			opts.ProgressCallback(i+1, len(sources))
		}
		done := i + 1
		if !opts.Quiet && (done%10 == 0 || done == len(sources)) {
			fmt.Fprintf(out, "  Progress: %d/%d (%.0f%%)\n", done, len(sources), float64(done)/float64(len(sources))*100)
		}
	}

	if !opts.Quiet {
		fmt.Fprintf(out, "\n✓ %d of %d files converted into: %s/\n", report.Converted(), len(sources), opts.OutputDir)
		if n := len(report.Failed()); n > 0 {
			fmt.Fprintf(out, "✗ %d files failed\n", n)
		}
	}
	return report, nil
}

// convertFile is the per-file error boundary.
func convertFile(opts Options, rel string) Result {
	src := filepath.Join(opts.InputDir, rel)
	res := Result{Source: src, Output: OutputPath(opts.OutputDir, rel)}

	slice, err := dicom.ReadSlice(src)
	if err != nil {
		res.Err = err
		return res
	}
	res.Rows, res.Cols = slice.Pixels.Rows, slice.Pixels.Cols
	res.Frames = slice.Frames
	res.Calibration = slice.Calibration

	calibrated := window.Calibrate(slice.Pixels, slice.Calibration)
	composite, err := window.Compose(calibrated, opts.Windows, opts.Degenerate)
	if err != nil {
		res.Err = err
		return res
	}

	if err := os.MkdirAll(filepath.Dir(res.Output), 0755); err != nil {
		res.Err = fmt.Errorf("create output directory: %w", err)
		return res
	}
	img := Shape(composite, opts.Resize, opts.Annotate, opts.Windows)
	if err := WriteJPEG(res.Output, img, opts.Quality); err != nil {
		res.Err = err
	}
	return res
}

// OutputPath returns the JPEG path for a source path relative to the input
// directory: the original file name with ".jpg" appended.
func OutputPath(outputDir, rel string) string {
	return filepath.Join(outputDir, rel+".jpg")
}

// ListSources returns the candidate files under dir as sorted relative
// paths. Hidden entries, DICOMDIR index files and the exclude directories
// are skipped. When dir is itself excluded, output is written alongside the
// sources and existing JPEGs are skipped instead.
func ListSources(dir string, recursive bool, exclude ...string) ([]string, error) {
	var sources []string
	inPlace := isExcluded(dir, exclude)
	skip := func(name string) bool {
		return skipName(name) || (inPlace && isOutputName(name))
	}

	if !recursive {
		entries, err := os.ReadDir(dir)
		if err != nil {
			return nil, err
		}
		for _, e := range entries {
			if e.Type().IsRegular() && !skip(e.Name()) {
				sources = append(sources, e.Name())
			}
		}
		return sources, nil
	}

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == dir {
			return nil
		}
		if d.IsDir() && (skipName(d.Name()) || isExcluded(path, exclude)) {
			return filepath.SkipDir
		}
		if skip(d.Name()) {
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		sources = append(sources, rel)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(sources)
	return sources, nil
}

func isExcluded(path string, exclude []string) bool {
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	for _, e := range exclude {
		if ex, err := filepath.Abs(e); err == nil && ex == abs {
			return true
		}
	}
	return false
}

func isOutputName(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".jpg")
}

func skipName(name string) bool {
	return strings.HasPrefix(name, ".") || strings.EqualFold(name, "DICOMDIR")
}
