package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"

	"github.com/mrsinham/dicomwindow/cmd/dicomwindow/wizard"
	"github.com/mrsinham/dicomwindow/internal/config"
	"github.com/mrsinham/dicomwindow/internal/convert"
	"github.com/mrsinham/dicomwindow/internal/dicom"
	"github.com/mrsinham/dicomwindow/internal/window"
)

// version is set at build time via -ldflags
var version = "dev"

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "wizard":
			os.Exit(runWizard(os.Args[2:]))
		case "sample":
			os.Exit(runSample(os.Args[2:], os.Stdout, os.Stderr))
		}
	}
	os.Exit(runConvert(os.Args[1:], os.Stdout, os.Stderr))
}

func runWizard(args []string) int {
	fs := flag.NewFlagSet("wizard", flag.ContinueOnError)
	fromConfig := fs.String("from", "", "Pre-fill the wizard from a YAML config file")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if err := wizard.Run(*fromConfig); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// convertFlags holds the command-line values of the convert command.
type convertFlags struct {
	configFile string
	input      string
	output     string
	windows    string
	recursive  bool
	degenerate string
	quality    int
	resize     int
	annotate   bool
	quiet      bool
	saveConfig string
	help       bool
	version    bool
}

func newConvertFlagSet(f *convertFlags, stderr io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet("dicomwindow", flag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.StringVar(&f.configFile, "config", "", "Load configuration from YAML file")
	fs.StringVar(&f.input, "input", "", "Directory containing DICOM files")
	fs.StringVar(&f.output, "output", "", "Directory for JPEG files")
	fs.StringVar(&f.windows, "windows", "", "Three comma-separated windows, preset names or WIDTH/LEVEL (default: brain,subdural,bone)")
	fs.BoolVar(&f.recursive, "recursive", false, "Walk subdirectories and mirror them in the output")
	fs.StringVar(&f.degenerate, "degenerate", "", "Output for windows without contrast: zero, mid, error (default: zero)")
	fs.IntVar(&f.quality, "quality", 0, fmt.Sprintf("JPEG quality 1-100 (default: %d)", config.DefaultJPEGQuality))
	fs.IntVar(&f.resize, "resize", 0, "Scale output to SIZE x SIZE pixels (0 = source size)")
	fs.BoolVar(&f.annotate, "annotate", false, "Draw the window names onto each image")
	fs.BoolVar(&f.quiet, "quiet", false, "Suppress progress output")
	fs.StringVar(&f.saveConfig, "save-config", "", "Save the effective configuration to YAML file")
	fs.BoolVar(&f.help, "help", false, "Show help message")
	fs.BoolVar(&f.version, "version", false, "Show version")
	return fs
}

// buildConfig loads the config file, if any, and applies the flags that were
// set explicitly on the command line on top of it.
func buildConfig(f *convertFlags, fs *flag.FlagSet) (*config.Config, error) {
	cfg := config.Default()
	if f.configFile != "" {
		loaded, err := config.LoadFromYAML(f.configFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	var err error
	fs.Visit(func(fl *flag.Flag) {
		if err != nil {
			return
		}
		switch fl.Name {
		case "input":
			cfg.InputDir = f.input
		case "output":
			cfg.OutputDir = f.output
		case "windows":
			cfg.Windows, err = config.ParseWindows(f.windows)
		case "recursive":
			cfg.Recursive = f.recursive
		case "degenerate":
			cfg.Degenerate = strings.ToLower(f.degenerate)
		case "quality":
			cfg.JPEGQuality = f.quality
		case "resize":
			cfg.Resize = f.resize
		case "annotate":
			cfg.Annotate = f.annotate
		}
	})
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// optionsFromConfig turns a validated configuration into converter options.
func optionsFromConfig(cfg *config.Config) (convert.Options, error) {
	specs, err := cfg.Specs()
	if err != nil {
		return convert.Options{}, err
	}
	policy, err := window.ParseDegeneratePolicy(cfg.Degenerate)
	if err != nil {
		return convert.Options{}, err
	}
	return convert.Options{
		InputDir:   cfg.InputDir,
		OutputDir:  cfg.OutputDir,
		Windows:    specs,
		Recursive:  cfg.Recursive,
		Degenerate: policy,
		Quality:    cfg.JPEGQuality,
		Resize:     cfg.Resize,
		Annotate:   cfg.Annotate,
	}, nil
}

func runConvert(args []string, stdout, stderr io.Writer) int {
	var f convertFlags
	fs := newConvertFlagSet(&f, stderr)
	fs.Usage = func() { printUsage(stderr, fs) }
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	if f.version {
		fmt.Fprintf(stdout, "dicomwindow %s\n", version)
		return 0
	}
	if f.help {
		printHelp(stdout)
		return 0
	}
	if fs.NArg() > 0 {
		fmt.Fprintf(stderr, "Error: unexpected argument %q\n", fs.Arg(0))
		printUsage(stderr, fs)
		return 2
	}
	if f.configFile == "" && f.input == "" {
		fmt.Fprintf(stderr, "Error: --input or --config is required\n")
		printUsage(stderr, fs)
		return 2
	}

	cfg, err := buildConfig(&f, fs)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	opts, err := optionsFromConfig(cfg)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	opts.Quiet = f.quiet
	opts.Out = stdout

	if !f.quiet {
		fmt.Fprintln(stdout, "dicomwindow")
		fmt.Fprintln(stdout, "===========")
		if f.configFile != "" {
			fmt.Fprintf(stdout, "Loading config from %s\n", f.configFile)
		}
		fmt.Fprintln(stdout)
	}

	report, err := convert.Run(opts)
	if err != nil {
		fmt.Fprintf(stderr, "Error converting: %v\n", err)
		return 1
	}

	if f.saveConfig != "" {
		if err := config.SaveToYAML(cfg, f.saveConfig); err != nil {
			fmt.Fprintf(stderr, "Warning: could not save config: %v\n", err)
		} else if !f.quiet {
			fmt.Fprintf(stdout, "Configuration saved to %s\n", f.saveConfig)
		}
	}

	if failed := report.Failed(); len(failed) > 0 {
		for _, res := range failed {
			fmt.Fprintf(stderr, "Error: %s: %v\n", res.Source, res.Err)
		}
		return 1
	}
	return 0
}

func runSample(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("sample", flag.ContinueOnError)
	fs.SetOutput(stderr)

	outputDir := fs.String("output", "dicom_samples", "Output directory")
	numImages := fs.Int("num-images", 10, "Number of slices to generate")
	size := fs.Int("size", 512, "Slice width and height in pixels")
	width := fs.Int("width", 0, "Slice width in pixels (overrides --size)")
	height := fs.Int("height", 0, "Slice height in pixels (overrides --size)")
	seed := fs.Int64("seed", 0, "Seed for reproducibility (optional, derived from the output directory if not specified)")
	workers := fs.Int("workers", 0, fmt.Sprintf("Number of parallel workers (default: %d = CPU cores)", runtime.NumCPU()))
	edgeCasePercentage := fs.Int("edge-cases", 0, "Percentage of slices with edge case variations (0-100)")
	edgeCaseTypes := fs.String("edge-case-types", "all", "Comma-separated edge case types: missing-rescale,malformed-rescale,flat,truncated (or 'all')")
	signed := fs.Bool("signed", false, "Store HU directly as signed 12-bit pixels (PixelRepresentation 1)")
	frames := fs.Int("frames", 1, "Frames per file")
	quiet := fs.Bool("quiet", false, "Suppress progress output")

	if err := fs.Parse(args); err != nil {
		return 2
	}

	opts := dicom.SampleOptions{
		NumImages: *numImages,
		Width:     *size,
		Height:    *size,
		OutputDir: *outputDir,
		Seed:      *seed,
		Workers:   *workers,
		Signed:    *signed,
		Frames:    *frames,
		Quiet:     *quiet,
		Out:       stdout,
	}
	if *width > 0 {
		opts.Width = *width
	}
	if *height > 0 {
		opts.Height = *height
	}

	if *edgeCasePercentage > 0 {
		types, err := dicom.ParseEdgeCases(*edgeCaseTypes)
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
		opts.EdgeCases = dicom.EdgeCaseConfig{Percentage: *edgeCasePercentage, Types: types}
		if !*quiet {
			fmt.Fprintf(stdout, "Edge cases: %d%% of slices with types %v\n", *edgeCasePercentage, types)
		}
	}

	files, err := dicom.GenerateSamples(opts)
	if err != nil {
		fmt.Fprintf(stderr, "Error generating samples: %v\n", err)
		return 1
	}

	if !*quiet {
		fmt.Fprintf(stdout, "\n✓ %d slices written to: %s/\n", len(files), *outputDir)
	}
	return 0
}

func printUsage(w io.Writer, fs *flag.FlagSet) {
	fmt.Fprintln(w, "\nUsage:")
	fmt.Fprintln(w, "  dicomwindow --input <DIR> --output <DIR> [options]")
	fmt.Fprintln(w, "  dicomwindow sample [options]")
	fmt.Fprintln(w, "  dicomwindow wizard [--from <FILE>]")
	fmt.Fprintln(w, "\nOptions:")
	fs.SetOutput(w)
	fs.PrintDefaults()
}

func printHelp(w io.Writer) {
	fmt.Fprintln(w, "dicomwindow")
	fmt.Fprintln(w, "===========")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Convert DICOM slices into 3-channel JPEG images, one window per channel.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  dicomwindow --input <DIR> --output <DIR> [options]")
	fmt.Fprintln(w, "  dicomwindow --config <FILE> [options]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Conversion options:")
	fmt.Fprintln(w, "  --input <DIR>         Directory containing DICOM files")
	fmt.Fprintln(w, "  --output <DIR>        Directory for JPEG files (default: 'jpg')")
	fmt.Fprintln(w, "  --windows <LIST>      Three windows for the R, G and B channels, each a")
	fmt.Fprintln(w, "                        preset name or WIDTH/LEVEL (default: brain,subdural,bone)")
	fmt.Fprintf(w, "                        Presets: %s\n", strings.Join(window.PresetNames(), ", "))
	fmt.Fprintln(w, "  --recursive           Walk subdirectories and mirror them in the output")
	fmt.Fprintln(w, "  --degenerate <MODE>   Output for windows without contrast:")
	fmt.Fprintln(w, "                        zero  - all black (default)")
	fmt.Fprintln(w, "                        mid   - mid grey (127)")
	fmt.Fprintln(w, "                        error - fail the file")
	fmt.Fprintf(w, "  --quality <N>         JPEG quality 1-100 (default: %d)\n", config.DefaultJPEGQuality)
	fmt.Fprintln(w, "  --resize <N>          Scale output to N x N pixels (default: source size)")
	fmt.Fprintln(w, "  --annotate            Draw the window names onto each image")
	fmt.Fprintln(w, "  --quiet               Suppress progress output")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Configuration:")
	fmt.Fprintln(w, "  --config <FILE>       Load configuration from YAML file (flags override it)")
	fmt.Fprintln(w, "  --save-config <FILE>  Save the effective configuration to YAML file")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  sample                Generate synthetic head CT slices to convert")
	fmt.Fprintln(w, "                        --output, --num-images, --size, --seed, --workers,")
	fmt.Fprintln(w, "                        --edge-cases <PCT>, --edge-case-types <LIST>, --signed, --frames <N>")
	fmt.Fprintln(w, "  wizard                Build a configuration interactively (--from <FILE>)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  --version             Show version")
	fmt.Fprintln(w, "  --help                Show this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Examples:")
	fmt.Fprintln(w, "  # Brain, subdural and bone windows")
	fmt.Fprintln(w, "  dicomwindow --input ./series --output ./jpg")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  # Lung, mediastinum and a custom window, resized for a classifier")
	fmt.Fprintln(w, "  dicomwindow --input ./chest --output ./jpg --windows lung,mediastinum,600/100 --resize 256")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  # Try it on generated data")
	fmt.Fprintln(w, "  dicomwindow sample --output ./samples --num-images 20 --edge-cases 25")
	fmt.Fprintln(w, "  dicomwindow --input ./samples --output ./jpg --annotate")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output:")
	fmt.Fprintln(w, "  One JPEG per input file named <original-filename>.jpg. Files that cannot")
	fmt.Fprintln(w, "  be converted are reported and skipped; the exit status is 1 if any failed.")
}
