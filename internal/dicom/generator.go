package dicom

import (
	"fmt"
	"hash/fnv"
	"io"
	"math"
	randv2 "math/rand/v2"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"sync"

	"github.com/suyashkumar/dicom"
	"github.com/suyashkumar/dicom/pkg/frame"
	"github.com/suyashkumar/dicom/pkg/tag"
)

const (
	ctImageStorage   = "1.2.840.10008.5.1.4.1.1.2"
	explicitVRLittle = "1.2.840.10008.1.2.1"

	// Stored values are unsigned 12-bit; HU = stored - 1024.
	sampleIntercept = -1024
	sampleBits      = 12
)

// storage describes how HU values are encoded into 16-bit words.
type storage struct {
	signed    bool
	intercept float64
	min, max  float64
}

func sampleStorage(signed bool) storage {
	if signed {
		// 12-bit two's complement, sign-extended to the full word; HU = stored.
		return storage{signed: true, intercept: 0, min: -(1 << (sampleBits - 1)), max: 1<<(sampleBits-1) - 1}
	}
	return storage{intercept: sampleIntercept, min: 0, max: 1<<sampleBits - 1}
}

// word encodes hu as a stored pixel word, clamped to the storage range.
func (st storage) word(hu float64) uint16 {
	stored := math.Max(st.min, math.Min(st.max, hu-st.intercept))
	if st.signed {
		return uint16(int16(stored))
	}
	return uint16(stored)
}

// SampleOptions contains all parameters needed to generate synthetic CT slices.
type SampleOptions struct {
	NumImages int
	Width     int // default 512
	Height    int // default 512
	OutputDir string
	Seed      int64
	Workers   int  // 0 = runtime.NumCPU()
	Signed    bool // PixelRepresentation 1, HU stored directly
	Frames    int  // frames per file, 0 or 1 = single frame

	EdgeCases EdgeCaseConfig

	Quiet bool
	Out   io.Writer // progress output, defaults to os.Stdout
}

// GeneratedFile contains information about a generated DICOM file
type GeneratedFile struct {
	Path           string
	SOPInstanceUID string
	InstanceNumber int
	EdgeCase       EdgeCase
}

// sampleTask contains all data needed to write a single slice
type sampleTask struct {
	index     int
	width     int
	height    int
	filePath  string
	overlay   string
	pixelSeed uint64
	edgeCase  EdgeCase
	signed    bool
	frames    int
	metadata  []*dicom.Element
	writeOpts []dicom.WriteOption
	sopUID    string
}

// writeDatasetToFile writes a DICOM dataset to a file
func writeDatasetToFile(filename string, ds dicom.Dataset, opts ...dicom.WriteOption) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	return dicom.Write(f, ds, opts...)
}

// phantomHU returns the Hounsfield value of a simple axial head phantom at
// normalised radius r: ventricles, brain, skull, then air.
func phantomHU(r float64) float64 {
	switch {
	case r < 0.15:
		return 5
	case r < 0.78:
		return 35
	case r < 0.9:
		return 1000
	default:
		return -1000
	}
}

// generateSampleFromTask renders pixel data for one task and writes the file
func generateSampleFromTask(task sampleTask) error {
	width, height := task.width, task.height
	pixelsPerFrame := width * height
	rng := randv2.New(randv2.NewPCG(task.pixelSeed, task.pixelSeed))

	nativeFrame := frame.NewNativeFrame[uint16](16, height, width, pixelsPerFrame, 1)
	st := sampleStorage(task.signed)

	if task.edgeCase == FlatPixels {
		for i := range nativeFrame.RawData {
			nativeFrame.RawData[i] = st.word(50)
		}
	} else {
		centerX, centerY := float64(width)/2, float64(height)/2
		radius := math.Min(centerX, centerY)
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				dx := float64(x) - centerX
				dy := float64(y) - centerY
				hu := phantomHU(math.Sqrt(dx*dx+dy*dy) / radius)

				noise := (rng.Float64() - 0.5) * 20
				nativeFrame.RawData[y*width+x] = st.word(hu + noise)
			}
		}
		burnText(nativeFrame.RawData, width, height, task.overlay, st.word(st.max+st.intercept), st.word(st.min+st.intercept))
	}

	pixelDataInfo := dicom.PixelDataInfo{}
	for f := 0; f < max(1, task.frames); f++ {
		pixelDataInfo.Frames = append(pixelDataInfo.Frames, &frame.Frame{
			Encapsulated: false,
			NativeData:   nativeFrame,
		})
	}

	elements := make([]*dicom.Element, len(task.metadata)+1)
	copy(elements, task.metadata)
	elements[len(task.metadata)] = mustNewElement(tag.PixelData, pixelDataInfo)

	if err := writeDatasetToFile(task.filePath, dicom.Dataset{Elements: elements}, task.writeOpts...); err != nil {
		return err
	}

	if task.edgeCase == TruncatedPixels {
		if err := TruncatePixelData(task.filePath); err != nil {
			return fmt.Errorf("truncate pixel data: %w", err)
		}
	}
	return nil
}

// sampleMetadata builds the non-pixel elements of one slice.
func sampleMetadata(task sampleTask, studyUID, seriesUID string) []*dicom.Element {
	sliceZ := float64(task.index-1) * 5.0
	pixelRepresentation := 0
	if task.signed {
		pixelRepresentation = 1
	}
	elements := []*dicom.Element{
		mustNewElement(tag.MediaStorageSOPClassUID, []string{ctImageStorage}),
		mustNewElement(tag.MediaStorageSOPInstanceUID, []string{task.sopUID}),
		mustNewElement(tag.TransferSyntaxUID, []string{explicitVRLittle}),
		mustNewElement(tag.SOPClassUID, []string{ctImageStorage}),
		mustNewElement(tag.SOPInstanceUID, []string{task.sopUID}),
		mustNewElement(tag.Modality, []string{"CT"}),
		mustNewElement(tag.PatientName, []string{"PHANTOM^HEAD"}),
		mustNewElement(tag.PatientID, []string{"PHANTOM001"}),
		mustNewElement(tag.StudyInstanceUID, []string{studyUID}),
		mustNewElement(tag.SeriesInstanceUID, []string{seriesUID}),
		mustNewElement(tag.SeriesNumber, []string{"1"}),
		mustNewElement(tag.InstanceNumber, []string{fmt.Sprintf("%d", task.index)}),
		mustNewElement(tag.ImagePositionPatient, []string{"-125.000000", "-125.000000", fmt.Sprintf("%.6f", sliceZ)}),
		mustNewElement(tag.SliceThickness, []string{"5.000000"}),
		mustNewElement(tag.PixelSpacing, []string{"0.488281", "0.488281"}),
		mustNewElement(tag.WindowCenter, []string{"40"}),
		mustNewElement(tag.WindowWidth, []string{"80"}),
		mustNewElement(tag.Rows, []int{task.height}),
		mustNewElement(tag.Columns, []int{task.width}),
		mustNewElement(tag.BitsAllocated, []int{16}),
		mustNewElement(tag.BitsStored, []int{sampleBits}),
		mustNewElement(tag.HighBit, []int{sampleBits - 1}),
		mustNewElement(tag.PixelRepresentation, []int{pixelRepresentation}),
		mustNewElement(tag.SamplesPerPixel, []int{1}),
		mustNewElement(tag.PhotometricInterpretation, []string{"MONOCHROME2"}),
	}

	if task.frames > 1 {
		elements = append(elements, mustNewElement(tag.NumberOfFrames, []string{fmt.Sprintf("%d", task.frames)}))
	}

	switch task.edgeCase {
	case MissingRescale:
	case MalformedRescale:
		elements = append(elements,
			mustNewElement(tag.RescaleIntercept, []string{"N/A"}),
			mustNewElement(tag.RescaleSlope, []string{"one"}),
		)
	default:
		elements = append(elements,
			mustNewElement(tag.RescaleIntercept, []string{floatToDS(sampleStorage(task.signed).intercept)}),
			mustNewElement(tag.RescaleSlope, []string{floatToDS(1)}),
			mustNewElement(tag.RescaleType, []string{"HU"}),
		)
	}

	sort.Slice(elements, func(i, j int) bool {
		if elements[i].Tag.Group != elements[j].Tag.Group {
			return elements[i].Tag.Group < elements[j].Tag.Group
		}
		return elements[i].Tag.Element < elements[j].Tag.Element
	})
	return elements
}

// GenerateSamples writes a series of synthetic head CT slices to
// opts.OutputDir and returns the files in instance order.
func GenerateSamples(opts SampleOptions) ([]GeneratedFile, error) {
	if opts.NumImages <= 0 {
		return nil, fmt.Errorf("number of images must be > 0, got %d", opts.NumImages)
	}
	if opts.Width == 0 {
		opts.Width = 512
	}
	if opts.Height == 0 {
		opts.Height = 512
	}
	if opts.Width < 16 || opts.Height < 16 {
		return nil, fmt.Errorf("image dimensions must be at least 16x16, got %dx%d", opts.Width, opts.Height)
	}
	if opts.Frames < 0 {
		return nil, fmt.Errorf("frames must be >= 0, got %d", opts.Frames)
	}
	if err := opts.EdgeCases.Validate(); err != nil {
		return nil, err
	}
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}

	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	seed := opts.Seed
	if seed == 0 {
		h := fnv.New64a()
		_, _ = h.Write([]byte(opts.OutputDir)) // hash.Write never returns an error
		seed = int64(h.Sum64())
	}
	rng := randv2.New(randv2.NewPCG(uint64(seed), uint64(seed)))

	studyUID := deterministicUID(fmt.Sprintf("%d_study", seed))
	seriesUID := deterministicUID(fmt.Sprintf("%d_series", seed))

	if !opts.Quiet {
		fmt.Fprintf(out, "Generating %d CT slices (%dx%d, seed %d)...\n", opts.NumImages, opts.Width, opts.Height, seed)
	}

	// Phase 1: build tasks sequentially so output is deterministic
	tasks := make([]sampleTask, 0, opts.NumImages)
	for i := 1; i <= opts.NumImages; i++ {
		pixelSeedHash := fnv.New64a()
		_, _ = fmt.Fprintf(pixelSeedHash, "%d_pixel_%d", seed, i)

		task := sampleTask{
			index:     i,
			width:     opts.Width,
			height:    opts.Height,
			filePath:  filepath.Join(opts.OutputDir, fmt.Sprintf("IMG%04d.dcm", i)),
			overlay:   fmt.Sprintf("File %d/%d", i, opts.NumImages),
			pixelSeed: pixelSeedHash.Sum64(),
			edgeCase:  opts.EdgeCases.pick(rng),
			signed:    opts.Signed,
			frames:    opts.Frames,
			sopUID:    deterministicUID(fmt.Sprintf("%d_instance_%d", seed, i)),
		}
		task.metadata = sampleMetadata(task, studyUID, seriesUID)
		if task.edgeCase == MalformedRescale {
			task.writeOpts = []dicom.WriteOption{dicom.SkipVRVerification(), dicom.SkipValueTypeVerification()}
		}
		tasks = append(tasks, task)
	}

	// Phase 2: write files in parallel
	numWorkers := opts.Workers
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	if numWorkers > len(tasks) {
		numWorkers = len(tasks)
	}

	type result struct {
		index int
		err   error
	}
	taskChan := make(chan sampleTask, len(tasks))
	resultChan := make(chan result, len(tasks))

	var wg sync.WaitGroup
	for w := 0; w < numWorkers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for task := range taskChan {
				resultChan <- result{task.index, generateSampleFromTask(task)}
			}
		}()
	}
	for _, task := range tasks {
		taskChan <- task
	}
	close(taskChan)

	go func() {
		wg.Wait()
		close(resultChan)
	}()

	completed := 0
	var firstErr error
	for r := range resultChan {
		if r.err != nil && firstErr == nil {
			firstErr = fmt.Errorf("generate slice %d: %w", r.index, r.err)
		}
		completed++
		if !opts.Quiet && (completed%10 == 0 || completed == len(tasks)) {
			fmt.Fprintf(out, "  Progress: %d/%d (%.0f%%)\n", completed, len(tasks), float64(completed)/float64(len(tasks))*100)
		}
	}
	if firstErr != nil {
		return nil, firstErr
	}

	files := make([]GeneratedFile, len(tasks))
	for i, task := range tasks {
		files[i] = GeneratedFile{
			Path:           task.filePath,
			SOPInstanceUID: task.sopUID,
			InstanceNumber: task.index,
			EdgeCase:       task.edgeCase,
		}
		if !opts.Quiet && task.edgeCase != NoEdgeCase {
			fmt.Fprintf(out, "  %s: %s\n", filepath.Base(task.filePath), task.edgeCase)
		}
	}

	if !opts.Quiet {
		fmt.Fprintf(out, "\n✓ %d DICOM files created in: %s/\n", len(files), opts.OutputDir)
	}
	return files, nil
}
