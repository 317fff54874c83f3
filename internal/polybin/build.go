package polybin

import (
	"fmt"
	"os"
)

// Build is the public entry point: given an output path and up to
// three kinds of input (an ICO path, an MP4 path, and zero or more ZIP
// paths), it validates the inputs, selects a layout, assembles the
// artifact, and writes it to outputPath in one atomic write.
//
// Validation order: missing paths are reported before the "at least
// two inputs" rule, matching spec §4.8. If len(zipPaths) > 1, merging
// multiple archives alone satisfies the input-count requirement;
// otherwise at least two of {ico, mp4, zip} must be present.
func Build(outputPath string, icoPath, mp4Path string, zipPaths []string) error {
	if icoPath != "" {
		if _, err := os.Stat(icoPath); err != nil {
			return fmt.Errorf("%w: %s", ErrNotFound, icoPath)
		}
	}
	if mp4Path != "" {
		if _, err := os.Stat(mp4Path); err != nil {
			return fmt.Errorf("%w: %s", ErrNotFound, mp4Path)
		}
	}
	for _, p := range zipPaths {
		if _, err := os.Stat(p); err != nil {
			return fmt.Errorf("%w: %s", ErrNotFound, p)
		}
	}

	wantIco := icoPath != ""
	wantMp4 := mp4Path != ""
	wantZip := len(zipPaths) > 0

	if !(wantZip && len(zipPaths) > 1) {
		count := 0
		for _, want := range []bool{wantIco, wantMp4, wantZip} {
			if want {
				count++
			}
		}
		if count < 2 {
			return ErrInsufficientInputs
		}
	}

	mode := planLayout(wantIco, wantMp4, wantZip)
	out, err := assemble(mode, icoPath, mp4Path, zipPaths)
	if err != nil {
		return err
	}

	if err := os.WriteFile(outputPath, out, 0o644); err != nil {
		return fmt.Errorf("%w: %v", ErrIO, err)
	}
	return nil
}

// readInput reads a whole input file, translating a missing file into
// ErrNotFound for callers that validate existence elsewhere too.
func readInput(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, err
	}
	return data, nil
}
