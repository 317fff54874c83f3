package polybin

import "errors"

// Sentinel error kinds. A build failure of one of the kinds below is
// returned as, or wrapped (via fmt.Errorf %w) around, its sentinel, so
// callers can branch on kind with errors.Is instead of matching message
// strings. Other errors, such as an input file that exists but cannot be
// read, are returned as they come.
var (
	// ErrNotFound is returned when an input path does not exist on disk.
	ErrNotFound = errors.New("polybin: input not found")

	// ErrInsufficientInputs is returned when fewer than two of
	// {ico, mp4, zip} are supplied and the multi-zip carve-out doesn't apply.
	ErrInsufficientInputs = errors.New("polybin: at least two of ico/mp4/zip are required")

	// ErrInvalidIco is returned when an ICO file has no decodable frame.
	ErrInvalidIco = errors.New("polybin: invalid ICO file")

	// ErrInvalidMp4 is returned when no parseable box exists at offset 0,
	// or the first box's size is smaller than its header.
	ErrInvalidMp4 = errors.New("polybin: invalid MP4 file")

	// ErrInvalidZip is returned when no EOCD record can be located within
	// the trailing scan window of a ZIP byte buffer.
	ErrInvalidZip = errors.New("polybin: invalid ZIP archive")

	// ErrIO is returned when writing the output file fails.
	ErrIO = errors.New("polybin: output write failed")
)
