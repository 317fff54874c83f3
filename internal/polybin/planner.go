package polybin

// planLayout chooses one of the four byte layouts from the set of
// inputs the caller wants to include.
func planLayout(wantIco, wantMp4, wantZip bool) LayoutMode {
	switch {
	case wantMp4 && wantIco:
		return ModeOverlayMp4First
	case wantMp4:
		return ModeMp4First
	case wantIco:
		return ModeIcoFirst
	case wantZip:
		return ModeZipOnly
	default:
		return ModeNone
	}
}

// assemble drives the components named in spec §4.7 for the selected
// mode and returns the final artifact bytes.
func assemble(mode LayoutMode, icoPath, mp4Path string, zipPaths []string) ([]byte, error) {
	switch mode {
	case ModeOverlayMp4First:
		return assembleOverlayMp4First(icoPath, mp4Path, zipPaths)
	case ModeMp4First:
		return assembleMp4First(mp4Path, zipPaths)
	case ModeIcoFirst:
		return assembleIcoFirst(icoPath, zipPaths)
	case ModeZipOnly:
		return MergeZips(zipPaths)
	default:
		return nil, ErrInsufficientInputs
	}
}

// assembleOverlayMp4First builds mp4_part ++ zip_patched? ++ png.
//
// The final PNG offset only needs the *new* MP4 part's size, which is
// 256 + 32 + (orig_len - orig_first_size) — independent of the PNG
// offset itself, since the overlay's embedded offset field doesn't
// affect the MP4 part's own length. That lets this run in two passes
// instead of needing a fixed point: compute mp4PartSize first, patch
// the ZIP against it, then rehead the MP4 with the now-known PNG offset.
func assembleOverlayMp4First(icoPath, mp4Path string, zipPaths []string) ([]byte, error) {
	png, err := ReadICO(icoPath)
	if err != nil {
		return nil, err
	}

	mp4Bytes, err := readInput(mp4Path)
	if err != nil {
		return nil, err
	}

	first, ok := readBox(mp4Bytes, 0)
	if !ok {
		return nil, ErrInvalidMp4
	}
	mp4PartSize := int64(256+32) + (int64(len(mp4Bytes)) - first.TotalSize)

	var zipPatched []byte
	if len(zipPaths) > 0 {
		merged, err := MergeZips(zipPaths)
		if err != nil {
			return nil, err
		}
		zipPatched, err = PatchZipForPrepend(merged, mp4PartSize)
		if err != nil {
			return nil, err
		}
	}

	pngOffsetAbs := mp4PartSize + int64(len(zipPatched))
	mp4Part, err := ReheadMP4(mp4Bytes, int64(len(png.Bytes)), png.Width, png.Height, pngOffsetAbs)
	if err != nil {
		return nil, err
	}

	out := make([]byte, 0, len(mp4Part)+len(zipPatched)+len(png.Bytes))
	out = append(out, mp4Part...)
	out = append(out, zipPatched...)
	out = append(out, png.Bytes...)
	return out, nil
}

// assembleMp4First builds mp4 ++ zip_patched?, the ZIP delta being the
// unchanged MP4's length.
func assembleMp4First(mp4Path string, zipPaths []string) ([]byte, error) {
	mp4Bytes, err := readInput(mp4Path)
	if err != nil {
		return nil, err
	}

	out := make([]byte, 0, len(mp4Bytes))
	out = append(out, mp4Bytes...)

	if len(zipPaths) > 0 {
		merged, err := MergeZips(zipPaths)
		if err != nil {
			return nil, err
		}
		patched, err := PatchZipForPrepend(merged, int64(len(mp4Bytes)))
		if err != nil {
			return nil, err
		}
		out = append(out, patched...)
	}
	return out, nil
}

// assembleIcoFirst builds ico_22 ++ png ++ zip_patched?, the ZIP delta
// being 22 + len(png).
func assembleIcoFirst(icoPath string, zipPaths []string) ([]byte, error) {
	png, err := ReadICO(icoPath)
	if err != nil {
		return nil, err
	}

	header := WritePlainICOHeader(int64(len(png.Bytes)), png.Width, png.Height)

	out := make([]byte, 0, len(header)+len(png.Bytes))
	out = append(out, header...)
	out = append(out, png.Bytes...)

	if len(zipPaths) > 0 {
		merged, err := MergeZips(zipPaths)
		if err != nil {
			return nil, err
		}
		patched, err := PatchZipForPrepend(merged, int64(len(out)))
		if err != nil {
			return nil, err
		}
		out = append(out, patched...)
	}
	return out, nil
}
