package polybin

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"image"
	"image/png"
	"os"

	bmp "github.com/jsummers/gobmp"
)

// icoHeader is the 6-byte ICO file header.
type icoHeader struct {
	Reserved uint16 // Must be 0
	Type     uint16 // 1 = icon
	Count    uint16 // Number of directory entries
}

// icoEntry is a 16-byte ICO directory entry.
type icoEntry struct {
	Width      uint8  // Width in pixels (0 means 256)
	Height     uint8  // Height in pixels (0 means 256)
	ColorCount uint8  // Number of palette colors (0 if >= 256 colors)
	Reserved   uint8  // Reserved, should be 0
	Planes     uint16 // Color planes
	BitCount   uint16 // Bits per pixel
	Size       uint32 // Size of the image data in bytes
	Offset     uint32 // Offset of the image data from the start of the file
}

func (e icoEntry) actualWidth() int {
	if e.Width == 0 {
		return 256
	}
	return int(e.Width)
}

func (e icoEntry) actualHeight() int {
	if e.Height == 0 {
		return 256
	}
	return int(e.Height)
}

func (e icoEntry) resolution() int {
	return e.actualWidth() * e.actualHeight()
}

// ReadICO selects the largest frame (by width*height; ties broken by
// lowest index) of the ICO file at path, decodes it, and re-encodes it
// as a lossless PNG. image/png chooses the PNG color type from the
// decoded image, so the result is not always RGBA: a fully opaque frame
// is written without an alpha channel and a paletted frame stays paletted.
func ReadICO(path string) (PngImage, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return PngImage{}, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return PngImage{}, err
	}
	return decodeICO(data)
}

func decodeICO(data []byte) (PngImage, error) {
	if len(data) < 6 {
		return PngImage{}, fmt.Errorf("%w: too short for header", ErrInvalidIco)
	}

	header := icoHeader{
		Reserved: binary.LittleEndian.Uint16(data[0:2]),
		Type:     binary.LittleEndian.Uint16(data[2:4]),
		Count:    binary.LittleEndian.Uint16(data[4:6]),
	}
	if header.Reserved != 0 {
		return PngImage{}, fmt.Errorf("%w: reserved field must be 0, got %d", ErrInvalidIco, header.Reserved)
	}
	if header.Type != 1 {
		return PngImage{}, fmt.Errorf("%w: type must be 1, got %d", ErrInvalidIco, header.Type)
	}
	if header.Count == 0 {
		return PngImage{}, fmt.Errorf("%w: no images in file", ErrInvalidIco)
	}

	directorySize := 6 + int(header.Count)*16
	if len(data) < directorySize {
		return PngImage{}, fmt.Errorf("%w: too short for directory entries", ErrInvalidIco)
	}

	var best *icoEntry
	bestResolution := -1
	for i := 0; i < int(header.Count); i++ {
		off := 6 + i*16
		entry := parseICOEntry(data[off : off+16])
		if entry.Offset == 0 || entry.Size == 0 {
			continue
		}
		if int(entry.Offset)+int(entry.Size) > len(data) {
			continue
		}
		if res := entry.resolution(); best == nil || res > bestResolution {
			e := entry
			best = &e
			bestResolution = res
		}
	}
	if best == nil {
		return PngImage{}, fmt.Errorf("%w: no valid image entries found", ErrInvalidIco)
	}

	frameData := data[best.Offset : best.Offset+best.Size]
	img, err := decodeICOFrame(frameData)
	if err != nil {
		return PngImage{}, err
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return PngImage{}, fmt.Errorf("%w: re-encoding frame as PNG: %v", ErrInvalidIco, err)
	}

	return PngImage{Bytes: buf.Bytes(), Width: w, Height: h}, nil
}

func parseICOEntry(data []byte) icoEntry {
	return icoEntry{
		Width:      data[0],
		Height:     data[1],
		ColorCount: data[2],
		Reserved:   data[3],
		Planes:     binary.LittleEndian.Uint16(data[4:6]),
		BitCount:   binary.LittleEndian.Uint16(data[6:8]),
		Size:       binary.LittleEndian.Uint32(data[8:12]),
		Offset:     binary.LittleEndian.Uint32(data[12:16]),
	}
}

// decodeICOFrame decodes a single ICO frame, which is either a PNG
// stream or a headerless BMP/DIB stream (BITMAPINFOHEADER onward,
// without the 14-byte BITMAPFILEHEADER that standalone .bmp files carry).
func decodeICOFrame(data []byte) (image.Image, error) {
	if len(data) < 4 {
		return nil, fmt.Errorf("%w: frame data too short", ErrInvalidIco)
	}
	if isPNG(data) {
		img, err := png.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("%w: decoding PNG frame: %v", ErrInvalidIco, err)
		}
		return img, nil
	}
	return decodeICOFrameBMP(data)
}

// decodeICOFrameBMP reconstructs a standalone BMP stream (14-byte
// BITMAPFILEHEADER + the ICO's headerless DIB data) and hands it to
// gobmp, rather than hand-decoding BITMAPINFOHEADER pixel data.
func decodeICOFrameBMP(dib []byte) (image.Image, error) {
	if len(dib) < 40 {
		return nil, fmt.Errorf("%w: BMP frame too short for DIB header", ErrInvalidIco)
	}
	dibSize := binary.LittleEndian.Uint32(dib[0:4])
	if dibSize < 40 {
		return nil, fmt.Errorf("%w: unsupported DIB header size %d", ErrInvalidIco, dibSize)
	}

	// ICO stores BMP frames with the height doubled (XOR color data plus
	// an AND transparency mask). gobmp expects a standalone BMP, where
	// the AND mask has no place, so halve the height before reassembly;
	// 32-bit frames keep alpha in the pixel data and have no real mask.
	bitCount := binary.LittleEndian.Uint16(dib[14:16])
	height := int32(binary.LittleEndian.Uint32(dib[8:12]))
	if bitCount != 32 && height%2 == 0 {
		binary.LittleEndian.PutUint32(dib[8:12], uint32(height/2))
	}

	fileSize := 14 + len(dib)
	buf := make([]byte, fileSize)
	buf[0], buf[1] = 'B', 'M'
	binary.LittleEndian.PutUint32(buf[2:6], uint32(fileSize))
	copy(buf[14:], dib)

	// Pixel data offset = file header + DIB header + palette.
	pixelOffset := 14 + int(dibSize)
	if bitCount <= 8 {
		colors := 1 << bitCount
		if n := binary.LittleEndian.Uint32(dib[32:36]); n > 0 && int(n) < colors {
			colors = int(n)
		}
		pixelOffset += colors * 4
	}
	binary.LittleEndian.PutUint32(buf[10:14], uint32(pixelOffset))

	img, err := bmp.Decode(bytes.NewReader(buf))
	if err != nil {
		return nil, fmt.Errorf("%w: decoding BMP frame: %v", ErrInvalidIco, err)
	}
	return img, nil
}
