package polybin

import (
	"bytes"
	"encoding/binary"
)

// plainICOHeader is the 6-byte header + 16-byte entry emitted when the
// ICO directory is the first thing in the output file and the PNG
// immediately follows it at offset 22.
type plainICOHeader struct {
	Reserved uint16
	Type     uint16
	Count    uint16
	Width    uint8
	Height   uint8
	Colors   uint8
	_        uint8 // reserved
	Planes   uint16
	BitCount uint16
	Size     uint32
	Offset   uint32
}

func dimensionByte(px int) uint8 {
	if px >= 256 {
		return 0
	}
	return uint8(px & 0xFF)
}

// WritePlainICOHeader returns the 22-byte ICO header block used in
// LayoutMode ModeIcoFirst, where ImageOffset is fixed at 22 (the PNG
// follows the header immediately).
func WritePlainICOHeader(pngSize int64, width, height int) []byte {
	h := plainICOHeader{
		Reserved: 0,
		Type:     1,
		Count:    1,
		Width:    dimensionByte(width),
		Height:   dimensionByte(height),
		Colors:   0,
		Planes:   1,
		BitCount: 32,
		Size:     uint32(pngSize),
		Offset:   22,
	}
	var buf bytes.Buffer
	_ = binary.Write(&buf, binary.LittleEndian, h)
	return buf.Bytes()
}

// WriteOverlayICOHeader returns the 256-byte overlay block used in
// LayoutMode ModeOverlayMp4First. Its first 4 bytes are the big-endian
// u32 value 256 (a legal MP4 box size), and bytes 4..22 are an ICO
// directory entry whose ImageOffset is the PNG's absolute position in
// the final artifact. The remainder is zero-padded.
//
// Decoders reading this as MP4 see a box of size 256 at offset 4..8
// whose type bytes happen to be [0x01, 0x00, w, h] — matching no real
// box type, so they skip it as an opaque box. Decoders reading this as
// ICO start at byte 4, see count=1 and a well-formed directory entry,
// and ignore bytes 0..4 as Reserved/Type. Do not "clean up" bytes
// 0..4 beyond the size field: the dual reading depends on this exact
// layout.
func WriteOverlayICOHeader(pngSize int64, pngOffsetAbs int64, width, height int) []byte {
	block := make([]byte, 256)
	binary.BigEndian.PutUint32(block[0:4], 256)
	binary.LittleEndian.PutUint16(block[4:6], 1) // ICO count
	block[6] = dimensionByte(width)
	block[7] = dimensionByte(height)
	block[8] = 0                                    // ColorCount
	block[9] = 0                                    // Reserved
	binary.LittleEndian.PutUint16(block[10:12], 1)  // Planes
	binary.LittleEndian.PutUint16(block[12:14], 32) // BitCount
	binary.LittleEndian.PutUint32(block[14:18], uint32(pngSize))
	binary.LittleEndian.PutUint32(block[18:22], uint32(pngOffsetAbs))
	return block
}
