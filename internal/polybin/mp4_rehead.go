package polybin

import (
	"encoding/binary"
	"fmt"
)

// buildFtyp32 returns the 32-byte synthesized ftyp box spliced in right
// after the overlay block: major brand isom, minor version 0x00000200,
// compatible brands isom/iso2/avc1/mp41. This brand set is chosen to
// maximize player compatibility and re-establish a valid MP4 signature
// immediately after the overlay.
func buildFtyp32() []byte {
	b := make([]byte, 32)
	binary.BigEndian.PutUint32(b[0:4], 32)
	copy(b[4:8], "ftyp")
	copy(b[8:12], "isom")
	binary.BigEndian.PutUint32(b[12:16], 0x00000200)
	copy(b[16:20], "isom")
	copy(b[20:24], "iso2")
	copy(b[24:28], "avc1")
	copy(b[28:32], "mp41")
	return b
}

// ReheadMP4 replaces mp4Bytes' first top-level box with
// [256-byte overlay][32-byte ftyp], then shifts every stco/co64 chunk
// offset in moov by the resulting delta so every chunk still points at
// the same media byte. pngOffsetAbs is the PNG's absolute byte offset
// in the final artifact, embedded in the overlay's ICO directory entry.
func ReheadMP4(mp4Bytes []byte, pngSize int64, pngWidth, pngHeight int, pngOffsetAbs int64) ([]byte, error) {
	first, ok := readBox(mp4Bytes, 0)
	if !ok {
		return nil, fmt.Errorf("%w: no top-level box at offset 0", ErrInvalidMp4)
	}
	if first.TotalSize < 8 {
		return nil, fmt.Errorf("%w: first box size %d is smaller than a header", ErrInvalidMp4, first.TotalSize)
	}

	origFirstSize := first.TotalSize
	remainder := mp4Bytes[origFirstSize:]

	overlay := WriteOverlayICOHeader(pngSize, pngOffsetAbs, pngWidth, pngHeight)
	ftyp := buildFtyp32()

	out := make([]byte, 0, len(overlay)+len(ftyp)+len(remainder))
	out = append(out, overlay...)
	out = append(out, ftyp...)
	out = append(out, remainder...)

	delta := int64(len(overlay)+len(ftyp)) - origFirstSize

	if moov, ok := locateTop(out, "moov"); ok {
		adjustChunkOffsets(out, moov.StartOffset, delta)
	}

	return out, nil
}

// adjustChunkOffsets recursively descends container boxes starting at
// containerOff and adds delta to every stco/co64 chunk-offset table
// entry it finds. Malformed tables are tolerated: the per-table loop
// stops at the first entry that would read out of bounds rather than
// failing the whole operation.
func adjustChunkOffsets(buf []byte, containerOff int64, delta int64) {
	for _, child := range iterateChildren(buf, containerOff) {
		switch child.TypeString() {
		case "moov", "trak", "mdia", "minf", "stbl":
			adjustChunkOffsets(buf, child.StartOffset, delta)
		case "stco":
			adjustStco(buf, child.StartOffset+child.HeaderSize, delta)
		case "co64":
			adjustCo64(buf, child.StartOffset+child.HeaderSize, delta)
		}
	}
}

// adjustStco adds delta to each 32-bit entry of an stco box's chunk
// offset table. base points at the box payload, i.e. right after the
// 8-byte box header: 4 bytes of version+flags, then a 4-byte entry
// count, then count 32-bit big-endian offsets.
func adjustStco(buf []byte, base int64, delta int64) {
	n := int64(len(buf))
	if base+8 > n {
		return
	}
	count := int64(binary.BigEndian.Uint32(buf[base+4 : base+8]))
	table := base + 8
	for i := int64(0); i < count; i++ {
		entryOff := table + i*4
		if entryOff+4 > n {
			break
		}
		old := binary.BigEndian.Uint32(buf[entryOff : entryOff+4])
		binary.BigEndian.PutUint32(buf[entryOff:entryOff+4], uint32(int64(old)+delta))
	}
}

// adjustCo64 is the 64-bit-offset analogue of adjustStco.
func adjustCo64(buf []byte, base int64, delta int64) {
	n := int64(len(buf))
	if base+8 > n {
		return
	}
	count := int64(binary.BigEndian.Uint32(buf[base+4 : base+8]))
	table := base + 8
	for i := int64(0); i < count; i++ {
		entryOff := table + i*8
		if entryOff+8 > n {
			break
		}
		old := binary.BigEndian.Uint64(buf[entryOff : entryOff+8])
		binary.BigEndian.PutUint64(buf[entryOff:entryOff+8], uint64(int64(old)+delta))
	}
}
