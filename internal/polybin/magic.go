package polybin

import "bytes"

// Magic byte sequences this package's formats are identified by.
// Adapted from a general image-format detector down to the four
// signatures that matter for ICO/MP4/ZIP polyglots: the Non-goals in
// this module's spec bound supported formats to those three, so there
// is no JPEG/WebP/BMP top-level detection to carry over.
var (
	magicPNG  = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A} // PNG signature
	magicICO  = []byte{0x00, 0x00, 0x01, 0x00}                         // ICO reserved(0)+type(1)
	magicFtyp = []byte("ftyp")                                         // MP4 file-type box fourCC
	magicEocd = []byte("PK\x05\x06")                                   // ZIP End-of-Central-Directory signature
)

// isPNG reports whether data begins with the PNG signature.
func isPNG(data []byte) bool {
	return bytes.HasPrefix(data, magicPNG)
}

// hasICOMagic reports whether data begins with the 4-byte ICO reserved+type
// word pair. Both the plain 22-byte header and the 256-byte overlay block
// begin with these bytes: in the overlay they are also the big-endian box
// size 256. The overlay's count field at offset 4 is checked by
// hasOverlayICOMagic.
func hasICOMagic(data []byte) bool {
	return bytes.HasPrefix(data, magicICO)
}

// hasOverlayICOMagic reports whether data is at least 8 bytes long and
// its bytes [4:6] hold the little-endian ICO count 1 where the 256-byte
// overlay block places it. The width/height bytes are not checked.
func hasOverlayICOMagic(data []byte) bool {
	return len(data) >= 8 && bytes.Equal(data[4:6], []byte{0x01, 0x00})
}

// containsFtyp reports whether an "ftyp" fourCC appears anywhere in data.
func containsFtyp(data []byte) bool {
	return bytes.Contains(data, magicFtyp)
}

// containsEOCD reports whether a ZIP End-of-Central-Directory signature
// appears anywhere in data.
func containsEOCD(data []byte) bool {
	return bytes.Contains(data, magicEocd)
}
