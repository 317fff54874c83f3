package polybin

import "encoding/binary"

// containerTypes are the only ISO-BMFF boxes whose descendants may
// carry stco/co64 sample tables, per spec.
var containerTypes = map[string]bool{
	"moov": true,
	"trak": true,
	"mdia": true,
	"minf": true,
	"stbl": true,
}

// readBox parses the box header at off and returns it, or ok=false if
// no well-formed box starts there.
func readBox(buf []byte, off int64) (box Mp4Box, ok bool) {
	n := int64(len(buf))
	if off+8 > n {
		return Mp4Box{}, false
	}

	size := int64(binary.BigEndian.Uint32(buf[off : off+4]))
	var typ [4]byte
	copy(typ[:], buf[off+4:off+8])
	hdr := int64(8)

	if size == 1 {
		if off+16 > n {
			return Mp4Box{}, false
		}
		size = int64(binary.BigEndian.Uint64(buf[off+8 : off+16]))
		hdr = 16
	} else if size == 0 {
		size = n - off
	}

	if hdr > size || off+size > n {
		return Mp4Box{}, false
	}

	return Mp4Box{StartOffset: off, TotalSize: size, Type: typ, HeaderSize: hdr}, true
}

// iterateChildren yields the direct children of the container box that
// starts at parentOff, in order, stopping at the first malformed child
// or once fewer than 8 bytes remain, without raising an error: this
// matches mainstream MP4 parsers' tolerance for trailing junk.
func iterateChildren(buf []byte, parentOff int64) []Mp4Box {
	parent, ok := readBox(buf, parentOff)
	if !ok {
		return nil
	}

	var children []Mp4Box
	pos := parentOff + parent.HeaderSize
	end := parentOff + parent.TotalSize
	for pos+8 <= end {
		child, ok := readBox(buf, pos)
		if !ok || pos+child.TotalSize > end {
			break
		}
		children = append(children, child)
		pos += child.TotalSize
	}
	return children
}

// locateTop walks top-level boxes from offset 0 and returns the first
// one whose type matches fourcc.
func locateTop(buf []byte, fourcc string) (Mp4Box, bool) {
	var pos int64
	for {
		box, ok := readBox(buf, pos)
		if !ok {
			return Mp4Box{}, false
		}
		if box.TypeString() == fourcc {
			return box, true
		}
		pos += box.TotalSize
	}
}
