package polybin

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

const (
	eocdSignature       = 0x06054B50
	centralDirSignature = 0x02014B50
	zip64EocdSignature  = 0x06064B50
	zip64EocdLocatorSig = 0x07064B50
	zip64ExtraHeaderID  = 0x0001
	zip64OffsetSentinel = 0xFFFFFFFF
	maxEOCDScanWindow   = 66_000
)

// PatchZipForPrepend shifts every central-directory "relative offset of
// local header", the EOCD central-directory offset, the Zip64 EOCD
// offset, and the Zip64 EOCD locator offset by delta, so that zipBytes
// remains self-consistent once it is placed delta bytes into a larger
// file. Zip64 extra fields holding an offset sentinel are patched too.
// Passing delta==0 returns zipBytes unchanged (byte-for-byte).
func PatchZipForPrepend(zipBytes []byte, delta int64) ([]byte, error) {
	buf := append([]byte(nil), zipBytes...)

	eocdOff, err := findEOCD(buf)
	if err != nil {
		return nil, err
	}

	cdOffset := int64(binary.LittleEndian.Uint32(buf[eocdOff+16 : eocdOff+20]))

	locatorOff := eocdOff - 20
	hasZip64 := locatorOff >= 0 && binary.LittleEndian.Uint32(buf[locatorOff:locatorOff+4]) == zip64EocdLocatorSig

	var zip64EocdOff int64
	if hasZip64 {
		zip64EocdOff = int64(binary.LittleEndian.Uint64(buf[locatorOff+8 : locatorOff+16]))
		binary.LittleEndian.PutUint64(buf[locatorOff+8:locatorOff+16], uint64(zip64EocdOff+delta))

		// buf itself is not shifted, so the Zip64 EOCD still sits at its
		// original offset within it.
		if zip64EocdOff+56 <= int64(len(buf)) && zip64EocdOff >= 0 {
			old := binary.LittleEndian.Uint64(buf[zip64EocdOff+48 : zip64EocdOff+56])
			binary.LittleEndian.PutUint64(buf[zip64EocdOff+48:zip64EocdOff+56], uint64(int64(old)+delta))
		}
	}

	binary.LittleEndian.PutUint32(buf[eocdOff+16:eocdOff+20], uint32(cdOffset+delta))

	pos := cdOffset
	for pos+46 <= int64(eocdOff) {
		if binary.LittleEndian.Uint32(buf[pos:pos+4]) != centralDirSignature {
			break
		}

		nameLen := int64(binary.LittleEndian.Uint16(buf[pos+28 : pos+30]))
		extraLen := int64(binary.LittleEndian.Uint16(buf[pos+30 : pos+32]))
		commentLen := int64(binary.LittleEndian.Uint16(buf[pos+32 : pos+34]))
		relOff := uint32(binary.LittleEndian.Uint32(buf[pos+42 : pos+46]))

		if relOff != zip64OffsetSentinel {
			binary.LittleEndian.PutUint32(buf[pos+42:pos+46], uint32(int64(relOff)+delta))
		} else {
			patchZip64Extra(buf, pos+46+nameLen, extraLen, delta)
		}

		pos += 46 + nameLen + extraLen + commentLen
	}

	return buf, nil
}

// patchZip64Extra scans the Zip64 extended-information extra field
// region [extraOff, extraOff+extraLen) for the id==0x0001 extra and
// adds delta to every consecutive 8-byte slot within it (the standard
// Zip64 extra stores uncompressed size, compressed size, relative
// header offset, and disk-start number, in whatever subset the entry
// actually needs — all are shifted uniformly since only the offset
// field is meaningful to shift, but the spec forbids a partial extra,
// so all present 8-byte slots are walked). An id==0x0001 extra whose
// data is shorter than 8 bytes can't hold an offset slot, so scanning
// continues past it rather than stopping there. Stops at the first
// usable Zip64 extra found, since duplicates are forbidden by the ZIP
// spec.
func patchZip64Extra(buf []byte, extraOff, extraLen, delta int64) {
	end := extraOff + extraLen
	p := extraOff
	for p+4 <= end {
		headerID := binary.LittleEndian.Uint16(buf[p : p+2])
		dataLen := int64(binary.LittleEndian.Uint16(buf[p+2 : p+4]))
		dataStart := p + 4
		dataEnd := dataStart + dataLen
		if dataEnd > end {
			break
		}
		if headerID == zip64ExtraHeaderID && dataLen >= 8 {
			q := dataStart
			for q+8 <= dataEnd {
				old := binary.LittleEndian.Uint64(buf[q : q+8])
				binary.LittleEndian.PutUint64(buf[q:q+8], uint64(int64(old)+delta))
				q += 8
			}
			return
		}
		p = dataEnd
	}
}

// findEOCD searches backward in the last min(len(buf), 66000) bytes for
// the EOCD signature and returns the offset of its last occurrence.
func findEOCD(buf []byte) (int64, error) {
	window := len(buf)
	if window > maxEOCDScanWindow {
		window = maxEOCDScanWindow
	}
	tail := buf[len(buf)-window:]

	var sig [4]byte
	binary.LittleEndian.PutUint32(sig[:], eocdSignature)

	idx := bytes.LastIndex(tail, sig[:])
	if idx < 0 {
		return 0, fmt.Errorf("%w: EOCD signature not found", ErrInvalidZip)
	}
	return int64(len(buf) - window + idx), nil
}
