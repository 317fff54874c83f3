package polybin

import (
	"archive/zip"
	"bytes"
	"encoding/binary"
	"io"
	"testing"
)

func buildZipBytes(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for name, contents := range files {
		fw, err := w.Create(name)
		if err != nil {
			t.Fatalf("zip.Create() error = %v", err)
		}
		if _, err := fw.Write([]byte(contents)); err != nil {
			t.Fatalf("zip write error = %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("zip.Close() error = %v", err)
	}
	return buf.Bytes()
}

func TestPatchZipForPrependReadableAfterPrefix(t *testing.T) {
	original := buildZipBytes(t, map[string]string{
		"one.txt": "contents of one",
		"two.txt": "contents of two, which is longer",
	})

	const delta = 4096
	patched, err := PatchZipForPrepend(original, delta)
	if err != nil {
		t.Fatalf("PatchZipForPrepend() error = %v", err)
	}
	if len(patched) != len(original) {
		t.Fatalf("PatchZipForPrepend() changed length from %d to %d", len(original), len(patched))
	}

	prefixed := append(make([]byte, delta), patched...)

	r, err := zip.NewReader(bytes.NewReader(prefixed), int64(len(prefixed)))
	if err != nil {
		t.Fatalf("zip.NewReader(prefixed) error = %v", err)
	}
	if len(r.File) != 2 {
		t.Fatalf("prefixed archive has %d entries, want 2", len(r.File))
	}
	for _, f := range r.File {
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("f.Open(%s) error = %v", f.Name, err)
		}
		got, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			t.Fatalf("reading %s error = %v", f.Name, err)
		}
		if string(got) == "" {
			t.Errorf("%s decoded to empty contents", f.Name)
		}
	}
}

func TestPatchZipForPrependZeroDeltaUnchanged(t *testing.T) {
	original := buildZipBytes(t, map[string]string{"a.txt": "x"})
	patched, err := PatchZipForPrepend(original, 0)
	if err != nil {
		t.Fatalf("PatchZipForPrepend() error = %v", err)
	}
	if !bytes.Equal(original, patched) {
		t.Errorf("PatchZipForPrepend(delta=0) changed the archive bytes")
	}
}

func TestPatchZipForPrependRejectsNonZip(t *testing.T) {
	if _, err := PatchZipForPrepend([]byte("not a zip file at all"), 10); err == nil {
		t.Errorf("PatchZipForPrepend(garbage) error = nil, want ErrInvalidZip")
	}
}

func TestPatchZip64ExtraShiftsOffsetSlot(t *testing.T) {
	// A minimal Zip64 extra field: header id 0x0001, 8 bytes of data
	// holding a single relative-header-offset slot.
	buf := make([]byte, 12)
	binary.LittleEndian.PutUint16(buf[0:2], zip64ExtraHeaderID)
	binary.LittleEndian.PutUint16(buf[2:4], 8)
	binary.LittleEndian.PutUint64(buf[4:12], 1000)

	patchZip64Extra(buf, 0, 12, 500)

	got := binary.LittleEndian.Uint64(buf[4:12])
	if got != 1500 {
		t.Errorf("patched Zip64 extra offset = %d, want 1500", got)
	}
}

func TestPatchZip64ExtraSkipsUndersizedDataBeforeRealSlot(t *testing.T) {
	// A malformed id==0x0001 extra with only 4 bytes of data (too short
	// to hold an offset slot) followed by a second, well-formed
	// id==0x0001 extra. The short one must be skipped, not mistaken
	// for the real one.
	buf := make([]byte, 4+4+4+12)
	binary.LittleEndian.PutUint16(buf[0:2], zip64ExtraHeaderID)
	binary.LittleEndian.PutUint16(buf[2:4], 4)
	binary.LittleEndian.PutUint32(buf[4:8], 0xAAAAAAAA)

	binary.LittleEndian.PutUint16(buf[8:10], zip64ExtraHeaderID)
	binary.LittleEndian.PutUint16(buf[10:12], 8)
	binary.LittleEndian.PutUint64(buf[12:20], 1000)

	patchZip64Extra(buf, 0, int64(len(buf)), 500)

	if binary.LittleEndian.Uint32(buf[4:8]) != 0xAAAAAAAA {
		t.Errorf("undersized extra's data was modified, want left untouched")
	}
	if got := binary.LittleEndian.Uint64(buf[12:20]); got != 1500 {
		t.Errorf("real Zip64 offset slot = %d, want 1500", got)
	}
}

func TestFindEOCD(t *testing.T) {
	data := buildZipBytes(t, map[string]string{"a.txt": "x"})
	off, err := findEOCD(data)
	if err != nil {
		t.Fatalf("findEOCD() error = %v", err)
	}
	sig := binary.LittleEndian.Uint32(data[off : off+4])
	if sig != eocdSignature {
		t.Errorf("findEOCD() located offset %d, signature = %#x, want %#x", off, sig, eocdSignature)
	}
}
