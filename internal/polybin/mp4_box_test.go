package polybin

import (
	"encoding/binary"
	"testing"
)

func makeBox(typ string, payload []byte) []byte {
	box := make([]byte, 8+len(payload))
	binary.BigEndian.PutUint32(box[0:4], uint32(8+len(payload)))
	copy(box[4:8], typ)
	copy(box[8:], payload)
	return box
}

func TestReadBoxBasic(t *testing.T) {
	buf := makeBox("ftyp", []byte("isom"))
	box, ok := readBox(buf, 0)
	if !ok {
		t.Fatalf("readBox() ok = false, want true")
	}
	if box.TotalSize != 12 || box.HeaderSize != 8 || box.TypeString() != "ftyp" {
		t.Errorf("readBox() = %+v, unexpected", box)
	}
}

func TestReadBoxExtendedSize(t *testing.T) {
	buf := make([]byte, 24)
	binary.BigEndian.PutUint32(buf[0:4], 1)
	copy(buf[4:8], "moov")
	binary.BigEndian.PutUint64(buf[8:16], 24)

	box, ok := readBox(buf, 0)
	if !ok {
		t.Fatalf("readBox() ok = false, want true")
	}
	if box.TotalSize != 24 || box.HeaderSize != 16 {
		t.Errorf("readBox() = %+v, want TotalSize=24 HeaderSize=16", box)
	}
}

func TestReadBoxExtendsToEOF(t *testing.T) {
	buf := make([]byte, 40)
	binary.BigEndian.PutUint32(buf[0:4], 0)
	copy(buf[4:8], "mdat")

	box, ok := readBox(buf, 0)
	if !ok {
		t.Fatalf("readBox() ok = false, want true")
	}
	if box.TotalSize != 40 {
		t.Errorf("readBox().TotalSize = %d, want 40", box.TotalSize)
	}
}

func TestReadBoxTruncatedHeader(t *testing.T) {
	if _, ok := readBox([]byte{0, 0, 0, 8, 'f', 't'}, 0); ok {
		t.Errorf("readBox(truncated) ok = true, want false")
	}
}

func TestReadBoxOversizedClaim(t *testing.T) {
	buf := make([]byte, 10)
	binary.BigEndian.PutUint32(buf[0:4], 1000)
	copy(buf[4:8], "ftyp")
	if _, ok := readBox(buf, 0); ok {
		t.Errorf("readBox(size beyond buffer) ok = true, want false")
	}
}

func TestIterateChildren(t *testing.T) {
	child1 := makeBox("trak", []byte("a"))
	child2 := makeBox("trak", []byte("bb"))
	payload := append(append([]byte{}, child1...), child2...)
	parent := makeBox("moov", payload)

	children := iterateChildren(parent, 0)
	if len(children) != 2 {
		t.Fatalf("iterateChildren() returned %d children, want 2", len(children))
	}
	if children[0].StartOffset != 8 || children[1].StartOffset != 8+int64(len(child1)) {
		t.Errorf("iterateChildren() offsets = %+v", children)
	}
}

func TestIterateChildrenStopsOnMalformedChild(t *testing.T) {
	child1 := makeBox("trak", nil)
	junk := []byte{0, 0, 0, 1, 'x'} // malformed trailing bytes
	payload := append(append([]byte{}, child1...), junk...)
	parent := makeBox("moov", payload)

	children := iterateChildren(parent, 0)
	if len(children) != 1 {
		t.Fatalf("iterateChildren() returned %d children, want 1", len(children))
	}
}

func TestLocateTop(t *testing.T) {
	ftyp := makeBox("ftyp", []byte("isom"))
	moov := makeBox("moov", []byte("data"))
	buf := append(append([]byte{}, ftyp...), moov...)

	box, ok := locateTop(buf, "moov")
	if !ok {
		t.Fatalf("locateTop(moov) ok = false, want true")
	}
	if box.StartOffset != int64(len(ftyp)) {
		t.Errorf("locateTop(moov).StartOffset = %d, want %d", box.StartOffset, len(ftyp))
	}

	if _, ok := locateTop(buf, "free"); ok {
		t.Errorf("locateTop(free) ok = true, want false")
	}
}
