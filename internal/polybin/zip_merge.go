package polybin

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"
)

// MergeZips decompresses entries from each input archive in order and
// re-emits them into a single fresh DEFLATE-compressed ZIP, with later
// inputs winning on name collisions. A name's position in the merged
// archive is fixed by its first occurrence; only its payload can be
// overwritten by a later input, mirroring insertion-order-preserving
// map semantics.
func MergeZips(paths []string) ([]byte, error) {
	var order []string
	content := make(map[string][]byte)

	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, fmt.Errorf("%w: %s", ErrNotFound, p)
			}
			return nil, err
		}

		r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidZip, p, err)
		}

		for _, f := range r.File {
			rc, err := f.Open()
			if err != nil {
				return nil, fmt.Errorf("%w: reading %s from %s: %v", ErrInvalidZip, f.Name, p, err)
			}
			payload, err := io.ReadAll(rc)
			rc.Close()
			if err != nil {
				return nil, fmt.Errorf("%w: reading %s from %s: %v", ErrInvalidZip, f.Name, p, err)
			}

			if _, seen := content[f.Name]; !seen {
				order = append(order, f.Name)
			}
			content[f.Name] = payload
		}
	}

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for _, name := range order {
		fw, err := w.CreateHeader(&zip.FileHeader{Name: name, Method: zip.Deflate})
		if err != nil {
			return nil, err
		}
		if _, err := fw.Write(content[name]); err != nil {
			return nil, err
		}
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
