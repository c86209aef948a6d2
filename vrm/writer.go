package vrm

import (
	"bytes"
	"io"
	"os"

	"github.com/qmuntal/gltf"
)

// Write encodes doc as a binary glTF.
func Write(doc *gltf.Document, w io.Writer) error {
	e := gltf.NewEncoder(w)
	e.AsBinary = true
	return e.Encode(doc)
}

// Save writes the document to path. Encoding happens into memory first so a
// failed export leaves no partial file behind.
func Save(doc *gltf.Document, path string) error {
	var buf bytes.Buffer
	if err := Write(doc, &buf); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0644)
}
