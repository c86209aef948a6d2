package converter

import (
	"bytes"
	"image"
	"image/png"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	_ "image/gif"
	_ "image/jpeg"

	"github.com/blezek/tga"
	_ "github.com/oov/psd"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
)

// BaseTextureMaterial is the material the -texture option retextures.
const BaseTextureMaterial = "body"

func loadImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil && strings.ToLower(filepath.Ext(path)) == ".tga" {
		// retry
		f.Seek(0, io.SeekStart)
		img, err = tga.Decode(f)
	}
	return img, err
}

func (m *avatarToGltf) scaleImage(img image.Image) image.Image {
	scale := m.TextureScale
	rect := img.Bounds()
	if limit := m.TextureResolutionLimit; limit > 0 {
		sz := int(float32(rect.Dx()) * scale)
		if sz > limit {
			scale *= float32(limit) / float32(sz)
		}
	}
	if scale == 1.0 {
		return img
	}
	dst := image.NewRGBA(image.Rect(0, 0, int(float32(rect.Dx())*scale), int(float32(rect.Dy())*scale)))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, rect, draw.Over, nil)
	return dst
}

func (m *avatarToGltf) addImage(name string, img image.Image) (*uint32, error) {
	w := new(bytes.Buffer)
	if err := png.Encode(w, img); err != nil {
		return nil, err
	}
	id, err := modeler.WriteImage(m.Document, name, "image/png", w)
	if err != nil {
		return nil, err
	}
	m.Buffers[0].ByteLength = uint32(len(m.Buffers[0].Data)) // avoid AddImage bug
	m.Document.Textures = append(m.Document.Textures,
		&gltf.Texture{Sampler: gltf.Index(0), Source: gltf.Index(id)})
	return gltf.Index(uint32(len(m.Document.Textures)) - 1), nil
}

func (m *avatarToGltf) addAtlasTexture(name string, img image.Image) (*uint32, error) {
	return m.addImage(name+"_atlas", img)
}

// applyBaseTexture replaces the body material's flat color with a
// user-supplied texture (png/jpeg/gif/bmp/tga/psd).
func (m *avatarToGltf) applyBaseTexture(path string) error {
	var target *gltf.Material
	for _, mat := range m.Document.Materials {
		if mat.Name == BaseTextureMaterial {
			target = mat
			break
		}
	}
	if target == nil {
		log.Println("base texture: material not found:", BaseTextureMaterial)
		return nil
	}
	img, err := loadImage(path)
	if err != nil {
		return err
	}
	tex, err := m.addImage(filepath.Base(path), m.scaleImage(img))
	if err != nil {
		return err
	}
	target.PBRMetallicRoughness.BaseColorFactor = &[4]float32{1, 1, 1, 1}
	target.PBRMetallicRoughness.BaseColorTexture = &gltf.TextureInfo{Index: *tex}
	return nil
}
