// Package texture lays out the expression texture atlas: one vertical strip
// per face sub-material, stacking one slice per texture kind. Consumers
// switch expressions at runtime by offsetting the material's UV transform
// to another slice, without re-uploading textures.
package texture

import (
	"image"
	"image/color"
	"image/draw"
)

// Kind enumerates the atlas slices. The order is declared once here and is
// part of the export contract: a kind's slot index selects its slice.
type Kind int

const (
	KindNeutral Kind = iota
	KindAa
	KindIh
	KindOu
	KindEe
	KindOh
	KindBlink
	numKinds
)

// Slots is the total number of atlas slices.
const Slots = int(numKinds)

var kindNames = [...]string{"neutral", "aa", "ih", "ou", "ee", "oh", "blink"}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// Offset returns the normalized UV offset that selects the kind's slice.
// Slice 0 starts at v=0; each slice occupies 1/Slots of the strip height.
func Offset(k Kind) [2]float32 {
	return [2]float32{0, float32(k) / float32(Slots)}
}

// SliceScale is the UV scale mapping the base mesh UVs onto one slice.
func SliceScale() [2]float32 {
	return [2]float32{1, 1.0 / float32(Slots)}
}

type Atlas struct {
	Size int // strip width in pixels; height is Size*Slots/4 rounded per slice
}

func NewAtlas(size int) *Atlas {
	if size <= 0 {
		size = 256
	}
	return &Atlas{Size: size}
}

// Image renders the strip for one sub-material. Glyph drawing lives
// outside this package; slices here are flat base fills with an accent
// block whose height varies per kind so slices are tellable apart in a
// viewer.
func (a *Atlas) Image(base, accent color.RGBA) *image.RGBA {
	sliceH := a.Size / 4
	img := image.NewRGBA(image.Rect(0, 0, a.Size, sliceH*Slots))
	for k := 0; k < Slots; k++ {
		slice := image.Rect(0, k*sliceH, a.Size, (k+1)*sliceH)
		draw.Draw(img, slice, &image.Uniform{base}, image.Point{}, draw.Src)

		// accent block: taller for open-mouth kinds, a thin line for blink
		h := sliceH / 3
		switch Kind(k) {
		case KindNeutral:
			h = sliceH / 6
		case KindAa, KindOh:
			h = sliceH / 2
		case KindBlink:
			h = sliceH / 10
		}
		if h < 1 {
			h = 1
		}
		cx, cy := a.Size/2, slice.Min.Y+sliceH/2
		w := a.Size / 3
		accentRect := image.Rect(cx-w/2, cy-h/2, cx+w/2, cy+h/2)
		draw.Draw(img, accentRect, &image.Uniform{accent}, image.Point{}, draw.Src)
	}
	return img
}
