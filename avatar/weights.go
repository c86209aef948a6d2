package avatar

import (
	"fmt"

	"github.com/binzume/avatargen/geom"
)

type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

// BlendRange blends vertex weights between two bones over an axis-aligned
// interval. Vertices with axis value <= Edge0 bind fully to Lower, >= Edge1
// fully to Upper; inside the interval the Upper weight follows a smoothstep
// curve so deformation stays seam-free at both joint boundaries.
type BlendRange struct {
	Axis         Axis
	Edge0, Edge1 float32
	Lower, Upper int // bone indices
}

// DegenerateBlendRegionError reports a zero-width blend interval. It is a
// recoverable warning: the affected vertices fall back to the Lower bone
// and only visual smoothness is lost.
type DegenerateBlendRegionError struct {
	Edge float32
}

func (e *DegenerateBlendRegionError) Error() string {
	return fmt.Sprintf("degenerate blend region at %v", e.Edge)
}

func axisValue(v *geom.Vector3, axis Axis) float32 {
	switch axis {
	case AxisX:
		return v.X
	case AxisY:
		return v.Y
	default:
		return v.Z
	}
}

// AssignWeights fills g.Joints/g.Weights from the blend range. Exactly two
// of the four slots are active and their weights sum to 1. The returned
// error is at most a *DegenerateBlendRegionError, which callers should log
// and continue from.
func AssignWeights(g *Geometry, blend BlendRange) error {
	g.Joints = make([][4]uint16, len(g.Vertices))
	g.Weights = make([][4]float32, len(g.Vertices))
	degenerate := blend.Edge0 == blend.Edge1
	for i := range g.Vertices {
		var w float32
		if !degenerate {
			w = geom.SmoothStep(blend.Edge0, blend.Edge1, axisValue(&g.Vertices[i], blend.Axis))
		}
		g.Joints[i] = [4]uint16{uint16(blend.Lower), uint16(blend.Upper)}
		g.Weights[i] = [4]float32{1 - w, w}
	}
	if degenerate {
		return &DegenerateBlendRegionError{Edge: blend.Edge0}
	}
	return nil
}

// BindAll binds every vertex 100% to a single bone.
func BindAll(g *Geometry, bone int) {
	g.Joints = make([][4]uint16, len(g.Vertices))
	g.Weights = make([][4]float32, len(g.Vertices))
	for i := range g.Vertices {
		g.Joints[i] = [4]uint16{uint16(bone)}
		g.Weights[i] = [4]float32{1}
	}
}
