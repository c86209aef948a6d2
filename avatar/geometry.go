package avatar

import (
	"github.com/binzume/avatargen/geom"
)

// Geometry is a triangle mesh in part-local coordinates. Joints/Weights are
// empty until AssignWeights or BindAll runs. Groups partition Indices into
// contiguous ranges, one sub-material each; an ungrouped geometry is drawn
// with the part's first material.
type Geometry struct {
	Vertices []geom.Vector3
	Normals  []geom.Vector3
	UVs      []geom.Vector2
	Joints   [][4]uint16
	Weights  [][4]float32
	Indices  []uint32
	Groups   []IndexGroup
}

// IndexGroup is a contiguous index range with a single sub-material.
// Material indexes into the owning part's material list.
type IndexGroup struct {
	Name     string
	Start    int
	Count    int
	Material int
}

func (g *Geometry) TriangleCount() int {
	return len(g.Indices) / 3
}

// NewBox builds an axis-aligned box of the given size centered at center.
// segments subdivides each axis so that blend regions crossing the box get
// interior vertex rings. Each face maps its own [0,1] planar UV square; the
// +Z face is the one the head texture (and the face region predicates) use.
func NewBox(size, center geom.Vector3, segments [3]int) *Geometry {
	g := &Geometry{}
	sx, sy, sz := segments[0], segments[1], segments[2]
	if sx < 1 {
		sx = 1
	}
	if sy < 1 {
		sy = 1
	}
	if sz < 1 {
		sz = 1
	}
	w2, h2, d2 := size.X/2, size.Y/2, size.Z/2

	// u-axis, v-axis, w-axis(normal), udir, vdir, width, height, depth
	g.buildPlane(2, 1, 0, -1, -1, size.Z, size.Y, w2, sz, sy, center)  // +X
	g.buildPlane(2, 1, 0, 1, -1, size.Z, size.Y, -w2, sz, sy, center) // -X
	g.buildPlane(0, 2, 1, 1, 1, size.X, size.Z, h2, sx, sz, center)   // +Y
	g.buildPlane(0, 2, 1, 1, -1, size.X, size.Z, -h2, sx, sz, center) // -Y
	g.buildPlane(0, 1, 2, 1, -1, size.X, size.Y, d2, sx, sy, center)  // +Z
	g.buildPlane(0, 1, 2, -1, -1, size.X, size.Y, -d2, sx, sy, center) // -Z
	return g
}

func setAxis(v *geom.Vector3, axis int, value float32) {
	switch axis {
	case 0:
		v.X = value
	case 1:
		v.Y = value
	default:
		v.Z = value
	}
}

func (g *Geometry) buildPlane(u, v, w int, udir, vdir float32, width, height, depth float32, gridX, gridY int, center geom.Vector3) {
	segW := width / float32(gridX)
	segH := height / float32(gridY)
	base := len(g.Vertices)

	var normal geom.Vector3
	if depth > 0 {
		setAxis(&normal, w, 1)
	} else {
		setAxis(&normal, w, -1)
	}

	for iy := 0; iy <= gridY; iy++ {
		y := float32(iy)*segH - height/2
		for ix := 0; ix <= gridX; ix++ {
			x := float32(ix)*segW - width/2
			var p geom.Vector3
			setAxis(&p, u, x*udir)
			setAxis(&p, v, y*vdir)
			setAxis(&p, w, depth)
			g.Vertices = append(g.Vertices, *p.Add(&center))
			g.Normals = append(g.Normals, normal)
			g.UVs = append(g.UVs, geom.Vector2{
				X: float32(ix) / float32(gridX),
				Y: 1 - float32(iy)/float32(gridY),
			})
		}
	}
	for iy := 0; iy < gridY; iy++ {
		for ix := 0; ix < gridX; ix++ {
			a := uint32(base + ix + (gridX+1)*iy)
			b := uint32(base + ix + (gridX+1)*(iy+1))
			c := uint32(base + ix + 1 + (gridX+1)*(iy+1))
			d := uint32(base + ix + 1 + (gridX+1)*iy)
			g.Indices = append(g.Indices, a, b, d, b, c, d)
		}
	}
}
