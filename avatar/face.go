package avatar

import (
	"github.com/binzume/avatargen/geom"
)

// Region classifies vertices by a spatial/UV predicate. Regions are
// evaluated in slice order; a vertex belongs to the first region that
// matches it, or to none.
type Region struct {
	Name     string
	Material int
	Match    func(pos *geom.Vector3, uv *geom.Vector2) bool
}

// SegmentRegions splits g into one triangle group per region plus a default
// group, and rewrites g.Indices so each group is contiguous (one material
// per contiguous range). A triangle lands in a region when at least 2 of
// its 3 vertices carry that region's label; when two regions both reach a
// majority the earlier region in the slice wins. The tie-break order is a
// fixed contract: reordering the regions changes the visual output.
func SegmentRegions(g *Geometry, regions []*Region, defaultName string, defaultMaterial int) {
	labels := make([]int, len(g.Vertices))
	for i := range g.Vertices {
		labels[i] = -1
		for ri, r := range regions {
			if r.Match(&g.Vertices[i], &g.UVs[i]) {
				labels[i] = ri
				break
			}
		}
	}

	buckets := make([][]uint32, len(regions)+1)
	def := len(regions)
	for t := 0; t+2 < len(g.Indices); t += 3 {
		counts := make([]int, len(regions))
		for k := 0; k < 3; k++ {
			if l := labels[g.Indices[t+k]]; l >= 0 {
				counts[l]++
			}
		}
		assigned := def
		for ri := range regions {
			if counts[ri] >= 2 {
				assigned = ri
				break
			}
		}
		buckets[assigned] = append(buckets[assigned], g.Indices[t], g.Indices[t+1], g.Indices[t+2])
	}

	indices := make([]uint32, 0, len(g.Indices))
	groups := make([]IndexGroup, 0, len(regions)+1)
	for ri, r := range regions {
		groups = append(groups, IndexGroup{Name: r.Name, Start: len(indices), Count: len(buckets[ri]), Material: r.Material})
		indices = append(indices, buckets[ri]...)
	}
	groups = append(groups, IndexGroup{Name: defaultName, Start: len(indices), Count: len(buckets[def]), Material: defaultMaterial})
	indices = append(indices, buckets[def]...)
	g.Indices = indices
	g.Groups = groups
}

// UVRect is a region predicate over the [0,1] UV square of front-facing
// vertices. minZ keeps back-face vertices (which reuse the same planar UV
// range) out of the region.
func UVRect(u0, v0, u1, v1, minZ float32) func(pos *geom.Vector3, uv *geom.Vector2) bool {
	return func(pos *geom.Vector3, uv *geom.Vector2) bool {
		return pos.Z >= minZ && uv.X >= u0 && uv.X <= u1 && uv.Y >= v0 && uv.Y <= v1
	}
}
