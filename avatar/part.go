package avatar

import (
	"fmt"

	"github.com/binzume/avatargen/geom"
	"github.com/binzume/avatargen/skeleton"
)

// Part is a node of the avatar's geometry tree. The part name becomes the
// exported node name and is the key the extension writer joins on later, so
// names must be unique across the whole tree. A part without geometry is a
// plain grouping node.
type Part struct {
	Name      string
	Offset    geom.Vector3
	Geometry  *Geometry
	Materials []*Material
	Children  []*Part
}

// Material is a sub-material slot. Index into Part.Materials is the
// sub-material group id used by IndexGroup.Material. AtlasRole selects the
// expression atlas strip ("mouth", "eye") attached at export time; parts
// with an empty role get a plain colored material.
type Material struct {
	Name      string
	Color     [4]float32
	AtlasRole string
}

func NewPart(name string) *Part {
	return &Part{Name: name}
}

func (p *Part) AddChild(c *Part) *Part {
	p.Children = append(p.Children, c)
	return c
}

func (p *Part) Walk(fn func(*Part)) {
	fn(p)
	for _, c := range p.Children {
		c.Walk(fn)
	}
}

type DuplicatePartError struct {
	Name string
}

func (e *DuplicatePartError) Error() string {
	return "duplicate part: " + e.Name
}

type BoneIndexError struct {
	Part  string
	Index int
}

func (e *BoneIndexError) Error() string {
	return fmt.Sprintf("part %q references bone index %d out of range", e.Part, e.Index)
}

// Validate checks the tree invariants before it is handed to the composer:
// part names are unique and every skin joint index exists in the skeleton.
// Violations are construction errors; no partial tree is usable.
func (p *Part) Validate(s *skeleton.Skeleton) error {
	seen := map[string]bool{}
	var check func(part *Part) error
	check = func(part *Part) error {
		if seen[part.Name] {
			return &DuplicatePartError{Name: part.Name}
		}
		seen[part.Name] = true
		if g := part.Geometry; g != nil {
			for vi, joints := range g.Joints {
				for slot, j := range joints {
					if g.Weights[vi][slot] == 0 {
						continue
					}
					if int(j) >= s.Count() {
						return &BoneIndexError{Part: part.Name, Index: int(j)}
					}
				}
			}
		}
		for _, c := range part.Children {
			if err := check(c); err != nil {
				return err
			}
		}
		return nil
	}
	return check(p)
}
