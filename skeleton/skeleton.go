package skeleton

import (
	"fmt"

	"github.com/binzume/avatargen/geom"
)

// Skeleton is a build-once arena of bones. A bone's index is its insertion
// order and stays valid for the lifetime of the skeleton; there is no way
// to remove a bone. Skin weights reference bones by this index.
type Skeleton struct {
	bones  []*Bone
	byName map[string]int
}

type Bone struct {
	Name     string
	Offset   geom.Vector3 // relative to parent
	Parent   int          // -1 for a root bone
	Children []int
}

type DuplicateBoneError struct {
	Name string
}

func (e *DuplicateBoneError) Error() string {
	return "duplicate bone: " + e.Name
}

func NewSkeleton() *Skeleton {
	return &Skeleton{byName: map[string]int{}}
}

// AddBone appends a bone and returns its index. parent must be the index of
// a bone already added, or -1 for a root bone.
func (s *Skeleton) AddBone(name string, offset geom.Vector3, parent int) (int, error) {
	if _, exists := s.byName[name]; exists {
		return -1, &DuplicateBoneError{Name: name}
	}
	if parent < -1 || parent >= len(s.bones) {
		return -1, fmt.Errorf("bone %q: invalid parent index %d", name, parent)
	}
	id := len(s.bones)
	s.bones = append(s.bones, &Bone{Name: name, Offset: offset, Parent: parent})
	s.byName[name] = id
	if parent >= 0 {
		s.bones[parent].Children = append(s.bones[parent].Children, id)
	}
	return id, nil
}

func (s *Skeleton) Count() int {
	return len(s.bones)
}

func (s *Skeleton) Bone(index int) *Bone {
	return s.bones[index]
}

// Bones returns all bones in index order.
func (s *Skeleton) Bones() []*Bone {
	return s.bones
}

func (s *Skeleton) Index(name string) (int, bool) {
	id, ok := s.byName[name]
	return id, ok
}

// Roots returns the indices of bones without a parent. A finished humanoid
// skeleton has exactly one; the builder sequence enforces that, not this
// structure.
func (s *Skeleton) Roots() []int {
	var roots []int
	for i, b := range s.bones {
		if b.Parent < 0 {
			roots = append(roots, i)
		}
	}
	return roots
}

// WorldPosition accumulates local offsets up to the root.
func (s *Skeleton) WorldPosition(index int) geom.Vector3 {
	pos := geom.Vector3{}
	for i := index; i >= 0; i = s.bones[i].Parent {
		pos = *pos.Add(&s.bones[i].Offset)
	}
	return pos
}
