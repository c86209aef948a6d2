package converter

import (
	"image/color"

	"github.com/binzume/avatargen/avatar"
	"github.com/binzume/avatargen/skeleton"
	"github.com/binzume/avatargen/texture"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

const textureTransformExt = "KHR_texture_transform"
const unlitMaterialExt = "KHR_materials_unlit"

type AvatarToGLTFOption struct {
	Scale      float32 // Default: 1.0
	ForceUnlit bool

	BaseTexture            string // optional texture file for the body material
	TextureScale           float32
	TextureResolutionLimit int // 0: unlimited
}

// ExportHook observes the export pass: once per node and per material while
// final indices are assigned, and once with the finished document before
// serialization. An error from OnFinalize aborts the export; nothing is
// written.
type ExportHook interface {
	OnNode(name string, index int)
	OnMaterial(name string, index int)
	OnFinalize(doc *gltf.Document) error
}

type avatarToGltf struct {
	*AvatarToGLTFOption
	*gltf.Document
	hooks []ExportHook
	skin  *uint32
	atlas *texture.Atlas
}

func NewAvatarToGLTFConverter(options *AvatarToGLTFOption) *avatarToGltf {
	if options == nil {
		options = &AvatarToGLTFOption{}
	}
	if options.Scale == 0 {
		options.Scale = 1.0
	}
	if options.TextureScale == 0 {
		options.TextureScale = 1.0
	}
	return &avatarToGltf{
		AvatarToGLTFOption: options,
		Document:           gltf.NewDocument(),
	}
}

func (m *avatarToGltf) addNode(node *gltf.Node) uint32 {
	id := uint32(len(m.Nodes))
	m.Nodes = append(m.Nodes, node)
	for _, h := range m.hooks {
		h.OnNode(node.Name, int(id))
	}
	return id
}

func (m *avatarToGltf) addMaterial(mat *gltf.Material) uint32 {
	id := uint32(len(m.Document.Materials))
	m.Document.Materials = append(m.Document.Materials, mat)
	for _, h := range m.hooks {
		h.OnMaterial(mat.Name, int(id))
	}
	return id
}

func (m *avatarToGltf) useExtension(name string) {
	for _, ex := range m.ExtensionsUsed {
		if ex == name {
			return
		}
	}
	m.ExtensionsUsed = append(m.ExtensionsUsed, name)
}

// addBoneNodes appends one node per bone in bone index order, wiring the
// parent/child hierarchy and attaching the root bone to the scene. The
// returned slice maps bone index to node index.
func (m *avatarToGltf) addBoneNodes(s *skeleton.Skeleton) []uint32 {
	scale := m.Scale
	joints := make([]uint32, s.Count())
	for i, b := range s.Bones() {
		joints[i] = m.addNode(&gltf.Node{
			Name:        b.Name,
			Translation: [3]float32{b.Offset.X * scale, b.Offset.Y * scale, b.Offset.Z * scale},
			Rotation:    [4]float32{0, 0, 0, 1},
		})
	}
	for i, b := range s.Bones() {
		if b.Parent >= 0 {
			parent := m.Nodes[joints[b.Parent]]
			parent.Children = append(parent.Children, joints[i])
		} else {
			m.Scenes[0].Nodes = append(m.Scenes[0].Nodes, joints[i])
		}
	}
	return joints
}

func (m *avatarToGltf) addMatrices(mat [][4][4]float32) uint32 {
	a := make([][4]float32, len(mat)*4)
	for i, m := range mat {
		a[i*4+0] = m[0]
		a[i*4+1] = m[1]
		a[i*4+2] = m[2]
		a[i*4+3] = m[3]
	}
	acc := modeler.WriteTangent(m.Document, a)
	m.Accessors[acc].Type = gltf.AccessorMat4
	m.Accessors[acc].Count /= 4
	m.BufferViews[*m.Accessors[acc].BufferView].ByteStride *= 4
	return acc
}

// addSkin builds the shared skin: every bone is a joint, with a
// translation-only inverse bind matrix (bones carry no bind rotation).
func (m *avatarToGltf) addSkin(s *skeleton.Skeleton, joints []uint32) uint32 {
	if m.skin != nil {
		return *m.skin
	}
	scale := m.Scale
	invmats := make([][4][4]float32, len(joints))
	for i := range joints {
		pos := s.WorldPosition(i)
		invmats[i] = [4][4]float32{
			{1, 0, 0, 0},
			{0, 1, 0, 0},
			{0, 0, 1, 0},
			{-pos.X * scale, -pos.Y * scale, -pos.Z * scale, 1},
		}
	}
	m.Skins = append(m.Skins, &gltf.Skin{
		Joints:              joints,
		InverseBindMatrices: gltf.Index(m.addMatrices(invmats)),
	})
	m.skin = gltf.Index(uint32(len(m.Skins) - 1))
	return *m.skin
}

func (m *avatarToGltf) convertGeometry(name string, g *avatar.Geometry, materialIDs []uint32) *gltf.Mesh {
	scale := m.Scale
	vertexes := make([][3]float32, len(g.Vertices))
	normals := make([][3]float32, len(g.Vertices))
	texcood0 := make([][2]float32, len(g.Vertices))
	for i, v := range g.Vertices {
		vertexes[i] = [3]float32{v.X * scale, v.Y * scale, v.Z * scale}
		normals[i] = [3]float32{g.Normals[i].X, g.Normals[i].Y, g.Normals[i].Z}
		texcood0[i] = [2]float32{g.UVs[i].X, g.UVs[i].Y}
	}

	attributes := map[string]uint32{
		"POSITION":   modeler.WritePosition(m.Document, vertexes),
		"TEXCOORD_0": modeler.WriteTextureCoord(m.Document, texcood0),
	}
	if !m.ForceUnlit {
		attributes["NORMAL"] = modeler.WriteNormal(m.Document, normals)
	}
	if len(g.Joints) > 0 {
		attributes["JOINTS_0"] = modeler.WriteJoints(m.Document, g.Joints)
		attributes["WEIGHTS_0"] = modeler.WriteWeights(m.Document, g.Weights)
	}

	groups := g.Groups
	if len(groups) == 0 {
		groups = []avatar.IndexGroup{{Start: 0, Count: len(g.Indices)}}
	}
	var primitives []*gltf.Primitive
	for _, grp := range groups {
		if grp.Count == 0 {
			continue
		}
		primitives = append(primitives, &gltf.Primitive{
			Indices:    gltf.Index(modeler.WriteIndices(m.Document, g.Indices[grp.Start:grp.Start+grp.Count])),
			Attributes: attributes,
			Material:   gltf.Index(materialIDs[grp.Material]),
		})
	}
	return &gltf.Mesh{Name: name, Primitives: primitives}
}

func (m *avatarToGltf) convertMaterial(mat *avatar.Material) *gltf.Material {
	var rf float32 = 0.9
	var mf float32 = 0
	mm := &gltf.Material{
		Name: mat.Name,
		PBRMetallicRoughness: &gltf.PBRMetallicRoughness{
			BaseColorFactor: &[4]float32{mat.Color[0], mat.Color[1], mat.Color[2], mat.Color[3]},
			RoughnessFactor: &rf,
			MetallicFactor:  &mf,
		},
	}
	if m.ForceUnlit {
		mm.Extensions = map[string]interface{}{unlitMaterialExt: map[string]string{}}
		m.useExtension(unlitMaterialExt)
	}

	if mat.AtlasRole != "" {
		base := toRGBA(mat.Color)
		img := m.atlas.Image(base, darken(base))
		if tex, err := m.addAtlasTexture(mat.Name, img); err == nil {
			// base state shows the neutral slice; expression presets
			// retarget the offset at runtime
			mm.PBRMetallicRoughness.BaseColorFactor = &[4]float32{1, 1, 1, 1}
			mm.PBRMetallicRoughness.BaseColorTexture = &gltf.TextureInfo{
				Index: *tex,
				Extensions: map[string]interface{}{
					textureTransformExt: map[string]interface{}{
						"offset": texture.Offset(texture.KindNeutral),
						"scale":  texture.SliceScale(),
					},
				},
			}
			m.useExtension(textureTransformExt)
		}
	}
	return mm
}

func (m *avatarToGltf) convertPart(p *avatar.Part, s *skeleton.Skeleton, joints []uint32, parent *gltf.Node) {
	scale := m.Scale
	node := &gltf.Node{
		Name:        p.Name,
		Translation: [3]float32{p.Offset.X * scale, p.Offset.Y * scale, p.Offset.Z * scale},
	}
	id := m.addNode(node)
	if parent != nil {
		parent.Children = append(parent.Children, id)
	} else {
		m.Scenes[0].Nodes = append(m.Scenes[0].Nodes, id)
	}

	if p.Geometry != nil {
		materialIDs := make([]uint32, len(p.Materials))
		for i, mat := range p.Materials {
			materialIDs[i] = m.addMaterial(m.convertMaterial(mat))
		}
		mesh := m.convertGeometry(p.Name, p.Geometry, materialIDs)
		if len(mesh.Primitives) > 0 {
			node.Mesh = gltf.Index(uint32(len(m.Document.Meshes)))
			m.Document.Meshes = append(m.Document.Meshes, mesh)
			if len(p.Geometry.Joints) > 0 {
				node.Skin = gltf.Index(m.addSkin(s, joints))
			}
		}
	}

	for _, c := range p.Children {
		m.convertPart(c, s, joints, node)
	}
}

// Convert assembles the whole scene: bone nodes first, then one node per
// part with skinned meshes referencing the precomputed weights, then the
// hook post-pass. The part tree must already be validated.
func (m *avatarToGltf) Convert(a *avatar.Avatar, hooks []ExportHook) (*gltf.Document, error) {
	m.hooks = hooks
	m.atlas = texture.NewAtlas(a.Config.AtlasSize)

	joints := m.addBoneNodes(a.Skeleton)
	m.convertPart(a.Root, a.Skeleton, joints, nil)

	if m.BaseTexture != "" {
		if err := m.applyBaseTexture(m.BaseTexture); err != nil {
			return nil, err
		}
	}
	if len(m.Document.Textures) > 0 {
		m.Document.Samplers = []*gltf.Sampler{{}}
	}

	for _, h := range m.hooks {
		if err := h.OnFinalize(m.Document); err != nil {
			return nil, err
		}
	}
	return m.Document, nil
}

func toRGBA(c [4]float32) color.RGBA {
	return color.RGBA{
		R: uint8(c[0] * 255),
		G: uint8(c[1] * 255),
		B: uint8(c[2] * 255),
		A: uint8(c[3] * 255),
	}
}

func darken(c color.RGBA) color.RGBA {
	return color.RGBA{R: c.R / 3, G: c.G / 3, B: c.B / 3, A: c.A}
}
