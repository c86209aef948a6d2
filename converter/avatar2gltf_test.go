package converter

import (
	"errors"
	"testing"

	"github.com/binzume/avatargen/avatar"
	"github.com/binzume/avatargen/geom"
	"github.com/binzume/avatargen/skeleton"
	"github.com/binzume/avatargen/vrm"
	"github.com/qmuntal/gltf"
)

type recorderHook struct {
	nodes     map[string]int
	materials map[string]int
	finalized int
	fail      error
}

func newRecorderHook() *recorderHook {
	return &recorderHook{nodes: map[string]int{}, materials: map[string]int{}}
}

func (h *recorderHook) OnNode(name string, index int)     { h.nodes[name] = index }
func (h *recorderHook) OnMaterial(name string, index int) { h.materials[name] = index }
func (h *recorderHook) OnFinalize(doc *gltf.Document) error {
	h.finalized++
	return h.fail
}

func minimalAvatar(t *testing.T) *avatar.Avatar {
	t.Helper()
	sk := skeleton.NewSkeleton()
	root, _ := sk.AddBone("root", geom.Vector3{}, -1)
	child, _ := sk.AddBone("child", geom.Vector3{Y: 1}, root)

	limb := avatar.NewPart("limb")
	limb.Geometry = avatar.NewBox(geom.Vector3{X: 0.2, Y: 2, Z: 0.2}, geom.Vector3{Y: 1}, [3]int{1, 4, 1})
	if err := avatar.AssignWeights(limb.Geometry, avatar.BlendRange{
		Axis: avatar.AxisY, Edge0: 0.8, Edge1: 1.2, Lower: root, Upper: child,
	}); err != nil {
		t.Fatal(err)
	}
	limb.Materials = []*avatar.Material{{Name: "limb", Color: [4]float32{1, 1, 1, 1}}}

	group := avatar.NewPart("group")
	group.AddChild(limb)

	a := &avatar.Avatar{Skeleton: sk, Root: group, Config: avatar.DefaultConfig()}
	if err := group.Validate(sk); err != nil {
		t.Fatal(err)
	}
	return a
}

func TestConvert_Minimal(t *testing.T) {
	hook := newRecorderHook()
	doc, err := NewAvatarToGLTFConverter(nil).Convert(minimalAvatar(t), []ExportHook{hook})
	if err != nil {
		t.Fatal(err)
	}

	// 2 bone nodes + group node + mesh node
	if len(doc.Nodes) != 4 {
		t.Fatal("node count:", len(doc.Nodes))
	}
	if len(doc.Meshes) != 1 || len(doc.Materials) != 1 {
		t.Error("mesh/material count:", len(doc.Meshes), len(doc.Materials))
	}

	// hooks saw every node with its final index
	for _, name := range []string{"root", "child", "group", "limb"} {
		id, ok := hook.nodes[name]
		if !ok || doc.Nodes[id].Name != name {
			t.Error("hook node:", name, id)
		}
	}
	if id := hook.materials["limb"]; doc.Materials[id].Name != "limb" {
		t.Error("hook material:", hook.materials)
	}
	if hook.finalized != 1 {
		t.Error("OnFinalize calls:", hook.finalized)
	}

	// the skeleton root and the part root are scene siblings
	if len(doc.Scenes[0].Nodes) != 2 {
		t.Error("scene nodes:", doc.Scenes[0].Nodes)
	}

	if len(doc.Skins) != 1 {
		t.Fatal("skin count:", len(doc.Skins))
	}
	skin := doc.Skins[0]
	if len(skin.Joints) != 2 || doc.Nodes[skin.Joints[0]].Name != "root" {
		t.Error("skin joints:", skin.Joints)
	}
	meshNode := doc.Nodes[hook.nodes["limb"]]
	if meshNode.Mesh == nil || meshNode.Skin == nil {
		t.Error("limb node should carry mesh and skin")
	}

	// bone hierarchy carried over
	rootNode := doc.Nodes[hook.nodes["root"]]
	if len(rootNode.Children) != 1 || doc.Nodes[rootNode.Children[0]].Name != "child" {
		t.Error("bone children:", rootNode.Children)
	}
	childNode := doc.Nodes[hook.nodes["child"]]
	if childNode.Translation != [3]float32{0, 1, 0} {
		t.Error("bone translation:", childNode.Translation)
	}
}

func TestConvert_FinalizeError(t *testing.T) {
	hook := newRecorderHook()
	hook.fail = errors.New("broken binding")
	if _, err := NewAvatarToGLTFConverter(nil).Convert(minimalAvatar(t), []ExportHook{hook}); err == nil {
		t.Fatal("OnFinalize error should abort the export")
	}
}

func TestConvert_Scale(t *testing.T) {
	conv := NewAvatarToGLTFConverter(&AvatarToGLTFOption{Scale: 0.5})
	hook := newRecorderHook()
	doc, err := conv.Convert(minimalAvatar(t), []ExportHook{hook})
	if err != nil {
		t.Fatal(err)
	}
	if doc.Nodes[hook.nodes["child"]].Translation != [3]float32{0, 0.5, 0} {
		t.Error("scaled translation:", doc.Nodes[hook.nodes["child"]].Translation)
	}
}

func TestConvert_EndToEnd(t *testing.T) {
	a, err := avatar.BuildFigure(nil)
	if err != nil {
		t.Fatal(err)
	}
	rig := vrm.NewRigWriter(vrm.Metadata{Name: "test", Authors: []string{"tester"}})
	doc, err := NewAvatarToGLTFConverter(nil).Convert(a, []ExportHook{rig})
	if err != nil {
		t.Fatal(err)
	}

	ext, ok := doc.Extensions[vrm.ExtensionName].(*vrm.VRM)
	if !ok {
		t.Fatal("extension missing")
	}
	if len(ext.Humanoid.HumanBones) != len(vrm.HumanBoneNames) {
		t.Error("human bones:", len(ext.Humanoid.HumanBones))
	}
	for name, b := range ext.Humanoid.HumanBones {
		if doc.Nodes[b.Node].Name != name {
			t.Error("bone node mismatch:", name, b.Node)
		}
	}
	if len(ext.Expressions.Preset) != 8 {
		t.Error("presets:", len(ext.Expressions.Preset))
	}
	for name, e := range ext.Expressions.Preset {
		for _, bind := range e.TextureTransformBinds {
			if bind.Material < 0 || bind.Material >= len(doc.Materials) {
				t.Error("preset material out of range:", name, bind.Material)
			}
			mat := doc.Materials[bind.Material]
			if mat.PBRMetallicRoughness.BaseColorTexture == nil {
				t.Error("preset material should carry an atlas texture:", mat.Name)
			}
		}
	}

	for _, name := range []string{vrm.ExtensionName, textureTransformExt} {
		count := 0
		for _, ex := range doc.ExtensionsUsed {
			if ex == name {
				count++
			}
		}
		if count != 1 {
			t.Error("extensionsUsed:", name, count)
		}
	}

	if len(doc.Samplers) != 1 {
		t.Error("sampler missing")
	}
}
