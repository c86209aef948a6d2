package vrm

import (
	"testing"

	"github.com/binzume/avatargen/texture"
	"github.com/qmuntal/gltf"
)

func feedRig(w *RigWriter, skipBone string) *gltf.Document {
	doc := gltf.NewDocument()
	for _, name := range HumanBoneNames {
		if name == skipBone {
			continue
		}
		w.OnNode(name, len(doc.Nodes))
		doc.Nodes = append(doc.Nodes, &gltf.Node{Name: name})
	}
	for i, name := range []string{"face", "face_mouth", "face_eye_L", "face_eye_R"} {
		w.OnMaterial(name, i)
		doc.Materials = append(doc.Materials, &gltf.Material{Name: name})
	}
	return doc
}

func TestRigWriter(t *testing.T) {
	w := NewRigWriter(Metadata{Name: "test"})
	doc := feedRig(w, "")
	if err := w.OnFinalize(doc); err != nil {
		t.Fatal(err)
	}

	ext, ok := doc.Extensions[ExtensionName].(*VRM)
	if !ok {
		t.Fatal("extension not attached")
	}
	if ext.SpecVersion != SpecVersion || ext.Meta.Name != "test" {
		t.Error("meta:", ext.SpecVersion, ext.Meta)
	}
	if len(ext.Humanoid.HumanBones) != 20 {
		t.Error("expected 20 human bones:", len(ext.Humanoid.HumanBones))
	}
	for _, name := range HumanBoneNames {
		b := ext.Humanoid.HumanBones[name]
		if b == nil || doc.Nodes[b.Node].Name != name {
			t.Error("bone mapping:", name, b)
		}
	}

	if len(ext.Expressions.Preset) != 8 {
		t.Error("expected 8 presets:", len(ext.Expressions.Preset))
	}
	aa := ext.Expressions.Preset["aa"]
	if aa == nil || len(aa.TextureTransformBinds) != 1 {
		t.Fatal("aa preset:", aa)
	}
	bind := aa.TextureTransformBinds[0]
	if bind.Material != 1 || bind.Offset != texture.Offset(texture.KindAa) || bind.Scale != [2]float32{1, 1} {
		t.Error("aa bind:", bind)
	}
	blink := ext.Expressions.Preset["blink"]
	if blink == nil || !blink.IsBinary || len(blink.TextureTransformBinds) != 2 {
		t.Error("blink preset:", blink)
	}
}

func TestRigWriter_PartialRig(t *testing.T) {
	w := NewRigWriter(Metadata{})
	doc := feedRig(w, "leftShoulder")
	if err := w.OnFinalize(doc); err != nil {
		t.Fatal("missing optional bone must not be fatal:", err)
	}
	ext := doc.Extensions[ExtensionName].(*VRM)
	if len(ext.Humanoid.HumanBones) != 19 {
		t.Error("expected 19 human bones:", len(ext.Humanoid.HumanBones))
	}
	if _, exists := ext.Humanoid.HumanBones["leftShoulder"]; exists {
		t.Error("missing bone should be omitted, not zeroed")
	}
}

func TestRigWriter_MissingMaterial(t *testing.T) {
	w := NewRigWriter(Metadata{})
	doc := gltf.NewDocument()
	w.OnNode("hips", 0)
	err := w.OnFinalize(doc)
	if err == nil {
		t.Fatal("missing expression material must be fatal")
	}
	if _, ok := err.(*MissingMaterialBindingError); !ok {
		t.Error("unexpected error type:", err)
	}
}

func TestRigWriter_Idempotent(t *testing.T) {
	w := NewRigWriter(Metadata{})
	doc := feedRig(w, "")
	if err := w.OnFinalize(doc); err != nil {
		t.Fatal(err)
	}
	if err := w.OnFinalize(doc); err != nil {
		t.Fatal(err)
	}
	count := 0
	for _, name := range doc.ExtensionsUsed {
		if name == ExtensionName {
			count++
		}
	}
	if count != 1 {
		t.Error("extensionsUsed should list the extension exactly once:", doc.ExtensionsUsed)
	}
}

func TestRigWriter_FirstOccurrenceWins(t *testing.T) {
	w := NewRigWriter(Metadata{})
	w.OnNode("hips", 1)
	w.OnNode("hips", 2)
	w.OnNode("", 3)
	if w.nodes["hips"] != 1 {
		t.Error("first occurrence should win:", w.nodes)
	}
	if _, exists := w.nodes[""]; exists {
		t.Error("unnamed nodes should be skipped")
	}
}
