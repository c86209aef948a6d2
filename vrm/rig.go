package vrm

import (
	"log"

	"github.com/binzume/avatargen/texture"
	"github.com/qmuntal/gltf"
)

// MissingMaterialBindingError is fatal for the export pass: a preset that
// references a material missing from the exported document would corrupt
// expression switching for every consumer.
type MissingMaterialBindingError struct {
	Expression string
	Material   string
}

func (e *MissingMaterialBindingError) Error() string {
	return "expression " + e.Expression + ": material not found: " + e.Material
}

// PresetBinding declares one expression preset: which atlas slice it shows
// and which exported materials it retargets.
type PresetBinding struct {
	Name      string
	Kind      texture.Kind
	IsBinary  bool
	Materials []string
}

// DefaultPresets binds the five vowel presets to the mouth material and the
// blink presets to the eye materials, by the material names the figure
// builder uses.
func DefaultPresets() []*PresetBinding {
	mouth := []string{"face_mouth"}
	return []*PresetBinding{
		{Name: "aa", Kind: texture.KindAa, Materials: mouth},
		{Name: "ih", Kind: texture.KindIh, Materials: mouth},
		{Name: "ou", Kind: texture.KindOu, Materials: mouth},
		{Name: "ee", Kind: texture.KindEe, Materials: mouth},
		{Name: "oh", Kind: texture.KindOh, Materials: mouth},
		{Name: "blink", Kind: texture.KindBlink, IsBinary: true, Materials: []string{"face_eye_L", "face_eye_R"}},
		{Name: "blinkLeft", Kind: texture.KindBlink, IsBinary: true, Materials: []string{"face_eye_L"}},
		{Name: "blinkRight", Kind: texture.KindBlink, IsBinary: true, Materials: []string{"face_eye_R"}},
	}
}

// RigWriter is the export post-pass: it records node and material indices
// while the exporter traverses them, then writes the humanoid rig and
// expression presets into the finished document. It implements the
// converter's ExportHook.
type RigWriter struct {
	Meta    Metadata
	Presets []*PresetBinding

	nodes     map[string]int
	materials map[string]int
}

func NewRigWriter(meta Metadata) *RigWriter {
	return &RigWriter{
		Meta:      meta,
		Presets:   DefaultPresets(),
		nodes:     map[string]int{},
		materials: map[string]int{},
	}
}

// OnNode records a node's final index. First occurrence wins; duplicates
// and unnamed nodes only produce a log line since only recognized bone
// names participate.
func (w *RigWriter) OnNode(name string, index int) {
	if name == "" {
		return
	}
	if _, exists := w.nodes[name]; exists {
		log.Println("duplicate node name:", name)
		return
	}
	w.nodes[name] = index
}

func (w *RigWriter) OnMaterial(name string, index int) {
	if name == "" {
		return
	}
	if _, exists := w.materials[name]; exists {
		log.Println("duplicate material name:", name)
		return
	}
	w.materials[name] = index
}

// OnFinalize merges the rig descriptor and expression block into the
// document. Missing canonical bones degrade the rig to partial with a
// warning; a missing expression material aborts the pass.
func (w *RigWriter) OnFinalize(gltfdoc *gltf.Document) error {
	doc := (*Document)(gltfdoc)
	ext := doc.VRM()
	ext.Meta = w.Meta

	ext.Humanoid.HumanBones = map[string]*HumanBone{}
	for _, name := range HumanBoneNames {
		if id, ok := w.nodes[name]; ok {
			ext.Humanoid.HumanBones[name] = &HumanBone{Node: id}
		} else {
			log.Println("bone node not found:", name)
		}
	}

	preset := map[string]*Expression{}
	for _, p := range w.Presets {
		e := &Expression{IsBinary: p.IsBinary}
		for _, mat := range p.Materials {
			id, ok := w.materials[mat]
			if !ok {
				return &MissingMaterialBindingError{Expression: p.Name, Material: mat}
			}
			e.TextureTransformBinds = append(e.TextureTransformBinds, &TextureTransformBind{
				Material: id,
				Offset:   texture.Offset(p.Kind),
				Scale:    [2]float32{1, 1},
			})
		}
		preset[p.Name] = e
	}
	ext.Expressions = &Expressions{Preset: preset}
	return nil
}
