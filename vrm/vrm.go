package vrm

// https://github.com/vrm-c/vrm-specification/tree/master/specification/VRMC_vrm-1.0

import (
	"encoding/json"

	"github.com/qmuntal/gltf"
)

const (
	ExtensionName = "VRMC_vrm"
	SpecVersion   = "1.0"
)

func init() {
	gltf.RegisterExtension(ExtensionName, Unmarshal)
}

func Unmarshal(data []byte) (interface{}, error) {
	var ext VRM
	if err := json.Unmarshal(data, &ext); err != nil {
		return nil, err
	}
	return &ext, nil
}

type Metadata struct {
	Name       string   `json:"name"`
	Version    string   `json:"version,omitempty"`
	Authors    []string `json:"authors"`
	LicenseURL string   `json:"licenseUrl"`
}

type HumanBone struct {
	Node int `json:"node"`
}

type Humanoid struct {
	HumanBones map[string]*HumanBone `json:"humanBones"`
}

// TextureTransformBind selects one slice of the expression atlas by a
// material-level UV offset applied at runtime.
type TextureTransformBind struct {
	Material int        `json:"material"`
	Offset   [2]float32 `json:"offset"`
	Scale    [2]float32 `json:"scale"`
}

type Expression struct {
	IsBinary              bool                    `json:"isBinary"`
	TextureTransformBinds []*TextureTransformBind `json:"textureTransformBinds,omitempty"`
	OverrideBlink         string                  `json:"overrideBlink,omitempty"`
	OverrideLookAt        string                  `json:"overrideLookAt,omitempty"`
	OverrideMouth         string                  `json:"overrideMouth,omitempty"`
}

type Expressions struct {
	Preset map[string]*Expression `json:"preset,omitempty"`
}

type VRM struct {
	SpecVersion string       `json:"specVersion"`
	Meta        Metadata     `json:"meta"`
	Humanoid    Humanoid     `json:"humanoid"`
	Expressions *Expressions `json:"expressions,omitempty"`
}

func NewVRM() *VRM {
	return &VRM{
		SpecVersion: SpecVersion,
		Humanoid:    Humanoid{HumanBones: map[string]*HumanBone{}},
	}
}

// HumanBoneNames is the canonical humanoid bone list, in a fixed order.
// Nodes carrying these names are picked up by the rig writer; others are
// plain scene nodes.
var HumanBoneNames = []string{
	"hips", "spine", "chest", "upperChest", "neck", "head",
	"leftShoulder", "leftUpperArm", "leftLowerArm", "leftHand",
	"rightShoulder", "rightUpperArm", "rightLowerArm", "rightHand",
	"leftUpperLeg", "leftLowerLeg", "leftFoot",
	"rightUpperLeg", "rightLowerLeg", "rightFoot",
}

type Document gltf.Document

// VRM returns the extension object of the document, attaching an empty one
// on first use. The extensionsUsed entry is added at most once, so running
// the export hook twice does not duplicate it.
func (doc *Document) VRM() *VRM {
	if ext, ok := doc.Extensions[ExtensionName].(*VRM); ok {
		return ext
	}
	ext := NewVRM()
	if doc.Extensions == nil {
		doc.Extensions = gltf.Extensions{}
	}
	doc.Extensions[ExtensionName] = ext
	if !doc.IsExtensionUsed(ExtensionName) {
		doc.ExtensionsUsed = append(doc.ExtensionsUsed, ExtensionName)
	}
	return ext
}

func (doc *Document) IsExtensionUsed(extname string) bool {
	for _, ex := range doc.ExtensionsUsed {
		if ex == extname {
			return true
		}
	}
	return false
}
