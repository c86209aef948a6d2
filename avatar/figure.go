package avatar

import (
	"log"

	"github.com/binzume/avatargen/geom"
	"github.com/binzume/avatargen/skeleton"
)

// Avatar is the frozen result of one construction pass: a skeleton, a
// validated part tree and the config it was built from. It is handed
// read-only to the converter.
type Avatar struct {
	Skeleton *skeleton.Skeleton
	Root     *Part
	Config   *Config
}

type figure struct {
	conf *Config
	sk   *skeleton.Skeleton
	err  error
}

func (f *figure) bone(name string, world geom.Vector3, parent int) int {
	offset := world
	if parent >= 0 {
		p := f.sk.WorldPosition(parent)
		offset = *world.Sub(&p)
	}
	id, err := f.sk.AddBone(name, offset, parent)
	if err != nil && f.err == nil {
		f.err = err
	}
	return id
}

func (f *figure) blend(g *Geometry, blend BlendRange) {
	if err := AssignWeights(g, blend); err != nil {
		// only smoothness is lost; keep going
		log.Println("WARNING:", err)
	}
}

// BuildFigure constructs the whole humanoid in one pass: skeleton first,
// then one part per body section with skin weights blended across each
// joint, then the face split into sub-material groups. The result is
// deterministic for a given config.
func BuildFigure(conf *Config) (*Avatar, error) {
	if conf == nil {
		conf = DefaultConfig()
	}
	h := conf.Height
	f := &figure{conf: conf, sk: skeleton.NewSkeleton()}

	hipsY := 0.52 * h
	chestY := 0.66 * h
	upperChestY := 0.74 * h
	neckY := 0.82 * h
	headY := 0.86 * h
	shoulderX := conf.ShoulderWidth * 0.35
	armX := conf.ShoulderWidth * 0.5
	armLen := 0.28 * h
	elbowX := armX + armLen*0.5
	wristX := armX + armLen
	legX := conf.HipWidth * 0.5
	kneeY := 0.28 * h
	ankleY := 0.05 * h

	hips := f.bone("hips", geom.Vector3{Y: hipsY}, -1)
	spine := f.bone("spine", geom.Vector3{Y: 0.58 * h}, hips)
	chest := f.bone("chest", geom.Vector3{Y: chestY}, spine)
	upperChest := f.bone("upperChest", geom.Vector3{Y: upperChestY}, chest)
	neck := f.bone("neck", geom.Vector3{Y: neckY}, upperChest)
	head := f.bone("head", geom.Vector3{Y: headY}, neck)

	sides := []struct {
		name string
		sign float32
	}{{"left", 1}, {"right", -1}}

	arm := map[string][3]int{}
	leg := map[string][3]int{}
	for _, side := range sides {
		s := side.sign
		shoulder := f.bone(side.name+"Shoulder", geom.Vector3{X: s * shoulderX, Y: 0.78 * h}, upperChest)
		upperArm := f.bone(side.name+"UpperArm", geom.Vector3{X: s * armX, Y: 0.78 * h}, shoulder)
		lowerArm := f.bone(side.name+"LowerArm", geom.Vector3{X: s * elbowX, Y: 0.78 * h}, upperArm)
		hand := f.bone(side.name+"Hand", geom.Vector3{X: s * wristX, Y: 0.78 * h}, lowerArm)
		arm[side.name] = [3]int{upperArm, lowerArm, hand}

		upperLeg := f.bone(side.name+"UpperLeg", geom.Vector3{X: s * legX, Y: hipsY}, hips)
		lowerLeg := f.bone(side.name+"LowerLeg", geom.Vector3{X: s * legX, Y: kneeY}, upperLeg)
		foot := f.bone(side.name+"Foot", geom.Vector3{X: s * legX, Y: ankleY}, lowerLeg)
		leg[side.name] = [3]int{upperLeg, lowerLeg, foot}
	}
	if f.err != nil {
		return nil, f.err
	}

	skin := rgba(conf.SkinColor)
	cloth := rgba(conf.ClothColor)

	root := NewPart("Avatar")

	body := NewPart("Body")
	body.Geometry = NewBox(geom.Vector3{X: conf.ShoulderWidth * 0.9, Y: 0.30 * h, Z: 0.1 * h},
		geom.Vector3{Y: (hipsY + 0.80*h) / 2}, [3]int{1, 8, 1})
	f.blend(body.Geometry, BlendRange{Axis: AxisY, Edge0: 0.56 * h, Edge1: chestY, Lower: hips, Upper: chest})
	body.Materials = []*Material{{Name: "body", Color: cloth}}
	root.AddChild(body)

	root.AddChild(f.headPart(head))

	for _, side := range sides {
		s := side.sign
		bones := arm[side.name]
		armPart := NewPart(side.name + "Arm")
		armPart.Geometry = NewBox(geom.Vector3{X: armLen, Y: 0.05 * h, Z: 0.05 * h},
			geom.Vector3{X: s * (armX + armLen/2), Y: 0.78 * h}, [3]int{8, 1, 1})
		blend := BlendRange{Axis: AxisX, Edge0: s*elbowX - 0.02*h, Edge1: s*elbowX + 0.02*h, Lower: bones[0], Upper: bones[1]}
		if s < 0 {
			// axis runs away from the body: near side is the forearm
			blend.Lower, blend.Upper = bones[1], bones[0]
		}
		f.blend(armPart.Geometry, blend)
		armPart.Materials = []*Material{{Name: "arm_" + side.name, Color: skin}}
		root.AddChild(armPart)

		handPart := NewPart(side.name + "Hand")
		handPart.Geometry = NewBox(geom.Vector3{X: 0.05 * h, Y: 0.05 * h, Z: 0.06 * h},
			geom.Vector3{X: s * (wristX + 0.025*h), Y: 0.78 * h}, [3]int{1, 1, 1})
		BindAll(handPart.Geometry, bones[2])
		handPart.Materials = []*Material{{Name: "hand_" + side.name, Color: skin}}
		root.AddChild(handPart)

		lbones := leg[side.name]
		legPart := NewPart(side.name + "Leg")
		legPart.Geometry = NewBox(geom.Vector3{X: 0.07 * h, Y: hipsY - ankleY, Z: 0.07 * h},
			geom.Vector3{X: s * legX, Y: (hipsY + ankleY) / 2}, [3]int{1, 8, 1})
		f.blend(legPart.Geometry, BlendRange{Axis: AxisY, Edge0: kneeY - 0.02*h, Edge1: kneeY + 0.02*h, Lower: lbones[1], Upper: lbones[0]})
		legPart.Materials = []*Material{{Name: "leg_" + side.name, Color: cloth}}
		root.AddChild(legPart)

		footPart := NewPart(side.name + "Foot")
		footPart.Geometry = NewBox(geom.Vector3{X: 0.07 * h, Y: ankleY * 2, Z: 0.12 * h},
			geom.Vector3{X: s * legX, Y: ankleY, Z: 0.02 * h}, [3]int{1, 1, 1})
		BindAll(footPart.Geometry, lbones[2])
		footPart.Materials = []*Material{{Name: "foot_" + side.name, Color: skin}}
		root.AddChild(footPart)
	}

	if err := root.Validate(f.sk); err != nil {
		return nil, err
	}
	return &Avatar{Skeleton: f.sk, Root: root, Config: conf}, nil
}

// FaceRegions is the face segmentation rule set: priority order is fixed
// and load-bearing (a triangle reaching a majority in two regions lands in
// the earlier one). Materials reference headPart's material list.
func FaceRegions(center geom.Vector3, size geom.Vector3) []*Region {
	minZ := center.Z + size.Z*0.49
	return []*Region{
		{Name: "mouth", Material: 1, Match: UVRect(0.35, 0.1, 0.65, 0.35, minZ)},
		{Name: "leftEye", Material: 2, Match: UVRect(0.55, 0.5, 0.85, 0.75, minZ)},
		{Name: "rightEye", Material: 3, Match: UVRect(0.15, 0.5, 0.45, 0.75, minZ)},
	}
}

func (f *figure) headPart(headBone int) *Part {
	conf := f.conf
	size := geom.Vector3{X: conf.HeadSize, Y: conf.HeadSize, Z: conf.HeadSize * 0.9}
	center := geom.Vector3{Y: 0.86*conf.Height + conf.HeadSize*0.45}

	p := NewPart("Head")
	p.Geometry = NewBox(size, center, [3]int{8, 8, 1})
	BindAll(p.Geometry, headBone)
	SegmentRegions(p.Geometry, FaceRegions(center, size), "face", 0)
	p.Materials = []*Material{
		{Name: "face", Color: rgba(conf.SkinColor)},
		{Name: "face_mouth", Color: rgba(conf.MouthColor), AtlasRole: "mouth"},
		{Name: "face_eye_L", Color: rgba(conf.EyeColor), AtlasRole: "eye"},
		{Name: "face_eye_R", Color: rgba(conf.EyeColor), AtlasRole: "eye"},
	}
	return p
}
