// 指示: miu200521358
package minteractor

import (
	"math"
	"strings"

	"github.com/miu200521358/mu_humanoid/pkg/domain/humanoid"
	"github.com/miu200521358/mu_humanoid/pkg/domain/mmath"
	"github.com/miu200521358/mu_humanoid/pkg/domain/skeleton"
)

const (
	// GeneratedSkeletonName は生成骨格の名前。
	GeneratedSkeletonName = "Humanoid"
	// RootBoneName は全体の親となるボーン名。
	RootBoneName = "Root"
)

// boneSeed は生成するボーンの雛形を表す。
// offset は親ボーン head からの相対位置、tip は子を持たないボーンの tail 相対位置。
type boneSeed struct {
	role     humanoid.CanonicalRole
	offset   mmath.Vec3
	tip      mmath.Vec3
	children []*boneSeed
}

// GenerateSkeleton は身長から人型骨格を生成し、全役割を割り当てたモデルを返す。
// height が0の場合は設定値を使う。
func (uc *HumanoidUsecase) GenerateSkeleton(height float64) (*GenerateResult, error) {
	settings := uc.generator
	if height != 0 {
		settings.StandingHeight = height
	}
	generated, err := GenerateHumanoid(settings)
	if err != nil {
		return nil, err
	}
	return &GenerateResult{Model: generated}, nil
}

// GenerateHumanoid は設定から人型骨格を生成する。
func GenerateHumanoid(settings GeneratorSettings) (*humanoid.HumanoidModel, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	s := skeleton.NewSkeleton(GeneratedSkeletonName)
	if err := s.EnsureMode(skeleton.ModeEdit); err != nil {
		return nil, err
	}
	if _, err := s.EnsureBone(RootBoneName); err != nil {
		return nil, err
	}
	if err := s.SetBoneGeometry(RootBoneName, mmath.ZERO_VEC3, mmath.UNIT_Y_VEC3, 0); err != nil {
		return nil, err
	}

	mapping := humanoid.NewBoneMapping()
	if err := createSeed(s, mapping, buildHumanoidSeed(settings), RootBoneName, mmath.ZERO_VEC3, false); err != nil {
		return nil, err
	}
	if err := s.EnsureMode(skeleton.ModePose); err != nil {
		return nil, err
	}

	generated := humanoid.NewHumanoidModel(GeneratedSkeletonName, s)
	generated.Mapping = mapping
	logHumanoidInfo("骨格生成完了: height=%.3f bones=%d", settings.StandingHeight, s.BoneCount())
	return generated, nil
}

// createSeed は雛形を再帰的にボーンへ展開する。最初の子の head を tail とし、その子を接続する。
func createSeed(
	s *skeleton.Skeleton,
	mapping *humanoid.BoneMapping,
	seed *boneSeed,
	parentName string,
	parentHead mmath.Vec3,
	connected bool,
) error {
	head := parentHead.Added(seed.offset)
	tail := head.Added(seed.tip)
	if len(seed.children) > 0 {
		tail = head.Added(seed.children[0].offset)
	}
	name := generatedBoneName(seed.role, head)
	if _, err := s.EnsureBone(name); err != nil {
		return err
	}
	if err := s.SetBoneParent(name, parentName, connected); err != nil {
		return err
	}
	if err := s.SetBoneGeometry(name, head, tail, mmath.DegToRad(generatedRollDegrees(seed.role))); err != nil {
		return err
	}
	mapping.Set(seed.role, name)
	for i, child := range seed.children {
		if err := createSeed(s, mapping, child, name, head, i == 0); err != nil {
			return err
		}
	}
	return nil
}

// generatedBoneName は役割名から左右接頭辞を除き、head のX符号で左右接尾辞を付ける。
func generatedBoneName(role humanoid.CanonicalRole, head mmath.Vec3) string {
	base := strings.TrimPrefix(strings.TrimPrefix(string(role), "left"), "right")
	base = strings.ToUpper(base[:1]) + base[1:]
	switch {
	case head.X > 0:
		return base + humanoid.SideLeft.Suffix()
	case head.X < 0:
		return base + humanoid.SideRight.Suffix()
	}
	return base
}

// generatedRollDegrees は役割ごとの初期 roll を度で返す。
func generatedRollDegrees(role humanoid.CanonicalRole) float64 {
	side := role.Side()
	part := strings.TrimPrefix(strings.TrimPrefix(string(role), "left"), "right")
	switch {
	case part == "Shoulder" || part == "UpperArm" || part == "LowerArm":
		return 90 * side.Sign()
	case strings.HasPrefix(part, string(humanoid.Thumb)):
		return -90 * side.Sign()
	case strings.HasPrefix(part, string(humanoid.Index)),
		strings.HasPrefix(part, string(humanoid.Middle)),
		strings.HasPrefix(part, string(humanoid.Ring)),
		strings.HasPrefix(part, string(humanoid.Little)):
		return 180
	case part == "Foot" || part == "Toes":
		return 180
	}
	return 0
}

// buildHumanoidSeed は身長から骨格全体の雛形を組み立てる。
// 頭長 = 身長/6、体幹単位 = 頭長*2/9。
func buildHumanoidSeed(settings GeneratorSettings) *boneSeed {
	height := settings.StandingHeight
	headLength := height / 6
	unit := headLength * 2 / 9

	head := &boneSeed{
		role:   humanoid.Head,
		offset: mmath.NewVec3(0, 0, unit),
		tip:    mmath.NewVec3(0, 0, headLength),
	}
	neck := &boneSeed{
		role:     humanoid.Neck,
		offset:   mmath.NewVec3(0, 0, unit*2),
		children: []*boneSeed{head},
	}
	upperChest := &boneSeed{
		role:   humanoid.UpperChest,
		offset: mmath.NewVec3(0, 0, unit*2),
		children: []*boneSeed{
			neck,
			buildArmSeed(settings, humanoid.SideLeft, unit),
			buildArmSeed(settings, humanoid.SideRight, unit),
		},
	}
	chest := &boneSeed{
		role:     humanoid.Chest,
		offset:   mmath.NewVec3(0, 0, unit*2),
		children: []*boneSeed{upperChest},
	}
	spine := &boneSeed{
		role:     humanoid.Spine,
		offset:   mmath.NewVec3(0, 0, unit*2),
		children: []*boneSeed{chest},
	}
	return &boneSeed{
		role:   humanoid.Hips,
		offset: mmath.NewVec3(0, 0, height/2),
		children: []*boneSeed{
			spine,
			buildLegSeed(humanoid.SideLeft, height/2),
			buildLegSeed(humanoid.SideRight, height/2),
		},
	}
}

// buildArmSeed は肩から手指までの雛形を組み立てる。
func buildArmSeed(settings GeneratorSettings, side humanoid.Side, unit float64) *boneSeed {
	lr := side.Sign() * unit * 2
	finger := lr * 0.6
	spacing := settings.FingerSpacing
	thumbStep := finger / 10

	hand := &boneSeed{
		role:   humanoid.SideRole(side, "Hand"),
		offset: mmath.NewVec3(lr*2, 0, 0),
		children: []*boneSeed{
			buildFingerSeed(side, humanoid.Middle, finger, 0),
			buildFingerSeed(side, humanoid.Index, finger, -spacing),
			buildFingerSeed(side, humanoid.Ring, finger, spacing),
			buildFingerSeed(side, humanoid.Little, finger, spacing*2),
			buildThumbSeed(side, settings.ThumbDrop, thumbStep, -math.Abs(thumbStep)),
		},
	}
	lowerArm := &boneSeed{
		role:     humanoid.SideRole(side, "LowerArm"),
		offset:   mmath.NewVec3(lr*2, 0, 0),
		children: []*boneSeed{hand},
	}
	upperArm := &boneSeed{
		role:     humanoid.SideRole(side, "UpperArm"),
		offset:   mmath.NewVec3(lr, 0, 0),
		children: []*boneSeed{lowerArm},
	}
	return &boneSeed{
		role:     humanoid.SideRole(side, "Shoulder"),
		offset:   mmath.NewVec3(lr*0.1, 0, math.Abs(lr)),
		children: []*boneSeed{upperArm},
	}
}

// buildFingerSeed は指の雛形を組み立てる。節の長さは手首からの基準長の 5:3:2。
func buildFingerSeed(side humanoid.Side, finger humanoid.Finger, length float64, lateral float64) *boneSeed {
	chain := humanoid.FingerChain(side, finger)
	step := length / 10
	distal := &boneSeed{
		role:   chain[2],
		offset: mmath.NewVec3(step*3, 0, 0),
		tip:    mmath.NewVec3(step*2, 0, 0),
	}
	intermediate := &boneSeed{
		role:     chain[1],
		offset:   mmath.NewVec3(step*5, 0, 0),
		children: []*boneSeed{distal},
	}
	return &boneSeed{
		role:     chain[0],
		offset:   mmath.NewVec3(length, lateral, 0),
		children: []*boneSeed{intermediate},
	}
}

// buildThumbSeed は親指の雛形を組み立てる。中手骨は手首から下げ、以降 5:3:2 で伸ばす。
func buildThumbSeed(side humanoid.Side, drop float64, x float64, y float64) *boneSeed {
	chain := humanoid.FingerChain(side, humanoid.Thumb)
	distal := &boneSeed{
		role:   chain[2],
		offset: mmath.NewVec3(x*3, y*3, 0),
		tip:    mmath.NewVec3(x*2, y*2, 0),
	}
	proximal := &boneSeed{
		role:     chain[1],
		offset:   mmath.NewVec3(x*5, y*5, 0),
		children: []*boneSeed{distal},
	}
	return &boneSeed{
		role:     chain[0],
		offset:   mmath.NewVec3(0, 0, -drop),
		children: []*boneSeed{proximal},
	}
}

// buildLegSeed は脚の雛形を組み立てる。脚単位 = 身長の半分/11。
func buildLegSeed(side humanoid.Side, halfHeight float64) *boneSeed {
	unit := halfHeight / 11
	toes := &boneSeed{
		role:   humanoid.SideRole(side, "Toes"),
		offset: mmath.NewVec3(0, -unit, -unit),
		tip:    mmath.NewVec3(0, -unit, 0),
	}
	foot := &boneSeed{
		role:     humanoid.SideRole(side, "Foot"),
		offset:   mmath.NewVec3(0, 0, -unit*5),
		children: []*boneSeed{toes},
	}
	lowerLeg := &boneSeed{
		role:     humanoid.SideRole(side, "LowerLeg"),
		offset:   mmath.NewVec3(0, 0, -unit*5),
		children: []*boneSeed{foot},
	}
	return &boneSeed{
		role:     humanoid.SideRole(side, "UpperLeg"),
		offset:   mmath.NewVec3(side.Sign()*unit, 0, 0),
		children: []*boneSeed{lowerLeg},
	}
}
