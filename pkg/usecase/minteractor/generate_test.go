// 指示: miu200521358
package minteractor

import (
	"math"
	"testing"

	"github.com/miu200521358/mu_humanoid/pkg/domain/humanoid"
	"github.com/miu200521358/mu_humanoid/pkg/domain/mmath"
	"github.com/miu200521358/mu_humanoid/pkg/domain/model"
	"github.com/miu200521358/mu_humanoid/pkg/domain/skeleton"
	"github.com/miu200521358/mu_humanoid/pkg/shared/base/merr"
)

const generateTestEpsilon = 1e-9

// newGeneratedModel は既定設定で生成した骨格モデルを返す。
func newGeneratedModel(t *testing.T) *humanoid.HumanoidModel {
	t.Helper()
	generated, err := GenerateHumanoid(DefaultGeneratorSettings())
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	return generated
}

// mustMappedBone は役割に割り当てられたボーンを返す。
func mustMappedBone(t *testing.T, target *humanoid.HumanoidModel, role humanoid.CanonicalRole) skeleton.Bone {
	t.Helper()
	name, ok := target.MappedBone(role)
	if !ok {
		t.Fatalf("role is not mapped: %s", role)
	}
	bone, ok := target.Skeleton.Bone(name)
	if !ok {
		t.Fatalf("bone not found: %s", name)
	}
	return bone
}

func TestGenerateHumanoidMapsEveryRole(t *testing.T) {
	generated := newGeneratedModel(t)

	if !generated.Mapping.IsTotal() {
		t.Fatalf("mapping should be total: len=%d", generated.Mapping.Len())
	}
	if got, want := generated.Skeleton.BoneCount(), humanoid.RoleCount()+1; got != want {
		t.Fatalf("bone count mismatch: got=%d want=%d", got, want)
	}
	if stale := generated.StaleRoles(); len(stale) != 0 {
		t.Fatalf("stale roles: %v", stale)
	}
	if generated.Skeleton.Mode() != skeleton.ModePose {
		t.Fatalf("generated skeleton should be in pose mode: %s", generated.Skeleton.Mode())
	}
}

func TestGenerateHumanoidMirrorsSides(t *testing.T) {
	generated := newGeneratedModel(t)

	for _, role := range humanoid.AllRoles() {
		if role.Side() != humanoid.SideLeft {
			continue
		}
		left := mustMappedBone(t, generated, role)
		right := mustMappedBone(t, generated, role.Mirrored())
		mirrored := mmath.NewVec3(-right.Head.X, right.Head.Y, right.Head.Z)
		if !left.Head.NearEquals(mirrored, generateTestEpsilon) {
			t.Fatalf("head is not mirrored: role=%s left=%s right=%s", role, left.Head, right.Head)
		}
		if left.Head.X <= 0 {
			t.Fatalf("left bone should have positive x: role=%s head=%s", role, left.Head)
		}
	}
}

func TestGenerateHumanoidLayout(t *testing.T) {
	generated := newGeneratedModel(t)
	unit := 1.6 / 6 * 2 / 9

	hips := mustMappedBone(t, generated, humanoid.Hips)
	if !hips.Head.NearEquals(mmath.NewVec3(0, 0, 0.8), generateTestEpsilon) {
		t.Fatalf("hips head mismatch: %s", hips.Head)
	}
	if hips.ParentName != RootBoneName {
		t.Fatalf("hips parent mismatch: %s", hips.ParentName)
	}
	chest := mustMappedBone(t, generated, humanoid.Chest)
	neck := mustMappedBone(t, generated, humanoid.Neck)
	if got := neck.Head.Z - chest.Head.Z; math.Abs(got-unit*4) > generateTestEpsilon {
		t.Fatalf("chest to neck span mismatch: got=%v want=%v", got, unit*4)
	}
	head := mustMappedBone(t, generated, humanoid.Head)
	if got := head.Length(); math.Abs(got-1.6/6) > generateTestEpsilon {
		t.Fatalf("head length mismatch: %v", got)
	}

	hand := mustMappedBone(t, generated, humanoid.LeftHand)
	middle := mustMappedBone(t, generated, humanoid.LeftMiddleProximal)
	if !hand.Tail.NearEquals(middle.Head, generateTestEpsilon) {
		t.Fatalf("hand tail should point at middle finger: tail=%s middle=%s", hand.Tail, middle.Head)
	}
	if !middle.Connected {
		t.Fatalf("first finger should be connected")
	}
	index := mustMappedBone(t, generated, humanoid.LeftIndexProximal)
	if index.Connected || math.Abs(index.Head.Y-(-0.015)) > generateTestEpsilon {
		t.Fatalf("index finger mismatch: connected=%t head=%s", index.Connected, index.Head)
	}

	upperLeg := mustMappedBone(t, generated, humanoid.LeftUpperLeg)
	legUnit := 0.8 / 11
	if upperLeg.Connected || !upperLeg.Head.NearEquals(mmath.NewVec3(legUnit, 0, 0.8), generateTestEpsilon) {
		t.Fatalf("upper leg mismatch: connected=%t head=%s", upperLeg.Connected, upperLeg.Head)
	}
	toes := mustMappedBone(t, generated, humanoid.LeftToes)
	if !toes.Tail.NearEquals(toes.Head.Added(mmath.NewVec3(0, -legUnit, 0)), generateTestEpsilon) {
		t.Fatalf("toe tip mismatch: head=%s tail=%s", toes.Head, toes.Tail)
	}
}

func TestGenerateHumanoidNamesAndRolls(t *testing.T) {
	generated := newGeneratedModel(t)

	cases := []struct {
		role humanoid.CanonicalRole
		name string
		roll float64
	}{
		{humanoid.Hips, "Hips", 0},
		{humanoid.UpperChest, "UpperChest", 0},
		{humanoid.LeftUpperArm, "UpperArm.L", 90},
		{humanoid.RightLowerArm, "LowerArm.R", -90},
		{humanoid.LeftThumbMetacarpal, "ThumbMetacarpal.L", -90},
		{humanoid.RightThumbDistal, "ThumbDistal.R", 90},
		{humanoid.LeftLittleIntermediate, "LittleIntermediate.L", 180},
		{humanoid.RightFoot, "Foot.R", 180},
		{humanoid.LeftToes, "Toes.L", 180},
		{humanoid.LeftHand, "Hand.L", 0},
	}
	for _, tc := range cases {
		bone := mustMappedBone(t, generated, tc.role)
		if bone.Name != tc.name {
			t.Fatalf("name mismatch: role=%s got=%s want=%s", tc.role, bone.Name, tc.name)
		}
		if math.Abs(bone.RollDegrees()-tc.roll) > 1e-9 {
			t.Fatalf("roll mismatch: role=%s got=%v want=%v", tc.role, bone.RollDegrees(), tc.roll)
		}
	}
}

func TestGenerateHumanoidRejectsInvalidHeight(t *testing.T) {
	for _, height := range []float64{-1, math.NaN(), math.Inf(1)} {
		settings := DefaultGeneratorSettings()
		settings.StandingHeight = height
		_, err := GenerateHumanoid(settings)
		if err == nil {
			t.Fatalf("expected error for height=%v", height)
		}
		if merr.ExtractErrorID(err) != model.ErrIDInvalidHeight {
			t.Fatalf("error id mismatch: %v", err)
		}
	}
}

func TestGenerateSkeletonUsesSettingsWhenHeightIsZero(t *testing.T) {
	uc := NewHumanoidUsecase(HumanoidUsecaseDeps{Generator: GeneratorSettings{StandingHeight: 2, FingerSpacing: 0.015, ThumbDrop: 0.02}})

	result, err := uc.GenerateSkeleton(0)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	hips := mustMappedBone(t, result.Model, humanoid.Hips)
	if math.Abs(hips.Head.Z-1) > generateTestEpsilon {
		t.Fatalf("hips height mismatch: %s", hips.Head)
	}

	result, err = uc.GenerateSkeleton(1.2)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	hips = mustMappedBone(t, result.Model, humanoid.Hips)
	if math.Abs(hips.Head.Z-0.6) > generateTestEpsilon {
		t.Fatalf("hips height mismatch: %s", hips.Head)
	}
}
