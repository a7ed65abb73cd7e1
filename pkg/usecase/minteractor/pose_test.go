// 指示: miu200521358
package minteractor

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/miu200521358/mu_humanoid/pkg/domain/humanoid"
	"github.com/miu200521358/mu_humanoid/pkg/domain/mmath"
	"github.com/miu200521358/mu_humanoid/pkg/domain/model"
	"github.com/miu200521358/mu_humanoid/pkg/domain/skeleton"
	"github.com/miu200521358/mu_humanoid/pkg/shared/base/merr"
)

const poseTestEpsilon = 1e-9

func capturePose(t *testing.T, target *humanoid.HumanoidModel, metersPerUnit float64) *PoseResult {
	t.Helper()
	uc := NewHumanoidUsecase(HumanoidUsecaseDeps{})
	result, err := uc.CaptureModelPose(target, metersPerUnit)
	if err != nil {
		t.Fatalf("capture failed: %v", err)
	}
	return result
}

func mustRotation(t *testing.T, record humanoid.PoseRecord, role humanoid.CanonicalRole) mmath.Quaternion {
	t.Helper()
	q, ok := record.Rotation(role)
	if !ok {
		t.Fatalf("rotation missing: %s", role)
	}
	return q
}

func setPoseRotation(t *testing.T, target *humanoid.HumanoidModel, role humanoid.CanonicalRole, q mmath.Quaternion) {
	t.Helper()
	name, ok := target.MappedBone(role)
	if !ok {
		t.Fatalf("role is not mapped: %s", role)
	}
	if err := target.Skeleton.SetPoseRotation(name, q); err != nil {
		t.Fatalf("set pose rotation failed: %v", err)
	}
}

// TestCapturePoseRestIsIdentity はレスト姿勢で全役割が単位回転になることを検証する。
func TestCapturePoseRestIsIdentity(t *testing.T) {
	target := newGeneratedModel(t)
	result := capturePose(t, target, 1)

	if got := result.Record.Len(); got != humanoid.RoleCount() {
		t.Fatalf("record size mismatch: got=%d want=%d", got, humanoid.RoleCount())
	}
	for _, role := range result.Record.Roles() {
		q := mustRotation(t, result.Record, role)
		if !q.IsIdent(poseTestEpsilon) {
			t.Fatalf("rest rotation should be identity: role=%s q=%s", role, q)
		}
		if q.W < 0 {
			t.Fatalf("rotation should be canonical: role=%s q=%s", role, q)
		}
	}
	if !result.Record.RootTranslation().NearEquals(mmath.ZERO_VEC3, poseTestEpsilon) {
		t.Fatalf("root translation should be zero: %s", result.Record.RootTranslation())
	}
	if len(result.Skipped) != 0 {
		t.Fatalf("nothing should be skipped: %v", result.Skipped)
	}
}

// TestCapturePoseParentRotationDoesNotLeakToChild は親の回転が子の記録へ混入しないことを検証する。
func TestCapturePoseParentRotationDoesNotLeakToChild(t *testing.T) {
	target := newGeneratedModel(t)
	bend := mmath.NewQuaternionFromAxisAngle(mmath.UNIT_X_VEC3, mmath.DegToRad(30))
	setPoseRotation(t, target, humanoid.LeftUpperArm, bend)

	result := capturePose(t, target, 1)
	upper := mustRotation(t, result.Record, humanoid.LeftUpperArm)
	if !upper.NearEquals(bend, poseTestEpsilon) {
		t.Fatalf("upper arm rotation mismatch: got=%s want=%s", upper, bend)
	}
	lower := mustRotation(t, result.Record, humanoid.LeftLowerArm)
	if !lower.IsIdent(poseTestEpsilon) {
		t.Fatalf("lower arm should stay identity: %s", lower)
	}
	hand := mustRotation(t, result.Record, humanoid.LeftHand)
	if !hand.IsIdent(poseTestEpsilon) {
		t.Fatalf("hand should stay identity: %s", hand)
	}
}

func TestCapturePoseChildRotation(t *testing.T) {
	target := newGeneratedModel(t)
	setPoseRotation(t, target, humanoid.LeftUpperArm, mmath.NewQuaternionFromAxisAngle(mmath.UNIT_Z_VEC3, mmath.DegToRad(40)))
	bend := mmath.NewQuaternionFromAxisAngle(mmath.UNIT_X_VEC3, mmath.DegToRad(-25))
	setPoseRotation(t, target, humanoid.LeftLowerArm, bend)

	result := capturePose(t, target, 1)
	lower := mustRotation(t, result.Record, humanoid.LeftLowerArm)
	if !lower.NearEquals(bend, poseTestEpsilon) {
		t.Fatalf("lower arm rotation mismatch: got=%s want=%s", lower, bend)
	}
}

// TestCapturePoseSkipsUnmappedIntermediate は未割り当ての中間ボーンの回転が子の役割へ畳み込まれることを検証する。
func TestCapturePoseSkipsUnmappedIntermediate(t *testing.T) {
	target := newGeneratedModel(t)
	upperChestName, _ := target.MappedBone(humanoid.UpperChest)
	target.Mapping.Clear(humanoid.UpperChest)
	angle := mmath.DegToRad(20)
	if err := target.Skeleton.SetPoseRotation(upperChestName, mmath.NewQuaternionFromAxisAngle(mmath.UNIT_X_VEC3, angle)); err != nil {
		t.Fatalf("set pose rotation failed: %v", err)
	}

	result := capturePose(t, target, 1)
	if _, ok := result.Record.Rotation(humanoid.UpperChest); ok {
		t.Fatalf("unmapped role should not be recorded")
	}
	if got, want := result.Record.Len(), humanoid.RoleCount()-1; got != want {
		t.Fatalf("record size mismatch: got=%d want=%d", got, want)
	}
	chest := mustRotation(t, result.Record, humanoid.Chest)
	if !chest.IsIdent(poseTestEpsilon) {
		t.Fatalf("chest should stay identity: %s", chest)
	}
	neck := mustRotation(t, result.Record, humanoid.Neck)
	if got := neck.ToRadian(); math.Abs(got-angle) > 1e-6 {
		t.Fatalf("neck should carry the upper chest rotation: got=%v want=%v", mmath.RadToDeg(got), mmath.RadToDeg(angle))
	}
	for _, node := range result.RestNodes {
		if node.Role == humanoid.Neck && node.Parent != humanoid.Chest {
			t.Fatalf("neck rest parent mismatch: %s", node.Parent)
		}
	}
}

// TestCapturePoseCancelsUnmappedRestOrientation は未割り当ての中間ボーンのレスト向きが子の役割へ漏れないことを検証する。
func TestCapturePoseCancelsUnmappedRestOrientation(t *testing.T) {
	target := newGeneratedModel(t)
	s := target.Skeleton
	upperChestName, _ := target.MappedBone(humanoid.UpperChest)
	target.Mapping.Clear(humanoid.UpperChest)

	if err := s.EnsureMode(skeleton.ModeEdit); err != nil {
		t.Fatalf("ensure mode failed: %v", err)
	}
	upperChest, _ := s.Bone(upperChestName)
	tail := upperChest.Tail.Added(mmath.NewVec3(0, -0.02, 0))
	if err := s.SetBoneGeometry(upperChestName, upperChest.Head, tail, mmath.DegToRad(40)); err != nil {
		t.Fatalf("set geometry failed: %v", err)
	}
	if err := s.EnsureMode(skeleton.ModePose); err != nil {
		t.Fatalf("ensure mode failed: %v", err)
	}
	if rest, _ := s.Bone(upperChestName); rest.RestOrientation().IsIdent(1e-6) {
		t.Fatalf("upper chest rest orientation should not be identity")
	}

	result := capturePose(t, target, 1)
	neck := mustRotation(t, result.Record, humanoid.Neck)
	if !neck.IsIdent(poseTestEpsilon) {
		t.Fatalf("neck should stay identity at rest: %s", neck)
	}

	angle := mmath.DegToRad(15)
	setPoseRotation(t, target, humanoid.Chest, mmath.NewQuaternionFromAxisAngle(mmath.UNIT_X_VEC3, angle))
	result = capturePose(t, target, 1)
	neck = mustRotation(t, result.Record, humanoid.Neck)
	if !neck.IsIdent(poseTestEpsilon) {
		t.Fatalf("neck should not pick up the chest rotation: %s", neck)
	}
	chest := mustRotation(t, result.Record, humanoid.Chest)
	if got := chest.ToRadian(); math.Abs(got-angle) > 1e-6 {
		t.Fatalf("chest rotation mismatch: got=%v want=%v", mmath.RadToDeg(got), mmath.RadToDeg(angle))
	}
}

func TestCapturePoseSkipsStaleMapping(t *testing.T) {
	target := newGeneratedModel(t)
	target.Mapping.Set(humanoid.LeftToes, "Missing")

	result := capturePose(t, target, 1)
	if diff := cmp.Diff([]humanoid.CanonicalRole{humanoid.LeftToes}, result.Skipped); diff != "" {
		t.Fatalf("skipped mismatch (-want +got):\n%s", diff)
	}
	if _, ok := result.Record.Rotation(humanoid.LeftToes); ok {
		t.Fatalf("stale role should not be recorded")
	}
}

// TestCapturePoseRootCorrection は hips の回転と移動が前方軸補正されることを検証する。
func TestCapturePoseRootCorrection(t *testing.T) {
	target := newGeneratedModel(t)
	hipsName, _ := target.MappedBone(humanoid.Hips)
	if err := target.Skeleton.SetPoseLocation(hipsName, mmath.NewVec3(1, 0, 0)); err != nil {
		t.Fatalf("set pose location failed: %v", err)
	}
	setPoseRotation(t, target, humanoid.Hips, mmath.NewQuaternionFromAxisAngle(mmath.UNIT_Y_VEC3, mmath.DegToRad(30)))

	result := capturePose(t, target, 2)
	translation := result.Record.RootTranslation()
	if !translation.NearEquals(mmath.NewVec3(-2, 0, 0), poseTestEpsilon) {
		t.Fatalf("root translation mismatch: %s", translation)
	}

	hips := mustRotation(t, result.Record, humanoid.Hips)
	// hips のローカルY軸は骨格空間の+Z。補正で前方が反転しても鉛直軸周りの回転は保たれる。
	want := mmath.NewQuaternionFromAxisAngle(mmath.UNIT_Z_VEC3, mmath.DegToRad(30))
	if !hips.NearEquals(want, poseTestEpsilon) {
		t.Fatalf("hips rotation mismatch: got=%s want=%s", hips, want)
	}

	setPoseRotation(t, target, humanoid.Hips, mmath.NewQuaternionFromAxisAngle(mmath.UNIT_X_VEC3, mmath.DegToRad(30)))
	result = capturePose(t, target, 2)
	hips = mustRotation(t, result.Record, humanoid.Hips)
	want = mmath.NewQuaternionFromAxisAngle(mmath.UNIT_X_VEC3, mmath.DegToRad(-30))
	if !hips.NearEquals(want, poseTestEpsilon) {
		t.Fatalf("hips rotation mismatch: got=%s want=%s", hips, want)
	}
}

func TestCapturePoseRestNodes(t *testing.T) {
	target := newGeneratedModel(t)
	result := capturePose(t, target, 1)

	if len(result.RestNodes) != humanoid.RoleCount() {
		t.Fatalf("rest node count mismatch: %d", len(result.RestNodes))
	}
	nodes := make(map[humanoid.CanonicalRole]humanoid.RestNode, len(result.RestNodes))
	for _, node := range result.RestNodes {
		nodes[node.Role] = node
	}
	if result.RestNodes[0].Role != humanoid.Hips || result.RestNodes[0].HasParent() {
		t.Fatalf("first rest node should be hips root: %+v", result.RestNodes[0])
	}
	if diff := cmp.Diff(
		[]humanoid.CanonicalRole{humanoid.Spine, humanoid.LeftUpperLeg, humanoid.RightUpperLeg},
		nodes[humanoid.Hips].Children,
	); diff != "" {
		t.Fatalf("hips children mismatch (-want +got):\n%s", diff)
	}

	upper := mustMappedBone(t, target, humanoid.LeftUpperArm)
	lower := nodes[humanoid.LeftLowerArm]
	if lower.Parent != humanoid.LeftUpperArm {
		t.Fatalf("lower arm parent mismatch: %s", lower.Parent)
	}
	if !lower.Translation.NearEquals(mmath.NewVec3(0, upper.Length(), 0), 1e-9) {
		t.Fatalf("lower arm rest translation mismatch: got=%s length=%v", lower.Translation, upper.Length())
	}
	if !lower.Rotation.IsIdent(1e-9) {
		t.Fatalf("lower arm rest rotation should be identity: %s", lower.Rotation)
	}
}

func TestCapturePoseErrors(t *testing.T) {
	uc := NewHumanoidUsecase(HumanoidUsecaseDeps{})

	target := newGeneratedModel(t)
	target.Mapping.Clear(humanoid.Hips)
	if _, err := uc.CaptureModelPose(target, 1); merr.ExtractErrorID(err) != model.ErrIDMandatoryRoleMissing {
		t.Fatalf("missing hips error mismatch: %v", err)
	}

	target = newGeneratedModel(t)
	target.Mapping.Set(humanoid.Hips, "Missing")
	if _, err := uc.CaptureModelPose(target, 1); merr.ExtractErrorID(err) != model.ErrIDMandatoryRoleMissing {
		t.Fatalf("stale hips error mismatch: %v", err)
	}

	target = newGeneratedModel(t)
	for _, scale := range []float64{-1, math.NaN(), math.Inf(1)} {
		if _, err := uc.CaptureModelPose(target, scale); merr.ExtractErrorID(err) != model.ErrIDInvalidScaleFactor {
			t.Fatalf("scale error mismatch: scale=%v err=%v", scale, err)
		}
	}

	if _, err := uc.CapturePose(PoseRequest{}); merr.ExtractErrorID(err) != model.ErrIDNotSkeleton {
		t.Fatalf("nil reader error mismatch: %v", err)
	}
}

// poseWriterStub は書き出し要求を記録するスタブ。
type poseWriterStub struct {
	path      string
	record    humanoid.PoseRecord
	restNodes []humanoid.RestNode
}

func (w *poseWriterStub) WritePose(path string, record humanoid.PoseRecord, restNodes []humanoid.RestNode) error {
	w.path = path
	w.record = record
	w.restNodes = restNodes
	return nil
}

func TestExportPose(t *testing.T) {
	target := newGeneratedModel(t)
	result := capturePose(t, target, 1)
	writer := &poseWriterStub{}
	uc := NewHumanoidUsecase(HumanoidUsecaseDeps{PoseWriter: writer})

	if err := uc.ExportPose(nil, "pose.vrma", result); err != nil {
		t.Fatalf("export failed: %v", err)
	}
	if writer.path != "pose.vrma" || writer.record.Len() != result.Record.Len() || len(writer.restNodes) != len(result.RestNodes) {
		t.Fatalf("writer received unexpected values: path=%s roles=%d nodes=%d", writer.path, writer.record.Len(), len(writer.restNodes))
	}
	if err := uc.ExportPose(nil, "", result); err == nil {
		t.Fatalf("expected error for empty path")
	}
	if err := uc.ExportPose(nil, "pose.vrma", &PoseResult{}); err == nil {
		t.Fatalf("expected error for empty record")
	}
	if err := NewHumanoidUsecase(HumanoidUsecaseDeps{}).ExportPose(nil, "pose.vrma", result); err == nil {
		t.Fatalf("expected error without writer")
	}
}
