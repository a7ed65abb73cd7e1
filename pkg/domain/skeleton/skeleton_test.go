// 指示: miu200521358
package skeleton

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/miu200521358/mu_humanoid/pkg/domain/mmath"
	"github.com/miu200521358/mu_humanoid/pkg/shared/base/merr"
)

func newTestArm(t *testing.T) *Skeleton {
	t.Helper()
	s := NewSkeleton("arm")
	if err := s.EnsureMode(ModeEdit); err != nil {
		t.Fatalf("ensure mode failed: %v", err)
	}
	for _, name := range []string{"upper", "lower", "hand"} {
		if _, err := s.EnsureBone(name); err != nil {
			t.Fatalf("ensure bone failed: %v", err)
		}
	}
	mustNoErr(t, s.SetBoneGeometry("upper", mmath.NewVec3(0, 0, 0), mmath.NewVec3(1, 0, 0), 0))
	mustNoErr(t, s.SetBoneParent("lower", "upper", true))
	mustNoErr(t, s.SetBoneGeometry("lower", mmath.NewVec3(1, 0, 0), mmath.NewVec3(2, 0, 0), 0))
	mustNoErr(t, s.SetBoneParent("hand", "lower", true))
	mustNoErr(t, s.SetBoneGeometry("hand", mmath.NewVec3(2, 0, 0), mmath.NewVec3(2.5, 0, 0), 0))
	return s
}

func mustNoErr(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestEnsureModeIsIdempotent(t *testing.T) {
	s := NewSkeleton("empty")
	if s.Mode() != ModePose {
		t.Fatalf("new skeleton should start in pose mode: %s", s.Mode())
	}
	mustNoErr(t, s.EnsureMode(ModeEdit))
	mustNoErr(t, s.EnsureMode(ModeEdit))
	if s.Mode() != ModeEdit {
		t.Fatalf("mode mismatch: %s", s.Mode())
	}
	if err := s.EnsureMode(Mode(9)); err == nil {
		t.Fatalf("expected error for unknown mode")
	}
}

func TestStructuralEditInPoseModeFails(t *testing.T) {
	s := newTestArm(t)
	mustNoErr(t, s.EnsureMode(ModePose))

	_, err := s.EnsureBone("extra")
	if merr.ExtractErrorID(err) != "21003" {
		t.Fatalf("expected error id 21003, got %s", merr.ExtractErrorID(err))
	}
	if s.HasBone("extra") {
		t.Fatalf("bone should not be created in pose mode")
	}
}

func TestBehavioralEditInEditModeFails(t *testing.T) {
	s := newTestArm(t)
	err := s.SetLocks("lower", LockScale)
	if merr.ExtractErrorID(err) != "21003" {
		t.Fatalf("expected error id 21003, got %s", merr.ExtractErrorID(err))
	}
}

func TestConnectedHeadMovesParentTail(t *testing.T) {
	s := newTestArm(t)
	mustNoErr(t, s.SetBoneGeometry("lower", mmath.NewVec3(1, -0.01, 0), mmath.NewVec3(2, 0, 0), 0))

	upper, _ := s.Bone("upper")
	if !upper.Tail.NearEquals(mmath.NewVec3(1, -0.01, 0), 1e-12) {
		t.Fatalf("parent tail should follow connected head: %v", upper.Tail)
	}
}

func TestSetBoneParentRejectsCycle(t *testing.T) {
	s := newTestArm(t)
	err := s.SetBoneParent("upper", "hand", false)
	if merr.ExtractErrorID(err) != "21008" {
		t.Fatalf("expected error id 21008, got %s", merr.ExtractErrorID(err))
	}
}

func TestBindConstraintUpsertsByName(t *testing.T) {
	s := newTestArm(t)
	mustNoErr(t, s.EnsureMode(ModePose))

	created, err := s.BindConstraint("hand", NewCopyRotationConstraint("upper", SpaceWorld))
	mustNoErr(t, err)
	if !created {
		t.Fatalf("first bind should create")
	}
	created, err = s.BindConstraint("hand", NewCopyRotationConstraint("lower", SpaceLocal))
	mustNoErr(t, err)
	if created {
		t.Fatalf("second bind should replace")
	}
	hand, _ := s.Bone("hand")
	if len(hand.Constraints) != 1 || hand.Constraints[0].Target != "lower" {
		t.Fatalf("constraint mismatch: %+v", hand.Constraints)
	}

	lookup := func(name string) Bone {
		bone, _ := s.Bone(name)
		return bone
	}
	if c, ok := lookup("hand").Constraint(ConstraintNameCopyRotation); !ok || c.Target != "lower" {
		t.Fatalf("constraint lookup on a bone copy mismatch: %+v", c)
	}

	_, err = s.BindConstraint("hand", NewCopyRotationConstraint("missing", SpaceLocal))
	if merr.ExtractErrorID(err) != "21004" {
		t.Fatalf("expected error id 21004, got %s", merr.ExtractErrorID(err))
	}
}

func TestSnapshotRestoreDiscardsEdits(t *testing.T) {
	s := newTestArm(t)
	before, err := s.Snapshot()
	mustNoErr(t, err)
	wantBones := s.BoneNames()

	_, err = s.EnsureBone("extra")
	mustNoErr(t, err)
	mustNoErr(t, s.SetBoneGeometry("upper", mmath.NewVec3(5, 5, 5), mmath.NewVec3(6, 5, 5), 1))

	mustNoErr(t, s.Restore(before))
	if diff := cmp.Diff(wantBones, s.BoneNames()); diff != "" {
		t.Fatalf("bone names mismatch (-want +got):\n%s", diff)
	}
	upper, _ := s.Bone("upper")
	if !upper.Head.NearEquals(mmath.ZERO_VEC3, 1e-12) || upper.Roll != 0 {
		t.Fatalf("geometry should be restored: %+v", upper)
	}

	if err := s.Restore("broken"); err == nil {
		t.Fatalf("expected error for foreign snapshot")
	}
}

func TestPoseMatrixEqualsRestMatrixAtRest(t *testing.T) {
	s := newTestArm(t)
	for _, name := range s.BoneNames() {
		rest, err := s.RestMatrix(name)
		mustNoErr(t, err)
		pose, err := s.PoseMatrix(name)
		mustNoErr(t, err)
		if !rest.NearEquals(pose, 1e-9) {
			t.Fatalf("pose should equal rest for %s", name)
		}
	}
}

func TestPoseMatrixPropagatesParentRotation(t *testing.T) {
	s := newTestArm(t)
	mustNoErr(t, s.EnsureMode(ModePose))
	rotation := mmath.NewQuaternionFromAxisAngle(mmath.UNIT_Y_VEC3, math.Pi/2)
	mustNoErr(t, s.SetPoseRotation("upper", rotation))

	pose, err := s.PoseMatrix("hand")
	mustNoErr(t, err)
	upperPose, err := s.PoseMatrix("upper")
	mustNoErr(t, err)
	upperTail := upperPose.MulVec3(mmath.NewVec3(0, 1, 0))
	if !pose.Translation().NearEquals(upperPose.MulVec3(mmath.NewVec3(0, 2, 0)), 1e-9) {
		t.Fatalf("hand head should stay on the rotated chain: %v", pose.Translation())
	}
	if upperTail.Distance(mmath.NewVec3(0, 0, 0)) < 0.999 {
		t.Fatalf("upper tail should keep bone length: %v", upperTail)
	}
}

func TestRestOrientationAppliesRoll(t *testing.T) {
	bone := newBone("roll")
	bone.Head = mmath.ZERO_VEC3
	bone.Tail = mmath.NewVec3(1, 0, 0)
	bone.Roll = math.Pi / 2

	q := bone.RestOrientation()
	if got := q.Rotated(mmath.UNIT_Y_VEC3); !got.NearEquals(mmath.UNIT_X_VEC3, 1e-9) {
		t.Fatalf("local Y should point along the bone: %v", got)
	}
	withoutRoll := newBone("plain")
	withoutRoll.Tail = mmath.NewVec3(1, 0, 0)
	zRolled := q.Rotated(mmath.UNIT_Z_VEC3)
	zPlain := withoutRoll.RestOrientation().Rotated(mmath.UNIT_Z_VEC3)
	if math.Abs(zRolled.Dot(zPlain)) > 1e-9 {
		t.Fatalf("roll should turn local Z by 90 degrees: rolled=%v plain=%v", zRolled, zPlain)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	s := newTestArm(t)
	cloned, err := s.Clone()
	mustNoErr(t, err)
	mustNoErr(t, cloned.SetBoneGeometry("hand", mmath.NewVec3(9, 9, 9), mmath.NewVec3(9, 9, 10), 0))

	hand, _ := s.Bone("hand")
	if hand.Head.NearEquals(mmath.NewVec3(9, 9, 9), 1e-12) {
		t.Fatalf("original should not see clone edits")
	}
}

func TestResetPoseReturnsToRest(t *testing.T) {
	s := newTestArm(t)
	if got := s.Children("upper"); len(got) != 1 || got[0] != "lower" {
		t.Fatalf("children mismatch: %v", got)
	}
	if err := s.ResetPose(); merr.ExtractErrorID(err) == "" {
		t.Fatalf("reset pose in edit mode should fail: %v", err)
	}

	mustNoErr(t, s.EnsureMode(ModePose))
	mustNoErr(t, s.SetPoseRotation("upper", mmath.NewQuaternionFromAxisAngle(mmath.UNIT_Z_VEC3, math.Pi/3)))
	mustNoErr(t, s.SetPoseLocation("hand", mmath.NewVec3(0, 0.1, 0)))
	mustNoErr(t, s.ResetPose())
	for _, name := range s.BoneNames() {
		bone, _ := s.Bone(name)
		if !bone.IsRestPose() {
			t.Fatalf("bone should be at rest after reset: %s", name)
		}
	}
}
