// 指示: miu200521358
package humanoid

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/miu200521358/mu_humanoid/pkg/domain/mmath"
)

func TestBoneMappingSetEmptyClearsEntry(t *testing.T) {
	mapping := NewBoneMapping()
	mapping.Set(LeftUpperArm, "upper_arm.L")
	mapping.Set(LeftUpperArm, "")
	if _, ok := mapping.Get(LeftUpperArm); ok {
		t.Fatalf("empty bone name should clear the entry")
	}
	if mapping.Len() != 0 {
		t.Fatalf("mapping should be empty: len=%d", mapping.Len())
	}
}

func TestBoneMappingRevisionTracksMutations(t *testing.T) {
	mapping := NewBoneMapping()
	mapping.Set(Hips, "Hips")
	rev := mapping.Revision()

	mapping.Set(Hips, "Hips")
	if mapping.Revision() != rev {
		t.Fatalf("same value should not bump revision")
	}
	mapping.Clear(Spine)
	if mapping.Revision() != rev {
		t.Fatalf("clearing an absent role should not bump revision")
	}
	mapping.Set(Spine, "Spine")
	if mapping.Revision() == rev {
		t.Fatalf("revision should change on set")
	}
}

func TestBoneMappingRoleOfRebuildsIndexAfterMutation(t *testing.T) {
	mapping := NewBoneMapping()
	mapping.Set(Hips, "pelvis")
	if role, ok := mapping.RoleOf("pelvis"); !ok || role != Hips {
		t.Fatalf("role lookup mismatch: role=%s ok=%t", role, ok)
	}

	mapping.Set(Hips, "Hips")
	if _, ok := mapping.RoleOf("pelvis"); ok {
		t.Fatalf("stale index entry should be gone")
	}
	if role, ok := mapping.RoleOf("Hips"); !ok || role != Hips {
		t.Fatalf("role lookup after mutation mismatch: role=%s ok=%t", role, ok)
	}

	mapping.ClearAll()
	if _, ok := mapping.RoleOf("Hips"); ok {
		t.Fatalf("index should be empty after ClearAll")
	}
}

func TestBoneMappingDuplicateBoneResolvesToEarlierRole(t *testing.T) {
	mapping := NewBoneMapping()
	mapping.Set(Chest, "Chest")
	mapping.Set(UpperChest, "Chest")
	role, ok := mapping.RoleOf("Chest")
	if !ok || role != Chest {
		t.Fatalf("duplicate lookup mismatch: role=%s ok=%t", role, ok)
	}
}

func TestBoneMappingMappedRolesFollowsTopologyOrder(t *testing.T) {
	mapping := NewBoneMapping()
	mapping.Set(LeftFoot, "foot.L")
	mapping.Set(Head, "head")
	mapping.Set(Hips, "hips")

	want := []CanonicalRole{Hips, Head, LeftFoot}
	if diff := cmp.Diff(want, mapping.MappedRoles()); diff != "" {
		t.Fatalf("mapped roles mismatch (-want +got):\n%s", diff)
	}
}

func TestBoneMappingCloneIsIndependent(t *testing.T) {
	mapping := NewBoneMapping()
	mapping.Set(Hips, "hips")
	cloned := mapping.Clone()
	cloned.Set(Hips, "pelvis")

	if got, _ := mapping.Get(Hips); got != "hips" {
		t.Fatalf("original should be untouched: %s", got)
	}
	if diff := cmp.Diff(map[string]string{"hips": "pelvis"}, cloned.ToMap()); diff != "" {
		t.Fatalf("clone mismatch (-want +got):\n%s", diff)
	}
}

func TestNewBoneMappingFromMapReportsUnknownRoles(t *testing.T) {
	mapping, unknown := NewBoneMappingFromMap(map[string]string{
		"left_upper_arm": "Arm_L",
		"tail":           "Tail",
		"hips":           "Hips",
	})
	if mapping.Len() != 2 {
		t.Fatalf("mapping len mismatch: %d", mapping.Len())
	}
	if diff := cmp.Diff([]string{"tail"}, unknown); diff != "" {
		t.Fatalf("unknown mismatch (-want +got):\n%s", diff)
	}
}

func TestPoseRecordCopiesInput(t *testing.T) {
	rotations := map[CanonicalRole]mmath.Quaternion{Hips: mmath.NewQuaternion()}
	record := NewPoseRecord(rotations, mmath.NewVec3(0, 1, 0))
	rotations[Spine] = mmath.NewQuaternion()

	if record.Len() != 1 {
		t.Fatalf("record should not observe later input edits: len=%d", record.Len())
	}
	if _, ok := record.Rotation(Spine); ok {
		t.Fatalf("spine should not be recorded")
	}
	if !record.RootTranslation().NearEquals(mmath.NewVec3(0, 1, 0), 1e-12) {
		t.Fatalf("root translation mismatch: %v", record.RootTranslation())
	}
}
