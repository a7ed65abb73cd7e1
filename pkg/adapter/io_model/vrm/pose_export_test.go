// 指示: miu200521358
package vrm

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/miu200521358/mu_humanoid/pkg/domain/humanoid"
	"github.com/miu200521358/mu_humanoid/pkg/domain/mmath"
)

func newPoseFixture() ([]humanoid.RestNode, humanoid.PoseRecord) {
	restNodes := []humanoid.RestNode{
		{
			Role:        humanoid.Hips,
			BoneName:    "Hips",
			Translation: mmath.NewVec3(0, 0, 0.9),
			Rotation:    mmath.NewQuaternion(),
			Children:    []humanoid.CanonicalRole{humanoid.Spine},
		},
		{
			Role:        humanoid.Spine,
			BoneName:    "Spine",
			Parent:      humanoid.Hips,
			Translation: mmath.NewVec3(0, 0.1, 0),
			Rotation:    mmath.NewQuaternion(),
			Children:    []humanoid.CanonicalRole{},
		},
	}
	record := humanoid.NewPoseRecord(map[humanoid.CanonicalRole]mmath.Quaternion{
		humanoid.Hips:  mmath.NewQuaternion(),
		humanoid.Spine: mmath.NewQuaternionFromAxisAngle(mmath.UNIT_X_VEC3, math.Pi/2),
	}, mmath.NewVec3(0.5, 0, 0))
	return restNodes, record
}

// TestBuildPoseDocumentPlacesRootUnderZUpNode は根ノードが Z上補正ノードの子になることを検証する。
func TestBuildPoseDocumentPlacesRootUnderZUpNode(t *testing.T) {
	restNodes, record := newPoseFixture()
	doc, err := BuildPoseDocument(restNodes, record)
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}

	if len(doc.Nodes) != 3 {
		t.Fatalf("node count mismatch: %d", len(doc.Nodes))
	}
	zUp := doc.Nodes[0]
	if zUp.Name != "__zup__" {
		t.Fatalf("first node name mismatch: %s", zUp.Name)
	}
	if diff := cmp.Diff([]int{1}, zUp.Children); diff != "" {
		t.Fatalf("z-up children mismatch (-want +got):\n%s", diff)
	}
	if math.Abs(zUp.Rotation[0]+math.Sqrt2/2) > 1e-12 || math.Abs(zUp.Rotation[3]-math.Sqrt2/2) > 1e-12 {
		t.Fatalf("z-up rotation mismatch: %v", zUp.Rotation)
	}
	if diff := cmp.Diff([]int{2}, doc.Nodes[1].Children); diff != "" {
		t.Fatalf("hips children mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]float64{0, 0, 0.9}, doc.Nodes[1].Translation); diff != "" {
		t.Fatalf("hips translation mismatch (-want +got):\n%s", diff)
	}

	animation := doc.Extensions.VrmAnimation
	wantBones := map[string]PoseNodeRef{"hips": {Node: 1}, "spine": {Node: 2}}
	if diff := cmp.Diff(wantBones, animation.Humanoid.HumanBones); diff != "" {
		t.Fatalf("human bones mismatch (-want +got):\n%s", diff)
	}
	pose := animation.Extras.Pose.Humanoid
	if diff := cmp.Diff([]float64{0.5, 0, 0}, pose.Translation); diff != "" {
		t.Fatalf("translation mismatch (-want +got):\n%s", diff)
	}
	spine := pose.Rotations["spine"]
	if len(spine) != 4 || math.Abs(spine[0]-math.Sqrt2/2) > 1e-12 || math.Abs(spine[3]-math.Sqrt2/2) > 1e-12 {
		t.Fatalf("spine rotation should be [x,y,z,w]: %v", spine)
	}
}

func TestBuildPoseDocumentRejectsBrokenHierarchy(t *testing.T) {
	restNodes, record := newPoseFixture()
	if _, err := BuildPoseDocument(nil, record); err == nil {
		t.Fatalf("expected error for empty nodes")
	}
	if _, err := BuildPoseDocument(restNodes[1:], record); err == nil {
		t.Fatalf("expected error for missing parent")
	}
	dup := append([]humanoid.RestNode{}, restNodes...)
	dup = append(dup, restNodes[1])
	if _, err := BuildPoseDocument(dup, record); err == nil {
		t.Fatalf("expected error for duplicated role")
	}
}

// TestWritePoseWritesGLBAndJSON は拡張子に応じてGLBとJSONを書き分けることを検証する。
func TestWritePoseWritesGLBAndJSON(t *testing.T) {
	restNodes, record := newPoseFixture()
	repository := NewVrmRepository()
	tempDir := t.TempDir()

	glbPath := filepath.Join(tempDir, "out", "pose.vrma")
	if err := repository.WritePose(glbPath, record, restNodes); err != nil {
		t.Fatalf("write glb failed: %v", err)
	}
	glbBytes, err := os.ReadFile(glbPath)
	if err != nil {
		t.Fatalf("read glb failed: %v", err)
	}
	if len(glbBytes)%4 != 0 {
		t.Fatalf("glb length should be 4-byte aligned: %d", len(glbBytes))
	}
	jsonChunk, binChunk, err := parseGLBChunks(glbBytes)
	if err != nil {
		t.Fatalf("parse glb failed: %v", err)
	}
	if len(binChunk) != 0 {
		t.Fatalf("bin chunk should be empty")
	}
	fromGLB := PoseDocument{}
	if err := json.Unmarshal(jsonChunk, &fromGLB); err != nil {
		t.Fatalf("unmarshal glb json failed: %v", err)
	}

	jsonPath := filepath.Join(tempDir, "pose.gltf")
	if err := repository.WritePose(jsonPath, record, restNodes); err != nil {
		t.Fatalf("write json failed: %v", err)
	}
	jsonBytes, err := os.ReadFile(jsonPath)
	if err != nil {
		t.Fatalf("read json failed: %v", err)
	}
	fromJSON := PoseDocument{}
	if err := json.Unmarshal(jsonBytes, &fromJSON); err != nil {
		t.Fatalf("unmarshal json failed: %v", err)
	}

	if diff := cmp.Diff(fromJSON, fromGLB); diff != "" {
		t.Fatalf("documents should match (-json +glb):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"VRMC_vrm_animation", "UNIVRM_pose"}, fromGLB.ExtensionsUsed); diff != "" {
		t.Fatalf("extensions used mismatch (-want +got):\n%s", diff)
	}

	if err := ExportPoseDocument(" ", &fromGLB); err == nil {
		t.Fatalf("expected error for empty path")
	}
	if err := ExportPoseDocument(jsonPath, nil); err == nil {
		t.Fatalf("expected error for nil document")
	}
}
