// 指示: miu200521358
package vrm

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/miu200521358/mu_humanoid/pkg/domain/humanoid"
)

const (
	exportDirMode  = 0o755
	exportFileMode = 0o644
	// zUpNodeName は骨格空間(Z上)を glTF 空間(Y上)へ戻す最上位ノード名。
	zUpNodeName           = "__zup__"
	vrmAnimationExtension = "VRMC_vrm_animation"
	poseExtraName         = "UNIVRM_pose"
	vrmAnimationSpec      = "1.0"
)

// zUpRotation はX軸周り-90度の回転 [x,y,z,w]。
var zUpRotation = []float64{-math.Sqrt2 / 2, 0, 0, math.Sqrt2 / 2}

// PoseDocument はポーズ記録を載せた VRMアニメーション文書を表す。
type PoseDocument struct {
	Asset          PoseAsset              `json:"asset"`
	Scene          int                    `json:"scene"`
	Scenes         []PoseScene            `json:"scenes"`
	Nodes          []PoseNode             `json:"nodes"`
	ExtensionsUsed []string               `json:"extensionsUsed"`
	Extensions     PoseDocumentExtensions `json:"extensions"`
}

// PoseAsset は glTF asset要素を表す。
type PoseAsset struct {
	Version   string `json:"version"`
	Generator string `json:"generator,omitempty"`
}

// PoseScene は glTF scene要素を表す。
type PoseScene struct {
	Nodes []int `json:"nodes"`
}

// PoseNode はレスト姿勢のノードを表す。
type PoseNode struct {
	Name        string    `json:"name"`
	Children    []int     `json:"children,omitempty"`
	Translation []float64 `json:"translation,omitempty"`
	Rotation    []float64 `json:"rotation,omitempty"`
}

// PoseDocumentExtensions は文書の拡張要素を表す。
type PoseDocumentExtensions struct {
	VrmAnimation PoseVrmAnimation `json:"VRMC_vrm_animation"`
}

// PoseVrmAnimation は VRMC_vrm_animation 拡張を表す。
type PoseVrmAnimation struct {
	SpecVersion string             `json:"specVersion"`
	Humanoid    PoseHumanBones     `json:"humanoid"`
	Extras      PoseAnimationExtra `json:"extras"`
}

// PoseHumanBones は役割ごとのノード参照を表す。
type PoseHumanBones struct {
	HumanBones map[string]PoseNodeRef `json:"humanBones"`
}

// PoseNodeRef はノードindex参照を表す。
type PoseNodeRef struct {
	Node int `json:"node"`
}

// PoseAnimationExtra は拡張の extras を表す。
type PoseAnimationExtra struct {
	Pose PoseExtra `json:"UNIVRM_pose"`
}

// PoseExtra はポーズ値本体を表す。
type PoseExtra struct {
	Humanoid PoseValues `json:"humanoid"`
}

// PoseValues は根の移動量と役割ごとの回転 [x,y,z,w] を表す。
type PoseValues struct {
	Translation []float64            `json:"translation"`
	Rotations   map[string][]float64 `json:"rotations"`
}

// BuildPoseDocument はレストノード階層とポーズ記録から文書を組み立てる。
// ノード0は Z上から Y上へ戻す回転ノードで、レストの根はその子になる。
func BuildPoseDocument(restNodes []humanoid.RestNode, record humanoid.PoseRecord) (*PoseDocument, error) {
	if len(restNodes) == 0 {
		return nil, fmt.Errorf("レストノードがありません")
	}
	nodeIndexes := make(map[humanoid.CanonicalRole]int, len(restNodes))
	for i, node := range restNodes {
		if _, ok := nodeIndexes[node.Role]; ok {
			return nil, fmt.Errorf("レストノードの役割が重複しています: %s", node.Role)
		}
		nodeIndexes[node.Role] = i + 1
	}

	nodes := make([]PoseNode, 0, len(restNodes)+1)
	nodes = append(nodes, PoseNode{Name: zUpNodeName, Rotation: append([]float64(nil), zUpRotation...)})
	humanBones := make(map[string]PoseNodeRef, len(restNodes))
	for _, restNode := range restNodes {
		index := nodeIndexes[restNode.Role]
		if !restNode.HasParent() {
			nodes[0].Children = append(nodes[0].Children, index)
		} else if _, ok := nodeIndexes[restNode.Parent]; !ok {
			return nil, fmt.Errorf("レストノードの親が見つかりません: role=%s parent=%s", restNode.Role, restNode.Parent)
		}
		children := make([]int, 0, len(restNode.Children))
		for _, child := range restNode.Children {
			childIndex, ok := nodeIndexes[child]
			if !ok {
				return nil, fmt.Errorf("レストノードの子が見つかりません: role=%s child=%s", restNode.Role, child)
			}
			children = append(children, childIndex)
		}
		name := restNode.BoneName
		if name == "" {
			name = restNode.Role.String()
		}
		nodes = append(nodes, PoseNode{
			Name:        name,
			Children:    children,
			Translation: restNode.Translation.Values(),
			Rotation:    restNode.Rotation.Values(),
		})
		humanBones[restNode.Role.String()] = PoseNodeRef{Node: index}
	}
	if len(nodes[0].Children) == 0 {
		return nil, fmt.Errorf("レストノードの根がありません")
	}

	rotations := make(map[string][]float64, record.Len())
	for _, role := range record.Roles() {
		rotation, _ := record.Rotation(role)
		rotations[role.String()] = rotation.Values()
	}

	return &PoseDocument{
		Asset:          PoseAsset{Version: "2.0", Generator: "mu_humanoid"},
		Scene:          0,
		Scenes:         []PoseScene{{Nodes: []int{0}}},
		Nodes:          nodes,
		ExtensionsUsed: []string{vrmAnimationExtension, poseExtraName},
		Extensions: PoseDocumentExtensions{
			VrmAnimation: PoseVrmAnimation{
				SpecVersion: vrmAnimationSpec,
				Humanoid:    PoseHumanBones{HumanBones: humanBones},
				Extras: PoseAnimationExtra{Pose: PoseExtra{Humanoid: PoseValues{
					Translation: record.RootTranslation().Values(),
					Rotations:   rotations,
				}}},
			},
		},
	}, nil
}

// Marshal は文書をインデント付きJSONへ変換する。
func (d *PoseDocument) Marshal() ([]byte, error) {
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("ポーズ文書のJSON変換に失敗しました: %w", err)
	}
	return data, nil
}

// ExportPoseDocument は文書を書き出す。拡張子が .gltf/.json ならJSON、それ以外はGLBで書く。
func ExportPoseDocument(path string, doc *PoseDocument) error {
	trimmedPath := strings.TrimSpace(path)
	if trimmedPath == "" {
		return fmt.Errorf("ポーズ出力先パスが未指定です")
	}
	if doc == nil {
		return fmt.Errorf("ポーズ文書が未指定です")
	}
	data, err := doc.Marshal()
	if err != nil {
		return err
	}
	switch strings.ToLower(filepath.Ext(trimmedPath)) {
	case ".gltf", ".json":
	default:
		data, err = buildGLB(data)
		if err != nil {
			return err
		}
	}
	if err := os.MkdirAll(filepath.Dir(trimmedPath), exportDirMode); err != nil {
		return fmt.Errorf("ポーズ出力先ディレクトリの作成に失敗しました: %w", err)
	}
	if err := os.WriteFile(trimmedPath, data, exportFileMode); err != nil {
		return fmt.Errorf("ポーズファイルの書き込みに失敗しました: %w", err)
	}
	logVrmInfo("ポーズ書き出し完了: file=%s nodes=%d", filepath.Base(trimmedPath), len(doc.Nodes))
	return nil
}

// WritePose はポーズ記録をVRMアニメーション文書として書き出す。
func (r *VrmRepository) WritePose(path string, record humanoid.PoseRecord, restNodes []humanoid.RestNode) error {
	doc, err := BuildPoseDocument(restNodes, record)
	if err != nil {
		return err
	}
	return ExportPoseDocument(path, doc)
}

// buildGLB はJSONチャンクのみのGLBバイト列を生成する。
func buildGLB(jsonChunk []byte) ([]byte, error) {
	padded := append([]byte(nil), jsonChunk...)
	for len(padded)%4 != 0 {
		padded = append(padded, ' ')
	}
	totalLength := glbHeaderLength + glbChunkHeadSize + len(padded)

	buf := bytes.NewBuffer(make([]byte, 0, totalLength))
	for _, value := range []uint32{glbMagic, 2, uint32(totalLength), uint32(len(padded)), glbJSONChunkType} {
		if err := binary.Write(buf, binary.LittleEndian, value); err != nil {
			return nil, fmt.Errorf("GLBヘッダの書き込みに失敗しました: %w", err)
		}
	}
	buf.Write(padded)
	return buf.Bytes(), nil
}
