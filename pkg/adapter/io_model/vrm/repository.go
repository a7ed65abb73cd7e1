// 指示: miu200521358
package vrm

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/miu200521358/mu_humanoid/pkg/domain/humanoid"
	"github.com/miu200521358/mu_humanoid/pkg/domain/mmath"
	"github.com/miu200521358/mu_humanoid/pkg/domain/model"
	"github.com/miu200521358/mu_humanoid/pkg/domain/skeleton"
	"github.com/miu200521358/mu_humanoid/pkg/shared/base/logging"
	"github.com/miu200521358/mu_humanoid/pkg/shared/base/merr"
	"gonum.org/v1/gonum/spatial/r3"
)

const (
	glbHeaderLength   = 12
	glbChunkHeadSize  = 8
	glbMagic          = 0x46546C67
	glbJSONChunkType  = 0x4E4F534A
	glbBINChunkType   = 0x004E4942
	glbMinValidLength = glbHeaderLength + glbChunkHeadSize
)

// tailEpsilon は子ノードを tail とみなせる最小距離。
const tailEpsilon = 1e-6

// vrmVersion はVRM拡張のバージョンを表す。
type vrmVersion string

const (
	vrmVersion0 vrmVersion = "0.x"
	vrmVersion1 vrmVersion = "1.0"
)

// LoadProgressEventType はVRM読込進捗イベント種別を表す。
type LoadProgressEventType string

const (
	// LoadProgressEventTypeFileReadComplete はファイル読込完了イベントを表す。
	LoadProgressEventTypeFileReadComplete LoadProgressEventType = "file_read_complete"
	// LoadProgressEventTypeJsonParsed はJSON解析完了イベントを表す。
	LoadProgressEventTypeJsonParsed LoadProgressEventType = "json_parsed"
	// LoadProgressEventTypeSkeletonBuilt は骨格構築完了イベントを表す。
	LoadProgressEventTypeSkeletonBuilt LoadProgressEventType = "skeleton_built"
	// LoadProgressEventTypeCompleted はVRM読込完了イベントを表す。
	LoadProgressEventTypeCompleted LoadProgressEventType = "completed"
)

// LoadProgressEvent はVRM読込進捗イベントを表す。
type LoadProgressEvent struct {
	Type          LoadProgressEventType
	FileSizeBytes int
	NodeCount     int
	BoneCount     int
	MappedCount   int
}

// VrmRepository はVRM/glTF入力から人型モデルを読み込む。
type VrmRepository struct {
	loadProgressReporter func(LoadProgressEvent)
}

// NewVrmRepository はVrmRepositoryを生成する。
func NewVrmRepository() *VrmRepository {
	return &VrmRepository{}
}

// SetLoadProgressReporter はVRM読込進捗受信コールバックを設定する。
func (r *VrmRepository) SetLoadProgressReporter(reporter func(LoadProgressEvent)) {
	if r == nil {
		return
	}
	r.loadProgressReporter = reporter
}

// CanLoad は拡張子に応じて読み込み可否を判定する。
func (r *VrmRepository) CanLoad(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".vrm", ".glb", ".gltf":
		return true
	}
	return false
}

// InferName はパスから表示名を推定する。
func (r *VrmRepository) InferName(path string) string {
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	if ext == "" {
		return base
	}
	return strings.TrimSuffix(base, ext)
}

// Load はVRMを読み込み、ノード階層を骨格に、humanBones をボーン割り当てにする。
// 座標は glTF の Y上から骨格空間の Z上・前方-Y へ変換する。
func (r *VrmRepository) Load(path string) (*humanoid.HumanoidModel, error) {
	if !r.CanLoad(path) {
		return nil, newFormatNotSupportedError("読み込めない拡張子です: %s", nil, path)
	}
	loadTargetName := filepath.Base(path)
	logVrmInfo("VRM読込開始: file=%s", loadTargetName)

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, newParseFailedError("VRMファイルの読み取りに失敗しました: %s", err, path)
	}
	r.reportLoadProgress(LoadProgressEvent{Type: LoadProgressEventTypeFileReadComplete, FileSizeBytes: len(b)})

	jsonChunk := b
	if !strings.EqualFold(filepath.Ext(path), ".gltf") {
		jsonChunk, _, err = parseGLBChunks(b)
		if err != nil {
			return nil, err
		}
	}
	doc := gltfDocument{}
	if err := json.Unmarshal(jsonChunk, &doc); err != nil {
		return nil, newParseFailedError("VRM JSONチャンクの解析に失敗しました", err)
	}
	r.reportLoadProgress(LoadProgressEvent{
		Type:          LoadProgressEventTypeJsonParsed,
		FileSizeBytes: len(b),
		NodeCount:     len(doc.Nodes),
	})
	logVrmInfo("VRM読込ステップ: JSON解析完了 nodes=%d", len(doc.Nodes))

	version := detectVrmVersion(&doc)
	if version == "" {
		return nil, newFormatNotSupportedError("VRM拡張が見つかりません: %s", nil, path)
	}
	humanBones, err := parseHumanBones(&doc, version)
	if err != nil {
		return nil, err
	}
	logVrmInfo("VRM読込ステップ: VRM拡張解析完了 version=%s profile=%s humanBones=%d",
		version, detectProfile(&doc), len(humanBones))

	parentIndexes, err := buildNodeParentIndexes(doc.Nodes)
	if err != nil {
		return nil, err
	}
	worldPositions, err := buildNodeWorldPositions(doc.Nodes, parentIndexes)
	if err != nil {
		return nil, err
	}

	s, nodeToBone, err := buildSkeleton(r.InferName(path), doc.Nodes, parentIndexes, worldPositions, version)
	if err != nil {
		return nil, err
	}
	r.reportLoadProgress(LoadProgressEvent{
		Type:          LoadProgressEventTypeSkeletonBuilt,
		FileSizeBytes: len(b),
		NodeCount:     len(doc.Nodes),
		BoneCount:     s.BoneCount(),
	})

	modelData := humanoid.NewHumanoidModel(r.InferName(path), s)
	for _, bone := range humanBones {
		boneName, ok := nodeToBone[bone.Node]
		if !ok {
			logVrmWarn("humanBone のノードが骨格にありません: bone=%s node=%d", bone.Name, bone.Node)
			continue
		}
		role, ok := resolveHumanBoneRole(bone.Name, version)
		if !ok {
			logVrmDebug("正準分類外の humanBone を無視します: bone=%s", bone.Name)
			continue
		}
		modelData.Mapping.Set(role, boneName)
	}

	r.reportLoadProgress(LoadProgressEvent{
		Type:          LoadProgressEventTypeCompleted,
		FileSizeBytes: len(b),
		NodeCount:     len(doc.Nodes),
		BoneCount:     s.BoneCount(),
		MappedCount:   modelData.Mapping.Len(),
	})
	logVrmInfo("VRM読込完了: file=%s bones=%d mapped=%d", loadTargetName, s.BoneCount(), modelData.Mapping.Len())
	return modelData, nil
}

// reportLoadProgress は読込進捗イベントを通知する。
func (r *VrmRepository) reportLoadProgress(event LoadProgressEvent) {
	if r == nil || r.loadProgressReporter == nil {
		return
	}
	r.loadProgressReporter(event)
}

// logVrmInfo はVRM入出力のINFOログを出力する。
func logVrmInfo(format string, params ...any) {
	logger := logging.DefaultLogger()
	if logger == nil {
		return
	}
	logger.Info(format, params...)
}

// logVrmDebug はVRM入出力のデバッグログを出力する。
func logVrmDebug(format string, params ...any) {
	logger := logging.DefaultLogger()
	if logger == nil {
		return
	}
	logger.Debug(format, params...)
}

// logVrmWarn はVRM入出力の警告ログを出力する。
func logVrmWarn(format string, params ...any) {
	logger := logging.DefaultLogger()
	if logger == nil {
		return
	}
	logger.Warn(format, params...)
}

func newParseFailedError(format string, cause error, params ...any) error {
	return merr.NewError(model.ErrIDParseFailed, cause, format, params...)
}

func newFormatNotSupportedError(format string, cause error, params ...any) error {
	return merr.NewError(model.ErrIDFormatNotSupported, cause, format, params...)
}

// gltfDocument はVRM読込時に必要なglTFトップレベル要素を表す。
type gltfDocument struct {
	Asset          gltfAsset                  `json:"asset"`
	ExtensionsUsed []string                   `json:"extensionsUsed"`
	Nodes          []gltfNode                 `json:"nodes"`
	Extensions     map[string]json.RawMessage `json:"extensions"`
}

// gltfAsset はglTF asset要素を表す。
type gltfAsset struct {
	Version   string `json:"version"`
	Generator string `json:"generator"`
}

// gltfScene はglTF scene要素を表す。
type gltfScene struct {
	Nodes []int `json:"nodes"`
}

// gltfNode はglTF node要素を表す。
type gltfNode struct {
	Name        string    `json:"name"`
	Mesh        *int      `json:"mesh"`
	Children    []int     `json:"children"`
	Matrix      []float64 `json:"matrix"`
	Translation []float64 `json:"translation"`
	Rotation    []float64 `json:"rotation"`
	Scale       []float64 `json:"scale"`
}

// vrm0Extension はVRM0拡張の必要要素を表す。
type vrm0Extension struct {
	ExporterVersion string       `json:"exporterVersion"`
	Humanoid        vrm0Humanoid `json:"humanoid"`
}

// vrm0Humanoid はVRM0 humanoid要素を表す。
type vrm0Humanoid struct {
	HumanBones []vrm0HumanBone `json:"humanBones"`
}

// vrm0HumanBone はVRM0 humanBones要素を表す。
type vrm0HumanBone struct {
	Bone string `json:"bone"`
	Node int    `json:"node"`
}

// vrm1Extension はVRM1拡張の必要要素を表す。
type vrm1Extension struct {
	SpecVersion string       `json:"specVersion"`
	Humanoid    vrm1Humanoid `json:"humanoid"`
}

// vrm1Humanoid はVRM1 humanoid要素を表す。
type vrm1Humanoid struct {
	HumanBones map[string]vrm1HumanBone `json:"humanBones"`
}

// vrm1HumanBone はVRM1 humanBones要素を表す。
type vrm1HumanBone struct {
	Node *int `json:"node"`
}

// humanBoneNode は humanBone 名とノードindexの組を表す。
type humanBoneNode struct {
	Name string
	Node int
}

// parseGLBChunks はGLBバイト列からJSON/BINチャンクを抽出する。
func parseGLBChunks(sourceBytes []byte) ([]byte, []byte, error) {
	if len(sourceBytes) < glbMinValidLength {
		return nil, nil, newParseFailedError("VRMヘッダが不足しています", nil)
	}
	if binary.LittleEndian.Uint32(sourceBytes[0:4]) != glbMagic {
		return nil, nil, newParseFailedError("GLBマジックが不正です", nil)
	}
	if version := binary.LittleEndian.Uint32(sourceBytes[4:8]); version != 2 {
		return nil, nil, newFormatNotSupportedError("GLBバージョンが未対応です: %d", nil, version)
	}
	totalLength := int(binary.LittleEndian.Uint32(sourceBytes[8:12]))
	if totalLength <= 0 || totalLength > len(sourceBytes) {
		return nil, nil, newParseFailedError("GLB全体長が不正です", nil)
	}

	var jsonChunk []byte
	var binChunk []byte
	offset := glbHeaderLength
	for offset+glbChunkHeadSize <= totalLength {
		chunkLength := int(binary.LittleEndian.Uint32(sourceBytes[offset : offset+4]))
		chunkType := binary.LittleEndian.Uint32(sourceBytes[offset+4 : offset+8])
		chunkStart := offset + glbChunkHeadSize
		chunkEnd := chunkStart + chunkLength
		if chunkLength < 0 || chunkEnd > totalLength {
			return nil, nil, newParseFailedError("GLBチャンク長が不正です", nil)
		}
		chunkBytes := sourceBytes[chunkStart:chunkEnd]
		switch chunkType {
		case glbJSONChunkType:
			jsonChunk = append([]byte(nil), chunkBytes...)
		case glbBINChunkType:
			if len(binChunk) == 0 {
				binChunk = append([]byte(nil), chunkBytes...)
			}
		}
		offset = chunkEnd
	}
	if len(jsonChunk) == 0 {
		return nil, nil, newParseFailedError("GLB JSONチャンクが見つかりません", nil)
	}
	return jsonChunk, binChunk, nil
}

// buildNodeParentIndexes はnode配列から親インデックス配列を生成する。
func buildNodeParentIndexes(nodes []gltfNode) ([]int, error) {
	parentIndexes := make([]int, len(nodes))
	for i := range parentIndexes {
		parentIndexes[i] = -1
	}
	for parentIndex, node := range nodes {
		for _, childIndex := range node.Children {
			if childIndex < 0 || childIndex >= len(nodes) {
				return nil, newParseFailedError("node.children のindexが不正です: %d", nil, childIndex)
			}
			if parentIndexes[childIndex] == -1 {
				parentIndexes[childIndex] = parentIndex
			}
		}
	}
	return parentIndexes, nil
}

// buildNodeWorldPositions はnodeのローカル変換からワールド座標を算出する。
func buildNodeWorldPositions(nodes []gltfNode, parents []int) ([]mmath.Vec3, error) {
	worldMats := make([]mmath.Mat4, len(nodes))
	worldPositions := make([]mmath.Vec3, len(nodes))
	state := make([]int, len(nodes))

	for i := range nodes {
		if err := resolveNodeWorldMatrix(nodes, parents, i, state, worldMats, worldPositions); err != nil {
			return nil, err
		}
	}
	return worldPositions, nil
}

// resolveNodeWorldMatrix はnodeのワールド行列を再帰的に解決する。
func resolveNodeWorldMatrix(
	nodes []gltfNode,
	parents []int,
	nodeIndex int,
	state []int,
	worldMats []mmath.Mat4,
	worldPositions []mmath.Vec3,
) error {
	if state[nodeIndex] == 2 {
		return nil
	}
	if state[nodeIndex] == 1 {
		return newParseFailedError("node親子関係に循環があります: %d", nil, nodeIndex)
	}
	state[nodeIndex] = 1
	local, err := nodeLocalMatrix(nodes[nodeIndex])
	if err != nil {
		return err
	}
	parentIndex := parents[nodeIndex]
	if parentIndex >= 0 {
		if err := resolveNodeWorldMatrix(nodes, parents, parentIndex, state, worldMats, worldPositions); err != nil {
			return err
		}
		worldMats[nodeIndex] = worldMats[parentIndex].Muled(local)
	} else {
		worldMats[nodeIndex] = local
	}
	worldPositions[nodeIndex] = worldMats[nodeIndex].Translation()
	state[nodeIndex] = 2
	return nil
}

// nodeLocalMatrix はnode要素からローカル行列を生成する。
func nodeLocalMatrix(node gltfNode) (mmath.Mat4, error) {
	if len(node.Matrix) > 0 {
		if len(node.Matrix) != 16 {
			return mmath.NewMat4(), newParseFailedError("node.matrix の要素数が不正です: %d", nil, len(node.Matrix))
		}
		mat := mmath.NewMat4()
		for i := 0; i < 16; i++ {
			mat[i] = node.Matrix[i]
		}
		return mat, nil
	}

	translation, err := parseVec3(node.Translation, mmath.ZERO_VEC3, "node.translation")
	if err != nil {
		return mmath.NewMat4(), err
	}
	scale, err := parseVec3(node.Scale, mmath.ONE_VEC3, "node.scale")
	if err != nil {
		return mmath.NewMat4(), err
	}
	rotation, err := parseQuaternion(node.Rotation)
	if err != nil {
		return mmath.NewMat4(), err
	}
	return mmath.NewMat4FromTRS(translation, rotation, scale), nil
}

// parseVec3 はスライスをVec3へ変換する。
func parseVec3(values []float64, defaultValue mmath.Vec3, label string) (mmath.Vec3, error) {
	if len(values) == 0 {
		return defaultValue, nil
	}
	if len(values) != 3 {
		return mmath.ZERO_VEC3, newParseFailedError("%s の要素数が不正です: %d", nil, label, len(values))
	}
	return mmath.Vec3{Vec: r3.Vec{X: values[0], Y: values[1], Z: values[2]}}, nil
}

// parseQuaternion はスライスをQuaternionへ変換する。
func parseQuaternion(values []float64) (mmath.Quaternion, error) {
	if len(values) == 0 {
		return mmath.NewQuaternion(), nil
	}
	if len(values) != 4 {
		return mmath.NewQuaternion(), newParseFailedError("node.rotation の要素数が不正です: %d", nil, len(values))
	}
	return mmath.NewQuaternionByValues(values[0], values[1], values[2], values[3]).Normalized(), nil
}

// detectVrmVersion は拡張宣言から優先バージョンを判定する。
func detectVrmVersion(doc *gltfDocument) vrmVersion {
	hasVrm1 := containsIgnoreCase(doc.ExtensionsUsed, "VRMC_vrm")
	hasVrm0 := containsIgnoreCase(doc.ExtensionsUsed, "VRM")
	if doc.Extensions != nil {
		if _, ok := doc.Extensions["VRMC_vrm"]; ok {
			hasVrm1 = true
		}
		if _, ok := doc.Extensions["VRM"]; ok {
			hasVrm0 = true
		}
	}

	// VRM0/1 同時宣言時は VRM1 を優先する。
	if hasVrm1 {
		return vrmVersion1
	}
	if hasVrm0 {
		return vrmVersion0
	}
	return ""
}

// containsIgnoreCase は大文字小文字を無視して要素を検索する。
func containsIgnoreCase(values []string, target string) bool {
	for _, value := range values {
		if strings.EqualFold(value, target) {
			return true
		}
	}
	return false
}

// detectProfile は作成元情報からログ用のプロファイル名を判定する。
func detectProfile(doc *gltfDocument) string {
	exporterVersion := ""
	if ext, err := parseVRM0Extension(doc.Extensions); err == nil && ext != nil {
		exporterVersion = ext.ExporterVersion
	}
	if strings.Contains(strings.ToLower(doc.Asset.Generator), "vroid") ||
		strings.Contains(strings.ToLower(exporterVersion), "vroid") {
		return "vroid"
	}
	return "standard"
}

// parseVRM0Extension はextensionsからVRM0情報を抽出する。
func parseVRM0Extension(extensions map[string]json.RawMessage) (*vrm0Extension, error) {
	if extensions == nil {
		return nil, nil
	}
	raw, ok := extensions["VRM"]
	if !ok {
		return nil, nil
	}
	ext := vrm0Extension{}
	if err := json.Unmarshal(raw, &ext); err != nil {
		return nil, newParseFailedError("VRM0拡張のJSON解析に失敗しました", err)
	}
	return &ext, nil
}

// parseVRM1Extension はextensionsからVRM1情報を抽出する。
func parseVRM1Extension(extensions map[string]json.RawMessage) (*vrm1Extension, error) {
	raw, ok := extensions["VRMC_vrm"]
	if !ok {
		return nil, newFormatNotSupportedError("VRM1拡張が存在しません", nil)
	}
	ext := vrm1Extension{}
	if err := json.Unmarshal(raw, &ext); err != nil {
		return nil, newParseFailedError("VRM1拡張のJSON解析に失敗しました", err)
	}
	return &ext, nil
}

// parseHumanBones はバージョンに応じて humanBones を名前とノードの組へ揃える。
func parseHumanBones(doc *gltfDocument, version vrmVersion) ([]humanBoneNode, error) {
	bones := make([]humanBoneNode, 0)
	if version == vrmVersion1 {
		ext, err := parseVRM1Extension(doc.Extensions)
		if err != nil {
			return nil, err
		}
		for name, bone := range ext.Humanoid.HumanBones {
			if bone.Node == nil {
				continue
			}
			bones = append(bones, humanBoneNode{Name: name, Node: *bone.Node})
		}
		return bones, nil
	}
	ext, err := parseVRM0Extension(doc.Extensions)
	if err != nil {
		return nil, err
	}
	if ext == nil {
		return nil, newFormatNotSupportedError("VRM0拡張の解析に失敗しました", nil)
	}
	for _, bone := range ext.Humanoid.HumanBones {
		bones = append(bones, humanBoneNode{Name: bone.Bone, Node: bone.Node})
	}
	return bones, nil
}

// resolveHumanBoneRole は humanBone 名を正準役割へ変換する。
// VRM0 の親指は Proximal/Intermediate/Distal を Metacarpal/Proximal/Distal へ読み替える。
func resolveHumanBoneRole(name string, version vrmVersion) (humanoid.CanonicalRole, bool) {
	if version == vrmVersion0 {
		switch {
		case strings.HasSuffix(name, "ThumbProximal"):
			name = strings.TrimSuffix(name, "Proximal") + "Metacarpal"
		case strings.HasSuffix(name, "ThumbIntermediate"):
			name = strings.TrimSuffix(name, "Intermediate") + "Proximal"
		}
	}
	return humanoid.ParseRole(name)
}

// convertVrmPositionToSkeleton は glTF の Y上座標を骨格空間の Z上座標へ変換する。
// VRM1 は +Z、VRM0 は -Z を向いているため、いずれも前方が -Y になるように揃える。
func convertVrmPositionToSkeleton(v mmath.Vec3, version vrmVersion) mmath.Vec3 {
	if version == vrmVersion0 {
		return mmath.NewVec3(-v.X, v.Z, v.Y)
	}
	return mmath.NewVec3(v.X, -v.Z, v.Y)
}

// buildSkeleton はメッシュを持たないノードをボーンとして骨格を構築する。
// ノードindexからボーン名への対応も返す。
func buildSkeleton(
	name string,
	nodes []gltfNode,
	parentIndexes []int,
	worldPositions []mmath.Vec3,
	version vrmVersion,
) (*skeleton.Skeleton, map[int]string, error) {
	s := skeleton.NewSkeleton(name)
	if err := s.EnsureMode(skeleton.ModeEdit); err != nil {
		return nil, nil, err
	}

	nodeToBone := make(map[int]string, len(nodes))
	heads := make(map[int]mmath.Vec3, len(nodes))
	usedNames := map[string]int{}
	for nodeIndex, node := range nodes {
		if node.Mesh != nil {
			continue
		}
		boneName := ensureUniqueBoneName(resolveNodeBoneName(nodeIndex, node.Name), usedNames)
		if _, err := s.EnsureBone(boneName); err != nil {
			return nil, nil, err
		}
		nodeToBone[nodeIndex] = boneName
		heads[nodeIndex] = convertVrmPositionToSkeleton(worldPositions[nodeIndex], version)
	}

	for nodeIndex, node := range nodes {
		boneName, ok := nodeToBone[nodeIndex]
		if !ok {
			continue
		}
		parentNodeIndex := nearestBoneAncestor(parentIndexes, nodeToBone, nodeIndex)
		if parentNodeIndex >= 0 {
			if err := s.SetBoneParent(boneName, nodeToBone[parentNodeIndex], false); err != nil {
				return nil, nil, err
			}
		}
		head := heads[nodeIndex]
		tail := resolveTail(node.Children, nodeToBone, heads, head, parentNodeIndex)
		if err := s.SetBoneGeometry(boneName, head, tail, 0); err != nil {
			return nil, nil, err
		}
	}

	if err := s.EnsureMode(skeleton.ModePose); err != nil {
		return nil, nil, err
	}
	return s, nodeToBone, nil
}

// nearestBoneAncestor はボーンになった最も近い祖先ノードindexを返す。無ければ -1。
func nearestBoneAncestor(parentIndexes []int, nodeToBone map[int]string, nodeIndex int) int {
	for parent := parentIndexes[nodeIndex]; parent >= 0; parent = parentIndexes[parent] {
		if _, ok := nodeToBone[parent]; ok {
			return parent
		}
	}
	return -1
}

// resolveTail は先頭の子ボーンの head を tail とする。子が無い場合は親からの延長とする。
func resolveTail(
	children []int,
	nodeToBone map[int]string,
	heads map[int]mmath.Vec3,
	head mmath.Vec3,
	parentNodeIndex int,
) mmath.Vec3 {
	for _, childNodeIndex := range children {
		if _, ok := nodeToBone[childNodeIndex]; !ok {
			continue
		}
		if childHead := heads[childNodeIndex]; childHead.Distance(head) > tailEpsilon {
			return childHead
		}
	}
	if parentNodeIndex >= 0 {
		direction := head.Subed(heads[parentNodeIndex])
		if length := direction.Length(); length > tailEpsilon {
			return head.Added(direction.Normalized().MuledScalar(length * 0.5))
		}
	}
	return head.Added(mmath.NewVec3(0, 0, 0.1))
}

// resolveNodeBoneName はnode名からボーン名を決定する。
func resolveNodeBoneName(nodeIndex int, nodeName string) string {
	trimmed := strings.TrimSpace(nodeName)
	if trimmed != "" {
		return trimmed
	}
	return fmt.Sprintf("node_%03d", nodeIndex)
}

// ensureUniqueBoneName は同名ボーンの重複を回避する。
func ensureUniqueBoneName(name string, used map[string]int) string {
	if used == nil {
		return name
	}
	if _, ok := used[name]; !ok {
		used[name] = 1
		return name
	}
	index := used[name]
	used[name] = index + 1
	return fmt.Sprintf("%s_%d", name, index)
}
