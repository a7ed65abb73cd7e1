// 指示: miu200521358
package minteractor

import (
	"fmt"
	"math"
	"strings"

	"github.com/miu200521358/mu_humanoid/pkg/domain/humanoid"
	"github.com/miu200521358/mu_humanoid/pkg/domain/mmath"
	"github.com/miu200521358/mu_humanoid/pkg/usecase/port/moutput"
)

// rootCorrection は骨格の前方軸を出力形式の前方軸へ合わせる鉛直(Z)軸周り180度回転。
var rootCorrection = mmath.NewQuaternionFromAxisAngle(mmath.UNIT_Z_VEC3, math.Pi)

// poseFrame は1役割分のレスト・ポーズ行列を表す。
type poseFrame struct {
	role     humanoid.CanonicalRole
	boneName string
	rest     mmath.Mat4
	pose     mmath.Mat4
}

// CapturePose は割り当て済みボーンの現在ポーズを役割ごとの回転として取得する。
// 各回転は最も近い割り当て済み祖先に対する、レスト姿勢からの相対回転。
// hips のみ補正回転で挟んだ骨格空間の回転と、単位換算した移動量を記録する。
func (uc *HumanoidUsecase) CapturePose(request PoseRequest) (*PoseResult, error) {
	if request.Reader == nil {
		return nil, newNotSkeletonError("CapturePose")
	}
	metersPerUnit := request.MetersPerUnit
	if metersPerUnit == 0 {
		metersPerUnit = uc.pose.MetersPerUnit
	}
	if err := validateMetersPerUnit(metersPerUnit); err != nil {
		return nil, err
	}
	mapping := request.Mapping
	if mapping == nil {
		return nil, newMandatoryRoleMissingError("CapturePose", humanoid.Hips)
	}

	frames := make(map[humanoid.CanonicalRole]poseFrame)
	skipped := make([]humanoid.CanonicalRole, 0)
	ordered := make([]poseFrame, 0, mapping.Len())
	for _, role := range humanoid.AllRoles() {
		boneName, ok := mapping.Get(role)
		if !ok {
			continue
		}
		frame, ok := readPoseFrame(request.Reader, role, boneName)
		if !ok {
			if role.IsRoot() {
				return nil, newMandatoryRoleMissingError("CapturePose", role)
			}
			logHumanoidWarn("割り当て先ボーンが見つからないため省略します: role=%s bone=%s", role, boneName)
			skipped = append(skipped, role)
			continue
		}
		frames[role] = frame
		ordered = append(ordered, frame)
	}
	if _, ok := frames[humanoid.Hips]; !ok {
		return nil, newMandatoryRoleMissingError("CapturePose", humanoid.Hips)
	}

	rotations := make(map[humanoid.CanonicalRole]mmath.Quaternion, len(ordered))
	restNodes := make([]humanoid.RestNode, 0, len(ordered))
	nodeIndex := make(map[humanoid.CanonicalRole]int, len(ordered))
	var rootTranslation mmath.Vec3
	for _, frame := range ordered {
		node := humanoid.RestNode{Role: frame.role, BoneName: frame.boneName, Children: make([]humanoid.CanonicalRole, 0)}
		ancestor, hasAncestor := nearestMappedAncestor(frames, frame.role)
		if !hasAncestor {
			delta := frame.pose.Rotation().Muled(frame.rest.Rotation().Inverted())
			rotations[frame.role] = normalizeRotation(rootCorrection.Muled(delta).Muled(rootCorrection.Inverted()))
			displacement := frame.pose.Translation().Subed(frame.rest.Translation())
			rootTranslation = rootCorrection.Rotated(displacement).MuledScalar(metersPerUnit)

			translation, rotation, _ := frame.rest.Decompose()
			node.Translation = translation.MuledScalar(metersPerUnit)
			node.Rotation = normalizeRotation(rotation)
		} else {
			parent := frames[ancestor]
			relRest := parent.rest.Inverted().Muled(frame.rest)
			relPose := parent.pose.Inverted().Muled(frame.pose)
			rotations[frame.role] = normalizeRotation(relRest.Rotation().Inverted().Muled(relPose.Rotation()))

			translation, rotation, _ := relRest.Decompose()
			node.Parent = ancestor
			node.Translation = translation.MuledScalar(metersPerUnit)
			node.Rotation = normalizeRotation(rotation)
			restNodes[nodeIndex[ancestor]].Children = append(restNodes[nodeIndex[ancestor]].Children, frame.role)
		}
		nodeIndex[frame.role] = len(restNodes)
		restNodes = append(restNodes, node)
	}

	record := humanoid.NewPoseRecord(rotations, rootTranslation)
	logHumanoidInfo("ポーズ取得完了: roles=%d skipped=%d", record.Len(), len(skipped))
	return &PoseResult{Record: record, RestNodes: restNodes, Skipped: skipped}, nil
}

// CaptureModelPose はモデルの骨格から現在ポーズを取得する。
func (uc *HumanoidUsecase) CaptureModelPose(target *humanoid.HumanoidModel, metersPerUnit float64) (*PoseResult, error) {
	if target == nil || target.Skeleton == nil {
		return nil, newNotSkeletonError("CaptureModelPose")
	}
	return uc.CapturePose(PoseRequest{Reader: target.Skeleton, Mapping: target.Mapping, MetersPerUnit: metersPerUnit})
}

// readPoseFrame はボーンのレスト・ポーズ行列を読む。読めない場合は ok=false。
func readPoseFrame(reader moutput.IPoseReader, role humanoid.CanonicalRole, boneName string) (poseFrame, bool) {
	rest, err := reader.RestMatrix(boneName)
	if err != nil {
		return poseFrame{}, false
	}
	pose, err := reader.PoseMatrix(boneName)
	if err != nil {
		return poseFrame{}, false
	}
	return poseFrame{role: role, boneName: boneName, rest: rest, pose: pose}, true
}

// nearestMappedAncestor は読み取り済みの最も近い祖先役割を返す。
func nearestMappedAncestor(frames map[humanoid.CanonicalRole]poseFrame, role humanoid.CanonicalRole) (humanoid.CanonicalRole, bool) {
	for _, ancestor := range humanoid.Ancestors(role) {
		if _, ok := frames[ancestor]; ok {
			return ancestor, true
		}
	}
	return "", false
}

// normalizeRotation は単位長・w>=0 の四元数へ揃える。
func normalizeRotation(q mmath.Quaternion) mmath.Quaternion {
	return q.Normalized().Canonicalized()
}

// ExportPose はポーズ取得結果を書き出す。writer が nil の場合は既定の書き出し先を使う。
func (uc *HumanoidUsecase) ExportPose(writer moutput.IPoseWriter, path string, result *PoseResult) error {
	if writer == nil {
		writer = uc.poseWriter
	}
	if writer == nil {
		return fmt.Errorf("ポーズ書き出し先が設定されていません")
	}
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("保存先パスが未指定です")
	}
	if result == nil || result.Record.Len() == 0 {
		return fmt.Errorf("書き出すポーズがありません")
	}
	if err := writer.WritePose(path, result.Record, result.RestNodes); err != nil {
		return err
	}
	logHumanoidInfo("ポーズ書き出し完了: path=%s roles=%d", path, result.Record.Len())
	return nil
}
