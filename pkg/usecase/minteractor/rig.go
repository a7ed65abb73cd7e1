// 指示: miu200521358
package minteractor

import (
	"strings"

	"github.com/miu200521358/mu_humanoid/pkg/domain/humanoid"
	"github.com/miu200521358/mu_humanoid/pkg/domain/mmath"
	"github.com/miu200521358/mu_humanoid/pkg/domain/skeleton"
	"github.com/miu200521358/mu_humanoid/pkg/usecase/port/moutput"
)

const (
	// COGBoneName は重心ボーン名。
	COGBoneName = "COG"
	// PelvisBoneName は反転骨盤ボーン名。
	PelvisBoneName = "Pelvis"
)

// sameDirectionEpsilon は2ボーンの向きを同一とみなす許容誤差。
const sameDirectionEpsilon = 1e-6

// bendJointParts は曲げ軸以外の回転を固定する役割名の部分文字列。
var bendJointParts = []string{"LowerArm", "LowerLeg", "Metacarpal", "Proximal", "Intermediate", "Distal"}

// LegIKName は脚IKターゲット名を返す。
func LegIKName(side humanoid.Side) string { return "LegIK" + side.Suffix() }

// LegPoleName は膝の極ターゲット名を返す。
func LegPoleName(side humanoid.Side) string { return "LegPole" + side.Suffix() }

// FootOffsetName は足首回転の受け渡しボーン名を返す。
func FootOffsetName(side humanoid.Side) string { return "FootOffset" + side.Suffix() }

// ArmIKName は腕IKターゲット名を返す。
func ArmIKName(side humanoid.Side) string { return "ArmIK" + side.Suffix() }

// ArmPoleName は肘の極ターゲット名を返す。
func ArmPoleName(side humanoid.Side) string { return "ArmPole" + side.Suffix() }

// BendName は指曲げ制御ボーン名を返す。
func BendName(side humanoid.Side, finger humanoid.Finger) string {
	return "Bend" + string(finger) + side.Suffix()
}

// SpreadName は指開き制御ボーン名を返す。
func SpreadName(side humanoid.Side) string { return "Spread" + side.Suffix() }

// derivedBoneNames はリグ合成で作られる可能性のある全ボーン名を返す。
func derivedBoneNames() map[string]struct{} {
	names := map[string]struct{}{
		RootBoneName:   {},
		COGBoneName:    {},
		PelvisBoneName: {},
	}
	for _, side := range humanoid.Sides {
		for _, name := range []string{
			LegIKName(side), LegPoleName(side), FootOffsetName(side),
			ArmIKName(side), ArmPoleName(side), SpreadName(side),
		} {
			names[name] = struct{}{}
		}
		for _, finger := range humanoid.Fingers {
			names[BendName(side, finger)] = struct{}{}
		}
	}
	return names
}

// isBendJointRole は曲げ軸のみ回転させる関節の役割か判定する。
func isBendJointRole(role humanoid.CanonicalRole) bool {
	for _, part := range bendJointParts {
		if strings.Contains(string(role), part) {
			return true
		}
	}
	return false
}

// SynthesizeRig は割り当て済み骨格へ制御ボーンと拘束を追加する。
// 何度実行しても同じボーン集合と拘束集合になる。
// 編集面がスナップショットに対応している場合、失敗時は実行前の状態へ戻す。
func (uc *HumanoidUsecase) SynthesizeRig(request RigRequest) (*RigResult, error) {
	if request.Editor == nil {
		return nil, newNotSkeletonError("SynthesizeRig")
	}
	if err := uc.rig.Validate(); err != nil {
		return nil, err
	}
	mapping := request.Mapping
	if mapping == nil {
		mapping = humanoid.NewBoneMapping()
	}

	b := &rigBuilder{
		editor:   request.Editor,
		mapping:  mapping,
		settings: uc.rig,
		reporter: request.ProgressReporter,
		derived:  derivedBoneNames(),
		result: &RigResult{
			DerivedBones: make([]string, 0),
			Bindings:     make([]RigBinding, 0),
			Skipped:      make([]humanoid.CanonicalRole, 0),
		},
	}
	for _, role := range []humanoid.CanonicalRole{humanoid.Hips, humanoid.Spine} {
		if _, ok := b.mappedBone(role); !ok {
			return nil, newMandatoryRoleMissingError("SynthesizeRig", role)
		}
	}

	snapshotter, hasSnapshot := request.Editor.(moutput.ISkeletonSnapshotter)
	var snapshot any
	if hasSnapshot {
		var err error
		snapshot, err = snapshotter.Snapshot()
		if err != nil {
			return nil, err
		}
	}

	if err := b.run(); err != nil {
		if hasSnapshot {
			if restoreErr := snapshotter.Restore(snapshot); restoreErr != nil {
				logHumanoidWarn("リグ合成前の状態へ戻せませんでした: %v", restoreErr)
			}
		}
		return nil, err
	}
	logHumanoidInfo("リグ合成完了: derived=%d bindings=%d skipped=%d",
		len(b.result.DerivedBones), len(b.result.Bindings), len(b.result.Skipped))
	return b.result, nil
}

// RigModel はモデルの骨格へリグを合成する。
func (uc *HumanoidUsecase) RigModel(target *humanoid.HumanoidModel) (*RigResult, error) {
	if target == nil || target.Skeleton == nil {
		return nil, newNotSkeletonError("RigModel")
	}
	return uc.SynthesizeRig(RigRequest{Editor: target.Skeleton, Mapping: target.Mapping})
}

// rigBuilder はリグ合成1回分の作業状態を保持する。
type rigBuilder struct {
	editor   moutput.ISkeletonEditor
	mapping  *humanoid.BoneMapping
	settings RigSettings
	reporter IRigProgressReporter
	derived  map[string]struct{}
	result   *RigResult
}

func (b *rigBuilder) run() error {
	if err := b.applyPoseDefaults(); err != nil {
		return err
	}
	b.report(RigProgressEventTypeLocksApplied)

	if err := b.buildRoot(); err != nil {
		return err
	}
	b.report(RigProgressEventTypeRootCreated)
	if err := b.invertPelvis(); err != nil {
		return err
	}
	b.report(RigProgressEventTypePelvisInverted)

	for _, side := range humanoid.Sides {
		if err := b.buildLeg(side); err != nil {
			return err
		}
	}
	b.report(RigProgressEventTypeLegsRigged)
	for _, side := range humanoid.Sides {
		if err := b.buildArm(side); err != nil {
			return err
		}
	}
	b.report(RigProgressEventTypeArmsRigged)
	for _, side := range humanoid.Sides {
		for _, finger := range []humanoid.Finger{humanoid.Index, humanoid.Middle, humanoid.Ring, humanoid.Little, humanoid.Thumb} {
			if err := b.buildFingerBend(side, finger); err != nil {
				return err
			}
		}
	}
	b.report(RigProgressEventTypeFingersRigged)
	for _, side := range humanoid.Sides {
		if err := b.buildSpread(side); err != nil {
			return err
		}
	}
	b.report(RigProgressEventTypeSpreadRigged)

	graph := skeleton.NewDependencyGraph()
	for _, binding := range b.result.Bindings {
		for _, source := range binding.Constraint.Sources() {
			graph.AddEdge(source, binding.Owner, binding.Constraint.Name)
		}
	}
	if _, err := graph.TopologicalOrder(); err != nil {
		return err
	}
	b.result.Graph = graph
	return b.editor.EnsureMode(skeleton.ModePose)
}

// applyPoseDefaults は制御ボーン以外の全ボーンへ回転順とスケール固定を設定する。
// 曲げ関節は曲げ軸(X)以外の回転も固定する。
func (b *rigBuilder) applyPoseDefaults() error {
	if err := b.editor.EnsureMode(skeleton.ModePose); err != nil {
		return err
	}
	for _, name := range b.editor.BoneNames() {
		if _, ok := b.derived[name]; ok {
			continue
		}
		if err := b.editor.SetRotationMode(name, b.settings.RotationMode); err != nil {
			return err
		}
		locks := skeleton.LockScale
		if role, ok := b.mapping.RoleOf(name); ok && isBendJointRole(role) {
			locks = locks.With(skeleton.RotationLock(skeleton.AxisY) | skeleton.RotationLock(skeleton.AxisZ))
		}
		if err := b.editor.SetLocks(name, locks); err != nil {
			return err
		}
	}
	return nil
}

// mappedBone は役割に割り当てられ、骨格に実在するボーンを返す。
func (b *rigBuilder) mappedBone(role humanoid.CanonicalRole) (skeleton.Bone, bool) {
	name, ok := b.mapping.Get(role)
	if !ok {
		return skeleton.Bone{}, false
	}
	return b.editor.Bone(name)
}

// requireBones は部位に必要な役割のボーンを返す。欠けている場合は省略として記録する。
func (b *rigBuilder) requireBones(part string, roles ...humanoid.CanonicalRole) ([]skeleton.Bone, bool) {
	bones := make([]skeleton.Bone, len(roles))
	missing := make([]humanoid.CanonicalRole, 0)
	for i, role := range roles {
		bone, ok := b.mappedBone(role)
		if !ok {
			missing = append(missing, role)
			continue
		}
		bones[i] = bone
	}
	if len(missing) == 0 {
		return bones, true
	}
	for _, role := range missing {
		b.skip(role)
	}
	logHumanoidDebug("リグ合成を省略: part=%s missing=%v", part, missing)
	return nil, false
}

func (b *rigBuilder) skip(role humanoid.CanonicalRole) {
	for _, skipped := range b.result.Skipped {
		if skipped == role {
			return
		}
	}
	b.result.Skipped = append(b.result.Skipped, role)
}

// ensureDerived は制御ボーンを作成または取得し、親と位置を設定する。
func (b *rigBuilder) ensureDerived(name, parentName string, head, tail mmath.Vec3, roll float64) error {
	if err := b.editor.EnsureMode(skeleton.ModeEdit); err != nil {
		return err
	}
	if _, err := b.editor.EnsureBone(name); err != nil {
		return err
	}
	if err := b.editor.SetBoneParent(name, parentName, false); err != nil {
		return err
	}
	if err := b.editor.SetBoneGeometry(name, head, tail, roll); err != nil {
		return err
	}
	for _, existing := range b.result.DerivedBones {
		if existing == name {
			return nil
		}
	}
	b.result.DerivedBones = append(b.result.DerivedBones, name)
	return nil
}

// bind は拘束を名前で上書き登録する。
func (b *rigBuilder) bind(owner string, constraint skeleton.Constraint) error {
	if err := b.editor.EnsureMode(skeleton.ModePose); err != nil {
		return err
	}
	if _, err := b.editor.BindConstraint(owner, constraint); err != nil {
		return err
	}
	for i, binding := range b.result.Bindings {
		if binding.Owner == owner && binding.Constraint.Name == constraint.Name {
			b.result.Bindings[i].Constraint = constraint
			return nil
		}
	}
	b.result.Bindings = append(b.result.Bindings, RigBinding{Owner: owner, Constraint: constraint})
	return nil
}

// setPoseControls は制御ボーンの回転順と固定を設定する。
func (b *rigBuilder) setPoseControls(name string, locks skeleton.LockMask) error {
	if err := b.editor.EnsureMode(skeleton.ModePose); err != nil {
		return err
	}
	if err := b.editor.SetRotationMode(name, b.settings.RotationMode); err != nil {
		return err
	}
	return b.editor.SetLocks(name, locks)
}

// assignRig は制御コレクションへ入れる。
func (b *rigBuilder) assignRig(names ...string) error {
	for _, name := range names {
		if err := b.editor.AssignCollection(name, b.settings.Collection); err != nil {
			return err
		}
	}
	return nil
}

func (b *rigBuilder) report(eventType RigProgressEventType) {
	if b.reporter == nil {
		return
	}
	b.reporter.ReportRigProgress(RigProgressEvent{
		Type:         eventType,
		BoneCount:    len(b.result.DerivedBones),
		SkippedCount: len(b.result.Skipped),
	})
}

// sameDirection は2ベクトルが同じ向きか判定する。
func sameDirection(a, b mmath.Vec3) bool {
	if a.IsZero() || b.IsZero() {
		return false
	}
	return a.Normalized().NearEquals(b.Normalized(), sameDirectionEpsilon)
}
