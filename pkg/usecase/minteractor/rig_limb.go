// 指示: miu200521358
package minteractor

import (
	"math"

	"github.com/miu200521358/mu_humanoid/pkg/domain/humanoid"
	"github.com/miu200521358/mu_humanoid/pkg/domain/mmath"
	"github.com/miu200521358/mu_humanoid/pkg/domain/skeleton"
)

// limbRig は2ボーンIKを張る四肢の構成を表す。
type limbRig struct {
	part       string
	upper      humanoid.CanonicalRole
	lower      humanoid.CanonicalRole
	end        humanoid.CanonicalRole
	ikName     string
	ikParent   string
	poleName   string
	poleParent string
	// poleDistance は中間関節から極ターゲットまでのY方向距離。
	poleDistance float64
	// nudge は一直線の場合に中間関節をずらす量。四肢がY軸沿いの場合はZ方向へずらす。
	nudge float64
}

// buildLeg は脚IKを作る。IKは Root 直下、極ターゲットは膝の前方に置く。
func (b *rigBuilder) buildLeg(side humanoid.Side) error {
	limb := limbRig{
		part:         "leg" + side.Suffix(),
		upper:        humanoid.SideRole(side, "UpperLeg"),
		lower:        humanoid.SideRole(side, "LowerLeg"),
		end:          humanoid.SideRole(side, "Foot"),
		ikName:       LegIKName(side),
		ikParent:     RootBoneName,
		poleName:     LegPoleName(side),
		poleParent:   LegIKName(side),
		poleDistance: b.settings.LegPoleDistance,
		nudge:        -b.settings.CollinearNudge,
	}
	end, ok, err := b.buildLimbChain(limb)
	if err != nil || !ok {
		return err
	}

	ikHead := end.Head
	if err := b.ensureDerived(limb.ikName, limb.ikParent, ikHead, ikHead.Added(mmath.NewVec3(0, b.settings.LegIKLength, 0)), 0); err != nil {
		return err
	}
	if err := b.buildPole(limb); err != nil {
		return err
	}
	offsetName := FootOffsetName(side)
	if err := b.ensureDerived(offsetName, limb.ikName, end.Head, end.Tail, end.Roll); err != nil {
		return err
	}
	return b.bindLimb(limb, end.Name, offsetName)
}

// buildArm は腕IKを作る。IK・極ターゲットとも COG 直下、極ターゲットは肘の後方に置く。
func (b *rigBuilder) buildArm(side humanoid.Side) error {
	limb := limbRig{
		part:         "arm" + side.Suffix(),
		upper:        humanoid.SideRole(side, "UpperArm"),
		lower:        humanoid.SideRole(side, "LowerArm"),
		end:          humanoid.SideRole(side, "Hand"),
		ikName:       ArmIKName(side),
		ikParent:     COGBoneName,
		poleName:     ArmPoleName(side),
		poleParent:   COGBoneName,
		poleDistance: b.settings.ArmPoleDistance,
		nudge:        b.settings.CollinearNudge,
	}
	end, ok, err := b.buildLimbChain(limb)
	if err != nil || !ok {
		return err
	}

	if err := b.ensureDerived(limb.ikName, limb.ikParent, end.Head, end.Tail, end.Roll); err != nil {
		return err
	}
	if err := b.buildPole(limb); err != nil {
		return err
	}
	return b.bindLimb(limb, end.Name, limb.ikName)
}

// buildLimbChain は四肢の役割を解決し、上下のボーンが同じ向きなら中間関節を少しずらす。
// 末端ボーンを返す。役割が欠けている場合は ok=false。
func (b *rigBuilder) buildLimbChain(limb limbRig) (skeleton.Bone, bool, error) {
	bones, ok := b.requireBones(limb.part, limb.upper, limb.lower, limb.end)
	if !ok {
		return skeleton.Bone{}, false, nil
	}
	upper, lower := bones[0], bones[1]
	if sameDirection(upper.Vector(), lower.Vector()) {
		if err := b.editor.EnsureMode(skeleton.ModeEdit); err != nil {
			return skeleton.Bone{}, false, err
		}
		head := lower.Head.Added(nudgeAxis(upper.Vector()).MuledScalar(limb.nudge))
		if err := b.editor.SetBoneGeometry(lower.Name, head, lower.Tail, lower.Roll); err != nil {
			return skeleton.Bone{}, false, err
		}
		logHumanoidDebug("一直線の関節をずらしました: bone=%s nudge=%v", lower.Name, limb.nudge)
	}
	end, ok := b.mappedBone(limb.end)
	if !ok {
		return skeleton.Bone{}, false, skeleton.NewBoneNotFoundError(bones[2].Name)
	}
	return end, true, nil
}

// nudgeAxis は関節をずらす向きを返す。Y軸と平行な四肢では四肢に垂直なZ軸を使う。
func nudgeAxis(direction mmath.Vec3) mmath.Vec3 {
	normalized := direction.Normalized()
	if math.Abs(normalized.Dot(mmath.UNIT_Y_VEC3)) > 1-sameDirectionEpsilon {
		return mmath.UNIT_Z_VEC3
	}
	return mmath.UNIT_Y_VEC3
}

// buildPole は中間関節(ずらし後)の前後に極ターゲットを置く。
func (b *rigBuilder) buildPole(limb limbRig) error {
	lower, ok := b.mappedBone(limb.lower)
	if !ok {
		return skeleton.NewBoneNotFoundError(string(limb.lower))
	}
	direction := math.Copysign(1, limb.poleDistance)
	head := lower.Head.Added(mmath.NewVec3(0, limb.poleDistance, 0))
	tail := head.Added(mmath.NewVec3(0, direction*b.settings.PoleLength, 0))
	return b.ensureDerived(limb.poleName, limb.poleParent, head, tail, 0)
}

// bindLimb は中間関節へIK、末端へ回転コピーを張る。
func (b *rigBuilder) bindLimb(limb limbRig, endName string, rotationSource string) error {
	lower, ok := b.mappedBone(limb.lower)
	if !ok {
		return skeleton.NewBoneNotFoundError(string(limb.lower))
	}
	ik := skeleton.NewIKConstraint(limb.ikName, limb.poleName, mmath.DegToRad(b.settings.PoleAngle), b.settings.IKChainLength)
	if err := b.bind(lower.Name, ik); err != nil {
		return err
	}
	if err := b.bind(endName, skeleton.NewCopyRotationConstraint(rotationSource, skeleton.SpaceWorld)); err != nil {
		return err
	}
	return b.assignRig(limb.ikName, limb.poleName)
}
