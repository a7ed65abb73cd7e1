// 指示: miu200521358
package minteractor

import (
	"github.com/miu200521358/mu_humanoid/pkg/domain/humanoid"
	"github.com/miu200521358/mu_humanoid/pkg/domain/mmath"
	"github.com/miu200521358/mu_humanoid/pkg/domain/skeleton"
)

// buildFingerBend は指1本分の曲げ制御ボーンを作り、各節へ回転を連動させる。
// 根元は制御の回転をそのまま受け、以降の節は制御のYスケールが閾値を超えた分だけ曲がる。
func (b *rigBuilder) buildFingerBend(side humanoid.Side, finger humanoid.Finger) error {
	chain := humanoid.FingerChain(side, finger)
	handRole := humanoid.SideRole(side, "Hand")
	bones, ok := b.requireBones("finger "+string(finger)+side.Suffix(), append([]humanoid.CanonicalRole{handRole}, chain...)...)
	if !ok {
		return nil
	}
	hand, root, middle, tip := bones[0], bones[1], bones[2], bones[3]

	offset := mmath.NewVec3(0, 0, b.settings.BendOffset)
	if finger == humanoid.Thumb {
		offset = mmath.NewVec3(0, -b.settings.BendOffset, 0)
	}
	bendName := BendName(side, finger)
	if err := b.ensureDerived(bendName, hand.Name, root.Head.Added(offset), tip.Tail.Added(offset), root.Roll); err != nil {
		return err
	}

	// 親指も含め曲げ軸のX回転だけを残す。
	locks := skeleton.LockLocation |
		skeleton.RotationLock(skeleton.AxisY) | skeleton.RotationLock(skeleton.AxisZ) |
		skeleton.ScaleLock(skeleton.AxisX) | skeleton.ScaleLock(skeleton.AxisZ)
	if err := b.setPoseControls(bendName, locks); err != nil {
		return err
	}

	if err := b.bind(root.Name, skeleton.NewCopyRotationConstraint(bendName, skeleton.SpaceLocal)); err != nil {
		return err
	}
	if finger == humanoid.Thumb {
		if err := b.bind(middle.Name, b.thumbCoupling(bendName, b.settings.ThumbProximalThreshold)); err != nil {
			return err
		}
		if err := b.bind(tip.Name, b.thumbCoupling(bendName, b.settings.ThumbDistalThreshold)); err != nil {
			return err
		}
	} else {
		if err := b.bind(middle.Name, b.fingerCoupling(bendName, b.settings.FingerIntermediateThreshold)); err != nil {
			return err
		}
		if err := b.bind(tip.Name, b.fingerCoupling(bendName, b.settings.FingerDistalThreshold)); err != nil {
			return err
		}
	}
	return b.assignRig(bendName)
}

// fingerCoupling はX軸のみを閾値ゲート付きで写す回転コピーを返す。
func (b *rigBuilder) fingerCoupling(source string, threshold float64) skeleton.Constraint {
	c := skeleton.NewCopyRotationConstraint(source, skeleton.SpaceLocal)
	c.Axes = skeleton.AxisMask{X: true}
	c.Driver = skeleton.NewGateDriver(source, threshold, b.settings.FingerGateRange)
	return c
}

// thumbCoupling はX軸回転を倍率付きで写す範囲写像を閾値ゲート付きで返す。
func (b *rigBuilder) thumbCoupling(source string, threshold float64) skeleton.Constraint {
	limit := b.settings.ThumbInputLimit
	multiple := b.settings.ThumbMultiple
	c := skeleton.NewTransformConstraint(
		source,
		skeleton.AxisX,
		skeleton.Range{Min: -limit, Max: limit},
		skeleton.Range{Min: -limit * multiple, Max: limit * multiple},
		skeleton.MixBefore,
	)
	c.Driver = skeleton.NewGateDriver(source, threshold, b.settings.ThumbGateRange)
	return c
}

// buildSpread は小指に沿った開き制御を作り、人差し指・薬指・小指の曲げ制御をZ軸で連動させる。
func (b *rigBuilder) buildSpread(side humanoid.Side) error {
	bones, ok := b.requireBones("spread"+side.Suffix(),
		humanoid.SideRole(side, "Hand"),
		humanoid.FingerRole(side, humanoid.Little, "Proximal"),
		humanoid.FingerRole(side, humanoid.Little, "Distal"),
	)
	if !ok {
		return nil
	}
	hand, proximal, distal := bones[0], bones[1], bones[2]

	offset := mmath.NewVec3(0, b.settings.SpreadOffset, b.settings.SpreadOffset)
	spreadName := SpreadName(side)
	if err := b.ensureDerived(spreadName, hand.Name, proximal.Head.Added(offset), distal.Tail.Added(offset), proximal.Roll); err != nil {
		return err
	}
	if err := b.setPoseControls(spreadName, skeleton.RotationLock(skeleton.AxisX)|skeleton.RotationLock(skeleton.AxisY)); err != nil {
		return err
	}

	limit := b.settings.SpreadInputLimit
	for _, target := range []struct {
		finger    humanoid.Finger
		influence float64
	}{
		{humanoid.Index, b.settings.SpreadIndexInfluence},
		{humanoid.Ring, b.settings.SpreadRingInfluence},
		{humanoid.Little, b.settings.SpreadLittleInfluence},
	} {
		bendName := BendName(side, target.finger)
		if _, ok := b.editor.Bone(bendName); !ok {
			continue
		}
		c := skeleton.NewTransformConstraint(
			spreadName,
			skeleton.AxisZ,
			skeleton.Range{Min: -limit, Max: limit},
			skeleton.Range{Min: -limit * target.influence, Max: limit * target.influence},
			skeleton.MixBefore,
		)
		if err := b.bind(bendName, c); err != nil {
			return err
		}
	}
	return b.assignRig(spreadName)
}
