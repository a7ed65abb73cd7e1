// 指示: miu200521358
package minteractor

import (
	"github.com/miu200521358/mu_humanoid/pkg/domain/humanoid"
	"github.com/miu200521358/mu_humanoid/pkg/domain/mmath"
	"github.com/miu200521358/mu_humanoid/pkg/domain/skeleton"
)

// buildRoot は原点の Root と、spine の head に置く COG を作る。
func (b *rigBuilder) buildRoot() error {
	spine, _ := b.mappedBone(humanoid.Spine)
	if err := b.ensureDerived(
		RootBoneName, "",
		mmath.ZERO_VEC3, mmath.NewVec3(0, b.settings.RootLength, 0), 0,
	); err != nil {
		return err
	}
	cogHead := spine.Head
	return b.ensureDerived(
		COGBoneName, RootBoneName,
		cogHead, cogHead.Added(mmath.NewVec3(0, b.settings.COGHandleLength, 0)), 0,
	)
}

// invertPelvis は COG から hips へ向かう Pelvis を作り、hips をその子にする。
// hips は回転・スケールを固定して隠し、spine は親の回転を継承しない。
func (b *rigBuilder) invertPelvis() error {
	hips, _ := b.mappedBone(humanoid.Hips)
	spine, _ := b.mappedBone(humanoid.Spine)
	cog, ok := b.editor.Bone(COGBoneName)
	if !ok {
		return skeleton.NewBoneNotFoundError(COGBoneName)
	}

	head := cog.Head
	tail := hips.Head
	if tail.NearEquals(head, sameDirectionEpsilon) {
		tail = head.Subed(mmath.NewVec3(0, 0, b.settings.CollinearNudge))
	}
	if err := b.ensureDerived(PelvisBoneName, COGBoneName, head, tail, 0); err != nil {
		return err
	}
	if err := b.editor.SetBoneParent(hips.Name, PelvisBoneName, false); err != nil {
		return err
	}
	if err := b.editor.SetInheritRotation(spine.Name, false); err != nil {
		return err
	}

	if err := b.assignRig(RootBoneName, COGBoneName, PelvisBoneName); err != nil {
		return err
	}
	for _, role := range []humanoid.CanonicalRole{
		humanoid.Spine, humanoid.Chest, humanoid.Neck, humanoid.Head, humanoid.LeftToes, humanoid.RightToes,
	} {
		if bone, ok := b.mappedBone(role); ok {
			if err := b.assignRig(bone.Name); err != nil {
				return err
			}
		}
	}
	if err := b.editor.SetHidden(hips.Name, true); err != nil {
		return err
	}

	if err := b.editor.EnsureMode(skeleton.ModePose); err != nil {
		return err
	}
	return b.editor.SetLocks(hips.Name, skeleton.LockRotation|skeleton.LockScale)
}
