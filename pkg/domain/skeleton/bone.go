// 指示: miu200521358
package skeleton

import (
	"math"

	"github.com/miu200521358/mu_humanoid/pkg/domain/mmath"
)

// Bone は骨格内の1ボーンを表す。位置は骨格空間(Z上)で保持する。
type Bone struct {
	Name            string
	Head            mmath.Vec3
	Tail            mmath.Vec3
	Roll            float64
	ParentName      string
	Connected       bool
	InheritRotation bool
	Collection      string
	Hidden          bool

	RotationMode RotationMode
	Locks        LockMask
	PoseLocation mmath.Vec3
	PoseRotation mmath.Quaternion
	PoseScale    mmath.Vec3
	Constraints  []Constraint
}

// newBone は既定値のボーンを生成する。
func newBone(name string) *Bone {
	return &Bone{
		Name:            name,
		Tail:            mmath.UNIT_Y_VEC3,
		InheritRotation: true,
		RotationMode:    RotationQuaternion,
		PoseRotation:    mmath.NewQuaternion(),
		PoseScale:       mmath.ONE_VEC3,
	}
}

// Vector は head から tail へのベクトルを返す。
func (b Bone) Vector() mmath.Vec3 {
	return b.Tail.Subed(b.Head)
}

// Length はボーン長を返す。
func (b Bone) Length() float64 {
	return b.Vector().Length()
}

// RestOrientation はボーン局所Y軸を head→tail へ向け、その軸周りに roll を加えた回転を返す。
func (b Bone) RestOrientation() mmath.Quaternion {
	direction := b.Vector().Normalized()
	if direction.IsZero() {
		return mmath.NewQuaternionFromAxisAngle(mmath.UNIT_Y_VEC3, b.Roll)
	}
	align := mmath.NewQuaternionRotationTo(mmath.UNIT_Y_VEC3, direction, mmath.UNIT_Z_VEC3)
	roll := mmath.NewQuaternionFromAxisAngle(direction, b.Roll)
	return roll.Muled(align).Normalized()
}

// RestMatrix は骨格空間でのレスト行列を返す。
func (b Bone) RestMatrix() mmath.Mat4 {
	return b.Head.ToMat4().Muled(b.RestOrientation().ToMat4())
}

// PoseBasis はポーズ値から局所変形行列を返す。
func (b Bone) PoseBasis() mmath.Mat4 {
	return mmath.NewMat4FromTRS(b.PoseLocation, b.PoseRotation, b.PoseScale)
}

// IsRestPose はポーズ値が初期状態か判定する。
func (b Bone) IsRestPose() bool {
	return b.PoseLocation.NearEquals(mmath.ZERO_VEC3, 1e-12) &&
		b.PoseRotation.IsIdent(1e-12) &&
		b.PoseScale.NearEquals(mmath.ONE_VEC3, 1e-12)
}

// Constraint は名前で拘束を探す。
func (b Bone) Constraint(name string) (Constraint, bool) {
	for _, c := range b.Constraints {
		if c.Name == name {
			return c, true
		}
	}
	return Constraint{}, false
}

// upsertConstraint は同名の拘束を置き換え、無ければ末尾へ追加する。
func (b *Bone) upsertConstraint(c Constraint) bool {
	for i := range b.Constraints {
		if b.Constraints[i].Name == c.Name {
			b.Constraints[i] = c
			return false
		}
	}
	b.Constraints = append(b.Constraints, c)
	return true
}

// clone はボーンの独立した複製を返す。
func (b *Bone) clone() *Bone {
	cloned := *b
	cloned.Constraints = make([]Constraint, len(b.Constraints))
	for i, c := range b.Constraints {
		cloned.Constraints[i] = c
		if c.Driver != nil {
			driver := *c.Driver
			cloned.Constraints[i].Driver = &driver
		}
	}
	return &cloned
}

// RollDegrees は roll を度で返す。
func (b Bone) RollDegrees() float64 {
	return mmath.RadToDeg(b.Roll)
}

// NormalizeRoll は roll を (-π, π] に正規化する。
func NormalizeRoll(roll float64) float64 {
	r := math.Mod(roll, 2*math.Pi)
	if r <= -math.Pi {
		r += 2 * math.Pi
	} else if r > math.Pi {
		r -= 2 * math.Pi
	}
	return r
}
