// 指示: miu200521358
package mmath

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Quaternion は回転を表す単位クォータニオン。
type Quaternion mgl64.Quat

// NewQuaternion は恒等回転を返す。
func NewQuaternion() Quaternion {
	return Quaternion(mgl64.QuatIdent())
}

// NewQuaternionByValues は x, y, z, w 順の値からクォータニオンを生成する。
func NewQuaternionByValues(x, y, z, w float64) Quaternion {
	return Quaternion{W: w, V: mgl64.Vec3{x, y, z}}
}

// NewQuaternionFromAxisAngle は回転軸と角度(ラジアン)から生成する。
func NewQuaternionFromAxisAngle(axis Vec3, angle float64) Quaternion {
	n := axis.Normalized()
	if n.IsZero() {
		return NewQuaternion()
	}
	return Quaternion(mgl64.QuatRotate(angle, n.mgl()))
}

// NewQuaternionRotationTo は from を to へ最短回転させるクォータニオンを返す。
// 逆向きの場合は fallbackAxis 周りの180度回転を返す。
func NewQuaternionRotationTo(from, to, fallbackAxis Vec3) Quaternion {
	f := from.Normalized()
	t := to.Normalized()
	if f.IsZero() || t.IsZero() {
		return NewQuaternion()
	}
	if f.Dot(t) < -1+1e-9 {
		return NewQuaternionFromAxisAngle(fallbackAxis, math.Pi)
	}
	return Quaternion(mgl64.QuatBetweenVectors(f.mgl(), t.mgl())).Normalized()
}

// NewQuaternionFromMat4 は行列の回転成分からクォータニオンを抽出する。
// 行列はスケールを含まない前提で、最大対角成分で分岐する標準的な抽出を行う。
func NewQuaternionFromMat4(m Mat4) Quaternion {
	return Quaternion(mgl64.Mat4ToQuat(mgl64.Mat4(m))).Normalized().Canonicalized()
}

// X はx成分を返す。
func (q Quaternion) X() float64 { return q.V[0] }

// Y はy成分を返す。
func (q Quaternion) Y() float64 { return q.V[1] }

// Z はz成分を返す。
func (q Quaternion) Z() float64 { return q.V[2] }

// Muled は q * other を返す。
func (q Quaternion) Muled(other Quaternion) Quaternion {
	return Quaternion(mgl64.Quat(q).Mul(mgl64.Quat(other)))
}

// Inverted は逆回転を返す。
func (q Quaternion) Inverted() Quaternion {
	return Quaternion(mgl64.Quat(q).Inverse())
}

// Normalized は正規化結果を返す。
func (q Quaternion) Normalized() Quaternion {
	return Quaternion(mgl64.Quat(q).Normalize())
}

// Canonicalized は w >= 0 となる同値表現を返す。
func (q Quaternion) Canonicalized() Quaternion {
	if q.W < 0 {
		return Quaternion{W: -q.W, V: q.V.Mul(-1)}
	}
	return q
}

// Rotated はベクトルを回転した結果を返す。
func (q Quaternion) Rotated(v Vec3) Vec3 {
	return vec3FromMgl(mgl64.Quat(q).Rotate(v.mgl()))
}

// ToMat4 は回転行列を返す。
func (q Quaternion) ToMat4() Mat4 {
	return Mat4(mgl64.Quat(q).Normalize().Mat4())
}

// ToRadian は回転角(0..π)を返す。
func (q Quaternion) ToRadian() float64 {
	n := q.Normalized().Canonicalized()
	return 2 * math.Acos(Clamp(n.W, -1, 1))
}

// IsIdent は恒等回転とみなせるか判定する。
func (q Quaternion) IsIdent(epsilon float64) bool {
	return q.NearEquals(NewQuaternion(), epsilon)
}

// NearEquals は同じ回転を表すか判定する。q と -q は同一視する。
func (q Quaternion) NearEquals(other Quaternion, epsilon float64) bool {
	a := q.Canonicalized()
	b := other.Canonicalized()
	return math.Abs(a.W-b.W) <= epsilon &&
		math.Abs(a.V[0]-b.V[0]) <= epsilon &&
		math.Abs(a.V[1]-b.V[1]) <= epsilon &&
		math.Abs(a.V[2]-b.V[2]) <= epsilon
}

// Values は x, y, z, w 順のスライスを返す。
func (q Quaternion) Values() []float64 {
	return []float64{q.V[0], q.V[1], q.V[2], q.W}
}

// String は表示用文字列を返す。
func (q Quaternion) String() string {
	return fmt.Sprintf("[x=%.5f, y=%.5f, z=%.5f, w=%.5f]", q.V[0], q.V[1], q.V[2], q.W)
}
