// 指示: miu200521358
package mmath

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Mat4 は列優先の4x4行列を表す。
type Mat4 mgl64.Mat4

// NewMat4 は単位行列を返す。
func NewMat4() Mat4 {
	return Mat4(mgl64.Ident4())
}

// NewMat4FromTRS は移動・回転・スケールから行列を合成する。
func NewMat4FromTRS(translation Vec3, rotation Quaternion, scale Vec3) Mat4 {
	return translation.ToMat4().Muled(rotation.ToMat4()).Muled(scale.ToScaleMat4())
}

// Muled は m * other を返す。
func (m Mat4) Muled(other Mat4) Mat4 {
	return Mat4(mgl64.Mat4(m).Mul4(mgl64.Mat4(other)))
}

// Inverted は逆行列を返す。特異行列の場合はゼロ行列となる。
func (m Mat4) Inverted() Mat4 {
	return Mat4(mgl64.Mat4(m).Inv())
}

// Translation は移動成分を返す。
func (m Mat4) Translation() Vec3 {
	return NewVec3(m[12], m[13], m[14])
}

// MulVec3 は点を変換した結果を返す。
func (m Mat4) MulVec3(v Vec3) Vec3 {
	r := mgl64.Mat4(m).Mul4x1(mgl64.Vec4{v.X, v.Y, v.Z, 1})
	return NewVec3(r[0], r[1], r[2])
}

// Decompose は移動・回転・スケールへ分解する。
// 行列式が負の場合はX軸スケールを反転して回転を正規直交に保つ。
func (m Mat4) Decompose() (Vec3, Quaternion, Vec3) {
	translation := m.Translation()
	mm := mgl64.Mat4(m)
	c0 := mm.Col(0).Vec3()
	c1 := mm.Col(1).Vec3()
	c2 := mm.Col(2).Vec3()
	scale := NewVec3(c0.Len(), c1.Len(), c2.Len())
	if mm.Mat3().Det() < 0 {
		scale.X = -scale.X
	}

	rot := mgl64.Ident4()
	for col, c := range []mgl64.Vec3{c0, c1, c2} {
		s := []float64{scale.X, scale.Y, scale.Z}[col]
		if math.Abs(s) < 1e-12 {
			continue
		}
		for row := 0; row < 3; row++ {
			rot[col*4+row] = c[row] / s
		}
	}
	return translation, NewQuaternionFromMat4(Mat4(rot)), scale
}

// Rotation は回転成分を返す。
func (m Mat4) Rotation() Quaternion {
	_, q, _ := m.Decompose()
	return q
}

// NearEquals は成分ごとの誤差がepsilon以内か判定する。
func (m Mat4) NearEquals(other Mat4, epsilon float64) bool {
	for i := range m {
		if math.Abs(m[i]-other[i]) > epsilon {
			return false
		}
	}
	return true
}
