// 指示: miu200521358
package mmath

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"gonum.org/v1/gonum/spatial/r3"
)

// Vec3 は3次元ベクトルを表す。
type Vec3 struct {
	r3.Vec
}

var (
	// ZERO_VEC3 はゼロベクトル。
	ZERO_VEC3 = Vec3{}
	// ONE_VEC3 は全成分1のベクトル。
	ONE_VEC3 = Vec3{Vec: r3.Vec{X: 1, Y: 1, Z: 1}}
	// UNIT_X_VEC3 はX軸単位ベクトル。
	UNIT_X_VEC3 = Vec3{Vec: r3.Vec{X: 1}}
	// UNIT_Y_VEC3 はY軸単位ベクトル。
	UNIT_Y_VEC3 = Vec3{Vec: r3.Vec{Y: 1}}
	// UNIT_Z_VEC3 はZ軸単位ベクトル。
	UNIT_Z_VEC3 = Vec3{Vec: r3.Vec{Z: 1}}
)

// NewVec3 は成分指定でVec3を生成する。
func NewVec3(x, y, z float64) Vec3 {
	return Vec3{Vec: r3.Vec{X: x, Y: y, Z: z}}
}

// NewVec3ByValues はスライスからVec3を生成する。要素数が3でない場合はエラーを返す。
func NewVec3ByValues(values []float64) (Vec3, error) {
	if len(values) != 3 {
		return ZERO_VEC3, fmt.Errorf("Vec3の要素数が不正です: %d", len(values))
	}
	return NewVec3(values[0], values[1], values[2]), nil
}

// Added は加算結果を返す。
func (v Vec3) Added(other Vec3) Vec3 {
	return Vec3{Vec: r3.Add(v.Vec, other.Vec)}
}

// Subed は減算結果を返す。
func (v Vec3) Subed(other Vec3) Vec3 {
	return Vec3{Vec: r3.Sub(v.Vec, other.Vec)}
}

// MuledScalar はスカラー倍を返す。
func (v Vec3) MuledScalar(s float64) Vec3 {
	return Vec3{Vec: r3.Scale(s, v.Vec)}
}

// Negated は符号反転を返す。
func (v Vec3) Negated() Vec3 {
	return v.MuledScalar(-1)
}

// Dot は内積を返す。
func (v Vec3) Dot(other Vec3) float64 {
	return r3.Dot(v.Vec, other.Vec)
}

// Cross は外積を返す。
func (v Vec3) Cross(other Vec3) Vec3 {
	return Vec3{Vec: r3.Cross(v.Vec, other.Vec)}
}

// Length は長さを返す。
func (v Vec3) Length() float64 {
	return r3.Norm(v.Vec)
}

// Distance は2点間距離を返す。
func (v Vec3) Distance(other Vec3) float64 {
	return v.Subed(other).Length()
}

// Normalized は正規化ベクトルを返す。長さ0の場合はゼロベクトルを返す。
func (v Vec3) Normalized() Vec3 {
	if v.Length() == 0 {
		return ZERO_VEC3
	}
	return Vec3{Vec: r3.Unit(v.Vec)}
}

// IsZero は全成分が0か判定する。
func (v Vec3) IsZero() bool {
	return v.X == 0 && v.Y == 0 && v.Z == 0
}

// NearEquals は成分ごとの誤差がepsilon以内か判定する。
func (v Vec3) NearEquals(other Vec3, epsilon float64) bool {
	return math.Abs(v.X-other.X) <= epsilon &&
		math.Abs(v.Y-other.Y) <= epsilon &&
		math.Abs(v.Z-other.Z) <= epsilon
}

// IsParallel は2ベクトルが同じ向きに平行か判定する。
// ゼロベクトルは平行扱いしない。
func (v Vec3) IsParallel(other Vec3, epsilon float64) bool {
	lv := v.Length()
	lo := other.Length()
	if lv == 0 || lo == 0 {
		return false
	}
	if v.Dot(other) <= 0 {
		return false
	}
	return v.Cross(other).Length() <= epsilon*lv*lo
}

// Values は[x, y, z]のスライスを返す。
func (v Vec3) Values() []float64 {
	return []float64{v.X, v.Y, v.Z}
}

// ToMat4 は平行移動行列を返す。
func (v Vec3) ToMat4() Mat4 {
	return Mat4(mgl64.Translate3D(v.X, v.Y, v.Z))
}

// ToScaleMat4 はスケール行列を返す。
func (v Vec3) ToScaleMat4() Mat4 {
	return Mat4(mgl64.Scale3D(v.X, v.Y, v.Z))
}

// String は表示用文字列を返す。
func (v Vec3) String() string {
	return fmt.Sprintf("[x=%.5f, y=%.5f, z=%.5f]", v.X, v.Y, v.Z)
}

func (v Vec3) mgl() mgl64.Vec3 {
	return mgl64.Vec3{v.X, v.Y, v.Z}
}

func vec3FromMgl(v mgl64.Vec3) Vec3 {
	return NewVec3(v[0], v[1], v[2])
}

// RadToDeg はラジアンを度へ変換する。
func RadToDeg(rad float64) float64 {
	return mgl64.RadToDeg(rad)
}

// DegToRad は度をラジアンへ変換する。
func DegToRad(deg float64) float64 {
	return mgl64.DegToRad(deg)
}

// Clamp はmin-maxで値をクランプする。
func Clamp(value float64, min float64, max float64) float64 {
	return mgl64.Clamp(value, min, max)
}
