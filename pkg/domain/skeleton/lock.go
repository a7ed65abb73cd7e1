// 指示: miu200521358
package skeleton

import "strings"

// Axis は局所軸を表す。
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

// String は軸名を返す。
func (a Axis) String() string {
	return [...]string{"X", "Y", "Z"}[a]
}

// LockMask はボーンの移動・回転・スケール各軸の固定状態を表すビット集合。
type LockMask uint16

const (
	LockLocationX LockMask = 1 << iota
	LockLocationY
	LockLocationZ
	LockRotationX
	LockRotationY
	LockRotationZ
	LockScaleX
	LockScaleY
	LockScaleZ
)

const (
	// LockLocation は移動全軸。
	LockLocation = LockLocationX | LockLocationY | LockLocationZ
	// LockRotation は回転全軸。
	LockRotation = LockRotationX | LockRotationY | LockRotationZ
	// LockScale はスケール全軸。
	LockScale = LockScaleX | LockScaleY | LockScaleZ
	// LockNone は固定なし。
	LockNone LockMask = 0
)

// RotationLock は軸の回転固定ビットを返す。
func RotationLock(axis Axis) LockMask {
	return LockRotationX << LockMask(axis)
}

// ScaleLock は軸のスケール固定ビットを返す。
func ScaleLock(axis Axis) LockMask {
	return LockScaleX << LockMask(axis)
}

// Has は指定ビットが全て立っているか判定する。
func (m LockMask) Has(flags LockMask) bool {
	return m&flags == flags
}

// With は指定ビットを加えた値を返す。
func (m LockMask) With(flags LockMask) LockMask {
	return m | flags
}

// Without は指定ビットを除いた値を返す。
func (m LockMask) Without(flags LockMask) LockMask {
	return m &^ flags
}

// FreeRotationAxes は回転可能な軸を返す。
func (m LockMask) FreeRotationAxes() []Axis {
	axes := make([]Axis, 0, 3)
	for _, axis := range []Axis{AxisX, AxisY, AxisZ} {
		if !m.Has(RotationLock(axis)) {
			axes = append(axes, axis)
		}
	}
	return axes
}

// String は "loc:XYZ rot:-YZ scale:XYZ" 形式の表示を返す。
func (m LockMask) String() string {
	group := func(base LockMask) string {
		var sb strings.Builder
		for i, name := range []string{"X", "Y", "Z"} {
			if m.Has(base << LockMask(i)) {
				sb.WriteString(name)
			} else {
				sb.WriteString("-")
			}
		}
		return sb.String()
	}
	return "loc:" + group(LockLocationX) + " rot:" + group(LockRotationX) + " scale:" + group(LockScaleX)
}

// RotationMode はポーズ回転の表現を表す。
type RotationMode string

const (
	RotationQuaternion RotationMode = "QUATERNION"
	RotationXYZ        RotationMode = "XYZ"
	RotationZYX        RotationMode = "ZYX"
)
