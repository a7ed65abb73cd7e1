// 指示: miu200521358
// Package humanoid は人型ボーンの正準分類と、その分類に対するボーン割り当てを提供する。
package humanoid

import (
	"strings"
	"unicode"
)

// CanonicalRole は骨格に依存しない人型ボーンの役割名を表す。
type CanonicalRole string

// 体幹
const (
	Hips       CanonicalRole = "hips"
	Spine      CanonicalRole = "spine"
	Chest      CanonicalRole = "chest"
	UpperChest CanonicalRole = "upperChest"
	Neck       CanonicalRole = "neck"
	Head       CanonicalRole = "head"
)

// 腕
const (
	LeftShoulder  CanonicalRole = "leftShoulder"
	LeftUpperArm  CanonicalRole = "leftUpperArm"
	LeftLowerArm  CanonicalRole = "leftLowerArm"
	LeftHand      CanonicalRole = "leftHand"
	RightShoulder CanonicalRole = "rightShoulder"
	RightUpperArm CanonicalRole = "rightUpperArm"
	RightLowerArm CanonicalRole = "rightLowerArm"
	RightHand     CanonicalRole = "rightHand"
)

// 脚
const (
	LeftUpperLeg  CanonicalRole = "leftUpperLeg"
	LeftLowerLeg  CanonicalRole = "leftLowerLeg"
	LeftFoot      CanonicalRole = "leftFoot"
	LeftToes      CanonicalRole = "leftToes"
	RightUpperLeg CanonicalRole = "rightUpperLeg"
	RightLowerLeg CanonicalRole = "rightLowerLeg"
	RightFoot     CanonicalRole = "rightFoot"
	RightToes     CanonicalRole = "rightToes"
)

// 左手指
const (
	LeftThumbMetacarpal    CanonicalRole = "leftThumbMetacarpal"
	LeftThumbProximal      CanonicalRole = "leftThumbProximal"
	LeftThumbDistal        CanonicalRole = "leftThumbDistal"
	LeftIndexProximal      CanonicalRole = "leftIndexProximal"
	LeftIndexIntermediate  CanonicalRole = "leftIndexIntermediate"
	LeftIndexDistal        CanonicalRole = "leftIndexDistal"
	LeftMiddleProximal     CanonicalRole = "leftMiddleProximal"
	LeftMiddleIntermediate CanonicalRole = "leftMiddleIntermediate"
	LeftMiddleDistal       CanonicalRole = "leftMiddleDistal"
	LeftRingProximal       CanonicalRole = "leftRingProximal"
	LeftRingIntermediate   CanonicalRole = "leftRingIntermediate"
	LeftRingDistal         CanonicalRole = "leftRingDistal"
	LeftLittleProximal     CanonicalRole = "leftLittleProximal"
	LeftLittleIntermediate CanonicalRole = "leftLittleIntermediate"
	LeftLittleDistal       CanonicalRole = "leftLittleDistal"
)

// 右手指
const (
	RightThumbMetacarpal    CanonicalRole = "rightThumbMetacarpal"
	RightThumbProximal      CanonicalRole = "rightThumbProximal"
	RightThumbDistal        CanonicalRole = "rightThumbDistal"
	RightIndexProximal      CanonicalRole = "rightIndexProximal"
	RightIndexIntermediate  CanonicalRole = "rightIndexIntermediate"
	RightIndexDistal        CanonicalRole = "rightIndexDistal"
	RightMiddleProximal     CanonicalRole = "rightMiddleProximal"
	RightMiddleIntermediate CanonicalRole = "rightMiddleIntermediate"
	RightMiddleDistal       CanonicalRole = "rightMiddleDistal"
	RightRingProximal       CanonicalRole = "rightRingProximal"
	RightRingIntermediate   CanonicalRole = "rightRingIntermediate"
	RightRingDistal         CanonicalRole = "rightRingDistal"
	RightLittleProximal     CanonicalRole = "rightLittleProximal"
	RightLittleIntermediate CanonicalRole = "rightLittleIntermediate"
	RightLittleDistal       CanonicalRole = "rightLittleDistal"
)

// Side は左右の区別を表す。
type Side int

const (
	// SideNone は正中線上を表す。
	SideNone Side = iota
	// SideLeft は左を表す。
	SideLeft
	// SideRight は右を表す。
	SideRight
)

// Sides は左右の列挙順。
var Sides = []Side{SideLeft, SideRight}

// String は役割名で使う接頭辞を返す。
func (s Side) String() string {
	switch s {
	case SideLeft:
		return "left"
	case SideRight:
		return "right"
	}
	return ""
}

// Suffix は生成ボーン名に付与する左右接尾辞を返す。
func (s Side) Suffix() string {
	switch s {
	case SideLeft:
		return ".L"
	case SideRight:
		return ".R"
	}
	return ""
}

// Sign はX軸方向の符号を返す。左が正。
func (s Side) Sign() float64 {
	switch s {
	case SideLeft:
		return 1
	case SideRight:
		return -1
	}
	return 0
}

// Finger は指の種類を表す。
type Finger string

const (
	Thumb  Finger = "Thumb"
	Index  Finger = "Index"
	Middle Finger = "Middle"
	Ring   Finger = "Ring"
	Little Finger = "Little"
)

// Fingers は指の列挙順。
var Fingers = []Finger{Thumb, Index, Middle, Ring, Little}

// String は役割名を返す。
func (r CanonicalRole) String() string {
	return string(r)
}

// IsValid は正準分類に含まれる役割か判定する。
func (r CanonicalRole) IsValid() bool {
	_, ok := topologyIndex[r]
	return ok
}

// IsRoot は根の役割か判定する。
func (r CanonicalRole) IsRoot() bool {
	return r == Hips
}

// Side は役割の左右を返す。
func (r CanonicalRole) Side() Side {
	switch {
	case strings.HasPrefix(string(r), "left"):
		return SideLeft
	case strings.HasPrefix(string(r), "right"):
		return SideRight
	}
	return SideNone
}

// Tokens は役割名を大文字・アンダースコア境界で分割する。
// 例: leftLowerArm → [left, Lower, Arm]
func (r CanonicalRole) Tokens() []string {
	return SplitTokens(string(r))
}

// Mirrored は左右反転した役割を返す。正中線上の役割はそのまま返す。
func (r CanonicalRole) Mirrored() CanonicalRole {
	switch r.Side() {
	case SideLeft:
		return CanonicalRole("right" + strings.TrimPrefix(string(r), "left"))
	case SideRight:
		return CanonicalRole("left" + strings.TrimPrefix(string(r), "right"))
	}
	return r
}

// SideRole は左右と部位名から役割を組み立てる。例: (SideLeft, "UpperArm") → leftUpperArm
func SideRole(side Side, part string) CanonicalRole {
	if side == SideNone {
		return CanonicalRole(strings.ToLower(part[:1]) + part[1:])
	}
	return CanonicalRole(side.String() + part)
}

// FingerRole は指の役割を組み立てる。例: (SideRight, Index, "Distal") → rightIndexDistal
func FingerRole(side Side, finger Finger, segment string) CanonicalRole {
	return SideRole(side, string(finger)+segment)
}

// FingerChain は指の根元から先端までの役割を返す。
// 親指は Metacarpal, Proximal, Distal、他は Proximal, Intermediate, Distal。
func FingerChain(side Side, finger Finger) []CanonicalRole {
	if finger == Thumb {
		return []CanonicalRole{
			FingerRole(side, finger, "Metacarpal"),
			FingerRole(side, finger, "Proximal"),
			FingerRole(side, finger, "Distal"),
		}
	}
	return []CanonicalRole{
		FingerRole(side, finger, "Proximal"),
		FingerRole(side, finger, "Intermediate"),
		FingerRole(side, finger, "Distal"),
	}
}

// ParseRole は役割名を解析する。キャメルケースとスネークケース(left_upper_arm)を
// 大文字小文字を無視して受け付ける。
func ParseRole(name string) (CanonicalRole, bool) {
	key := normalizeRoleKey(name)
	if key == "" {
		return "", false
	}
	role, ok := roleByKey[key]
	return role, ok
}

// SplitTokens は名前を大文字・アンダースコア・ドット・空白境界で分割する。
func SplitTokens(name string) []string {
	tokens := make([]string, 0, 4)
	current := make([]rune, 0, len(name))
	flush := func() {
		if len(current) > 0 {
			tokens = append(tokens, string(current))
			current = current[:0]
		}
	}
	for _, c := range name {
		switch {
		case c == '_' || c == '.' || c == ' ' || c == '-':
			flush()
		case unicode.IsUpper(c):
			flush()
			current = append(current, c)
		default:
			current = append(current, c)
		}
	}
	flush()
	return tokens
}

func normalizeRoleKey(name string) string {
	return strings.ToLower(strings.NewReplacer("_", "", "-", "", " ", "").Replace(strings.TrimSpace(name)))
}
