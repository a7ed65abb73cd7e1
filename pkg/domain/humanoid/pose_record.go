// 指示: miu200521358
package humanoid

import "github.com/miu200521358/mu_humanoid/pkg/domain/mmath"

// PoseRecord は役割ごとの正規化済み回転と、根のみの移動量を保持する。
// 生成後は変更しない値オブジェクトとして扱う。
type PoseRecord struct {
	rotations       map[CanonicalRole]mmath.Quaternion
	rootTranslation mmath.Vec3
}

// NewPoseRecord はポーズ記録を生成する。入力表は複製して保持する。
func NewPoseRecord(rotations map[CanonicalRole]mmath.Quaternion, rootTranslation mmath.Vec3) PoseRecord {
	copied := make(map[CanonicalRole]mmath.Quaternion, len(rotations))
	for role, rotation := range rotations {
		copied[role] = rotation
	}
	return PoseRecord{rotations: copied, rootTranslation: rootTranslation}
}

// Rotation は役割の回転を返す。
func (r PoseRecord) Rotation(role CanonicalRole) (mmath.Quaternion, bool) {
	rotation, ok := r.rotations[role]
	return rotation, ok
}

// RootTranslation は根の移動量を返す。
func (r PoseRecord) RootTranslation() mmath.Vec3 {
	return r.rootTranslation
}

// Roles は記録済み役割をトポロジ順で返す。
func (r PoseRecord) Roles() []CanonicalRole {
	roles := make([]CanonicalRole, 0, len(r.rotations))
	for _, role := range topologyOrder {
		if _, ok := r.rotations[role]; ok {
			roles = append(roles, role)
		}
	}
	return roles
}

// Len は記録数を返す。
func (r PoseRecord) Len() int {
	return len(r.rotations)
}

// RestNode はレスト姿勢の静的ノード階層の1要素を表す。
// 位置と回転は最も近い割り当て済み祖先からの相対値。根は骨格空間基準。
type RestNode struct {
	Role        CanonicalRole
	BoneName    string
	Parent      CanonicalRole
	Translation mmath.Vec3
	Rotation    mmath.Quaternion
	Children    []CanonicalRole
}

// HasParent は親ノードを持つか判定する。
func (n RestNode) HasParent() bool {
	return n.Parent != ""
}
