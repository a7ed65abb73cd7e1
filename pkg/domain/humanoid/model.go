// 指示: miu200521358
package humanoid

import "github.com/miu200521358/mu_humanoid/pkg/domain/skeleton"

// HumanoidModel は骨格と役割割り当ての組を表す。
type HumanoidModel struct {
	Name     string
	Skeleton *skeleton.Skeleton
	Mapping  *BoneMapping
}

// NewHumanoidModel は空の割り当てを持つモデルを生成する。
func NewHumanoidModel(name string, s *skeleton.Skeleton) *HumanoidModel {
	return &HumanoidModel{Name: name, Skeleton: s, Mapping: NewBoneMapping()}
}

// MappedBone は役割に割り当てられ、骨格に実在するボーン名を返す。
func (m *HumanoidModel) MappedBone(role CanonicalRole) (string, bool) {
	if m == nil || m.Skeleton == nil {
		return "", false
	}
	boneName, ok := m.Mapping.Get(role)
	if !ok || !m.Skeleton.HasBone(boneName) {
		return "", false
	}
	return boneName, true
}

// StaleRoles は割り当て先のボーンが骨格に存在しない役割を返す。
func (m *HumanoidModel) StaleRoles() []CanonicalRole {
	stale := make([]CanonicalRole, 0)
	if m == nil || m.Skeleton == nil {
		return stale
	}
	for _, role := range m.Mapping.MappedRoles() {
		boneName, _ := m.Mapping.Get(role)
		if !m.Skeleton.HasBone(boneName) {
			stale = append(stale, role)
		}
	}
	return stale
}
