// 指示: miu200521358
package humanoid

import "sort"

// BoneMapping は正準役割から実ボーン名への疎な割り当てを表す。
// 同一ボーン名を複数役割へ割り当てることは禁止しない。
type BoneMapping struct {
	entries  map[CanonicalRole]string
	revision uint64

	indexRevision uint64
	indexed       bool
	roleByBone    map[string]CanonicalRole
}

// NewBoneMapping は空の割り当てを生成する。
func NewBoneMapping() *BoneMapping {
	return &BoneMapping{entries: map[CanonicalRole]string{}}
}

// NewBoneMappingFromMap は役割名→ボーン名の表から割り当てを生成する。
// 未知の役割名は無視し、その名前を返す。
func NewBoneMappingFromMap(values map[string]string) (*BoneMapping, []string) {
	mapping := NewBoneMapping()
	unknown := make([]string, 0)
	for name, boneName := range values {
		role, ok := ParseRole(name)
		if !ok {
			unknown = append(unknown, name)
			continue
		}
		mapping.Set(role, boneName)
	}
	sort.Strings(unknown)
	return mapping, unknown
}

// Get は役割に割り当てられたボーン名を返す。
func (m *BoneMapping) Get(role CanonicalRole) (string, bool) {
	mustKnown(role)
	if m == nil {
		return "", false
	}
	boneName, ok := m.entries[role]
	return boneName, ok
}

// Set は役割にボーン名を割り当てる。空文字は割り当て解除として扱う。
func (m *BoneMapping) Set(role CanonicalRole, boneName string) {
	mustKnown(role)
	if boneName == "" {
		m.Clear(role)
		return
	}
	if current, ok := m.entries[role]; ok && current == boneName {
		return
	}
	if m.entries == nil {
		m.entries = map[CanonicalRole]string{}
	}
	m.entries[role] = boneName
	m.revision++
}

// Clear は役割の割り当てを解除する。
func (m *BoneMapping) Clear(role CanonicalRole) {
	mustKnown(role)
	if _, ok := m.entries[role]; !ok {
		return
	}
	delete(m.entries, role)
	m.revision++
}

// ClearAll は全割り当てを解除する。
func (m *BoneMapping) ClearAll() {
	if len(m.entries) == 0 {
		return
	}
	m.entries = map[CanonicalRole]string{}
	m.revision++
}

// RoleOf はボーン名に割り当てられた役割を返す。
// 重複割り当ての場合はトポロジ順で先の役割を返す。
func (m *BoneMapping) RoleOf(boneName string) (CanonicalRole, bool) {
	if m == nil {
		return "", false
	}
	m.ensureIndex()
	role, ok := m.roleByBone[boneName]
	return role, ok
}

// MappedRoles は割り当て済み役割をトポロジ順で返す。
func (m *BoneMapping) MappedRoles() []CanonicalRole {
	if m == nil {
		return nil
	}
	roles := make([]CanonicalRole, 0, len(m.entries))
	for _, role := range topologyOrder {
		if _, ok := m.entries[role]; ok {
			roles = append(roles, role)
		}
	}
	return roles
}

// Len は割り当て数を返す。
func (m *BoneMapping) Len() int {
	if m == nil {
		return 0
	}
	return len(m.entries)
}

// IsTotal は全役割が割り当て済みか判定する。
func (m *BoneMapping) IsTotal() bool {
	return m.Len() == RoleCount()
}

// Revision は変更のたびに増える版番号を返す。
func (m *BoneMapping) Revision() uint64 {
	if m == nil {
		return 0
	}
	return m.revision
}

// Clone は独立した複製を返す。
func (m *BoneMapping) Clone() *BoneMapping {
	cloned := NewBoneMapping()
	if m == nil {
		return cloned
	}
	for role, boneName := range m.entries {
		cloned.entries[role] = boneName
	}
	cloned.revision = m.revision
	return cloned
}

// ToMap は役割名→ボーン名の表を返す。
func (m *BoneMapping) ToMap() map[string]string {
	values := map[string]string{}
	if m == nil {
		return values
	}
	for role, boneName := range m.entries {
		values[string(role)] = boneName
	}
	return values
}

// ensureIndex は版番号が変わっていれば逆引き索引を作り直す。
func (m *BoneMapping) ensureIndex() {
	if m.indexed && m.indexRevision == m.revision {
		return
	}
	m.roleByBone = make(map[string]CanonicalRole, len(m.entries))
	for _, role := range topologyOrder {
		boneName, ok := m.entries[role]
		if !ok {
			continue
		}
		if _, exists := m.roleByBone[boneName]; exists {
			continue
		}
		m.roleByBone[boneName] = role
	}
	m.indexRevision = m.revision
	m.indexed = true
}
