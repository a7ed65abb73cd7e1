// 指示: miu200521358
// Package skeleton は骨格の編集面とポーズ読み取り面のメモリ内実装を提供する。
package skeleton

import (
	"fmt"

	"github.com/miu200521358/mu_humanoid/pkg/domain/mmath"
	"github.com/miu200521358/mu_humanoid/pkg/domain/model"
	"github.com/miu200521358/mu_humanoid/pkg/shared/base/merr"
	"github.com/tiendc/go-deepcopy"
)

// Skeleton はボーン集合と編集モードを保持する骨格。
// ボーン同士は名前で参照し、所有関係は骨格→ボーンのみとする。
type Skeleton struct {
	state skeletonState
}

// skeletonState はスナップショット対象の状態。
type skeletonState struct {
	Name  string
	Mode  Mode
	Bones map[string]*Bone
	Order []string
}

// NewSkeleton は空の骨格をポーズモードで生成する。
func NewSkeleton(name string) *Skeleton {
	return &Skeleton{state: skeletonState{
		Name:  name,
		Mode:  ModePose,
		Bones: map[string]*Bone{},
		Order: []string{},
	}}
}

// Name は骨格名を返す。
func (s *Skeleton) Name() string {
	return s.state.Name
}

// Mode は現在の編集モードを返す。
func (s *Skeleton) Mode() Mode {
	return s.state.Mode
}

// EnsureMode は指定モードへ遷移する。既に同じモードなら何もしない。
func (s *Skeleton) EnsureMode(mode Mode) error {
	if !mode.IsValid() {
		return fmt.Errorf("未定義のモードです: %d", mode)
	}
	s.state.Mode = mode
	return nil
}

// BoneNames は作成順のボーン名一覧を返す。
func (s *Skeleton) BoneNames() []string {
	return append([]string(nil), s.state.Order...)
}

// BoneCount はボーン数を返す。
func (s *Skeleton) BoneCount() int {
	return len(s.state.Order)
}

// HasBone はボーンが存在するか判定する。
func (s *Skeleton) HasBone(name string) bool {
	_, ok := s.state.Bones[name]
	return ok
}

// Bone はボーンの複製を返す。
func (s *Skeleton) Bone(name string) (Bone, bool) {
	bone, ok := s.state.Bones[name]
	if !ok {
		return Bone{}, false
	}
	return *bone.clone(), true
}

// Children は直接の子ボーン名を作成順で返す。
func (s *Skeleton) Children(name string) []string {
	children := make([]string, 0)
	for _, childName := range s.state.Order {
		if s.state.Bones[childName].ParentName == name {
			children = append(children, childName)
		}
	}
	return children
}

// EnsureBone は名前のボーンを取得し、無ければ作成する。作成した場合は true を返す。
func (s *Skeleton) EnsureBone(name string) (bool, error) {
	if err := s.requireMode("EnsureBone", ModeEdit); err != nil {
		return false, err
	}
	if name == "" {
		return false, fmt.Errorf("ボーン名が空です")
	}
	if _, ok := s.state.Bones[name]; ok {
		return false, nil
	}
	s.state.Bones[name] = newBone(name)
	s.state.Order = append(s.state.Order, name)
	return true, nil
}

// SetBoneGeometry は head/tail/roll を設定する。
// 接続ボーンの head は親の tail と、接続子の head はこのボーンの tail と一致させる。
func (s *Skeleton) SetBoneGeometry(name string, head, tail mmath.Vec3, roll float64) error {
	bone, err := s.editBone("SetBoneGeometry", name)
	if err != nil {
		return err
	}
	bone.Head = head
	bone.Tail = tail
	bone.Roll = roll
	if bone.Connected {
		if parent, ok := s.state.Bones[bone.ParentName]; ok {
			parent.Tail = head
		}
	}
	for _, childName := range s.Children(name) {
		child := s.state.Bones[childName]
		if child.Connected {
			child.Head = tail
		}
	}
	return nil
}

// SetBoneParent は親ボーンと接続フラグを設定する。親名が空の場合は親を外す。
// 接続する場合は head を親の tail へ合わせる。
func (s *Skeleton) SetBoneParent(name string, parentName string, connected bool) error {
	bone, err := s.editBone("SetBoneParent", name)
	if err != nil {
		return err
	}
	if parentName == "" {
		bone.ParentName = ""
		bone.Connected = false
		return nil
	}
	parent, ok := s.state.Bones[parentName]
	if !ok {
		return NewBoneNotFoundError(parentName)
	}
	for ancestor := parentName; ancestor != ""; ancestor = s.state.Bones[ancestor].ParentName {
		if ancestor == name {
			return merr.NewError(model.ErrIDDependencyCycle, nil, "親子関係に循環があります: %s -> %s", name, parentName)
		}
	}
	bone.ParentName = parentName
	bone.Connected = connected
	if connected {
		bone.Head = parent.Tail
	}
	return nil
}

// SetInheritRotation は親回転の継承フラグを設定する。
func (s *Skeleton) SetInheritRotation(name string, inherit bool) error {
	bone, err := s.editBone("SetInheritRotation", name)
	if err != nil {
		return err
	}
	bone.InheritRotation = inherit
	return nil
}

// AssignCollection はボーンの所属コレクションを設定する。表示属性のためモードを問わない。
func (s *Skeleton) AssignCollection(name string, collection string) error {
	bone, ok := s.state.Bones[name]
	if !ok {
		return NewBoneNotFoundError(name)
	}
	bone.Collection = collection
	return nil
}

// SetHidden はボーンの表示状態を設定する。表示属性のためモードを問わない。
func (s *Skeleton) SetHidden(name string, hidden bool) error {
	bone, ok := s.state.Bones[name]
	if !ok {
		return NewBoneNotFoundError(name)
	}
	bone.Hidden = hidden
	return nil
}

// SetRotationMode は回転表現を設定する。
func (s *Skeleton) SetRotationMode(name string, mode RotationMode) error {
	bone, err := s.poseBone("SetRotationMode", name)
	if err != nil {
		return err
	}
	bone.RotationMode = mode
	return nil
}

// SetLocks は固定マスクを置き換える。
func (s *Skeleton) SetLocks(name string, locks LockMask) error {
	bone, err := s.poseBone("SetLocks", name)
	if err != nil {
		return err
	}
	bone.Locks = locks
	return nil
}

// BindConstraint は拘束を名前で上書き登録する。新規追加の場合は true を返す。
func (s *Skeleton) BindConstraint(owner string, constraint Constraint) (bool, error) {
	bone, err := s.poseBone("BindConstraint", owner)
	if err != nil {
		return false, err
	}
	for _, source := range constraint.Sources() {
		if _, ok := s.state.Bones[source]; !ok {
			return false, NewBoneNotFoundError(source)
		}
	}
	return bone.upsertConstraint(constraint), nil
}

// SetPoseLocation はポーズ移動量を設定する。
func (s *Skeleton) SetPoseLocation(name string, location mmath.Vec3) error {
	bone, err := s.poseBone("SetPoseLocation", name)
	if err != nil {
		return err
	}
	bone.PoseLocation = location
	return nil
}

// SetPoseRotation はポーズ回転を設定する。
func (s *Skeleton) SetPoseRotation(name string, rotation mmath.Quaternion) error {
	bone, err := s.poseBone("SetPoseRotation", name)
	if err != nil {
		return err
	}
	bone.PoseRotation = rotation.Normalized()
	return nil
}

// SetPoseScale はポーズスケールを設定する。
func (s *Skeleton) SetPoseScale(name string, scale mmath.Vec3) error {
	bone, err := s.poseBone("SetPoseScale", name)
	if err != nil {
		return err
	}
	bone.PoseScale = scale
	return nil
}

// ResetPose は全ボーンのポーズ値を初期化する。
func (s *Skeleton) ResetPose() error {
	if err := s.requireMode("ResetPose", ModePose); err != nil {
		return err
	}
	for _, bone := range s.state.Bones {
		bone.PoseLocation = mmath.ZERO_VEC3
		bone.PoseRotation = mmath.NewQuaternion()
		bone.PoseScale = mmath.ONE_VEC3
	}
	return nil
}

// RestMatrix は骨格空間のレスト行列を返す。
func (s *Skeleton) RestMatrix(name string) (mmath.Mat4, error) {
	bone, ok := s.state.Bones[name]
	if !ok {
		return mmath.NewMat4(), NewBoneNotFoundError(name)
	}
	return bone.RestMatrix(), nil
}

// PoseMatrix は骨格空間のポーズ行列を返す。
// 親のポーズ行列 * 親からのレスト相対行列 * 自身のポーズ変形 で合成する。
func (s *Skeleton) PoseMatrix(name string) (mmath.Mat4, error) {
	bone, ok := s.state.Bones[name]
	if !ok {
		return mmath.NewMat4(), NewBoneNotFoundError(name)
	}
	rest := bone.RestMatrix()
	parent, ok := s.state.Bones[bone.ParentName]
	if !ok {
		return rest.Muled(bone.PoseBasis()), nil
	}
	parentPose, err := s.PoseMatrix(parent.Name)
	if err != nil {
		return mmath.NewMat4(), err
	}
	relativeRest := parent.RestMatrix().Inverted().Muled(rest)
	return parentPose.Muled(relativeRest).Muled(bone.PoseBasis()), nil
}

// Snapshot は現在の状態の深い複製を返す。
func (s *Skeleton) Snapshot() (any, error) {
	var snapshot skeletonState
	if err := deepcopy.Copy(&snapshot, s.state); err != nil {
		return nil, fmt.Errorf("骨格スナップショットの作成に失敗しました: %w", err)
	}
	return snapshot, nil
}

// Restore はスナップショットの状態へ戻す。
func (s *Skeleton) Restore(snapshot any) error {
	state, ok := snapshot.(skeletonState)
	if !ok {
		return fmt.Errorf("骨格スナップショットの型が不正です: %T", snapshot)
	}
	var restored skeletonState
	if err := deepcopy.Copy(&restored, state); err != nil {
		return fmt.Errorf("骨格スナップショットの復元に失敗しました: %w", err)
	}
	s.state = restored.normalized()
	return nil
}

// Clone は独立した骨格の複製を返す。
func (s *Skeleton) Clone() (*Skeleton, error) {
	snapshot, err := s.Snapshot()
	if err != nil {
		return nil, err
	}
	return &Skeleton{state: snapshot.(skeletonState).normalized()}, nil
}

// normalized は空の集合を nil から空値へ揃える。
func (st skeletonState) normalized() skeletonState {
	if st.Bones == nil {
		st.Bones = map[string]*Bone{}
	}
	if st.Order == nil {
		st.Order = []string{}
	}
	return st
}

func (s *Skeleton) requireMode(operation string, mode Mode) error {
	if s.state.Mode != mode {
		return NewWrongModeError(operation, mode, s.state.Mode)
	}
	return nil
}

func (s *Skeleton) editBone(operation string, name string) (*Bone, error) {
	if err := s.requireMode(operation, ModeEdit); err != nil {
		return nil, err
	}
	bone, ok := s.state.Bones[name]
	if !ok {
		return nil, NewBoneNotFoundError(name)
	}
	return bone, nil
}

func (s *Skeleton) poseBone(operation string, name string) (*Bone, error) {
	if err := s.requireMode(operation, ModePose); err != nil {
		return nil, err
	}
	bone, ok := s.state.Bones[name]
	if !ok {
		return nil, NewBoneNotFoundError(name)
	}
	return bone, nil
}
