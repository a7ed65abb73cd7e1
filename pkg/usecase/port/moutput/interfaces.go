// 指示: miu200521358
package moutput

import (
	"github.com/miu200521358/mu_humanoid/pkg/domain/humanoid"
	"github.com/miu200521358/mu_humanoid/pkg/domain/mmath"
	"github.com/miu200521358/mu_humanoid/pkg/domain/skeleton"
)

// ISkeletonEditor は骨格編集面の契約を表す。
// 構造編集は編集モード、挙動編集はポーズモードでのみ受け付ける。
type ISkeletonEditor interface {
	Mode() skeleton.Mode
	EnsureMode(mode skeleton.Mode) error
	BoneNames() []string
	Bone(name string) (skeleton.Bone, bool)

	EnsureBone(name string) (bool, error)
	SetBoneGeometry(name string, head, tail mmath.Vec3, roll float64) error
	SetBoneParent(name string, parentName string, connected bool) error
	SetInheritRotation(name string, inherit bool) error
	AssignCollection(name string, collection string) error
	SetHidden(name string, hidden bool) error

	SetRotationMode(name string, mode skeleton.RotationMode) error
	SetLocks(name string, locks skeleton.LockMask) error
	BindConstraint(owner string, constraint skeleton.Constraint) (bool, error)
}

// IPoseReader はポーズ読み取り面の契約を表す。行列は骨格空間(Z上)で返す。
type IPoseReader interface {
	RestMatrix(name string) (mmath.Mat4, error)
	PoseMatrix(name string) (mmath.Mat4, error)
}

// ISkeletonSnapshotter は編集前状態の保存と復元の契約を表す。
type ISkeletonSnapshotter interface {
	Snapshot() (any, error)
	Restore(snapshot any) error
}

// IModelReader はモデル読み込みの契約を表す。
type IModelReader interface {
	CanLoad(path string) bool
	Load(path string) (*humanoid.HumanoidModel, error)
}

// IModelWriter はモデル保存の契約を表す。
type IModelWriter interface {
	Save(path string, model *humanoid.HumanoidModel) error
}

// IPoseWriter はポーズ記録の書き出しの契約を表す。
type IPoseWriter interface {
	WritePose(path string, record humanoid.PoseRecord, restNodes []humanoid.RestNode) error
}
