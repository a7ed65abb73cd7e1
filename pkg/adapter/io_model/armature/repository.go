// 指示: miu200521358
// Package armature は骨格とボーン割り当てを YAML で読み書きする。
package armature

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/miu200521358/mu_humanoid/pkg/domain/humanoid"
	"github.com/miu200521358/mu_humanoid/pkg/domain/mmath"
	"github.com/miu200521358/mu_humanoid/pkg/domain/model"
	"github.com/miu200521358/mu_humanoid/pkg/domain/skeleton"
	"github.com/miu200521358/mu_humanoid/pkg/shared/base/logging"
	"github.com/miu200521358/mu_humanoid/pkg/shared/base/merr"
	"gopkg.in/yaml.v3"
)

const (
	exportDirMode  = 0o755
	exportFileMode = 0o644
)

// armatureDocument は保存形式の最上位要素を表す。
type armatureDocument struct {
	Name    string            `yaml:"name"`
	Bones   []boneDocument    `yaml:"bones"`
	Mapping map[string]string `yaml:"mapping,omitempty"`
}

// boneDocument はボーン1件の保存形式を表す。回転は [x,y,z,w]。
type boneDocument struct {
	Name            string                `yaml:"name"`
	Parent          string                `yaml:"parent,omitempty"`
	Connected       bool                  `yaml:"connected,omitempty"`
	Head            []float64             `yaml:"head,flow"`
	Tail            []float64             `yaml:"tail,flow"`
	Roll            float64               `yaml:"roll"`
	InheritRotation bool                  `yaml:"inherit_rotation"`
	Collection      string                `yaml:"collection,omitempty"`
	Hidden          bool                  `yaml:"hidden,omitempty"`
	RotationMode    skeleton.RotationMode `yaml:"rotation_mode"`
	Locks           skeleton.LockMask     `yaml:"locks,omitempty"`
	PoseLocation    []float64             `yaml:"pose_location,flow,omitempty"`
	PoseRotation    []float64             `yaml:"pose_rotation,flow,omitempty"`
	PoseScale       []float64             `yaml:"pose_scale,flow,omitempty"`
	Constraints     []skeleton.Constraint `yaml:"constraints,omitempty"`
}

// ArmatureRepository は人型モデルを YAML ファイルで保存・復元する。
type ArmatureRepository struct{}

// NewArmatureRepository はArmatureRepositoryを生成する。
func NewArmatureRepository() *ArmatureRepository {
	return &ArmatureRepository{}
}

// CanLoad は拡張子に応じて読み込み可否を判定する。
func (r *ArmatureRepository) CanLoad(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// Save はモデルを YAML で書き出す。ポーズ値はレスト以外のときだけ書く。
func (r *ArmatureRepository) Save(path string, target *humanoid.HumanoidModel) error {
	if target == nil || target.Skeleton == nil {
		return merr.NewError(model.ErrIDNotSkeleton, nil, "保存対象の骨格がありません")
	}
	doc := armatureDocument{Name: target.Name}
	if doc.Name == "" {
		doc.Name = target.Skeleton.Name()
	}
	for _, name := range target.Skeleton.BoneNames() {
		bone, _ := target.Skeleton.Bone(name)
		doc.Bones = append(doc.Bones, newBoneDocument(bone))
	}
	if target.Mapping != nil && target.Mapping.Len() > 0 {
		doc.Mapping = target.Mapping.ToMap()
	}

	data, err := yaml.Marshal(&doc)
	if err != nil {
		return merr.NewError(model.ErrIDParseFailed, err, "骨格のYAML変換に失敗しました")
	}
	if err := os.MkdirAll(filepath.Dir(path), exportDirMode); err != nil {
		return merr.NewError(model.ErrIDParseFailed, err, "出力先ディレクトリの作成に失敗しました: %s", path)
	}
	if err := os.WriteFile(path, data, exportFileMode); err != nil {
		return merr.NewError(model.ErrIDParseFailed, err, "骨格ファイルの書き込みに失敗しました: %s", path)
	}
	logArmatureDebug("骨格保存: file=%s bones=%d", filepath.Base(path), len(doc.Bones))
	return nil
}

// Load は YAML から骨格と割り当てを復元する。骨格はポーズモードで返す。
func (r *ArmatureRepository) Load(path string) (*humanoid.HumanoidModel, error) {
	if !r.CanLoad(path) {
		return nil, merr.NewError(model.ErrIDFormatNotSupported, nil, "読み込めない拡張子です: %s", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, merr.NewError(model.ErrIDParseFailed, err, "骨格ファイルの読み取りに失敗しました: %s", path)
	}
	doc := armatureDocument{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, merr.NewError(model.ErrIDParseFailed, err, "骨格ファイルの解析に失敗しました: %s", path)
	}
	if doc.Name == "" {
		doc.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	s, err := buildSkeleton(doc)
	if err != nil {
		return nil, err
	}
	modelData := humanoid.NewHumanoidModel(doc.Name, s)
	mapping, unknown := humanoid.NewBoneMappingFromMap(doc.Mapping)
	for _, name := range unknown {
		logArmatureWarn("未知の役割を無視します: role=%s", name)
	}
	modelData.Mapping = mapping
	return modelData, nil
}

// newBoneDocument はボーンを保存形式へ写す。
func newBoneDocument(bone skeleton.Bone) boneDocument {
	doc := boneDocument{
		Name:            bone.Name,
		Parent:          bone.ParentName,
		Connected:       bone.Connected,
		Head:            bone.Head.Values(),
		Tail:            bone.Tail.Values(),
		Roll:            bone.Roll,
		InheritRotation: bone.InheritRotation,
		Collection:      bone.Collection,
		Hidden:          bone.Hidden,
		RotationMode:    bone.RotationMode,
		Locks:           bone.Locks,
		Constraints:     bone.Constraints,
	}
	if !bone.PoseLocation.IsZero() {
		doc.PoseLocation = bone.PoseLocation.Values()
	}
	if !bone.PoseRotation.IsIdent(0) {
		doc.PoseRotation = bone.PoseRotation.Values()
	}
	if !bone.PoseScale.NearEquals(mmath.ONE_VEC3, 0) {
		doc.PoseScale = bone.PoseScale.Values()
	}
	return doc
}

// buildSkeleton は保存形式から骨格を組み立てる。
// 全ボーン作成後に配置と親子付けを行うため、記述順は親子順でなくてよい。
func buildSkeleton(doc armatureDocument) (*skeleton.Skeleton, error) {
	s := skeleton.NewSkeleton(doc.Name)
	if err := s.EnsureMode(skeleton.ModeEdit); err != nil {
		return nil, err
	}
	for _, bone := range doc.Bones {
		created, err := s.EnsureBone(bone.Name)
		if err != nil {
			return nil, merr.NewError(model.ErrIDParseFailed, err, "ボーンを作成できません: %s", bone.Name)
		}
		if !created {
			return nil, merr.NewError(model.ErrIDParseFailed, nil, "ボーン名が重複しています: %s", bone.Name)
		}
	}
	for _, bone := range doc.Bones {
		head, err := parseVec3(bone.Head, mmath.ZERO_VEC3, bone.Name, "head")
		if err != nil {
			return nil, err
		}
		tail, err := parseVec3(bone.Tail, mmath.UNIT_Y_VEC3, bone.Name, "tail")
		if err != nil {
			return nil, err
		}
		if err := s.SetBoneGeometry(bone.Name, head, tail, bone.Roll); err != nil {
			return nil, err
		}
		if err := s.SetInheritRotation(bone.Name, bone.InheritRotation); err != nil {
			return nil, err
		}
		if err := s.AssignCollection(bone.Name, bone.Collection); err != nil {
			return nil, err
		}
		if err := s.SetHidden(bone.Name, bone.Hidden); err != nil {
			return nil, err
		}
	}
	for _, bone := range doc.Bones {
		if bone.Parent == "" {
			continue
		}
		if err := s.SetBoneParent(bone.Name, bone.Parent, bone.Connected); err != nil {
			return nil, err
		}
	}

	if err := s.EnsureMode(skeleton.ModePose); err != nil {
		return nil, err
	}
	for _, bone := range doc.Bones {
		if bone.RotationMode != "" {
			if err := s.SetRotationMode(bone.Name, bone.RotationMode); err != nil {
				return nil, err
			}
		}
		if err := s.SetLocks(bone.Name, bone.Locks); err != nil {
			return nil, err
		}
		for _, constraint := range bone.Constraints {
			if _, err := s.BindConstraint(bone.Name, constraint); err != nil {
				return nil, err
			}
		}
		if err := applyPose(s, bone); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// applyPose は保存されたポーズ値を設定する。
func applyPose(s *skeleton.Skeleton, bone boneDocument) error {
	location, err := parseVec3(bone.PoseLocation, mmath.ZERO_VEC3, bone.Name, "pose_location")
	if err != nil {
		return err
	}
	if err := s.SetPoseLocation(bone.Name, location); err != nil {
		return err
	}
	scale, err := parseVec3(bone.PoseScale, mmath.ONE_VEC3, bone.Name, "pose_scale")
	if err != nil {
		return err
	}
	if err := s.SetPoseScale(bone.Name, scale); err != nil {
		return err
	}
	if len(bone.PoseRotation) == 0 {
		return nil
	}
	if len(bone.PoseRotation) != 4 {
		return merr.NewError(model.ErrIDParseFailed, nil, "pose_rotation の要素数が不正です: bone=%s", bone.Name)
	}
	r := bone.PoseRotation
	return s.SetPoseRotation(bone.Name, mmath.NewQuaternionByValues(r[0], r[1], r[2], r[3]))
}

// parseVec3 は要素列をVec3へ変換する。空の場合は既定値を返す。
func parseVec3(values []float64, defaultValue mmath.Vec3, boneName string, label string) (mmath.Vec3, error) {
	if len(values) == 0 {
		return defaultValue, nil
	}
	v, err := mmath.NewVec3ByValues(values)
	if err != nil {
		return mmath.ZERO_VEC3, merr.NewError(model.ErrIDParseFailed, err, "%s の要素数が不正です: bone=%s", label, boneName)
	}
	return v, nil
}

// logArmatureDebug は骨格入出力のデバッグログを出力する。
func logArmatureDebug(format string, params ...any) {
	if logger := logging.DefaultLogger(); logger != nil {
		logger.Debug(format, params...)
	}
}

// logArmatureWarn は骨格入出力の警告ログを出力する。
func logArmatureWarn(format string, params ...any) {
	if logger := logging.DefaultLogger(); logger != nil {
		logger.Warn(format, params...)
	}
}
