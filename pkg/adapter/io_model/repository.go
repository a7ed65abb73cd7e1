// 指示: miu200521358
// Package io_model は拡張子に応じて骨格モデルの入出力先を振り分ける。
package io_model

import (
	"github.com/miu200521358/mu_humanoid/pkg/adapter/io_model/armature"
	"github.com/miu200521358/mu_humanoid/pkg/adapter/io_model/vrm"
	"github.com/miu200521358/mu_humanoid/pkg/domain/humanoid"
	"github.com/miu200521358/mu_humanoid/pkg/domain/model"
	"github.com/miu200521358/mu_humanoid/pkg/shared/base/merr"
	"github.com/miu200521358/mu_humanoid/pkg/usecase/port/moutput"
)

// ModelRepository は読み込みを対応リポジトリへ委譲し、保存は骨格YAMLで行う。
type ModelRepository struct {
	readers  []moutput.IModelReader
	armature *armature.ArmatureRepository
	vrm      *vrm.VrmRepository
}

// NewModelRepository はModelRepositoryを生成する。
func NewModelRepository() *ModelRepository {
	armatureRepository := armature.NewArmatureRepository()
	vrmRepository := vrm.NewVrmRepository()
	return &ModelRepository{
		readers:  []moutput.IModelReader{armatureRepository, vrmRepository},
		armature: armatureRepository,
		vrm:      vrmRepository,
	}
}

// CanLoad はいずれかのリポジトリで読み込めるか判定する。
func (r *ModelRepository) CanLoad(path string) bool {
	return r.readerFor(path) != nil
}

// Load は拡張子に対応するリポジトリで読み込む。
func (r *ModelRepository) Load(path string) (*humanoid.HumanoidModel, error) {
	reader := r.readerFor(path)
	if reader == nil {
		return nil, merr.NewError(model.ErrIDFormatNotSupported, nil, "読み込めない形式です: %s", path)
	}
	return reader.Load(path)
}

// Save は骨格YAMLとして保存する。
func (r *ModelRepository) Save(path string, target *humanoid.HumanoidModel) error {
	if !r.armature.CanLoad(path) {
		return merr.NewError(model.ErrIDFormatNotSupported, nil, "保存できる形式は .yaml / .yml のみです: %s", path)
	}
	return r.armature.Save(path, target)
}

// WritePose はポーズ記録をVRMアニメーション文書として書き出す。
func (r *ModelRepository) WritePose(path string, record humanoid.PoseRecord, restNodes []humanoid.RestNode) error {
	return r.vrm.WritePose(path, record, restNodes)
}

// SetLoadProgressReporter はVRM読込進捗の受信先を設定する。
func (r *ModelRepository) SetLoadProgressReporter(reporter func(vrm.LoadProgressEvent)) {
	r.vrm.SetLoadProgressReporter(reporter)
}

func (r *ModelRepository) readerFor(path string) moutput.IModelReader {
	for _, reader := range r.readers {
		if reader.CanLoad(path) {
			return reader
		}
	}
	return nil
}
