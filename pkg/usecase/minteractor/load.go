// 指示: miu200521358
package minteractor

import (
	"fmt"
	"strings"

	"github.com/miu200521358/mu_humanoid/pkg/domain/humanoid"
	"github.com/miu200521358/mu_humanoid/pkg/domain/model"
	"github.com/miu200521358/mu_humanoid/pkg/shared/base/merr"
	"github.com/miu200521358/mu_humanoid/pkg/usecase/port/moutput"
)

// LoadModel は人型モデルを読み込む。
func (uc *HumanoidUsecase) LoadModel(rep moutput.IModelReader, path string) (*humanoid.HumanoidModel, error) {
	repo := rep
	if repo == nil {
		repo = uc.modelReader
	}
	if repo == nil {
		return nil, fmt.Errorf("モデル読み込みリポジトリが設定されていません")
	}
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("読み込みパスが未指定です")
	}
	if !repo.CanLoad(path) {
		return nil, merr.NewError(model.ErrIDFormatNotSupported, nil, "読み込めない形式です: %s", path)
	}
	loaded, err := repo.Load(path)
	if err != nil {
		return nil, err
	}
	if loaded == nil || loaded.Skeleton == nil {
		return nil, merr.NewError(model.ErrIDNotSkeleton, nil, "骨格が含まれていません: %s", path)
	}
	if loaded.Mapping == nil {
		loaded.Mapping = humanoid.NewBoneMapping()
	}
	logHumanoidInfo("モデル読み込み完了: path=%s bones=%d mapped=%d", path, loaded.Skeleton.BoneCount(), loaded.Mapping.Len())
	return loaded, nil
}
