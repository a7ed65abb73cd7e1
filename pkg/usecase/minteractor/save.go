// 指示: miu200521358
package minteractor

import (
	"fmt"
	"strings"

	"github.com/miu200521358/mu_humanoid/pkg/domain/humanoid"
	"github.com/miu200521358/mu_humanoid/pkg/usecase/port/moutput"
)

// SaveModel は人型モデルを保存する。
func (uc *HumanoidUsecase) SaveModel(rep moutput.IModelWriter, path string, target *humanoid.HumanoidModel) error {
	writer := rep
	if writer == nil {
		writer = uc.modelWriter
	}
	if writer == nil {
		return fmt.Errorf("モデル保存リポジトリが設定されていません")
	}
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("保存先パスが未指定です")
	}
	if target == nil || target.Skeleton == nil {
		return fmt.Errorf("保存対象モデルが未設定です")
	}
	if err := writer.Save(path, target); err != nil {
		return err
	}
	logHumanoidInfo("モデル保存完了: path=%s", path)
	return nil
}
