// 指示: miu200521358
package skeleton

import (
	"github.com/miu200521358/mu_humanoid/pkg/domain/model"
	"github.com/miu200521358/mu_humanoid/pkg/shared/base/merr"
)

// NewWrongModeError はモード不一致エラーを生成する。
func NewWrongModeError(operation string, want Mode, got Mode) error {
	return merr.NewError(model.ErrIDWrongMode, nil, "%s は%sモードでのみ実行できます (現在: %s)", operation, want, got)
}

// NewBoneNotFoundError はボーン未検出エラーを生成する。
func NewBoneNotFoundError(name string) error {
	return merr.NewError(model.ErrIDBoneNotFound, nil, "ボーンが見つかりません: %s", name)
}

// NewDependencyCycleError は拘束依存関係の循環エラーを生成する。
func NewDependencyCycleError(cause error) error {
	return merr.NewError(model.ErrIDDependencyCycle, cause, "拘束の依存関係に循環があります")
}
