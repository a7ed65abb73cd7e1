// 指示: miu200521358
package minteractor

import (
	"github.com/miu200521358/mu_humanoid/pkg/domain/humanoid"
	"github.com/miu200521358/mu_humanoid/pkg/domain/model"
	"github.com/miu200521358/mu_humanoid/pkg/shared/base/logging"
	"github.com/miu200521358/mu_humanoid/pkg/shared/base/merr"
)

// newMandatoryRoleMissingError は必須ロール欠落エラーを生成する。
func newMandatoryRoleMissingError(operation string, role humanoid.CanonicalRole) error {
	return merr.NewError(model.ErrIDMandatoryRoleMissing, nil, "%s: 必須ロールのボーンがありません: %s", operation, role)
}

// newNotSkeletonError は骨格でない対象を渡された場合のエラーを生成する。
func newNotSkeletonError(operation string) error {
	return merr.NewError(model.ErrIDNotSkeleton, nil, "%s: 対象が骨格ではありません", operation)
}

// logHumanoidInfo は人型骨格処理のINFOログを出力する。
func logHumanoidInfo(format string, params ...any) {
	logger := logging.DefaultLogger()
	if logger == nil {
		return
	}
	logger.Info(format, params...)
}

// logHumanoidDebug は人型骨格処理のDEBUGログを出力する。
func logHumanoidDebug(format string, params ...any) {
	logger := logging.DefaultLogger()
	if logger == nil {
		return
	}
	logger.Debug(format, params...)
}

// logHumanoidWarn は人型骨格処理のWARNログを出力する。
func logHumanoidWarn(format string, params ...any) {
	logger := logging.DefaultLogger()
	if logger == nil {
		return
	}
	logger.Warn(format, params...)
}
