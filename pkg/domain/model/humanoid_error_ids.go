// 指示: miu200521358
// Package model は人型骨格処理で共有するエラーIDを定義する。
package model

const (
	// ErrIDMandatoryRoleMissing は必須役割の未割り当て。
	ErrIDMandatoryRoleMissing = "21001"
	// ErrIDNotSkeleton は入力が骨格でない。
	ErrIDNotSkeleton = "21002"
	// ErrIDWrongMode は編集モード不一致。
	ErrIDWrongMode = "21003"
	// ErrIDBoneNotFound はボーン未検出。
	ErrIDBoneNotFound = "21004"
	// ErrIDInvalidHeight は身長値の不正。
	ErrIDInvalidHeight = "21005"
	// ErrIDInvalidScaleFactor は単位換算係数の不正。
	ErrIDInvalidScaleFactor = "21006"
	// ErrIDDriverExpression はドライバー式の評価失敗。
	ErrIDDriverExpression = "21007"
	// ErrIDDependencyCycle は拘束依存関係の循環。
	ErrIDDependencyCycle = "21008"

	// ErrIDParseFailed はモデル解析失敗。
	ErrIDParseFailed = "22001"
	// ErrIDFormatNotSupported は未対応形式。
	ErrIDFormatNotSupported = "22002"
)
