// 指示: miu200521358
// Package merr はエラーIDを持つ共通エラー型を提供する。
package merr

import (
	"errors"
	"fmt"
)

// MError はエラーIDと原因を保持するエラー。
type MError struct {
	ID      string
	Message string
	Cause   error
}

// NewError はエラーIDと書式付きメッセージからエラーを生成する。
func NewError(id string, cause error, format string, params ...any) *MError {
	message := format
	if len(params) > 0 {
		message = fmt.Sprintf(format, params...)
	}
	return &MError{ID: id, Message: message, Cause: cause}
}

// Error はエラーメッセージを返す。
func (e *MError) Error() string {
	if e == nil {
		return ""
	}
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.ID, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.ID, e.Message)
}

// Unwrap は原因エラーを返す。
func (e *MError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// Is はエラーIDが一致するか判定する。
func (e *MError) Is(target error) bool {
	var other *MError
	if !errors.As(target, &other) || e == nil || other == nil {
		return false
	}
	return e.ID == other.ID
}

// ExtractErrorID はエラー連鎖から最初のエラーIDを返す。見つからない場合は空文字を返す。
func ExtractErrorID(err error) string {
	var target *MError
	if errors.As(err, &target) && target != nil {
		return target.ID
	}
	return ""
}

// HasErrorID はエラー連鎖に指定IDが含まれるか判定する。
func HasErrorID(err error, id string) bool {
	for err != nil {
		var target *MError
		if !errors.As(err, &target) {
			return false
		}
		if target.ID == id {
			return true
		}
		err = target.Cause
	}
	return false
}
