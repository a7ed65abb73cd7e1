// 指示: miu200521358
package merr

import (
	"errors"
	"fmt"
	"testing"
)

func TestExtractErrorIDThroughWrapping(t *testing.T) {
	base := NewError("21004", nil, "ボーンが見つかりません: %s", "hips")
	wrapped := fmt.Errorf("処理に失敗しました: %w", base)

	if got := ExtractErrorID(wrapped); got != "21004" {
		t.Fatalf("expected error id 21004, got %s", got)
	}
	if got := ExtractErrorID(errors.New("plain")); got != "" {
		t.Fatalf("plain error should have no id: %s", got)
	}
}

func TestMErrorIsComparesID(t *testing.T) {
	err := NewError("21003", nil, "モードが不正です")
	if !errors.Is(err, &MError{ID: "21003"}) {
		t.Fatalf("same id should match")
	}
	if errors.Is(err, &MError{ID: "21004"}) {
		t.Fatalf("different id should not match")
	}
}

func TestHasErrorIDFindsNestedCause(t *testing.T) {
	inner := NewError("21007", nil, "式の評価に失敗しました")
	outer := NewError("21001", inner, "必須役割がありません")
	if !HasErrorID(outer, "21007") {
		t.Fatalf("nested id should be found")
	}
	if HasErrorID(outer, "22001") {
		t.Fatalf("absent id should not be found")
	}
}
