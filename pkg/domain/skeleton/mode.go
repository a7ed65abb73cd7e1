// 指示: miu200521358
package skeleton

// Mode は骨格の編集状態を表す。
// 構造編集(作成・配置・親子付け)は ModeEdit、挙動編集(拘束・ロック・姿勢値)は ModePose でのみ受け付ける。
type Mode int

const (
	// ModePose はポーズ編集状態。
	ModePose Mode = iota
	// ModeEdit は構造編集状態。
	ModeEdit
)

// String は表示名を返す。
func (m Mode) String() string {
	switch m {
	case ModePose:
		return "POSE"
	case ModeEdit:
		return "EDIT"
	}
	return "UNKNOWN"
}

// IsValid は定義済みの状態か判定する。
func (m Mode) IsValid() bool {
	return m == ModePose || m == ModeEdit
}
