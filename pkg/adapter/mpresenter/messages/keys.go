// 指示: miu200521358
// Package messages はCLI表示に使うメッセージキーと翻訳カタログを提供する。
// キーは日本語の表示文そのもので、他言語はカタログで引き当てる。
package messages

// コマンド説明。
const (
	CmdRootShort     = "人型骨格の生成・ボーン推定・リグ合成・ポーズ正規化を行う"
	CmdGenerateShort = "標準人型骨格を生成して保存する"
	CmdGuessShort    = "ボーン名から正準役割の割り当てを推定する"
	CmdRigShort      = "IK・指曲げ・指開きの制御リグを合成する"
	CmdPoseShort     = "現在ポーズを役割ごとの回転へ正規化して書き出す"
	CmdRolesShort    = "正準役割の一覧を階層順に表示する"
)

// フラグ説明。
const (
	FlagConfig        = "設定ファイルのパス"
	FlagVerbose       = "デバッグログを出力する"
	FlagLang          = "表示言語 (ja / en)"
	FlagInput         = "入力ファイル (.yaml / .vrm / .glb / .gltf)"
	FlagOutput        = "出力ファイル"
	FlagHeight        = "身長 (0 の場合は設定値)"
	FlagReset         = "既存の割り当てを消してから推定する"
	FlagMetersPerUnit = "単位換算係数 (0 の場合は設定値)"
)

// 表示メッセージ。
const (
	MessageInputRequired  = "入力ファイルを指定してください"
	MessageOutputRequired = "出力ファイルを指定してください"
	MessageLoadFailed     = "読み込み失敗"
	MessageSaveFailed     = "保存失敗"
	MessageConfigFailed   = "設定の読み込みに失敗しました"

	LogGenerateSuccess = "骨格を生成しました: %s (ボーン数 %d)"
	LogGuessSummary    = "ボーン推定: 新規 %d / 既存 %d / 未検出 %d"
	LogGuessNotFound   = "未検出の役割: %s"
	LogRigSummary      = "リグ合成: 制御ボーン %d / 拘束 %d / 省略 %d"
	LogPoseSummary     = "ポーズ取得: 役割 %d / 省略 %d"
	LogSkippedRoles    = "省略した役割: %s"
	LogSaveSuccess     = "保存しました: %s"
)
