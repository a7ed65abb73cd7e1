// 指示: miu200521358
package minteractor

import (
	"github.com/miu200521358/mu_humanoid/pkg/domain/humanoid"
	"github.com/miu200521358/mu_humanoid/pkg/domain/skeleton"
	"github.com/miu200521358/mu_humanoid/pkg/usecase/port/moutput"
)

// RigProgressEventType はリグ合成の進捗イベント種別を表す。
type RigProgressEventType string

const (
	// RigProgressEventTypeLocksApplied は回転順・固定設定完了イベントを表す。
	RigProgressEventTypeLocksApplied RigProgressEventType = "locks_applied"
	// RigProgressEventTypeRootCreated はRoot・COG作成完了イベントを表す。
	RigProgressEventTypeRootCreated RigProgressEventType = "root_created"
	// RigProgressEventTypePelvisInverted は骨盤反転完了イベントを表す。
	RigProgressEventTypePelvisInverted RigProgressEventType = "pelvis_inverted"
	// RigProgressEventTypeLegsRigged は脚IK完了イベントを表す。
	RigProgressEventTypeLegsRigged RigProgressEventType = "legs_rigged"
	// RigProgressEventTypeArmsRigged は腕IK完了イベントを表す。
	RigProgressEventTypeArmsRigged RigProgressEventType = "arms_rigged"
	// RigProgressEventTypeFingersRigged は指曲げ制御完了イベントを表す。
	RigProgressEventTypeFingersRigged RigProgressEventType = "fingers_rigged"
	// RigProgressEventTypeSpreadRigged は指開き制御完了イベントを表す。
	RigProgressEventTypeSpreadRigged RigProgressEventType = "spread_rigged"
)

// RigProgressEvent はリグ合成の進捗イベントを表す。
type RigProgressEvent struct {
	Type         RigProgressEventType
	BoneCount    int
	SkippedCount int
}

// IRigProgressReporter はリグ合成の進捗通知契約を表す。
type IRigProgressReporter interface {
	// ReportRigProgress はリグ合成進捗を通知する。
	ReportRigProgress(event RigProgressEvent)
}

// GenerateResult は骨格生成結果を表す。
type GenerateResult struct {
	Model *humanoid.HumanoidModel
}

// GuessRequest はボーン推定要求を表す。
type GuessRequest struct {
	Skeleton *skeleton.Skeleton
	Mapping  *humanoid.BoneMapping
	// Reset が true の場合は既存の割り当てを全て消してから推定する。
	Reset bool
}

// GuessResult はボーン推定結果を表す。
type GuessResult struct {
	// Found は今回新たに割り当てたロール。
	Found []humanoid.CanonicalRole
	// Kept は既に割り当て済みで推定しなかったロール。
	Kept []humanoid.CanonicalRole
	// NotFound は候補が無いか曖昧だったロール。
	NotFound []humanoid.CanonicalRole
}

// RigRequest はリグ合成要求を表す。
type RigRequest struct {
	Editor           moutput.ISkeletonEditor
	Mapping          *humanoid.BoneMapping
	ProgressReporter IRigProgressReporter
}

// RigBinding は合成した拘束1件を表す。
type RigBinding struct {
	Owner      string
	Constraint skeleton.Constraint
}

// RigResult はリグ合成結果を表す。
type RigResult struct {
	// DerivedBones は合成した制御ボーン名(作成済みの再取得を含む)。
	DerivedBones []string
	Bindings     []RigBinding
	// Skipped は対応ボーンが無く省略した部位のロール。
	Skipped []humanoid.CanonicalRole
	Graph   *skeleton.DependencyGraph
}

// PoseRequest はポーズ取得要求を表す。
type PoseRequest struct {
	Reader  moutput.IPoseReader
	Mapping *humanoid.BoneMapping
	// MetersPerUnit が0の場合は設定値を使う。
	MetersPerUnit float64
}

// PoseResult はポーズ取得結果を表す。
type PoseResult struct {
	Record    humanoid.PoseRecord
	RestNodes []humanoid.RestNode
	// Skipped は割り当て先ボーンが存在しなかったロール。
	Skipped []humanoid.CanonicalRole
}
