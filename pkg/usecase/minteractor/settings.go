// 指示: miu200521358
package minteractor

import (
	"fmt"
	"math"

	"github.com/miu200521358/mu_humanoid/pkg/domain/model"
	"github.com/miu200521358/mu_humanoid/pkg/domain/skeleton"
	"github.com/miu200521358/mu_humanoid/pkg/shared/base/merr"
)

// GeneratorSettings は骨格生成の入力値を表す。
type GeneratorSettings struct {
	// StandingHeight は身長(骨格単位)。
	StandingHeight float64 `yaml:"standing_height" env:"STANDING_HEIGHT"`
	// FingerSpacing は人差し指・薬指の中指からの横ずれ幅。小指はその2倍。
	FingerSpacing float64 `yaml:"finger_spacing" env:"FINGER_SPACING"`
	// ThumbDrop は親指中手骨の手首からの下げ幅。
	ThumbDrop float64 `yaml:"thumb_drop" env:"THUMB_DROP"`
}

// DefaultGeneratorSettings は骨格生成の既定値を返す。
func DefaultGeneratorSettings() GeneratorSettings {
	return GeneratorSettings{
		StandingHeight: 1.6,
		FingerSpacing:  0.015,
		ThumbDrop:      0.02,
	}
}

// Validate は生成設定を検証する。
func (s GeneratorSettings) Validate() error {
	if !(s.StandingHeight > 0) || math.IsInf(s.StandingHeight, 0) {
		return merr.NewError(model.ErrIDInvalidHeight, nil, "身長は正の有限値で指定してください: %v", s.StandingHeight)
	}
	return nil
}

// RigSettings はリグ合成の調整値を表す。長さは骨格単位、角度は度。
type RigSettings struct {
	// Collection は制御ボーンを入れるコレクション名。
	Collection string `yaml:"collection" env:"COLLECTION"`
	// RotationMode は全ボーンへ設定する回転順。
	RotationMode skeleton.RotationMode `yaml:"rotation_mode" env:"ROTATION_MODE"`

	RootLength      float64 `yaml:"root_length" env:"ROOT_LENGTH"`
	COGHandleLength float64 `yaml:"cog_handle_length" env:"COG_HANDLE_LENGTH"`
	LegIKLength     float64 `yaml:"leg_ik_length" env:"LEG_IK_LENGTH"`
	// LegPoleDistance は膝から後方(+Y)の極ターゲットまでの距離。符号は前方(-Y)を向く。
	LegPoleDistance float64 `yaml:"leg_pole_distance" env:"LEG_POLE_DISTANCE"`
	ArmPoleDistance float64 `yaml:"arm_pole_distance" env:"ARM_POLE_DISTANCE"`
	PoleLength      float64 `yaml:"pole_length" env:"POLE_LENGTH"`
	PoleAngle       float64 `yaml:"pole_angle" env:"POLE_ANGLE"`
	IKChainLength   int     `yaml:"ik_chain_length" env:"IK_CHAIN_LENGTH"`
	// CollinearNudge は一直線の関節を曲げるずらし量。
	CollinearNudge float64 `yaml:"collinear_nudge" env:"COLLINEAR_NUDGE"`

	BendOffset   float64 `yaml:"bend_offset" env:"BEND_OFFSET"`
	SpreadOffset float64 `yaml:"spread_offset" env:"SPREAD_OFFSET"`

	FingerIntermediateThreshold float64 `yaml:"finger_intermediate_threshold" env:"FINGER_INTERMEDIATE_THRESHOLD"`
	FingerDistalThreshold       float64 `yaml:"finger_distal_threshold" env:"FINGER_DISTAL_THRESHOLD"`
	FingerGateRange             float64 `yaml:"finger_gate_range" env:"FINGER_GATE_RANGE"`
	ThumbProximalThreshold      float64 `yaml:"thumb_proximal_threshold" env:"THUMB_PROXIMAL_THRESHOLD"`
	ThumbDistalThreshold        float64 `yaml:"thumb_distal_threshold" env:"THUMB_DISTAL_THRESHOLD"`
	ThumbGateRange              float64 `yaml:"thumb_gate_range" env:"THUMB_GATE_RANGE"`
	ThumbInputLimit             float64 `yaml:"thumb_input_limit" env:"THUMB_INPUT_LIMIT"`
	ThumbMultiple               float64 `yaml:"thumb_multiple" env:"THUMB_MULTIPLE"`

	SpreadInputLimit      float64 `yaml:"spread_input_limit" env:"SPREAD_INPUT_LIMIT"`
	SpreadIndexInfluence  float64 `yaml:"spread_index_influence" env:"SPREAD_INDEX_INFLUENCE"`
	SpreadRingInfluence   float64 `yaml:"spread_ring_influence" env:"SPREAD_RING_INFLUENCE"`
	SpreadLittleInfluence float64 `yaml:"spread_little_influence" env:"SPREAD_LITTLE_INFLUENCE"`
}

// DefaultRigSettings はリグ合成の既定値を返す。
func DefaultRigSettings() RigSettings {
	return RigSettings{
		Collection:      "Rig",
		RotationMode:    skeleton.RotationZYX,
		RootLength:      1,
		COGHandleLength: 0.4,
		LegIKLength:     0.2,
		LegPoleDistance: -0.4,
		ArmPoleDistance: 0.4,
		PoleLength:      0.2,
		PoleAngle:       -90,
		IKChainLength:   2,
		CollinearNudge:  0.01,

		BendOffset:   0.02,
		SpreadOffset: 0.02,

		FingerIntermediateThreshold: 0.7,
		FingerDistalThreshold:       0.4,
		FingerGateRange:             0.3,
		ThumbProximalThreshold:      0.7,
		ThumbDistalThreshold:        0.4,
		ThumbGateRange:              0.3,
		ThumbInputLimit:             1,
		ThumbMultiple:               3,

		SpreadInputLimit:      1.5,
		SpreadIndexInfluence:  -0.65,
		SpreadRingInfluence:   0.65,
		SpreadLittleInfluence: 1,
	}
}

// Validate はリグ設定を検証する。
func (s RigSettings) Validate() error {
	if s.FingerGateRange <= 0 || s.ThumbGateRange <= 0 {
		return fmt.Errorf("指ドライバーの範囲は正の値で指定してください: finger=%v thumb=%v", s.FingerGateRange, s.ThumbGateRange)
	}
	if s.ThumbInputLimit <= 0 || s.SpreadInputLimit <= 0 {
		return fmt.Errorf("入力範囲は正の値で指定してください: thumb=%v spread=%v", s.ThumbInputLimit, s.SpreadInputLimit)
	}
	if s.IKChainLength <= 0 {
		return fmt.Errorf("IKチェーン長は正の値で指定してください: %d", s.IKChainLength)
	}
	if s.CollinearNudge == 0 {
		return fmt.Errorf("一直線補正量は0以外で指定してください")
	}
	return nil
}

// PoseSettings はポーズ正規化の既定値を表す。
type PoseSettings struct {
	// MetersPerUnit は骨格単位からメートルへの換算係数。
	MetersPerUnit float64 `yaml:"meters_per_unit" env:"METERS_PER_UNIT"`
}

// DefaultPoseSettings はポーズ正規化の既定値を返す。
func DefaultPoseSettings() PoseSettings {
	return PoseSettings{MetersPerUnit: 1}
}

// validateMetersPerUnit は換算係数を検証する。
func validateMetersPerUnit(value float64) error {
	if !(value > 0) || math.IsInf(value, 0) {
		return merr.NewError(model.ErrIDInvalidScaleFactor, nil, "単位換算係数は正の有限値で指定してください: %v", value)
	}
	return nil
}
