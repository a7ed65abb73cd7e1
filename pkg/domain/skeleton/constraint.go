// 指示: miu200521358
package skeleton

import "github.com/miu200521358/mu_humanoid/pkg/domain/mmath"

// ConstraintKind は拘束の種類を表す。
type ConstraintKind string

const (
	// ConstraintIK は極ターゲット付き2ボーンIK。
	ConstraintIK ConstraintKind = "ik"
	// ConstraintCopyRotation は回転コピー。
	ConstraintCopyRotation ConstraintKind = "copy_rotation"
	// ConstraintTransform は回転の範囲写像。
	ConstraintTransform ConstraintKind = "transform"
)

// 拘束の既定名。同じボーン上では名前で一意とする。
const (
	ConstraintNameIK             = "IK"
	ConstraintNameCopyRotation   = "Copy Rotation"
	ConstraintNameTransformation = "Transformation"
)

// Space は拘束の評価空間を表す。
type Space string

const (
	SpaceWorld Space = "WORLD"
	SpaceLocal Space = "LOCAL"
)

// MixMode は写像結果と元の回転の合成方法を表す。
type MixMode string

const (
	MixReplace MixMode = "REPLACE"
	MixBefore  MixMode = "BEFORE"
	MixAfter   MixMode = "AFTER"
)

// AxisMask は回転コピーで使う軸を表す。
type AxisMask struct {
	X bool `yaml:"x"`
	Y bool `yaml:"y"`
	Z bool `yaml:"z"`
}

// AllAxes は全軸有効のマスク。
var AllAxes = AxisMask{X: true, Y: true, Z: true}

// Uses は軸が有効か判定する。
func (m AxisMask) Uses(axis Axis) bool {
	switch axis {
	case AxisX:
		return m.X
	case AxisY:
		return m.Y
	case AxisZ:
		return m.Z
	}
	return false
}

// Range は閉区間を表す。
type Range struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

// Span は区間幅を返す。
func (r Range) Span() float64 {
	return r.Max - r.Min
}

// Constraint はボーンに付与する拘束の記述を表す。
// 他ボーンは名前で弱参照する。
type Constraint struct {
	Name      string         `yaml:"name"`
	Kind      ConstraintKind `yaml:"kind"`
	Target    string         `yaml:"target"`
	Influence float64        `yaml:"influence"`
	Driver    *Driver        `yaml:"driver,omitempty"`

	PoleTarget  string  `yaml:"pole_target,omitempty"`
	PoleAngle   float64 `yaml:"pole_angle,omitempty"`
	ChainLength int     `yaml:"chain_length,omitempty"`

	Axes        AxisMask `yaml:"axes,omitempty"`
	TargetSpace Space    `yaml:"target_space,omitempty"`
	OwnerSpace  Space    `yaml:"owner_space,omitempty"`

	MapAxis Axis    `yaml:"map_axis,omitempty"`
	From    Range   `yaml:"from,omitempty"`
	To      Range   `yaml:"to,omitempty"`
	Mix     MixMode `yaml:"mix,omitempty"`
}

// NewIKConstraint は2ボーンIK拘束を生成する。
func NewIKConstraint(target, poleTarget string, poleAngle float64, chainLength int) Constraint {
	return Constraint{
		Name:        ConstraintNameIK,
		Kind:        ConstraintIK,
		Target:      target,
		Influence:   1,
		PoleTarget:  poleTarget,
		PoleAngle:   poleAngle,
		ChainLength: chainLength,
	}
}

// NewCopyRotationConstraint は全軸の回転コピー拘束を生成する。
func NewCopyRotationConstraint(target string, space Space) Constraint {
	return Constraint{
		Name:        ConstraintNameCopyRotation,
		Kind:        ConstraintCopyRotation,
		Target:      target,
		Influence:   1,
		Axes:        AllAxes,
		TargetSpace: space,
		OwnerSpace:  space,
	}
}

// NewTransformConstraint は1軸の回転範囲写像拘束を生成する。
func NewTransformConstraint(target string, axis Axis, from, to Range, mix MixMode) Constraint {
	return Constraint{
		Name:        ConstraintNameTransformation,
		Kind:        ConstraintTransform,
		Target:      target,
		Influence:   1,
		TargetSpace: SpaceLocal,
		OwnerSpace:  SpaceLocal,
		MapAxis:     axis,
		From:        from,
		To:          to,
		Mix:         mix,
	}
}

// Sources は拘束が参照する他ボーン名を返す。
func (c Constraint) Sources() []string {
	sources := make([]string, 0, 3)
	appendUnique := func(name string) {
		if name == "" {
			return
		}
		for _, existing := range sources {
			if existing == name {
				return
			}
		}
		sources = append(sources, name)
	}
	appendUnique(c.Target)
	appendUnique(c.PoleTarget)
	if c.Driver != nil {
		appendUnique(c.Driver.SourceBone)
	}
	return sources
}

// Multiple は制御回転に対する派生回転の最大倍率を返す。
func (c Constraint) Multiple() float64 {
	if c.Kind == ConstraintTransform && c.From.Span() != 0 {
		return c.To.Span() / c.From.Span()
	}
	return 1
}

// EffectiveInfluence は駆動スカラー値を与えたときの影響度を返す。
// ドライバーが無い場合は定数影響度を返す。
func (c Constraint) EffectiveInfluence(drivingValue float64) (float64, error) {
	if c.Driver == nil {
		return c.Influence, nil
	}
	gate, err := c.Driver.Evaluate(drivingValue)
	if err != nil {
		return 0, err
	}
	return gate * c.Influence, nil
}

// DerivedAngle は制御ボーンの軸回転角(ラジアン)と駆動スカラー値から、拘束先へ加わる回転角を返す。
// 回転範囲写像は入力範囲でクランプしてから出力範囲へ線形に写す。
func (c Constraint) DerivedAngle(controlAngle float64, drivingValue float64) (float64, error) {
	influence, err := c.EffectiveInfluence(drivingValue)
	if err != nil {
		return 0, err
	}
	switch c.Kind {
	case ConstraintCopyRotation:
		return influence * controlAngle, nil
	case ConstraintTransform:
		if c.From.Span() == 0 {
			return 0, nil
		}
		clamped := mmath.Clamp(controlAngle, c.From.Min, c.From.Max)
		ratio := (clamped - c.From.Min) / c.From.Span()
		mapped := c.To.Min + ratio*c.To.Span()
		return influence * mapped, nil
	}
	return 0, nil
}
