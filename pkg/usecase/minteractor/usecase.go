// 指示: miu200521358
package minteractor

import "github.com/miu200521358/mu_humanoid/pkg/usecase/port/moutput"

// HumanoidUsecaseDeps は人型骨格ユースケースの依存を表す。
type HumanoidUsecaseDeps struct {
	ModelReader moutput.IModelReader
	ModelWriter moutput.IModelWriter
	PoseWriter  moutput.IPoseWriter
	Generator   GeneratorSettings
	Rig         RigSettings
	Pose        PoseSettings
}

// HumanoidUsecase は骨格生成・ボーン推定・リグ合成・ポーズ正規化をまとめたユースケースを表す。
type HumanoidUsecase struct {
	modelReader moutput.IModelReader
	modelWriter moutput.IModelWriter
	poseWriter  moutput.IPoseWriter
	generator   GeneratorSettings
	rig         RigSettings
	pose        PoseSettings
}

// NewHumanoidUsecase は人型骨格ユースケースを生成する。
// 設定がゼロ値の場合は既定値を使う。
func NewHumanoidUsecase(deps HumanoidUsecaseDeps) *HumanoidUsecase {
	generator := deps.Generator
	if generator == (GeneratorSettings{}) {
		generator = DefaultGeneratorSettings()
	}
	rig := deps.Rig
	if rig == (RigSettings{}) {
		rig = DefaultRigSettings()
	}
	pose := deps.Pose
	if pose == (PoseSettings{}) {
		pose = DefaultPoseSettings()
	}
	return &HumanoidUsecase{
		modelReader: deps.ModelReader,
		modelWriter: deps.ModelWriter,
		poseWriter:  deps.PoseWriter,
		generator:   generator,
		rig:         rig,
		pose:        pose,
	}
}
