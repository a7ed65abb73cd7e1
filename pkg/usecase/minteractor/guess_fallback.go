// 指示: miu200521358
package minteractor

import (
	"fmt"

	"github.com/miu200521358/mu_humanoid/pkg/domain/humanoid"
)

// fallbackConvention は命名規約ごとの既知ボーン名表を表す。
type fallbackConvention struct {
	Name  string
	Names map[humanoid.CanonicalRole]string
}

// fallbackConventions は部分一致で決まらない場合に参照する命名規約の一覧。
var fallbackConventions = []fallbackConvention{
	{Name: "rigify", Names: buildRigifyNames()},
	{Name: "mixamo", Names: buildMixamoNames()},
}

// buildRigifyNames はRigify生成リグのボーン名表を組み立てる。upperChest は持たない。
func buildRigifyNames() map[humanoid.CanonicalRole]string {
	names := map[humanoid.CanonicalRole]string{
		humanoid.Hips:  "torso",
		humanoid.Spine: "MCH-spine.002",
		humanoid.Chest: "MCH-spine.003",
		humanoid.Neck:  "ORG-spine.004",
		humanoid.Head:  "ORG-spine.006",
	}
	fingerNames := map[humanoid.Finger]string{
		humanoid.Thumb:  "thumb",
		humanoid.Index:  "f_index",
		humanoid.Middle: "f_middle",
		humanoid.Ring:   "f_ring",
		humanoid.Little: "f_pinky",
	}
	for _, side := range humanoid.Sides {
		suffix := side.Suffix()
		names[humanoid.SideRole(side, "Shoulder")] = "ORG-shoulder" + suffix
		names[humanoid.SideRole(side, "UpperArm")] = "DEF-upper_arm" + suffix
		names[humanoid.SideRole(side, "LowerArm")] = "DEF-forearm" + suffix
		names[humanoid.SideRole(side, "Hand")] = "DEF-hand" + suffix
		names[humanoid.SideRole(side, "UpperLeg")] = "ORG-thigh" + suffix
		names[humanoid.SideRole(side, "LowerLeg")] = "ORG-shin" + suffix
		names[humanoid.SideRole(side, "Foot")] = "ORG-foot" + suffix
		names[humanoid.SideRole(side, "Toes")] = "ORG-toe" + suffix
		for _, finger := range humanoid.Fingers {
			for i, role := range humanoid.FingerChain(side, finger) {
				names[role] = fmt.Sprintf("ORG-%s.%02d%s", fingerNames[finger], i+1, suffix)
			}
		}
	}
	return names
}

// buildMixamoNames はMixamoリグのボーン名表を組み立てる。
func buildMixamoNames() map[humanoid.CanonicalRole]string {
	const prefix = "mixamorig:"
	names := map[humanoid.CanonicalRole]string{
		humanoid.Hips:       prefix + "Hips",
		humanoid.Spine:      prefix + "Spine",
		humanoid.Chest:      prefix + "Spine1",
		humanoid.UpperChest: prefix + "Spine2",
		humanoid.Neck:       prefix + "Neck",
		humanoid.Head:       prefix + "Head",
	}
	fingerNames := map[humanoid.Finger]string{
		humanoid.Thumb:  "Thumb",
		humanoid.Index:  "Index",
		humanoid.Middle: "Middle",
		humanoid.Ring:   "Ring",
		humanoid.Little: "Pinky",
	}
	for _, side := range humanoid.Sides {
		sideName := "Left"
		if side == humanoid.SideRight {
			sideName = "Right"
		}
		names[humanoid.SideRole(side, "Shoulder")] = prefix + sideName + "Shoulder"
		names[humanoid.SideRole(side, "UpperArm")] = prefix + sideName + "Arm"
		names[humanoid.SideRole(side, "LowerArm")] = prefix + sideName + "ForeArm"
		names[humanoid.SideRole(side, "Hand")] = prefix + sideName + "Hand"
		names[humanoid.SideRole(side, "UpperLeg")] = prefix + sideName + "UpLeg"
		names[humanoid.SideRole(side, "LowerLeg")] = prefix + sideName + "Leg"
		names[humanoid.SideRole(side, "Foot")] = prefix + sideName + "Foot"
		names[humanoid.SideRole(side, "Toes")] = prefix + sideName + "ToeBase"
		for _, finger := range humanoid.Fingers {
			for i, role := range humanoid.FingerChain(side, finger) {
				names[role] = fmt.Sprintf("%s%sHand%s%d", prefix, sideName, fingerNames[finger], i+1)
			}
		}
	}
	return names
}

// fallbackBoneName は命名規約表から骨格に実在するボーン名を探す。
func fallbackBoneName(exists func(name string) bool, role humanoid.CanonicalRole) (string, string, bool) {
	for _, convention := range fallbackConventions {
		name, ok := convention.Names[role]
		if !ok {
			continue
		}
		if exists(name) {
			return name, convention.Name, true
		}
	}
	return "", "", false
}
