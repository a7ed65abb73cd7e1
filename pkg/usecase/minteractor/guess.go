// 指示: miu200521358
package minteractor

import (
	"fmt"
	"strings"

	"github.com/miu200521358/mu_humanoid/pkg/domain/humanoid"
	"golang.org/x/text/cases"
)

// GuessBone は役割名からボーン名を推定する。
// 役割名の末尾語を含むボーンが1件ならそれを採用し、複数なら左右語を含む1件を採用する。
// 決まらない場合は既知の命名規約表を引き、骨格に実在する名前のみ採用する。
func GuessBone(boneNames []string, role humanoid.CanonicalRole) (string, bool) {
	folder := cases.Fold()
	tokens := role.Tokens()
	if len(tokens) == 0 {
		return "", false
	}
	key := folder.String(tokens[len(tokens)-1])
	sideToken := ""
	if side := role.Side(); side != humanoid.SideNone {
		sideToken = folder.String(side.String())
	}

	found := make([]string, 0, 2)
	for _, name := range boneNames {
		if strings.Contains(folder.String(name), key) {
			found = append(found, name)
		}
	}
	if len(found) == 1 {
		logHumanoidDebug("ボーン推定: role=%s bone=%s key=%s", role, found[0], key)
		return found[0], true
	}
	if len(found) > 1 && sideToken != "" {
		sided := make([]string, 0, len(found))
		for _, name := range found {
			if strings.Contains(folder.String(name), sideToken) {
				sided = append(sided, name)
			}
		}
		if len(sided) == 1 {
			logHumanoidDebug("ボーン推定(左右): role=%s bone=%s key=%s", role, sided[0], key)
			return sided[0], true
		}
		if len(sided) > 1 {
			logHumanoidDebug("ボーン推定候補が曖昧です: role=%s candidates=%v", role, sided)
		}
	}

	exists := make(map[string]struct{}, len(boneNames))
	for _, name := range boneNames {
		exists[name] = struct{}{}
	}
	name, convention, ok := fallbackBoneName(func(name string) bool {
		_, ok := exists[name]
		return ok
	}, role)
	if ok {
		logHumanoidDebug("ボーン推定(命名規約): role=%s bone=%s convention=%s", role, name, convention)
		return name, true
	}
	return "", false
}

// GuessMapping は未割り当ての役割を推定して埋める。既存の割り当ては上書きしない。
// Reset が指定された場合は全割り当てを消してから推定する。
func (uc *HumanoidUsecase) GuessMapping(request GuessRequest) (*GuessResult, error) {
	if request.Skeleton == nil {
		return nil, newNotSkeletonError("GuessMapping")
	}
	if request.Mapping == nil {
		return nil, fmt.Errorf("ボーン割り当てが未設定です")
	}
	if request.Reset {
		request.Mapping.ClearAll()
	}

	boneNames := request.Skeleton.BoneNames()
	result := &GuessResult{
		Found:    make([]humanoid.CanonicalRole, 0),
		Kept:     make([]humanoid.CanonicalRole, 0),
		NotFound: make([]humanoid.CanonicalRole, 0),
	}
	for _, role := range humanoid.AllRoles() {
		if _, ok := request.Mapping.Get(role); ok {
			result.Kept = append(result.Kept, role)
			continue
		}
		boneName, ok := GuessBone(boneNames, role)
		if !ok {
			result.NotFound = append(result.NotFound, role)
			continue
		}
		request.Mapping.Set(role, boneName)
		result.Found = append(result.Found, role)
	}
	logHumanoidInfo("ボーン推定完了: found=%d kept=%d notFound=%d", len(result.Found), len(result.Kept), len(result.NotFound))
	return result, nil
}

// GuessModel はモデルの割り当てを推定して埋める。
func (uc *HumanoidUsecase) GuessModel(target *humanoid.HumanoidModel, reset bool) (*GuessResult, error) {
	if target == nil {
		return nil, newNotSkeletonError("GuessModel")
	}
	if target.Mapping == nil {
		target.Mapping = humanoid.NewBoneMapping()
	}
	return uc.GuessMapping(GuessRequest{Skeleton: target.Skeleton, Mapping: target.Mapping, Reset: reset})
}
