// 指示: miu200521358
package minteractor

import (
	"errors"
	"strings"
	"testing"

	"github.com/miu200521358/mu_humanoid/pkg/domain/humanoid"
	"github.com/miu200521358/mu_humanoid/pkg/domain/model"
	"github.com/miu200521358/mu_humanoid/pkg/shared/base/merr"
)

// modelRepositoryStub は読み書きを記録するリポジトリのスタブ。
type modelRepositoryStub struct {
	loaded  *humanoid.HumanoidModel
	loadErr error
	saved   map[string]*humanoid.HumanoidModel
}

func (r *modelRepositoryStub) CanLoad(path string) bool {
	return strings.HasSuffix(strings.ToLower(path), ".yaml")
}

func (r *modelRepositoryStub) Load(path string) (*humanoid.HumanoidModel, error) {
	return r.loaded, r.loadErr
}

func (r *modelRepositoryStub) Save(path string, target *humanoid.HumanoidModel) error {
	if r.saved == nil {
		r.saved = map[string]*humanoid.HumanoidModel{}
	}
	r.saved[path] = target
	return nil
}

func TestLoadModelUsesDefaultRepository(t *testing.T) {
	generated := newGeneratedModel(t)
	generated.Mapping = nil
	repo := &modelRepositoryStub{loaded: generated}
	uc := NewHumanoidUsecase(HumanoidUsecaseDeps{ModelReader: repo})

	loaded, err := uc.LoadModel(nil, "avatar.yaml")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.Mapping == nil || loaded.Mapping.Len() != 0 {
		t.Fatalf("missing mapping should become empty")
	}
}

// TestLoadModelErrors は読み込み前後の検証エラーを検証する。
func TestLoadModelErrors(t *testing.T) {
	uc := NewHumanoidUsecase(HumanoidUsecaseDeps{})
	if _, err := uc.LoadModel(nil, "avatar.yaml"); err == nil {
		t.Fatalf("expected error without repository")
	}

	repo := &modelRepositoryStub{}
	if _, err := uc.LoadModel(repo, " "); err == nil {
		t.Fatalf("expected error for empty path")
	}
	if _, err := uc.LoadModel(repo, "avatar.fbx"); merr.ExtractErrorID(err) != model.ErrIDFormatNotSupported {
		t.Fatalf("unsupported format error mismatch: %v", err)
	}
	if _, err := uc.LoadModel(repo, "avatar.yaml"); merr.ExtractErrorID(err) != model.ErrIDNotSkeleton {
		t.Fatalf("not skeleton error mismatch: %v", err)
	}

	cause := errors.New("broken")
	repo.loadErr = cause
	if _, err := uc.LoadModel(repo, "avatar.yaml"); !errors.Is(err, cause) {
		t.Fatalf("load error should be returned as is: %v", err)
	}
}

func TestSaveModel(t *testing.T) {
	generated := newGeneratedModel(t)
	repo := &modelRepositoryStub{}
	uc := NewHumanoidUsecase(HumanoidUsecaseDeps{ModelWriter: repo})

	if err := uc.SaveModel(nil, "out.yaml", generated); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if repo.saved["out.yaml"] != generated {
		t.Fatalf("model not passed to writer")
	}
	if err := uc.SaveModel(nil, "", generated); err == nil {
		t.Fatalf("expected error for empty path")
	}
	if err := uc.SaveModel(nil, "out.yaml", nil); err == nil {
		t.Fatalf("expected error for nil model")
	}
	if err := NewHumanoidUsecase(HumanoidUsecaseDeps{}).SaveModel(nil, "out.yaml", generated); err == nil {
		t.Fatalf("expected error without writer")
	}
}
