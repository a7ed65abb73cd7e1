// 指示: miu200521358
package messages

import (
	"embed"
	"fmt"
	"io/fs"
	"sort"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
	"gopkg.in/yaml.v3"
)

// BaseLanguage はキーそのものを表示する言語。
var BaseLanguage = language.Japanese

//go:embed locales/*.yaml
var embeddedLocaleFS embed.FS

// localeFile は翻訳ファイル1件を表す。
type localeFile struct {
	Locale   string            `yaml:"locale"`
	Messages map[string]string `yaml:"messages"`
}

var (
	defaultCatalog = mustLoadCatalog()
	// supportedLanguages は BaseLanguage を先頭にした対応言語。
	supportedLanguages = append([]language.Tag{BaseLanguage}, defaultCatalog.Languages()...)
	languageMatcher    = language.NewMatcher(supportedLanguages)
)

// mustLoadCatalog は埋め込み翻訳からカタログを構築する。
func mustLoadCatalog() *catalog.Builder {
	builder, err := LoadCatalog(embeddedLocaleFS)
	if err != nil {
		panic(err)
	}
	return builder
}

// LoadCatalog は locales/*.yaml を読み込み、翻訳カタログを構築する。
func LoadCatalog(localeFS fs.FS) (*catalog.Builder, error) {
	paths, err := fs.Glob(localeFS, "locales/*.yaml")
	if err != nil {
		return nil, fmt.Errorf("翻訳ファイルの列挙に失敗しました: %w", err)
	}
	sort.Strings(paths)

	builder := catalog.NewBuilder(catalog.Fallback(BaseLanguage))
	for _, path := range paths {
		data, err := fs.ReadFile(localeFS, path)
		if err != nil {
			return nil, fmt.Errorf("翻訳ファイルの読み込みに失敗しました: %s: %w", path, err)
		}
		parsed := localeFile{}
		if err := yaml.Unmarshal(data, &parsed); err != nil {
			return nil, fmt.Errorf("翻訳ファイルの解析に失敗しました: %s: %w", path, err)
		}
		tag, err := language.Parse(parsed.Locale)
		if err != nil {
			return nil, fmt.Errorf("翻訳ファイルの言語が不正です: %s: %w", path, err)
		}
		for key, text := range parsed.Messages {
			if err := builder.SetString(tag, key, text); err != nil {
				return nil, fmt.Errorf("翻訳の登録に失敗しました: %s: %w", key, err)
			}
		}
	}
	return builder, nil
}

// ResolveLanguage は指定文字列に最も近い対応言語を返す。空や未知の場合は BaseLanguage。
func ResolveLanguage(lang string) language.Tag {
	if lang == "" {
		return BaseLanguage
	}
	_, index := language.MatchStrings(languageMatcher, lang)
	return supportedLanguages[index]
}

// NewPrinter は指定言語でキーを表示するプリンタを返す。
func NewPrinter(lang string) *message.Printer {
	return message.NewPrinter(ResolveLanguage(lang), message.Catalog(defaultCatalog))
}
