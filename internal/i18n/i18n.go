// SPDX-License-Identifier: MPL-2.0

// Package i18n localizes console messages. Catalogs are embedded TOML files
// named active.<lang>.toml.
package i18n

import (
	"embed"
	"fmt"
	"strings"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/pelletier/go-toml/v2"
	"golang.org/x/text/language"
)

//go:embed active.*.toml
var catalogFS embed.FS

var (
	supported = []language.Tag{language.English, language.Korean}
	matcher   = language.NewMatcher(supported)
)

// Translator renders message IDs in one language, falling back to English.
type Translator struct {
	localizer *i18n.Localizer
	tag       language.Tag
}

// New loads the embedded catalogs and selects the closest supported language
// to lang. lang may be a BCP 47 tag or a POSIX locale such as ko_KR.UTF-8; an
// empty or unknown value selects English.
func New(lang string) (*Translator, error) {
	bundle := i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	for _, tag := range supported {
		file := "active." + tag.String() + ".toml"
		if _, err := bundle.LoadMessageFileFS(catalogFS, file); err != nil {
			return nil, fmt.Errorf("load message catalog %s: %w", file, err)
		}
	}

	tag := Match(lang)
	return &Translator{
		localizer: i18n.NewLocalizer(bundle, tag.String(), language.English.String()),
		tag:       tag,
	}, nil
}

// Match returns the supported language closest to lang.
func Match(lang string) language.Tag {
	lang = normalize(lang)
	if lang == "" {
		return language.English
	}
	requested, _, err := language.ParseAcceptLanguage(lang)
	if err != nil || len(requested) == 0 {
		return language.English
	}
	_, index, confidence := matcher.Match(requested...)
	if confidence == language.No {
		return language.English
	}
	return supported[index]
}

// normalize turns POSIX locale names into BCP 47 tags.
func normalize(lang string) string {
	lang = strings.TrimSpace(lang)
	if i := strings.IndexAny(lang, ".@"); i >= 0 {
		lang = lang[:i]
	}
	if lang == "C" || lang == "POSIX" {
		return ""
	}
	return strings.ReplaceAll(lang, "_", "-")
}

// Language returns the selected language.
func (t *Translator) Language() language.Tag { return t.tag }

// T renders the message id with data. An unknown id renders as the id itself.
func (t *Translator) T(id string, data map[string]any) string {
	msg, err := t.localizer.Localize(&i18n.LocalizeConfig{MessageID: id, TemplateData: data})
	if err != nil {
		return id
	}
	return msg
}

// N renders a message that depends on count.
func (t *Translator) N(id string, count int, data map[string]any) string {
	if data == nil {
		data = map[string]any{}
	}
	data["Count"] = count
	msg, err := t.localizer.Localize(&i18n.LocalizeConfig{MessageID: id, TemplateData: data, PluralCount: count})
	if err != nil {
		return id
	}
	return msg
}
