package i18n

import (
	"embed"
	"encoding/json"
	"net/http"
	"path"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"
)

const DefaultLang = "en"

//go:embed locales/*.json
var localeFS embed.FS

var translations = load()

func load() map[string]map[string]string {
	out := make(map[string]map[string]string)
	files, err := localeFS.ReadDir("locales")
	if err != nil {
		log.Error().Err(err).Msg("failed to read embedded locales")
		return out
	}
	for _, f := range files {
		if path.Ext(f.Name()) != ".json" {
			continue
		}
		lang := strings.TrimSuffix(f.Name(), ".json")
		data, err := localeFS.ReadFile("locales/" + f.Name())
		if err != nil {
			log.Error().Err(err).Str("lang", lang).Msg("failed to read locale")
			continue
		}
		var t map[string]string
		if err := json.Unmarshal(data, &t); err != nil {
			log.Error().Err(err).Str("lang", lang).Msg("invalid locale file")
			continue
		}
		out[lang] = t
	}
	return out
}

func T(lang, key string) string {
	if t, ok := translations[lang]; ok {
		if val, ok := t[key]; ok {
			return val
		}
	}
	// Fallback to en
	if t, ok := translations[DefaultLang]; ok {
		if val, ok := t[key]; ok {
			return val
		}
	}
	return key
}

// GetLang reads the lang cookie, falling back to en for unknown values.
func GetLang(r *http.Request) string {
	cookie, err := r.Cookie("lang")
	if err == nil {
		if _, ok := translations[cookie.Value]; ok {
			return cookie.Value
		}
	}
	return DefaultLang
}

func GetAvailableLangs() []string {
	langs := make([]string, 0, len(translations))
	for l := range translations {
		langs = append(langs, l)
	}
	sort.Strings(langs)
	return langs
}
