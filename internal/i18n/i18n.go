package i18n

import (
	"embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
)

//go:embed locales/*.json
var localesFS embed.FS

// DefaultLanguage is used when a key or language is missing.
const DefaultLanguage = "en"

// Localizer handles translation for different languages.
type Localizer struct {
	translations map[string]map[string]string
	mu           sync.RWMutex
}

// NewLocalizer creates a new Localizer instance and loads all translations.
func NewLocalizer() (*Localizer, error) {
	locale := &Localizer{
		translations: make(map[string]map[string]string),
	}

	// Load supported languages
	languages := []string{"en", "uk"}
	for _, lang := range languages {
		if err := locale.loadLanguage(lang); err != nil {
			return nil, fmt.Errorf("failed to load language %s: %w", lang, err)
		}
	}

	return locale, nil
}

// MustLocalizer is NewLocalizer for embedded locales that are known to be valid.
func MustLocalizer() *Localizer {
	l, err := NewLocalizer()
	if err != nil {
		panic(err)
	}
	return l
}

// loadLanguage loads translations for a specific language from embedded JSON files.
func (l *Localizer) loadLanguage(lang string) error {
	filename := fmt.Sprintf("locales/%s.json", lang)
	data, err := localesFS.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read locale file %s: %w", filename, err)
	}

	var translations map[string]string
	if err = json.Unmarshal(data, &translations); err != nil {
		return fmt.Errorf("failed to unmarshal locale file %s: %w", filename, err)
	}

	l.mu.Lock()
	l.translations[lang] = translations
	l.mu.Unlock()

	return nil
}

// Get returns the translation for the given key in the specified language.
// If the translation is not found, it returns the key itself.
func (l *Localizer) Get(lang, key string) string {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if langTranslations, ok := l.translations[lang]; ok {
		if translation, exists := langTranslations[key]; exists {
			return translation
		}
	}

	// Fallback to English if translation not found
	if lang != DefaultLanguage {
		if enTranslations, ok := l.translations[DefaultLanguage]; ok {
			if translation, exists := enTranslations[key]; exists {
				return translation
			}
		}
	}

	return key
}

// GetWithData returns the translation for the given key with placeholder replacement.
// Example: GetWithData("en", "cli.deleted", map[string]any{"entity": "customer", "id": 4}).
func (l *Localizer) GetWithData(lang, key string, data map[string]any) string {
	translation := l.Get(lang, key)

	for k, v := range data {
		translation = strings.ReplaceAll(translation, "{"+k+"}", fmt.Sprint(v))
	}

	return translation
}

// For binds the localizer to one language.
func (l *Localizer) For(lang string) Lang {
	return Lang{l: l, lang: NormalizeLanguageCode(lang)}
}

// Lang is a Localizer bound to a language.
type Lang struct {
	l    *Localizer
	lang string
}

// Code returns the bound language code.
func (b Lang) Code() string {
	return b.lang
}

// T translates key.
func (b Lang) T(key string) string {
	return b.l.Get(b.lang, key)
}

// Tf translates key and fills its placeholders.
func (b Lang) Tf(key string, data map[string]any) string {
	return b.l.GetWithData(b.lang, key, data)
}

// NormalizeLanguageCode maps locale strings such as "uk_UA.UTF-8" or
// "en-US" to a supported language.
func NormalizeLanguageCode(locale string) string {
	const langCodeShortLength = 2
	if len(locale) < langCodeShortLength {
		return DefaultLanguage
	}

	switch strings.ToLower(locale[:langCodeShortLength]) {
	case "uk", "ua": // Both uk and ua map to Ukrainian
		return "uk"
	default:
		return DefaultLanguage
	}
}
