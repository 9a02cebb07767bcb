// Package language classifies text into the engine's supported
// language tags.
package language

import (
	"strings"
	"unicode"

	"github.com/abadojack/whatlanggo"
)

// DefaultTag is the fallback when detection cannot commit to a language.
const DefaultTag = "en-us"

// supported maps the classifier's ISO 639-1 codes to engine tags.
var supported = map[string]string{
	"en": "en-us",
	"zh": "zh",
	"ja": "ja",
	"ko": "ko",
	"de": "de",
	"fr": "fr",
	"es": "es",
	"it": "it",
	"pt": "pt",
	"hi": "hi",
	"ru": "ru",
}

// aliases normalizes caller-provided language codes.
var aliases = map[string]string{
	"en":    "en-us",
	"eng":   "en-us",
	"en-us": "en-us",
	"en-gb": "en-gb",
	"en-uk": "en-gb",
	"en-au": "en-gb",
	"en-ca": "en-us",
	"en-ie": "en-gb",
	"en-in": "en-gb",
	"en-nz": "en-gb",
	"en-za": "en-gb",
	"zh":    "zh",
	"zho":   "zh",
	"chi":   "zh",
	"zh-cn": "zh",
	"zh-tw": "zh",
	"cmn":   "zh",
	"ja":    "ja",
	"jpn":   "ja",
	"jp":    "ja",
	"ko":    "ko",
	"kor":   "ko",
	"de":    "de",
	"deu":   "de",
	"ger":   "de",
	"fr":    "fr",
	"fra":   "fr",
	"fre":   "fr",
	"es":    "es",
	"spa":   "es",
	"es-es": "es",
	"es-mx": "es",
	"it":    "it",
	"ita":   "it",
	"pt":    "pt",
	"por":   "pt",
	"pt-pt": "pt",
	"pt-br": "pt",
	"hi":    "hi",
	"hin":   "hi",
	"ru":    "ru",
	"rus":   "ru",
}

// Supported returns the engine language tags, detection targets plus
// the en-gb voice-only tag.
func Supported() []string {
	return []string{"en-us", "en-gb", "es", "fr", "it", "pt", "hi", "ja", "zh", "de", "ru", "ko"}
}

// NormalizeTag maps a caller-provided language code onto a supported
// tag. Reports false for unknown codes.
func NormalizeTag(code string) (string, bool) {
	tag, ok := aliases[strings.ToLower(strings.TrimSpace(code))]
	return tag, ok
}

// Detect classifies text into a supported language tag. Always returns
// a usable tag; anything uncertain falls back to en-us.
func Detect(text string) string {
	trimmed := strings.TrimSpace(text)

	// Too little signal for the classifier.
	if len(trimmed) < 10 {
		return DefaultTag
	}

	letters, total := 0, 0
	for _, c := range trimmed {
		total++
		if unicode.IsLetter(c) {
			letters++
		}
	}
	if letters*3 < total {
		return DefaultTag
	}

	if tag, ok := scriptTag(trimmed); ok {
		return tag
	}

	info := whatlanggo.Detect(trimmed)
	code := info.Lang.Iso6391()

	if info.Confidence < minConfidence {
		return DefaultTag
	}
	if tag, ok := supported[code]; ok {
		return tag
	}
	return DefaultTag
}

// minConfidence gates the trigram classifier. Non-Latin scripts never
// reach it, so a single Latin-script threshold suffices; the
// classifier's confidence for script-unambiguous languages is too
// erratic to gate on.
const minConfidence = 0.5

// scriptTag short-circuits scripts that map onto exactly one supported
// language. Any kana commits to Japanese; otherwise a script carrying
// the majority of letters decides.
func scriptTag(text string) (string, bool) {
	var letters, kana, han, hangul, cyrillic, devanagari int
	for _, c := range text {
		if !unicode.IsLetter(c) {
			continue
		}
		letters++
		switch {
		case unicode.Is(unicode.Hiragana, c) || unicode.Is(unicode.Katakana, c):
			kana++
		case unicode.Is(unicode.Han, c):
			han++
		case unicode.Is(unicode.Hangul, c):
			hangul++
		case unicode.Is(unicode.Cyrillic, c):
			cyrillic++
		case unicode.Is(unicode.Devanagari, c):
			devanagari++
		}
	}
	if letters == 0 {
		return "", false
	}
	switch {
	case kana > 0:
		return "ja", true
	case han*2 > letters:
		return "zh", true
	case hangul*2 > letters:
		return "ko", true
	case cyrillic*2 > letters:
		return "ru", true
	case devanagari*2 > letters:
		return "hi", true
	}
	return "", false
}

// ContainsHan reports whether text contains CJK ideographs or
// punctuation. Used to route text to the Chinese model variant.
func ContainsHan(text string) bool {
	for _, c := range text {
		if c >= 0x4E00 && c <= 0x9FFF || // CJK Unified Ideographs
			c >= 0x3400 && c <= 0x4DBF || // CJK Extension A
			c >= 0x3000 && c <= 0x303F { // CJK punctuation
			return true
		}
	}
	return false
}
