package phoneme

import (
	"context"
	"regexp"
	"strings"
	"time"

	jag2p "kokorod/internal/domain/phoneme/ja"
	zhg2p "kokorod/internal/domain/phoneme/zh"
	platformerrors "kokorod/internal/platform/errors"
)

// G2P converts normalized text in a single language to phoneme symbols.
type G2P interface {
	Phonemize(ctx context.Context, text string) (string, error)
}

// Config locates the external espeak-ng binary used for all languages
// without a native backend.
type Config struct {
	EspeakPath    string
	EspeakDataDir string
	EspeakTimeout time.Duration
}

// Phonemizer routes text to the per-language G2P backend and applies
// the model's shared symbol fixups to the result.
type Phonemizer struct {
	espeak *Espeak
	zh     G2P
	ja     G2P
}

// New builds a Phonemizer with the native Chinese and Japanese
// backends and an espeak-ng process wrapper for everything else.
// Loading the CJK dictionaries is the expensive part; call once at
// startup.
func New(cfg Config) (*Phonemizer, error) {
	zh, err := zhg2p.New()
	if err != nil {
		return nil, err
	}
	ja, err := jag2p.New()
	if err != nil {
		return nil, err
	}
	return &Phonemizer{
		espeak: NewEspeak(cfg.EspeakPath, cfg.EspeakDataDir, cfg.EspeakTimeout),
		zh:     zh,
		ja:     ja,
	}, nil
}

// Probe checks that the espeak-ng binary can be found. The CJK
// backends carry their dictionaries in-process and need no probe.
func (p *Phonemizer) Probe() error {
	return p.espeak.Probe()
}

// espeakVoices maps engine language tags onto espeak-ng voice names.
var espeakVoices = map[string]string{
	"en-us": "en-us",
	"en-gb": "en-gb",
	"de":    "de",
	"fr":    "fr",
	"es":    "es",
	"it":    "it",
	"pt":    "pt-pt",
	"ru":    "ru",
	"hi":    "hi",
	"ko":    "ko",
}

// Phonemize converts one sentence in the given language to the
// model's phoneme symbols.
func (p *Phonemizer) Phonemize(ctx context.Context, tag, text string) (string, error) {
	const op = "phoneme.Phonemize"

	var raw string
	var err error
	switch {
	case strings.HasPrefix(tag, "zh"):
		raw, err = p.zh.Phonemize(ctx, text)
	case tag == "ja":
		raw, err = p.ja.Phonemize(ctx, text)
	default:
		voice, ok := espeakVoices[tag]
		if !ok {
			return "", platformerrors.Newf(platformerrors.KindPhonemizerUnavailable, op, "no phonemizer backend for language %q", tag)
		}
		raw, err = p.espeak.Phonemize(ctx, voice, text)
	}
	if err != nil {
		return "", err
	}
	return postProcess(tag, raw), nil
}

// The model was trained on the word "kokoro" with a fixed
// pronunciation that espeak does not produce on its own.
var kokoroReplacer = strings.NewReplacer(
	"kəkˈoːɹoʊ", "kˈoʊkəɹoʊ",
	"kəkˈɔːɹəʊ", "kˈəʊkəɹəʊ",
)

// symbolReplacer folds espeak output onto the symbols the alphabet
// actually contains.
var symbolReplacer = strings.NewReplacer(
	"ʲ", "j",
	"r", "ɹ",
	"x", "k",
	"ɬ", "l",
)

// japaneseReplacer strips the lowering diacritics espeak attaches to
// Japanese vowels.
var japaneseReplacer = strings.NewReplacer(
	"o̞", "o",
	"e̞", "e",
	"ɯᵝ", "ɯ",
	"ä", "a",
	"̞", "",
)

var (
	// espeak runs "hundred" into the preceding word.
	hundredRE = regexp.MustCompile(`([a-zɹː])(hˈʌndɹɪd)`)
	// espeak separates a final voiced s from its word.
	finalZRE = regexp.MustCompile(` z([;:,.!?¡¿—…"«»“” ]|$)`)
	// American flapping in "ninety", but not in "nineteen".
	ninetyRE = regexp.MustCompile(`(nˈaɪn)ti($|[^ː])`)
)

func postProcess(tag, ps string) string {
	ps = kokoroReplacer.Replace(ps)
	ps = symbolReplacer.Replace(ps)
	if tag == "ja" {
		ps = japaneseReplacer.Replace(ps)
	}
	ps = hundredRE.ReplaceAllString(ps, "${1} ${2}")
	ps = finalZRE.ReplaceAllString(ps, "z${1}")
	if tag == "en-us" {
		ps = ninetyRE.ReplaceAllString(ps, "${1}di${2}")
	}
	return strings.TrimSpace(ps)
}
