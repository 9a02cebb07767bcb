// Package ja is the native Japanese G2P backend: kagome morphological
// analysis for kana readings, then a static kana to IPA table.
package ja

import (
	"context"
	"strings"
	"unicode"

	"github.com/ikawaha/kagome-dict/ipa"
	"github.com/ikawaha/kagome/v2/tokenizer"

	platformerrors "kokorod/internal/platform/errors"
)

// G2P converts Japanese text to the model's phoneme symbols. Safe for
// concurrent use; the dictionary is read-only after New.
type G2P struct {
	t *tokenizer.Tokenizer
}

func New() (*G2P, error) {
	const op = "ja.New"
	t, err := tokenizer.New(ipa.Dict(), tokenizer.OmitBosEos())
	if err != nil {
		return nil, platformerrors.Wrap(platformerrors.KindPhonemizerUnavailable, op, "load Japanese dictionary", err)
	}
	return &G2P{t: t}, nil
}

// punctReplacer folds Japanese punctuation onto the ASCII marks the
// symbol table knows.
var punctReplacer = strings.NewReplacer(
	"。", ". ",
	"、", ", ",
	"！", "! ",
	"？", "? ",
	"：", ": ",
	"；", "; ",
	"「", " \"",
	"」", "\" ",
	"『", " \"",
	"』", "\" ",
	"（", " (",
	"）", ") ",
	"・", " ",
	"　", " ",
)

// Phonemize transcribes one sentence. The pronunciation field is
// preferred over the reading so particles like は and へ come out as
// spoken.
func (g *G2P) Phonemize(_ context.Context, text string) (string, error) {
	text = strings.TrimSpace(punctReplacer.Replace(text))
	if text == "" {
		return "", nil
	}

	var b strings.Builder
	for _, tok := range g.t.Tokenize(text) {
		surface := strings.TrimSpace(tok.Surface)
		if surface == "" {
			continue
		}
		if isPunct(surface) {
			b.WriteString(surface)
			b.WriteByte(' ')
			continue
		}

		reading, ok := tok.Pronunciation()
		if !ok || reading == "" {
			reading, ok = tok.Reading()
			if !ok || reading == "" {
				reading = toKatakana(surface)
			}
		}
		if p := kanaToIPA(reading); p != "" {
			b.WriteString(p)
			b.WriteByte(' ')
		}
	}
	return strings.TrimSpace(b.String()), nil
}

func isPunct(s string) bool {
	for _, r := range s {
		if !unicode.IsPunct(r) && !unicode.IsSymbol(r) {
			return false
		}
	}
	return true
}

// toKatakana lifts hiragana surfaces the dictionary has no entry for
// into katakana so the mora table still applies.
func toKatakana(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= 'ぁ' && r <= 'ゖ' {
			return r + ('ァ' - 'ぁ')
		}
		return r
	}, s)
}
