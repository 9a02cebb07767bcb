// Package zh is the native Mandarin G2P backend: gse word
// segmentation, pinyin with tone numerals, tone sandhi, and the
// v1.1-zh Bopomofo symbol rendering.
package zh

import (
	"context"
	"strings"

	"github.com/go-ego/gse"
	"github.com/mozillazg/go-pinyin"

	platformerrors "kokorod/internal/platform/errors"
)

// G2P converts Chinese text to the model's Bopomofo symbols. Safe for
// concurrent use; the segmenter is read-only after New.
type G2P struct {
	seg  gse.Segmenter
	args pinyin.Args
}

func New() (*G2P, error) {
	const op = "zh.New"
	seg, err := gse.NewEmbed("zh_s")
	if err != nil {
		return nil, platformerrors.Wrap(platformerrors.KindPhonemizerUnavailable, op, "load Chinese dictionary", err)
	}
	args := pinyin.NewArgs()
	args.Style = pinyin.Tone3
	args.Fallback = func(r rune, a pinyin.Args) []string {
		return []string{string(r)}
	}
	return &G2P{seg: seg, args: args}, nil
}

// punctReplacer folds CJK punctuation onto the ASCII marks the symbol
// table knows.
var punctReplacer = strings.NewReplacer(
	"、", ", ",
	"，", ", ",
	"。", ". ",
	"．", ". ",
	"！", "! ",
	"：", ": ",
	"；", "; ",
	"？", "? ",
	"«", " \"",
	"»", "\" ",
	"《", " \"",
	"》", "\" ",
	"「", " \"",
	"」", "\" ",
	"【", " \"",
	"】", "\" ",
	"（", " (",
	"）", ") ",
)

func isHan(r rune) bool {
	return r >= 0x4E00 && r <= 0x9FFF
}

// Phonemize renders one sentence: Han runs go through segmentation,
// sandhi and transcription; everything else passes through untouched.
// Words are separated by the / symbol the model's alphabet reserves.
func (g *G2P) Phonemize(_ context.Context, text string) (string, error) {
	text = convertNumbers(text)
	text = strings.TrimSpace(punctReplacer.Replace(text))
	if text == "" {
		return "", nil
	}

	var b strings.Builder
	prevChinese := false
	for _, segment := range splitHanRuns(text) {
		if !segment.han {
			b.WriteString(segment.text)
			prevChinese = false
			continue
		}
		words := g.posWords(segment.text)
		for i, w := range preMerge(words) {
			if i > 0 || prevChinese {
				b.WriteByte('/')
			}
			if w.pos == "x" {
				b.WriteString(w.text)
				continue
			}
			b.WriteString(g.wordToSymbols(w.text, w.pos))
		}
		prevChinese = true
	}
	return b.String(), nil
}

type hanRun struct {
	text string
	han  bool
}

func splitHanRuns(text string) []hanRun {
	var runs []hanRun
	var cur strings.Builder
	curHan := false
	for _, r := range text {
		h := isHan(r)
		if cur.Len() > 0 && h != curHan {
			runs = append(runs, hanRun{text: cur.String(), han: curHan})
			cur.Reset()
		}
		curHan = h
		cur.WriteRune(r)
	}
	if cur.Len() > 0 {
		runs = append(runs, hanRun{text: cur.String(), han: curHan})
	}
	return runs
}

func (g *G2P) posWords(text string) []posWord {
	tagged := g.seg.Pos(text, false)
	words := make([]posWord, 0, len(tagged))
	for _, t := range tagged {
		if t.Text == "" {
			continue
		}
		words = append(words, posWord{text: t.Text, pos: t.Pos})
	}
	return words
}

// wordToSymbols runs one segmented word through pinyin, applies the
// sandhi rules, and transcribes each syllable.
func (g *G2P) wordToSymbols(word, pos string) string {
	perChar := pinyin.Pinyin(word, g.args)
	pinyins := make([]string, 0, len(perChar))
	for _, readings := range perChar {
		if len(readings) > 0 {
			pinyins = append(pinyins, readings[0])
		}
	}
	pinyins = applySandhi(word, pos, pinyins)

	var b strings.Builder
	for _, py := range pinyins {
		b.WriteString(pinyinToSymbols(py))
	}
	return b.String()
}
