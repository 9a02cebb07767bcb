// Package text prepares raw input for synthesis. Normalization strips
// markup and straightens typography before sentence segmentation; number
// expansion rewrites numeric content into words once a sentence's language
// is known.
package text

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	zeroWidthReplacer = strings.NewReplacer(
		"\u200B", "", "\u200C", "", "\u200D", "", "\uFEFF", "",
	)

	// Parentheses become guillemets so the segmenter holds asides with
	// their sentence the same way it holds quoted passages.
	guillemetReplacer = strings.NewReplacer("«", "“", "»", "”")
	curlyReplacer     = strings.NewReplacer("“", `"`, "”", `"`)
	parenReplacer     = strings.NewReplacer("(", "«", ")", "»")

	cjkPunctReplacer = strings.NewReplacer(
		"、", ", ",
		"。", ". ",
		"！", "! ",
		"，", ", ",
		"：", ": ",
		"；", "; ",
		"？", "? ",
	)

	// Arrows read as a pause, bullets as item breaks. Both confuse G2P
	// when passed through.
	glyphReplacer = strings.NewReplacer(
		"→", ", ", "⇒", ", ", "➔", ", ", "➜", ", ", "►", ", ", "▶", ", ",
		"•", ". ", "●", ". ", "▪", ". ", "◦", ". ", "‣", ". ",
	)

	oddSpaceRE   = regexp.MustCompile(`[^\S \n]`)
	multiSpaceRE = regexp.MustCompile(`  +`)
	blankLineRE  = regexp.MustCompile(`\n +\n`)

	doctorRE        = regexp.MustCompile(`\bD[Rr]\.( [A-Z])`)
	misterRE        = regexp.MustCompile(`\bMr\.`)
	misterAllCapsRE = regexp.MustCompile(`\bMR\.( [A-Z])`)
	missRE          = regexp.MustCompile(`\bMs\.`)
	missAllCapsRE   = regexp.MustCompile(`\bMS\.( [A-Z])`)
	mrsRE           = regexp.MustCompile(`\bMrs\.`)
	mrsAllCapsRE    = regexp.MustCompile(`\bMRS\.( [A-Z])`)
	etcRE           = regexp.MustCompile(`\betc\.`)
	yeahRE          = regexp.MustCompile(`(?i)\b(y)eah?\b`)

	decimalRE    = regexp.MustCompile(`\d*\.\d+`)
	commaNumRE   = regexp.MustCompile(`(\d),(\d)`)
	rangeRE      = regexp.MustCompile(`(\d)-(\d)`)
	pluralNumRE  = regexp.MustCompile(`(\d)S`)
	moneyRE      = regexp.MustCompile(`(?i)[$£]\d+(?:\.\d+)?(?: hundred| thousand| (?:[bm]|tr)illion)*\b|[$£]\d+\.\d\d?\b`)
	bareNumRE    = regexp.MustCompile(`\b\d+\b`)
	possessiveRE = regexp.MustCompile(`([BCDFGHJ-NP-TV-Z])'?s\b`)
	xPluralRE    = regexp.MustCompile(`(X')S\b`)
	initialsRE   = regexp.MustCompile(`(?:[A-Za-z]\.){2,} [a-z]`)
	acronymRE    = regexp.MustCompile(`(?i)([A-Z])\.([A-Z])`)
)

// Normalize straightens typography ahead of sentence segmentation: markup
// is stripped, smart quotes become plain quotes while apostrophes survive,
// CJK punctuation maps to its ASCII equivalent, and English title
// abbreviations are expanded so their trailing dot cannot be read as a
// sentence boundary. Digits are left alone here; ExpandNumbers handles
// them per sentence.
func Normalize(text string) string {
	text = StripMarkup(text)
	text = zeroWidthReplacer.Replace(text)
	text = normalizeSingleQuotes(text)
	text = guillemetReplacer.Replace(text)
	text = curlyReplacer.Replace(text)
	text = parenReplacer.Replace(text)
	text = cjkPunctReplacer.Replace(text)
	text = glyphReplacer.Replace(text)

	text = oddSpaceRE.ReplaceAllString(text, " ")
	text = multiSpaceRE.ReplaceAllString(text, " ")
	text = replaceStable(blankLineRE, text, "\n\n")

	text = doctorRE.ReplaceAllString(text, "Doctor$1")
	text = misterRE.ReplaceAllString(text, "Mister")
	text = misterAllCapsRE.ReplaceAllString(text, "Mister$1")
	text = missRE.ReplaceAllString(text, "Miss")
	text = missAllCapsRE.ReplaceAllString(text, "Miss$1")
	text = mrsRE.ReplaceAllString(text, "Mrs")
	text = mrsAllCapsRE.ReplaceAllString(text, "Mrs$1")
	text = dropEtcDot(text)
	text = yeahRE.ReplaceAllString(text, "${1}e'a")

	return strings.TrimSpace(text)
}

// ExpandNumbers rewrites numeric content into speakable words and de-dots
// initials and acronyms so downstream G2P spells them letter by letter.
// It runs per sentence, after the sentence's language is resolved, because
// the wording depends on it. Languages without a number table keep their
// digits.
func ExpandNumbers(text, lang string) string {
	dollar, pound, rangeWord := currencyWords(lang)

	text = decimalRE.ReplaceAllStringFunc(text, func(m string) string {
		return expandDecimal(m, lang)
	})
	text = replaceStable(commaNumRE, text, "${1}${2}")
	text = replaceStable(rangeRE, text, "${1} "+rangeWord+" ${2}")
	text = pluralNumRE.ReplaceAllString(text, "${1} S")
	text = moneyRE.ReplaceAllStringFunc(text, func(m string) string {
		switch {
		case strings.HasPrefix(m, "$"):
			return dollar + " " + expandNumber(m[1:], lang)
		case strings.HasPrefix(m, "£"):
			return pound + " " + expandNumber(strings.TrimPrefix(m, "£"), lang)
		}
		return m
	})
	text = bareNumRE.ReplaceAllStringFunc(text, func(m string) string {
		return expandNumber(m, lang)
	})
	text = possessiveRE.ReplaceAllString(text, "${1}'S")
	text = xPluralRE.ReplaceAllString(text, "${1}s")
	text = initialsRE.ReplaceAllStringFunc(text, func(m string) string {
		return strings.ReplaceAll(m, ".", "-")
	})
	text = replaceStable(acronymRE, text, "${1}-${2}")

	return strings.TrimSpace(text)
}

func currencyWords(lang string) (dollar, pound, rangeWord string) {
	switch {
	case strings.HasPrefix(lang, "es"):
		return "dólar", "libra", "a"
	case strings.HasPrefix(lang, "fr"):
		return "dollar", "livre", "à"
	case strings.HasPrefix(lang, "de"):
		return "Dollar", "Pfund", "bis"
	}
	return "dollar", "pound", "to"
}

// replaceStable reapplies re until the text stops changing, covering
// overlapping matches like "1-2-3" that a single pass misses.
func replaceStable(re *regexp.Regexp, s, repl string) string {
	for {
		next := re.ReplaceAllString(s, repl)
		if next == s {
			return s
		}
		s = next
	}
}

// dropEtcDot removes the dot of "etc." unless a new sentence follows it.
func dropEtcDot(s string) string {
	matches := etcRE.FindAllStringIndex(s, -1)
	if matches == nil {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	last := 0
	for _, m := range matches {
		b.WriteString(s[last:m[0]])
		tail := s[m[1]:]
		if len(tail) >= 2 && tail[0] == ' ' && tail[1] >= 'A' && tail[1] <= 'Z' {
			b.WriteString(s[m[0]:m[1]])
		} else {
			b.WriteString("etc")
		}
		last = m[1]
	}
	b.WriteString(s[last:])
	return b.String()
}

// normalizeSingleQuotes maps curly single quotes to plain characters. When
// the text already carries ASCII apostrophes, a curly quote between
// letters is an apostrophe and anything else was quoting; otherwise every
// curly single quote reads as an apostrophe.
func normalizeSingleQuotes(s string) string {
	if !strings.ContainsAny(s, "‘’") {
		return s
	}
	if !strings.ContainsRune(s, '\'') {
		return strings.Map(func(r rune) rune {
			if r == '‘' || r == '’' {
				return '\''
			}
			return r
		}, s)
	}

	runes := []rune(s)
	var b strings.Builder
	b.Grow(len(s))
	for i, r := range runes {
		if r != '‘' && r != '’' {
			b.WriteRune(r)
			continue
		}
		prev, next := ' ', ' '
		if i > 0 {
			prev = runes[i-1]
		}
		if i+1 < len(runes) {
			next = runes[i+1]
		}
		if unicode.IsLetter(prev) && unicode.IsLetter(next) {
			b.WriteByte('\'')
		} else {
			b.WriteByte('"')
		}
	}
	return b.String()
}
