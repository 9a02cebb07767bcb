package zh

import "strings"

// initials ordered so the two-letter ones match first.
var initials = []string{
	"zh", "ch", "sh",
	"b", "p", "m", "f", "d", "t", "n", "l",
	"g", "k", "h", "j", "q", "x", "r", "z", "c", "s",
	"y", "w",
}

// bopomofo maps pinyin initials and finals onto the v1.1-zh symbols.
// Compound finals use the Han characters the model's alphabet assigns
// to them; ㄭ and 十 are the apical vowels of zi/ci/si and zhi/chi/shi/ri.
var bopomofo = map[string]string{
	"b": "ㄅ", "p": "ㄆ", "m": "ㄇ", "f": "ㄈ",
	"d": "ㄉ", "t": "ㄊ", "n": "ㄋ", "l": "ㄌ",
	"g": "ㄍ", "k": "ㄎ", "h": "ㄏ",
	"j": "ㄐ", "q": "ㄑ", "x": "ㄒ",
	"zh": "ㄓ", "ch": "ㄔ", "sh": "ㄕ", "r": "ㄖ",
	"z": "ㄗ", "c": "ㄘ", "s": "ㄙ",

	"a": "ㄚ", "o": "ㄛ", "e": "ㄜ", "ie": "ㄝ",
	"ai": "ㄞ", "ei": "ㄟ", "ao": "ㄠ", "ou": "ㄡ",
	"an": "ㄢ", "en": "ㄣ", "ang": "ㄤ", "eng": "ㄥ",
	"er": "ㄦ", "i": "ㄧ", "u": "ㄨ", "v": "ㄩ",

	"ii": "ㄭ", "iii": "十", "ve": "月",
	"ia": "压", "ian": "言", "iang": "阳", "iao": "要",
	"in": "阴", "ing": "应", "iong": "用", "iou": "又",
	"ong": "中", "ua": "穵", "uai": "外", "uan": "万",
	"uang": "王", "uei": "为", "uen": "文", "ueng": "瓮",
	"uo": "我", "van": "元", "vn": "云",
}

// parsePinyin splits a numbered pinyin syllable into initial, final
// and tone. A missing tone digit means neutral tone.
func parsePinyin(py string) (initial, final string, tone byte) {
	py = strings.ToLower(py)
	tone = 5
	if n := len(py); n > 0 && py[n-1] >= '0' && py[n-1] <= '9' {
		tone = py[n-1] - '0'
		py = py[:n-1]
	}
	for _, init := range initials {
		if strings.HasPrefix(py, init) {
			initial = init
			py = py[len(init):]
			break
		}
	}
	return initial, normalizeFinal(initial, py), tone
}

// normalizeFinal restores the final hidden by pinyin orthography: the
// y/w spellings, the ü written as u after j/q/x, and the contracted
// iu/ui/un.
func normalizeFinal(initial, final string) string {
	switch initial {
	case "z", "c", "s":
		if final == "i" {
			return "ii"
		}
	case "zh", "ch", "sh", "r":
		if final == "i" {
			return "iii"
		}
	case "y":
		switch {
		case strings.HasPrefix(final, "i"):
			// yi, yin, ying
		case strings.HasPrefix(final, "u"):
			final = "v" + final[1:]
		default:
			final = "i" + final
		}
	case "w":
		if !strings.HasPrefix(final, "u") {
			final = "u" + final
		}
	case "j", "q", "x":
		if strings.HasPrefix(final, "u") {
			final = "v" + final[1:]
		}
	}
	switch final {
	case "iu":
		return "iou"
	case "ui":
		return "uei"
	case "un":
		return "uen"
	}
	return final
}

// pinyinToSymbols renders one numbered pinyin syllable with the tone
// digit appended. y and w carry no symbol of their own.
func pinyinToSymbols(py string) string {
	initial, final, tone := parsePinyin(py)
	if initial == "" && final == "" {
		return ""
	}

	var b strings.Builder
	if initial != "" && initial != "y" && initial != "w" {
		b.WriteString(bopomofo[initial])
	}
	if sym, ok := bopomofo[final]; ok {
		b.WriteString(sym)
	} else {
		// unrecognized compound; render what the pieces allow
		for _, c := range final {
			if sym, ok := bopomofo[string(c)]; ok {
				b.WriteString(sym)
			}
		}
	}
	b.WriteByte('0' + tone)
	return b.String()
}
