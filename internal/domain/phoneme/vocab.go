// Package phoneme converts text into the model's phoneme symbols and
// maps those symbols onto the integer ids the model consumes.
package phoneme

import "strings"

// Variant selects which symbol table a model checkpoint was trained on.
type Variant int

const (
	// VariantMultilingual is the IPA-based alphabet of the v1.0 model.
	VariantMultilingual Variant = iota
	// VariantChinese is the Bopomofo-based alphabet of the v1.1-zh model.
	VariantChinese
)

func (v Variant) String() string {
	if v == VariantChinese {
		return "chinese"
	}
	return "multilingual"
}

// VariantFor returns the symbol table matching a language tag.
func VariantFor(tag string) Variant {
	if strings.HasPrefix(tag, "zh") {
		return VariantChinese
	}
	return VariantMultilingual
}

// BoundaryID is the id of the $ marker that pads every token sequence.
const BoundaryID int64 = 0

// The multilingual alphabet is defined by rune position in the
// concatenation below; $ takes id 0.
const (
	padSymbol          = "$"
	punctuationSymbols = ";:,.!?¡¿—…\"«»“” "
	letterSymbols      = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"
	ipaSymbols         = "ɑɐɒæɓʙβɔɕçɗɖðʤəɘɚɛɜɝɞɟʄɡɠɢʛɦɧħɥʜɨɪʝɭɬɫɮʟɱɯɰŋɳɲɴøɵɸθœɶʘɹɺɾɻʀʁɽʂʃʈʧʉʊʋⱱʌɣɤʍχʎʏʑʐʒʔʡʕʢǀǁǂǃˈˌːˑʼʴʰʱʲʷˠˤ˞↓↑→↗↘'̩'ᵻ"
)

var (
	multiVocab   = buildMultiVocab()
	multiReverse = reverse(multiVocab)
	zhReverse    = reverse(zhVocab)
)

func buildMultiVocab() map[rune]int64 {
	symbols := padSymbol + punctuationSymbols + letterSymbols + ipaSymbols
	m := make(map[rune]int64, 178)
	id := int64(0)
	for _, r := range symbols {
		// The alphabet lists the apostrophe twice (174 and 176);
		// the later id wins, matching the released tokenizer table.
		m[r] = id
		id++
	}
	return m
}

func reverse(vocab map[rune]int64) map[int64]rune {
	m := make(map[int64]rune, len(vocab))
	for r, id := range vocab {
		m[id] = r
	}
	return m
}

// zhVocab is the v1.1-zh symbol table. Bopomofo initials and the Han
// characters standing in for compound finals come straight from the
// model's tokenizer; ids 8, 26-29 and 174 are unassigned.
var zhVocab = map[rune]int64{
	'$': 0,
	';': 1,
	':': 2,
	',': 3,
	'.': 4,
	'!': 5,
	'?': 6,
	'/': 7,
	'—': 9,
	'…': 10,
	'"': 11,
	'(': 12,
	')': 13,
	'“': 14,
	'”': 15,
	' ': 16,
	'̃': 17, // combining tilde
	'ʣ': 18,
	'ʥ': 19,
	'ʦ': 20,
	'ʨ': 21,
	'ᵝ': 22,
	'ㄓ': 23, // zh
	'A': 24,
	'I': 25,
	'ㄅ': 30, // b
	'O': 31,
	'ㄆ': 32, // p
	'Q': 33,
	'R': 34,
	'S': 35,
	'T': 36,
	'ㄇ': 37, // m
	'ㄈ': 38, // f
	'W': 39,
	'ㄉ': 40, // d
	'Y': 41,
	'ᵊ': 42,
	'a': 43,
	'b': 44,
	'c': 45,
	'd': 46,
	'e': 47,
	'f': 48,
	'ㄊ': 49, // t
	'h': 50,
	'i': 51,
	'j': 52,
	'k': 53,
	'l': 54,
	'm': 55,
	'n': 56,
	'o': 57,
	'p': 58,
	'q': 59,
	'r': 60,
	's': 61,
	't': 62,
	'u': 63,
	'v': 64,
	'w': 65,
	'x': 66,
	'y': 67,
	'z': 68,
	'ɑ': 69,
	'ɐ': 70,
	'ɒ': 71,
	'æ': 72,
	'ㄋ': 73, // n
	'ㄌ': 74, // l
	'β': 75,
	'ɔ': 76,
	'ɕ': 77,
	'ç': 78,
	'ㄍ': 79, // g
	'ɖ': 80,
	'ð': 81,
	'ʤ': 82,
	'ə': 83,
	'ㄎ': 84, // k
	'ㄦ': 85, // er
	'ɛ': 86,
	'ɜ': 87,
	'ㄏ': 88, // h
	'ㄐ': 89, // j
	'ɟ': 90,
	'ㄑ': 91, // q
	'ɡ': 92,
	'ㄒ': 93, // x
	'ㄔ': 94, // ch
	'ㄕ': 95, // sh
	'ㄗ': 96, // z
	'ㄘ': 97, // c
	'ㄙ': 98, // s
	'月': 99, // ve
	'ㄚ': 100, // a
	'ɨ': 101,
	'ɪ': 102,
	'ʝ': 103,
	'ㄛ': 104, // o
	'ㄝ': 105, // ie
	'ㄞ': 106, // ai
	'ㄟ': 107, // ei
	'ㄠ': 108, // ao
	'ㄡ': 109, // ou
	'ɯ': 110,
	'ɰ': 111,
	'ŋ': 112,
	'ɳ': 113,
	'ɲ': 114,
	'ɴ': 115,
	'ø': 116,
	'ㄢ': 117, // an
	'ɸ': 118,
	'θ': 119,
	'œ': 120,
	'ㄣ': 121, // en
	'ㄤ': 122, // ang
	'ɹ': 123,
	'ㄥ': 124, // eng
	'ɾ': 125,
	'ㄖ': 126, // r
	'ㄧ': 127, // i
	'ʁ': 128,
	'ɽ': 129,
	'ʂ': 130,
	'ʃ': 131,
	'ʈ': 132,
	'ʧ': 133,
	'ㄨ': 134, // u
	'ʊ': 135,
	'ʋ': 136,
	'ㄩ': 137, // v
	'ʌ': 138,
	'ɣ': 139,
	'ㄜ': 140, // e
	'ㄭ': 141, // ii (zi, ci, si)
	'χ': 142,
	'ʎ': 143,
	'十': 144, // iii (zhi, chi, shi, ri)
	'压': 145, // ia
	'言': 146, // ian
	'ʒ': 147,
	'ʔ': 148,
	'阳': 149, // iang
	'要': 150, // iao
	'阴': 151, // in
	'应': 152, // ing
	'用': 153, // iong
	'又': 154, // iou
	'中': 155, // ong
	'ˈ': 156,
	'ˌ': 157,
	'ː': 158,
	'穵': 159, // ua
	'外': 160, // uai
	'万': 161, // uan
	'ʰ': 162,
	'王': 163, // uang
	'ʲ': 164,
	'为': 165, // uei
	'文': 166, // uen
	'瓮': 167, // ueng
	'我': 168, // uo
	'3': 169,
	'5': 170,
	'1': 171,
	'2': 172,
	'4': 173,
	'元': 175, // van
	'云': 176, // vn
	'ᵻ': 177,
}

func vocabFor(v Variant) map[rune]int64 {
	if v == VariantChinese {
		return zhVocab
	}
	return multiVocab
}

func reverseFor(v Variant) map[int64]rune {
	if v == VariantChinese {
		return zhReverse
	}
	return multiReverse
}
