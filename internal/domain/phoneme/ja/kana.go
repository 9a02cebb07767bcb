package ja

import "strings"

// moras maps katakana readings onto IPA, one mora at a time. The
// consonant values follow the model's alphabet: ɯ for u, ɹ for r,
// ɸ for f, dʒ/tʃ/ʃ for the palatals.
var moras = map[string]string{
	"ア": "a", "イ": "i", "ウ": "ɯ", "エ": "e", "オ": "o",
	"カ": "ka", "キ": "ki", "ク": "kɯ", "ケ": "ke", "コ": "ko",
	"ガ": "ɡa", "ギ": "ɡi", "グ": "ɡɯ", "ゲ": "ɡe", "ゴ": "ɡo",
	"サ": "sa", "シ": "ʃi", "ス": "sɯ", "セ": "se", "ソ": "so",
	"ザ": "za", "ジ": "dʒi", "ズ": "zɯ", "ゼ": "ze", "ゾ": "zo",
	"タ": "ta", "チ": "tʃi", "ツ": "tsɯ", "テ": "te", "ト": "to",
	"ダ": "da", "ヂ": "dʒi", "ヅ": "zɯ", "デ": "de", "ド": "do",
	"ナ": "na", "ニ": "ni", "ヌ": "nɯ", "ネ": "ne", "ノ": "no",
	"ハ": "ha", "ヒ": "hi", "フ": "ɸɯ", "ヘ": "he", "ホ": "ho",
	"バ": "ba", "ビ": "bi", "ブ": "bɯ", "ベ": "be", "ボ": "bo",
	"パ": "pa", "ピ": "pi", "プ": "pɯ", "ペ": "pe", "ポ": "po",
	"マ": "ma", "ミ": "mi", "ム": "mɯ", "メ": "me", "モ": "mo",
	"ヤ": "ja", "ユ": "jɯ", "ヨ": "jo",
	"ラ": "ɹa", "リ": "ɹi", "ル": "ɹɯ", "レ": "ɹe", "ロ": "ɹo",
	"ワ": "wa", "ヰ": "i", "ヱ": "e", "ヲ": "o",
	"ン": "n", "ヴ": "bɯ",
	"ァ": "a", "ィ": "i", "ゥ": "ɯ", "ェ": "e", "ォ": "o",

	"キャ": "kja", "キュ": "kjɯ", "キョ": "kjo",
	"ギャ": "ɡja", "ギュ": "ɡjɯ", "ギョ": "ɡjo",
	"シャ": "ʃa", "シュ": "ʃɯ", "ショ": "ʃo", "シェ": "ʃe",
	"ジャ": "dʒa", "ジュ": "dʒɯ", "ジョ": "dʒo", "ジェ": "dʒe",
	"チャ": "tʃa", "チュ": "tʃɯ", "チョ": "tʃo", "チェ": "tʃe",
	"ニャ": "nja", "ニュ": "njɯ", "ニョ": "njo",
	"ヒャ": "hja", "ヒュ": "hjɯ", "ヒョ": "hjo",
	"ビャ": "bja", "ビュ": "bjɯ", "ビョ": "bjo",
	"ピャ": "pja", "ピュ": "pjɯ", "ピョ": "pjo",
	"ミャ": "mja", "ミュ": "mjɯ", "ミョ": "mjo",
	"リャ": "ɹja", "リュ": "ɹjɯ", "リョ": "ɹjo",
	"ファ": "ɸa", "フィ": "ɸi", "フェ": "ɸe", "フォ": "ɸo",
	"ティ": "ti", "ディ": "di", "トゥ": "tɯ", "ドゥ": "dɯ",
	"ウィ": "wi", "ウェ": "we", "ウォ": "wo",
	"ツァ": "tsa", "ツィ": "tsi", "ツェ": "tse", "ツォ": "tso",
}

func isVowel(b byte) bool {
	return b == 'a' || b == 'i' || b == 'e' || b == 'o'
}

// kanaToIPA transcribes a katakana reading. The sokuon doubles the
// next mora's onset consonant; the chouon lengthens the previous
// vowel with ː.
func kanaToIPA(reading string) string {
	runes := []rune(reading)
	var b strings.Builder
	geminate := false
	for i := 0; i < len(runes); i++ {
		switch runes[i] {
		case 'ッ':
			geminate = true
			continue
		case 'ー':
			if b.Len() > 0 {
				b.WriteString("ː")
			}
			continue
		}

		mora := ""
		if i+1 < len(runes) {
			mora = moras[string(runes[i:i+2])]
			if mora != "" {
				i++
			}
		}
		if mora == "" {
			mora = moras[string(runes[i])]
		}
		if mora == "" {
			continue
		}
		if geminate {
			if !isVowel(mora[0]) && mora[0] != 'n' {
				b.WriteByte(mora[0])
			}
			geminate = false
		}
		b.WriteString(mora)
	}
	// ɯ after ɯ from a trailing chouon collapses to a long vowel.
	return strings.ReplaceAll(b.String(), "ɯɯ", "ɯː")
}
