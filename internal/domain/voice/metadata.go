package voice

// Voice ids follow the upstream naming convention: the first letter
// encodes the language, the second the gender (f/m).
var prefixLanguages = map[byte]string{
	'a': "en-us",
	'b': "en-gb",
	'd': "de",
	'e': "es",
	'f': "fr",
	'h': "hi",
	'i': "it",
	'j': "ja",
	'k': "ko",
	'p': "pt",
	'r': "ru",
	'z': "zh",
}

var defaultVoices = map[string]string{
	"en-us": "af_heart",
	"en-gb": "bf_emma",
	"zh":    "zf_xiaoxiao",
	"ja":    "jf_alpha",
	"ko":    "jf_alpha",
	"es":    "ef_dora",
	"fr":    "ff_siwis",
	"it":    "if_sara",
	"pt":    "pf_dora",
	"hi":    "hf_alpha",
	"de":    "bf_emma",
	"ru":    "af_heart",
}

// FallbackVoice is used when a language has no dedicated default.
const FallbackVoice = "af_heart"

func metadataForID(id string) (language, gender string) {
	language = "en-us"
	gender = "unknown"
	if len(id) >= 1 {
		if lang, ok := prefixLanguages[id[0]]; ok {
			language = lang
		}
	}
	if len(id) >= 2 {
		switch id[1] {
		case 'f':
			gender = "female"
		case 'm':
			gender = "male"
		}
	}
	return language, gender
}

// DefaultVoiceFor returns the preferred voice id for a language tag.
func DefaultVoiceFor(language string) string {
	if id, ok := defaultVoices[language]; ok {
		return id
	}
	return FallbackVoice
}
