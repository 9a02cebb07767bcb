package text

import (
	"strconv"
	"strings"
)

var englishSmall = []string{
	"zero", "one", "two", "three", "four", "five", "six", "seven", "eight",
	"nine", "ten", "eleven", "twelve", "thirteen", "fourteen", "fifteen",
	"sixteen", "seventeen", "eighteen", "nineteen", "twenty",
}

var englishTens = []string{
	"", "", "twenty", "thirty", "forty", "fifty", "sixty", "seventy",
	"eighty", "ninety",
}

// Years that read better in full than in the century-first pattern,
// typically because they appear in date ranges.
var englishYearSpecials = map[int]string{
	1939: "nineteen thirty-nine",
	1940: "nineteen forty",
	1941: "nineteen forty-one",
	1942: "nineteen forty-two",
	1945: "nineteen forty-five",
	2001: "two thousand one",
	2020: "two thousand twenty",
}

// expandNumber spells numStr in the given language. Languages without a
// word table keep their digits so the phonemizer reads them as-is.
func expandNumber(numStr, lang string) string {
	switch {
	case strings.HasPrefix(lang, "en"):
		return expandEnglish(numStr)
	case strings.HasPrefix(lang, "es"):
		return expandSpanish(numStr)
	case strings.HasPrefix(lang, "fr"):
		return expandFrench(numStr)
	case strings.HasPrefix(lang, "de"):
		return expandGerman(numStr)
	}
	return numStr
}

func expandEnglish(numStr string) string {
	if len(numStr) == 4 && allDigits(numStr) {
		if year, err := strconv.Atoi(numStr); err == nil && year >= 1000 && year <= 2099 {
			return expandEnglishYear(year)
		}
	}

	num, err := strconv.ParseInt(numStr, 10, 64)
	if err != nil {
		return numStr
	}
	switch {
	case num == 0:
		return "zero"
	case num < 0:
		return "negative " + expandEnglish(strconv.FormatInt(-num, 10))
	case num <= 20:
		return englishSmall[num]
	case num < 100:
		if num%10 == 0 {
			return englishTens[num/10]
		}
		return englishTens[num/10] + "-" + englishSmall[num%10]
	case num < 1000:
		head := expandEnglish(strconv.FormatInt(num/100, 10)) + " hundred"
		if num%100 == 0 {
			return head
		}
		return head + " and " + expandEnglish(strconv.FormatInt(num%100, 10))
	case num < 1000000:
		head := expandEnglish(strconv.FormatInt(num/1000, 10)) + " thousand"
		if num%1000 == 0 {
			return head
		}
		return head + " " + expandEnglish(strconv.FormatInt(num%1000, 10))
	}
	return numStr
}

// expandEnglishYear reads a 1000-2099 year century-first, the way it is
// spoken: 1985 becomes "nineteen eighty-five".
func expandEnglishYear(year int) string {
	if s, ok := englishYearSpecials[year]; ok {
		return s
	}
	century := englishSmall[year/100]
	rem := year % 100
	if rem == 0 {
		return century + " hundred"
	}
	var tail string
	switch {
	case rem < 20:
		tail = englishSmall[rem]
	case rem%10 == 0:
		tail = englishTens[rem/10]
	default:
		tail = englishTens[rem/10] + "-" + englishSmall[rem%10]
	}
	return century + " " + tail
}

var spanishSmall = []string{
	"cero", "uno", "dos", "tres", "cuatro", "cinco", "seis", "siete",
	"ocho", "nueve", "diez", "once", "doce", "trece", "catorce", "quince",
	"dieciséis", "diecisiete", "dieciocho", "diecinueve", "veinte",
	"veintiuno", "veintidós", "veintitrés", "veinticuatro", "veinticinco",
	"veintiséis", "veintisiete", "veintiocho", "veintinueve", "treinta",
}

var spanishTens = []string{
	"", "", "", "treinta", "cuarenta", "cincuenta", "sesenta", "setenta",
	"ochenta", "noventa",
}

var spanishHundreds = []string{
	"", "ciento", "doscientos", "trescientos", "cuatrocientos",
	"quinientos", "seiscientos", "setecientos", "ochocientos",
	"novecientos",
}

func expandSpanish(numStr string) string {
	num, err := strconv.ParseInt(numStr, 10, 64)
	if err != nil {
		return numStr
	}
	switch {
	case num == 0:
		return "cero"
	case num < 0:
		return "menos " + expandSpanish(strconv.FormatInt(-num, 10))
	case num <= 30:
		return spanishSmall[num]
	case num < 100:
		if num%10 == 0 {
			return spanishTens[num/10]
		}
		return spanishTens[num/10] + " y " + expandSpanish(strconv.FormatInt(num%10, 10))
	case num == 100:
		return "cien"
	case num < 1000:
		if num%100 == 0 {
			return spanishHundreds[num/100]
		}
		return spanishHundreds[num/100] + " " + expandSpanish(strconv.FormatInt(num%100, 10))
	case num == 1000:
		return "mil"
	case num < 1000000:
		head := "mil"
		if num/1000 > 1 {
			head = expandSpanish(strconv.FormatInt(num/1000, 10)) + " mil"
		}
		if num%1000 == 0 {
			return head
		}
		return head + " " + expandSpanish(strconv.FormatInt(num%1000, 10))
	}
	return numStr
}

var frenchSmall = []string{
	"zéro", "un", "deux", "trois", "quatre", "cinq", "six", "sept", "huit",
	"neuf", "dix", "onze", "douze", "treize", "quatorze", "quinze",
	"seize", "dix-sept", "dix-huit", "dix-neuf", "vingt",
}

var frenchTens = []string{
	"", "", "vingt", "trente", "quarante", "cinquante", "soixante", "",
	"quatre-vingts", "",
}

func expandFrench(numStr string) string {
	num, err := strconv.ParseInt(numStr, 10, 64)
	if err != nil {
		return numStr
	}
	switch {
	case num == 0:
		return "zéro"
	case num < 0:
		return "moins " + expandFrench(strconv.FormatInt(-num, 10))
	case num <= 20:
		return frenchSmall[num]
	case num < 100:
		switch num {
		case 21:
			return "vingt et un"
		case 31:
			return "trente et un"
		case 41:
			return "quarante et un"
		case 51:
			return "cinquante et un"
		case 61:
			return "soixante et un"
		case 71:
			return "soixante et onze"
		case 81:
			return "quatre-vingt-un"
		case 91:
			return "quatre-vingt-onze"
		}
		if num >= 70 && num < 80 {
			return "soixante-" + expandFrench(strconv.FormatInt(num-60, 10))
		}
		if num >= 90 {
			return "quatre-vingt-" + expandFrench(strconv.FormatInt(num-80, 10))
		}
		if num%10 == 0 {
			return frenchTens[num/10]
		}
		return frenchTens[num/10] + "-" + expandFrench(strconv.FormatInt(num%10, 10))
	case num < 1000:
		head := "cent"
		if num/100 > 1 {
			head = expandFrench(strconv.FormatInt(num/100, 10)) + " cents"
		}
		if num%100 == 0 {
			return head
		}
		return head + " " + expandFrench(strconv.FormatInt(num%100, 10))
	}
	return numStr
}

var germanSmall = []string{
	"null", "eins", "zwei", "drei", "vier", "fünf", "sechs", "sieben",
	"acht", "neun", "zehn", "elf", "zwölf",
}

var germanTens = []string{
	"", "", "zwanzig", "dreißig", "vierzig", "fünfzig", "sechzig",
	"siebzig", "achtzig", "neunzig",
}

func expandGerman(numStr string) string {
	num, err := strconv.ParseInt(numStr, 10, 64)
	if err != nil {
		return numStr
	}
	switch {
	case num == 0:
		return "null"
	case num < 0:
		return "minus " + expandGerman(strconv.FormatInt(-num, 10))
	case num <= 12:
		return germanSmall[num]
	case num < 20:
		return germanSmall[num%10] + "zehn"
	case num < 100:
		if num%10 == 0 {
			return germanTens[num/10]
		}
		ones := germanSmall[num%10]
		if num%10 == 1 {
			// The ones word loses its -s in compounds.
			ones = "ein"
		}
		return ones + "und" + germanTens[num/10]
	}
	return numStr
}

var decimalDigits = map[string][]string{
	"en": {"zero", "one", "two", "three", "four", "five", "six", "seven", "eight", "nine"},
	"es": {"cero", "uno", "dos", "tres", "cuatro", "cinco", "seis", "siete", "ocho", "nueve"},
	"fr": {"zéro", "un", "deux", "trois", "quatre", "cinq", "six", "sept", "huit", "neuf"},
	"de": {"null", "eins", "zwei", "drei", "vier", "fünf", "sechs", "sieben", "acht", "neun"},
}

func decimalWords(lang string) (digits []string, point string) {
	switch {
	case strings.HasPrefix(lang, "es"):
		return decimalDigits["es"], "punto"
	case strings.HasPrefix(lang, "fr"):
		return decimalDigits["fr"], "virgule"
	case strings.HasPrefix(lang, "de"):
		return decimalDigits["de"], "komma"
	}
	return decimalDigits["en"], "point"
}

// expandDecimal reads the integer part as a number and the fractional
// digits one at a time: 3.14 becomes "three point one four".
func expandDecimal(numStr, lang string) string {
	point := strings.IndexByte(numStr, '.')
	if point < 0 {
		return expandNumber(numStr, lang)
	}
	intPart, fracPart := numStr[:point], numStr[point+1:]

	digits, pointWord := decimalWords(lang)
	intWords := digits[0]
	if intPart != "" && intPart != "0" {
		intWords = expandNumber(intPart, lang)
	}

	parts := []string{intWords, pointWord}
	for _, r := range fracPart {
		if r >= '0' && r <= '9' {
			parts = append(parts, digits[r-'0'])
		}
	}
	return strings.Join(parts, " ")
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return s != ""
}
