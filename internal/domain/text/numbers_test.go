package text

import "testing"

func TestExpandEnglishYears(t *testing.T) {
	cases := []struct{ in, want string }{
		{"1985", "nineteen eighty-five"},
		{"1940", "nineteen forty"},
		{"2020", "two thousand twenty"},
		{"2045", "twenty forty-five"},
		{"1905", "nineteen five"},
		{"1900", "nineteen hundred"},
		{"2099", "twenty ninety-nine"},
		{"2100", "two thousand one hundred"},
	}
	for _, tc := range cases {
		if got := expandEnglish(tc.in); got != tc.want {
			t.Errorf("expandEnglish(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestExpandNumberEdges(t *testing.T) {
	cases := []struct{ in, lang, want string }{
		{"0", "en-us", "zero"},
		{"-12", "en-us", "negative twelve"},
		{"1234567", "en-us", "1234567"},
		{"100", "es", "cien"},
		{"101", "es", "ciento uno"},
		{"47", "es", "cuarenta y siete"},
		{"31", "fr", "trente et un"},
		{"92", "fr", "quatre-vingt-douze"},
		{"77", "fr", "soixante-dix-sept"},
		{"1000", "es", "mil"},
		{"2500", "es", "dos mil quinientos"},
		{"16", "de", "sechszehn"},
		{"99", "de", "neunundneunzig"},
		{"300", "de", "300"},
		{"42", "ja", "42"},
	}
	for _, tc := range cases {
		if got := expandNumber(tc.in, tc.lang); got != tc.want {
			t.Errorf("expandNumber(%q, %q) = %q, want %q", tc.in, tc.lang, got, tc.want)
		}
	}
}

func TestExpandDecimal(t *testing.T) {
	cases := []struct{ in, lang, want string }{
		{"3.14", "en-us", "three point one four"},
		{"0.5", "en-us", "zero point five"},
		{".25", "en-us", "zero point two five"},
		{"3.5", "de", "drei komma fünf"},
		{"0.5", "fr", "zéro virgule cinq"},
		{"2.75", "es", "dos punto siete cinco"},
	}
	for _, tc := range cases {
		if got := expandDecimal(tc.in, tc.lang); got != tc.want {
			t.Errorf("expandDecimal(%q, %q) = %q, want %q", tc.in, tc.lang, got, tc.want)
		}
	}
}
