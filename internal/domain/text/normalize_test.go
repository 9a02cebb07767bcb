package text

import "testing"

func TestNormalizeTypography(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"curly quotes", "“Hi” and ‘single’", `"Hi" and 'single'`},
		{"apostrophe kept", "It’s fine", "It's fine"},
		{"mixed apostrophes", "He said: ’quoted’ and it's fine", `He said: "quoted" and it's fine`},
		{"parens to guillemets", "before (aside) after", "before «aside» after"},
		{"cjk punctuation", "你好。世界！", "你好. 世界!"},
		{"zero width stripped", "a\u200Bb\uFEFFc", "abc"},
		{"arrow glyph", "A → B", "A , B"},
		{"tab collapses", "a\tb", "a b"},
		{"titles", "Dr. Smith met Mr. Jones.", "Doctor Smith met Mister Jones."},
		{"ms and mrs", "Ms. Lee and Mrs. Ray left.", "Miss Lee and Mrs Ray left."},
		{"dr before lowercase kept", "Dr. smith is here.", "Dr. smith is here."},
		{"etc mid sentence", "apples, pears, etc. were fresh", "apples, pears, etc were fresh"},
		{"etc before new sentence", "We packed fruit, etc. Then we left.", "We packed fruit, etc. Then we left."},
		{"yeah", "yeah, Yeah", "ye'a, Ye'a"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Normalize(tc.in); got != tc.want {
				t.Errorf("Normalize(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestNormalizeKeepsDigits(t *testing.T) {
	got := Normalize("pages 5-10 of 1,000")
	if got != "pages 5-10 of 1,000" {
		t.Errorf("Normalize expanded digits early: %q", got)
	}
}

func TestExpandNumbersEnglish(t *testing.T) {
	cases := []struct{ in, want string }{
		{"The year 1985 was great", "The year nineteen eighty-five was great"},
		{"In 2001 it began", "In two thousand one it began"},
		{"Born in 1900", "Born in nineteen hundred"},
		{"It costs $5 now", "It costs dollar five now"},
		{"Pay £20 fee", "Pay pound twenty fee"},
		{"pi is 3.14 roughly", "pi is three point one four roughly"},
		{"pages 5-10 only", "pages five to ten only"},
		{"about 4,000 people", "about four thousand people"},
		{"he has 21 cats", "he has twenty-one cats"},
		{"count to 347", "count to three hundred and forty-seven"},
		{"the DVDs arrived", "the DVD'S arrived"},
		{"U.S.A. Rules", "U-S-A. Rules"},
		{"A.B. smith wrote it", "A-B- smith wrote it"},
	}
	for _, tc := range cases {
		if got := ExpandNumbers(tc.in, "en-us"); got != tc.want {
			t.Errorf("ExpandNumbers(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestExpandNumbersByLanguage(t *testing.T) {
	cases := []struct{ lang, in, want string }{
		{"es", "hay 25 casas", "hay veinticinco casas"},
		{"es", "cuesta $5 hoy", "cuesta dólar cinco hoy"},
		{"es", "páginas 5-10", "páginas cinco a diez"},
		{"fr", "il a 71 ans", "il a soixante et onze ans"},
		{"fr", "page 80 ici", "page quatre-vingts ici"},
		{"fr", "note 0.5 ici", "note zéro virgule cinq ici"},
		{"de", "es gibt 21 Häuser", "es gibt einundzwanzig Häuser"},
		{"de", "bei 3.5 Grad", "bei drei komma fünf Grad"},
		{"it", "ci sono 25 case", "ci sono 25 case"},
		{"zh", "第 25 个", "第 25 个"},
	}
	for _, tc := range cases {
		if got := ExpandNumbers(tc.in, tc.lang); got != tc.want {
			t.Errorf("ExpandNumbers(%q, %q) = %q, want %q", tc.in, tc.lang, got, tc.want)
		}
	}
}
