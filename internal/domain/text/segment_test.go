package text

import "testing"

func TestSplitSentences(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want []string
	}{
		{
			"basic",
			"Hello world. How are you?",
			[]string{"Hello world.", "How are you?"},
		},
		{
			"ordinal list",
			"1. First item 2. Second item 3. Third item",
			[]string{"1. First item 2. Second item 3. Third item"},
		},
		{
			"ordinal list with intro",
			"There are 3 steps: 1. Do this 2. Do that 3. Done!",
			[]string{"There are 3 steps: 1. Do this 2. Do that 3. Done!"},
		},
		{
			"decimal",
			"The value is 3.14 and it works.",
			[]string{"The value is 3.14 and it works."},
		},
		{
			"quoted passage",
			`He said "Hello. How are you?" and left.`,
			[]string{`He said "Hello. How are you?" and left.`},
		},
		{
			"curly quoted passage",
			"She replied “I'm fine. Thanks!” quickly.",
			[]string{"She replied “I'm fine. Thanks!” quickly."},
		},
		{
			"sentence ending with quote",
			`He said "Hello." Then he left.`,
			[]string{`He said "Hello."`, "Then he left."},
		},
		{
			"abbreviation before lowercase",
			"Dr. smith is here.",
			[]string{"Dr. smith is here."},
		},
		{
			"cjk terminators",
			"你好。世界！",
			[]string{"你好。", "世界！"},
		},
		{
			"newline soft break",
			"First line\nSecond line.",
			[]string{"First line", "Second line."},
		},
		{
			"trailing text without terminator",
			"And then",
			[]string{"And then"},
		},
		{
			"blank input",
			"   \n  ",
			nil,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := SplitSentences(tc.in)
			if len(got) != len(tc.want) {
				t.Fatalf("SplitSentences(%q) = %q, want %q", tc.in, got, tc.want)
			}
			for i := range got {
				if got[i] != tc.want[i] {
					t.Errorf("sentence %d = %q, want %q", i, got[i], tc.want[i])
				}
			}
		})
	}
}
