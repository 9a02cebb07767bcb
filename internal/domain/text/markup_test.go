package text

import "testing"

func TestStripMarkup(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{
			"headers and emphasis",
			"# Title\nThis is **bold** and *italic* text.",
			"Title\nThis is bold and italic text.",
		},
		{
			"links and images",
			"See [Rust](https://rust-lang.org) and ![logo](logo.png).",
			"See Rust and logo.",
		},
		{
			"code fences and inline code",
			"Here is `code`:\n```\nfn main() {}\n```\nDone.",
			"Here is code:\n\nfn main() {}\n\nDone.",
		},
		{
			"html tags and autolinks",
			`<b>bold</b> <https://example.com> <tag attr="x">ok</tag>`,
			"bold https://example.com ok",
		},
		{
			"blockquotes and lists",
			"- item\n> quote\n1. first\n2) second",
			"item\nquote\nfirst\nsecond",
		},
		{
			"literal underscores kept",
			"snake_case stays, 2*3 stays",
			"snake_case stays, 2*3 stays",
		},
		{
			"unclosed bracket kept",
			"a [b c",
			"a [b c",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := StripMarkup(tc.in); got != tc.want {
				t.Errorf("StripMarkup(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}
