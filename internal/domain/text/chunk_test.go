package text

import (
	"strings"
	"testing"
)

func TestProjectTokensWeighsCJK(t *testing.T) {
	latin := ProjectTokens("abcd")
	han := ProjectTokens("你好吗呢")
	if han <= latin {
		t.Errorf("han projection %d should exceed latin projection %d", han, latin)
	}
	if got := ProjectTokens(""); got != 0 {
		t.Errorf("ProjectTokens(\"\") = %d, want 0", got)
	}
}

func TestSplitToFitPrefersClauses(t *testing.T) {
	fits := func(s string) bool { return len(s) <= 12 }
	got := SplitToFit("one, two, three and four", fits)
	want := []string{"one, two,", "three and", "four"}
	if len(got) != len(want) {
		t.Fatalf("SplitToFit = %q, want %q", got, want)
	}
	for i := range got {
		if got[i] != want[i] {
			t.Errorf("piece %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestSplitToFitShortInput(t *testing.T) {
	got := SplitToFit("short enough", func(string) bool { return true })
	if len(got) != 1 || got[0] != "short enough" {
		t.Fatalf("SplitToFit = %q, want the input unchanged", got)
	}
	if got := SplitToFit("   ", func(string) bool { return true }); got != nil {
		t.Errorf("SplitToFit on blank input = %q, want nil", got)
	}
}

func TestSplitToFitOversizedWord(t *testing.T) {
	fits := func(s string) bool { return len(s) <= 4 }
	got := SplitToFit("abcdefgh", fits)
	if len(got) != 1 || got[0] != "abcdefgh" {
		t.Fatalf("oversized single word should come back whole, got %q", got)
	}
}

func TestSentencesLongParagraph(t *testing.T) {
	raw := strings.Repeat("The quick brown fox jumps over the lazy dog and keeps running through the field. ", 15)
	got := Sentences(raw)
	if len(got) < 3 {
		t.Fatalf("expected at least 3 chunks, got %d", len(got))
	}
	for i, s := range got {
		if ProjectTokens(s) > TokenBudget {
			t.Errorf("chunk %d projects %d tokens, over the budget", i, ProjectTokens(s))
		}
	}
}

func TestSentencesDropsEmpty(t *testing.T) {
	if got := Sentences("  \n\n  "); got != nil {
		t.Errorf("Sentences on whitespace = %q, want nil", got)
	}
}
