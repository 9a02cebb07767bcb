package ja

import (
	"context"
	"strings"
	"testing"
)

func TestKanaToIPA(t *testing.T) {
	tests := []struct {
		kana string
		want string
	}{
		{"コンニチハ", "konnitʃiha"},
		{"キョー", "kjoː"},
		{"ガッコー", "ɡakkoː"},
		{"シャシン", "ʃaʃin"},
		{"チーズ", "tʃiːzɯ"},
		{"フジサン", "ɸɯdʒisan"},
		{"ラーメン", "ɹaːmen"},
		{"ツヅキ", "tsɯzɯki"},
	}
	for _, tt := range tests {
		if got := kanaToIPA(tt.kana); got != tt.want {
			t.Errorf("kanaToIPA(%s) = %s, want %s", tt.kana, got, tt.want)
		}
	}
}

func TestKanaToIPA_SokuonBeforeVowelDropped(t *testing.T) {
	if got := kanaToIPA("アッア"); got != "aa" {
		t.Errorf("sokuon before a vowel should not double, got %s", got)
	}
}

func TestToKatakana(t *testing.T) {
	if got := toKatakana("こんにちは"); got != "コンニチハ" {
		t.Errorf("toKatakana = %s", got)
	}
}

func TestPhonemize(t *testing.T) {
	g, err := New()
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	out, err := g.Phonemize(context.Background(), "こんにちは。")
	if err != nil {
		t.Fatalf("phonemize: %v", err)
	}
	// the greeting's final は is pronounced wa
	if !strings.Contains(out, "wa") {
		t.Errorf("expected pronunciation-based reading in %q", out)
	}
	if !strings.Contains(out, ".") {
		t.Errorf("sentence punctuation should survive, got %q", out)
	}
}

func TestPhonemize_ParticleWa(t *testing.T) {
	g, err := New()
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	out, err := g.Phonemize(context.Background(), "私は学生です")
	if err != nil {
		t.Fatalf("phonemize: %v", err)
	}
	if strings.Contains(out, "ha ") {
		t.Errorf("the topic particle は must read wa, got %q", out)
	}
}
