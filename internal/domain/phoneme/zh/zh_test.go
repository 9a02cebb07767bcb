package zh

import (
	"context"
	"strings"
	"testing"
)

func TestNumberToChinese(t *testing.T) {
	tests := []struct {
		n    int64
		want string
	}{
		{0, "零"},
		{5, "五"},
		{10, "十"},
		{13, "十三"},
		{20, "二十"},
		{105, "一百零五"},
		{123, "一百二十三"},
		{1000, "一千"},
		{10005, "一万零五"},
		{100000000, "一亿"},
	}
	for _, tt := range tests {
		if got := numberToChinese(tt.n); got != tt.want {
			t.Errorf("numberToChinese(%d) = %s, want %s", tt.n, got, tt.want)
		}
	}
}

func TestConvertNumbers(t *testing.T) {
	if got := convertNumbers("我有123个苹果"); got != "我有一百二十三个苹果" {
		t.Errorf("convertNumbers = %s", got)
	}
	if got := convertNumbers("没有数字"); got != "没有数字" {
		t.Errorf("convertNumbers should pass text through, got %s", got)
	}
}

func TestBuSandhi(t *testing.T) {
	finals := []string{"bu4", "shi4"}
	buSandhi("不是", finals)
	if toneOf(finals[0]) != 2 {
		t.Errorf("不 before tone 4 should become tone 2, got %s", finals[0])
	}

	finals = []string{"kan4", "bu4", "dong3"}
	buSandhi("看不懂", finals)
	if toneOf(finals[1]) != 5 {
		t.Errorf("embedded 不 should go neutral, got %s", finals[1])
	}
}

func TestYiSandhi(t *testing.T) {
	finals := []string{"yi1", "ge4"}
	yiSandhi("一个", finals)
	if toneOf(finals[0]) != 2 {
		t.Errorf("一 before tone 4 should become tone 2, got %s", finals[0])
	}

	finals = []string{"di4", "yi1"}
	yiSandhi("第一", finals)
	if toneOf(finals[1]) != 1 {
		t.Errorf("ordinal 一 keeps tone 1, got %s", finals[1])
	}

	finals = []string{"kan4", "yi1", "kan4"}
	yiSandhi("看一看", finals)
	if toneOf(finals[1]) != 5 {
		t.Errorf("reduplicated 一 should go neutral, got %s", finals[1])
	}
}

func TestThirdSandhi(t *testing.T) {
	finals := []string{"ni3", "hao3"}
	thirdSandhi(finals)
	if toneOf(finals[0]) != 2 || toneOf(finals[1]) != 3 {
		t.Errorf("third tone pair should become 2+3, got %v", finals)
	}

	finals = []string{"suo3", "you3", "ren2"}
	thirdSandhi(finals)
	if toneOf(finals[0]) != 2 {
		t.Errorf("leading third tone pair should shift, got %v", finals)
	}
}

func TestNeutralSandhi(t *testing.T) {
	finals := []string{"pu2", "tao2"}
	neutralSandhi("葡萄", "n", finals)
	if toneOf(finals[1]) != 5 {
		t.Errorf("葡萄 last syllable should go neutral, got %v", finals)
	}

	finals = []string{"dian4", "zi3"}
	neutralSandhi("电子", "n", finals)
	if toneOf(finals[1]) != 3 {
		t.Errorf("电子 must keep its tone, got %v", finals)
	}
}

func TestPinyinToSymbols(t *testing.T) {
	tests := []struct {
		py   string
		want string
	}{
		{"zhong1", "ㄓ中1"},
		{"ni3", "ㄋㄧ3"},
		{"hao3", "ㄏㄠ3"},
		{"shi4", "ㄕ十4"},
		{"zi5", "ㄗㄭ5"},
		{"yu2", "ㄩ2"},
		{"wo3", "我3"},
		{"liu2", "ㄌ又2"},
		{"jun1", "ㄐ云1"},
		{"de", "ㄉㄜ5"},
	}
	for _, tt := range tests {
		if got := pinyinToSymbols(tt.py); got != tt.want {
			t.Errorf("pinyinToSymbols(%s) = %s, want %s", tt.py, got, tt.want)
		}
	}
}

func TestPreMerge(t *testing.T) {
	words := []posWord{{"不", "d"}, {"是", "v"}, {"他", "r"}}
	merged := preMerge(words)
	if len(merged) != 2 || merged[0].text != "不是" {
		t.Errorf("不 should merge with the next word, got %v", merged)
	}

	words = []posWord{{"看", "v"}, {"看", "v"}}
	merged = preMerge(words)
	if len(merged) != 1 || merged[0].text != "看看" {
		t.Errorf("reduplication should merge, got %v", merged)
	}
}

func TestPhonemize(t *testing.T) {
	g, err := New()
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	out, err := g.Phonemize(context.Background(), "你好，世界！")
	if err != nil {
		t.Fatalf("phonemize: %v", err)
	}
	if !strings.Contains(out, "ㄋㄧ2ㄏㄠ3") {
		t.Errorf("expected sandhi-adjusted 你好 in %q", out)
	}
	if !strings.Contains(out, ",") || !strings.Contains(out, "!") {
		t.Errorf("CJK punctuation should map to ASCII, got %q", out)
	}

	out, err = g.Phonemize(context.Background(), "我有2个")
	if err != nil {
		t.Fatalf("phonemize: %v", err)
	}
	if strings.ContainsAny(out, "0123456789") {
		// tone digits are fine; bare ASCII digits are not
		for _, run := range strings.Split(out, "/") {
			if run != "" && run[0] >= '0' && run[0] <= '9' {
				t.Errorf("arabic digits should be rewritten, got %q", out)
			}
		}
	}
}
