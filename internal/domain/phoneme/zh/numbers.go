package zh

import (
	"strconv"
	"strings"
)

var zhDigits = []rune("零一二三四五六七八九")

var zhSmallUnits = []string{"", "十", "百", "千"}

var zhGroupUnits = []string{"", "万", "亿", "万亿"}

// numberToChinese reads a non-negative integer the way it is spoken:
// 123 becomes 一百二十三, 10 becomes 十, 105 becomes 一百零五.
func numberToChinese(n int64) string {
	if n == 0 {
		return "零"
	}

	var groups []int64
	for n > 0 {
		groups = append(groups, n%10000)
		n /= 10000
	}

	var b strings.Builder
	needZero := false
	for i := len(groups) - 1; i >= 0; i-- {
		g := groups[i]
		if g == 0 {
			if b.Len() > 0 {
				needZero = true
			}
			continue
		}
		if needZero || (b.Len() > 0 && g < 1000) {
			b.WriteRune('零')
		}
		b.WriteString(groupToChinese(g, b.Len() == 0))
		b.WriteString(zhGroupUnits[i])
		needZero = false
	}
	return b.String()
}

func groupToChinese(g int64, leading bool) string {
	var b strings.Builder
	digits := []int64{g / 1000 % 10, g / 100 % 10, g / 10 % 10, g % 10}
	zeroPending := false
	for i, d := range digits {
		unit := zhSmallUnits[3-i]
		if d == 0 {
			if b.Len() > 0 {
				zeroPending = true
			}
			continue
		}
		if zeroPending {
			b.WriteRune('零')
			zeroPending = false
		}
		// 10..19 at the head of the whole number reads 十 not 一十.
		if !(d == 1 && unit == "十" && leading && b.Len() == 0) {
			b.WriteRune(zhDigits[d])
		}
		b.WriteString(unit)
	}
	return b.String()
}

// convertNumbers rewrites runs of ASCII digits as Chinese numerals so
// they reach the pinyin stage as ordinary hanzi. Runs too long for an
// int64 are read digit by digit.
func convertNumbers(text string) string {
	var b strings.Builder
	var num strings.Builder
	flush := func() {
		if num.Len() == 0 {
			return
		}
		s := num.String()
		if v, err := strconv.ParseInt(s, 10, 64); err == nil && len(s) < 17 {
			b.WriteString(numberToChinese(v))
		} else {
			for _, c := range s {
				b.WriteRune(zhDigits[c-'0'])
			}
		}
		num.Reset()
	}
	for _, r := range text {
		if r >= '0' && r <= '9' {
			num.WriteRune(r)
			continue
		}
		flush()
		b.WriteRune(r)
	}
	flush()
	return b.String()
}
