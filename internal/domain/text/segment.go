package text

import (
	"strings"
	"unicode"
)

// SplitSentences splits normalized text into sentence chunks, keeping the
// terminator with its sentence. The scanner tracks quote depth so quoted
// passages stay attached, skips the dot of ordinal list markers, decimals,
// and abbreviations followed by lowercase, and treats a newline outside
// quotes as a soft terminator.
func SplitSentences(text string) []string {
	var sentences []string
	runes := []rune(text)
	current := make([]rune, 0, len(runes))
	quoteDepth := 0

	flush := func() {
		if t := strings.TrimSpace(string(current)); t != "" {
			sentences = append(sentences, t)
		}
		current = current[:0]
	}

	for i := 0; i < len(runes); i++ {
		ch := runes[i]
		current = append(current, ch)

		switch ch {
		case '"':
			if quoteDepth > 0 {
				quoteDepth--
			} else {
				quoteDepth++
			}
		case '“', '«':
			quoteDepth++
		case '”', '»':
			if quoteDepth > 0 {
				quoteDepth--
			}
		}
		inQuotes := quoteDepth > 0

		if ch == '\n' {
			if !inQuotes {
				flush()
			}
			continue
		}
		if !isTerminator(ch) {
			continue
		}

		end := true
		if ch == '.' {
			// Ordinal list marker: a digit before the dot with more
			// content after ("1. First item") is not a boundary.
			if i > 0 && isASCIIDigit(runes[i-1]) &&
				i+1 < len(runes) && unicode.IsSpace(runes[i+1]) && i+2 < len(runes) {
				end = false
			}
			if end && i+1 < len(runes) {
				next := runes[i+1]
				switch {
				case unicode.IsSpace(next) && i+2 < len(runes) && unicode.IsLower(runes[i+2]):
					// Abbreviation or mid-sentence break ("Dr. smith").
					end = false
				case isASCIIDigit(next):
					// Decimal ("3.14").
					end = false
				}
			}
		}

		if inQuotes && i+1 < len(runes) {
			next := runes[i+1]
			if next != '"' && next != '”' && next != '»' {
				// Terminator inside a quote with the quote still open:
				// hold the sentence until the quote closes.
				end = false
			} else {
				// The quote closes right after the terminator. Fold the
				// closing quote into this sentence unless lowercase text
				// continues after it.
				switch {
				case i+2 >= len(runes):
					i++
					current = append(current, runes[i])
					if quoteDepth > 0 {
						quoteDepth--
					}
				case unicode.IsSpace(runes[i+2]) && i+3 < len(runes):
					if unicode.IsLower(runes[i+3]) {
						end = false
					} else {
						i++
						current = append(current, runes[i])
						if quoteDepth > 0 {
							quoteDepth--
						}
					}
				case !unicode.IsSpace(runes[i+2]):
					end = false
				default:
					i++
					current = append(current, runes[i])
					if quoteDepth > 0 {
						quoteDepth--
					}
				}
			}
		}

		if end {
			for i+1 < len(runes) && unicode.IsSpace(runes[i+1]) {
				i++
				current = append(current, runes[i])
			}
			flush()
		}
	}

	flush()
	return sentences
}

func isTerminator(r rune) bool {
	switch r {
	case '.', '!', '?', '。', '！', '？':
		return true
	}
	return false
}

func isASCIIDigit(r rune) bool {
	return '0' <= r && r <= '9'
}
