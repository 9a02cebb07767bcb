package text

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// StripMarkup removes Markdown and HTML formatting while keeping the
// readable text. Heading, list, and blockquote prefixes are dropped,
// emphasis markers disappear, link and image labels survive without their
// targets, autolink URLs are kept, and fenced code passes through with the
// fence lines collapsed to blank lines.
func StripMarkup(text string) string {
	if text == "" {
		return ""
	}

	var out strings.Builder
	out.Grow(len(text))

	i := 0
	n := len(text)
	lineStart := true
	inCodeBlock := false
	fence := byte('`')
	inlineTicks := 0
	prev := ' '

	for i < n {
		if inCodeBlock {
			if lineStart {
				j := i
				for j < n && (text[j] == ' ' || text[j] == '\t') {
					j++
				}
				if j < n && text[j] == fence {
					k := j
					for k < n && text[k] == fence {
						k++
					}
					if k-j >= 3 {
						i = k
						for i < n && text[i] != '\n' {
							i++
						}
						if i < n {
							out.WriteByte('\n')
							prev = '\n'
							i++
						}
						inCodeBlock = false
						lineStart = true
						continue
					}
				}
			}
			r, size := utf8.DecodeRuneInString(text[i:])
			out.WriteRune(r)
			prev = r
			i += size
			lineStart = r == '\n'
			continue
		}

		if inlineTicks > 0 {
			if text[i] == '`' {
				j := i
				for j < n && text[j] == '`' {
					j++
				}
				if j-i >= inlineTicks {
					i = j
					inlineTicks = 0
					continue
				}
			}
			r, size := utf8.DecodeRuneInString(text[i:])
			out.WriteRune(r)
			prev = r
			i += size
			lineStart = r == '\n'
			continue
		}

		if lineStart {
			j := i
			for j < n && (text[j] == ' ' || text[j] == '\t') {
				j++
			}
			if j < n && (text[j] == '`' || text[j] == '~') {
				f := text[j]
				k := j
				for k < n && text[k] == f {
					k++
				}
				if k-j >= 3 {
					i = k
					for i < n && text[i] != '\n' {
						i++
					}
					if i < n {
						out.WriteByte('\n')
						prev = '\n'
						i++
					}
					inCodeBlock = true
					fence = f
					lineStart = true
					continue
				}
			}
			if j < n && text[j] == '#' {
				k := j
				for k < n && text[k] == '#' {
					k++
				}
				if k < n && text[k] == ' ' {
					i = k + 1
					lineStart = false
					continue
				}
			}
			if j < n && text[j] == '>' {
				k := j + 1
				if k < n && text[k] == ' ' {
					k++
				}
				i = k
				lineStart = false
				continue
			}
			if j < n && (text[j] == '-' || text[j] == '*' || text[j] == '+') {
				if j+1 < n && text[j+1] == ' ' {
					i = j + 2
					lineStart = false
					continue
				}
			}
			if j < n && isDigitByte(text[j]) {
				k := j
				for k < n && isDigitByte(text[k]) {
					k++
				}
				if k < n && (text[k] == '.' || text[k] == ')') && k+1 < n && text[k+1] == ' ' {
					i = k + 2
					lineStart = false
					continue
				}
			}
		}

		if text[i] == '`' {
			j := i
			for j < n && text[j] == '`' {
				j++
			}
			inlineTicks = j - i
			i = j
			continue
		}

		if text[i] == '!' && i+1 < n && text[i+1] == '[' {
			if next, last, ok := stripLinkLike(text, i+2, &out); ok {
				i = next
				lineStart = false
				if last != 0 {
					prev = last
				}
				continue
			}
		} else if text[i] == '[' {
			if next, last, ok := stripLinkLike(text, i+1, &out); ok {
				i = next
				lineStart = false
				if last != 0 {
					prev = last
				}
				continue
			}
		}

		if text[i] == '<' {
			if close := strings.IndexByte(text[i+1:], '>'); close >= 0 {
				end := i + 1 + close
				inside := strings.TrimSpace(text[i+1 : end])
				autolink := strings.HasPrefix(inside, "http://") ||
					strings.HasPrefix(inside, "https://") ||
					strings.HasPrefix(inside, "mailto:") ||
					strings.HasPrefix(inside, "www.")
				if autolink {
					out.WriteString(inside)
					prev, _ = utf8.DecodeLastRuneInString(inside)
					i = end + 1
					lineStart = false
					continue
				}
				if inside != "" {
					first, _ := utf8.DecodeRuneInString(inside)
					if inside[0] == '/' || inside[0] == '!' || inside[0] == '?' || unicode.IsLetter(first) {
						i = end + 1
						lineStart = false
						continue
					}
				}
			}
		}

		if text[i] == '*' || text[i] == '_' || text[i] == '~' {
			marker := text[i]
			j := i
			for j < n && text[j] == marker {
				j++
			}
			if j-i >= 2 {
				i = j
				continue
			}
			if marker == '*' || marker == '_' {
				next := ' '
				if j < n {
					next, _ = utf8.DecodeRuneInString(text[j:])
				}
				// A lone marker at a word edge is emphasis; anywhere else
				// it is literal text (snake_case, multiplication).
				if isWordRune(prev) != isWordRune(next) {
					i++
					continue
				}
			}
		}

		r, size := utf8.DecodeRuneInString(text[i:])
		out.WriteRune(r)
		prev = r
		i += size
		lineStart = r == '\n'
	}

	return out.String()
}

// stripLinkLike copies the label of a [label](target) or [label][ref]
// construct and reports where scanning resumes. ok is false when no
// closing bracket exists and the bracket should be emitted as-is.
func stripLinkLike(text string, start int, out *strings.Builder) (next int, last rune, ok bool) {
	n := len(text)
	for i := start; i < n; i++ {
		if text[i] != ']' {
			continue
		}
		label := text[start:i]
		if label != "" {
			last, _ = utf8.DecodeLastRuneInString(label)
		}
		if i+1 < n && text[i+1] == '(' {
			depth := 1
			j := i + 2
			for j < n {
				if text[j] == '(' {
					depth++
				} else if text[j] == ')' {
					depth--
					if depth == 0 {
						break
					}
				}
				j++
			}
			if j < n {
				out.WriteString(label)
				return j + 1, last, true
			}
		} else if i+1 < n && text[i+1] == '[' {
			j := i + 2
			for j < n && text[j] != ']' {
				j++
			}
			if j < n {
				out.WriteString(label)
				return j + 1, last, true
			}
		}
		out.WriteString(label)
		return i + 1, last, true
	}
	return 0, 0, false
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

func isDigitByte(b byte) bool {
	return b >= '0' && b <= '9'
}
