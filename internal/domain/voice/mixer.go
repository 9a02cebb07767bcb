package voice

import (
	"math"
	"strconv"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	platformerrors "kokorod/internal/platform/errors"
)

// Resolver turns mix expressions like "af_sky*0.4+af_nicole*0.6" into
// effective style tensors. Resolved tensors are cached by canonical
// expression.
type Resolver struct {
	pack  *Pack
	cache *lru.Cache[string, *Style]
}

func NewResolver(pack *Pack, cacheSize int) (*Resolver, error) {
	if cacheSize < 1 {
		cacheSize = 64
	}
	cache, err := lru.New[string, *Style](cacheSize)
	if err != nil {
		return nil, platformerrors.Wrap(platformerrors.KindInternal, "voice.NewResolver", "create cache", err)
	}
	return &Resolver{pack: pack, cache: cache}, nil
}

// Pack returns the pack this resolver draws from.
func (r *Resolver) Pack() *Pack {
	return r.pack
}

type mixTerm struct {
	id     string
	weight float64
	minus  bool
}

// Resolve parses and evaluates a mix expression. A bare voice id
// resolves to that voice's tensor. The weighted sum is intentionally
// not renormalized.
func (r *Resolver) Resolve(expr string) (*Style, error) {
	key := canonicalExpr(expr)
	if style, ok := r.cache.Get(key); ok {
		return style, nil
	}

	terms, err := parseMix(key)
	if err != nil {
		return nil, err
	}

	// Single undecorated voice shares the pack tensor.
	if len(terms) == 1 && !terms[0].minus && terms[0].weight == 1.0 {
		v, err := r.pack.Get(terms[0].id)
		if err != nil {
			return nil, err
		}
		r.cache.Add(key, v.Style)
		return v.Style, nil
	}

	sum := make([]float32, TensorLen)
	for _, t := range terms {
		v, err := r.pack.Get(t.id)
		if err != nil {
			return nil, err
		}
		w := float32(t.weight)
		if t.minus {
			w = -w
		}
		data := v.Style.Data()
		for i := range sum {
			sum[i] += w * data[i]
		}
	}

	style := NewStyle(sum)
	r.cache.Add(key, style)
	return style, nil
}

// CacheLen reports how many resolved expressions are cached.
func (r *Resolver) CacheLen() int {
	return r.cache.Len()
}

func canonicalExpr(expr string) string {
	var b strings.Builder
	b.Grow(len(expr))
	for _, c := range expr {
		switch c {
		case ' ', '\t', '\n', '\r':
		default:
			b.WriteRune(c)
		}
	}
	return b.String()
}

// parseMix implements
//
//	expr := term (('+'|'-') term)*
//	term := voice_id ('*' weight)?
//
// over a whitespace-free input.
func parseMix(expr string) ([]mixTerm, error) {
	const op = "voice.Resolve"

	if expr == "" {
		return nil, platformerrors.New(platformerrors.KindBadMixSyntax, op, "empty mix expression")
	}

	var terms []mixTerm
	pos := 0
	minus := false
	for {
		id, n := scanIdent(expr[pos:])
		if n == 0 {
			return nil, platformerrors.Newf(platformerrors.KindBadMixSyntax, op, "expected voice id at offset %d in %q", pos, expr)
		}
		pos += n

		weight := 1.0
		if pos < len(expr) && expr[pos] == '*' {
			pos++
			w, n := scanNumber(expr[pos:])
			if n == 0 {
				return nil, platformerrors.Newf(platformerrors.KindBadMixSyntax, op, "expected weight at offset %d in %q", pos, expr)
			}
			parsed, err := strconv.ParseFloat(w, 64)
			if err != nil || parsed <= 0 || math.IsInf(parsed, 0) || math.IsNaN(parsed) {
				return nil, platformerrors.Newf(platformerrors.KindBadMixSyntax, op, "weight %q must be a positive finite number", w)
			}
			weight = parsed
			pos += n
		}

		terms = append(terms, mixTerm{id: id, weight: weight, minus: minus})

		if pos == len(expr) {
			return terms, nil
		}
		switch expr[pos] {
		case '+':
			minus = false
		case '-':
			minus = true
		default:
			return nil, platformerrors.Newf(platformerrors.KindBadMixSyntax, op, "unexpected %q at offset %d in %q", expr[pos], pos, expr)
		}
		pos++
	}
}

func scanIdent(s string) (string, int) {
	i := 0
	for i < len(s) {
		c := s[i]
		if c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '_' {
			i++
			continue
		}
		break
	}
	return s[:i], i
}

// scanNumber accepts a plain positive float, optionally with an exponent.
func scanNumber(s string) (string, int) {
	i := 0
	digits := func() {
		for i < len(s) && s[i] >= '0' && s[i] <= '9' {
			i++
		}
	}
	digits()
	if i < len(s) && s[i] == '.' {
		i++
		digits()
	}
	if i > 0 && i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		mark := i
		i++
		if i < len(s) && (s[i] == '+' || s[i] == '-') {
			i++
		}
		start := i
		digits()
		if i == start {
			i = mark
		}
	}
	return s[:i], i
}
