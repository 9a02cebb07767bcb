package phoneme

// Tokenize maps each phoneme rune onto its id in the variant's symbol
// table. Symbols the table does not know are dropped rather than
// failing the sentence; they come back to the caller for logging.
func Tokenize(phonemes string, v Variant) (tokens []int64, dropped []rune) {
	vocab := vocabFor(v)
	tokens = make([]int64, 0, len(phonemes))
	for _, r := range phonemes {
		id, ok := vocab[r]
		if !ok {
			dropped = append(dropped, r)
			continue
		}
		tokens = append(tokens, id)
	}
	return tokens, dropped
}

// WithBoundaries pads a token sequence with the boundary marker on
// both ends, as the model expects.
func WithBoundaries(tokens []int64) []int64 {
	padded := make([]int64, 0, len(tokens)+2)
	padded = append(padded, BoundaryID)
	padded = append(padded, tokens...)
	return append(padded, BoundaryID)
}

// TokensToPhonemes inverts Tokenize for logging and debugging.
// Unknown ids are skipped.
func TokensToPhonemes(tokens []int64, v Variant) string {
	rev := reverseFor(v)
	out := make([]rune, 0, len(tokens))
	for _, id := range tokens {
		if r, ok := rev[id]; ok {
			out = append(out, r)
		}
	}
	return string(out)
}
