// Package synth is the synthesis orchestrator: it turns one request's
// text into 24 kHz PCM by resolving the style, segmenting, phonemizing,
// tokenizing, and driving the model session per sentence.
package synth

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"kokorod/internal/domain/audio"
	"kokorod/internal/domain/eventbus"
	"kokorod/internal/domain/language"
	"kokorod/internal/domain/phoneme"
	"kokorod/internal/domain/registry"
	"kokorod/internal/domain/text"
	"kokorod/internal/domain/voice"
	platformerrors "kokorod/internal/platform/errors"
	"kokorod/internal/platform/observability"
)

// MaxTokens is the model's hard token window, boundary markers
// included.
const MaxTokens = text.MaxTokens

// fallbackSamplesPerChar sizes substituted silence when no sentence
// has succeeded yet; roughly average speech rate at 24 kHz.
const fallbackSamplesPerChar = 1600

// Phonemizer is the per-language G2P front end the engine drives.
type Phonemizer interface {
	Phonemize(ctx context.Context, tag, text string) (string, error)
}

// VariantSource tells the engine which model variants exist. The
// registry implements it.
type VariantSource interface {
	Active() registry.Variant
	Has(v registry.Variant) bool
}

// Request is one synthesis call.
type Request struct {
	Text             string
	Voice            string // mix expression; empty means the default voice
	Language         string // fixed tag; empty means detect or default
	Speed            float64
	InitialSilenceMs int
	AutoDetect       bool
	ForceStyle       bool
	Variant          registry.Variant // explicit model variant; empty means active
	Surface          string           // originating surface for usage records
}

// Result carries the assembled request audio.
type Result struct {
	Samples   []float32
	Sentences int
	Failed    int
	Language  string // language of the first sentence
	Voice     string
}

// Options are the engine-level defaults from config.
type Options struct {
	DefaultVoice string
	DefaultSpeed float64
	CrossfadeMs  int
}

// Engine glues the pipeline stages together. Safe for concurrent use.
type Engine struct {
	resolver *voice.Resolver
	phon     Phonemizer
	driver   Driver
	variants VariantSource
	asm      *Assembler
	opts     Options
	logger   *slog.Logger
}

func NewEngine(resolver *voice.Resolver, phon Phonemizer, driver Driver, variants VariantSource, opts Options, logger *slog.Logger) *Engine {
	if opts.DefaultVoice == "" {
		opts.DefaultVoice = voice.FallbackVoice
	}
	if opts.DefaultSpeed <= 0 {
		opts.DefaultSpeed = 1.0
	}
	return &Engine{
		resolver: resolver,
		phon:     phon,
		driver:   driver,
		variants: variants,
		asm:      NewAssembler(opts.CrossfadeMs),
		opts:     opts,
		logger:   logger,
	}
}

// Voices exposes the loaded pack for the surfaces.
func (e *Engine) Voices() *voice.Pack {
	return e.resolver.Pack()
}

// ClampSpeed bounds a requested rate to what the model tolerates.
func ClampSpeed(speed float64) float32 {
	switch {
	case speed <= 0:
		return 1.0
	case speed < 0.1:
		return 0.1
	case speed > 3.0:
		return 3.0
	}
	return float32(speed)
}

// Synthesize runs the full pipeline for one request. A sentence that
// fails phonemization or inference is replaced by silence proportional
// to its length; the request fails only when every sentence does.
func (e *Engine) Synthesize(ctx context.Context, req Request) (*Result, error) {
	const op = "synth.Engine.Synthesize"
	start := time.Now()
	ctx, finish := observability.StartSpan(ctx, "synth", "synthesize")

	sentences := text.Sentences(text.StripMarkup(req.Text))
	if len(sentences) == 0 {
		err := platformerrors.New(platformerrors.KindBadInput, op, "no synthesizable text")
		finish(err)
		return nil, err
	}

	speed := ClampSpeed(req.Speed)
	if req.Speed == 0 {
		speed = ClampSpeed(e.opts.DefaultSpeed)
	}

	res := &Result{Voice: req.Voice}
	segments := make([][]float32, 0, len(sentences))
	goodSamples, goodChars := 0, 0
	var firstErr error

	for _, sentence := range sentences {
		if err := ctx.Err(); err != nil {
			finish(err)
			return nil, platformerrors.Wrap(platformerrors.KindInferenceFailed, op, "request cancelled", err)
		}

		tag := e.languageFor(sentence, req)
		if res.Language == "" {
			res.Language = tag
		}

		samples, err := e.synthesizeSentence(ctx, sentence, tag, req, speed)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			res.Failed++
			e.logger.Warn("sentence failed, substituting silence",
				"language", tag, "chars", len([]rune(sentence)), "error", err)
			samples = e.substituteSilence(sentence, goodSamples, goodChars)
		} else {
			goodSamples += len(samples)
			goodChars += len([]rune(sentence))
		}
		segments = append(segments, samples)
		res.Sentences++
	}

	if res.Failed == res.Sentences && firstErr != nil {
		finish(firstErr)
		return nil, firstErr
	}

	res.Samples = e.asm.Assemble(segments, req.InitialSilenceMs)
	finish(nil)
	observability.RecordDuration(ctx, "synth.request", time.Since(start), map[string]string{"language": res.Language})
	eventbus.PublishAsync(eventbus.EventSynthesisCompleted, eventbus.SynthesisEventData{
		RequestID: uuid.NewString(),
		Surface:   req.Surface,
		Voice:     req.Voice,
		Language:  res.Language,
		Variant:   string(e.variants.Active()),
		TextChars: len([]rune(req.Text)),
		Sentences: res.Sentences,
		AudioMs:   audio.DurationMs(len(res.Samples)),
		ElapsedMs: time.Since(start).Milliseconds(),
		Status:    requestStatus(res),
	})
	return res, nil
}

func requestStatus(res *Result) string {
	if res.Failed > 0 {
		return "partial"
	}
	return "ok"
}

// languageFor picks the sentence's tag: explicit request language wins
// unless auto-detect is on; Han text short-circuits to zh the way the
// model selection expects.
func (e *Engine) languageFor(sentence string, req Request) string {
	if req.AutoDetect {
		if language.ContainsHan(sentence) {
			return "zh"
		}
		detected := language.Detect(sentence)
		if detected == language.DefaultTag && req.Language != "" {
			if tag, ok := language.NormalizeTag(req.Language); ok {
				return tag
			}
		}
		return detected
	}
	if req.Language != "" {
		if tag, ok := language.NormalizeTag(req.Language); ok {
			return tag
		}
	}
	return language.DefaultTag
}

// styleFor resolves the effective style for a sentence. Without
// force_style a language-appropriate default voice takes precedence
// over a cross-language request voice.
func (e *Engine) styleFor(tag string, req Request) (*voice.Style, string, error) {
	expr := req.Voice
	if expr == "" {
		expr = e.opts.DefaultVoice
	}
	if !req.ForceStyle {
		if def := voice.DefaultVoiceFor(tag); def != "" && def != expr && e.resolver.Pack().Has(def) {
			// Only override single-voice requests that target another
			// language's pack; explicit mixes are kept, and an unknown
			// voice must still surface as an error below.
			if !strings.ContainsAny(expr, "*+-") && e.resolver.Pack().Has(expr) && !e.voiceMatchesLanguage(expr, tag) {
				expr = def
			}
		}
	}
	style, err := e.resolver.Resolve(expr)
	return style, expr, err
}

func (e *Engine) voiceMatchesLanguage(id, tag string) bool {
	v, err := e.resolver.Pack().Get(id)
	if err != nil {
		return false
	}
	return v.Language == tag || strings.HasPrefix(tag, v.Language) || strings.HasPrefix(v.Language, tag)
}

// synthesizeSentence runs G2P, tokenization, and inference for one
// sentence, enforcing the token window exactly.
func (e *Engine) synthesizeSentence(ctx context.Context, sentence, tag string, req Request, speed float32) ([]float32, error) {
	style, _, err := e.styleFor(tag, req)
	if err != nil {
		return nil, err
	}

	seqs, err := e.tokenizeBounded(ctx, sentence, tag)
	if err != nil {
		return nil, err
	}

	variant := e.variantFor(tag, req)
	var out []float32
	for _, tokens := range seqs {
		padded := phoneme.WithBoundaries(tokens)
		samples, err := e.driver.Synthesize(ctx, variant, padded, style.Row(len(padded)), speed)
		if err != nil {
			return nil, err
		}
		out = append(out, samples...)
	}
	return out, nil
}

// variantFor honors an explicitly requested variant first, then routes
// zh sentences to the dedicated Chinese checkpoint when one is loaded;
// everything else runs on the active variant.
func (e *Engine) variantFor(tag string, req Request) registry.Variant {
	if req.Variant != "" && e.variants.Has(req.Variant) {
		return req.Variant
	}
	if strings.HasPrefix(tag, "zh") && e.variants.Has(registry.VariantChinese) {
		return registry.VariantChinese
	}
	return "" // active
}

// tokenizeBounded phonemizes the sentence and guarantees every token
// sequence fits the window once boundary markers are added. The
// projection heuristic usually suffices; when the exact count still
// overflows, the sentence is re-split against exact counts, bounded to
// three attempts, then hard-truncated.
func (e *Engine) tokenizeBounded(ctx context.Context, sentence, tag string) ([][]int64, error) {
	vocab := phoneme.VariantFor(tag)
	budget := MaxTokens - 2

	tokenize := func(s string) ([]int64, error) {
		ps, err := e.phon.Phonemize(ctx, tag, text.ExpandNumbers(s, tag))
		if err != nil {
			return nil, err
		}
		tokens, dropped := phoneme.Tokenize(ps, vocab)
		if len(dropped) > 0 {
			e.logger.Debug("dropped unknown phoneme symbols",
				"language", tag, "count", len(dropped), "symbols", string(dropped))
		}
		return tokens, nil
	}

	tokens, err := tokenize(sentence)
	if err != nil {
		return nil, err
	}
	if len(tokens) <= budget {
		if len(tokens) == 0 {
			return nil, nil
		}
		return [][]int64{tokens}, nil
	}

	pieces := []string{sentence}
	for attempt := 0; attempt < 3; attempt++ {
		var next []string
		refined := false
		for _, p := range pieces {
			exact, err := tokenize(p)
			if err != nil {
				return nil, err
			}
			if len(exact) <= budget {
				next = append(next, p)
				continue
			}
			split := text.SplitToFit(p, func(s string) bool {
				n, err := tokenize(s)
				return err == nil && len(n) <= budget
			})
			if len(split) > 1 {
				refined = true
			}
			next = append(next, split...)
		}
		pieces = next
		if !refined {
			break
		}
	}

	var seqs [][]int64
	for _, p := range pieces {
		tokens, err := tokenize(p)
		if err != nil {
			return nil, err
		}
		if len(tokens) == 0 {
			continue
		}
		if len(tokens) > budget {
			e.logger.Warn("sentence still over token window after re-splitting, truncating",
				"language", tag, "tokens", len(tokens))
			tokens = tokens[:budget]
		}
		seqs = append(seqs, tokens)
	}
	return seqs, nil
}

// substituteSilence sizes a failed sentence's replacement from the
// request's observed samples-per-character rate.
func (e *Engine) substituteSilence(sentence string, goodSamples, goodChars int) []float32 {
	rate := fallbackSamplesPerChar
	if goodChars > 0 {
		rate = goodSamples / goodChars
	}
	return make([]float32, rate*len([]rune(sentence)))
}
