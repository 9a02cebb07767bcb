package phoneme

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"strings"
	"time"
	"unicode"

	platformerrors "kokorod/internal/platform/errors"
)

const defaultEspeakTimeout = 10 * time.Second

// Espeak shells out to the espeak-ng binary for grapheme to phoneme
// conversion, one process per sentence.
type Espeak struct {
	path    string
	dataDir string
	timeout time.Duration
}

func NewEspeak(path, dataDir string, timeout time.Duration) *Espeak {
	if path == "" {
		path = "espeak-ng"
	}
	if timeout <= 0 {
		timeout = defaultEspeakTimeout
	}
	return &Espeak{path: path, dataDir: dataDir, timeout: timeout}
}

// Probe verifies the binary can be found without running it.
func (e *Espeak) Probe() error {
	const op = "phoneme.Espeak.Probe"
	if _, err := exec.LookPath(e.path); err != nil {
		return platformerrors.Wrap(platformerrors.KindPhonemizerUnavailable, op, "espeak-ng binary not found", err)
	}
	return nil
}

// Punctuation espeak swallows. The text is split at these marks and
// stitched back together afterwards, because the model voices
// punctuation prosody from the symbols themselves.
const clausePunct = ";:,.!?¡¿—…\"«»“”"

type run struct {
	text  string
	punct bool
}

func splitRuns(s string) []run {
	var runs []run
	var cur strings.Builder
	curPunct := false
	flush := func() {
		if cur.Len() > 0 {
			runs = append(runs, run{text: cur.String(), punct: curPunct})
			cur.Reset()
		}
	}
	for _, r := range s {
		p := strings.ContainsRune(clausePunct, r)
		if p != curPunct {
			flush()
			curPunct = p
		}
		cur.WriteRune(r)
	}
	flush()
	return runs
}

// Phonemize converts text to IPA symbols with the given espeak voice.
// Each punctuation-free chunk goes to espeak as its own input line, so
// output lines map one to one onto chunks.
func (e *Espeak) Phonemize(ctx context.Context, voice, text string) (string, error) {
	runs := splitRuns(text)

	lines := make([]string, 0, len(runs))
	for _, r := range runs {
		if r.punct {
			continue
		}
		if t := strings.TrimSpace(r.text); t != "" {
			lines = append(lines, t)
		}
	}
	if len(lines) == 0 {
		return text, nil
	}

	out, err := e.exec(ctx, voice, strings.Join(lines, "\n"))
	if err != nil {
		return "", err
	}
	phonemes := parseEspeakOutput(out)

	var b strings.Builder
	next := 0
	for _, r := range runs {
		if r.punct {
			b.WriteString(r.text)
			continue
		}
		body := strings.TrimLeftFunc(r.text, unicode.IsSpace)
		lead := r.text[:len(r.text)-len(body)]
		trimmed := strings.TrimRightFunc(body, unicode.IsSpace)
		trail := body[len(trimmed):]

		b.WriteString(lead)
		if trimmed != "" && next < len(phonemes) {
			b.WriteString(phonemes[next])
			next++
		}
		b.WriteString(trail)
	}
	// espeak split a chunk into more clauses than expected; keep the
	// phonemes rather than dropping them.
	for ; next < len(phonemes); next++ {
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(phonemes[next])
	}
	return b.String(), nil
}

func (e *Espeak) exec(ctx context.Context, voice, input string) (string, error) {
	const op = "phoneme.Espeak"

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, e.path, "-q", "--ipa=3", "-v", voice, "--stdin")
	cmd.Stdin = strings.NewReader(input)
	if e.dataDir != "" {
		cmd.Env = append(os.Environ(), "ESPEAK_DATA_PATH="+e.dataDir)
	}

	out, err := cmd.Output()
	if err != nil {
		var execErr *exec.Error
		if errors.As(err, &execErr) {
			return "", platformerrors.Wrap(platformerrors.KindPhonemizerUnavailable, op, "espeak-ng binary not found", err)
		}
		if ctx.Err() != nil {
			return "", platformerrors.Wrap(platformerrors.KindInternal, op, "espeak-ng timed out", ctx.Err())
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && len(exitErr.Stderr) > 0 {
			return "", platformerrors.Newf(platformerrors.KindInternal, op, "espeak-ng failed: %s", firstLine(exitErr.Stderr))
		}
		return "", platformerrors.Wrap(platformerrors.KindInternal, op, "espeak-ng failed", err)
	}
	return string(out), nil
}

// parseEspeakOutput turns ipa=3 output into one phoneme string per
// input line: underscores separate phonemes within a word, spaces
// separate words.
func parseEspeakOutput(out string) []string {
	var phonemes []string
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		line = strings.ReplaceAll(line, "_", "")
		line = strings.ReplaceAll(line, "͡", "")
		line = strings.ReplaceAll(line, "\u200D", "")
		phonemes = append(phonemes, line)
	}
	return phonemes
}

func firstLine(b []byte) string {
	s := strings.TrimSpace(string(b))
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return s
}
