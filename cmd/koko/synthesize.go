package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"kokorod/internal/bootstrap"
	"kokorod/internal/domain/audio"
	"kokorod/internal/domain/stream"
	"kokorod/internal/domain/synth"
	"kokorod/internal/platform/storage"
)

// synthFlags are the options shared by every synthesis subcommand.
type synthFlags struct {
	config   string
	voice    string
	language string
	speed    float64
	output   string
}

func bindSynthFlags(fs *flag.FlagSet) *synthFlags {
	f := &synthFlags{}
	fs.StringVar(&f.config, "config", "", "path to config.yaml")
	fs.StringVar(&f.voice, "voice", "", "voice id or mix expression (default from config)")
	fs.StringVar(&f.language, "lang", "", "language tag; empty enables auto-detect")
	fs.Float64Var(&f.speed, "speed", 0, "speech speed, clamped to [0.1, 3.0]")
	fs.StringVar(&f.output, "o", "output.wav", "output path")
	return f
}

func (f *synthFlags) request(text string) synth.Request {
	return synth.Request{
		Text:       text,
		Voice:      f.voice,
		Language:   f.language,
		Speed:      f.speed,
		AutoDetect: f.language == "",
		Surface:    storage.SurfaceCLI,
	}
}

func cmdText(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("text", flag.ExitOnError)
	f := bindSynthFlags(fs)
	fs.Parse(args)

	text := strings.TrimSpace(strings.Join(fs.Args(), " "))
	if text == "" {
		return fmt.Errorf("text: no input given")
	}

	app, err := bootstrap.Load(ctx, f.config)
	if err != nil {
		return err
	}
	defer app.Close()

	res, err := app.Engine.Synthesize(ctx, f.request(text))
	if err != nil {
		return err
	}
	if err := writeWAV(f.output, res.Samples); err != nil {
		return err
	}
	fmt.Printf("%s: %.2fs, %d sentence(s), voice %s\n",
		f.output, float64(audio.DurationMs(len(res.Samples)))/1000, res.Sentences, res.Voice)
	return nil
}

func cmdFile(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("file", flag.ExitOnError)
	f := bindSynthFlags(fs)
	outDir := fs.String("dir", ".", "directory for per-line WAV files")
	fs.Parse(args)

	if fs.NArg() != 1 {
		return fmt.Errorf("file: expected exactly one input file")
	}
	in, err := os.Open(fs.Arg(0))
	if err != nil {
		return err
	}
	defer in.Close()

	app, err := bootstrap.Load(ctx, f.config)
	if err != nil {
		return err
	}
	defer app.Close()

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		return err
	}

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for scanner.Scan() {
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		res, err := app.Engine.Synthesize(ctx, f.request(text))
		if err != nil {
			return fmt.Errorf("line %d: %w", line+1, err)
		}
		path := filepath.Join(*outDir, fmt.Sprintf("line_%03d.wav", line))
		if err := writeWAV(path, res.Samples); err != nil {
			return err
		}
		fmt.Printf("%s: %.2fs\n", path, float64(audio.DurationMs(len(res.Samples)))/1000)
		line++
	}
	return scanner.Err()
}

// cmdPipe streams stdin through a session so synthesis overlaps the
// read, then concatenates the ordered chunks into one WAV.
func cmdPipe(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("pipe", flag.ExitOnError)
	f := bindSynthFlags(fs)
	fs.Parse(args)

	app, err := bootstrap.Load(ctx, f.config)
	if err != nil {
		return err
	}
	defer app.Close()

	sess := app.Streams.Open(stream.SessionConfig{
		Voice:      f.voice,
		Speed:      f.speed,
		Language:   f.language,
		AutoDetect: f.language == "",
	})

	var samples []float32
	done := make(chan error, 1)
	go func() {
		for c := range sess.Chunks() {
			samples = append(samples, c.Samples...)
		}
		done <- nil
	}()

	reader := bufio.NewReader(os.Stdin)
	buf := make([]byte, 4096)
	for {
		n, readErr := reader.Read(buf)
		if n > 0 {
			if err := sess.Append(ctx, string(buf[:n])); err != nil {
				sess.Cancel()
				return err
			}
		}
		if readErr != nil {
			break
		}
	}
	if err := sess.End(ctx); err != nil {
		return err
	}
	<-done

	return writeWAV(f.output, samples)
}

// cmdStream emits one self-contained WAV blob per finished chunk on
// stdout, suitable for piping into a player.
func cmdStream(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("stream", flag.ExitOnError)
	f := bindSynthFlags(fs)
	fs.Parse(args)

	app, err := bootstrap.Load(ctx, f.config)
	if err != nil {
		return err
	}
	defer app.Close()

	sess := app.Streams.Open(stream.SessionConfig{
		Voice:      f.voice,
		Speed:      f.speed,
		Language:   f.language,
		AutoDetect: f.language == "",
	})

	out := bufio.NewWriter(os.Stdout)
	done := make(chan error, 1)
	go func() {
		for c := range sess.Chunks() {
			if _, err := out.Write(audio.EncodeWAV(c.Samples)); err != nil {
				done <- err
				return
			}
			out.Flush()
		}
		done <- nil
	}()

	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		if err := sess.Append(ctx, scanner.Text()+"\n"); err != nil {
			sess.Cancel()
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		sess.Cancel()
		return err
	}
	if err := sess.End(ctx); err != nil {
		return err
	}
	return <-done
}

// writeWAV saves samples as 16-bit PCM through the go-audio encoder.
func writeWAV(path string, samples []float32) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	pcm := audio.FloatToPCM16(samples)
	data := make([]int, len(pcm))
	for i, s := range pcm {
		data[i] = int(s)
	}

	enc := wav.NewEncoder(file, audio.SampleRate, 16, 1, 1)
	err = enc.Write(&goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: 1, SampleRate: audio.SampleRate},
		Data:           data,
		SourceBitDepth: 16,
	})
	if err != nil {
		enc.Close()
		return err
	}
	return enc.Close()
}
