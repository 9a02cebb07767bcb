package audio

import (
	"bytes"
	"encoding/binary"
	"io"
	"math"
	"path/filepath"
	"testing"

	gomp3 "github.com/hajimehoshi/go-mp3"
)

func sineWave(freq float64, n int) []float32 {
	out := make([]float32, n)
	for i := range out {
		out[i] = float32(0.5 * math.Sin(2*math.Pi*freq*float64(i)/SampleRate))
	}
	return out
}

func TestFloatToPCM16_Clamps(t *testing.T) {
	pcm := FloatToPCM16([]float32{0, 0.5, 1.5, -1.5})
	if pcm[0] != 0 {
		t.Errorf("pcm[0] = %d, want 0", pcm[0])
	}
	if pcm[2] != 32767 {
		t.Errorf("pcm[2] = %d, want 32767 (clamped)", pcm[2])
	}
	if pcm[3] != -32767 {
		t.Errorf("pcm[3] = %d, want -32767 (clamped)", pcm[3])
	}
}

func TestDurationMs(t *testing.T) {
	if got := DurationMs(SampleRate); got != 1000 {
		t.Errorf("one second of samples = %dms, want 1000", got)
	}
	if got := DurationMs(SampleRate / 2); got != 500 {
		t.Errorf("half second of samples = %dms, want 500", got)
	}
}

func TestSilenceSamples(t *testing.T) {
	if got := SilenceSamples(250); got != SampleRate/4 {
		t.Errorf("250ms = %d samples, want %d", got, SampleRate/4)
	}
	if got := SilenceSamples(-10); got != 0 {
		t.Errorf("negative ms = %d samples, want 0", got)
	}
}

func TestEncodeWAV_Header(t *testing.T) {
	samples := sineWave(440, SampleRate/10)
	data := EncodeWAV(samples)

	if len(data) != 44+len(samples)*2 {
		t.Fatalf("wav size = %d, want %d", len(data), 44+len(samples)*2)
	}
	if string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		t.Fatal("missing RIFF/WAVE markers")
	}
	if rate := binary.LittleEndian.Uint32(data[24:28]); rate != SampleRate {
		t.Errorf("sample rate = %d, want %d", rate, SampleRate)
	}
	if channels := binary.LittleEndian.Uint16(data[22:24]); channels != 1 {
		t.Errorf("channels = %d, want 1", channels)
	}
	if bits := binary.LittleEndian.Uint16(data[34:36]); bits != 16 {
		t.Errorf("bits per sample = %d, want 16", bits)
	}
	if dataLen := binary.LittleEndian.Uint32(data[40:44]); int(dataLen) != len(samples)*2 {
		t.Errorf("data length = %d, want %d", dataLen, len(samples)*2)
	}
}

func TestWriteAndReadWAVFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tone.wav")
	samples := sineWave(220, SampleRate/20)

	if err := WriteWAVFile(path, samples); err != nil {
		t.Fatalf("write wav: %v", err)
	}
	back, err := ReadWAVFile(path)
	if err != nil {
		t.Fatalf("read wav: %v", err)
	}
	if len(back) != len(samples) {
		t.Fatalf("round trip length = %d, want %d", len(back), len(samples))
	}
	for i := range samples {
		if diff := math.Abs(float64(samples[i] - back[i])); diff > 1.0/32000 {
			t.Fatalf("sample %d drifted by %f", i, diff)
		}
	}
}

func TestEncodeMP3_Decodable(t *testing.T) {
	samples := sineWave(440, SampleRate/2)

	data, err := EncodeMP3(samples)
	if err != nil {
		t.Fatalf("encode mp3: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("empty mp3 output")
	}

	decoder, err := gomp3.NewDecoder(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode mp3: %v", err)
	}
	if decoder.SampleRate() != SampleRate {
		t.Errorf("decoded sample rate = %d, want %d", decoder.SampleRate(), SampleRate)
	}
	decoded, err := io.ReadAll(decoder)
	if err != nil {
		t.Fatalf("read decoded stream: %v", err)
	}
	if len(decoded) == 0 {
		t.Fatal("decoded stream is empty")
	}
}
