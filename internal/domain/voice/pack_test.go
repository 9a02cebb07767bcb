package voice

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	platformerrors "kokorod/internal/platform/errors"
)

func constTensor(value float32) []float32 {
	t := make([]float32, TensorLen)
	for i := range t {
		t[i] = value
	}
	return t
}

// rowTensor fills each row with its row index so tests can verify
// which row was selected.
func rowTensor() []float32 {
	t := make([]float32, TensorLen)
	for row := 0; row < StyleRows; row++ {
		for col := 0; col < StyleDim; col++ {
			t[row*StyleDim+col] = float32(row)
		}
	}
	return t
}

func writeTestPack(t *testing.T, name string, tensors map[string][]float32) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := WritePackFile(path, tensors); err != nil {
		t.Fatalf("write pack: %v", err)
	}
	return path
}

func TestLoadPack_RoundTrip(t *testing.T) {
	tensors := map[string][]float32{
		"af_heart": constTensor(1),
		"bm_lewis": constTensor(2),
		"zf_xiaoxiao": constTensor(3),
	}
	path := writeTestPack(t, "voices.bin", tensors)

	pack, err := LoadPack(path)
	if err != nil {
		t.Fatalf("load pack: %v", err)
	}
	if pack.Count() != 3 {
		t.Fatalf("count = %d, want 3", pack.Count())
	}

	ids := pack.List()
	want := []string{"af_heart", "bm_lewis", "zf_xiaoxiao"}
	for i, id := range want {
		if ids[i] != id {
			t.Errorf("ids[%d] = %s, want %s", i, ids[i], id)
		}
	}

	v, err := pack.Get("af_heart")
	if err != nil {
		t.Fatalf("get af_heart: %v", err)
	}
	if v.Language != "en-us" || v.Gender != "female" {
		t.Errorf("af_heart metadata = %s/%s, want en-us/female", v.Language, v.Gender)
	}
	if got := v.Style.Row(10)[0]; got != 1 {
		t.Errorf("af_heart row value = %f, want 1", got)
	}

	v, err = pack.Get("bm_lewis")
	if err != nil {
		t.Fatalf("get bm_lewis: %v", err)
	}
	if v.Language != "en-gb" || v.Gender != "male" {
		t.Errorf("bm_lewis metadata = %s/%s, want en-gb/male", v.Language, v.Gender)
	}
}

func TestLoadPack_Gzip(t *testing.T) {
	path := writeTestPack(t, "voices.bin.gz", map[string][]float32{
		"jf_alpha": constTensor(7),
	})

	pack, err := LoadPack(path)
	if err != nil {
		t.Fatalf("load gzip pack: %v", err)
	}
	v, err := pack.Get("jf_alpha")
	if err != nil {
		t.Fatalf("get jf_alpha: %v", err)
	}
	if v.Language != "ja" {
		t.Errorf("language = %s, want ja", v.Language)
	}
	if got := v.Style.Row(1)[0]; got != 7 {
		t.Errorf("row value = %f, want 7", got)
	}
}

func TestLoadPack_UnknownVoice(t *testing.T) {
	path := writeTestPack(t, "voices.bin", map[string][]float32{
		"af_heart": constTensor(1),
	})
	pack, err := LoadPack(path)
	if err != nil {
		t.Fatalf("load pack: %v", err)
	}

	_, err = pack.Get("xx_missing")
	if !platformerrors.IsKind(err, platformerrors.KindUnknownVoice) {
		t.Fatalf("err = %v, want unknown_voice", err)
	}
	if pack.UnknownHits() != 1 {
		t.Errorf("unknown hits = %d, want 1", pack.UnknownHits())
	}
}

func TestLoadPack_Corrupt(t *testing.T) {
	good := func(t *testing.T) []byte {
		t.Helper()
		var buf bytes.Buffer
		if err := WritePack(&buf, map[string][]float32{"af_heart": constTensor(1)}); err != nil {
			t.Fatalf("write pack: %v", err)
		}
		return buf.Bytes()
	}

	tests := []struct {
		name     string
		mangle   func([]byte) []byte
		wantKind platformerrors.Kind
	}{
		{
			name:     "bad magic",
			mangle:   func(b []byte) []byte { b[0] = 'X'; return b },
			wantKind: platformerrors.KindPackCorrupt,
		},
		{
			name: "future version",
			mangle: func(b []byte) []byte {
				binary.LittleEndian.PutUint16(b[4:6], 2)
				return b
			},
			wantKind: platformerrors.KindPackUnknownVersion,
		},
		{
			name:     "truncated blob",
			mangle:   func(b []byte) []byte { return b[:len(b)-100] },
			wantKind: platformerrors.KindPackCorrupt,
		},
		{
			name:     "short header",
			mangle:   func(b []byte) []byte { return b[:6] },
			wantKind: platformerrors.KindPackCorrupt,
		},
		{
			name: "offset near uint64 max",
			mangle: func(b []byte) []byte {
				// offset field sits after nameLen(2)+name(8)
				binary.LittleEndian.PutUint64(b[10+2+8:], ^uint64(0)-tensorBytes+1)
				return b
			},
			wantKind: platformerrors.KindPackCorrupt,
		},
		{
			name: "wrong tensor length",
			mangle: func(b []byte) []byte {
				// length field sits after nameLen(2)+name(8)+offset(8)
				binary.LittleEndian.PutUint64(b[10+2+8+8:], 100)
				return b
			},
			wantKind: platformerrors.KindPackCorrupt,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "bad.bin")
			if err := os.WriteFile(path, tt.mangle(good(t)), 0o644); err != nil {
				t.Fatalf("write mangled pack: %v", err)
			}
			_, err := LoadPack(path)
			if !platformerrors.IsKind(err, tt.wantKind) {
				t.Fatalf("err = %v, want kind %s", err, tt.wantKind)
			}
		})
	}
}

func TestStyle_RowSelection(t *testing.T) {
	style := NewStyle(rowTensor())

	tests := []struct {
		tokens  int
		wantRow float32
	}{
		{1, 0},
		{2, 1},
		{510, 509},
		{0, 0},    // clamps low
		{600, 509}, // clamps high
	}
	for _, tt := range tests {
		if got := style.Row(tt.tokens)[0]; got != tt.wantRow {
			t.Errorf("Row(%d) = row %f, want %f", tt.tokens, got, tt.wantRow)
		}
	}
	if got := len(style.Row(5)); got != StyleDim {
		t.Errorf("row width = %d, want %d", got, StyleDim)
	}
}

func TestDefaultVoiceFor(t *testing.T) {
	tests := []struct {
		lang string
		want string
	}{
		{"en-us", "af_heart"},
		{"en-gb", "bf_emma"},
		{"zh", "zf_xiaoxiao"},
		{"ja", "jf_alpha"},
		{"fr", "ff_siwis"},
		{"sw", FallbackVoice},
	}
	for _, tt := range tests {
		if got := DefaultVoiceFor(tt.lang); got != tt.want {
			t.Errorf("DefaultVoiceFor(%s) = %s, want %s", tt.lang, got, tt.want)
		}
	}
}
