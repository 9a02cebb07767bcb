package httptransport

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	openai "github.com/sashabaranov/go-openai"

	"kokorod/internal/domain/registry"
	"kokorod/internal/domain/synth"
	"kokorod/internal/domain/voice"
	platformerrors "kokorod/internal/platform/errors"
	platformtesting "kokorod/internal/platform/testing"
)

type fakePhonemizer struct{}

func (fakePhonemizer) Phonemize(_ context.Context, _, s string) (string, error) {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || r == ' ' {
			b.WriteRune(r)
		}
	}
	return b.String(), nil
}

type fakeDriver struct{}

func (fakeDriver) Synthesize(_ context.Context, _ registry.Variant, tokens []int64, _ []float32, _ float32) ([]float32, error) {
	return make([]float32, len(tokens)*100), nil
}

type fakeVariants struct{}

func (fakeVariants) Active() registry.Variant { return registry.VariantStandard }

func (fakeVariants) Has(v registry.Variant) bool { return v == registry.VariantStandard }

func (fakeVariants) Variants() []registry.Variant {
	return []registry.Variant{registry.VariantStandard}
}

func testServer(t *testing.T) (*httptest.Server, *Service) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	path := filepath.Join(t.TempDir(), "voices.bin")
	tensor := make([]float32, voice.TensorLen)
	for i := range tensor {
		tensor[i] = 0.5
	}
	err := voice.WritePackFile(path, map[string][]float32{
		"af_heart":  tensor,
		"af_sky":    tensor,
		"af_nicole": tensor,
	})
	if err != nil {
		t.Fatalf("write pack: %v", err)
	}
	pack, err := voice.LoadPack(path)
	if err != nil {
		t.Fatalf("load pack: %v", err)
	}
	resolver, err := voice.NewResolver(pack, 8)
	if err != nil {
		t.Fatalf("new resolver: %v", err)
	}

	cfg := platformtesting.SetupTestConfig(t)
	logger := platformtesting.SetupTestLogger(t)
	engine := synth.NewEngine(resolver, fakePhonemizer{}, fakeDriver{}, fakeVariants{}, synth.Options{
		DefaultVoice: "af_heart",
		DefaultSpeed: 1.0,
	}, logger.Slog())

	svc, err := NewService(cfg, engine, fakeVariants{}, nil, nil, logger.Slog())
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	router, err := BuildRouter(RouterOptions{Config: cfg, Logger: logger.Slog()})
	if err != nil {
		t.Fatalf("build router: %v", err)
	}
	svc.Register(router)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv, svc
}

func TestSpeech_OpenAIClient(t *testing.T) {
	srv, _ := testServer(t)

	cfg := openai.DefaultConfig("unused")
	cfg.BaseURL = srv.URL + "/v1"
	client := openai.NewClientWithConfig(cfg)

	res, err := client.CreateSpeech(context.Background(), openai.CreateSpeechRequest{
		Model: openai.TTSModel1,
		Input: "Hello, world!",
		Voice: openai.SpeechVoice("af_heart"),
	})
	if err != nil {
		t.Fatalf("create speech: %v", err)
	}
	defer res.Close()

	data, err := io.ReadAll(res)
	if err != nil {
		t.Fatalf("read audio: %v", err)
	}
	if len(data) < 44 || string(data[:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		t.Errorf("response is not a WAV file (%d bytes)", len(data))
	}
}

func TestSpeech_MixExpression(t *testing.T) {
	srv, _ := testServer(t)

	body := `{"input": "Testing mixes.", "voice": "af_sky*0.4+af_nicole*0.6"}`
	resp, err := http.Post(srv.URL+"/v1/audio/speech", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "audio/wav" {
		t.Errorf("content type = %q", ct)
	}
}

func TestSpeech_MP3Format(t *testing.T) {
	srv, _ := testServer(t)

	body := `{"input": "Testing the encoder.", "response_format": "mp3"}`
	resp, err := http.Post(srv.URL+"/v1/audio/speech", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "audio/mpeg" {
		t.Errorf("content type = %q", ct)
	}
	data, _ := io.ReadAll(resp.Body)
	if len(data) == 0 || data[0] != 0xFF {
		t.Errorf("response does not start with an MP3 frame sync (%d bytes)", len(data))
	}
}

func TestSpeech_ErrorMapping(t *testing.T) {
	srv, _ := testServer(t)

	tests := []struct {
		name string
		body string
		want int
	}{
		{"missing input", `{}`, http.StatusBadRequest},
		{"empty input", `{"input": "   "}`, http.StatusBadRequest},
		{"unknown voice", `{"input": "Hello there friend.", "voice": "af_nope"}`, http.StatusBadRequest},
		{"bad mix", `{"input": "Hello there friend.", "voice": "af_sky**2"}`, http.StatusBadRequest},
		{"bad format", `{"input": "Hello there friend.", "response_format": "ogg"}`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		resp, err := http.Post(srv.URL+"/v1/audio/speech", "application/json", strings.NewReader(tt.body))
		if err != nil {
			t.Fatalf("%s: %v", tt.name, err)
		}
		resp.Body.Close()
		if resp.StatusCode != tt.want {
			t.Errorf("%s: status = %d, want %d", tt.name, resp.StatusCode, tt.want)
		}
	}
}

func TestStatusForError(t *testing.T) {
	tests := []struct {
		kind platformerrors.Kind
		want int
	}{
		{platformerrors.KindBadInput, http.StatusBadRequest},
		{platformerrors.KindUnknownVoice, http.StatusBadRequest},
		{platformerrors.KindBadMixSyntax, http.StatusBadRequest},
		{platformerrors.KindResourceMissing, http.StatusNotFound},
		{platformerrors.KindSessionNotFound, http.StatusNotFound},
		{platformerrors.KindBackpressure, http.StatusTooManyRequests},
		{platformerrors.KindInferenceFailed, http.StatusInternalServerError},
		{platformerrors.KindInternal, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		err := platformerrors.New(tt.kind, "test", "boom")
		if got := StatusForError(err); got != tt.want {
			t.Errorf("StatusForError(%s) = %d, want %d", tt.kind, got, tt.want)
		}
	}
}

func TestVoices_List(t *testing.T) {
	srv, _ := testServer(t)

	resp, err := http.Get(srv.URL + "/v1/audio/voices")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()

	var payload struct {
		Voices []string `json:"voices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(payload.Voices) != 3 {
		t.Errorf("voices = %v", payload.Voices)
	}
}

func TestVoices_Detailed(t *testing.T) {
	srv, _ := testServer(t)

	resp, err := http.Get(srv.URL + "/v1/audio/voices/detailed")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()

	var details []voiceDetail
	if err := json.NewDecoder(resp.Body).Decode(&details); err != nil {
		t.Fatalf("decode: %v", err)
	}
	for _, d := range details {
		if d.Language != "en-us" || d.Gender != "female" {
			t.Errorf("voice %s metadata = %s/%s", d.ID, d.Language, d.Gender)
		}
	}
}

func TestHealthAndReadiness(t *testing.T) {
	srv, svc := testServer(t)

	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatalf("healthz: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("healthz status = %d", resp.StatusCode)
	}

	resp, err = http.Get(srv.URL + "/readyz")
	if err != nil {
		t.Fatalf("readyz: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("readyz before ready: status = %d", resp.StatusCode)
	}

	svc.SetReady(true)
	resp, err = http.Get(srv.URL + "/readyz")
	if err != nil {
		t.Fatalf("readyz: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("readyz after ready: status = %d", resp.StatusCode)
	}
}

func TestStatus_Endpoint(t *testing.T) {
	srv, _ := testServer(t)

	resp, err := http.Get(srv.URL + "/api/status")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()

	var payload APIResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !payload.Success {
		t.Errorf("status endpoint failed: %s", payload.Message)
	}
	data, _ := json.Marshal(payload.Data)
	if !bytes.Contains(data, []byte(`"active_variant":"standard"`)) {
		t.Errorf("status payload missing variant: %s", data)
	}
}

func TestUsageRecent_StorageDisabled(t *testing.T) {
	srv, _ := testServer(t)

	resp, err := http.Get(srv.URL + "/api/usage/recent")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d", resp.StatusCode)
	}
}

func TestOpenAPI_Document(t *testing.T) {
	srv, _ := testServer(t)

	resp, err := http.Get(srv.URL + "/openapi.json")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()

	data, _ := io.ReadAll(resp.Body)
	if !json.Valid(data) {
		t.Fatal("openapi document is not valid JSON")
	}
	if !bytes.Contains(data, []byte("/v1/audio/speech")) {
		t.Error("document does not describe the speech endpoint")
	}
}
