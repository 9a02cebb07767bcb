package ws

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"kokorod/internal/domain/registry"
	"kokorod/internal/domain/stream"
	"kokorod/internal/domain/synth"
	"kokorod/internal/domain/voice"
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

func (fakeVariants) Has(registry.Variant) bool { return false }

func dialTestServer(t *testing.T) *websocket.Conn {
	t.Helper()

	path := filepath.Join(t.TempDir(), "voices.bin")
	tensor := make([]float32, voice.TensorLen)
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

	logger := platformtesting.SetupTestLogger(t).Slog()
	engine := synth.NewEngine(resolver, fakePhonemizer{}, fakeDriver{}, fakeVariants{}, synth.Options{
		DefaultVoice: "af_heart",
		DefaultSpeed: 1.0,
	}, logger)
	mgr := stream.NewManager(engine, stream.Options{}, logger)
	t.Cleanup(mgr.Shutdown)

	hub := NewHub(logger)
	router := NewRouter(hub, logger, RouterOptions{})
	router.SetHandlerBuilder(NewHandlerBuilder(engine, mgr, Options{DefaultVoice: "af_heart"}, logger))

	srv := httptest.NewServer(http.HandlerFunc(router.Handle))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	conn.SetReadDeadline(time.Now().Add(10 * time.Second))
	return conn
}

func send(t *testing.T, conn *websocket.Conn, msg string) {
	t.Helper()
	if err := conn.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func readEvent(t *testing.T, conn *websocket.Conn) map[string]interface{} {
	t.Helper()
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var event map[string]interface{}
	if err := json.Unmarshal(data, &event); err != nil {
		t.Fatalf("decode %q: %v", data, err)
	}
	return event
}

func eventType(e map[string]interface{}) string {
	s, _ := e["type"].(string)
	return s
}

func TestWS_ListVoices(t *testing.T) {
	conn := dialTestServer(t)

	send(t, conn, `{"command": "list_voices"}`)
	event := readEvent(t, conn)
	if eventType(event) != "voices" {
		t.Fatalf("event = %v", event)
	}
	voices, _ := event["voices"].([]interface{})
	if len(voices) != 3 {
		t.Errorf("voices = %v", voices)
	}
}

func TestWS_Settings(t *testing.T) {
	conn := dialTestServer(t)

	send(t, conn, `{"command": "set_voice", "voice": "af_sky"}`)
	if e := readEvent(t, conn); eventType(e) != "voice_changed" || e["voice"] != "af_sky" {
		t.Errorf("set_voice event = %v", e)
	}

	send(t, conn, `{"command": "set_voice", "voice": "af_nope"}`)
	if e := readEvent(t, conn); eventType(e) != "error" {
		t.Errorf("unknown voice event = %v", e)
	}

	send(t, conn, `{"command": "set_language", "language": "ja"}`)
	if e := readEvent(t, conn); eventType(e) != "language_changed" || e["language"] != "ja" {
		t.Errorf("set_language event = %v", e)
	}

	send(t, conn, `{"command": "set_speed", "speed": 5.0}`)
	if e := readEvent(t, conn); eventType(e) != "speed_changed" || e["speed"].(float64) != 3.0 {
		t.Errorf("set_speed event = %v (speed must clamp to 3.0)", e)
	}

	send(t, conn, `{"command": "set_auto_detect", "auto_detect": false}`)
	if e := readEvent(t, conn); eventType(e) != "auto_detect_changed" || e["enabled"] != false {
		t.Errorf("set_auto_detect event = %v", e)
	}

	send(t, conn, `{"command": "bogus"}`)
	if e := readEvent(t, conn); eventType(e) != "error" {
		t.Errorf("unknown command event = %v", e)
	}
}

func TestWS_Synthesize(t *testing.T) {
	conn := dialTestServer(t)

	send(t, conn, `{"command": "synthesize", "text": "Hello, world!"}`)

	event := readEvent(t, conn)
	if eventType(event) != "synthesis_started" {
		t.Fatalf("first event = %v", event)
	}

	var chunks int
	for {
		event = readEvent(t, conn)
		switch eventType(event) {
		case "audio_chunk":
			if int(event["index"].(float64)) != chunks {
				t.Errorf("chunk index = %v, want %d", event["index"], chunks)
			}
			data, err := base64.StdEncoding.DecodeString(event["chunk"].(string))
			if err != nil || len(data) < 44 || string(data[:4]) != "RIFF" {
				t.Errorf("chunk %d is not base64 WAV", chunks)
			}
			if event["sample_rate"].(float64) != 24000 {
				t.Errorf("sample_rate = %v", event["sample_rate"])
			}
			chunks++
		case "synthesis_completed":
			if int(event["chunks"].(float64)) != chunks {
				t.Errorf("completed reports %v chunks, got %d", event["chunks"], chunks)
			}
			if chunks == 0 {
				t.Error("no audio chunks before completion")
			}
			return
		default:
			t.Fatalf("unexpected event %v", event)
		}
	}
}

func TestWS_StreamRoundTrip(t *testing.T) {
	conn := dialTestServer(t)

	send(t, conn, `{"command": "stream_start"}`)
	event := readEvent(t, conn)
	if eventType(event) != "stream_started" {
		t.Fatalf("first event = %v", event)
	}
	id := event["stream_id"].(string)

	appends := []string{
		"This is sentence number one. ",
		"Sentence number two follows it. ",
		"And sentence number three finishes. ",
	}
	for _, text := range appends {
		msg, _ := json.Marshal(map[string]string{"command": "stream_append", "stream_id": id, "text": text})
		send(t, conn, string(msg))
	}
	msg, _ := json.Marshal(map[string]string{"command": "stream_end", "stream_id": id})
	send(t, conn, string(msg))

	var chunks int
	for {
		event = readEvent(t, conn)
		switch eventType(event) {
		case "stream_chunk":
			if event["stream_id"] != id {
				t.Errorf("chunk for stream %v, want %s", event["stream_id"], id)
			}
			if int(event["index"].(float64)) != chunks {
				t.Errorf("chunk index = %v, want %d", event["index"], chunks)
			}
			chunks++
		case "stream_ended":
			if chunks != len(appends) {
				t.Errorf("got %d chunks, want %d", chunks, len(appends))
			}
			if int(event["total_chunks"].(float64)) != chunks {
				t.Errorf("total_chunks = %v, got %d", event["total_chunks"], chunks)
			}
			return
		default:
			t.Fatalf("unexpected event %v", event)
		}
	}
}

func TestWS_StreamCancel(t *testing.T) {
	conn := dialTestServer(t)

	send(t, conn, `{"command": "stream_start"}`)
	event := readEvent(t, conn)
	id := event["stream_id"].(string)

	msg, _ := json.Marshal(map[string]string{"command": "stream_cancel", "stream_id": id})
	send(t, conn, string(msg))

	// Everything until the cancellation ack must belong to this stream;
	// nothing stream-related may follow it.
	for {
		event = readEvent(t, conn)
		if eventType(event) == "stream_cancelled" {
			break
		}
		if eventType(event) != "stream_chunk" {
			t.Fatalf("unexpected event %v", event)
		}
	}

	send(t, conn, `{"command": "list_voices"}`)
	if e := readEvent(t, conn); eventType(e) != "voices" {
		t.Errorf("event after cancel = %v, want voices only", e)
	}

	// operations on the cancelled stream fail
	msg, _ = json.Marshal(map[string]string{"command": "stream_append", "stream_id": id, "text": "more."})
	send(t, conn, string(msg))
	if e := readEvent(t, conn); eventType(e) != "error" {
		t.Errorf("append after cancel = %v, want error", e)
	}
}
