package voice

import (
	"math"
	"testing"

	platformerrors "kokorod/internal/platform/errors"
)

func testResolver(t *testing.T) *Resolver {
	t.Helper()
	path := writeTestPack(t, "voices.bin", map[string][]float32{
		"af_sky":    constTensor(1),
		"af_nicole": constTensor(3),
		"am_liam":   constTensor(5),
	})
	pack, err := LoadPack(path)
	if err != nil {
		t.Fatalf("load pack: %v", err)
	}
	resolver, err := NewResolver(pack, 8)
	if err != nil {
		t.Fatalf("new resolver: %v", err)
	}
	return resolver
}

func TestResolver_BareVoiceSharesTensor(t *testing.T) {
	r := testResolver(t)

	style, err := r.Resolve("af_sky")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	v, _ := r.Pack().Get("af_sky")
	if &style.Data()[0] != &v.Style.Data()[0] {
		t.Error("bare voice should share the pack tensor")
	}
}

func TestResolver_WeightedSum(t *testing.T) {
	r := testResolver(t)

	tests := []struct {
		expr string
		want float64
	}{
		{"af_sky*0.4+af_nicole*0.6", 0.4*1 + 0.6*3},
		{"af_sky+af_nicole", 1 + 3},
		{"af_sky*2", 2},
		{"af_nicole-af_sky", 3 - 1},
		{"am_liam*0.5-af_sky*0.25", 5*0.5 - 1*0.25},
		{" af_sky * 0.4 + af_nicole * 0.6 ", 0.4*1 + 0.6*3},
		{"af_sky*.5", 0.5},
	}
	for _, tt := range tests {
		style, err := r.Resolve(tt.expr)
		if err != nil {
			t.Errorf("resolve %q: %v", tt.expr, err)
			continue
		}
		got := float64(style.Row(10)[0])
		if math.Abs(got-tt.want) > 1e-5 {
			t.Errorf("resolve %q = %f, want %f", tt.expr, got, tt.want)
		}
	}
}

func TestResolver_NoRenormalization(t *testing.T) {
	r := testResolver(t)

	// Weights sum to 2.0 and stay that way.
	style, err := r.Resolve("af_sky+af_sky")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if got := style.Row(1)[0]; got != 2 {
		t.Errorf("doubled voice = %f, want 2 (weights must not renormalize)", got)
	}
}

func TestResolver_Errors(t *testing.T) {
	r := testResolver(t)

	tests := []struct {
		expr     string
		wantKind platformerrors.Kind
	}{
		{"", platformerrors.KindBadMixSyntax},
		{"af_sky+", platformerrors.KindBadMixSyntax},
		{"af_sky**2", platformerrors.KindBadMixSyntax},
		{"af_sky*", platformerrors.KindBadMixSyntax},
		{"af_sky*0", platformerrors.KindBadMixSyntax},
		{"af_sky*-0.5", platformerrors.KindBadMixSyntax},
		{"af_sky/2", platformerrors.KindBadMixSyntax},
		{"+af_sky", platformerrors.KindBadMixSyntax},
		{"xx_ghost", platformerrors.KindUnknownVoice},
		{"af_sky*0.5+xx_ghost*0.5", platformerrors.KindUnknownVoice},
	}
	for _, tt := range tests {
		_, err := r.Resolve(tt.expr)
		if !platformerrors.IsKind(err, tt.wantKind) {
			t.Errorf("resolve %q: err = %v, want kind %s", tt.expr, err, tt.wantKind)
		}
	}
}

func TestResolver_CachesByCanonicalExpression(t *testing.T) {
	r := testResolver(t)

	first, err := r.Resolve("af_sky*0.4+af_nicole*0.6")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	// Same expression with different spacing hits the cache.
	second, err := r.Resolve("af_sky * 0.4 + af_nicole * 0.6")
	if err != nil {
		t.Fatalf("resolve spaced: %v", err)
	}
	if &first.Data()[0] != &second.Data()[0] {
		t.Error("equivalent expressions should share the cached tensor")
	}
	if r.CacheLen() != 1 {
		t.Errorf("cache len = %d, want 1", r.CacheLen())
	}
}
