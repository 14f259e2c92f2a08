package rest

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func bodyServer(t *testing.T, body []byte) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(200)
		w.Write(body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestResponse_MaterializeText(t *testing.T) {
	srv := bodyServer(t, []byte("hello"))
	c := newTestClient(t, Config{})

	resp, err := c.Get(context.Background(), srv.URL, WithMaterialize(MaterializeText))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	text, err := resp.Text()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "hello" {
		t.Errorf("expected hello, got %q", text)
	}

	if _, err := resp.Bytes(); !errors.Is(err, ErrNotMaterialized) {
		t.Errorf("expected ErrNotMaterialized for bytes in text mode, got %v", err)
	}

	// Eager responses need no Close; calling it anyway is harmless.
	if err := resp.Close(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if text, err = resp.Text(); err != nil || text != "hello" {
		t.Errorf("eager text must survive Close, got (%q, %v)", text, err)
	}
}

func TestResponse_MaterializeBinary(t *testing.T) {
	payload := []byte{0x01, 0x02, 0x03}
	srv := bodyServer(t, payload)
	c := newTestClient(t, Config{})

	resp, err := c.Get(context.Background(), srv.URL, WithMaterialize(MaterializeBinary))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := resp.Bytes()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.Equal(data, payload) {
		t.Errorf("expected %v, got %v", payload, data)
	}

	if _, err := resp.Text(); !errors.Is(err, ErrNotMaterialized) {
		t.Errorf("expected ErrNotMaterialized for text in binary mode, got %v", err)
	}
}

func TestResponse_MaterializeBoth(t *testing.T) {
	srv := bodyServer(t, []byte("payload"))
	c := newTestClient(t, Config{})

	resp, err := c.Get(context.Background(), srv.URL, WithMaterialize(MaterializeBoth))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	text, err := resp.Text()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	data, err := resp.Bytes()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != string(data) {
		t.Errorf("text and bytes must agree: %q vs %v", text, data)
	}
}

// Both eagerly equals Text and Binary fetched in separate transactions
// against a server that always answers the same.
func TestResponse_MaterializationIdempotence(t *testing.T) {
	srv := bodyServer(t, []byte("stable body"))
	c := newTestClient(t, Config{})

	both, err := c.Get(context.Background(), srv.URL, WithMaterialize(MaterializeBoth))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	asText, err := c.Get(context.Background(), srv.URL, WithMaterialize(MaterializeText))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	asBinary, err := c.Get(context.Background(), srv.URL, WithMaterialize(MaterializeBinary))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	bothText, _ := both.Text()
	bothData, _ := both.Bytes()
	text, _ := asText.Text()
	data, _ := asBinary.Bytes()

	if bothText != text {
		t.Errorf("both/text mismatch: %q vs %q", bothText, text)
	}
	if !bytes.Equal(bothData, data) {
		t.Errorf("both/binary mismatch: %v vs %v", bothData, data)
	}
}

func TestResponse_Lazy_ReadThenClose(t *testing.T) {
	srv := bodyServer(t, []byte("deferred"))
	c := newTestClient(t, Config{})

	resp, err := c.Get(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	text, err := resp.Text()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "deferred" {
		t.Errorf("expected deferred, got %q", text)
	}

	// The first read serves both producers.
	data, err := resp.Bytes()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(data) != "deferred" {
		t.Errorf("expected identical content from both producers, got %q", data)
	}

	if err := resp.Close(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	// Values read before Close stay available.
	if text, err = resp.Text(); err != nil || text != "deferred" {
		t.Errorf("read-before-Close must survive, got (%q, %v)", text, err)
	}
}

func TestResponse_Lazy_CloseBeforeRead(t *testing.T) {
	srv := bodyServer(t, []byte("never read"))
	c := newTestClient(t, Config{})

	resp, err := c.Get(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := resp.Close(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := resp.Text(); !errors.Is(err, ErrBodyReleased) {
		t.Errorf("expected ErrBodyReleased, got %v", err)
	}
	if _, err := resp.Bytes(); !errors.Is(err, ErrBodyReleased) {
		t.Errorf("expected ErrBodyReleased, got %v", err)
	}

	// Close is idempotent.
	if err := resp.Close(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestResponse_Lazy_WithSink(t *testing.T) {
	srv := bodyServer(t, []byte("drained"))
	c := newTestClient(t, Config{})

	var sink bytes.Buffer
	resp, err := c.Get(context.Background(), srv.URL, WithSink(&sink))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// The sink forces a drain; lazy reads serve from the buffer even
	// after Close.
	if err := resp.Close(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	text, err := resp.Text()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "drained" {
		t.Errorf("expected drained, got %q", text)
	}
	if sink.String() != "drained" {
		t.Errorf("expected sink copy, got %q", sink.String())
	}
}

func TestMaterializeMode_String(t *testing.T) {
	cases := map[MaterializeMode]string{
		MaterializeLazy:     "lazy",
		MaterializeText:     "text",
		MaterializeBinary:   "binary",
		MaterializeBoth:     "both",
		MaterializeMode(99): "unknown",
	}
	for mode, want := range cases {
		if got := mode.String(); got != want {
			t.Errorf("mode %d: expected %q, got %q", int(mode), want, got)
		}
	}
}
