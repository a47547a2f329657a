package fetch

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"
)

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 2, 2))); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestClient_Fetch(t *testing.T) {
	body := pngBytes(t)
	var gotUserAgent string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserAgent = r.Header.Get("User-Agent")
		w.Write(body)
	}))
	defer srv.Close()

	img, err := NewClient().Fetch(context.Background(), srv.URL+"/photo.png")
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if img.Bounds().Dx() != 2 || img.Bounds().Dy() != 2 {
		t.Errorf("decoded size = %dx%d, want 2x2", img.Bounds().Dx(), img.Bounds().Dy())
	}
	if gotUserAgent == "" {
		t.Error("request had no User-Agent header")
	}
}

func TestClient_FetchNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	if _, err := NewClient().Fetch(context.Background(), srv.URL+"/photo.png"); err == nil {
		t.Error("Fetch() on 404: expected error")
	}
}

func TestClient_FetchUndecodableBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>not an image</html>"))
	}))
	defer srv.Close()

	if _, err := NewClient().Fetch(context.Background(), srv.URL+"/photo.png"); err == nil {
		t.Error("Fetch() on non-image body: expected error")
	}
}

func TestClient_FetchCancelledContext(t *testing.T) {
	body := pngBytes(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(body)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := NewClient().Fetch(ctx, srv.URL+"/photo.png"); err == nil {
		t.Error("Fetch() with cancelled context: expected error")
	}
}
