package facepp

import (
	"bytes"
	"context"
	"encoding/base64"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, x%h, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestNormalizeImage_DownscalesToJPEG(t *testing.T) {
	t.Parallel()
	out, err := NormalizeImage(pngBytes(t, 3840, 1000))
	require.NoError(t, err)

	cfg, err := jpeg.DecodeConfig(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 1920, cfg.Width)
	assert.Equal(t, 500, cfg.Height)
}

func TestNormalizeImage_KeepsSmallImages(t *testing.T) {
	t.Parallel()
	out, err := NormalizeImage(pngBytes(t, 40, 30))
	require.NoError(t, err)

	cfg, err := jpeg.DecodeConfig(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 40, cfg.Width)
	assert.Equal(t, 30, cfg.Height)
}

func TestNormalizeImage_RejectsGarbage(t *testing.T) {
	t.Parallel()
	_, err := NormalizeImage([]byte("definitely not an image"))
	assert.ErrorIs(t, err, ErrUnsupportedImage)

	_, err = NormalizeImage(nil)
	assert.ErrorIs(t, err, ErrUnsupportedImage)
}

func TestCompare_PostsFormAndReturnsConfidence(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "key", r.PostForm.Get("api_key"))
		assert.Equal(t, "secret", r.PostForm.Get("api_secret"))
		for _, field := range []string{"image_base64_1", "image_base64_2"} {
			raw, err := base64.StdEncoding.DecodeString(r.PostForm.Get(field))
			require.NoError(t, err)
			_, err = jpeg.DecodeConfig(bytes.NewReader(raw))
			assert.NoError(t, err, "%s should be a jpeg", field)
		}
		_, _ = w.Write([]byte(`{"confidence": 87.4, "request_id": "x"}`))
	}))
	defer srv.Close()

	c := New(Config{APIKey: "key", APISecret: "secret", CompareURL: srv.URL})
	got, err := c.Compare(context.Background(), pngBytes(t, 64, 64), pngBytes(t, 64, 64))
	require.NoError(t, err)
	assert.InDelta(t, 87.4, got, 0.001)
}

func TestCompare_ErrorMessage(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error_message": "INVALID_IMAGE_SIZE: image_base64_1"}`))
	}))
	defer srv.Close()

	c := New(Config{APIKey: "key", APISecret: "secret", CompareURL: srv.URL})
	_, err := c.Compare(context.Background(), pngBytes(t, 8, 8), pngBytes(t, 8, 8))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "INVALID_IMAGE_SIZE")
}

func TestCompare_NoFaceIsZero(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"faces1": [], "faces2": []}`))
	}))
	defer srv.Close()

	c := New(Config{APIKey: "key", APISecret: "secret", CompareURL: srv.URL})
	got, err := c.Compare(context.Background(), pngBytes(t, 8, 8), pngBytes(t, 8, 8))
	require.NoError(t, err)
	assert.Zero(t, got)
}
