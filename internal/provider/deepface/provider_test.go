package deepface

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProvider(t *testing.T, handler http.HandlerFunc) (*Provider, *httptest.Server) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := DefaultConfig()
	cfg.BaseURL = server.URL
	cfg.Timeout = 2 * time.Second
	cfg.RetryCount = 0

	return NewProvider(cfg), server
}

func TestProvider_DetectFaces(t *testing.T) {
	t.Run("maps facial areas to bounding boxes", func(t *testing.T) {
		prov, _ := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/represent", r.URL.Path)

			var req RepresentRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.NotEmpty(t, req.Img)
			assert.Equal(t, "Facenet512", req.Model)

			resp := RepresentResponse{
				Results: []RepresentResult{
					{
						Embedding:      []float64{0.1, 0.2, 0.3},
						FacialArea:     FacialArea{X: 10, Y: 20, W: 100, H: 120},
						FaceConfidence: 0.97,
					},
				},
			}
			_ = json.NewEncoder(w).Encode(resp)
		})

		faces, err := prov.DetectFaces(context.Background(), []byte("frame-bytes"))
		require.NoError(t, err)
		require.Len(t, faces, 1)

		assert.Equal(t, 10, faces[0].BoundingBox.X1)
		assert.Equal(t, 20, faces[0].BoundingBox.Y1)
		assert.Equal(t, 110, faces[0].BoundingBox.X2)
		assert.Equal(t, 140, faces[0].BoundingBox.Y2)
		assert.Equal(t, 100, faces[0].BoundingBox.Width())
		assert.Equal(t, 120, faces[0].BoundingBox.Height())
		assert.Equal(t, []float64{0.1, 0.2, 0.3}, faces[0].Embedding)
		assert.Equal(t, 0.97, faces[0].Confidence)
	})

	t.Run("zero faces yields empty slice, not error", func(t *testing.T) {
		prov, _ := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(RepresentResponse{Results: []RepresentResult{}})
		})

		faces, err := prov.DetectFaces(context.Background(), []byte("frame-bytes"))
		require.NoError(t, err)
		assert.Empty(t, faces)
	})

	t.Run("missing face_confidence falls back to area estimate", func(t *testing.T) {
		prov, _ := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
			resp := RepresentResponse{
				Results: []RepresentResult{
					{
						Embedding:  []float64{0.5},
						FacialArea: FacialArea{X: 0, Y: 0, W: 500, H: 500},
					},
				},
			}
			_ = json.NewEncoder(w).Encode(resp)
		})

		faces, err := prov.DetectFaces(context.Background(), []byte("frame-bytes"))
		require.NoError(t, err)
		require.Len(t, faces, 1)
		assert.InDelta(t, 0.99, faces[0].Confidence, 0.001)
	})

	t.Run("server error surfaces", func(t *testing.T) {
		prov, _ := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "model not loaded", http.StatusInternalServerError)
		})

		_, err := prov.DetectFaces(context.Background(), []byte("frame-bytes"))
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrDeepFaceUnavailable)
	})
}

func TestClient_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			http.Error(w, "warming up", http.StatusServiceUnavailable)
			return
		}
		_ = json.NewEncoder(w).Encode(RepresentResponse{
			Results: []RepresentResult{{Embedding: []float64{1}, FaceConfidence: 0.9}},
		})
	}))
	defer server.Close()

	cfg := DefaultConfig()
	cfg.BaseURL = server.URL
	cfg.RetryCount = 1

	client := NewClient(cfg)
	resp, err := client.Represent(context.Background(), "aW1n")
	require.NoError(t, err)
	assert.Len(t, resp.Results, 1)
	assert.Equal(t, int32(2), calls.Load())
}

func TestClient_DoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "bad image", http.StatusBadRequest)
	}))
	defer server.Close()

	cfg := DefaultConfig()
	cfg.BaseURL = server.URL
	cfg.RetryCount = 3

	client := NewClient(cfg)
	_, err := client.Represent(context.Background(), "aW1n")
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestCalculateBackoff(t *testing.T) {
	assert.Equal(t, time.Second, calculateBackoff(0))
	assert.Equal(t, time.Second, calculateBackoff(1))
	assert.Equal(t, 2*time.Second, calculateBackoff(2))
	assert.Equal(t, 4*time.Second, calculateBackoff(3))
}
