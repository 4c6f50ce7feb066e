package mock

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saturnino-fabrica-de-software/facegate/internal/domain"
)

func TestDetector_DetectFaces(t *testing.T) {
	detector := New()

	faces, err := detector.DetectFaces(context.Background(), []byte("frame-a"))
	require.NoError(t, err)
	require.Len(t, faces, 1)

	assert.Len(t, faces[0].Embedding, embeddingDimension)
	assert.Equal(t, 0.99, faces[0].Confidence)
	assert.Positive(t, faces[0].BoundingBox.Width())
	assert.Positive(t, faces[0].BoundingBox.Height())
}

func TestDetector_Deterministic(t *testing.T) {
	detector := New()

	first, err := detector.DetectFaces(context.Background(), []byte("same-frame"))
	require.NoError(t, err)

	second, err := detector.DetectFaces(context.Background(), []byte("same-frame"))
	require.NoError(t, err)

	assert.Equal(t, first[0].Embedding, second[0].Embedding)

	other, err := detector.DetectFaces(context.Background(), []byte("different-frame"))
	require.NoError(t, err)
	assert.NotEqual(t, first[0].Embedding, other[0].Embedding)
}

func TestDetector_EmptyFrame(t *testing.T) {
	detector := New()

	_, err := detector.DetectFaces(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidImage)
}
