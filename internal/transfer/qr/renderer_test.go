package qr

import (
	"bytes"
	"encoding/base64"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderProducesPNGDataURL(t *testing.T) {
	out, err := NewRenderer(128).Render(`{"type":"transfer_slip","transferId":"abc","humanId":"TRF-1-ABCD"}`)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(out, "data:image/png;base64,"))

	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(out, "data:image/png;base64,"))
	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(raw))
	require.NoError(t, err)
	assert.Equal(t, 128, img.Bounds().Dx())
}

func TestRenderRejectsEmptyPayload(t *testing.T) {
	_, err := NewRenderer(0).Render("")
	assert.Error(t, err)
}
