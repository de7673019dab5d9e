package photos

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(t.TempDir(), 100, 100, 85)
	require.NoError(t, err)
	return s
}

func testJPEG(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, nil))
	return buf.Bytes()
}

func TestSaveAndRemove(t *testing.T) {
	s := newTestStore(t)

	key, err := s.Save(testJPEG(t, 400, 300))
	require.NoError(t, err)
	require.NotEmpty(t, key)

	_, err = os.Stat(s.Path(key))
	assert.NoError(t, err)
	_, err = os.Stat(s.ThumbPath(key))
	assert.NoError(t, err)

	require.NoError(t, s.Remove(key))
	_, err = os.Stat(s.Path(key))
	assert.True(t, os.IsNotExist(err))

	// removing again is fine
	assert.NoError(t, s.Remove(key))
}

func TestSaveRejectsGarbage(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Save([]byte("definitely not an image"))
	assert.Error(t, err)
}

func TestPathRejectsNonUUIDKeys(t *testing.T) {
	s := newTestStore(t)

	assert.Empty(t, s.Path("../../etc/passwd"))
	assert.Empty(t, s.ThumbPath("not-a-uuid"))
}

func TestThumbnailIsBounded(t *testing.T) {
	s := newTestStore(t)

	key, err := s.Save(testJPEG(t, 800, 600))
	require.NoError(t, err)

	f, err := os.Open(s.ThumbPath(key))
	require.NoError(t, err)
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	require.NoError(t, err)
	assert.LessOrEqual(t, cfg.Width, 100)
	assert.LessOrEqual(t, cfg.Height, 100)
}
