package imaging

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gradientRGBA(w, h int) []byte {
	pix := make([]byte, w*h*4)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := (y*w + x) * 4
			pix[i] = uint8(x * 255 / w)
			pix[i+1] = uint8(y * 255 / h)
			pix[i+2] = uint8((x + y) % 256)
			pix[i+3] = 255
		}
	}
	return pix
}

func TestEncodePNG_DecodableByStdlib(t *testing.T) {
	const w, h = 32, 24
	data, err := EncodePNG(gradientRGBA(w, h), w, h)
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	bounds := img.Bounds()
	assert.Equal(t, w, bounds.Dx())
	assert.Equal(t, h, bounds.Dy())

	r, g, b, a := img.At(16, 12).RGBA()
	assert.Equal(t, uint32(16*255/w), r>>8)
	assert.Equal(t, uint32(12*255/h), g>>8)
	assert.Equal(t, uint32((16+12)%256), b>>8)
	assert.Equal(t, uint32(255), a>>8)
}

func TestEncodePNG_Deterministic(t *testing.T) {
	pix := gradientRGBA(16, 16)
	a, err := EncodePNG(pix, 16, 16)
	require.NoError(t, err)
	b, err := EncodePNG(pix, 16, 16)
	require.NoError(t, err)
	assert.True(t, bytes.Equal(a, b))
}

func TestEncodePNG_Structure(t *testing.T) {
	data, err := EncodePNG(gradientRGBA(4, 4), 4, 4)
	require.NoError(t, err)

	assert.Equal(t, []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}, data[:8])
	assert.Equal(t, "IHDR", string(data[12:16]))
	// 8-bit depth, RGBA color type.
	assert.Equal(t, byte(8), data[24])
	assert.Equal(t, byte(6), data[25])
	assert.Equal(t, "IEND", string(data[len(data)-8:len(data)-4]))
	// Exactly one IDAT chunk.
	assert.Equal(t, 1, bytes.Count(data, []byte("IDAT")))
}

func TestEncodePNG_RejectsBadInput(t *testing.T) {
	_, err := EncodePNG(nil, 0, 0)
	assert.Error(t, err)
	_, err = EncodePNG(make([]byte, 10), 4, 4)
	assert.Error(t, err)
}

func TestBGRAToRGBA_SwapsChannelsAndForcesAlpha(t *testing.T) {
	bgra := []byte{
		10, 20, 30, 0, // b g r a
		40, 50, 60, 128,
	}
	rgba := BGRAToRGBA(bgra)
	assert.Equal(t, []byte{30, 20, 10, 255, 60, 50, 40, 255}, rgba)
}

func TestResize_Downscales(t *testing.T) {
	out, ok := Resize(gradientRGBA(64, 64), 64, 64, 16, 16)
	require.True(t, ok)
	assert.Len(t, out, 16*16*4)
}

func TestResize_NoopAndInvalidFallBack(t *testing.T) {
	pix := gradientRGBA(8, 8)
	_, ok := Resize(pix, 8, 8, 8, 8)
	assert.False(t, ok)
	_, ok = Resize(pix, 8, 8, 0, 16)
	assert.False(t, ok)
	_, ok = Resize(pix[:10], 8, 8, 4, 4)
	assert.False(t, ok)
}
