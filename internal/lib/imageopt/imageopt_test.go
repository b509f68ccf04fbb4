package imageopt_test

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/linemk/shop-admin/internal/domain/models"
	"github.com/linemk/shop-admin/internal/lib/imageopt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, 0, color.RGBA{R: 200, A: 255})
	}
	buf := &bytes.Buffer{}
	require.NoError(t, png.Encode(buf, img))
	return buf.Bytes()
}

func TestOptimize_DownscalesWideImage(t *testing.T) {
	in := models.FileUpload{Filename: "photo.png", ContentType: "image/png", Data: pngBytes(t, 2400, 600)}

	out := imageopt.Optimize(in)
	assert.Equal(t, "photo.jpg", out.Filename)
	assert.Equal(t, "image/jpeg", out.ContentType)

	img, err := jpeg.Decode(bytes.NewReader(out.Data))
	require.NoError(t, err)
	assert.Equal(t, imageopt.MaxWidth, img.Bounds().Dx())
	assert.Equal(t, 300, img.Bounds().Dy())
}

func TestOptimize_KeepsSmallImage(t *testing.T) {
	in := models.FileUpload{Filename: "small.png", ContentType: "image/png", Data: pngBytes(t, 100, 100)}
	assert.Equal(t, in, imageopt.Optimize(in))
}

func TestOptimize_PassesThroughOtherFormats(t *testing.T) {
	in := models.FileUpload{Filename: "anim.gif", ContentType: "image/gif", Data: []byte("GIF89a")}
	assert.Equal(t, in, imageopt.Optimize(in))

	broken := models.FileUpload{Filename: "broken.jpg", Data: []byte("not a jpeg")}
	assert.Equal(t, broken, imageopt.Optimize(broken))
}
