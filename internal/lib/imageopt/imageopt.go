// Package imageopt уменьшает загружаемые изображения товаров перед отправкой в backend.
package imageopt

import (
	"bytes"
	"image"
	"image/jpeg"
	"image/png"
	"path/filepath"
	"strings"

	"github.com/nfnt/resize"
	"github.com/linemk/shop-admin/internal/domain/models"
)

const (
	MaxWidth    = 1200
	JPEGQuality = 85
)

// Optimize уменьшает PNG/JPEG шире MaxWidth с сохранением пропорций и перекодирует в JPEG.
// Остальные форматы и файлы, которые не удалось декодировать, возвращаются без изменений.
func Optimize(f models.FileUpload) models.FileUpload {
	ext := strings.ToLower(filepath.Ext(f.Filename))

	var (
		img image.Image
		err error
	)
	switch ext {
	case ".png":
		img, err = png.Decode(bytes.NewReader(f.Data))
	case ".jpg", ".jpeg":
		img, err = jpeg.Decode(bytes.NewReader(f.Data))
	default:
		return f
	}
	if err != nil || img.Bounds().Dx() <= MaxWidth {
		return f
	}

	resized := resize.Resize(MaxWidth, 0, img, resize.Lanczos3)
	buf := &bytes.Buffer{}
	if err := jpeg.Encode(buf, resized, &jpeg.Options{Quality: JPEGQuality}); err != nil {
		return f
	}
	return models.FileUpload{
		Filename:    strings.TrimSuffix(f.Filename, filepath.Ext(f.Filename)) + ".jpg",
		ContentType: "image/jpeg",
		Data:        buf.Bytes(),
	}
}
