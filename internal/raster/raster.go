// Package raster sizes images for placement in a document. Images wider
// than needed for the target resolution are downsampled; smaller images are
// left as they are.
package raster

import (
	"bytes"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"math"

	"github.com/cockroachdb/errors"
	xdraw "golang.org/x/image/draw"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"github.com/tsawler/md2word/model"
)

const cmPerInch = 2.54

// ErrDecode is returned when image data cannot be decoded.
var ErrDecode = errors.New("cannot decode image")

// Fitted is an image ready to embed.
type Fitted struct {
	Data     []byte
	Format   model.ImageFormat
	Width    int // pixels
	Height   int // pixels
	WidthCM  float64
	HeightCM float64
	// Resampled is set when the pixels were scaled down.
	Resampled bool
}

// Fit prepares data for display at widthCM. The pixel width is capped at
// widthCM at dpi; wider images are downsampled with Catmull-Rom and
// re-encoded as PNG, keeping the aspect ratio. Images in formats a word
// processor cannot show (BMP, WebP) are re-encoded as PNG too.
func Fit(data []byte, widthCM float64, dpi int) (*Fitted, error) {
	img, name, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrap(ErrDecode, err.Error())
	}

	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return nil, errors.Wrap(ErrDecode, "empty image")
	}

	out := &Fitted{
		Data:     data,
		Format:   formatOf(name),
		Width:    b.Dx(),
		Height:   b.Dy(),
		WidthCM:  widthCM,
		HeightCM: widthCM * float64(b.Dy()) / float64(b.Dx()),
	}

	target := TargetPixels(widthCM, dpi)
	if target > 0 && b.Dx() > target {
		img = Downsample(img, target)
		out.Width, out.Height = img.Bounds().Dx(), img.Bounds().Dy()
		out.Resampled = true
		out.Format = model.ImageFormatUnknown
	}

	if out.Format == model.ImageFormatUnknown {
		var buf bytes.Buffer
		enc := png.Encoder{CompressionLevel: png.BestCompression}
		if err := enc.Encode(&buf, img); err != nil {
			return nil, errors.Wrap(err, "encode png")
		}
		out.Data = buf.Bytes()
		out.Format = model.ImageFormatPNG
	}
	return out, nil
}

// TargetPixels returns the pixel width of widthCM at dpi.
func TargetPixels(widthCM float64, dpi int) int {
	if widthCM <= 0 || dpi <= 0 {
		return 0
	}
	return int(math.Round(widthCM / cmPerInch * float64(dpi)))
}

// Downsample scales img to width pixels, keeping the aspect ratio. Images
// already at most width wide are returned unchanged.
func Downsample(img image.Image, width int) image.Image {
	bounds := img.Bounds()
	if width <= 0 || bounds.Dx() <= width {
		return img
	}
	height := int(math.Round(float64(bounds.Dy()) * float64(width) / float64(bounds.Dx())))
	if height <= 0 {
		height = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, xdraw.Over, nil)
	return dst
}

func formatOf(name string) model.ImageFormat {
	switch name {
	case "png":
		return model.ImageFormatPNG
	case "jpeg":
		return model.ImageFormatJPEG
	case "gif":
		return model.ImageFormatGIF
	}
	return model.ImageFormatUnknown
}

