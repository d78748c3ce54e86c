package ioutils

import (
	"bytes"
	"image"
	"image/jpeg"
	_ "image/png" // PNG decoder registration

	"golang.org/x/image/draw"
)

// ImageService normalizes downloaded cover art before it is embedded
// in a tag container.
//
// The recognition service sometimes serves PNG covers or very large
// originals; ID3 front-cover frames are declared as image/jpeg, so the
// service can:
//   - Convert any decodable image to JPEG
//   - Resize images to fit maximum dimensions, preserving aspect ratio
//
// Example usage:
//
//	svc := ioutils.NewImageService()
//	cover, _ := svc.ResizeImage(coverBytes, 1000, 1000)
//	cover, _ = svc.ConvertToJPEG(cover)
type ImageService struct{}

// NewImageService creates a new ImageService.
func NewImageService() *ImageService {
	return &ImageService{}
}

// ResizeImage scales an image down to fit within maxWidth x maxHeight.
//
// The aspect ratio is preserved and images already inside the bounds
// are only re-encoded, not upscaled. The result is always
// JPEG-encoded. Catmull-Rom interpolation is used for quality.
//
// Returns an error if the input cannot be decoded as an image, which
// also catches HTML error pages served where a cover was expected.
func (s *ImageService) ResizeImage(data []byte, maxWidth, maxHeight int) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	if width > maxWidth || height > maxHeight {
		ratio := float64(width) / float64(height)
		if float64(maxWidth)/float64(maxHeight) > ratio {
			height = maxHeight
			width = int(float64(maxHeight) * ratio)
		} else {
			width = maxWidth
			height = int(float64(maxWidth) / ratio)
		}
	}

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)

	return encodeJPEG(dst)
}

// ConvertToJPEG re-encodes an image as JPEG.
//
// Used to guarantee that the bytes embedded in the APIC frame match
// its declared image/jpeg MIME type regardless of the source format.
func (s *ImageService) ConvertToJPEG(data []byte) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return encodeJPEG(img)
}

func encodeJPEG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
