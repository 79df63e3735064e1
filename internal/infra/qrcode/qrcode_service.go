package qrcode

import (
	"bytes"
	"image"
	"image/color"
	"image/png"

	"majicmall/internal/domain/service"
	"majicmall/internal/errors"

	"github.com/skip2/go-qrcode"
)

const (
	MinModuleSize     = 2
	MaxModuleSize     = 20
	DefaultModuleSize = 6

	narrowBorderModules = 2
	wideBorderModules   = 4
)

type qrcodeService struct {
	errorCorrectionLevel qrcode.RecoveryLevel
}

// NewQRCodeService creates a new QR code service instance
func NewQRCodeService(errorCorrectionLevel string) service.QRCodeService {
	var level qrcode.RecoveryLevel
	switch errorCorrectionLevel {
	case "L":
		level = qrcode.Low
	case "M":
		level = qrcode.Medium
	case "Q":
		level = qrcode.High
	case "H":
		level = qrcode.Highest
	default:
		level = qrcode.Medium
	}

	return &qrcodeService{
		errorCorrectionLevel: level,
	}
}

// ClampModuleSize keeps a requested module size within 2..20.
func ClampModuleSize(size int) int {
	if size < MinModuleSize {
		return MinModuleSize
	}
	if size > MaxModuleSize {
		return MaxModuleSize
	}

	return size
}

// GeneratePNG renders content as a black-on-white PNG with a quiet zone of two
// or four modules.
func (s *qrcodeService) GeneratePNG(content string, opts service.QRCodeOptions) ([]byte, error) {
	qrCode, err := qrcode.New(content, s.errorCorrectionLevel)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create QR code")
	}
	qrCode.DisableBorder = true

	moduleSize := ClampModuleSize(opts.ModuleSize)
	border := narrowBorderModules
	if opts.WideBorder {
		border = wideBorderModules
	}

	bitmap := qrCode.Bitmap()
	modules := len(bitmap) + 2*border
	side := modules * moduleSize

	palette := color.Palette{color.White, color.Black}
	img := image.NewPaletted(image.Rect(0, 0, side, side), palette)

	for y, row := range bitmap {
		for x, set := range row {
			if !set {
				continue
			}
			x0 := (x + border) * moduleSize
			y0 := (y + border) * moduleSize
			for dy := range moduleSize {
				for dx := range moduleSize {
					img.SetColorIndex(x0+dx, y0+dy, 1)
				}
			}
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, errors.Wrap(err, "failed to generate PNG")
	}

	return buf.Bytes(), nil
}
