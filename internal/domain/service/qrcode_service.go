package service

// QRCodeOptions controls storefront QR rendering.
type QRCodeOptions struct {
	// ModuleSize is the pixel size of one QR module (2-20).
	ModuleSize int
	// WideBorder uses a four-module quiet zone instead of two.
	WideBorder bool
}

// QRCodeService renders QR codes as PNG images.
type QRCodeService interface {
	GeneratePNG(content string, opts QRCodeOptions) ([]byte, error)
}
