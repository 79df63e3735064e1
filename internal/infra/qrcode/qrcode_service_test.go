package qrcode

import (
	"bytes"
	"image/png"
	"testing"

	"majicmall/internal/domain/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewQRCodeService(t *testing.T) {
	for _, level := range []string{"L", "M", "Q", "H", "invalid"} {
		t.Run(level, func(t *testing.T) {
			assert.NotNil(t, NewQRCodeService(level))
		})
	}
}

func TestQRCodeService_GeneratePNG(t *testing.T) {
	svc := NewQRCodeService("M")

	qrBytes, err := svc.GeneratePNG("http://localhost:8080/s/demo/", service.QRCodeOptions{ModuleSize: 6})
	require.NoError(t, err)
	require.NotEmpty(t, qrBytes)

	// PNG magic number
	assert.Equal(t, []byte{0x89, 0x50, 0x4E, 0x47}, qrBytes[:4])

	img, err := png.Decode(bytes.NewReader(qrBytes))
	require.NoError(t, err)
	bounds := img.Bounds()
	assert.Equal(t, bounds.Dx(), bounds.Dy())
	assert.Zero(t, bounds.Dx()%6)

	// Corner pixel sits in the quiet zone.
	r, g, b, _ := img.At(0, 0).RGBA()
	assert.Equal(t, uint32(0xffff), r&g&b)
}

func TestQRCodeService_WideBorderIsLarger(t *testing.T) {
	svc := NewQRCodeService("M")
	content := "http://localhost:8080/s/demo/"

	narrow, err := svc.GeneratePNG(content, service.QRCodeOptions{ModuleSize: 4})
	require.NoError(t, err)
	wide, err := svc.GeneratePNG(content, service.QRCodeOptions{ModuleSize: 4, WideBorder: true})
	require.NoError(t, err)

	narrowImg, err := png.Decode(bytes.NewReader(narrow))
	require.NoError(t, err)
	wideImg, err := png.Decode(bytes.NewReader(wide))
	require.NoError(t, err)

	assert.Equal(t, narrowImg.Bounds().Dx()+4*4, wideImg.Bounds().Dx())
}

func TestClampModuleSize(t *testing.T) {
	assert.Equal(t, 2, ClampModuleSize(0))
	assert.Equal(t, 2, ClampModuleSize(-3))
	assert.Equal(t, 7, ClampModuleSize(7))
	assert.Equal(t, 20, ClampModuleSize(99))
}
