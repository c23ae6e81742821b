package service

import (
	"encoding/base64"

	qrcode "github.com/skip2/go-qrcode"
)

const defaultQRSize = 256

// QRService renders short links as QR codes.
type QRService struct {
	size int
}

// NewQRService returns a QR renderer producing size x size PNGs.
func NewQRService(size int) QRService {
	if size <= 0 {
		size = defaultQRSize
	}
	return QRService{size: size}
}

// PNG encodes text as a PNG image.
func (s QRService) PNG(text string) ([]byte, error) {
	return qrcode.Encode(text, qrcode.Medium, s.size)
}

func pngDataURL(png []byte) string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png)
}

// Terminal renders text as a block-character QR code for terminals.
func (s QRService) Terminal(text string) (string, error) {
	q, err := qrcode.New(text, qrcode.Medium)
	if err != nil {
		return "", err
	}
	return q.ToSmallString(false), nil
}
