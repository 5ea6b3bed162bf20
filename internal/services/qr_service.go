package services

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/skip2/go-qrcode"
)

const (
	DefaultQRSize = 256
	MinQRSize     = 64
	MaxQRSize     = 1024
)

type QROptions struct {
	Size    int
	FgColor string // hex, e.g. "#000000"
	BgColor string
}

// QRService renders QR codes for short URLs.
type QRService struct{}

func NewQRService() *QRService {
	return &QRService{}
}

// PNG renders content as a PNG image. Size is clamped to [MinQRSize, MaxQRSize].
func (s *QRService) PNG(content string, opts QROptions) ([]byte, error) {
	qr, err := qrcode.New(content, qrcode.Medium)
	if err != nil {
		return nil, err
	}
	qr.ForegroundColor = parseHexColor(opts.FgColor, color.Black)
	qr.BackgroundColor = parseHexColor(opts.BgColor, color.White)

	return qr.PNG(clampQRSize(opts.Size))
}

// SVG renders content as an SVG document with one path for all dark modules.
func (s *QRService) SVG(content string, opts QROptions) (string, error) {
	qr, err := qrcode.New(content, qrcode.Medium)
	if err != nil {
		return "", err
	}

	bitmap := qr.Bitmap()
	n := len(bitmap)
	fg := normalizeHex(opts.FgColor, "#000000")
	bg := normalizeHex(opts.BgColor, "#ffffff")

	var sb strings.Builder
	fmt.Fprintf(&sb, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %d %d" width="%d" height="%d" shape-rendering="crispEdges">`,
		n, n, clampQRSize(opts.Size), clampQRSize(opts.Size))
	fmt.Fprintf(&sb, `<rect width="%d" height="%d" fill="%s"/>`, n, n, bg)
	fmt.Fprintf(&sb, `<path fill="%s" d="`, fg)
	for y, row := range bitmap {
		for x, dark := range row {
			if dark {
				fmt.Fprintf(&sb, "M%d %dh1v1h-1z", x, y)
			}
		}
	}
	sb.WriteString(`"/></svg>`)
	return sb.String(), nil
}

func clampQRSize(size int) int {
	switch {
	case size <= 0:
		return DefaultQRSize
	case size < MinQRSize:
		return MinQRSize
	case size > MaxQRSize:
		return MaxQRSize
	}
	return size
}

func normalizeHex(s, fallback string) string {
	s = strings.TrimPrefix(s, "#")
	if len(s) != 6 {
		return fallback
	}
	if _, err := strconv.ParseUint(s, 16, 32); err != nil {
		return fallback
	}
	return "#" + strings.ToLower(s)
}

func parseHexColor(s string, defaultColor color.Color) color.Color {
	hex := normalizeHex(s, "")
	if hex == "" {
		return defaultColor
	}
	v, _ := strconv.ParseUint(hex[1:], 16, 32)
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}
}
