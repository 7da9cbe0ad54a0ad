// Package overlay renders a secret as a QR code and composites it onto a
// source image.
package overlay

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	"github.com/mazznoer/csscolorparser"
	"github.com/skip2/go-qrcode"
)

// ErrTooLarge is returned when the rendered QR code does not fit inside the
// source image.
var ErrTooLarge = errors.New("QR code does not fit in the source image")

// Position selects the corner or center of the image where the QR code is
// placed.
type Position int

const (
	TopLeft Position = iota
	TopRight
	BottomLeft
	BottomRight
	Center
)

// String returns the keyword form of the position.
func (p Position) String() string {
	switch p {
	case TopRight:
		return "top-right"
	case BottomLeft:
		return "bottom-left"
	case BottomRight:
		return "bottom-right"
	case Center:
		return "center"
	default:
		return "top-left"
	}
}

// ParsePosition maps a keyword to a Position. The empty string selects
// TopLeft. An unrecognized keyword returns TopLeft along with an error so
// callers can warn and continue with the default.
func ParsePosition(s string) (Position, error) {
	switch s {
	case "", "top-left":
		return TopLeft, nil
	case "top-right":
		return TopRight, nil
	case "bottom-left":
		return BottomLeft, nil
	case "bottom-right":
		return BottomRight, nil
	case "center":
		return Center, nil
	}
	return TopLeft, fmt.Errorf("unknown position %q", s)
}

// Options configures how the QR code is rendered and placed.
type Options struct {
	// Position selects where on the image the QR code lands.
	Position Position

	// QuietZone renders the standard four-module quiet zone border around
	// the QR code.
	QuietZone bool

	// Foreground is the module color as a CSS color string. Empty selects
	// opaque black.
	Foreground string

	// Background is the backdrop color as a CSS color string. Empty selects
	// opaque white.
	Background string
}

// TargetSide returns the side length in pixels requested for a QR code
// overlaid on an image of the given dimensions: a third of the shorter
// side, but never below 200.
func TargetSide(width, height int) int {
	side := min(width, height) / 3
	if side < 200 {
		side = 200
	}
	return side
}

// Compose renders secret as a QR code with the highest error correction
// level and pastes it onto src at the configured position. The QR pixels
// replace the source pixels outright. The rendered code may come out larger
// than TargetSide when the secret needs more modules than fit; if it then
// exceeds the image bounds, Compose returns ErrTooLarge.
func Compose(src image.Image, secret string, opts Options) (*image.NRGBA, error) {
	fg, err := parseColor(opts.Foreground, color.NRGBA{A: 0xff})
	if err != nil {
		return nil, fmt.Errorf("foreground color: %w", err)
	}
	bg, err := parseColor(opts.Background, color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff})
	if err != nil {
		return nil, fmt.Errorf("background color: %w", err)
	}

	code, err := qrcode.New(secret, qrcode.Highest)
	if err != nil {
		return nil, fmt.Errorf("encode QR code: %w", err)
	}
	code.DisableBorder = !opts.QuietZone
	code.ForegroundColor = fg
	code.BackgroundColor = bg

	bounds := src.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	qr := code.Image(TargetSide(width, height))
	qrWidth, qrHeight := qr.Bounds().Dx(), qr.Bounds().Dy()
	if qrWidth > width || qrHeight > height {
		return nil, fmt.Errorf("%w: %dx%d code on %dx%d image", ErrTooLarge, qrWidth, qrHeight, width, height)
	}

	// Paste positions are in the coordinate space of src, whose origin is
	// not necessarily (0, 0).
	x, y := offset(opts.Position, width, height, qrWidth, qrHeight)
	return imaging.Paste(src, qr, bounds.Min.Add(image.Pt(x, y))), nil
}

// offset computes the top-left corner for a qrWidth x qrHeight code on a
// width x height image. Center placement floors on odd differences.
func offset(p Position, width, height, qrWidth, qrHeight int) (x, y int) {
	switch p {
	case TopRight:
		return width - qrWidth, 0
	case BottomLeft:
		return 0, height - qrHeight
	case BottomRight:
		return width - qrWidth, height - qrHeight
	case Center:
		return (width - qrWidth) / 2, (height - qrHeight) / 2
	default:
		return 0, 0
	}
}

func parseColor(s string, fallback color.NRGBA) (color.NRGBA, error) {
	if s == "" {
		return fallback, nil
	}
	c, err := csscolorparser.Parse(s)
	if err != nil {
		return color.NRGBA{}, err
	}
	r, g, b, a := c.RGBA255()
	return color.NRGBA{R: r, G: g, B: b, A: a}, nil
}
