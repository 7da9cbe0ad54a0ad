// Package imgzip bundles files into a ZIP archive appended to a cover
// image. The output is a single file that opens as an image in a viewer
// and as an archive in a ZIP reader, because image decoders stop at the end
// of the image stream while ZIP readers locate the central directory from
// the end of the file.
package imgzip

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"

	// imaging registers PNG, JPEG, GIF, BMP and TIFF; WebP needs its own
	// decoder.
	_ "golang.org/x/image/webp"

	"github.com/imgzip/imgzip/archive"
	"github.com/imgzip/imgzip/overlay"
)

// Options configures a single bundling run.
type Options struct {
	// Image is the path of the cover image.
	Image string

	// Paths are the files and directories to bundle.
	Paths []string

	// Output overrides the derived output filename when non-empty.
	Output string

	// Password encrypts every archive entry with AES-256 when non-empty.
	Password string

	// OverlayQR composites a QR code of the password onto the cover image.
	// It has no effect without a password.
	OverlayQR bool

	// QuietZone renders the QR code with its quiet zone border.
	QuietZone bool

	// Position places the QR code; see overlay.ParsePosition for keywords.
	Position string

	// Foreground and Background color the QR modules and their backdrop,
	// given as CSS color strings.
	Foreground string
	Background string

	// Log receives progress output. Nil disables logging.
	Log *log.Logger
}

// Run bundles the configured files behind the cover image. The output is
// written to the current directory unless Options.Output says otherwise.
// On failure a partially written output file may be left behind.
func Run(opts Options) error {
	lg := opts.Log
	if lg == nil {
		lg = log.New(io.Discard, "", 0)
	}

	if _, err := os.Stat(opts.Image); err != nil {
		return fmt.Errorf("source image: %w", err)
	}

	overlayQR := opts.OverlayQR
	if overlayQR && opts.Password == "" {
		lg.Printf("warning: a QR code overlay does nothing without a password")
		overlayQR = false
	}

	outName := opts.Output
	if outName == "" {
		var err error
		outName, err = OutputName(opts.Image, overlayQR)
		if err != nil {
			return err
		}
	}

	out, err := os.Create(outName)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	defer out.Close()

	var prefix []byte
	if overlayQR {
		prefix, err = overlayPrefix(opts, lg)
	} else {
		lg.Printf("copying source image %s", opts.Image)
		prefix, err = os.ReadFile(opts.Image)
	}
	if err != nil {
		return err
	}
	if _, err := out.Write(prefix); err != nil {
		return fmt.Errorf("write image prefix: %w", err)
	}

	files, err := CollectFiles(opts.Paths)
	if err != nil {
		return fmt.Errorf("collect input files: %w", err)
	}

	if opts.Password != "" {
		lg.Printf("writing archive to %s (AES-256 encrypted entries)", outName)
	} else {
		lg.Printf("writing archive to %s (no encryption)", outName)
	}
	zw := archive.NewWriter(out, int64(len(prefix)), opts.Password, lg)
	for _, file := range files {
		if err := zw.AddFile(file); err != nil {
			return err
		}
	}
	// The central directory lands only after every entry has succeeded.
	if err := zw.Close(); err != nil {
		return fmt.Errorf("finalize archive: %w", err)
	}

	lg.Printf("finished without errors: %s", outName)
	return nil
}

// overlayPrefix decodes the cover image, composites a QR code of the
// password onto it, and returns the result encoded as PNG.
func overlayPrefix(opts Options, lg *log.Logger) ([]byte, error) {
	pos, err := overlay.ParsePosition(opts.Position)
	if err != nil {
		lg.Printf("warning: %v, falling back to top-left", err)
	}

	lg.Printf("reading source image %s", opts.Image)
	f, err := os.Open(opts.Image)
	if err != nil {
		return nil, fmt.Errorf("open source image: %w", err)
	}
	img, err := imaging.Decode(f)
	f.Close()
	if err != nil {
		return nil, fmt.Errorf("decode source image: %w", err)
	}

	lg.Printf("compositing QR code onto cover image")
	composited, err := overlay.Compose(img, opts.Password, overlay.Options{
		Position:   pos,
		QuietZone:  opts.QuietZone,
		Foreground: opts.Foreground,
		Background: opts.Background,
	})
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, composited, imaging.PNG); err != nil {
		return nil, fmt.Errorf("encode composited image: %w", err)
	}
	return buf.Bytes(), nil
}

// OutputName derives the output filename from the cover image path: the
// base name up to its first dot, "_merged.", then the extension after the
// last dot. With a QR overlay the extension is always "png", since
// compositing re-encodes the image.
func OutputName(imagePath string, overlayQR bool) (string, error) {
	base := filepath.Base(imagePath)
	stem, _, _ := strings.Cut(base, ".")
	if overlayQR {
		return stem + "_merged.png", nil
	}
	ext := strings.TrimPrefix(filepath.Ext(base), ".")
	if ext == "" {
		return "", fmt.Errorf("%w: %s", ErrNoExtension, imagePath)
	}
	return stem + "_merged." + ext, nil
}
