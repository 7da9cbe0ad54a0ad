// Package archive writes ZIP archives that may begin after an arbitrary byte
// prefix on the same output stream, such as an image written before them.
package archive

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/yeka/zip"
)

// Writer appends files to a ZIP stream. When the stream is preceded by a
// prefix (for example a cover image), the prefix length must be passed to
// NewWriter so that central directory offsets account for it.
type Writer struct {
	zw       *zip.Writer
	password string
	log      *log.Logger
}

// NewWriter returns a Writer that emits ZIP data to w. prefixLen is the
// number of bytes already written to w before the archive starts. If
// password is non-empty, every entry is encrypted with AES-256. lg may be
// nil to disable logging.
func NewWriter(w io.Writer, prefixLen int64, password string, lg *log.Logger) *Writer {
	zw := zip.NewWriter(w)
	if prefixLen > 0 {
		zw.SetOffset(prefixLen)
	}
	if lg == nil {
		lg = log.New(io.Discard, "", 0)
	}
	return &Writer{zw: zw, password: password, log: lg}
}

// AddFile reads the file at path and appends it as a deflate-compressed
// entry named after the path. The entry records the file's modification
// time in the archive's MS-DOS timestamp format.
func (w *Writer) AddFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	w.log.Printf("adding %s (%s)", path, humanize.IBytes(uint64(len(data))))

	fh := &zip.FileHeader{
		Name:   EntryName(path),
		Method: zip.Deflate,
	}
	fh.ModifiedDate, fh.ModifiedTime = DOSDateTime(info.ModTime())
	if w.password != "" {
		fh.SetPassword(w.password)
		fh.SetEncryptionMethod(zip.AES256Encryption)
	}

	ew, err := w.zw.CreateHeader(fh)
	if err != nil {
		return fmt.Errorf("create entry %s: %w", fh.Name, err)
	}
	if _, err := ew.Write(data); err != nil {
		return fmt.Errorf("write entry %s: %w", fh.Name, err)
	}
	return nil
}

// Close finalizes the archive by writing the central directory. It does not
// close the underlying writer.
func (w *Writer) Close() error {
	return w.zw.Close()
}

// EntryName converts a file path into the slash-separated relative name
// stored for its archive entry. Volume names, leading separators and
// leading parent references are stripped, so entry names never point
// outside the extraction directory.
func EntryName(path string) string {
	name := filepath.ToSlash(filepath.Clean(path))
	name = strings.TrimPrefix(name, filepath.VolumeName(path))
	name = strings.TrimPrefix(name, "/")
	for strings.HasPrefix(name, "../") {
		name = name[len("../"):]
	}
	return name
}
