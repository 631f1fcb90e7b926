package export

import (
	"bufio"
	"io"
	"os"

	"github.com/san-kum/galprof/internal/profile"
	"github.com/san-kum/galprof/internal/storage"
)

// WriteProfileText re-emits a stored profile in the "<radius>, <value>" text
// format used for freshly computed profiles.
func WriteProfileText(w io.Writer, p storage.Profile) error {
	bw := bufio.NewWriter(w)
	for _, b := range p.Bins {
		if _, err := bw.WriteString(profile.FormatLine(b.Radius, b.Value) + "\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func ExportProfileText(path string, p storage.Profile) error {
	file, err := os.Create(path)
	if err != nil {
		return &profile.WriteError{Path: path, Wrapped: err}
	}
	if err := WriteProfileText(file, p); err != nil {
		file.Close()
		return &profile.WriteError{Path: path, Wrapped: err}
	}
	if err := file.Close(); err != nil {
		return &profile.WriteError{Path: path, Wrapped: err}
	}
	return nil
}
