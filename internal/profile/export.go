package profile

import (
	"bufio"
	"io"
	"log/slog"
	"os"
	"strconv"
)

// FormatLine renders one exported line, without the trailing newline.
func FormatLine(radius, value float64) string {
	return strconv.FormatFloat(radius, 'g', -1, 64) + ", " + strconv.FormatFloat(value, 'g', -1, 64)
}

// WriteTo writes one "<radius>, <value>" line per bin in index order.
func (p *Profile) WriteTo(w io.Writer) (int64, error) {
	bw := bufio.NewWriter(w)
	var total int64
	for _, b := range p.bins {
		n, err := bw.WriteString(FormatLine(b.Radius, b.Value) + "\n")
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	return total, bw.Flush()
}

// WriteText writes the profile to path, replacing any existing file.
func (p *Profile) WriteText(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return &WriteError{Path: path, Wrapped: err}
	}
	if _, err := p.WriteTo(f); err != nil {
		f.Close()
		return &WriteError{Path: path, Wrapped: err}
	}
	if err := f.Close(); err != nil {
		return &WriteError{Path: path, Wrapped: err}
	}

	slog.Info("wrote radial profile", "kind", p.kind, "path", path, "bins", len(p.bins))
	return nil
}
