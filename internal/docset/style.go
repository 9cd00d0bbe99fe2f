package docset

import (
	_ "embed"
	"fmt"
	"os"
)

// DefaultStyleOverrides is appended to the bundle stylesheet unless the
// configuration points at another file.
//
//go:embed assets/style_overrides.css
var DefaultStyleOverrides []byte

// LoadStyleOverrides returns the contents of path, or the embedded
// overrides when path is empty.
func LoadStyleOverrides(path string) ([]byte, error) {
	if path == "" {
		return DefaultStyleOverrides, nil
	}
	data, err := os.ReadFile(ExpandHome(path))
	if err != nil {
		return nil, fmt.Errorf("read style overrides: %w", err)
	}
	return data, nil
}

// AppendStylesheet appends css to the bundle's primary stylesheet. The
// stylesheet is neither parsed nor validated.
func AppendStylesheet(b Bundle, css []byte) error {
	f, err := os.OpenFile(b.StylesheetPath(), os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open stylesheet: %w", err)
	}
	if _, err := f.Write(css); err != nil {
		_ = f.Close()
		return fmt.Errorf("append stylesheet: %w", err)
	}
	return f.Close()
}
