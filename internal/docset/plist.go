package docset

import (
	"fmt"
	"os"

	"howett.net/plist"
)

const (
	keyBundleName     = "CFBundleName"
	keyPlatformFamily = "DocSetPlatformFamily"
)

// Relabel rewrites the display name and platform family in the bundle's
// Info.plist. Other keys and the on-disk plist format are preserved.
func Relabel(b Bundle, platforms []Platform) error {
	path := b.InfoPlistPath()
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat info plist: %w", err)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read info plist: %w", err)
	}

	var values map[string]any
	format, err := plist.Unmarshal(raw, &values)
	if err != nil {
		return fmt.Errorf("parse info plist: %w", err)
	}
	if values == nil {
		values = make(map[string]any)
	}
	values[keyBundleName] = BundleDisplayName(platforms)
	values[keyPlatformFamily] = PlatformFamily(platforms)

	var out []byte
	if format == plist.BinaryFormat {
		out, err = plist.Marshal(values, format)
	} else {
		out, err = plist.MarshalIndent(values, format, "\t")
	}
	if err != nil {
		return fmt.Errorf("encode info plist: %w", err)
	}
	if err := os.WriteFile(path, out, info.Mode().Perm()); err != nil {
		return fmt.Errorf("write info plist: %w", err)
	}
	return nil
}
