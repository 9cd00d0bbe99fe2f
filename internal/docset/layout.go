package docset

import (
	"path/filepath"
	"strings"
)

const (
	// SourceBundleName is the generic name the dump helper writes.
	SourceBundleName = "Apple_API_Reference.docset"
	// IncompleteBundleName is left behind by an interrupted dump.
	IncompleteBundleName = "Apple_API_Reference.incomplete.docset"
	// HelperName is the dump helper shipped inside the source docset.
	HelperName = "Apple Docs Helper"
)

// Bundle is a docset directory on disk.
type Bundle struct {
	Root string
}

func (b Bundle) IndexPath() string {
	return filepath.Join(b.Root, "Contents", "Resources", "docSet.dsidx")
}

func (b Bundle) DocumentsDir() string {
	return filepath.Join(b.Root, "Contents", "Resources", "Documents")
}

func (b Bundle) StylesheetPath() string {
	return filepath.Join(b.DocumentsDir(), "Resources", "style.css")
}

func (b Bundle) InfoPlistPath() string {
	return filepath.Join(b.Root, "Contents", "Info.plist")
}

// HelperPath is the location of the dump helper inside a source docset.
func (b Bundle) HelperPath() string {
	return filepath.Join(b.DocumentsDir(), HelperName)
}

// DocumentFile extracts the document file component from an index path.
// Paths may carry leading <dash_entry_...> tags and an optional
// "#fragment" suffix; both are dropped.
func DocumentFile(indexPath string) string {
	p := indexPath
	for strings.HasPrefix(p, "<dash_entry_") {
		end := strings.IndexByte(p, '>')
		if end == -1 {
			break
		}
		p = p[end+1:]
	}
	if i := strings.IndexByte(p, '#'); i >= 0 {
		p = p[:i]
	}
	return p
}
