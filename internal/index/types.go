package index

// Entry is one row of the docset search index.
type Entry struct {
	ID   int64
	Name string
	Type string // category, e.g. "cl" or "intf"
	Path string // document file with optional "#fragment"
}

// StorageError wraps any failure of the backing index. The engine treats
// it as fatal.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string { return "index " + e.Op + ": " + e.Err.Error() }
func (e *StorageError) Unwrap() error { return e.Err }

func storageErr(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StorageError{Op: op, Err: err}
}
