package storage

import "fmt"

// Store kinds accepted by Open.
const (
	KindFile   = "file"
	KindSQLite = "sqlite"
	KindMemory = "memory"
)

// Open returns the store of the given kind at path together with a function
// releasing it.
func Open(kind, path string) (Store, func() error, error) {
	noop := func() error { return nil }
	switch kind {
	case KindFile, "":
		fs, err := NewFileStore(path)
		if err != nil {
			return nil, nil, err
		}
		return fs, noop, nil
	case KindSQLite:
		s, err := NewSQLiteStore(path)
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	case KindMemory:
		return NewMemoryStore(), noop, nil
	default:
		return nil, nil, fmt.Errorf("unknown store kind %q", kind)
	}
}
