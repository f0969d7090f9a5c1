package ports

// Filesystem defines the filesystem operations the runner needs.
//
//go:generate go run go.uber.org/mock/mockgen -source=filesystem.go -destination=mocks/mock_filesystem.go -package=mocks
type Filesystem interface {
	// Exists reports whether path exists.
	Exists(path string) (bool, error)
	// RemoveAll removes path and everything it contains.
	RemoveAll(path string) error
}
