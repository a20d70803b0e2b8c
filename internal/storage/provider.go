// Package storage defines the project file-system abstraction.
package storage

// FileInfo is a lightweight record for a listed file.
type FileInfo struct {
	Path     string // relative to project root
	Name     string // base name
	Checksum string // hex SHA-256 of contents
}

// Provider is the interface for project file operations. All paths are
// relative to the project root.
type Provider interface {
	// List returns every file directly inside dir whose name matches the
	// given suffix, sorted by name. It does not recurse.
	List(dir, suffix string) ([]FileInfo, error)
	// Walk returns the relative paths of all files named name anywhere
	// under the root, sorted.
	Walk(name string) ([]string, error)
	// Read returns the raw bytes of the file at path.
	Read(path string) ([]byte, error)
	// Write atomically writes content to path.
	Write(path string, content []byte) error
	// Delete removes the file at path.
	Delete(path string) error
	// DeleteTree removes a directory and everything under it.
	DeleteTree(dir string) error
	// Exists reports whether a file exists at path.
	Exists(path string) bool
	// Root returns the absolute project root.
	Root() string
}
