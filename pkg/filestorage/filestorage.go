package filestorage

import "io"

// FileStorage stores uploaded document files. Paths returned by Save are
// relative to the storage root and safe to persist.
type FileStorage interface {
	Save(file io.Reader, originalFileName string, prefix string) (filePath string, err error)
	Delete(filePath string) error
	FullPath(filePath string) string
	Exists(filePath string) bool
}
