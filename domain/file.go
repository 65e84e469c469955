package domain

// StoredFile describes one file kept by the file sideband.
type StoredFile struct {
	Name string
	Size int64
}
