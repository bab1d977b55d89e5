package model

// Page is one slice of an ordered listing.
// Number is 1-based, matching the public API.
type Page[T any] struct {
	Items         []T
	Number        int
	Size          int
	TotalElements int64
}

// TotalPages returns the number of pages for the current size.
func (p Page[T]) TotalPages() int {
	if p.Size <= 0 {
		return 0
	}
	return int((p.TotalElements + int64(p.Size) - 1) / int64(p.Size))
}
