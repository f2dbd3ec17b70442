package pagination

const (
	// DefaultPageSize is the standard page size when one is not provided.
	DefaultPageSize = 20
	// MaxPageSize caps how many items any catalog page can request.
	MaxPageSize = 100
)

// NormalizePage clamps a 1-based page number.
func NormalizePage(page int) int {
	if page <= 0 {
		return 1
	}
	return page
}

// NormalizePageSize enforces the configured default and maximum sizes.
func NormalizePageSize(size int) int {
	if size <= 0 {
		return DefaultPageSize
	}
	if size > MaxPageSize {
		return MaxPageSize
	}
	return size
}

// TotalPages derives the page count from a total item count, rounding up.
func TotalPages(total, pageSize int) int {
	size := NormalizePageSize(pageSize)
	if total <= 0 {
		return 0
	}
	return (total + size - 1) / size
}
