package catalog

// Paginate returns the 1-based page of items and the total page count.
// Pages past the end are empty but totalPages still reflects len(items).
// A page below 1 is treated as 1; a non-positive perPage yields nothing.
func Paginate[T any](items []T, page, perPage int) ([]T, int) {
	if perPage <= 0 {
		return []T{}, 0
	}
	total := len(items)
	totalPages := total / perPage
	if total%perPage != 0 {
		totalPages++
	}

	if page < 1 {
		page = 1
	}
	// Checked before multiplying so huge pages cannot overflow start.
	if page > totalPages {
		return []T{}, totalPages
	}
	start := (page - 1) * perPage
	end := min(start+perPage, total)
	return items[start:end], totalPages
}
