package feed

import "groupblog/domain"

// PageSize is the number of posts per feed page.
const PageSize = 10

// Paginate slices an ordered post listing into the requested page. Page
// numbers are 1-based; anything below 1 falls back to the first page and
// anything past the end is clamped to the last page, so an out-of-range
// request is never an error. An empty listing yields a single empty page.
// Pure function of its inputs, no side effects.
func Paginate(posts []domain.Post, number, size int) *domain.Page {
	if size < 1 {
		size = PageSize
	}
	if number < 1 {
		number = 1
	}

	total := len(posts)
	totalPages := (total + size - 1) / size
	if totalPages < 1 {
		// Like the first page of an empty listing: present, just empty.
		totalPages = 1
	}
	if number > totalPages {
		number = totalPages
	}

	start := (number - 1) * size
	end := start + size
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	return &domain.Page{
		Items:      posts[start:end],
		Number:     number,
		TotalItems: total,
		TotalPages: totalPages,
		HasNext:    number < totalPages,
		HasPrev:    number > 1,
	}
}
