package query

import (
	"strconv"
	"strings"
)

const (
	// DefaultPageSize applies when the caller sends no usable size.
	DefaultPageSize = 20
	// MaxPageSize is the default cap on oversized requests.
	MaxPageSize = 100
)

// Page is the requested window. Number is 1-based.
type Page struct {
	Number int
	Size   int
}

// ParsePage reads raw query values. Anything that is not an integer
// becomes 0, which window later replaces with the defaults.
func ParsePage(number, size string) Page {
	return Page{Number: atoiOrZero(number), Size: atoiOrZero(size)}
}

func atoiOrZero(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0
	}
	return n
}

// window clamps the request and returns the effective page, size,
// total pages and slice bounds for total matching items. totalPages is
// always ceil(total/size) for the effective size.
func window(p Page, total, defaultSize, maxSize int) (page, size, totalPages, start, end int) {
	size = p.Size
	if size < 1 {
		size = defaultSize
	}
	if size < 1 {
		size = DefaultPageSize
	}
	if maxSize < 1 {
		maxSize = MaxPageSize
	}
	if size > maxSize {
		size = maxSize
	}

	totalPages = (total + size - 1) / size
	if totalPages < 1 {
		totalPages = 1
	}

	page = p.Number
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	start = (page - 1) * size
	end = start + size
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}
	return page, size, totalPages, start, end
}
