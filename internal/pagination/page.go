// Package pagination slices ordered question lists into fixed-size pages.
package pagination

import (
	"errors"
	"math"
	"net/url"
	"strconv"
	"strings"
)

// PageSize is the number of items on every page.
const PageSize = 10

// MaxPage is the largest page whose offset fits in an int. Larger requests
// are pinned here, which still lies past the end of any table.
const MaxPage = math.MaxInt / PageSize

// Page is a 1-based page number.
type Page int

// FromQuery reads the "page" query parameter. Missing, non-numeric and
// non-positive values all select the first page.
func FromQuery(values url.Values) Page {
	n, err := strconv.Atoi(values.Get("page"))
	if err != nil {
		var numErr *strconv.NumError
		if errors.As(err, &numErr) && numErr.Err == strconv.ErrRange && !strings.HasPrefix(values.Get("page"), "-") {
			return MaxPage
		}
		return 1
	}
	if n < 1 {
		return 1
	}
	if n > MaxPage {
		return MaxPage
	}
	return Page(n)
}

// Offset is the index of the first item on the page.
func (p Page) Offset() int {
	if p < 1 {
		return 0
	}
	if p > MaxPage {
		p = MaxPage
	}
	return (int(p) - 1) * PageSize
}

// Limit is the maximum number of items on the page.
func (p Page) Limit() int {
	return PageSize
}
