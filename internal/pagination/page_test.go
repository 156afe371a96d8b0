package pagination

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromQuery(t *testing.T) {
	cases := map[string]Page{
		"":                      1,
		"1":                     1,
		"3":                     3,
		"0":                     1,
		"-2":                    1,
		"abc":                   1,
		"2.5":                   1,
		"1000":                  1000,
		"1844674407370955162":   MaxPage,
		"922337203685477581":    MaxPage,
		"99999999999999999999":  MaxPage,
		"-99999999999999999999": 1,
	}
	for raw, want := range cases {
		values := url.Values{}
		if raw != "" {
			values.Set("page", raw)
		}
		assert.Equal(t, want, FromQuery(values), "page=%q", raw)
	}
}

func TestOffsetAndLimit(t *testing.T) {
	assert.Equal(t, 0, Page(1).Offset())
	assert.Equal(t, 20, Page(3).Offset())
	assert.Equal(t, 0, Page(0).Offset())
	assert.Equal(t, PageSize, Page(7).Limit())
}

func TestOffsetHugePagesStayPastTheEnd(t *testing.T) {
	for _, raw := range []string{"1844674407370955162", "922337203685477581"} {
		off := FromQuery(url.Values{"page": {raw}}).Offset()
		assert.Positive(t, off, "page=%s", raw)
		assert.Greater(t, off, 1_000_000_000, "page=%s", raw)
	}
	assert.Positive(t, Page(MaxPage+1).Offset())
}
