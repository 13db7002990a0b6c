package response

import (
	"net/url"
	"strconv"
)

// Links is the navigation block of a paginated envelope. Prev and Next are
// omitted at the edges of the result set.
type Links struct {
	Self  string  `json:"self"`
	First string  `json:"first"`
	Last  string  `json:"last"`
	Prev  *string `json:"prev,omitempty"`
	Next  *string `json:"next,omitempty"`
}

// NewPageLinks renders navigation links for one page of results. The current
// request's query string is preserved, only the page parameter varies.
func NewPageLinks(path string, query url.Values, page, pageSize int, totalCount int64) Links {
	lastPage := int((totalCount + int64(pageSize) - 1) / int64(pageSize))
	if lastPage < 1 {
		lastPage = 1
	}

	links := Links{
		Self:  pageURL(path, query, page),
		First: pageURL(path, query, 1),
		Last:  pageURL(path, query, lastPage),
	}
	if page > 1 {
		prev := pageURL(path, query, page-1)
		links.Prev = &prev
	}
	if page < lastPage {
		next := pageURL(path, query, page+1)
		links.Next = &next
	}
	return links
}

func pageURL(path string, query url.Values, page int) string {
	q := url.Values{}
	for k, vs := range query {
		q[k] = append([]string(nil), vs...)
	}
	q.Set("page", strconv.Itoa(page))
	return path + "?" + q.Encode()
}
