package shopify

import "strings"

// ParseNextLink extracts the rel="next" URL from a Link header such as
//
//	<https://shop/admin/api/2025-01/products.json?page_info=abc&limit=250>; rel="previous", <...>; rel="next"
//
// It returns an empty string when there is no next page.
// URLs are delimited by angle brackets rather than by commas, since the query string may carry
// a comma-joined field list.
func ParseNextLink(header string) string {
	rest := header
	for {
		start := strings.IndexByte(rest, '<')
		if start < 0 {
			return ""
		}
		end := strings.IndexByte(rest[start:], '>')
		if end < 0 {
			return ""
		}
		end += start

		target := rest[start+1 : end]
		rest = rest[end+1:]

		// parameters run until the next link value
		params := rest
		if next := strings.IndexByte(rest, '<'); next >= 0 {
			params = rest[:next]
		}

		if hasRelNext(params) {
			return strings.TrimSpace(target)
		}
	}
}

func hasRelNext(params string) bool {
	for _, param := range strings.Split(params, ";") {
		param = strings.Trim(strings.TrimSpace(param), ",")
		param = strings.ReplaceAll(strings.TrimSpace(param), " ", "")
		if strings.EqualFold(param, `rel="next"`) || strings.EqualFold(param, "rel=next") {
			return true
		}
	}
	return false
}
