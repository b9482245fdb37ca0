package httpapi

import "strconv"

func parseInt(raw string, fallback int64) int64 {
	if raw == "" {
		return fallback
	}
	parsed, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || parsed < 0 {
		return fallback
	}
	return parsed
}

// pageParams reads skip/limit query values with the listing defaults shared
// by the collection endpoints.
func pageParams(skipRaw, limitRaw string) (int64, int64) {
	skip := parseInt(skipRaw, 0)
	limit := parseInt(limitRaw, 100)
	if limit < 1 || limit > 100 {
		limit = 100
	}
	return skip, limit
}
