package httpserver

import (
	"net/url"
	"testing"
)

func FuzzParsePageParams(f *testing.F) {
	seeds := []string{
		"page=1&page_size=10",
		"page=0",
		"page=-3&page_size=9999999999",
		"page_size=5",
		"",
	}
	for _, seed := range seeds {
		f.Add(seed)
	}

	srv := pagingServer()
	f.Fuzz(func(t *testing.T, raw string) {
		values, err := url.ParseQuery(raw)
		if err != nil {
			return
		}
		page, err := srv.parsePageParams(values)
		if err != nil {
			return
		}
		if page != nil && (page.page < 1 || page.pageSize < 1 || page.pageSize > srv.cfg.MaxPageSize) {
			t.Fatalf("out-of-range page params accepted: %+v", page)
		}
	})
}

func FuzzParseTopK(f *testing.F) {
	for _, seed := range []string{"", "3", "-1", "0", "abc", "999999999999999999999"} {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, raw string) {
		k, err := parseTopK(raw, 3)
		if err != nil {
			return
		}
		if k < 1 {
			t.Fatalf("parseTopK(%q) accepted non-positive %d", raw, k)
		}
	})
}
