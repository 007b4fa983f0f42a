package httpserver

import (
	"net/url"
	"testing"

	"github.com/yyybbbyyyb/aiverse-backend/internal/config"
)

func pagingServer() *Server {
	return &Server{cfg: config.Config{DefaultPageSize: 10, MaxPageSize: 100}}
}

func TestParsePageParams(t *testing.T) {
	srv := pagingServer()

	values, _ := url.ParseQuery("")
	page, err := srv.parsePageParams(values)
	if err != nil || page != nil {
		t.Fatalf("absent page should mean no pagination, got %+v, %v", page, err)
	}

	values, _ = url.ParseQuery("page=2")
	page, err = srv.parsePageParams(values)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.page != 2 || page.pageSize != 10 {
		t.Fatalf("page = %+v, want page 2 size 10", page)
	}

	values, _ = url.ParseQuery("page=1&page_size=25")
	page, err = srv.parsePageParams(values)
	if err != nil || page.pageSize != 25 {
		t.Fatalf("explicit page_size not honored: %+v, %v", page, err)
	}

	// Oversized page_size is clamped, not rejected.
	values, _ = url.ParseQuery("page=1&page_size=9999")
	page, err = srv.parsePageParams(values)
	if err != nil || page.pageSize != 100 {
		t.Fatalf("page_size not clamped: %+v, %v", page, err)
	}

	for _, raw := range []string{"page=0", "page=-1", "page=abc", "page=1&page_size=0", "page=1&page_size=x"} {
		values, _ = url.ParseQuery(raw)
		if _, err := srv.parsePageParams(values); err == nil {
			t.Fatalf("expected error for %q", raw)
		}
	}
}

func TestPageWindow(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}

	if got := pageWindow(items, nil); len(got) != 5 {
		t.Fatalf("nil page should return everything, got %v", got)
	}
	if got := pageWindow(items, &pageParams{page: 1, pageSize: 2}); len(got) != 2 || got[0] != 1 {
		t.Fatalf("first window = %v", got)
	}
	if got := pageWindow(items, &pageParams{page: 3, pageSize: 2}); len(got) != 1 || got[0] != 5 {
		t.Fatalf("last partial window = %v", got)
	}
	if got := pageWindow(items, &pageParams{page: 4, pageSize: 2}); len(got) != 0 {
		t.Fatalf("past-the-end window = %v, want empty", got)
	}
}
