package httpserver

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
)

func BenchmarkHandleCreateRating(b *testing.B) {
	srv, _ := buildTestServer(b)

	entityType := seedType(b, srv, "chatbot")
	entity := seedEntity(b, srv, "Bench Tool", "benchmark target", entityType.ID)

	users := make([]string, b.N)
	for i := 0; i < b.N; i++ {
		users[i] = seedUser(b, srv, fmt.Sprintf("bench-%d", i), false).ID
	}

	payload, _ := json.Marshal(map[string]interface{}{
		"entityId": entity.ID,
		"scores":   [4]int{4, 3, 2, 1},
	})

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		rec := doRequest(srv, http.MethodPost, "/ratings/", payload, map[string]string{"X-User-Id": users[i]})
		if rec.Code != http.StatusCreated {
			b.Fatalf("unexpected status %d: %s", rec.Code, rec.Body.String())
		}
	}
}

func BenchmarkHandleSearch(b *testing.B) {
	srv, _ := buildTestServer(b)

	entityType := seedType(b, srv, "chatbot")
	for i := 0; i < 50; i++ {
		seedEntity(b, srv, fmt.Sprintf("Assistant %d", i), "general purpose assistant", entityType.ID)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		rec := doRequest(srv, http.MethodGet, "/entities/search?q=assistant", nil, nil)
		if rec.Code != http.StatusOK {
			b.Fatalf("unexpected status %d", rec.Code)
		}
	}
}
