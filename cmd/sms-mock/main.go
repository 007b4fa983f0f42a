package main

import (
	"encoding/json"
	"flag"
	"log"
	"net/http"
	"strings"
	"sync"
)

type sendRequest struct {
	Phone string `json:"phone"`
	Code  string `json:"code"`
}

type sendResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func main() {
	var (
		port    = flag.String("port", "9099", "port to listen on")
		apiKey  = flag.String("api-key", "", "required X-API-Key value (empty disables the check)")
		failFor = flag.String("fail-for", "", "comma separated phone prefixes to reject, for testing")
	)
	flag.Parse()

	var rejected []string
	if *failFor != "" {
		rejected = strings.Split(*failFor, ",")
	}

	var mu sync.Mutex
	delivered := make(map[string]string)

	mux := http.NewServeMux()
	mux.HandleFunc("/send", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
			return
		}
		if *apiKey != "" && r.Header.Get("X-API-Key") != *apiKey {
			http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
			return
		}

		var req sendRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		resp := sendResponse{Code: "OK", Message: "sent"}
		for _, prefix := range rejected {
			if strings.HasPrefix(req.Phone, prefix) {
				resp = sendResponse{Code: "REJECTED", Message: "blocked by mock"}
				break
			}
		}
		if resp.Code == "OK" {
			mu.Lock()
			delivered[req.Phone] = req.Code
			mu.Unlock()
			log.Printf("mock sms: delivered code %s to %s", req.Code, req.Phone)
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	})

	// Test hook: read back the last code delivered to a phone.
	mux.HandleFunc("/delivered", func(w http.ResponseWriter, r *http.Request) {
		phone := r.URL.Query().Get("phone")
		mu.Lock()
		code, ok := delivered[phone]
		mu.Unlock()
		if !ok {
			http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"phone": phone, "code": code})
	})

	addr := ":" + *port
	log.Printf("mock sms gateway listening on %s", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
