package apiclient

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSubmit(t *testing.T) {
	var gotBody map[string]interface{}
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/feedback" || r.Method != "POST" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&gotBody)
		json.NewEncoder(w).Encode(map[string]string{"user_llm_response": "Thanks!"})
	}))
	defer ts.Close()

	reply, err := New(ts.URL).Submit("Ana", 5, "Great service!")
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if reply != "Thanks!" {
		t.Errorf("expected reply 'Thanks!', got %q", reply)
	}
	if gotBody["user_name"] != "Ana" || gotBody["rating"] != float64(5) {
		t.Errorf("unexpected request body: %v", gotBody)
	}
}

func TestSubmitServerError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad", http.StatusBadRequest)
	}))
	defer ts.Close()

	if _, err := New(ts.URL).Submit("", 5, "text"); err == nil {
		t.Error("expected error on non-200 response")
	}
}

func TestStats(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/stats" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"total":          3,
			"average_rating": 4.5,
		})
	}))
	defer ts.Close()

	stats, err := New(ts.URL).Stats()
	if err != nil {
		t.Fatalf("stats failed: %v", err)
	}
	if stats.Total != 3 || stats.AverageRating != 4.5 {
		t.Errorf("unexpected stats: %+v", stats)
	}
}

func TestGenerateInsight(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/insights/summary" || r.Method != "POST" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]string{"kind": "summary", "content": "## Summary"})
	}))
	defer ts.Close()

	text, err := New(ts.URL).GenerateInsight("summary")
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if text != "## Summary" {
		t.Errorf("expected insight text, got %q", text)
	}
}
