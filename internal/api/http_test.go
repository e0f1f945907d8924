package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/kalambet/wayfind/internal/config"
	"github.com/kalambet/wayfind/internal/guidance"
)

// newTestServer builds a degraded system (in-memory store, no provider keys)
// behind the REST handler.
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	sys, err := guidance.New(config.Config{})
	if err != nil {
		t.Fatalf("guidance.New: %v", err)
	}
	t.Cleanup(func() { sys.Close() })

	srv := httptest.NewServer(NewHandler(sys))
	t.Cleanup(srv.Close)
	return srv
}

func getJSON(t *testing.T, url string, wantStatus int) map[string]any {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != wantStatus {
		t.Fatalf("GET %s: status %d, want %d", url, resp.StatusCode, wantStatus)
	}
	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	return body
}

func postJSON(t *testing.T, url string, payload any, wantStatus int) map[string]any {
	t.Helper()
	b, err := json.Marshal(payload)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(b))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != wantStatus {
		t.Fatalf("POST %s: status %d, want %d", url, resp.StatusCode, wantStatus)
	}
	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	return body
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t)

	body := getJSON(t, srv.URL+"/health", http.StatusOK)
	if body["status"] != "ok" {
		t.Errorf("status = %v", body["status"])
	}
	if body["search_enabled"] != false || body["model_enabled"] != false {
		t.Errorf("capabilities = %v", body)
	}
}

func TestCareers(t *testing.T) {
	srv := newTestServer(t)

	body := getJSON(t, srv.URL+"/careers", http.StatusOK)
	cats, ok := body["categories"].([]any)
	if !ok || len(cats) != 4 {
		t.Errorf("categories = %v", body["categories"])
	}
	all, ok := body["careers"].(map[string]any)
	if !ok || all["Technology"] == nil {
		t.Errorf("careers = %v", body["careers"])
	}
}

func TestProfileRoundTrip(t *testing.T) {
	srv := newTestServer(t)

	body := getJSON(t, srv.URL+"/profile", http.StatusOK)
	if body["profile"] != nil {
		t.Errorf("expected null profile before save, got %v", body["profile"])
	}

	req, err := http.NewRequest(http.MethodPut, srv.URL+"/profile", strings.NewReader(
		`{"education":"Master's","experience":"3-5 years","skills":{"Python":4}}`))
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("PUT /profile: status %d", resp.StatusCode)
	}

	body = getJSON(t, srv.URL+"/profile", http.StatusOK)
	p, ok := body["profile"].(map[string]any)
	if !ok {
		t.Fatalf("profile = %v", body["profile"])
	}
	if p["education"] != "Master's" || p["experience"] != "3-5 years" {
		t.Errorf("profile = %v", p)
	}
}

func TestPutProfile_RejectsUnknownExperience(t *testing.T) {
	srv := newTestServer(t)

	req, err := http.NewRequest(http.MethodPut, srv.URL+"/profile", strings.NewReader(
		`{"experience":"forever"}`))
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestAnalyze_RequiresCareer(t *testing.T) {
	srv := newTestServer(t)

	postJSON(t, srv.URL+"/analyze", map[string]string{}, http.StatusBadRequest)
}

func TestAnalyze_DegradedReport(t *testing.T) {
	srv := newTestServer(t)

	body := postJSON(t, srv.URL+"/analyze", map[string]string{"career": "Nursing"}, http.StatusOK)
	if body["career_name"] != "Nursing" {
		t.Errorf("career_name = %v", body["career_name"])
	}
	research, _ := body["research"].(string)
	if !strings.Contains(research, "unavailable") {
		t.Errorf("research = %q, want unavailable message with no providers", research)
	}
}

func TestReports(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/reports/Nursing")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404 before analysis", resp.StatusCode)
	}

	postJSON(t, srv.URL+"/analyze", map[string]string{"career": "Nursing"}, http.StatusOK)

	body := getJSON(t, srv.URL+"/reports/Nursing", http.StatusOK)
	if body["career_name"] != "Nursing" {
		t.Errorf("career_name = %v", body["career_name"])
	}

	list := getJSON(t, srv.URL+"/reports", http.StatusOK)
	reports, ok := list["reports"].([]any)
	if !ok || len(reports) != 1 {
		t.Errorf("reports = %v", list["reports"])
	}
}

func TestChat(t *testing.T) {
	srv := newTestServer(t)

	postJSON(t, srv.URL+"/chat", map[string]string{}, http.StatusBadRequest)

	body := postJSON(t, srv.URL+"/chat", map[string]string{"question": "What next?"}, http.StatusOK)
	response, _ := body["response"].(string)
	if !strings.Contains(response, "not available") {
		t.Errorf("response = %q, want degraded advisor message", response)
	}
	if body["id"] == "" || body["id"] == nil {
		t.Error("turn id missing")
	}

	history := getJSON(t, srv.URL+"/chat", http.StatusOK)
	turns, ok := history["turns"].([]any)
	if !ok || len(turns) != 1 {
		t.Fatalf("turns = %v", history["turns"])
	}
	turn := turns[0].(map[string]any)
	if turn["question"] != "What next?" {
		t.Errorf("turn = %v", turn)
	}
}

func TestChatHistory_RejectsBadLimit(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/chat?limit=zero")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}
