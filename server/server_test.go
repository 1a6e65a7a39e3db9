package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/rushteam/prodrec/catalog"
	"github.com/rushteam/prodrec/config"
	"github.com/rushteam/prodrec/core"
	"github.com/rushteam/prodrec/prefstore"
	"github.com/rushteam/prodrec/similarity"
	"github.com/rushteam/prodrec/store"
)

func fp(v float64) *float64 { return &v }

func newTestServer(t *testing.T) *Server {
	t.Helper()

	cat := catalog.New([]*core.Product{
		{URI: catalog.BaseURI + "laptop", Name: "Laptop Pro", Category: "Laptops", CategoryURI: catalog.BaseURI + "laptops", Price: fp(500), Rating: fp(4.5), ReviewCount: 1200},
		{URI: catalog.BaseURI + "headset", Name: "Headset", Category: "Audio", CategoryURI: catalog.BaseURI + "audio", Price: fp(80), Rating: fp(3.2), ReviewCount: 40},
		{URI: catalog.BaseURI + "mouse", Name: "Mouse", Category: "Accessories", CategoryURI: catalog.BaseURI + "accessories", Price: fp(25), Rating: fp(4.8), ReviewCount: 900},
	})

	backend := store.NewMemoryStore()
	t.Cleanup(func() { _ = backend.Close() })

	return &Server{
		Catalog: cat,
		Prefs:   prefstore.New(backend, "prefs"),
		Policies: config.NewPolicyRegistry(config.PolicyDeps{
			Source:     cat,
			Similarity: similarity.Empty(),
			DefaultK:   10,
		}),
		MaxK:     50,
		DefaultK: 10,
		Logger:   zerolog.Nop(),
	}
}

func doRequest(t *testing.T, s *Server, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	rec := doRequest(t, s, http.MethodGet, "/health", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp["status"] != "ok" {
		t.Errorf("status = %v", resp["status"])
	}
	if resp["products"] != float64(3) {
		t.Errorf("products = %v", resp["products"])
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("缺少 X-Request-ID")
	}
}

func TestPreferences_RoundTrip(t *testing.T) {
	s := newTestServer(t)

	t.Run("unknown user gets defaults", func(t *testing.T) {
		rec := doRequest(t, s, http.MethodGet, "/preferences?user=nobody", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}
		var resp preferencesDTO
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatal(err)
		}
		if resp.User != "nobody" || resp.Preferences == nil {
			t.Fatalf("resp = %+v", resp)
		}
		if resp.Preferences.Budget != nil || resp.Preferences.MinRating != 0 {
			t.Errorf("默认记录 = %+v", resp.Preferences)
		}
	})

	t.Run("partial update retains fields", func(t *testing.T) {
		rec := doRequest(t, s, http.MethodPost, "/preferences",
			`{"user":"alice","preferred_categories":["Laptops"],"budget":600}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
		}

		rec = doRequest(t, s, http.MethodPost, "/preferences",
			`{"user":"alice","min_rating":4.0}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}

		var resp preferencesDTO
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatal(err)
		}
		p := resp.Preferences
		if len(p.PreferredCategories) != 1 || p.PreferredCategories[0] != "Laptops" {
			t.Errorf("preferred_categories 未保留: %v", p.PreferredCategories)
		}
		if p.Budget == nil || *p.Budget != 600 {
			t.Errorf("budget 未保留: %v", p.Budget)
		}
		if p.MinRating != 4.0 {
			t.Errorf("min_rating = %v", p.MinRating)
		}
	})

	t.Run("invalid body rejected", func(t *testing.T) {
		rec := doRequest(t, s, http.MethodPost, "/preferences", `{not json`)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d", rec.Code)
		}
	})

	t.Run("default user fallback", func(t *testing.T) {
		rec := doRequest(t, s, http.MethodGet, "/preferences", "")
		var resp preferencesDTO
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatal(err)
		}
		if resp.User != DefaultUser {
			t.Errorf("user = %s", resp.User)
		}
	})
}

func TestRecommendations(t *testing.T) {
	s := newTestServer(t)

	setup := doRequest(t, s, http.MethodPost, "/preferences",
		`{"user":"alice","preferred_categories":["Laptops"],"budget":600,"min_rating":4.0}`)
	if setup.Code != http.StatusOK {
		t.Fatalf("setup status = %d", setup.Code)
	}

	t.Run("hybrid default", func(t *testing.T) {
		rec := doRequest(t, s, http.MethodGet, "/recommendations?user=alice", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
		}
		var items []recommendationDTO
		if err := json.Unmarshal(rec.Body.Bytes(), &items); err != nil {
			t.Fatal(err)
		}
		if len(items) != 3 {
			t.Fatalf("len = %d", len(items))
		}
		top := items[0]
		if top.Name != "Laptop Pro" {
			t.Errorf("top = %s", top.Name)
		}
		if top.SemanticScore != 0.903 {
			t.Errorf("semantic_score = %v", top.SemanticScore)
		}
		// 空模型：ml 0，final = 0.5 * semantic
		if top.MLScore == nil || *top.MLScore != 0 {
			t.Errorf("ml_score = %v", top.MLScore)
		}
		if top.FinalScore == nil || *top.FinalScore != 0.452 {
			t.Errorf("final_score = %v", top.FinalScore)
		}
		wantReasons := []string{
			"Matches your Laptops preference",
			"Highly rated (4.5★)",
			"Within your budget (≤ 600)",
			"1200 review(s)",
		}
		if len(top.Reasons) != len(wantReasons) {
			t.Fatalf("reasons = %v", top.Reasons)
		}
		for i := range wantReasons {
			if top.Reasons[i] != wantReasons[i] {
				t.Errorf("reasons[%d] = %q, want %q", i, top.Reasons[i], wantReasons[i])
			}
		}
		if strings.Contains(top.Explanation, "Similar to items") {
			t.Errorf("空模型不应出现相似度备注: %q", top.Explanation)
		}
	})

	t.Run("semantic policy omits blend scores", func(t *testing.T) {
		rec := doRequest(t, s, http.MethodGet, "/recommendations?user=alice&policy=semantic", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}
		var items []recommendationDTO
		if err := json.Unmarshal(rec.Body.Bytes(), &items); err != nil {
			t.Fatal(err)
		}
		// min_rating 4.0 过滤掉 headset
		if len(items) != 2 {
			t.Fatalf("len = %d", len(items))
		}
		if items[0].MLScore != nil || items[0].FinalScore != nil {
			t.Errorf("semantic 策略不应返回混合分: %+v", items[0])
		}
		if !strings.Contains(rec.Body.String(), `"semantic_score"`) {
			t.Error("应返回 semantic_score")
		}
		if strings.Contains(rec.Body.String(), `"final_score"`) {
			t.Error("不应返回 final_score")
		}
	})

	t.Run("k clamp and truncation", func(t *testing.T) {
		rec := doRequest(t, s, http.MethodGet, "/recommendations?user=alice&k=1", "")
		var items []recommendationDTO
		if err := json.Unmarshal(rec.Body.Bytes(), &items); err != nil {
			t.Fatal(err)
		}
		if len(items) != 1 {
			t.Errorf("len = %d, want 1", len(items))
		}

		// 超过 MaxK 被钳制，而不是报错
		rec = doRequest(t, s, http.MethodGet, "/recommendations?user=alice&k=9999", "")
		if rec.Code != http.StatusOK {
			t.Errorf("status = %d", rec.Code)
		}
	})

	t.Run("invalid k rejected", func(t *testing.T) {
		rec := doRequest(t, s, http.MethodGet, "/recommendations?user=alice&k=abc", "")
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d", rec.Code)
		}
		rec = doRequest(t, s, http.MethodGet, "/recommendations?user=alice&k=-3", "")
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d", rec.Code)
		}
	})

	t.Run("unknown policy rejected", func(t *testing.T) {
		rec := doRequest(t, s, http.MethodGet, "/recommendations?policy=nope", "")
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d", rec.Code)
		}
	})

	t.Run("unknown user gets default prefs", func(t *testing.T) {
		rec := doRequest(t, s, http.MethodGet, "/recommendations?user=stranger", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}
		var items []recommendationDTO
		if err := json.Unmarshal(rec.Body.Bytes(), &items); err != nil {
			t.Fatal(err)
		}
		if len(items) != 3 {
			t.Errorf("len = %d", len(items))
		}
	})
}
