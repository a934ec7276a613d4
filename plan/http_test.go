package plan

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHTTPProviderCurrentPlan(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		switch r.URL.Path {
		case "/plan":
			w.Write([]byte(`{"tier":"professional"}`))
		case "/features/advanced-chat":
			w.Write([]byte(`{"enabled":true}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	p := NewHTTP(srv.URL, "secret-key", nil)

	tier, err := p.CurrentPlan(context.Background())
	if err != nil {
		t.Fatalf("CurrentPlan: %v", err)
	}
	if tier != TierProfessional {
		t.Errorf("tier = %q, want professional", tier)
	}
	if gotAuth != "Bearer secret-key" {
		t.Errorf("auth header = %q", gotAuth)
	}

	enabled, err := p.IsFeatureEnabled(context.Background(), "advanced-chat")
	if err != nil {
		t.Fatalf("IsFeatureEnabled: %v", err)
	}
	if !enabled {
		t.Error("feature flag not read")
	}
}

func TestHTTPProviderEmptyTierDefaultsToStarter(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	tier, err := NewHTTP(srv.URL, "", nil).CurrentPlan(context.Background())
	if err != nil {
		t.Fatalf("CurrentPlan: %v", err)
	}
	if tier != TierStarter {
		t.Errorf("tier = %q, want starter fallback", tier)
	}
}

func TestHTTPProviderErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	if _, err := NewHTTP(srv.URL, "", nil).CurrentPlan(context.Background()); err == nil {
		t.Fatal("5xx answer did not error")
	}
}

func TestStaticProvider(t *testing.T) {
	p := NewStatic("enterprise", map[string]bool{"beta": true})
	tier, _ := p.CurrentPlan(context.Background())
	if tier != TierEnterprise {
		t.Errorf("tier = %q", tier)
	}
	if on, _ := p.IsFeatureEnabled(context.Background(), "beta"); !on {
		t.Error("configured feature reported off")
	}
	if on, _ := p.IsFeatureEnabled(context.Background(), "unknown"); on {
		t.Error("unknown feature reported on")
	}
}

func TestTierRank(t *testing.T) {
	if !(TierRank(TierStarter) < TierRank(TierProfessional) && TierRank(TierProfessional) < TierRank(TierEnterprise)) {
		t.Error("tier ranks not strictly increasing")
	}
	if TierRank("mystery") != TierRank(TierStarter) {
		t.Error("unknown tier should rank as entry tier")
	}
}
