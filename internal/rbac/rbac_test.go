package rbac

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCheckerHas(t *testing.T) {
	c := NewChecker(map[string][]string{
		"teacher": {PermGradingRun},
		"ops":     {"runs:*"},
		"admin":   {"*"},
	})
	cases := []struct {
		role, perm string
		want       bool
	}{
		{"teacher", PermGradingRun, true},
		{"teacher", PermRunsView, false},
		{"ops", PermRunsView, true},
		{"ops", PermGradingRun, false},
		{"admin", "anything", true},
		{"", PermGradingRun, false},
	}
	for _, tc := range cases {
		if got := c.Has(tc.role, tc.perm); got != tc.want {
			t.Errorf("Has(%q,%q) = %v", tc.role, tc.perm, got)
		}
	}
	if !c.Any("teacher", PermRunsView, PermGradingRun) {
		t.Error("Any should match the second permission")
	}
}

func TestRequire(t *testing.T) {
	h := Require(PermGradingRun)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	for role, want := range map[string]int{
		"":        http.StatusForbidden,
		"viewer":  http.StatusForbidden,
		"teacher": http.StatusNoContent,
		"admin":   http.StatusNoContent,
	} {
		req := httptest.NewRequest(http.MethodPost, "/upload", nil)
		req = req.WithContext(WithRole(context.Background(), role))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code != want {
			t.Errorf("role %q: status %d, want %d", role, rec.Code, want)
		}
	}
}
