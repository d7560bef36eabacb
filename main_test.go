package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/tcnksm/go-latest"
)

func releaseServer(t *testing.T, status int, body string) *latest.JSON {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return &latest.JSON{URL: server.URL}
}

func TestCheckUpdate(t *testing.T) {
	t.Setenv(latest.EnvGoLatestDisable, "")

	tests := []struct {
		name    string
		current string
		body    string
		want    []string
	}{
		{
			name:    "outdated",
			current: "0.3.0",
			body:    `{"version": "0.4.1", "url": "https://downloads.example/pylocator"}`,
			want:    []string{"pylocator 0.4.1 is available (this binary is 0.3.0)", "https://downloads.example/pylocator"},
		},
		{
			name:    "outdated without a download link",
			current: "0.3.0",
			body:    `{"version": "0.4.1"}`,
			want:    []string{releasesURL},
		},
		{
			name:    "latest",
			current: "0.4.1",
			body:    `{"version": "0.4.1"}`,
			want:    []string{"pylocator 0.4.1 is the latest release"},
		},
		{
			name:    "ahead of release",
			current: "0.5.0",
			body:    `{"version": "0.4.1"}`,
			want:    []string{"pylocator 0.5.0 is newer than the latest release, 0.4.1"},
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			var out bytes.Buffer
			if err := checkUpdate(&out, releaseServer(t, http.StatusOK, test.body), test.current); err != nil {
				t.Fatalf("checkUpdate: %v", err)
			}
			for _, want := range test.want {
				if !strings.Contains(out.String(), want) {
					t.Errorf("output %q does not contain %q", out.String(), want)
				}
			}
		})
	}
}

func TestCheckUpdateReportsFailure(t *testing.T) {
	t.Setenv(latest.EnvGoLatestDisable, "")

	var out bytes.Buffer
	err := checkUpdate(&out, releaseServer(t, http.StatusInternalServerError, ""), "0.3.0")
	if err == nil || !strings.Contains(err.Error(), "checking for a newer pylocator") {
		t.Fatalf("checkUpdate error = %v", err)
	}
	if out.Len() != 0 {
		t.Errorf("wrote %q on failure", out.String())
	}
}

func TestCheckUpdateDisabled(t *testing.T) {
	t.Setenv(latest.EnvGoLatestDisable, "1")

	var out bytes.Buffer
	if err := checkUpdate(&out, &latest.JSON{URL: "http://127.0.0.1:1"}, "0.3.0"); err != nil {
		t.Fatalf("checkUpdate: %v", err)
	}
	if !strings.Contains(out.String(), "disabled") {
		t.Errorf("output %q does not mention the check is disabled", out.String())
	}
}
