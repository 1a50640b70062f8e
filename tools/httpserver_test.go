package tools

import (
	"net/http"
	"testing"
	"time"
)

func TestAPIServerStartStop(t *testing.T) {
	api := NewAPIServer(0, 0)
	api.RegisterToolset("kurt", WrapAsMCP(newTestToolset(demoSpaces()), "test"))

	if err := api.Start(":0"); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer api.Stop()

	base := api.BaseURL()
	if base == "" {
		t.Fatal("BaseURL empty after Start")
	}

	// The MCP endpoint is mounted; a bare GET is not a valid MCP
	// exchange but must reach the handler rather than 404.
	resp, err := http.Get(base + "/mcp/kurt")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		t.Fatalf("endpoint not mounted, got 404")
	}
}

func TestAPIServerRateLimit(t *testing.T) {
	api := NewAPIServer(1, 1)
	api.RegisterToolset("kurt", WrapAsMCP(newTestToolset(demoSpaces()), "test"))

	if err := api.Start(":0"); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer api.Stop()

	url := api.BaseURL() + "/mcp/kurt"
	var got429 bool
	for i := 0; i < 5; i++ {
		resp, err := http.Get(url)
		if err != nil {
			t.Fatalf("GET: %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode == http.StatusTooManyRequests {
			got429 = true
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	if !got429 {
		t.Fatal("expected a 429 after exhausting the per-IP burst")
	}
}
