package mcp

import (
	"context"
	"encoding/json"
	"testing"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

func connect(t *testing.T, s *Server) *sdk.ClientSession {
	t.Helper()
	ctx := context.Background()
	clientTransport, serverTransport := sdk.NewInMemoryTransports()

	if _, err := s.MCP().Connect(ctx, serverTransport, nil); err != nil {
		t.Fatalf("server connect failed: %v", err)
	}
	client := sdk.NewClient(&sdk.Implementation{Name: "test-client", Version: "v0"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	if err != nil {
		t.Fatalf("client connect failed: %v", err)
	}
	t.Cleanup(func() { session.Close() })
	return session
}

func callText(t *testing.T, session *sdk.ClientSession, name string, args map[string]any) (*sdk.CallToolResult, string) {
	t.Helper()
	res, err := session.CallTool(context.Background(), &sdk.CallToolParams{Name: name, Arguments: args})
	if err != nil {
		t.Fatalf("%s: call failed: %v", name, err)
	}
	if len(res.Content) == 0 {
		t.Fatalf("%s: empty content", name)
	}
	text, ok := res.Content[0].(*sdk.TextContent)
	if !ok {
		t.Fatalf("%s: expected text content, got %T", name, res.Content[0])
	}
	return res, text.Text
}

func TestServer_ListTools(t *testing.T) {
	s, _ := setupServer(t)
	session := connect(t, s)

	res, err := session.ListTools(context.Background(), &sdk.ListToolsParams{})
	if err != nil {
		t.Fatalf("list tools failed: %v", err)
	}

	want := []string{
		"forecast_waiting_list", "solve_rtt_target", "get_workspace", "set_assumption",
		"set_selection", "set_mode", "load_dataset", "clear_dataset", "upsert_timetable_row",
		"set_timetable_field", "remove_timetable_row", "reset_sandbox", "commit_sandbox",
		"export_forecast", "sweep_specialties", "load_scenario", "analyze_activity_stability",
	}
	got := map[string]bool{}
	for _, tool := range res.Tools {
		got[tool.Name] = true
		if tool.InputSchema == nil {
			t.Errorf("Expected input schema for %s", tool.Name)
		}
	}
	for _, name := range want {
		if !got[name] {
			t.Errorf("Expected tool %s to be registered", name)
		}
	}
	if len(res.Tools) != len(want) {
		t.Errorf("Expected %d tools, got %d", len(want), len(res.Tools))
	}
}

func TestServer_ForecastRoundTrip(t *testing.T) {
	s, _ := setupServer(t)
	session := connect(t, s)

	if res, text := callText(t, session, "load_dataset", map[string]any{"dataset": "backlog", "path": "ptl.csv"}); res.IsError {
		t.Fatalf("load_dataset returned error: %s", text)
	}

	res, text := callText(t, session, "forecast_waiting_list", map[string]any{"horizon": "3m"})
	if res.IsError {
		t.Fatalf("forecast returned error: %s", text)
	}

	var resp struct {
		Context ResponseContext `json:"context"`
		Data    ForecastData    `json:"data"`
	}
	if err := json.Unmarshal([]byte(text), &resp); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(resp.Data.Weeks) != 13 {
		t.Errorf("Expected 13 weeks, got %d", len(resp.Data.Weeks))
	}
	if resp.Data.KPIs.CurrentWL != 45 {
		t.Errorf("Expected admitted list of 45 across specialties, got %d", resp.Data.KPIs.CurrentWL)
	}
}

func TestServer_ToolErrors(t *testing.T) {
	s, _ := setupServer(t)
	session := connect(t, s)

	res, err := session.CallTool(context.Background(), &sdk.CallToolParams{
		Name:      "set_assumption",
		Arguments: map[string]any{"key": "theatreEfficiency", "value": 150},
	})
	if err != nil {
		t.Fatalf("call failed: %v", err)
	}
	if !res.IsError {
		t.Errorf("Expected an out-of-range edit to be reported as a tool error")
	}
}
