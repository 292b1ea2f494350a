package db

import (
	"encoding/json"
	"testing"
)

func TestHealthResponse_JSONShape(t *testing.T) {
	resp := healthResponse{
		Database: "up",
		Pool: PoolStats{
			TotalConns:    4,
			IdleConns:     3,
			AcquiredConns: 1,
			MaxConns:      20,
			WaitCount:     2,
			WaitDuration:  "150ms",
		},
	}

	raw, err := json.Marshal(resp)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded["database"] != "up" {
		t.Errorf("expected database=up, got %v", decoded["database"])
	}
	if _, present := decoded["error"]; present {
		t.Error("expected error field to be omitted when healthy")
	}
	pool, ok := decoded["pool"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected pool object, got %T", decoded["pool"])
	}
	if pool["max_conns"] != float64(20) {
		t.Errorf("expected max_conns 20, got %v", pool["max_conns"])
	}
}

func TestHealthResponse_IncludesErrorWhenDown(t *testing.T) {
	resp := healthResponse{Database: "down", Error: "connection refused"}

	raw, err := json.Marshal(resp)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded["database"] != "down" {
		t.Errorf("expected database=down, got %v", decoded["database"])
	}
	if decoded["error"] != "connection refused" {
		t.Errorf("expected error message, got %v", decoded["error"])
	}
}
