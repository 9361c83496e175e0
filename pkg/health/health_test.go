package health

import "testing"

func TestGetInfo(t *testing.T) {
	m := NewMonitor("1.0.0")
	info := m.GetInfo(3)

	if info.Version != "1.0.0" {
		t.Errorf("Expected version 1.0.0, got %s", info.Version)
	}
	if info.ActiveClients != 3 {
		t.Errorf("Expected 3 active clients, got %d", info.ActiveClients)
	}
	if info.Goroutines <= 0 {
		t.Error("Goroutine count should be positive")
	}
	if info.UptimeSeconds < 0 {
		t.Error("Uptime should not be negative")
	}
}
