package eventstore

import (
	"sync"
	"testing"
)

type capturePublisher struct {
	mu        sync.Mutex
	snapshots []map[string]interface{}
}

func (p *capturePublisher) PublishState(snapshot map[string]interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.snapshots = append(p.snapshots, snapshot)
}

func TestPollEmpty(t *testing.T) {
	s := New()
	snapshot := s.Poll()
	if len(snapshot) != 0 {
		t.Errorf("Expected empty snapshot, got %v", snapshot)
	}
}

func TestSetThenPoll(t *testing.T) {
	s := New()
	s.Set("timer", 120)
	s.Set("playback", "running")

	snapshot := s.Poll()
	if snapshot["timer"] != 120 {
		t.Errorf("Expected timer 120, got %v", snapshot["timer"])
	}
	if snapshot["playback"] != "running" {
		t.Errorf("Expected playback running, got %v", snapshot["playback"])
	}
}

func TestSetPublishes(t *testing.T) {
	s := New()
	pub := &capturePublisher{}
	s.SetPublisher(pub)

	s.Set("timer", 60)

	pub.mu.Lock()
	defer pub.mu.Unlock()
	if len(pub.snapshots) != 1 {
		t.Fatalf("Expected 1 published snapshot, got %d", len(pub.snapshots))
	}
	if pub.snapshots[0]["timer"] != 60 {
		t.Errorf("Expected published timer 60, got %v", pub.snapshots[0]["timer"])
	}
}

func TestPollReturnsCopy(t *testing.T) {
	s := New()
	s.Set("timer", 1)

	snapshot := s.Poll()
	snapshot["timer"] = 999

	if s.Poll()["timer"] != 1 {
		t.Error("mutating a snapshot must not affect the store")
	}
}
