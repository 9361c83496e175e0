package server

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"stagecast/pkg/config"
	"stagecast/pkg/registry"
)

func testConfig(t *testing.T) *config.ServerConfig {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Address = "127.0.0.1:0"
	cfg.Database.Path = filepath.Join(t.TempDir(), "sessions.db")
	return cfg
}

func TestServerInitialization(t *testing.T) {
	srv := New(testConfig(t), nil)
	if srv == nil {
		t.Fatal("Server should not be nil")
	}
	if srv.registry == nil {
		t.Error("Server registry should be initialized")
	}
	if srv.dispatcher == nil {
		t.Error("Server dispatcher should be initialized")
	}
	if srv.events == nil {
		t.Error("Server event store should be initialized")
	}
	if srv.store == nil {
		t.Error("Server session store should be initialized")
	}
	t.Cleanup(func() { srv.Shutdown(context.Background()) })
}

func TestListClientsEmpty(t *testing.T) {
	srv := New(testConfig(t), nil)
	t.Cleanup(func() { srv.Shutdown(context.Background()) })

	if clients := srv.ListClients(); len(clients) != 0 {
		t.Errorf("Expected no clients, got %d", len(clients))
	}
}

func TestSendToUnknownClient(t *testing.T) {
	srv := New(testConfig(t), nil)
	t.Cleanup(func() { srv.Shutdown(context.Background()) })

	err := srv.SendTo("ghost", map[string]string{"type": "ontime"})
	if !errors.Is(err, registry.ErrClientNotFound) {
		t.Errorf("Expected ErrClientNotFound, got %v", err)
	}
}

func TestBroadcastWithNoClients(t *testing.T) {
	srv := New(testConfig(t), nil)
	t.Cleanup(func() { srv.Shutdown(context.Background()) })

	if err := srv.Broadcast(map[string]string{"type": "ontime"}); err != nil {
		t.Errorf("Broadcast with no clients should succeed, got %v", err)
	}
}

func TestBroadcastRejectsUnserializableMessage(t *testing.T) {
	srv := New(testConfig(t), nil)
	t.Cleanup(func() { srv.Shutdown(context.Background()) })

	if err := srv.Broadcast(make(chan int)); err == nil {
		t.Error("Broadcast should fail for unserializable messages")
	}
}
