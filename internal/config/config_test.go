package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.HTTPPort != "8080" {
		t.Fatalf("port = %q", cfg.HTTPPort)
	}
	if cfg.WorkerCount != 4 {
		t.Fatalf("worker count = %d", cfg.WorkerCount)
	}
	if cfg.StatusRetention != 24*time.Hour {
		t.Fatalf("status retention = %v", cfg.StatusRetention)
	}
	if cfg.QueueName != "podcast_jobs" {
		t.Fatalf("queue name = %q", cfg.QueueName)
	}
	if cfg.DailyBriefSchedule != "0 6 * * *" {
		t.Fatalf("daily schedule = %q", cfg.DailyBriefSchedule)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("WORKER_COUNT", "8")
	t.Setenv("STATUS_RETENTION_SEC", "3600")
	t.Setenv("SCHEDULER_ENABLED", "false")

	cfg := Load()

	if cfg.HTTPPort != "9090" {
		t.Fatalf("port = %q", cfg.HTTPPort)
	}
	if cfg.WorkerCount != 8 {
		t.Fatalf("worker count = %d", cfg.WorkerCount)
	}
	if cfg.StatusRetention != time.Hour {
		t.Fatalf("status retention = %v", cfg.StatusRetention)
	}
	if cfg.SchedulerEnabled {
		t.Fatal("scheduler should be disabled")
	}
}

func TestLoadInvalidValuesFallBack(t *testing.T) {
	t.Setenv("WORKER_COUNT", "not-a-number")
	t.Setenv("SCHEDULER_ENABLED", "not-a-bool")

	cfg := Load()

	if cfg.WorkerCount != 4 {
		t.Fatalf("worker count = %d, want default", cfg.WorkerCount)
	}
	if !cfg.SchedulerEnabled {
		t.Fatal("scheduler should fall back to enabled")
	}
}
