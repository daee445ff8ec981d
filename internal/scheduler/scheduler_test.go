package scheduler

import (
	"testing"
	"time"

	"github.com/hakivo/podcastd/internal/config"
	"github.com/hakivo/podcastd/internal/model"
)

func TestNextRun(t *testing.T) {
	s := &Scheduler{cfg: &config.Config{
		DailyBriefSchedule:  "0 6 * * *",
		WeeklyBriefSchedule: "0 7 * * 1",
	}}

	// 2026-08-28 is a Friday
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)

	daily, err := s.nextRun(model.KindDailyBrief, now)
	if err != nil {
		t.Fatalf("next daily run: %v", err)
	}
	wantDaily := time.Date(2026, 8, 29, 6, 0, 0, 0, time.UTC)
	if !daily.Equal(wantDaily) {
		t.Fatalf("next daily run = %v, want %v", daily, wantDaily)
	}

	weekly, err := s.nextRun(model.KindWeeklyBrief, now)
	if err != nil {
		t.Fatalf("next weekly run: %v", err)
	}
	wantWeekly := time.Date(2026, 8, 31, 7, 0, 0, 0, time.UTC)
	if !weekly.Equal(wantWeekly) {
		t.Fatalf("next weekly run = %v, want %v", weekly, wantWeekly)
	}
}

func TestNextRunBadExpression(t *testing.T) {
	s := &Scheduler{cfg: &config.Config{DailyBriefSchedule: "not a cron"}}

	if _, err := s.nextRun(model.KindDailyBrief, time.Now()); err == nil {
		t.Fatal("expected parse error")
	}
}
