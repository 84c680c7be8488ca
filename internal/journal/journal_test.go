package journal

import (
	"path/filepath"
	"testing"
)

func openTestJournal(t *testing.T) *Journal {
	t.Helper()
	j, err := Open(filepath.Join(t.TempDir(), "journal.db"), func() (int, int) { return 9, 30 })
	if err != nil {
		t.Fatalf("open journal: %v", err)
	}
	t.Cleanup(func() { j.Close() })
	return j
}

func TestRecordAndRecent(t *testing.T) {
	j := openTestJournal(t)

	j.Record("villager.food_provider", "start", "started activity.working")
	j.Record("villager.food_provider", "complete", "finished activity.working")

	entries, err := j.Recent(10)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	for _, e := range entries {
		if e.Villager != "villager.food_provider" {
			t.Fatalf("unexpected villager %q", e.Villager)
		}
		if e.SimHour != 9 || e.SimMinute != 30 {
			t.Fatalf("expected sim stamp 9:30, got %d:%02d", e.SimHour, e.SimMinute)
		}
		if e.ID == "" {
			t.Fatal("entry missing id")
		}
	}
}

func TestRecordTrade(t *testing.T) {
	j := openTestJournal(t)

	j.RecordTrade("villager.a", "villager.b", "resource.water", 1.5)

	trades, err := j.RecentTrades(10)
	if err != nil {
		t.Fatalf("recent trades: %v", err)
	}
	if len(trades) != 1 {
		t.Fatalf("expected 1 trade, got %d", len(trades))
	}
	tr := trades[0]
	if tr.Provider != "villager.b" || tr.Resource != "resource.water" || tr.Quantity != 1.5 {
		t.Fatalf("unexpected trade %+v", tr)
	}
}

func TestRecentLimit(t *testing.T) {
	j := openTestJournal(t)

	for i := 0; i < 10; i++ {
		j.Record("villager.a", "start", "entry")
	}
	entries, err := j.Recent(3)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected limit of 3, got %d", len(entries))
	}
}
