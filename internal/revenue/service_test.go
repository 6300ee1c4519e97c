package revenue

import (
	"context"
	"errors"
	"testing"
	"time"
)

func newTestService(t *testing.T, now time.Time) (*Service, *InMemory) {
	t.Helper()
	store := NewInMemory()
	svc, err := NewService(store)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	svc.now = func() time.Time { return now }
	return svc, store
}

func TestRecordDefaultsCurrency(t *testing.T) {
	svc, _ := newTestService(t, time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC))
	e, err := svc.Record(context.Background(), Input{TalentID: "t1", Platform: "fansly", RevenueType: "subscription", Amount: 1250.50}, "actor-1")
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if e.Currency != DefaultCurrency {
		t.Fatalf("expected %q, got %q", DefaultCurrency, e.Currency)
	}
	if e.RecordedBy != "actor-1" {
		t.Fatalf("recorded_by not stamped")
	}
}

func TestRecordValidation(t *testing.T) {
	svc, _ := newTestService(t, time.Now())
	ctx := context.Background()
	cases := []Input{
		{Platform: "fansly", RevenueType: "tips", Amount: 10},
		{TalentID: "t1", RevenueType: "tips", Amount: 10},
		{TalentID: "t1", Platform: "fansly", Amount: 10},
		{TalentID: "t1", Platform: "fansly", RevenueType: "tips"},
		{TalentID: "t1", Platform: "fansly", RevenueType: "tips", Amount: -5},
	}
	for _, input := range cases {
		if _, err := svc.Record(ctx, input, "actor-1"); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("input %+v: expected ErrInvalidInput, got %v", input, err)
		}
	}
}

func TestMonthStartUTC(t *testing.T) {
	in := time.Date(2026, 3, 15, 23, 45, 0, 0, time.FixedZone("plus5", 5*3600))
	got := MonthStartUTC(in)
	want := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("MonthStartUTC = %v, want %v", got, want)
	}
}

func TestSummarizeCountsOnlyCurrentMonth(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	svc, store := newTestService(t, now)
	ctx := context.Background()

	if _, err := svc.Record(ctx, Input{TalentID: "t1", Platform: "fansly", RevenueType: "subscription", Amount: 1250.50}, "actor-1"); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if _, err := svc.Record(ctx, Input{TalentID: "t1", Platform: "onlyfans", RevenueType: "tips", Amount: 200}, "actor-1"); err != nil {
		t.Fatalf("Record: %v", err)
	}
	// Entry recorded last month must stay out of the month-to-date totals.
	store.CreateRevenueEntry(ctx, &Entry{
		ID: "old", TalentID: "t1", Platform: "fansly", RevenueType: "subscription",
		Amount: 999, Currency: DefaultCurrency,
		RecordedAt: time.Date(2026, 2, 27, 12, 0, 0, 0, time.UTC),
	})

	summary, err := svc.Summarize(ctx)
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if summary.TotalMTD != 1450.50 {
		t.Fatalf("total_mtd = %v, want 1450.50", summary.TotalMTD)
	}
	if len(summary.ByPlatform) != 2 || len(summary.ByType) != 2 {
		t.Fatalf("unexpected buckets: %+v", summary)
	}
	if summary.ByPlatform[0].Platform != "fansly" || summary.ByPlatform[0].Total != 1250.50 {
		t.Fatalf("unexpected platform bucket: %+v", summary.ByPlatform[0])
	}
	if !summary.MonthStart.Equal(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("month_start = %v", summary.MonthStart)
	}
}

func TestEntryRecordedAtMonthBoundaryCounts(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	svc, store := newTestService(t, now)
	ctx := context.Background()

	store.CreateRevenueEntry(ctx, &Entry{
		ID: "boundary", TalentID: "t1", Platform: "fansly", RevenueType: "tips",
		Amount: 10, Currency: DefaultCurrency,
		RecordedAt: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
	})
	summary, err := svc.Summarize(ctx)
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if summary.TotalMTD != 10 {
		t.Fatalf("entry at exact month start must count, got %v", summary.TotalMTD)
	}
}

func TestListFilters(t *testing.T) {
	svc, _ := newTestService(t, time.Now())
	ctx := context.Background()

	svc.Record(ctx, Input{TalentID: "t1", PersonaID: "p1", Platform: "fansly", RevenueType: "tips", Amount: 10}, "a")
	svc.Record(ctx, Input{TalentID: "t1", PersonaID: "p2", Platform: "onlyfans", RevenueType: "tips", Amount: 20}, "a")
	svc.Record(ctx, Input{TalentID: "t2", PersonaID: "p3", Platform: "fansly", RevenueType: "tips", Amount: 30}, "a")

	byTalent, err := svc.List(ctx, Filter{TalentID: "t1"})
	if err != nil || len(byTalent) != 2 {
		t.Fatalf("by talent: %d, err %v", len(byTalent), err)
	}
	byPlatform, err := svc.List(ctx, Filter{Platform: "fansly"})
	if err != nil || len(byPlatform) != 2 {
		t.Fatalf("by platform: %d, err %v", len(byPlatform), err)
	}
	byPersona, err := svc.List(ctx, Filter{PersonaID: "p2"})
	if err != nil || len(byPersona) != 1 {
		t.Fatalf("by persona: %d, err %v", len(byPersona), err)
	}
}
