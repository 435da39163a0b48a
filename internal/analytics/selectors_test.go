package analytics

import (
	"testing"
	"time"

	"github.com/hangrmap/hangrmap-backend/internal/drops"
	"github.com/hangrmap/hangrmap-backend/pkg/enums"
)

func dropAt(ts time.Time, status enums.DropStatus) drops.DropDTO {
	return drops.DropDTO{Status: status, Timestamp: ts}
}

func TestStatusCounts_SeedsEveryStatus(t *testing.T) {
	counts := StatusCounts(nil)
	if len(counts) != 4 {
		t.Fatalf("expected 4 statuses, got %d", len(counts))
	}
	for status, n := range counts {
		if n != 0 {
			t.Fatalf("expected zero count for %s, got %d", status, n)
		}
	}
}

func TestStatusCounts_Tallies(t *testing.T) {
	now := time.Now()
	rows := []drops.DropDTO{
		dropAt(now, enums.DropStatusDropped),
		dropAt(now, enums.DropStatusDropped),
		dropAt(now, enums.DropStatusSkipped),
		dropAt(now, enums.DropStatusNoSoliciting),
	}
	counts := StatusCounts(rows)
	if counts[enums.DropStatusDropped] != 2 {
		t.Fatalf("expected 2 dropped, got %d", counts[enums.DropStatusDropped])
	}
	if counts[enums.DropStatusSkipped] != 1 {
		t.Fatalf("expected 1 skipped, got %d", counts[enums.DropStatusSkipped])
	}
	if counts[enums.DropStatusExistingClient] != 0 {
		t.Fatalf("expected 0 existing_client, got %d", counts[enums.DropStatusExistingClient])
	}
}

func TestDropsToday_CalendarWindow(t *testing.T) {
	loc, err := time.LoadLocation("America/Los_Angeles")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}
	now := time.Date(2026, 3, 15, 14, 0, 0, 0, loc)

	rows := []drops.DropDTO{
		dropAt(time.Date(2026, 3, 15, 0, 0, 0, 0, loc), enums.DropStatusDropped),
		dropAt(time.Date(2026, 3, 15, 23, 59, 59, 0, loc), enums.DropStatusDropped),
		dropAt(time.Date(2026, 3, 14, 23, 59, 59, 0, loc), enums.DropStatusDropped),
		dropAt(time.Date(2026, 3, 16, 0, 0, 0, 0, loc), enums.DropStatusDropped),
	}
	if got := DropsToday(rows, now); got != 2 {
		t.Fatalf("expected 2 drops today, got %d", got)
	}
}

func TestDropsToday_EvaluatesInNowLocation(t *testing.T) {
	loc, err := time.LoadLocation("America/Los_Angeles")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}
	// 06:00 UTC on March 15 is still March 14 in Los Angeles.
	rows := []drops.DropDTO{
		dropAt(time.Date(2026, 3, 15, 6, 0, 0, 0, time.UTC), enums.DropStatusDropped),
	}
	now := time.Date(2026, 3, 15, 14, 0, 0, 0, loc)
	if got := DropsToday(rows, now); got != 0 {
		t.Fatalf("expected drop to land on the previous local day, got %d", got)
	}
	if got := DropsToday(rows, time.Date(2026, 3, 14, 14, 0, 0, 0, loc)); got != 1 {
		t.Fatalf("expected drop counted on March 14 local, got %d", got)
	}
}

func TestDropsThisMonth_CalendarWindow(t *testing.T) {
	now := time.Date(2026, 2, 10, 9, 0, 0, 0, time.UTC)
	rows := []drops.DropDTO{
		dropAt(time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC), enums.DropStatusDropped),
		dropAt(time.Date(2026, 2, 28, 23, 0, 0, 0, time.UTC), enums.DropStatusDropped),
		dropAt(time.Date(2026, 1, 31, 23, 59, 0, 0, time.UTC), enums.DropStatusDropped),
		dropAt(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), enums.DropStatusDropped),
	}
	if got := DropsThisMonth(rows, now); got != 2 {
		t.Fatalf("expected 2 drops this month, got %d", got)
	}
}

func TestConversionRate_Formats(t *testing.T) {
	cases := []struct {
		leads, drops int
		want         string
	}{
		{0, 0, "0.0"},
		{5, 0, "0.0"},
		{1, 4, "25.0"},
		{1, 3, "33.3"},
		{3, 3, "100.0"},
		{0, 10, "0.0"},
	}
	for _, tc := range cases {
		if got := ConversionRate(tc.leads, tc.drops); got != tc.want {
			t.Fatalf("ConversionRate(%d, %d) = %q, want %q", tc.leads, tc.drops, got, tc.want)
		}
	}
}

func TestCampaignDrops_Filters(t *testing.T) {
	rows := []drops.DropDTO{
		{CampaignID: "a", Address: "1 First St"},
		{CampaignID: "b", Address: "2 Second St"},
		{CampaignID: "a", Address: "3 Third St"},
		{CampaignID: "", Address: "4 Fourth St"},
	}
	got := CampaignDrops(rows, "a")
	if len(got) != 2 {
		t.Fatalf("expected 2 drops, got %d", len(got))
	}
	if got[0].Address != "1 First St" || got[1].Address != "3 Third St" {
		t.Fatalf("expected order preserved, got %+v", got)
	}
}

func TestMapCenter_FirstMatch(t *testing.T) {
	rows := []drops.DropDTO{
		{CampaignID: "a", Lat: 40.7, Lng: -74.0},
		{CampaignID: "b", Lat: 41.8, Lng: -87.6},
	}
	lat, lng := MapCenter(rows, "b")
	if lat != 41.8 || lng != -87.6 {
		t.Fatalf("expected campaign b center, got %f,%f", lat, lng)
	}

	lat, lng = MapCenter(rows, "")
	if lat != 40.7 || lng != -74.0 {
		t.Fatalf("expected first drop for empty selector, got %f,%f", lat, lng)
	}
}

func TestMapCenter_Fallback(t *testing.T) {
	lat, lng := MapCenter(nil, "")
	if lat != FallbackCenterLat || lng != FallbackCenterLng {
		t.Fatalf("expected fallback center, got %f,%f", lat, lng)
	}

	rows := []drops.DropDTO{{CampaignID: "a", Lat: 40.7, Lng: -74.0}}
	lat, lng = MapCenter(rows, "missing")
	if lat != FallbackCenterLat || lng != FallbackCenterLng {
		t.Fatalf("expected fallback for unmatched campaign, got %f,%f", lat, lng)
	}
}
