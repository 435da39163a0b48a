package analytics

import (
	"fmt"
	"time"

	"github.com/hangrmap/hangrmap-backend/internal/drops"
	"github.com/hangrmap/hangrmap-backend/pkg/enums"
)

// Fallback map center used when no drop matches a selector.
const (
	FallbackCenterLat = 34.0522
	FallbackCenterLng = -118.2437
)

// StatusCounts tallies drops per status. Every known status is present in
// the result, zero-valued when unused.
func StatusCounts(rows []drops.DropDTO) map[enums.DropStatus]int {
	counts := map[enums.DropStatus]int{
		enums.DropStatusDropped:        0,
		enums.DropStatusSkipped:        0,
		enums.DropStatusNoSoliciting:   0,
		enums.DropStatusExistingClient: 0,
	}
	for _, d := range rows {
		counts[d.Status]++
	}
	return counts
}

// DropsToday counts drops stamped within the calendar day containing now,
// evaluated in now's location.
func DropsToday(rows []drops.DropDTO, now time.Time) int {
	loc := now.Location()
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	end := start.AddDate(0, 0, 1)
	return countBetween(rows, start, end)
}

// DropsThisMonth counts drops stamped within the calendar month containing
// now, evaluated in now's location.
func DropsThisMonth(rows []drops.DropDTO, now time.Time) int {
	loc := now.Location()
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc)
	end := start.AddDate(0, 1, 0)
	return countBetween(rows, start, end)
}

func countBetween(rows []drops.DropDTO, start, end time.Time) int {
	count := 0
	for _, d := range rows {
		ts := d.Timestamp.In(start.Location())
		if !ts.Before(start) && ts.Before(end) {
			count++
		}
	}
	return count
}

// ConversionRate formats leads/drops as a percentage with one decimal.
// Zero drops yields "0.0" rather than a division error.
func ConversionRate(leadCount, dropCount int) string {
	if dropCount == 0 {
		return "0.0"
	}
	return fmt.Sprintf("%.1f", float64(leadCount)/float64(dropCount)*100)
}

// CampaignDrops filters drops attributed to the given campaign, preserving
// order.
func CampaignDrops(rows []drops.DropDTO, campaignID string) []drops.DropDTO {
	out := make([]drops.DropDTO, 0)
	for _, d := range rows {
		if d.CampaignID == campaignID {
			out = append(out, d)
		}
	}
	return out
}

// MapCenter picks the first drop matching the campaign, or the fixed
// fallback when none matches.
func MapCenter(rows []drops.DropDTO, campaignID string) (float64, float64) {
	for _, d := range rows {
		if campaignID == "" || d.CampaignID == campaignID {
			return d.Lat, d.Lng
		}
	}
	return FallbackCenterLat, FallbackCenterLng
}
