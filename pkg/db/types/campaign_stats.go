package dbtypes

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// CampaignStats holds the server-maintained jsonb counters on a campaign row.
type CampaignStats struct {
	TotalDrops int64 `json:"total_drops"`
	Scans      int64 `json:"scans"`
	Leads      int64 `json:"leads"`
}

func (s *CampaignStats) Scan(src any) error {
	if src == nil {
		*s = CampaignStats{}
		return nil
	}

	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, s)
	case string:
		return json.Unmarshal([]byte(v), s)
	default:
		return fmt.Errorf("CampaignStats: unsupported Scan type %T", src)
	}
}

func (s CampaignStats) Value() (driver.Value, error) {
	return json.Marshal(s)
}
