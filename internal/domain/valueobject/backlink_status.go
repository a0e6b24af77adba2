package valueobject

import (
	"fmt"
	"strings"
)

type BacklinkStatus string

const (
	BacklinkPlanned  BacklinkStatus = "planned"
	BacklinkOutreach BacklinkStatus = "outreach"
	BacklinkLive     BacklinkStatus = "live"
	BacklinkRemoved  BacklinkStatus = "removed"
)

func ParseBacklinkStatus(raw string) (BacklinkStatus, error) {
	status := BacklinkStatus(strings.ToLower(strings.TrimSpace(raw)))
	if status == "" {
		return BacklinkPlanned, nil
	}
	switch status {
	case BacklinkPlanned, BacklinkOutreach, BacklinkLive, BacklinkRemoved:
		return status, nil
	default:
		return "", fmt.Errorf("invalid backlink status: %q", raw)
	}
}

func AllBacklinkStatuses() []BacklinkStatus {
	return []BacklinkStatus{BacklinkPlanned, BacklinkOutreach, BacklinkLive, BacklinkRemoved}
}
