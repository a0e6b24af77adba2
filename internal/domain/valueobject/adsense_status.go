package valueobject

import (
	"fmt"
	"strings"
)

// AdsenseStatus - состояние модерации AdSense для проекта
type AdsenseStatus string

const (
	AdsenseNone      AdsenseStatus = "none"
	AdsenseReviewing AdsenseStatus = "reviewing"
	AdsenseRejected  AdsenseStatus = "rejected"
	AdsenseActive    AdsenseStatus = "active"
	AdsenseLimited   AdsenseStatus = "limited"
	AdsenseBanned    AdsenseStatus = "banned"
)

// ParseAdsenseStatus нормализует строку; пустое значение означает none
func ParseAdsenseStatus(raw string) (AdsenseStatus, error) {
	status := AdsenseStatus(strings.ToLower(strings.TrimSpace(raw)))
	if status == "" {
		return AdsenseNone, nil
	}
	if err := status.Validate(); err != nil {
		return "", err
	}
	return status, nil
}

func (s AdsenseStatus) Validate() error {
	switch s {
	case AdsenseNone, AdsenseReviewing, AdsenseRejected, AdsenseActive, AdsenseLimited, AdsenseBanned:
		return nil
	default:
		return fmt.Errorf("invalid adsense status: %q", string(s))
	}
}

func (s AdsenseStatus) String() string {
	return string(s)
}

func AllAdsenseStatuses() []AdsenseStatus {
	return []AdsenseStatus{AdsenseNone, AdsenseReviewing, AdsenseRejected, AdsenseActive, AdsenseLimited, AdsenseBanned}
}
