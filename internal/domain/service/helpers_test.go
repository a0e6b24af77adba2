package service

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/paradoxie/niche-dashboard/internal/domain/entity"
	"github.com/paradoxie/niche-dashboard/internal/domain/valueobject"
)

var testNow = time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)

var englishLabels = map[string]string{
	KeyNever:                 "never",
	KeyToday:                 "today",
	KeyYesterday:             "yesterday",
	KeyDaysAgo:               "{{count}} days ago",
	KeyWeeksAgo:              "{{count}} weeks ago",
	KeyMonthsAgo:             "{{count}} months ago",
	KeyYearsAgo:              "{{count}} years ago",
	KeyExpiryNotSet:          "not set",
	KeyExpired:               "expired",
	KeyDaysLeftUrgent:        "⚠ {{count}} days left",
	KeyDaysLeft:              "{{count}} days left",
	KeyMonthsLeft:            "{{count}} months left",
	KeyYearsPart:             "{{count}}年",
	KeyMonthsPart:            "{{count}}月",
	KeyDaysPart:              "{{count}}日",
	KeyNotLaunched:           "not launched",
	KeyLaunchFull:            "{{years}} years {{months}} months {{days}} days",
	KeyLaunchMonths:          "{{months}} months {{days}} days",
	KeyLaunchDays:            "{{days}} total days",
	ReasonDomainExpired:      "domain expired",
	ReasonDomainExpiring:     "domain expires in {{days}} days",
	ReasonDomainExpiringSoon: "domain expires soon ({{days}} days)",
	ReasonStaleLong:          "no updates for {{days}} days",
	ReasonStaleMedium:        "quiet for {{days}} days",
	ReasonAdsenseBanned:      "AdSense banned",
	ReasonAdsenseLimited:     "AdSense limited",
}

func englishLookup(key string, params map[string]any) string {
	text, ok := englishLabels[key]
	if !ok {
		return key
	}
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		text = strings.ReplaceAll(text, "{{"+k+"}}", fmt.Sprint(params[k]))
	}
	return text
}

func at(t time.Time) *time.Time { return &t }

type projectOpts struct {
	expiry  *time.Time
	last    *time.Time
	adsense valueobject.AdsenseStatus
	launch  *time.Time
}

func makeProject(o projectOpts) *entity.Project {
	return entity.ReconstructProject(entity.ProjectState{
		ID:               "p1",
		Name:             "Test",
		Domain:           "test.com",
		AdsenseStatus:    o.adsense,
		DomainExpiry:     o.expiry,
		LastManualUpdate: o.last,
		LaunchedAt:       o.launch,
	})
}
