package valueobject

import "testing"

func TestParseAdsenseStatus(t *testing.T) {
	tests := []struct {
		raw     string
		want    AdsenseStatus
		wantErr bool
	}{
		{"", AdsenseNone, false},
		{" Banned ", AdsenseBanned, false},
		{"limited", AdsenseLimited, false},
		{"suspended", "", true},
	}

	for _, tt := range tests {
		got, err := ParseAdsenseStatus(tt.raw)
		if (err != nil) != tt.wantErr {
			t.Fatalf("ParseAdsenseStatus(%q) err = %v", tt.raw, err)
		}
		if got != tt.want {
			t.Errorf("ParseAdsenseStatus(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

func TestHealthStatusWorse(t *testing.T) {
	if HealthGood.Worse(HealthWarning) != HealthWarning {
		t.Error("warning should beat good")
	}
	if HealthDanger.Worse(HealthWarning) != HealthDanger {
		t.Error("danger should stay danger")
	}
}

func TestBillingCycleMonthly(t *testing.T) {
	if got := BillingYearly.MonthlyCents(1200); got != 100 {
		t.Errorf("yearly = %d", got)
	}
	if got := BillingOnce.MonthlyCents(5000); got != 0 {
		t.Errorf("once = %d", got)
	}
	if got := BillingMonthly.MonthlyCents(999); got != 999 {
		t.Errorf("monthly = %d", got)
	}
}
