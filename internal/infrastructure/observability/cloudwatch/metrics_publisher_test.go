package cloudwatch

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"

	"github.com/paradoxie/niche-dashboard/internal/application/dto"
	appconfig "github.com/paradoxie/niche-dashboard/pkg/config"
	"github.com/paradoxie/niche-dashboard/pkg/logger"
)

type fakeCloudWatch struct {
	mu     sync.Mutex
	inputs []*cloudwatch.PutMetricDataInput
	fail   int
}

func (f *fakeCloudWatch) PutMetricData(_ context.Context, params *cloudwatch.PutMetricDataInput, _ ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricDataOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail > 0 {
		f.fail--
		return nil, errors.New("throttled")
	}
	f.inputs = append(f.inputs, params)
	return &cloudwatch.PutMetricDataOutput{}, nil
}

func (f *fakeCloudWatch) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.inputs)
}

func newTestPublisher(t *testing.T, client *fakeCloudWatch, bufferSize int) *MetricsPublisher {
	t.Helper()
	p := newMetricsPublisher(client, appconfig.CloudWatchConfig{
		Namespace:     "NicheDashboard/Portfolio",
		Dimensions:    map[string]string{"Service": "dashboard", "Env": "test"},
		BufferSize:    bufferSize,
		FlushInterval: time.Hour,
	}, logger.NewWithOptions("error", "text", io.Discard))
	t.Cleanup(func() { _ = p.Close(context.Background()) })
	return p
}

func TestRollupToData(t *testing.T) {
	p := &MetricsPublisher{
		defaultDimensions: map[string]string{"Service": "dashboard", "Env": "test"},
		storageResolution: 60,
	}
	ts := time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)

	data := p.rollupToData(dto.HealthRollup{Timestamp: ts, Good: 3, Warning: 2, Danger: 1})

	want := map[string]float64{
		MetricProjectsTotal:   6,
		MetricProjectsGood:    3,
		MetricProjectsWarning: 2,
		MetricProjectsDanger:  1,
	}
	if len(data) != len(want) {
		t.Fatalf("expected %d datums, got %d", len(want), len(data))
	}
	for _, datum := range data {
		name := aws.ToString(datum.MetricName)
		if got := aws.ToFloat64(datum.Value); got != want[name] {
			t.Errorf("%s: expected %v, got %v", name, want[name], got)
		}
		if datum.Unit != "Count" {
			t.Errorf("%s: expected Count unit, got %v", name, datum.Unit)
		}
		if !aws.ToTime(datum.Timestamp).Equal(ts) {
			t.Errorf("%s: unexpected timestamp %v", name, aws.ToTime(datum.Timestamp))
		}
		if aws.ToInt32(datum.StorageResolution) != 60 {
			t.Errorf("%s: expected resolution 60", name)
		}
		if len(datum.Dimensions) != 2 || aws.ToString(datum.Dimensions[0].Name) != "Env" {
			t.Errorf("%s: dimensions must be sorted by name, got %v", name, datum.Dimensions)
		}
	}
}

func TestPublishHealthRollup_BuffersUntilFlush(t *testing.T) {
	client := &fakeCloudWatch{}
	p := newTestPublisher(t, client, 100)
	ctx := context.Background()

	if err := p.PublishHealthRollup(ctx, dto.HealthRollup{Good: 1}); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if client.calls() != 0 {
		t.Fatalf("expected no calls before flush, got %d", client.calls())
	}

	if err := p.Flush(ctx); err != nil {
		t.Fatalf("flush: %v", err)
	}
	if client.calls() != 1 {
		t.Fatalf("expected 1 call, got %d", client.calls())
	}
	if got := aws.ToString(client.inputs[0].Namespace); got != "NicheDashboard/Portfolio" {
		t.Errorf("unexpected namespace %q", got)
	}
	if len(client.inputs[0].MetricData) != 4 {
		t.Errorf("expected 4 datums, got %d", len(client.inputs[0].MetricData))
	}

	// пустой буфер не публикуется
	if err := p.Flush(ctx); err != nil {
		t.Fatalf("flush: %v", err)
	}
	if client.calls() != 1 {
		t.Errorf("expected no extra call, got %d", client.calls())
	}
}

func TestPublishHealthRollup_AutoFlushWhenFull(t *testing.T) {
	client := &fakeCloudWatch{}
	p := newTestPublisher(t, client, 4)

	if err := p.PublishHealthRollup(context.Background(), dto.HealthRollup{Danger: 2}); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if client.calls() != 1 {
		t.Fatalf("expected auto flush, got %d calls", client.calls())
	}
}

func TestFlush_RetriesAndKeepsBufferOnFailure(t *testing.T) {
	client := &fakeCloudWatch{fail: maxRetries}
	p := newTestPublisher(t, client, 100)
	ctx := context.Background()

	if err := p.PublishHealthRollup(ctx, dto.HealthRollup{Warning: 1}); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if err := p.Flush(ctx); err == nil {
		t.Fatal("expected flush error after retries")
	}

	// после сбоя данные остаются в буфере
	if err := p.Flush(ctx); err != nil {
		t.Fatalf("second flush: %v", err)
	}
	if client.calls() != 1 || len(client.inputs[0].MetricData) != 4 {
		t.Errorf("expected buffered datums to be published once, got %d calls", client.calls())
	}
}
