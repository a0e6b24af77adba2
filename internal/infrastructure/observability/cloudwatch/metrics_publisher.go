package cloudwatch

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"

	"github.com/paradoxie/niche-dashboard/internal/application/dto"
	appconfig "github.com/paradoxie/niche-dashboard/pkg/config"
	"github.com/paradoxie/niche-dashboard/pkg/logger"
)

const (
	// CloudWatch limits
	maxMetricsPerRequest = 1000
	maxRetries           = 3
	initialBackoff       = 100 * time.Millisecond
)

// Имена метрик портфеля
const (
	MetricProjectsTotal   = "ProjectsTotal"
	MetricProjectsGood    = "ProjectsGood"
	MetricProjectsWarning = "ProjectsWarning"
	MetricProjectsDanger  = "ProjectsDanger"
)

// putMetricDataAPI - часть cloudwatch.Client, используемая publisher'ом
type putMetricDataAPI interface {
	PutMetricData(ctx context.Context, params *cloudwatch.PutMetricDataInput, optFns ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricDataOutput, error)
}

// MetricsPublisher publishes health rollups to AWS CloudWatch.
type MetricsPublisher struct {
	client            putMetricDataAPI
	namespace         string
	defaultDimensions map[string]string
	storageResolution int32
	logger            *logger.Logger

	buffer     []types.MetricDatum
	bufferSize int
	mu         sync.Mutex

	flushTicker *time.Ticker
	stopCh      chan struct{}
	stopOnce    sync.Once
	wg          sync.WaitGroup
}

// NewMetricsPublisher creates a new CloudWatch metrics publisher.
func NewMetricsPublisher(ctx context.Context, cfg appconfig.CloudWatchConfig, log *logger.Logger) (*MetricsPublisher, error) {
	if cfg.Namespace == "" {
		return nil, fmt.Errorf("namespace is required")
	}
	if cfg.Region == "" {
		return nil, fmt.Errorf("region is required")
	}

	awsCfg, err := buildAWSConfig(ctx, cfg.Region, cfg.Endpoint, cfg.AccessKeyID, cfg.SecretAccessKey)
	if err != nil {
		return nil, fmt.Errorf("failed to build AWS config: %w", err)
	}

	return newMetricsPublisher(cloudwatch.NewFromConfig(awsCfg), cfg, log), nil
}

func newMetricsPublisher(client putMetricDataAPI, cfg appconfig.CloudWatchConfig, log *logger.Logger) *MetricsPublisher {
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = 100
	}
	if cfg.FlushInterval <= 0 {
		cfg.FlushInterval = time.Minute
	}
	if cfg.StorageResolution != 1 && cfg.StorageResolution != 60 {
		cfg.StorageResolution = 60 // Default to standard resolution
	}

	p := &MetricsPublisher{
		client:            client,
		namespace:         cfg.Namespace,
		defaultDimensions: cfg.Dimensions,
		storageResolution: cfg.StorageResolution,
		logger:            log,
		buffer:            make([]types.MetricDatum, 0, cfg.BufferSize),
		bufferSize:        cfg.BufferSize,
		flushTicker:       time.NewTicker(cfg.FlushInterval),
		stopCh:            make(chan struct{}),
	}

	p.wg.Add(1)
	go p.flushLoop()

	return p
}

// PublishHealthRollup буферизует счетчики проектов по статусам.
func (p *MetricsPublisher) PublishHealthRollup(ctx context.Context, rollup dto.HealthRollup) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.buffer = append(p.buffer, p.rollupToData(rollup)...)

	if len(p.buffer) >= p.bufferSize {
		if err := p.flushBufferUnsafe(ctx); err != nil {
			return fmt.Errorf("failed to flush buffer: %w", err)
		}
	}

	return nil
}

// Flush forces immediate publication of all buffered metrics.
func (p *MetricsPublisher) Flush(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.flushBufferUnsafe(ctx)
}

// Close stops the background flush goroutine and flushes remaining metrics.
func (p *MetricsPublisher) Close(ctx context.Context) error {
	p.stopOnce.Do(func() {
		close(p.stopCh)
		p.flushTicker.Stop()
	})
	p.wg.Wait()

	return p.Flush(ctx)
}

func (p *MetricsPublisher) flushLoop() {
	defer p.wg.Done()

	for {
		select {
		case <-p.flushTicker.C:
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			if err := p.Flush(ctx); err != nil {
				// повторим на следующем тике
				p.logger.Warn("CloudWatch flush failed", "error", err.Error())
			}
			cancel()
		case <-p.stopCh:
			return
		}
	}
}

// flushBufferUnsafe flushes the buffer without locking (caller must hold lock).
func (p *MetricsPublisher) flushBufferUnsafe(ctx context.Context) error {
	if len(p.buffer) == 0 {
		return nil
	}

	// Publish in chunks (CloudWatch limit: 1000 metrics/request)
	for i := 0; i < len(p.buffer); i += maxMetricsPerRequest {
		end := i + maxMetricsPerRequest
		if end > len(p.buffer) {
			end = len(p.buffer)
		}

		if err := p.publishBatchWithRetry(ctx, p.buffer[i:end]); err != nil {
			// опубликованные чанки убираем, остальное ждет следующего flush
			p.buffer = append(p.buffer[:0], p.buffer[i:]...)
			return fmt.Errorf("failed to publish chunk: %w", err)
		}
	}

	p.buffer = p.buffer[:0]
	return nil
}

// publishBatchWithRetry publishes a batch of metrics with exponential backoff retry.
func (p *MetricsPublisher) publishBatchWithRetry(ctx context.Context, data []types.MetricDatum) error {
	var lastErr error
	backoff := initialBackoff

	for attempt := 0; attempt < maxRetries; attempt++ {
		input := &cloudwatch.PutMetricDataInput{
			Namespace:  aws.String(p.namespace),
			MetricData: append([]types.MetricDatum(nil), data...),
		}

		_, err := p.client.PutMetricData(ctx, input)
		if err == nil {
			return nil
		}

		lastErr = err

		if attempt < maxRetries-1 {
			select {
			case <-time.After(backoff):
				backoff *= 2
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}

	return fmt.Errorf("failed after %d retries: %w", maxRetries, lastErr)
}

// rollupToData превращает rollup в четыре datum'а с общими измерениями
func (p *MetricsPublisher) rollupToData(rollup dto.HealthRollup) []types.MetricDatum {
	timestamp := rollup.Timestamp
	if timestamp.IsZero() {
		timestamp = time.Now().UTC()
	}

	values := []struct {
		name  string
		value int
	}{
		{MetricProjectsTotal, rollup.Good + rollup.Warning + rollup.Danger},
		{MetricProjectsGood, rollup.Good},
		{MetricProjectsWarning, rollup.Warning},
		{MetricProjectsDanger, rollup.Danger},
	}

	dimensions := p.dimensions()
	data := make([]types.MetricDatum, 0, len(values))
	for _, v := range values {
		datum := types.MetricDatum{
			MetricName: aws.String(v.name),
			Value:      aws.Float64(float64(v.value)),
			Unit:       types.StandardUnitCount,
			Timestamp:  aws.Time(timestamp),
			Dimensions: dimensions,
		}
		if p.storageResolution > 0 {
			datum.StorageResolution = aws.Int32(p.storageResolution)
		}
		data = append(data, datum)
	}
	return data
}

// dimensions возвращает измерения по умолчанию в стабильном порядке
func (p *MetricsPublisher) dimensions() []types.Dimension {
	keys := make([]string, 0, len(p.defaultDimensions))
	for key := range p.defaultDimensions {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	dimensions := make([]types.Dimension, 0, len(keys))
	for _, key := range keys {
		dimensions = append(dimensions, types.Dimension{
			Name:  aws.String(key),
			Value: aws.String(p.defaultDimensions[key]),
		})
	}
	return dimensions
}

// buildAWSConfig creates an AWS config with credentials.
func buildAWSConfig(ctx context.Context, region, endpoint, accessKeyID, secretAccessKey string) (aws.Config, error) {
	optFns := []func(*config.LoadOptions) error{
		config.WithRegion(region),
	}

	if accessKeyID != "" && secretAccessKey != "" {
		optFns = append(optFns, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(accessKeyID, secretAccessKey, ""),
		))
	}

	cfg, err := config.LoadDefaultConfig(ctx, optFns...)
	if err != nil {
		return aws.Config{}, err
	}

	// Override endpoint if specified (for LocalStack testing)
	if endpoint != "" {
		cfg.BaseEndpoint = aws.String(endpoint)
	}

	return cfg, nil
}
