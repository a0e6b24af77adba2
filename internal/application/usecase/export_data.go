package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/paradoxie/niche-dashboard/internal/application/dto"
	"github.com/paradoxie/niche-dashboard/internal/application/port"
	"github.com/paradoxie/niche-dashboard/internal/domain/entity"
	"github.com/paradoxie/niche-dashboard/internal/domain/repository"
	"github.com/paradoxie/niche-dashboard/internal/domain/service"
	"github.com/paradoxie/niche-dashboard/pkg/logger"
)

type ExportDataConfig struct {
	KeyPrefix string
}

// ExportDataUseCase выгружает все данные; при наличии хранилища кладет копию в S3
type ExportDataUseCase struct {
	repository repository.SnapshotRepository
	storage    port.BackupStorage
	clock      service.Clock
	config     ExportDataConfig
	logger     *logger.Logger
}

func NewExportDataUseCase(
	repository repository.SnapshotRepository,
	storage port.BackupStorage,
	clock service.Clock,
	config ExportDataConfig,
	log *logger.Logger,
) *ExportDataUseCase {
	return &ExportDataUseCase{
		repository: repository,
		storage:    storage,
		clock:      clock,
		config:     config,
		logger:     log,
	}
}

func (uc *ExportDataUseCase) Execute(ctx context.Context) (*dto.ExportResult, error) {
	snapshot, err := uc.repository.Export(ctx)
	if err != nil {
		uc.logger.Error("Failed to export data", err)
		return nil, fmt.Errorf("failed to export data: %w", err)
	}

	exportedAt := uc.clock.Now().UTC()
	doc := NewExportDocument(snapshot, exportedAt)
	result := &dto.ExportResult{Document: doc}

	if uc.storage == nil {
		return result, nil
	}

	body, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to encode export: %w", err)
	}

	key := uc.buildS3Key(exportedAt)
	url, err := uc.storage.PutObject(ctx, key, "application/json", body)
	if err != nil {
		uc.logger.Error("Failed to upload export backup", err, "key", key)
		return nil, fmt.Errorf("failed to upload export backup: %w", err)
	}

	uc.logger.Info("Export backup uploaded", "key", key, "bytes", len(body))
	result.BackupKey = key
	result.BackupURL = url
	return result, nil
}

// ListBackups возвращает последние выгрузки из хранилища (пусто, если S3 не настроен)
func (uc *ExportDataUseCase) ListBackups(ctx context.Context, limit int) ([]port.BackupObject, error) {
	if uc.storage == nil {
		return []port.BackupObject{}, nil
	}

	objects, err := uc.storage.ListObjects(ctx, uc.exportsPrefix(), limit)
	if err != nil {
		uc.logger.Error("Failed to list export backups", err)
		return nil, fmt.Errorf("failed to list export backups: %w", err)
	}
	return objects, nil
}

func (uc *ExportDataUseCase) exportsPrefix() string {
	prefix := strings.Trim(uc.config.KeyPrefix, "/")
	if prefix == "" {
		prefix = "niche-dashboard"
	}
	return prefix + "/exports/"
}

func (uc *ExportDataUseCase) buildS3Key(exportedAt time.Time) string {
	timestamp := exportedAt.Format("20060102T150405Z")
	datePrefix := exportedAt.Format("2006/01/02")

	return fmt.Sprintf("%s%s/%s.json", uc.exportsPrefix(), datePrefix, timestamp)
}

// NewExportDocument конвертирует снимок хранилища в документ выгрузки
func NewExportDocument(snapshot *repository.Snapshot, exportedAt time.Time) *dto.ExportDocument {
	projects := make([]entity.ProjectState, len(snapshot.Projects))
	for i, p := range snapshot.Projects {
		projects[i] = p.State()
	}

	return &dto.ExportDocument{
		Version:      dto.ExportFormatVersion,
		ExportedAt:   exportedAt,
		Projects:     projects,
		Backlinks:    nonNil(snapshot.Backlinks),
		Resources:    nonNil(snapshot.Resources),
		Expenses:     nonNil(snapshot.Expenses),
		Tools:        nonNil(snapshot.Tools),
		Presets:      nonNil(snapshot.Presets),
		GithubPushes: nonNil(snapshot.GithubPushes),
	}
}

// nonNil: пустые таблицы выгружаются как [], а не null
func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
