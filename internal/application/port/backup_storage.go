package port

import (
	"context"
	"time"
)

// BackupObject - сохраненная выгрузка в объектном хранилище
type BackupObject struct {
	Key          string    `json:"key"`
	Size         int64     `json:"size"`
	LastModified time.Time `json:"last_modified"`
	URL          string    `json:"url"`
}

// BackupStorage определяет хранилище для JSON-выгрузок.
type BackupStorage interface {
	// PutObject загружает объект и возвращает URL для чтения.
	PutObject(ctx context.Context, key, contentType string, body []byte) (string, error)

	// ListObjects возвращает объекты под префиксом, новые первыми.
	ListObjects(ctx context.Context, prefix string, limit int) ([]BackupObject, error)
}
