package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/paradoxie/niche-dashboard/internal/application/dto"
	"github.com/paradoxie/niche-dashboard/internal/application/port"
	"github.com/paradoxie/niche-dashboard/internal/domain/service"
	"github.com/paradoxie/niche-dashboard/internal/infrastructure/persistence/memory"
	"github.com/paradoxie/niche-dashboard/pkg/logger"
)

var testNow = time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)

func daysAgo(n int) *time.Time {
	t := testNow.AddDate(0, 0, -n)
	return &t
}

func daysAhead(n int) *time.Time {
	t := testNow.AddDate(0, 0, n)
	return &t
}

// keyLocalizer рендерит "key(param=value,...)"
type keyLocalizer struct{}

func (keyLocalizer) Lookup(string) service.Lookup {
	return func(key string, params map[string]any) string {
		if len(params) == 0 {
			return key
		}
		parts := make([]string, 0, len(params))
		for k, v := range params {
			parts = append(parts, fmt.Sprintf("%s=%v", k, v))
		}
		sort.Strings(parts)
		return key + "(" + strings.Join(parts, ",") + ")"
	}
}

func (keyLocalizer) Resolve(candidates ...string) string { return "en" }

type mockCache struct {
	mu      sync.Mutex
	data    map[string][]byte
	deletes []string
	getErr  error
}

func newMockCache() *mockCache {
	return &mockCache{data: make(map[string][]byte)}
}

func (m *mockCache) Get(_ context.Context, key string, dest interface{}) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return false, m.getErr
	}
	raw, ok := m.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dest)
}

func (m *mockCache) Set(_ context.Context, key string, value interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.data[key] = raw
	return nil
}

func (m *mockCache) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	m.deletes = append(m.deletes, key)
	return nil
}

func (m *mockCache) DeletePattern(context.Context, string) error { return nil }
func (m *mockCache) Close() error                                { return nil }

type publishedEvent struct {
	subject string
	event   interface{}
}

type mockPublisher struct {
	mu     sync.Mutex
	events []publishedEvent
}

func (m *mockPublisher) PublishEvent(_ context.Context, subject string, event interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, publishedEvent{subject: subject, event: event})
	return nil
}

func (m *mockPublisher) Close() error { return nil }

func (m *mockPublisher) subjects() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]string, len(m.events))
	for i, e := range m.events {
		result[i] = e.subject
	}
	return result
}

// fixture собирает use cases поверх хранилища в памяти
type fixture struct {
	store     *memory.Store
	cache     *mockCache
	publisher *mockPublisher
	clock     service.Clock
	log       *logger.Logger
	notifier  *ChangeNotifier
	presenter *ProjectPresenter
	projects  *ManageProjectsUseCase
	list      *ListProjectsUseCase
	presets   *ManagePresetsUseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		store:     memory.NewStore(),
		cache:     newMockCache(),
		publisher: &mockPublisher{},
		clock:     service.FixedClock(testNow),
		log:       logger.NewWithOptions("error", "text", io.Discard),
	}
	f.notifier = NewChangeNotifier(f.cache, f.publisher, f.log)
	f.presenter = NewProjectPresenter(
		service.NewHealthClassifier(f.clock),
		service.NewTimeFormatter(f.clock),
		keyLocalizer{},
	)
	f.projects = NewManageProjectsUseCase(f.store.Projects(), f.presenter, f.clock, f.notifier, f.log)
	f.list = NewListProjectsUseCase(f.store.Projects(), f.presenter, f.log)
	f.presets = NewManagePresetsUseCase(f.store.Presets(), f.clock, f.notifier, f.log)
	return f
}

func (f *fixture) createProject(t *testing.T, input dto.ProjectInput) *dto.ProjectDTO {
	t.Helper()
	view, err := f.projects.Create(context.Background(), input, "en")
	require.NoError(t, err)
	return view
}

var _ port.Localizer = keyLocalizer{}
