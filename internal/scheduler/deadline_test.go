package scheduler

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mjnyampinga/Educational-File-Manager/internal/models"
)

type fakeFileRepo struct {
	files []models.File
}

func (r *fakeFileRepo) Create(ctx context.Context, file *models.File) error    { return nil }
func (r *fakeFileRepo) GetByID(ctx context.Context, id string) (*models.File, error) {
	return nil, nil
}
func (r *fakeFileRepo) GetByClassID(ctx context.Context, classID string) ([]models.File, error) {
	return nil, nil
}
func (r *fakeFileRepo) GetByHash(ctx context.Context, hash string) (*models.File, error) {
	return nil, nil
}
func (r *fakeFileRepo) Update(ctx context.Context, file *models.File) error      { return nil }
func (r *fakeFileRepo) UpdateStatus(ctx context.Context, id, status string) error { return nil }
func (r *fakeFileRepo) Delete(ctx context.Context, id string) error               { return nil }

func (r *fakeFileRepo) GetWithDeadlineBetween(ctx context.Context, from, to time.Time) ([]models.File, error) {
	var out []models.File
	for _, f := range r.files {
		if f.Deadline != nil && f.Deadline.After(from) && f.Deadline.Before(to) {
			out = append(out, f)
		}
	}
	return out, nil
}

type recordingBroadcaster struct {
	mu     sync.Mutex
	events []models.DeadlineEvent
}

func (b *recordingBroadcaster) Broadcast(event string, payload interface{}) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if evt, ok := payload.(models.DeadlineEvent); ok {
		b.events = append(b.events, evt)
	}
}

func TestSweepBroadcastsExpiredDeadlines(t *testing.T) {
	now := time.Now().UTC()
	expired := now.Add(-time.Minute)
	future := now.Add(time.Hour)

	repo := &fakeFileRepo{files: []models.File{
		{ID: "hw-1", Name: "Homework 1", ClassID: "class-1", Deadline: &expired},
		{ID: "hw-2", Name: "Homework 2", ClassID: "class-1", Deadline: &future},
	}}
	broadcaster := &recordingBroadcaster{}

	s := New(repo, broadcaster, "@every 1h", zerolog.Nop())
	s.lastRun = now.Add(-time.Hour)

	s.sweep()

	require.Len(t, broadcaster.events, 1)
	assert.Equal(t, "hw-1", broadcaster.events[0].FileID)
	assert.Equal(t, "class-1", broadcaster.events[0].ClassID)

	// Повторный проход: срок уже объявлен, второго события нет
	s.sweep()
	assert.Len(t, broadcaster.events, 1)
}
