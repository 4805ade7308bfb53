package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/mjnyampinga/Educational-File-Manager/internal/models"
	"github.com/mjnyampinga/Educational-File-Manager/internal/repository"
)

// Broadcaster — канал оповещения подключенных клиентов
type Broadcaster interface {
	Broadcast(event string, payload interface{})
}

// DeadlineScheduler периодически находит задания, срок сдачи которых
// истек с прошлой проверки, и рассылает оповещения по push-каналу
type DeadlineScheduler struct {
	fileRepo    repository.FileRepository
	broadcaster Broadcaster
	cron        *cron.Cron
	schedule    string
	logger      zerolog.Logger

	mu      sync.Mutex
	lastRun time.Time
}

func New(fileRepo repository.FileRepository, broadcaster Broadcaster, schedule string, logger zerolog.Logger) *DeadlineScheduler {
	return &DeadlineScheduler{
		fileRepo:    fileRepo,
		broadcaster: broadcaster,
		cron:        cron.New(),
		schedule:    schedule,
		logger:      logger,
	}
}

func (s *DeadlineScheduler) Start() error {
	if _, err := s.cron.AddFunc(s.schedule, s.sweep); err != nil {
		return err
	}
	s.mu.Lock()
	s.lastRun = time.Now().UTC()
	s.mu.Unlock()
	s.cron.Start()
	s.logger.Info().Str("schedule", s.schedule).Msg("Deadline scheduler started")
	return nil
}

func (s *DeadlineScheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info().Msg("Deadline scheduler stopped")
}

func (s *DeadlineScheduler) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	now := time.Now().UTC()
	s.mu.Lock()
	from := s.lastRun
	s.lastRun = now
	s.mu.Unlock()

	// Сроки, истекшие с прошлой проверки
	files, err := s.fileRepo.GetWithDeadlineBetween(ctx, from, now)
	if err != nil {
		s.logger.Error().Err(err).Msg("Deadline sweep failed")
		return
	}

	for _, file := range files {
		if file.Deadline == nil {
			continue
		}
		s.broadcaster.Broadcast(models.EventAssignmentDeadline, models.DeadlineEvent{
			FileID:   file.ID,
			ClassID:  file.ClassID,
			Name:     file.Name,
			Deadline: file.Deadline.UTC().Format(time.RFC3339),
		})
	}

	if len(files) > 0 {
		s.logger.Info().Int("count", len(files)).Msg("Deadline reminders broadcast")
	}
}
