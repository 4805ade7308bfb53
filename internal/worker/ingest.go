package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/mjnyampinga/Educational-File-Manager/internal/models"
)

// Broadcaster доставляет события подключенным клиентам (см. ws.Hub)
type Broadcaster interface {
	Broadcast(event string, payload interface{})
}

// StatusStore запоминает статус обработки файла между доставками;
// реализуется кэшем Redis (internal/cache)
type StatusStore interface {
	GetFileStatus(ctx context.Context, fileID string) (string, error)
	SetFileStatus(ctx context.Context, fileID, status string) error
}

// ProcessFunc — точка расширения для реальной обработки файла
// (валидация формата, антивирус и т.п.). Выполняется между событиями
// "started" и "in progress".
type ProcessFunc func(ctx context.Context, job models.UploadJob) error

// Ingestor обрабатывает задания загрузки: для каждого задания рассылает
// последовательность событий started -> in progress -> complete (или failed).
// Доставка заданий at-least-once, поэтому обработчик идемпотентен: повторная
// доставка уже завершенного задания подтверждается без повторных событий.
type Ingestor struct {
	broadcaster Broadcaster
	statuses    StatusStore
	process     ProcessFunc
	logger      zerolog.Logger

	completed sync.Map // fileID -> struct{}
}

func NewIngestor(broadcaster Broadcaster, statuses StatusStore, process ProcessFunc, logger zerolog.Logger) *Ingestor {
	return &Ingestor{
		broadcaster: broadcaster,
		statuses:    statuses,
		process:     process,
		logger:      logger,
	}
}

// Handle реализует queue.Handler
func (i *Ingestor) Handle(ctx context.Context, body []byte) error {
	var job models.UploadJob
	if err := json.Unmarshal(body, &job); err != nil {
		return fmt.Errorf("failed to unmarshal upload job: %w", err)
	}

	if job.FileID == "" {
		return fmt.Errorf("upload job without file_id")
	}

	if i.isComplete(ctx, job.FileID) {
		// Повторная доставка уже обработанного задания — просто подтверждаем
		i.logger.Info().
			Str("file_id", job.FileID).
			Msg("Skipping already processed upload job")
		return nil
	}

	i.logger.Info().
		Str("file_id", job.FileID).
		Str("file_path", job.FilePath).
		Msg("Processing file upload")

	i.emit(job.FileID, models.ProgressStarted)

	if i.process != nil {
		if err := i.process(ctx, job); err != nil {
			i.emit(job.FileID, models.ProgressFailed)
			return fmt.Errorf("failed to process file %s: %w", job.FileID, err)
		}
	}

	i.emit(job.FileID, models.ProgressInProgress)
	i.emit(job.FileID, models.ProgressComplete)

	i.markComplete(ctx, job.FileID)

	return nil
}

func (i *Ingestor) emit(fileID string, status models.ProgressStatus) {
	i.broadcaster.Broadcast(models.EventFileUploadProgress, models.ProgressEvent{
		FileID: fileID,
		Status: status,
	})
}

func (i *Ingestor) isComplete(ctx context.Context, fileID string) bool {
	if _, ok := i.completed.Load(fileID); ok {
		return true
	}

	if i.statuses != nil {
		status, err := i.statuses.GetFileStatus(ctx, fileID)
		if err != nil {
			i.logger.Warn().Err(err).Str("file_id", fileID).Msg("Failed to check file status")
			return false
		}
		return status == models.FileStatusComplete.String()
	}

	return false
}

func (i *Ingestor) markComplete(ctx context.Context, fileID string) {
	i.completed.Store(fileID, struct{}{})

	if i.statuses != nil {
		if err := i.statuses.SetFileStatus(ctx, fileID, models.FileStatusComplete.String()); err != nil {
			i.logger.Warn().Err(err).Str("file_id", fileID).Msg("Failed to record file status")
		}
	}
}
