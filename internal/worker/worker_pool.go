package worker

import (
	"sync"

	"github.com/rs/zerolog"
)

type Task func()

// Pool выполняет задания с ограниченным параллелизмом
type Pool struct {
	tasks      chan Task
	wg         sync.WaitGroup
	maxWorkers int
	logger     zerolog.Logger
}

func NewPool(maxWorkers int, logger zerolog.Logger) *Pool {
	if maxWorkers <= 0 {
		maxWorkers = 1
	}
	return &Pool{
		tasks:      make(chan Task, maxWorkers*10),
		maxWorkers: maxWorkers,
		logger:     logger,
	}
}

func (p *Pool) Start() {
	for i := 0; i < p.maxWorkers; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}

	p.logger.Debug().Int("workers", p.maxWorkers).Msg("Worker pool started")
}

func (p *Pool) Stop() {
	close(p.tasks)
	p.wg.Wait()

	p.logger.Debug().Msg("Worker pool stopped")
}

// Submit блокируется, пока в очереди не появится место: задание нельзя
// терять, иначе AMQP-доставка останется без ack и nack
func (p *Pool) Submit(task Task) {
	select {
	case p.tasks <- task:
	default:
		p.logger.Warn().Msg("Worker pool task queue is full, waiting")
		p.tasks <- task
	}
}

func (p *Pool) QueueLength() int {
	return len(p.tasks)
}

func (p *Pool) worker(id int) {
	defer p.wg.Done()

	for task := range p.tasks {
		func() {
			defer func() {
				if r := recover(); r != nil {
					p.logger.Error().
						Int("worker_id", id).
						Interface("panic", r).
						Msg("Worker recovered from panic")
				}
			}()

			task()
		}()
	}
}
