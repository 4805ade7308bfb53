package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"

	"github.com/mjnyampinga/Educational-File-Manager/internal/worker"
	"github.com/mjnyampinga/Educational-File-Manager/pkg/rabbitmq"
)

// Handler вызывается для каждого доставленного задания. Возврат nil
// подтверждает задание (ack); ошибка отправляет его в dead-letter очередь.
type Handler func(ctx context.Context, body []byte) error

type Config struct {
	URL            string
	Exchange       string
	Workers        int
	ConnectRetry   int
	ConnectDelay   time.Duration
	PublishTimeout time.Duration
}

// Queue — долговечная очередь заданий поверх RabbitMQ. Один обработчик на
// топик; доставка at-least-once, неподтвержденные задания попадают в DLQ.
type Queue struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
	config   Config
	logger   zerolog.Logger

	mu       sync.Mutex
	handlers map[string]Handler
	declared map[string]bool
	started  bool
}

func New(cfg Config, logger zerolog.Logger) (*Queue, error) {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.PublishTimeout <= 0 {
		cfg.PublishTimeout = 5 * time.Second
	}
	if cfg.ConnectRetry <= 0 {
		cfg.ConnectRetry = 1
	}

	conn, err := rabbitmq.NewConnectionWithRetry(cfg.URL, cfg.ConnectRetry, cfg.ConnectDelay)
	if err != nil {
		return nil, err
	}

	channel, err := rabbitmq.NewChannel(conn)
	if err != nil {
		conn.Close()
		return nil, err
	}

	// Основной exchange и exchange для dead-letter
	err = channel.ExchangeDeclare(
		cfg.Exchange, // name
		"direct",     // type
		true,         // durable
		false,        // auto-deleted
		false,        // internal
		false,        // no-wait
		nil,          // arguments
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	err = channel.ExchangeDeclare(
		cfg.Exchange+".dlx",
		"direct",
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare dead-letter exchange: %w", err)
	}

	logger.Info().
		Str("exchange", cfg.Exchange).
		Int("workers", cfg.Workers).
		Msg("Connected to RabbitMQ")

	return &Queue{
		conn:     conn,
		channel:  channel,
		exchange: cfg.Exchange,
		config:   cfg,
		logger:   logger,
		handlers: make(map[string]Handler),
		declared: make(map[string]bool),
	}, nil
}

// ensureTopic объявляет очередь топика, её DLQ и привязки. Идемпотентно.
func (q *Queue) ensureTopic(topic string) error {
	if q.declared[topic] {
		return nil
	}

	dlq, err := q.channel.QueueDeclare(
		topic+".dlq", // name
		true,         // durable
		false,        // delete when unused
		false,        // exclusive
		false,        // no-wait
		nil,          // arguments
	)
	if err != nil {
		return fmt.Errorf("failed to declare dead-letter queue: %w", err)
	}

	err = q.channel.QueueBind(dlq.Name, topic, q.exchange+".dlx", false, nil)
	if err != nil {
		return fmt.Errorf("failed to bind dead-letter queue: %w", err)
	}

	queue, err := q.channel.QueueDeclare(
		topic,
		true,
		false,
		false,
		false,
		amqp.Table{
			"x-dead-letter-exchange":    q.exchange + ".dlx",
			"x-dead-letter-routing-key": topic,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to declare queue: %w", err)
	}

	err = q.channel.QueueBind(queue.Name, topic, q.exchange, false, nil)
	if err != nil {
		return fmt.Errorf("failed to bind queue: %w", err)
	}

	q.declared[topic] = true
	return nil
}

// Enqueue помещает задание в очередь топика. Возвращает ошибку сразу,
// если брокер недоступен — вызывающая сторона сама решает, как реагировать.
// Выполнение обработчика при этом никогда не ожидается.
func (q *Queue) Enqueue(ctx context.Context, topic string, payload interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	q.mu.Lock()
	if err := q.ensureTopic(topic); err != nil {
		q.mu.Unlock()
		return err
	}
	q.mu.Unlock()

	publishCtx, cancel := context.WithTimeout(ctx, q.config.PublishTimeout)
	defer cancel()

	err = q.channel.PublishWithContext(
		publishCtx,
		q.exchange, // exchange
		topic,      // routing key
		false,      // mandatory
		false,      // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent, // Сохраняем сообщение
			Timestamp:    time.Now(),
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}

	q.logger.Debug().
		Str("topic", topic).
		Msg("Job enqueued")

	return nil
}

// RegisterHandler регистрирует обработчик топика. Ровно один обработчик
// на топик на процесс; повторная регистрация — ошибка.
func (q *Queue) RegisterHandler(topic string, handler Handler) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.started {
		return fmt.Errorf("queue already started")
	}
	if _, exists := q.handlers[topic]; exists {
		return fmt.Errorf("handler already registered for topic %q", topic)
	}
	if err := q.ensureTopic(topic); err != nil {
		return err
	}

	q.handlers[topic] = handler
	return nil
}

// Start запускает цикл потребления для всех зарегистрированных топиков.
// Параллелизм ограничен пулом воркеров и Qos.
func (q *Queue) Start(ctx context.Context) error {
	q.mu.Lock()
	if q.started {
		q.mu.Unlock()
		return fmt.Errorf("queue already started")
	}
	q.started = true
	handlers := make(map[string]Handler, len(q.handlers))
	for topic, h := range q.handlers {
		handlers[topic] = h
	}
	q.mu.Unlock()

	err := q.channel.Qos(
		q.config.Workers, // prefetch count
		0,                // prefetch size
		false,            // global
	)
	if err != nil {
		return fmt.Errorf("failed to set Qos: %w", err)
	}

	pool := worker.NewPool(q.config.Workers, q.logger)
	pool.Start()

	var consumers sync.WaitGroup
	for topic, handler := range handlers {
		msgs, err := q.channel.Consume(
			topic,                // queue
			"consumer-"+topic,    // consumer tag
			false,                // auto-ack
			false,                // exclusive
			false,                // no-local
			false,                // no-wait
			nil,                  // args
		)
		if err != nil {
			return fmt.Errorf("failed to consume topic %q: %w", topic, err)
		}

		consumers.Add(1)
		go func(topic string, handler Handler, msgs <-chan amqp.Delivery) {
			defer consumers.Done()
			q.consumeLoop(ctx, topic, handler, msgs, pool)
		}(topic, handler, msgs)

		q.logger.Info().
			Str("topic", topic).
			Msg("Queue consumer started")
	}

	go func() {
		<-ctx.Done()
		// Пул закрывается только после выхода всех consumeLoop, чтобы
		// заблокированный Submit не писал в закрытый канал
		consumers.Wait()
		pool.Stop()
	}()

	return nil
}

func (q *Queue) consumeLoop(ctx context.Context, topic string, handler Handler, msgs <-chan amqp.Delivery, pool *worker.Pool) {
	for {
		select {
		case <-ctx.Done():
			q.logger.Info().Str("topic", topic).Msg("Stopping queue consumer")
			return
		case msg, ok := <-msgs:
			if !ok {
				q.logger.Warn().Str("topic", topic).Msg("Queue message channel closed")
				return
			}

			delivery := msg
			pool.Submit(func() {
				if err := handler(ctx, delivery.Body); err != nil {
					q.logger.Error().Err(err).
						Str("topic", topic).
						Msg("Job failed, sending to dead-letter queue")

					if nackErr := delivery.Nack(false, false); nackErr != nil {
						q.logger.Error().Err(nackErr).Msg("Failed to nack message")
					}
					return
				}

				if ackErr := delivery.Ack(false); ackErr != nil {
					q.logger.Error().Err(ackErr).Msg("Failed to ack message")
				}
			})
		}
	}
}

func (q *Queue) Close() error {
	if q.channel != nil {
		if err := q.channel.Close(); err != nil {
			q.logger.Error().Err(err).Msg("Failed to close RabbitMQ channel")
		}
	}

	if q.conn != nil {
		if err := q.conn.Close(); err != nil {
			q.logger.Error().Err(err).Msg("Failed to close RabbitMQ connection")
		}
	}

	return nil
}
