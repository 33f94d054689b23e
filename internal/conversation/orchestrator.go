package conversation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/anjila-26/spa-concierge/internal/observability/metrics"
	"github.com/anjila-26/spa-concierge/pkg/logging"
)

// Dispatcher is what the HTTP layer talks to: the turn entrypoint plus a
// shutdown hook.
type Dispatcher interface {
	Service
	Shutdown(ctx context.Context) error
}

// ErrOrchestratorClosed indicates the dispatcher is no longer accepting work.
var ErrOrchestratorClosed = errors.New("conversation: orchestrator closed")

// Orchestrator routes turns through a queue before invoking the engine, so
// the service can run against LocalStack SQS in development and real SQS in
// production without the handlers noticing. Each caller blocks on its own
// result channel keyed by job id.
type Orchestrator struct {
	engine  Service
	queue   queueClient
	logger  *logging.Logger
	metrics *metrics.ChatMetrics

	cfg orchestratorConfig

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	pending sync.Map // jobID -> chan dispatchResult
}

var _ Dispatcher = (*Orchestrator)(nil)

const (
	defaultWorkers          = 2
	defaultReceiveWait      = 2 // seconds
	defaultReceiveMax       = 5 // messages
	maxReceiveWaitSeconds   = 20
	maxReceiveBatchMessages = 10
)

type orchestratorConfig struct {
	workers          int
	receiveWaitSecs  int
	receiveBatchSize int
}

// OrchestratorOption configures the dispatcher.
type OrchestratorOption func(*Orchestrator)

// WithWorkerCount overrides the number of queue polling goroutines.
func WithWorkerCount(workers int) OrchestratorOption {
	return func(o *Orchestrator) {
		if workers > 0 {
			o.cfg.workers = workers
		}
	}
}

// WithReceiveWaitSeconds sets the long-poll wait for Receive calls.
func WithReceiveWaitSeconds(seconds int) OrchestratorOption {
	return func(o *Orchestrator) {
		if seconds < 0 {
			return
		}
		if seconds > maxReceiveWaitSeconds {
			seconds = maxReceiveWaitSeconds
		}
		o.cfg.receiveWaitSecs = seconds
	}
}

// WithReceiveBatchSize overrides how many messages each poll may return.
func WithReceiveBatchSize(size int) OrchestratorOption {
	return func(o *Orchestrator) {
		if size <= 0 {
			return
		}
		if size > maxReceiveBatchMessages {
			size = maxReceiveBatchMessages
		}
		o.cfg.receiveBatchSize = size
	}
}

// WithOrchestratorMetrics sets the dispatch gauge sink.
func WithOrchestratorMetrics(m *metrics.ChatMetrics) OrchestratorOption {
	return func(o *Orchestrator) { o.metrics = m }
}

// NewOrchestrator wires a queue-backed dispatcher around the engine and
// starts its workers.
func NewOrchestrator(engine Service, queue queueClient, logger *logging.Logger, opts ...OrchestratorOption) *Orchestrator {
	if engine == nil {
		panic("conversation: engine cannot be nil")
	}
	if queue == nil {
		panic("conversation: queue cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}

	ctx, cancel := context.WithCancel(context.Background())
	o := &Orchestrator{
		engine: engine,
		queue:  queue,
		logger: logger,
		cfg: orchestratorConfig{
			workers:          defaultWorkers,
			receiveWaitSecs:  defaultReceiveWait,
			receiveBatchSize: defaultReceiveMax,
		},
		ctx:    ctx,
		cancel: cancel,
	}
	for _, opt := range opts {
		opt(o)
	}

	for i := 0; i < o.cfg.workers; i++ {
		o.wg.Add(1)
		go o.runWorker(i + 1)
	}
	return o
}

// ProcessTurn enqueues the turn and blocks until a worker has run it through
// the engine.
func (o *Orchestrator) ProcessTurn(ctx context.Context, req TurnRequest) (*TurnResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	job, body, err := encodeTurnJob(req)
	if err != nil {
		return nil, err
	}

	resultCh := make(chan dispatchResult, 1)
	o.pending.Store(job.ID, resultCh)
	defer o.pending.Delete(job.ID)

	o.metrics.DispatchStarted()
	defer o.metrics.DispatchFinished()

	if err := o.queue.Send(ctx, body); err != nil {
		return nil, fmt.Errorf("conversation: enqueue turn: %w", err)
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-resultCh:
		return res.result, res.err
	}
}

// Shutdown stops the workers and fails any callers still waiting.
func (o *Orchestrator) Shutdown(ctx context.Context) error {
	o.cancel()

	done := make(chan struct{})
	go func() {
		o.wg.Wait()
		close(done)
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-done:
	}

	o.pending.Range(func(key, value any) bool {
		if ch, ok := value.(chan dispatchResult); ok {
			select {
			case ch <- dispatchResult{err: ErrOrchestratorClosed}:
			default:
			}
		}
		o.pending.Delete(key)
		return true
	})
	return nil
}

func (o *Orchestrator) runWorker(workerID int) {
	defer o.wg.Done()
	o.logger.Debug("dispatcher worker started", "worker_id", workerID)

	backoff := time.Second

	for {
		select {
		case <-o.ctx.Done():
			o.logger.Debug("dispatcher worker stopping", "worker_id", workerID)
			return
		default:
		}

		messages, err := o.queue.Receive(o.ctx, o.cfg.receiveBatchSize, o.cfg.receiveWaitSecs)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			o.logger.Error("failed to receive turn jobs", "error", err, "worker_id", workerID)
			time.Sleep(backoff)
			if backoff < 5*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		for _, msg := range messages {
			o.handleQueueMessage(msg)
		}
	}
}

func (o *Orchestrator) handleQueueMessage(msg queueMessage) {
	defer o.deleteMessage(msg.ReceiptHandle)

	var job turnJob
	if err := json.Unmarshal([]byte(msg.Body), &job); err != nil {
		o.logger.Error("failed to decode turn job", "error", err)
		return
	}

	result, err := o.engine.ProcessTurn(o.ctx, job.Turn)
	o.deliverResult(job.ID, result, err)
}

func (o *Orchestrator) deleteMessage(receiptHandle string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := o.queue.Delete(ctx, receiptHandle); err != nil {
		o.logger.Error("failed to delete turn job", "error", err)
	}
}

func (o *Orchestrator) deliverResult(jobID string, result *TurnResult, err error) {
	value, ok := o.pending.Load(jobID)
	if !ok {
		o.logger.Debug("no waiting caller for turn job", "job_id", jobID)
		return
	}

	ch, ok := value.(chan dispatchResult)
	if !ok {
		o.logger.Error("dispatcher pending map corrupted", "job_id", jobID)
		o.pending.Delete(jobID)
		return
	}

	select {
	case ch <- dispatchResult{result: result, err: err}:
	default:
	}
}

type dispatchResult struct {
	result *TurnResult
	err    error
}
