package worker

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/osoko/commerce/internal/adapter/paystack"
	"github.com/osoko/commerce/internal/domain/model"
)

// PaymentFacade exposes the subset of application functionality required by the worker.
type PaymentFacade interface {
	UnresolvedPayments(ctx context.Context, limit int) ([]model.Order, error)
	VerifyPayment(ctx context.Context, order model.Order) error
}

// PaymentVerifier polls the gateway for orders whose payment never got a
// webhook and reconciles them concurrently.
type PaymentVerifier struct {
	facade       PaymentFacade
	pollInterval time.Duration
	batchSize    int
	workers      int
	logger       *slog.Logger

	jobs   chan model.Order
	wg     sync.WaitGroup
	cancel context.CancelFunc
	mu     sync.Mutex
}

// NewPaymentVerifier constructs payment verification worker pool.
func NewPaymentVerifier(facade PaymentFacade, pollInterval time.Duration, batchSize, workers int, logger *slog.Logger) *PaymentVerifier {
	if workers <= 0 {
		workers = 1
	}
	if batchSize <= 0 {
		batchSize = 1
	}
	return &PaymentVerifier{
		facade:       facade,
		pollInterval: pollInterval,
		batchSize:    batchSize,
		workers:      workers,
		logger:       logger,
		jobs:         make(chan model.Order, batchSize*workers),
	}
}

// Start launches background verification.
func (p *PaymentVerifier) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()

	runCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel

	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker(runCtx)
	}

	p.wg.Add(1)
	go p.dispatch(runCtx)
}

// Stop waits for all workers to finish.
func (p *PaymentVerifier) Stop() {
	p.mu.Lock()
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
	p.mu.Unlock()

	p.wg.Wait()
}

func (p *PaymentVerifier) dispatch(ctx context.Context) {
	defer p.wg.Done()
	defer close(p.jobs)
	ticker := time.NewTicker(p.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.fetchAndDispatch(ctx)
		}
	}
}

func (p *PaymentVerifier) fetchAndDispatch(ctx context.Context) {
	orders, err := p.facade.UnresolvedPayments(ctx, p.batchSize)
	if err != nil {
		p.logger.Error("fetch unresolved payments failed", slog.String("error", err.Error()))
		return
	}
	for _, order := range orders {
		select {
		case <-ctx.Done():
			return
		case p.jobs <- order:
		}
	}
}

func (p *PaymentVerifier) worker(ctx context.Context) {
	defer p.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case order, ok := <-p.jobs:
			if !ok {
				return
			}
			p.handleOrder(ctx, order)
		}
	}
}

func (p *PaymentVerifier) handleOrder(ctx context.Context, order model.Order) {
	if err := p.facade.VerifyPayment(ctx, order); err != nil {
		if errors.Is(err, paystack.ErrTransactionNotFound) {
			// Gateway has no record yet; the next poll cycle retries.
			return
		}
		p.logger.Error("payment verification failed",
			slog.String("reference", order.Reference),
			slog.String("error", err.Error()),
		)
	}
}
