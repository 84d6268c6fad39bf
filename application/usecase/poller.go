package usecase

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/patrimonia/portal/application/port/inbound"
	"github.com/patrimonia/portal/domain/entity"
	"github.com/patrimonia/portal/infrastructure/service/logger"
)

const defaultPollInterval = 3 * time.Second

// Poller drives the message views' polling contract: it repeatedly asks a
// conversation for new entries at a bounded pace. There is no push transport;
// this is the only way updates reach the client.
type Poller struct {
	messaging inbound.MessagingUseCase
	interval  time.Duration
	logger    logger.Logger

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

func NewPoller(messaging inbound.MessagingUseCase, interval time.Duration, log logger.Logger) *Poller {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	return &Poller{
		messaging: messaging,
		interval:  interval,
		logger:    log,
		limiters:  make(map[string]*rate.Limiter),
	}
}

// limiterFor paces each conversation independently, so concurrent views on
// different conversations do not starve one another of poll slots.
func (p *Poller) limiterFor(conversationID string) *rate.Limiter {
	p.mu.Lock()
	defer p.mu.Unlock()
	l, ok := p.limiters[conversationID]
	if !ok {
		l = rate.NewLimiter(rate.Every(p.interval), 1)
		p.limiters[conversationID] = l
	}
	return l
}

// Run polls until ctx is cancelled, delivering each non-empty batch to the
// callback. Transient fetch errors are logged and retried on the next tick.
func (p *Poller) Run(ctx context.Context, conversationID string, since time.Time, deliver func([]entity.Message)) error {
	limiter := p.limiterFor(conversationID)
	for {
		if err := limiter.Wait(ctx); err != nil {
			return err
		}
		batch, err := p.messaging.NewSince(ctx, conversationID, since)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			p.logger.Warn(ctx, "message poll failed", map[string]interface{}{
				"conversation_id": conversationID,
				"error":           err.Error(),
			})
			continue
		}
		if len(batch) > 0 {
			deliver(batch)
			since = batch[len(batch)-1].CreatedAt
		}
	}
}

// WaitForNew polls until the first non-empty batch or until maxWait elapses,
// in which case it returns an empty slice, not an error. Backing a plain
// HTTP poll endpoint with this gives the browser fewer empty round trips.
func (p *Poller) WaitForNew(ctx context.Context, conversationID string, since time.Time, maxWait time.Duration) ([]entity.Message, error) {
	ctx, cancel := context.WithTimeout(ctx, maxWait)
	defer cancel()

	limiter := p.limiterFor(conversationID)
	for {
		if err := limiter.Wait(ctx); err != nil {
			if ctx.Err() != nil {
				return []entity.Message{}, nil
			}
			return nil, err
		}
		batch, err := p.messaging.NewSince(ctx, conversationID, since)
		if err != nil {
			if ctx.Err() != nil {
				return []entity.Message{}, nil
			}
			return nil, err
		}
		if len(batch) > 0 {
			return batch, nil
		}
	}
}
