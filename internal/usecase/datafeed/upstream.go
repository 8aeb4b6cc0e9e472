package datafeed

import (
	"context"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/muhammadchandra19/chart-datafeed/internal/domain/pricestream"
	"github.com/muhammadchandra19/chart-datafeed/pkg/errors"
	"github.com/muhammadchandra19/chart-datafeed/pkg/logger"
)

// RetryConfig controls the upstream connect and subscribe retry loop.
type RetryConfig struct {
	BaseDelay time.Duration
	MaxDelay  time.Duration
	// MaxAttempts bounds the attempts per symbol; zero retries until cancelled.
	MaxAttempts int
	Timeout     time.Duration
	// MaxJitter is added on top of every backoff delay.
	MaxJitter time.Duration
}

// DefaultRetryConfig is used for zero RetryConfig fields.
var DefaultRetryConfig = RetryConfig{
	BaseDelay:   500 * time.Millisecond,
	MaxDelay:    30 * time.Second,
	MaxAttempts: 10,
	Timeout:     10 * time.Second,
	MaxJitter:   time.Second,
}

// symbolState is the upstream state of one symbol. wanted follows the
// registry, subscribed follows the stream; the worker moves one to the other.
type symbolState struct {
	wanted     bool
	subscribed bool
	running    bool
	// failed is set when a worker gave up since the last success.
	failed bool
	cancel context.CancelFunc
}

// upstream subscribes symbols on the price stream in the background and
// retries failures with exponential backoff and jitter. Each symbol has at
// most one worker, so its subscribes and unsubscribes reach the stream in order.
type upstream struct {
	stream pricestream.PriceStream
	logger logger.Interface
	retry  RetryConfig

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu      sync.Mutex
	symbols map[string]*symbolState

	// onRecovered runs after a symbol subscribed following at least one failure.
	onRecovered func(symbol string)
}

func newUpstream(stream pricestream.PriceStream, log logger.Interface, retry RetryConfig, onRecovered func(string)) *upstream {
	ctx, cancel := context.WithCancel(context.Background())
	return &upstream{
		stream:      stream,
		logger:      log,
		retry:       retry,
		ctx:         ctx,
		cancel:      cancel,
		symbols:     make(map[string]*symbolState),
		onRecovered: onRecovered,
	}
}

// subscribe marks symbol as wanted without blocking. A worker that gave up is
// started again.
func (u *upstream) subscribe(symbol string) {
	u.mu.Lock()
	defer u.mu.Unlock()

	st, ok := u.symbols[symbol]
	if !ok {
		st = &symbolState{}
		u.symbols[symbol] = st
	}
	st.wanted = true
	u.startLocked(symbol, st)
}

// unsubscribe marks symbol as no longer wanted without blocking. A pending
// subscribe is cancelled; a live one is released by the worker.
func (u *upstream) unsubscribe(symbol string) {
	u.mu.Lock()
	defer u.mu.Unlock()

	st, ok := u.symbols[symbol]
	if !ok {
		return
	}
	st.wanted = false
	if st.cancel != nil {
		st.cancel()
	}
	u.startLocked(symbol, st)
}

func (u *upstream) startLocked(symbol string, st *symbolState) {
	if st.running {
		return
	}
	if !st.wanted && !st.subscribed {
		delete(u.symbols, symbol)
		return
	}
	if st.wanted == st.subscribed || u.ctx.Err() != nil {
		return
	}

	st.running = true
	u.wg.Add(1)
	go u.work(symbol, st)
}

// work drives symbol towards its wanted state until both agree, the retry
// budget is spent or the upstream is closed.
func (u *upstream) work(symbol string, st *symbolState) {
	defer u.wg.Done()

	for {
		u.mu.Lock()
		if u.ctx.Err() != nil || st.wanted == st.subscribed {
			st.running = false
			if !st.wanted && !st.subscribed {
				delete(u.symbols, symbol)
			}
			u.mu.Unlock()
			return
		}

		if !st.wanted {
			u.mu.Unlock()
			u.release(symbol)

			u.mu.Lock()
			st.subscribed = false
			u.mu.Unlock()
			continue
		}

		ctx, cancel := context.WithCancel(u.ctx)
		st.cancel = cancel
		u.mu.Unlock()

		ok, retried := u.run(ctx, symbol)
		cancelled := ctx.Err() != nil
		cancel()

		u.mu.Lock()
		st.cancel = nil
		if !ok {
			if !cancelled {
				st.failed = true
				st.running = false
				u.mu.Unlock()
				return
			}
			u.mu.Unlock()
			continue
		}

		recovered := retried || st.failed
		st.subscribed = true
		st.failed = false
		u.mu.Unlock()

		if recovered && u.onRecovered != nil {
			u.onRecovered(symbol)
		}
	}
}

// run retries until symbol is subscribed, the attempts run out or ctx ends.
// retried reports that the subscription succeeded after a failed attempt.
func (u *upstream) run(ctx context.Context, symbol string) (ok, retried bool) {
	for attempt := 0; u.retry.MaxAttempts == 0 || attempt < u.retry.MaxAttempts; attempt++ {
		if attempt > 0 {
			delay := u.backoff(attempt - 1)
			u.logger.Info("retrying upstream subscribe",
				logger.NewField("symbol", symbol),
				logger.NewField("attempt", attempt+1),
				logger.NewField("delay", delay.String()))

			select {
			case <-ctx.Done():
				return false, false
			case <-time.After(delay):
			}
		}

		err := u.connectAndSubscribe(ctx, symbol)
		if err == nil {
			u.logger.Debug("upstream subscribed", logger.NewField("symbol", symbol), logger.NewField("attempt", attempt+1))
			return true, attempt > 0
		}
		if ctx.Err() != nil {
			return false, false
		}

		u.logger.Error(err, logger.NewField("symbol", symbol), logger.NewField("attempt", attempt+1))
	}

	u.logger.Warn("giving up upstream subscribe until the next subscriber", logger.NewField("symbol", symbol))
	return false, false
}

func (u *upstream) connectAndSubscribe(ctx context.Context, symbol string) error {
	attemptCtx, cancel := context.WithTimeout(ctx, u.retry.Timeout)
	defer cancel()

	if err := u.stream.Connect(attemptCtx); err != nil {
		return errors.TracerWithCode(errors.PriceStreamConnectError, "failed to connect price stream", err)
	}

	if err := u.stream.Subscribe(attemptCtx, symbol); err != nil {
		return errors.TracerWithCode(errors.PriceStreamSubscribeError, "failed to subscribe symbol", err)
	}

	return nil
}

func (u *upstream) backoff(retry int) time.Duration {
	delay := min(u.retry.BaseDelay*time.Duration(math.Pow(2, float64(retry))), u.retry.MaxDelay)
	if u.retry.MaxJitter > 0 {
		delay += time.Duration(rand.Int63n(int64(u.retry.MaxJitter)))
	}
	return delay
}

// release tells the stream symbol is no longer needed. Failures are logged;
// the symbol counts as released either way.
func (u *upstream) release(symbol string) {
	ctx, cancel := context.WithTimeout(u.ctx, u.retry.Timeout)
	defer cancel()

	if err := u.stream.Unsubscribe(ctx, symbol); err != nil {
		u.logger.Error(errors.TracerWithCode(errors.PriceStreamSubscribeError, "failed to unsubscribe symbol", err),
			logger.NewField("symbol", symbol))
	}
}

// close stops every worker and closes the stream.
func (u *upstream) close() error {
	u.mu.Lock()
	u.cancel()
	u.mu.Unlock()

	u.wg.Wait()
	return u.stream.Close()
}
