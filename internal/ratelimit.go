package internal

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RateLimitConfig controls how requests are throttled before reaching Reddit.
type RateLimitConfig struct {
	// RequestsPerMinute caps steady-state throughput. Defaults to 60 if zero.
	RequestsPerMinute float64
	// Burst allows short spikes above the steady-state rate. Defaults to 5 if zero.
	Burst int
}

const (
	DefaultRequestsPerMinute = 60
	DefaultRateLimitBurst    = 5
	SecondsPerMinute         = 60.0
	ParseFloatBitSize        = 64

	// Reddit's rate-limit window and the assumed budget before the first
	// response headers arrive.
	rateWindowSeconds = 600.0
	initialRemaining  = 100.0

	// Header-driven spacing is clamped so one response cannot stall the
	// client for longer than this.
	maxHeaderDelaySeconds = 10.0
)

// Pacer spreads requests across Reddit's rate-limit window. It combines a
// steady-state token bucket with spacing derived from the X-Ratelimit
// response headers, and honors hard deferrals from Retry-After.
type Pacer struct {
	limiter  *rate.Limiter
	disabled bool
	logger   *slog.Logger

	mu             sync.Mutex
	remaining      float64
	used           float64
	nextRequest    time.Time
	nextReset      time.Time
	forceWaitUntil time.Time
}

// NewPacer builds a Pacer from the given configuration. A nil cfg uses the
// defaults. When disabled is true, Wait returns immediately and response
// headers are ignored.
func NewPacer(cfg *RateLimitConfig, disabled bool, logger *slog.Logger) *Pacer {
	if cfg == nil {
		cfg = &RateLimitConfig{}
	}

	now := time.Now()
	return &Pacer{
		limiter:   buildLimiter(*cfg),
		disabled:  disabled,
		logger:    logger,
		remaining: initialRemaining,
		nextReset: now.Add(rateWindowSeconds * time.Second),
	}
}

func buildLimiter(cfg RateLimitConfig) *rate.Limiter {
	requestsPerMinute := cfg.RequestsPerMinute
	if requestsPerMinute <= 0 {
		requestsPerMinute = DefaultRequestsPerMinute
	}

	burst := cfg.Burst
	if burst <= 0 {
		burst = DefaultRateLimitBurst
	}

	limitPerSecond := rate.Limit(requestsPerMinute / SecondsPerMinute)
	if limitPerSecond <= 0 {
		limitPerSecond = rate.Limit(1)
	}

	return rate.NewLimiter(limitPerSecond, burst)
}

// Wait blocks until the next request may be sent. It returns early with the
// context error if ctx is canceled.
func (p *Pacer) Wait(ctx context.Context) error {
	if p == nil || p.disabled {
		return nil
	}

	if err := p.waitForForcedDelay(ctx); err != nil {
		return err
	}

	if err := p.waitForSchedule(ctx); err != nil {
		return err
	}

	if p.limiter == nil {
		return nil
	}

	return p.limiter.Wait(ctx)
}

// Observe updates the pacing schedule from a completed response.
func (p *Pacer) Observe(resp *http.Response) {
	if p == nil || p.disabled || resp == nil {
		return
	}

	if retryAfter := resp.Header.Get("Retry-After"); retryAfter != "" {
		if seconds, err := strconv.ParseFloat(retryAfter, ParseFloatBitSize); err == nil && seconds > 0 {
			p.deferRequests(time.Duration(seconds * float64(time.Second)))
		}
	}

	p.updateSchedule(resp.Header)
}

// updateSchedule recomputes the next allowed request time from the
// X-Ratelimit headers. The budget is spread evenly across the window: given
// how much of the window the used requests should have consumed, the request
// is delayed only by the shortfall, clamped to keep one response from
// stalling the client. Responses without the headers decrement the local
// estimate instead.
func (p *Pacer) updateSchedule(h http.Header) {
	p.mu.Lock()
	defer p.mu.Unlock()

	remainingHeader := h.Get("X-Ratelimit-Remaining")
	if remainingHeader == "" {
		p.remaining--
		p.used++
		return
	}

	remaining, errRemaining := strconv.ParseFloat(remainingHeader, ParseFloatBitSize)
	used, errUsed := strconv.ParseFloat(h.Get("X-Ratelimit-Used"), ParseFloatBitSize)
	resetSeconds, errReset := strconv.ParseFloat(h.Get("X-Ratelimit-Reset"), ParseFloatBitSize)
	if errRemaining != nil || errUsed != nil || errReset != nil || resetSeconds <= 0 {
		return
	}

	now := time.Now()
	p.remaining = remaining
	p.used = used
	p.nextReset = now.Add(time.Duration(resetSeconds * float64(time.Second)))

	if remaining <= 0 {
		p.nextRequest = p.nextReset
		return
	}

	allowed := remaining + used
	averageSecondsPerRequest := rateWindowSeconds / allowed
	secondsTakenSoFar := averageSecondsPerRequest * used
	windowRemain := rateWindowSeconds - secondsTakenSoFar

	// Positive when less of the window remains than the even schedule
	// expects, meaning we are ahead of budget and must slow down.
	delaySeconds := resetSeconds - windowRemain
	if delaySeconds < 0 {
		delaySeconds = 0
	} else if delaySeconds > maxHeaderDelaySeconds {
		delaySeconds = maxHeaderDelaySeconds
	}

	next := now.Add(time.Duration(delaySeconds * float64(time.Second)))

	// Never schedule past the window reset itself.
	if next.After(p.nextReset) {
		next = p.nextReset
	}
	p.nextRequest = next
}

func (p *Pacer) waitForSchedule(ctx context.Context) error {
	p.mu.Lock()
	next := p.nextRequest
	p.mu.Unlock()

	d := time.Until(next)
	if d <= 0 {
		return nil
	}

	if p.logger != nil {
		p.logger.Warn("pacing request to stay within rate limit", "wait", d)
	}

	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (p *Pacer) waitForForcedDelay(ctx context.Context) error {
	for {
		p.mu.Lock()
		waitUntil := p.forceWaitUntil
		p.mu.Unlock()

		if waitUntil.IsZero() {
			return nil
		}

		now := time.Now()
		if !now.Before(waitUntil) {
			p.clearForcedDelay(waitUntil)
			return nil
		}

		if p.logger != nil {
			p.logger.Warn("deferring request after rate-limit response", "wait", waitUntil.Sub(now))
		}

		timer := time.NewTimer(waitUntil.Sub(now))
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
			p.clearForcedDelay(waitUntil)
		}
	}
}

func (p *Pacer) clearForcedDelay(previous time.Time) {
	p.mu.Lock()
	if previous.Equal(p.forceWaitUntil) {
		p.forceWaitUntil = time.Time{}
	}
	p.mu.Unlock()
}

func (p *Pacer) deferRequests(d time.Duration) {
	if d <= 0 {
		return
	}

	until := time.Now().Add(d)

	p.mu.Lock()
	if until.After(p.forceWaitUntil) {
		p.forceWaitUntil = until
	}
	p.mu.Unlock()
}
