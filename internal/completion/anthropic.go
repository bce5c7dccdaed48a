package completion

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sells-group/site-intel/internal/resilience"
	"github.com/sells-group/site-intel/pkg/anthropic"
)

// Defaults for the Anthropic adapter.
const (
	DefaultModel     = "claude-sonnet-4-5-20250929"
	DefaultMaxTokens = 2048
	webSearchMaxUses = 5
)

// Anthropic is a Service backed by the Messages API.
type Anthropic struct {
	client    anthropic.Client
	model     string
	maxTokens int64
	limiter   *rate.Limiter
	backoff   resilience.Backoff
	breaker   *resilience.Breaker
}

// Option configures an Anthropic service.
type Option func(*Anthropic)

// WithModel overrides the model name.
func WithModel(model string) Option {
	return func(a *Anthropic) {
		if model != "" {
			a.model = model
		}
	}
}

// WithMaxTokens overrides the response token budget.
func WithMaxTokens(n int64) Option {
	return func(a *Anthropic) {
		if n > 0 {
			a.maxTokens = n
		}
	}
}

// WithPacing spaces consecutive calls at least d apart. Zero disables pacing.
func WithPacing(d time.Duration) Option {
	return func(a *Anthropic) {
		if d <= 0 {
			a.limiter = nil
			return
		}
		a.limiter = rate.NewLimiter(rate.Every(d), 1)
	}
}

// WithBackoff overrides the retry policy for transient API errors.
func WithBackoff(b resilience.Backoff) Option {
	return func(a *Anthropic) { a.backoff = b }
}

// WithBreaker shares a breaker across services hitting the same account.
func WithBreaker(b *resilience.Breaker) Option {
	return func(a *Anthropic) { a.breaker = b }
}

// NewAnthropic wraps client as a completion Service.
func NewAnthropic(client anthropic.Client, opts ...Option) *Anthropic {
	a := &Anthropic{
		client:    client,
		model:     DefaultModel,
		maxTokens: DefaultMaxTokens,
		backoff:   resilience.DefaultBackoff(),
		breaker:   resilience.NewBreaker("anthropic", 5, 30*time.Second),
	}
	for _, o := range opts {
		o(a)
	}
	return a
}

// Complete sends p as a single user turn and returns the joined text blocks.
func (a *Anthropic) Complete(ctx context.Context, p Prompt) (string, error) {
	if err := a.breaker.Allow(); err != nil {
		return "", err
	}

	req := anthropic.MessageRequest{
		Model:     a.model,
		MaxTokens: a.maxTokens,
		Messages:  []anthropic.Message{{Role: "user", Content: p.Text}},
	}
	if p.System != "" {
		req.System = anthropic.BuildCachedSystemBlocks(p.System, "5m")
	}
	if p.UseWebTools {
		req.WebSearch = &anthropic.WebSearchTool{MaxUses: webSearchMaxUses}
	}

	resp, err := resilience.Retry(ctx, a.backoff, "anthropic.create_message",
		func(ctx context.Context) (*anthropic.MessageResponse, error) {
			if a.limiter != nil {
				if err := a.limiter.Wait(ctx); err != nil {
					return nil, eris.Wrap(err, "completion: pacing")
				}
			}
			resp, err := a.client.CreateMessage(ctx, req)
			if err != nil {
				if code := anthropic.StatusCode(err); resilience.IsTransientStatus(code) {
					return nil, resilience.MarkTransient(err, code)
				}
				return nil, err
			}
			return resp, nil
		})
	a.breaker.Record(err)
	if err != nil {
		return "", eris.Wrap(err, "completion: anthropic")
	}

	resp.Usage.LogUsage(resp.Model, "complete")
	text := resp.Text()
	zap.L().Debug("completion: response",
		zap.String("stop_reason", resp.StopReason),
		zap.Int("chars", len(text)),
		zap.Bool("web_tools", p.UseWebTools),
	)
	return text, nil
}
