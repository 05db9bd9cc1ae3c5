package visitpipeline

import (
	"context"
	"errors"
	"net"
	"strings"
	"time"
)

// ErrNotConfigured indicates a gateway credential is missing. It is a
// distinct, non-retryable category surfaced before any stage executes.
var ErrNotConfigured = errors.New("llm gateway is not configured")

type CompletionRequest struct {
	System       string
	User         string
	JSONResponse bool
	MaxTokens    int
	Temperature  float32
}

// Gateway wraps a hosted chat-completion API. Implementations are
// constructed and injected so the pipeline can run against a fake in tests.
// An empty string with a nil error means the model returned no content.
type Gateway interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

type gatewayFailureClass int

const (
	failureTimeout gatewayFailureClass = iota
	failureRateLimit
	failureServer
	failureClient
)

// completeWithRetry retries transient transport failures (timeouts, rate
// limits, 5xx) up to three attempts. Content-level problems are the
// pipeline's concern, not the gateway's.
func completeWithRetry(ctx context.Context, call func(context.Context) (string, error)) (string, error) {
	var lastErr error
	for attempt := 1; attempt <= 3; attempt++ {
		out, err := call(ctx)
		if err == nil {
			return out, nil
		}
		lastErr = err
		class := classifyTransportError(err)
		if class != failureTimeout && class != failureRateLimit && class != failureServer {
			return "", err
		}
		if attempt < 3 {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(backoffDelay(attempt)):
			}
		}
	}
	return "", lastErr
}

func classifyTransportError(err error) gatewayFailureClass {
	if errors.Is(err, context.DeadlineExceeded) {
		return failureTimeout
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return failureTimeout
	}
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "429"):
		return failureRateLimit
	case strings.Contains(msg, "status code: 5") || strings.Contains(msg, "status=5") || strings.Contains(msg, "server error"):
		return failureServer
	case strings.Contains(msg, "status code: 4") || strings.Contains(msg, "status=4"):
		return failureClient
	default:
		return failureServer
	}
}

func backoffDelay(attempt int) time.Duration {
	if attempt <= 1 {
		return 1 * time.Second
	}
	return 2 * time.Second
}
