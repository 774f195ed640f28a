package probe

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/hamed0406/uptime/internal/domain"
)

// Outcome is the result of one probe: either a response code or an error
// (network, timeout, TLS), never both.
type Outcome struct {
	ResponseCode int
	Err          error
}

// Prober issues one outbound request for a check.
type Prober interface {
	Probe(ctx context.Context, chk domain.Check) Outcome
}

// HTTPProber probes over net/http. The per-check timeout comes from the
// check itself, so the client carries no global timeout.
type HTTPProber struct {
	Client *http.Client
}

func NewHTTPProber() *HTTPProber {
	return &HTTPProber{Client: &http.Client{}}
}

func (p *HTTPProber) Probe(ctx context.Context, chk domain.Check) Outcome {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(chk.TimeoutSeconds)*time.Second)
	defer cancel()

	target := chk.Protocol + "://" + chk.URL
	req, err := http.NewRequestWithContext(ctx, strings.ToUpper(chk.Method), target, nil)
	if err != nil {
		return Outcome{Err: err}
	}
	resp, err := p.Client.Do(req)
	if err != nil {
		return Outcome{Err: err}
	}
	defer resp.Body.Close()
	// Drain so the connection can be reused between ticks.
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<16))
	return Outcome{ResponseCode: resp.StatusCode}
}
