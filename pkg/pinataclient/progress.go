package pinataclient

import (
	"io"
	"sync"
	"time"

	"github.com/docker/go-units"
	"github.com/rs/zerolog"
)

const progressLogPeriod = time.Second

// progressReader считает отправленные в Pinata байты и пишет прогресс в debug-лог.
type progressReader struct {
	inner   io.Reader
	logger  *zerolog.Logger
	started time.Time

	mu         sync.Mutex
	current    int64
	lastReport time.Time
	finished   bool
}

func newProgressReader(inner io.Reader, logger *zerolog.Logger) *progressReader {
	now := time.Now()
	return &progressReader{
		inner:      inner,
		logger:     logger,
		started:    now,
		lastReport: now,
	}
}

func (p *progressReader) Read(b []byte) (int, error) {
	if p.inner == nil {
		return 0, io.EOF
	}
	n, err := p.inner.Read(b)
	if n > 0 {
		p.addBytes(int64(n))
	}
	return n, err
}

func (p *progressReader) addBytes(n int64) {
	p.mu.Lock()
	p.current += n
	now := time.Now()
	if p.finished || now.Sub(p.lastReport) < progressLogPeriod {
		p.mu.Unlock()
		return
	}
	p.lastReport = now
	current := p.current
	p.mu.Unlock()

	p.logger.Debug().
		Str("sent", units.HumanSize(float64(current))).
		Dur("elapsed", now.Sub(p.started)).
		Msg("upload to pinning service in progress")
}

func (p *progressReader) Finish() {
	p.complete(nil)
}

func (p *progressReader) Fail(err error) {
	p.complete(err)
}

func (p *progressReader) complete(err error) {
	p.mu.Lock()
	if p.finished {
		p.mu.Unlock()
		return
	}
	p.finished = true
	current := p.current
	p.mu.Unlock()

	ev := p.logger.Debug()
	if err != nil {
		ev = p.logger.Warn().Err(err)
	}
	ev.Str("sent", units.HumanSize(float64(current))).
		Dur("elapsed", time.Since(p.started)).
		Msg("upload to pinning service finished")
}
