package worker

import (
  "context"
  "sync"

  log "github.com/sirupsen/logrus"
)

const (
  DefaultCount  = 5
  DefaultBuffer = 64
)

type Call func(ctx context.Context) error

type Config struct {
  Count  uint8
  Buffer int
}

type Pool struct {
  ctx     context.Context
  count   uint8
  ch      chan Call
  done    chan struct{}
  mu      sync.RWMutex
  stopped bool
}

// NewPool starts the workers, every call receives ctx rather than the context of the pusher.
func NewPool(ctx context.Context, config Config) *Pool {
  if config.Count == 0 {
    config.Count = DefaultCount
  }
  if config.Buffer < 0 {
    config.Buffer = 0
  }

  pool := &Pool{
    ctx:   ctx,
    count: config.Count,
    ch:    make(chan Call, config.Buffer),
    done:  make(chan struct{}),
  }
  pool.start(ctx)

  return pool
}

func (p *Pool) start(ctx context.Context) {
  var wg sync.WaitGroup

  wg.Add(int(p.count))

  for index := 0; index < int(p.count); index++ {
    go func() {
      defer wg.Done()

      for {
        select {
        case <-ctx.Done():
          log.Warn("worker.pool: context cancelled: worker stopped")
          return

        case call, ok := <-p.ch:
          if !ok {
            return
          }
          if err := call(ctx); err != nil {
            log.Errorf("worker.pool: worker call failed: %v", err)
          }
        }
      }
    }()
  }

  go func() {
    wg.Wait()

    close(p.done)
  }()
}

// Push reports false when the pool is stopped or its context is done.
func (p *Pool) Push(call Call) bool {
  p.mu.RLock()
  defer p.mu.RUnlock()

  if p.stopped {
    return false
  }

  select {
  case p.ch <- call:
    return true
  case <-p.ctx.Done():
    return false
  }
}

// TryPush never blocks: it reports false when no worker or buffer slot is free right now.
func (p *Pool) TryPush(call Call) bool {
  p.mu.RLock()
  defer p.mu.RUnlock()

  if p.stopped || p.ctx.Err() != nil {
    return false
  }

  select {
  case p.ch <- call:
    return true
  default:
    return false
  }
}

// StopWait waits for the queued calls to finish.
func (p *Pool) StopWait() {
  p.mu.Lock()

  if p.stopped {
    p.mu.Unlock()
    return
  }
  p.stopped = true
  close(p.ch)

  p.mu.Unlock()

  <-p.done
}
