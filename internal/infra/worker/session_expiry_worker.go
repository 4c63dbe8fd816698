package worker

import (
	"context"
	"log"
	"time"
)

// ExpiryChecker encerra a sessão local quando ela expira.
type ExpiryChecker interface {
	CheckExpiry(now time.Time) bool
}

type SessionExpiryWorker struct {
	checker      ExpiryChecker
	tickInterval time.Duration
	now          func() time.Time
	onExpire     func()
}

func NewSessionExpiryWorker(checker ExpiryChecker, tickInterval time.Duration, onExpire func()) *SessionExpiryWorker {
	if tickInterval <= 0 {
		tickInterval = 30 * time.Second
	}
	return &SessionExpiryWorker{
		checker:      checker,
		tickInterval: tickInterval,
		now:          time.Now,
		onExpire:     onExpire,
	}
}

func (w *SessionExpiryWorker) Start(ctx context.Context) {
	log.Printf("🕒 Session Expiry Worker iniciado (intervalo %s)", w.tickInterval)

	ticker := time.NewTicker(w.tickInterval)
	defer ticker.Stop()

	w.Tick()

	for {
		select {
		case <-ctx.Done():
			log.Println("⚠️ Session Expiry Worker encerrado")
			return
		case <-ticker.C:
			w.Tick()
		}
	}
}

// Tick faz uma verificação. Retorna true se a sessão foi encerrada.
func (w *SessionExpiryWorker) Tick() bool {
	if !w.checker.CheckExpiry(w.now()) {
		return false
	}
	if w.onExpire != nil {
		w.onExpire()
	}
	return true
}
