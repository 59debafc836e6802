package session

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
)

// Source — хранилище сессий, за которым наблюдает Probe.
//
// Первое значение канала — личность после первого разрешения состояния
// хранилища (nil — вход не выполнен); ожидание не ограничено по времени.
// Следующие значения — уведомления об изменениях. Канал закрывается после
// отмены ctx.
type Source interface {
	Watch(ctx context.Context) (<-chan *Identity, error)
}

// Probe наблюдает за личностью сессии и оповещает подписчиков о её смене.
type Probe struct {
	source Source
	log    *slog.Logger
}

// NewProbe создаёт Probe поверх источника.
func NewProbe(source Source, log *slog.Logger) *Probe {
	return &Probe{
		source: source,
		log:    log,
	}
}

// OnChange подписывает cb на изменения личности.
//
// cb вызывается один раз после первого разрешения состояния и затем по одному
// разу на каждый реальный переход: выход, вход или смена пользователя.
// Повторные уведомления о той же личности не доставляются. Вызовы cb
// последовательны и выполняются в отдельной горутине.
func (p *Probe) OnChange(ctx context.Context, cb func(*Identity)) (*Subscription, error) {
	ctx, cancel := context.WithCancel(ctx)
	events, err := p.source.Watch(ctx)
	if err != nil {
		cancel()
		return nil, err
	}

	s := &Subscription{
		cancel: cancel,
		done:   make(chan struct{}),
	}
	go s.run(ctx, events, cb)
	return s, nil
}

// First дожидается первого разрешения состояния и возвращает личность.
// Подписка освобождается до возврата.
func (p *Probe) First(ctx context.Context) (*Identity, error) {
	resolved := make(chan *Identity, 1)
	sub, err := p.OnChange(ctx, func(ident *Identity) {
		select {
		case resolved <- ident:
		default:
		}
	})
	if err != nil {
		return nil, err
	}
	defer sub.Unsubscribe()

	select {
	case ident := <-resolved:
		return ident, nil
	case <-ctx.Done():
		p.log.Debug("session probe abandoned before first resolution")
		return nil, ctx.Err()
	}
}

// Subscription — активная подписка Probe.
type Subscription struct {
	mu     sync.Mutex
	closed bool
	last   *Identity
	ready  atomic.Bool

	cancel context.CancelFunc
	once   sync.Once
	done   chan struct{}
}

// Ready сообщает, было ли получено первое состояние. После true больше не меняется.
// До этого момента пользователь не считается ни вошедшим, ни вышедшим.
func (s *Subscription) Ready() bool {
	return s.ready.Load()
}

// Done закрывается, когда горутина подписки завершилась.
func (s *Subscription) Done() <-chan struct{} {
	return s.done
}

// Unsubscribe останавливает доставку. Повторные вызовы безопасны.
// После возврата cb больше не вызывается; вызывать из самого cb нельзя.
func (s *Subscription) Unsubscribe() {
	s.once.Do(func() {
		s.mu.Lock()
		s.closed = true
		s.mu.Unlock()
		s.cancel()
	})
}

func (s *Subscription) run(ctx context.Context, events <-chan *Identity, cb func(*Identity)) {
	defer close(s.done)
	for {
		select {
		case <-ctx.Done():
			return
		case ident, ok := <-events:
			if !ok || !s.deliver(ident, cb) {
				return
			}
		}
	}
}

func (s *Subscription) deliver(ident *Identity, cb func(*Identity)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	if s.ready.Load() && s.last.Same(ident) {
		return true
	}
	s.last = ident
	s.ready.Store(true)
	cb(ident)
	return true
}
