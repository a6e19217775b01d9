package cart

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// entry - корзина в памяти и число запросов, которые ее сейчас держат
type entry struct {
	store *Store
	refs  int
}

// Registry выдает одну корзину на cartID, гидрируя ее из хранилища при первом обращении
type Registry struct {
	Storage Storage
	Logger  *zap.SugaredLogger

	listeners []Listener
	hydrate   singleflight.Group

	mu     sync.Mutex
	stores map[string]*entry
}

// NewRegistry - listeners подписываются на каждую созданную корзину
func NewRegistry(storage Storage, logger *zap.SugaredLogger, listeners ...Listener) *Registry {
	return &Registry{
		Storage:   storage,
		Logger:    logger,
		listeners: listeners,
		stores:    make(map[string]*entry),
	}
}

// Acquire возвращает корзину сессии и функцию release. Пока release не вызван,
// Sweep корзину не выгружает. Ошибка чтения хранилища возвращается наружу,
// корзина в этом случае не кэшируется
func (r *Registry) Acquire(ctx context.Context, cartID string) (*Store, func(), error) {
	for {
		if s, release, ok := r.lease(cartID); ok {
			return s, release, nil
		}

		// гидрация идет без r.mu, параллельные запросы к одной корзине ждут один Get
		_, err, _ := r.hydrate.Do(cartID, func() (interface{}, error) {
			return nil, r.load(ctx, cartID)
		})
		if err != nil {
			return nil, nil, err
		}
	}
}

func (r *Registry) lease(cartID string) (*Store, func(), bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.stores[cartID]
	if !ok {
		return nil, nil, false
	}
	e.refs++
	e.store.touch()

	var once sync.Once
	release := func() {
		once.Do(func() {
			r.mu.Lock()
			e.refs--
			r.mu.Unlock()
			e.store.touch()
		})
	}

	return e.store, release, true
}

func (r *Registry) load(ctx context.Context, cartID string) error {
	r.mu.Lock()
	_, ok := r.stores[cartID]
	r.mu.Unlock()
	if ok {
		return nil
	}

	key := SnapshotKeyFor(cartID)
	lines, err := LoadSnapshot(ctx, r.Storage, key, r.Logger)
	if err != nil {
		return err
	}

	s := NewStore(cartID, lines, NewSnapshotCommitter(r.Storage, key), r.Logger)
	for _, l := range r.listeners {
		s.Subscribe(l)
	}

	r.mu.Lock()
	r.stores[cartID] = &entry{store: s}
	activeCarts.Set(float64(len(r.stores)))
	r.mu.Unlock()

	r.Logger.Infow("cart hydrated", "cartID", cartID, "lines", len(lines))

	return nil
}

// Sweep выгружает из памяти корзины, которые никто не держит и не трогал дольше idle.
// Состояние уже сохранено, при следующем Acquire корзина гидрируется заново
func (r *Registry) Sweep(idle time.Duration) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	deadline := time.Now().Add(-idle)
	evicted := 0
	for id, e := range r.stores {
		if e.refs == 0 && e.store.LastUsed().Before(deadline) {
			delete(r.stores, id)
			evicted++
		}
	}
	activeCarts.Set(float64(len(r.stores)))

	return evicted
}

// RunSweeper периодически вызывает Sweep до отмены ctx
func (r *Registry) RunSweeper(ctx context.Context, interval, idle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := r.Sweep(idle); n > 0 {
				r.Logger.Infof("evicted %d idle carts", n)
			}
		}
	}
}
