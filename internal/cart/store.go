package cart

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"lifeline-store/internal/types/product"
)

type subscription struct {
	id       int
	listener Listener
}

// pendingChange - примененная мутация, ожидающая сохранения и рассылки
type pendingChange struct {
	ctx    context.Context
	change Change
	commit bool
}

// Store - корзина одной сессии. Операции не возвращают ошибок:
// невалидные обновления и операции над отсутствующими товарами - no-op.
// Мутации применяются под mu, а сохраняются и рассылаются подписчикам
// строго в порядке применения, без удержания mu на время I/O
type Store struct {
	Logger *zap.SugaredLogger

	id        string
	committer Committer

	mu         sync.Mutex
	lines      []Line
	isCartOpen bool
	lastUsed   time.Time
	pending    []pendingChange

	// publishMu держит горутина, разбирающая pending
	publishMu sync.Mutex

	subsMu sync.Mutex
	subs   []subscription
	nextID int
}

// NewStore создает корзину из уже гидрированных строк
func NewStore(id string, lines []Line, committer Committer, logger *zap.SugaredLogger) *Store {
	if committer == nil {
		committer = NopCommitter{}
	}

	return &Store{
		Logger:    logger,
		id:        id,
		committer: committer,
		lines:     copyLines(lines),
		lastUsed:  time.Now(),
	}
}

// ID возвращает идентификатор корзины
func (s *Store) ID() string {
	return s.id
}

// AddToCart увеличивает количество на 1 или добавляет строку в конец
func (s *Store) AddToCart(ctx context.Context, p product.Product) {
	s.mu.Lock()
	var qty int
	if i := s.indexOf(p.ID); i >= 0 {
		s.lines[i].Quantity++
		qty = s.lines[i].Quantity
	} else {
		s.lines = append(s.lines, Line{Product: snapshotOf(p), Quantity: 1})
		qty = 1
	}
	s.enqueueLocked(ctx, OpAdd, p.ID, qty, true)
	s.mu.Unlock()

	s.flush()
}

// UpdateQuantity выставляет количество; quantity <= 0 удаляет строку
func (s *Store) UpdateQuantity(ctx context.Context, productID string, quantity int) {
	if quantity <= 0 {
		s.RemoveFromCart(ctx, productID)
		return
	}

	s.mu.Lock()
	i := s.indexOf(productID)
	if i < 0 {
		s.touchLocked()
		s.mu.Unlock()
		return
	}
	s.lines[i].Quantity = quantity
	s.enqueueLocked(ctx, OpUpdate, productID, quantity, true)
	s.mu.Unlock()

	s.flush()
}

// RemoveFromCart удаляет строку товара, если она есть
func (s *Store) RemoveFromCart(ctx context.Context, productID string) {
	s.mu.Lock()
	i := s.indexOf(productID)
	if i < 0 {
		s.touchLocked()
		s.mu.Unlock()
		return
	}
	s.lines = append(s.lines[:i], s.lines[i+1:]...)
	s.enqueueLocked(ctx, OpRemove, productID, 0, true)
	s.mu.Unlock()

	s.flush()
}

// ClearCart безусловно очищает корзину
func (s *Store) ClearCart(ctx context.Context) {
	s.mu.Lock()
	s.lines = nil
	s.enqueueLocked(ctx, OpClear, "", 0, true)
	s.mu.Unlock()

	s.flush()
}

// SetCartOpen меняет флаг боковой панели. Флаг не сохраняется
func (s *Store) SetCartOpen(ctx context.Context, open bool) {
	s.mu.Lock()
	s.isCartOpen = open
	s.enqueueLocked(ctx, OpPanel, "", 0, false)
	s.mu.Unlock()

	s.flush()
}

// IsCartOpen возвращает флаг боковой панели
func (s *Store) IsCartOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.isCartOpen
}

// Lines возвращает копию строк в порядке добавления
func (s *Store) Lines() []Line {
	s.mu.Lock()
	defer s.mu.Unlock()

	return copyLines(s.lines)
}

// TotalItems - сумма количеств по всем строкам
func (s *Store) TotalItems() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return TotalItems(s.lines)
}

// TotalPrice - сумма price * quantity по снапшотам цен
func (s *Store) TotalPrice() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()

	return TotalPrice(s.lines)
}

// Subscribe добавляет подписчика, возвращает функцию отписки
func (s *Store) Subscribe(l Listener) func() {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()

	id := s.nextID
	s.nextID++
	s.subs = append(s.subs, subscription{id: id, listener: l})

	return func() {
		s.subsMu.Lock()
		defer s.subsMu.Unlock()

		for i, sub := range s.subs {
			if sub.id == id {
				s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
				return
			}
		}
	}
}

// LastUsed - время последнего обращения к мутациям или панели
func (s *Store) LastUsed() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.lastUsed
}

// TotalItems считает количество товаров по строкам
func TotalItems(lines []Line) int {
	total := 0
	for _, l := range lines {
		total += l.Quantity
	}

	return total
}

// TotalPrice считает стоимость строк
func TotalPrice(lines []Line) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Product.Price.Mul(decimal.NewFromInt(int64(l.Quantity))))
	}

	return total
}

func (s *Store) indexOf(productID string) int {
	for i, l := range s.lines {
		if l.Product.ID == productID {
			return i
		}
	}

	return -1
}

func (s *Store) touchLocked() {
	s.lastUsed = time.Now()
}

func (s *Store) touch() {
	s.mu.Lock()
	s.lastUsed = time.Now()
	s.mu.Unlock()
}

func (s *Store) enqueueLocked(ctx context.Context, op Op, productID string, qty int, commit bool) {
	s.touchLocked()
	if commit {
		operationsTotal.WithLabelValues(string(op)).Inc()
	}

	s.pending = append(s.pending, pendingChange{
		ctx:    ctx,
		change: s.changeLocked(op, productID, qty),
		commit: commit,
	})
}

func (s *Store) changeLocked(op Op, productID string, qty int) Change {
	return Change{
		CartID:     s.id,
		Op:         op,
		ProductID:  productID,
		Quantity:   qty,
		Lines:      copyLines(s.lines),
		IsCartOpen: s.isCartOpen,
	}
}

// flush разбирает очередь изменений. Очередь разбирает одна горутина,
// остальные выходят сразу: их изменения доставит текущий владелец publishMu.
// Подписчик может читать и менять корзину, его изменения встанут в конец очереди
func (s *Store) flush() {
	for {
		if !s.publishMu.TryLock() {
			return
		}

		for {
			p, ok := s.popPending()
			if !ok {
				break
			}
			s.publish(p)
		}
		s.publishMu.Unlock()

		// изменение могло встать в очередь между последним pop и Unlock
		s.mu.Lock()
		empty := len(s.pending) == 0
		s.mu.Unlock()
		if empty {
			return
		}
	}
}

func (s *Store) popPending() (pendingChange, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.pending) == 0 {
		return pendingChange{}, false
	}
	p := s.pending[0]
	s.pending[0] = pendingChange{}
	s.pending = s.pending[1:]

	return p, true
}

func (s *Store) publish(p pendingChange) {
	if p.commit {
		if err := s.committer.Commit(p.ctx, p.change.Lines); err != nil {
			commitFailuresTotal.Inc()
			s.Logger.Warnw("failed to commit cart snapshot",
				"cartID", s.id,
				"op", p.change.Op,
				"err", err,
			)
		}
	}

	s.notify(p.ctx, p.change)
}

func (s *Store) notify(ctx context.Context, ch Change) {
	s.subsMu.Lock()
	subs := make([]subscription, len(s.subs))
	copy(subs, s.subs)
	s.subsMu.Unlock()

	for _, sub := range subs {
		sub.listener(ctx, ch)
	}
}

func copyLines(lines []Line) []Line {
	out := make([]Line, len(lines))
	copy(out, lines)

	return out
}

// snapshotOf отвязывает строку от указателей каталога
func snapshotOf(p product.Product) product.Product {
	if p.OriginalPrice != nil {
		op := *p.OriginalPrice
		p.OriginalPrice = &op
	}

	return p
}
