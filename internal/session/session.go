package session

import (
	"context"
	"net/http"
	"time"
)

// Session - сессия корзины. CartID адресует снапшот корзины в хранилище
type Session struct {
	ID        string
	CartID    string
	StartTime time.Time
	EndTime   time.Time
}

// SessionRepo - репозиторий для работы с сессиями корзин
//
//go:generate mockgen -source=session.go -destination=../mocks/mock_session_repo.go -package=mocks
type SessionRepo interface {
	// CreateSession - создает сессию с новой корзиной и кладет ее в Redis
	// Возвращает Session и подписанный JWT
	CreateSession(ctx context.Context) (*Session, string, error)
	// CheckSession - проверяет существование сессии в Redis и не истекла ли она
	// Возвращает *Session в случае успеха, иначе nil
	CheckSession(r *http.Request) (*Session, error)

	// ExtendSession - продлевает сессию на базовую длительность, если корзиной пользуются
	// Возвращает error
	ExtendSession(ctx context.Context, sessionID string) error
}
