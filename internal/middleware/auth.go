package middleware

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"lifeline-store/internal/session"
	myErr "lifeline-store/internal/types/errors"
)

type SessKey string

var sessKey SessKey = "sessionKey"

// CartSession пускает дальше только запросы с живой сессией корзины
// и продлевает ее на каждом обращении
func CartSession(sr session.SessionRepo, logger *zap.SugaredLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, err := sr.CheckSession(r)
			if err != nil {
				if !errors.Is(err, myErr.ErrNoAuth) &&
					!errors.Is(err, myErr.ErrSessionNotFound) &&
					!errors.Is(err, myErr.ErrSessionIsExpired) {
					myErr.SendErrorTo(w, err, http.StatusInternalServerError, logger)
					return
				}
				myErr.SendErrorTo(w, err, http.StatusUnauthorized, logger)
				return
			}

			if err := sr.ExtendSession(r.Context(), sess.ID); err != nil {
				logger.Warnw("failed to extend cart session", "sessionID", sess.ID, "err", err)
			}

			// Добавляем сессию в контекст и передаем дальше
			ctx := ContextWithSession(r.Context(), sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func ContextWithSession(ctx context.Context, s *session.Session) context.Context {
	// создаем новый контекст с нашим ключом и сессией
	return context.WithValue(ctx, sessKey, s)
}

// GetSessionFromContext достает сессию, положенную CartSession
func GetSessionFromContext(ctx context.Context) (*session.Session, bool) {
	s, ok := ctx.Value(sessKey).(*session.Session)
	return s, ok
}
