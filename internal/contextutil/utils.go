package contextutil

import (
	"context"

	"lifeline-store/internal/middleware"
)

// GetCartIDFromContext извлекает cartID сессии из контекста
func GetCartIDFromContext(ctx context.Context) (string, bool) {
	sess, ok := middleware.GetSessionFromContext(ctx)
	if !ok || sess == nil {
		return "", false
	}
	return sess.CartID, true
}
