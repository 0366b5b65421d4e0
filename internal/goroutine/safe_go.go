package goroutine

import (
	"runtime/debug"

	"github.com/Devouko/talenthub-escrow/internal/logger"
)

// SafeGo запускает горутину с обработкой panic. Используется для
// best-effort побочных эффектов (публикация событий, уведомления),
// падение которых не должно ронять обработку запроса.
func SafeGo(fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				logger.WithComponent("goroutine").
					Errorf("panic в горутине: %v\nstack:\n%s", r, debug.Stack())
			}
		}()
		fn()
	}()
}
