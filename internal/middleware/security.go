// Package middleware — Security Headers middleware для защиты от типовых веб-атак.
package middleware

import "github.com/gin-gonic/gin"

// Заголовки безопасности ответов координатора. Ответы саг несут
// данные пользователей и токены, поэтому кеширование запрещено
// целиком, а не по отдельным маршрутам.
var securityHeaders = map[string]string{
	// Запрет встраивания в iframe — защита от clickjacking
	"X-Frame-Options": "DENY",

	// Запрет MIME-type sniffing — браузер не будет "угадывать" тип контента
	"X-Content-Type-Options": "nosniff",

	// Включаем встроенный XSS-фильтр браузера
	"X-XSS-Protection": "1; mode=block",

	// Скрываем информацию о сервере
	"X-Powered-By": "",

	// Запрет кеширования ответов саг
	"Cache-Control": "no-store",

	// Referrer Policy — не отправлять referrer на другие домены
	"Referrer-Policy": "strict-origin-when-cross-origin",

	// Permissions Policy — отключаем ненужные браузерные API
	"Permissions-Policy": "camera=(), microphone=(), geolocation=()",
}

// SecurityHeaders добавляет заголовки безопасности ко всем ответам.
// Координатор обычно стоит за шлюзом, но заголовки ставит сам: шлюз
// платформы их не добавляет.
func SecurityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()
		for name, value := range securityHeaders {
			h.Set(name, value)
		}
		c.Next()
	}
}
