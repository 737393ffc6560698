// Package httputil содержит вспомогательные функции для HTTP обработки.
package httputil

import (
	"github.com/gin-gonic/gin"

	"example.com/saga-coordinator/internal/domain"
)

// ExtractHeaders снимает с входящего запроса заголовки, которые
// координатор проксирует на каждый downstream вызов. Отсутствующие
// заголовки остаются пустыми и дальше не передаются.
func ExtractHeaders(c *gin.Context) domain.Headers {
	return domain.Headers{
		Authorization:  c.GetHeader(domain.HeaderAuthorization),
		CorrelationID:  c.GetHeader(domain.HeaderCorrelationID),
		RequestTimeout: c.GetHeader(domain.HeaderRequestTimeout),
	}
}
