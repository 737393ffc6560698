// Package handler содержит HTTP обработчики координатора саг.
package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"example.com/saga-coordinator/internal/domain"
	"example.com/saga-coordinator/internal/report"
	"example.com/saga-coordinator/pkg/logger"
)

// ErrorResponse — стандартный формат ошибки API.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Classified — итог классификации ошибки саги: статус ответа и его тело.
type Classified struct {
	Status  int
	Kind    domain.ErrorKind
	Message string
	Fields  domain.ValidationPayload
}

// Classify сводит ошибку саги к HTTP статусу. Цепочка причин
// разматывается до доменной ошибки или ошибки downstream клиента;
// всё неопознанное отвечает 500. relevantFields ограничивает, какие
// полевые ошибки валидации саги показываются наружу.
func Classify(err error, relevantFields ...string) Classified {
	// Сага уже сама определила категорию
	var domErr *domain.Error
	if errors.As(err, &domErr) {
		return classifyDomain(domErr)
	}

	var clientErr *domain.ClientError
	if errors.As(err, &clientErr) {
		return classifyClient(clientErr, relevantFields)
	}

	return Classified{
		Status:  http.StatusInternalServerError,
		Kind:    domain.Unknown,
		Message: err.Error(),
	}
}

// classifyDomain отображает заранее классифицированную ошибку.
func classifyDomain(err *domain.Error) Classified {
	switch err.Kind {
	case domain.Parse, domain.Validate:
		return Classified{Status: http.StatusBadRequest, Kind: err.Kind, Message: err.Message, Fields: err.Fields}
	case domain.Forbidden:
		return Classified{Status: http.StatusForbidden, Kind: err.Kind, Message: err.Message}
	case domain.NotFound:
		return Classified{Status: http.StatusNotFound, Kind: err.Kind, Message: err.Message}
	default:
		return Classified{Status: http.StatusInternalServerError, Kind: err.Kind, Message: err.Message}
	}
}

// classifyClient отображает ответ downstream сервиса на ответ
// координатора. 403 и 404 проходят насквозь со своим описанием,
// 400 с разбираемым payload становится ошибкой валидации, остальное
// считается неизвестной ошибкой и отвечает 500.
func classifyClient(err *domain.ClientError, relevantFields []string) Classified {
	if err.IsTransport() {
		return Classified{Status: http.StatusInternalServerError, Kind: domain.HTTPClient, Message: err.Error()}
	}

	description := ""
	if err.Envelope != nil {
		description = err.Envelope.Description
	}

	switch err.Status {
	case http.StatusForbidden:
		return Classified{Status: http.StatusForbidden, Kind: domain.Forbidden, Message: description}

	case http.StatusNotFound:
		return Classified{Status: http.StatusNotFound, Kind: domain.NotFound, Message: description}

	case http.StatusBadRequest:
		fields, verr := err.ValidationErrors()
		if verr != nil {
			// 400 без разбираемого payload классифицировать нечем
			return Classified{Status: http.StatusInternalServerError, Kind: domain.Unknown, Message: description}
		}
		return Classified{
			Status:  http.StatusBadRequest,
			Kind:    domain.Validate,
			Message: description,
			Fields:  fields.Filter(relevantFields...),
		}

	default:
		return Classified{Status: http.StatusInternalServerError, Kind: domain.Unknown, Message: description}
	}
}

// Responder пишет ответы об ошибках саг.
type Responder struct {
	sink *report.Sink
}

// NewResponder создаёт Responder поверх crash sink.
func NewResponder(sink *report.Sink) *Responder {
	return &Responder{sink: sink}
}

// RespondError классифицирует ошибку саги и пишет ответ. Ошибки
// валидации отвечают телом {поле: [записи]}, остальные — конвертом
// {error, message}. Каждый ответ 500 дополнительно публикуется в
// crash sink.
func (r *Responder) RespondError(c *gin.Context, err error, relevantFields ...string) {
	ctx := c.Request.Context()
	log := logger.FromContext(ctx)

	cls := Classify(err, relevantFields...)

	if cls.Status >= http.StatusInternalServerError {
		log.Error().Err(err).
			Str("kind", cls.Kind.String()).
			Msg("Сага завершилась фатальной ошибкой")
		r.sink.Publish(ctx, report.CrashRecord{
			Method:  c.Request.Method,
			Path:    c.FullPath(),
			Status:  cls.Status,
			Kind:    cls.Kind.String(),
			Message: err.Error(),
		})
	} else {
		log.Warn().Err(err).
			Str("kind", cls.Kind.String()).
			Int("status", cls.Status).
			Msg("Сага завершилась ошибкой")
	}

	if cls.Kind == domain.Validate {
		c.JSON(cls.Status, cls.Fields)
		return
	}

	c.JSON(cls.Status, ErrorResponse{
		Error:   cls.Kind.String(),
		Message: cls.Message,
	})
}
