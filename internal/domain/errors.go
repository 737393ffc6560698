package domain

import (
	"encoding/json"
	"fmt"
)

// ErrorKind — категория ошибки координатора.
// Категория определяет HTTP статус ответа: Parse и Validate отвечают 400,
// Forbidden 403, NotFound 404, всё остальное 500.
type ErrorKind int

const (
	// Unknown — неклассифицированная ошибка, отвечает 500.
	Unknown ErrorKind = iota

	// Parse — не разобрано тело входящего запроса.
	Parse

	// Validate — downstream сервис отклонил данные пользователя.
	Validate

	// Forbidden — downstream сервис запретил операцию.
	Forbidden

	// NotFound — запрошенная сущность отсутствует.
	NotFound

	// HTTPClient — сбой HTTP вызова к downstream сервису.
	HTTPClient

	// RPCClient — сбой вызова через типизированный REST клиент.
	RPCClient
)

// String возвращает имя категории для логов и crash report.
func (k ErrorKind) String() string {
	switch k {
	case Parse:
		return "parse"
	case Validate:
		return "validate"
	case Forbidden:
		return "forbidden"
	case NotFound:
		return "not_found"
	case HTTPClient:
		return "http_client"
	case RPCClient:
		return "rpc_client"
	default:
		return "unknown"
	}
}

// ErrorEnvelope — тело ошибки платформенного сервиса.
// Каждый микросервис платформы отвечает на ошибку JSON вида
// {"payload": …, "code": 400, "description": "…"}.
type ErrorEnvelope struct {
	Payload     json.RawMessage `json:"payload,omitempty"`
	Code        int             `json:"code"`
	Description string          `json:"description"`
}

// ValidationPayload — полевые ошибки валидации от downstream сервиса.
// Ключ — имя поля, значение — список записей об ошибках в исходном виде.
type ValidationPayload map[string][]json.RawMessage

// Filter оставляет только перечисленные поля, по первой записи на поле.
// Пустые списки отбрасываются.
func (p ValidationPayload) Filter(fields ...string) ValidationPayload {
	out := ValidationPayload{}
	for _, field := range fields {
		if entries, ok := p[field]; ok && len(entries) > 0 {
			out[field] = entries[:1]
		}
	}
	return out
}

// ClientError — ошибка вызова downstream сервиса.
// Несёт HTTP статус и разобранный конверт ошибки; при транспортном сбое
// статус равен нулю и конверта нет.
type ClientError struct {
	Service  string
	Method   string
	Path     string
	Status   int
	Envelope *ErrorEnvelope
	Err      error
}

// Error возвращает описание ошибки для логов.
func (e *ClientError) Error() string {
	if e.IsTransport() {
		return fmt.Sprintf("%s: %s %s: %v", e.Service, e.Method, e.Path, e.Err)
	}
	if e.Envelope != nil {
		return fmt.Sprintf("%s: %s %s: статус %d: %s", e.Service, e.Method, e.Path, e.Status, e.Envelope.Description)
	}
	return fmt.Sprintf("%s: %s %s: статус %d", e.Service, e.Method, e.Path, e.Status)
}

// Unwrap отдаёт транспортную причину для errors.Is/As.
func (e *ClientError) Unwrap() error {
	return e.Err
}

// IsTransport сообщает, дошёл ли запрос до сервиса.
func (e *ClientError) IsTransport() bool {
	return e.Status == 0
}

// ValidationErrors разбирает payload конверта как полевые ошибки валидации.
func (e *ClientError) ValidationErrors() (ValidationPayload, error) {
	if e.Envelope == nil || len(e.Envelope.Payload) == 0 {
		return nil, fmt.Errorf("конверт ошибки не содержит payload")
	}
	var p ValidationPayload
	if err := json.Unmarshal(e.Envelope.Payload, &p); err != nil {
		return nil, fmt.Errorf("payload не является картой ошибок валидации: %w", err)
	}
	return p, nil
}

// Error — заранее классифицированная ошибка бизнес-потока.
// Возвращается сагами там, где категория известна без разбора ответа,
// например NotFound при пустом результате поиска пользователя.
type Error struct {
	Kind    ErrorKind
	Message string
	Fields  ValidationPayload
	Cause   error
}

// Error возвращает сообщение ошибки.
func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Kind.String()
}

// Unwrap отдаёт причину для errors.Is/As.
func (e *Error) Unwrap() error {
	return e.Cause
}

// NewNotFound создаёт ошибку отсутствующей сущности.
func NewNotFound(message string) *Error {
	return &Error{Kind: NotFound, Message: message}
}

// NewForbidden создаёт ошибку запрещённой операции.
func NewForbidden(message string) *Error {
	return &Error{Kind: Forbidden, Message: message}
}

// NewParse создаёт ошибку разбора входящего запроса.
func NewParse(message string, cause error) *Error {
	return &Error{Kind: Parse, Message: message, Cause: cause}
}
