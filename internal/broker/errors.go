package broker

import (
	"fmt"
	"net/http"
)

// CollaboratorError: брокер не ответил или ответил ошибкой.
type CollaboratorError struct {
	Op      string // Service/Method
	Status  int    // HTTP статус, 0 если до ответа не дошли
	Code    int    // код gRPC из тела ответа
	Message string
	Err     error
}

func (e *CollaboratorError) Error() string {
	switch {
	case e.Err != nil:
		return fmt.Sprintf("broker %s: %v", e.Op, e.Err)
	case e.Message != "":
		return fmt.Sprintf("broker %s: http %d code %d: %s", e.Op, e.Status, e.Code, e.Message)
	default:
		return fmt.Sprintf("broker %s: http %d", e.Op, e.Status)
	}
}

func (e *CollaboratorError) Unwrap() error {
	return e.Err
}

// Temporary: стоит ли повторить запрос.
func (e *CollaboratorError) Temporary() bool {
	if e.Status == 0 {
		return true
	}
	return e.Status == http.StatusTooManyRequests || e.Status >= 500
}
