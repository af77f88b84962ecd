package strategy

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"invest_bot/internal/broker"
	"invest_bot/internal/models"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v2"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// в ошибках имена полей как в конфиге
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	_ = v.RegisterValidation("candle_interval", func(fl validator.FieldLevel) bool {
		_, err := broker.ParseCandleInterval(fl.Field().String())
		return err == nil
	})
	return v
}

// decodeParams накладывает params на дефолты в dst и валидирует результат.
// Неизвестные ключи: ошибка, а не молчаливый пропуск.
func decodeParams(kind models.StrategyKind, params map[string]any, dst any) error {
	if len(params) > 0 {
		raw, err := yaml.Marshal(params)
		if err != nil {
			return &ConfigurationError{Kind: kind, Reason: err.Error()}
		}
		if err := yaml.UnmarshalStrict(raw, dst); err != nil {
			return &ConfigurationError{Kind: kind, Reason: err.Error()}
		}
	}

	if err := validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return &ConfigurationError{Kind: kind, Field: fe.Field(), Reason: describeRule(fe)}
		}
		return &ConfigurationError{Kind: kind, Reason: err.Error()}
	}
	return nil
}

func describeRule(fe validator.FieldError) string {
	switch fe.Tag() {
	case "gte":
		return fmt.Sprintf("must be >= %s, got %v", fe.Param(), fe.Value())
	case "lte":
		return fmt.Sprintf("must be <= %s, got %v", fe.Param(), fe.Value())
	case "required":
		return "is required"
	case "candle_interval":
		return fmt.Sprintf("unsupported candle interval %q", fe.Value())
	default:
		return fmt.Sprintf("failed %q check, got %v", fe.Tag(), fe.Value())
	}
}
