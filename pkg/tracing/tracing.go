package tracing

import (
	"context"
	"fmt"
	"invest_bot/pkg/logger"

	"github.com/opentracing/opentracing-go"
	"github.com/opentracing/opentracing-go/ext"
	jCfg "github.com/uber/jaeger-client-go/config"
	"github.com/uber/jaeger-lib/metrics"
)

type ctxKey string

const (
	TraceIDKey ctxKey = "trace_id"
	SpanIDKey  ctxKey = "span_id"
)

var (
	// Неверное не самое элегантное решение, но лучше чем выносить константу в отдельный пакет
	// лучше инициализирвоать при инстанцировании через аргументы.
	serviceName = "default"
)

func SetServiceName(newName string) string {
	oldName := serviceName
	serviceName = newName

	return oldName
}

type Config struct {
	Host string
	Port int
}

// Enabled: без хоста агента трейсинг не поднимаем, остаётся NoopTracer.
func (c Config) Enabled() bool { return c.Host != "" && c.Port > 0 }

func InitTracer(conf Config) (opentracing.Tracer, func(), error) {
	if !conf.Enabled() {
		return opentracing.NoopTracer{}, func() {}, nil
	}

	cfg := &jCfg.Configuration{
		ServiceName: serviceName,
		Sampler: &jCfg.SamplerConfig{
			Type:  "const",
			Param: 1,
		},
		Reporter: &jCfg.ReporterConfig{
			LogSpans:           true,
			LocalAgentHostPort: fmt.Sprintf("%s:%d", conf.Host, conf.Port),
		},
	}

	jMetricsFactory := metrics.NullFactory
	tracer, closer, err := cfg.NewTracer(
		jCfg.Metrics(jMetricsFactory),
	)
	if err != nil {
		return nil, nil, err
	}

	opentracing.SetGlobalTracer(tracer)
	return tracer, func() {
		if err := closer.Close(); err != nil {
			logger.Error("Error closing Jaeger tracer: %v", err)
		}
	}, nil
}

// StartSpan открывает дочерний спан от глобального трейсера.
func StartSpan(ctx context.Context, operation string, tags opentracing.Tags) (opentracing.Span, context.Context) {
	span, ctx := opentracing.StartSpanFromContext(ctx, operation, tags)
	return span, ctx
}

// Finish закрывает спан, помечая ошибку если она есть.
func Finish(span opentracing.Span, err error) {
	if err != nil {
		ext.Error.Set(span, true)
		span.SetTag("error.message", err.Error())
	}
	span.Finish()
}
