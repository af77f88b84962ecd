package broker

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"invest_bot/internal/helper"
	"invest_bot/pkg/tracing"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"github.com/opentracing/opentracing-go"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const (
	ProdURL    = "https://invest-public-api.tinkoff.ru/rest"
	SandboxURL = "https://sandbox-invest-public-api.tinkoff.ru/rest"

	apiPrefix = "tinkoff.public.invest.api.contract.v1."

	DefaultCallTimeout  = 15 * time.Second
	DefaultMaxRetries   = 2
	DefaultRetryBackoff = 300 * time.Millisecond
)

const (
	usersService       = "UsersService"
	marketDataService  = "MarketDataService"
	ordersService      = "OrdersService"
	operationsService  = "OperationsService"
	instrumentsService = "InstrumentsService"
	sandboxService     = "SandboxService"
)

type Config struct {
	Token   string
	Sandbox bool
	// BaseURL переопределяет хост (тесты, прокси). Пусто => прод или песочница по Sandbox.
	BaseURL      string
	AppName      string
	CallTimeout  time.Duration
	MaxRetries   int
	RetryBackoff time.Duration
}

func (c Config) withDefaults() Config {
	if c.BaseURL == "" {
		c.BaseURL = ProdURL
		if c.Sandbox {
			c.BaseURL = SandboxURL
		}
	}
	c.BaseURL = strings.TrimRight(c.BaseURL, "/")
	if c.CallTimeout <= 0 {
		c.CallTimeout = DefaultCallTimeout
	}
	if c.MaxRetries < 0 {
		c.MaxRetries = 0
	}
	if c.RetryBackoff <= 0 {
		c.RetryBackoff = DefaultRetryBackoff
	}
	return c
}

// Client: REST-клиент Tinkoff Invest (grpc-gateway).
type Client struct {
	cfg  Config
	http *http.Client
	log  *zap.Logger

	mu   sync.RWMutex
	lots map[string]int64 // figi -> лот, инструменты не меняются за время жизни процесса

	newOrderID func() string
	now        func() time.Time
}

var _ Broker = (*Client)(nil)

func NewClient(cfg Config, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		cfg:        cfg.withDefaults(),
		http:       &http.Client{},
		log:        log.Named("broker"),
		lots:       make(map[string]int64),
		newOrderID: uuid.NewString,
		now:        time.Now,
	}
}

func (c *Client) Sandbox() bool { return c.cfg.Sandbox }

// do шлёт POST {base}/<prefix><service>/<method> и раскладывает ответ в out.
// Таймаут на каждую попытку, повтор на сетевые ошибки, 429 и 5xx с линейной паузой.
func (c *Client) do(ctx context.Context, service, method string, in, out any) (err error) {
	op := service + "/" + method
	span, ctx := tracing.StartSpan(ctx, "broker."+method, opentracing.Tags{"broker.service": service})
	defer func() { tracing.Finish(span, err) }()

	if in == nil {
		in = struct{}{}
	}
	body, err := sonic.Marshal(in)
	if err != nil {
		return errors.Wrapf(err, "marshal %s", op)
	}

	for attempt := 0; ; attempt++ {
		var raw []byte
		raw, err = c.roundTrip(ctx, op, body)
		if err == nil {
			if out == nil {
				return nil
			}
			if uerr := sonic.Unmarshal(raw, out); uerr != nil {
				return &CollaboratorError{Op: op, Status: http.StatusOK, Err: errors.Wrap(uerr, "decode")}
			}
			return nil
		}

		var ce *CollaboratorError
		if !errors.As(err, &ce) || !ce.Temporary() || attempt >= c.cfg.MaxRetries || ctx.Err() != nil {
			return err
		}

		backoff := time.Duration(attempt+1) * c.cfg.RetryBackoff
		c.log.Warn("broker call failed, retrying",
			zap.String("op", op),
			zap.Int("attempt", attempt+1),
			zap.Duration("backoff", backoff),
			zap.Error(err),
		)
		if werr := helper.Sleep(ctx, backoff); werr != nil {
			return err
		}
	}
}

func (c *Client) roundTrip(ctx context.Context, op string, body []byte) ([]byte, error) {
	callCtx, cancel := context.WithTimeout(ctx, c.cfg.CallTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(callCtx, http.MethodPost, c.cfg.BaseURL+"/"+apiPrefix+op, bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, "build request")
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.Token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.cfg.AppName != "" {
		req.Header.Set("x-app-name", c.cfg.AppName)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &CollaboratorError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &CollaboratorError{Op: op, Status: resp.StatusCode, Err: errors.Wrap(err, "read body")}
	}

	if resp.StatusCode/100 != 2 {
		var apiErr struct {
			Code        int    `json:"code"`
			Message     string `json:"message"`
			Description string `json:"description"`
		}
		_ = sonic.Unmarshal(raw, &apiErr)

		msg := apiErr.Message
		if msg == "" {
			msg = strings.TrimSpace(string(raw))
		}
		if apiErr.Description != "" {
			msg += ": " + apiErr.Description
		}
		return nil, &CollaboratorError{Op: op, Status: resp.StatusCode, Code: apiErr.Code, Message: msg}
	}
	return raw, nil
}

// route: в песочнице счета, заявки и позиции живут в SandboxService.
func (c *Client) route(service, method string) (string, string) {
	if !c.cfg.Sandbox {
		return service, method
	}
	switch service + "/" + method {
	case usersService + "/GetAccounts":
		return sandboxService, "GetSandboxAccounts"
	case ordersService + "/GetOrders":
		return sandboxService, "GetSandboxOrders"
	case ordersService + "/PostOrder":
		return sandboxService, "PostSandboxOrder"
	case operationsService + "/GetPositions":
		return sandboxService, "GetSandboxPositions"
	}
	return service, method
}

func (c *Client) call(ctx context.Context, service, method string, in, out any) error {
	service, method = c.route(service, method)
	return c.do(ctx, service, method, in, out)
}
