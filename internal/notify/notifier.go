package notify

import (
	"context"
	"fmt"

	tgbot "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

type Notifier interface {
	Send(msg string)
	Sendf(format string, args ...any)
}

// StatusFunc отдаёт текст для команды /status.
type StatusFunc func() string

const queueSize = 64

// Telegram: отправка через очередь, чтобы медленный Telegram не тормозил стратегии.
// Из команд понимает только /status.
type Telegram struct {
	bot    *tgbot.BotAPI
	chatID int64
	log    *zap.Logger
	status StatusFunc

	queue chan string
}

func NewTelegram(token string, chatID int64, log *zap.Logger, status StatusFunc) (*Telegram, error) {
	b, err := tgbot.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram bot: %w", err)
	}
	return &Telegram{
		bot:    b,
		chatID: chatID,
		log:    log.Named("telegram"),
		status: status,
		queue:  make(chan string, queueSize),
	}, nil
}

func (t *Telegram) Send(msg string) {
	if t == nil || t.bot == nil || t.chatID == 0 {
		return
	}
	select {
	case t.queue <- msg:
	default:
		t.log.Warn("telegram queue is full, message dropped", zap.String("msg", msg))
	}
}

func (t *Telegram) Sendf(format string, args ...any) { t.Send(fmt.Sprintf(format, args...)) }

func (t *Telegram) send(msg string) {
	if _, err := t.bot.Send(tgbot.NewMessage(t.chatID, msg)); err != nil {
		t.log.Warn("telegram send failed", zap.Error(err))
	}
}

// Start: воркер отправки + long-polling команд.
func (t *Telegram) Start(ctx context.Context) error {
	if t == nil || t.bot == nil {
		return nil
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case msg := <-t.queue:
				t.send(msg)
			}
		}
	}()

	u := tgbot.NewUpdate(0)
	u.Timeout = 30
	u.AllowedUpdates = []string{"message"}

	updates := t.bot.GetUpdatesChan(u)
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case upd := <-updates:
				if upd.Message == nil || upd.Message.Chat == nil ||
					upd.Message.Chat.ID != t.chatID || !upd.Message.IsCommand() {
					continue
				}
				switch upd.Message.Command() {
				case "status":
					if t.status != nil {
						t.Send(t.status())
					}
				}
			}
		}
	}()
	return nil
}

func (t *Telegram) Stop() {
	if t == nil || t.bot == nil {
		return
	}
	t.bot.StopReceivingUpdates()
}

// Log: когда Telegram не настроен, пишем уведомления в лог.
type Log struct {
	log *zap.Logger
}

func NewLog(log *zap.Logger) *Log                { return &Log{log: log.Named("notify")} }
func (l *Log) Send(msg string)                  { l.log.Info(msg) }
func (l *Log) Sendf(format string, args ...any) { l.log.Info(fmt.Sprintf(format, args...)) }
