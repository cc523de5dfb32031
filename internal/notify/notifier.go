package notify

import (
	"fmt"
	"log"

	tgbot "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type Notifier interface {
	Send(msg string)
	Sendf(format string, args ...any)
}

// Telegram — пассивный нотифайер: только исходящие сообщения в один чат.
type Telegram struct {
	bot    *tgbot.BotAPI
	chatID int64
}

func NewTelegram(token string, chatID int64) (*Telegram, error) {
	b, err := tgbot.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	return &Telegram{
		bot:    b,
		chatID: chatID,
	}, nil
}

func (t *Telegram) Send(msg string) {
	if t == nil || t.bot == nil || t.chatID == 0 {
		return
	}
	_, _ = t.bot.Send(tgbot.NewMessage(t.chatID, msg))
}

func (t *Telegram) Sendf(format string, args ...any) { t.Send(fmt.Sprintf(format, args...)) }

// Stdout — заглушка, всё в лог.
type Stdout struct{}

func NewStdout() *Stdout                           { return &Stdout{} }
func (s *Stdout) Send(msg string)                  { log.Println(msg) }
func (s *Stdout) Sendf(format string, args ...any) { log.Printf(format, args...) }
