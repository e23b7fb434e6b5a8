// Package chatwidget mounts the chat entry point chosen by the chat-widget
// experiment.
package chatwidget

import (
	"strings"

	"github.com/turtacn/landing-ab/internal/domain/page"
)

// Variants of the chat-widget test.
const (
	VariantNone     = "no-chat"
	VariantTelegram = "telegram-widget"
	VariantIntercom = "intercom-style"
)

// Element classes the widgets are mounted with.
const (
	ClassTelegram = "chat-widget"
	ClassIntercom = "chat-widget-intercom"
)

// DefaultTelegramUser receives chats when Config.TelegramUser is empty.
const DefaultTelegramUser = "pavellipin"

// Config parameterises the widgets.
type Config struct {
	TelegramUser string
}

// TelegramURL returns the t.me link of the configured user.
func (c Config) TelegramURL() string {
	user := strings.TrimPrefix(strings.TrimSpace(c.TelegramUser), "@")
	if user == "" {
		user = DefaultTelegramUser
	}
	return "https://t.me/" + user
}

// Mount appends the widget of variant to the root of s.  no-chat and unknown
// variants mount nothing.  Mounting twice leaves a single widget.  It reports
// whether a widget is present afterwards.
func Mount(variant string, cfg Config, s page.Surface) bool {
	var frag page.Fragment
	var class string
	switch variant {
	case VariantTelegram:
		frag, class = TelegramWidget(cfg), ClassTelegram
	case VariantIntercom:
		frag, class = IntercomWidget(cfg), ClassIntercom
	default:
		return false
	}
	if _, exists := s.FindOne("." + class); exists {
		return true
	}
	s.Append(s.Root(), frag)
	return true
}

// TelegramWidget is a floating link straight to the Telegram chat.
func TelegramWidget(cfg Config) page.Fragment {
	return page.El("a", []page.Attr{
		page.A("class", ClassTelegram),
		page.A("href", cfg.TelegramURL()),
		page.A("target", "_blank"),
		page.A("rel", "noopener"),
		page.A("aria-label", "Написать в Telegram"),
	})
}

// IntercomWidget is a launcher button with a collapsed panel offering the
// Telegram chat and the contact form.
func IntercomWidget(cfg Config) page.Fragment {
	item := func(href, text string, extra ...page.Attr) page.Fragment {
		attrs := append([]page.Attr{page.A("class", "chat-widget-intercom__link"), page.A("href", href)}, extra...)
		return page.TextEl("a", attrs, text)
	}
	return page.El("div", []page.Attr{page.A("class", ClassIntercom)},
		page.El("button", []page.Attr{
			page.A("type", "button"),
			page.A("class", "chat-widget-intercom__toggle"),
			page.A("aria-expanded", "false"),
		}),
		page.El("div", []page.Attr{
			page.A("class", "chat-widget-intercom__panel"),
			page.A("hidden", ""),
		},
			page.El("div", []page.Attr{page.A("class", "chat-widget-intercom__header")},
				page.TextEl("h4", nil, "Привет! 👋"),
				page.TextEl("p", nil, "Как могу помочь?"),
			),
			page.El("div", []page.Attr{page.A("class", "chat-widget-intercom__body")},
				item(cfg.TelegramURL(), "💬 Написать в Telegram", page.A("target", "_blank")),
				item("#contact", "📝 Оставить заявку"),
			),
		),
	)
}

//Personal.AI order the ending
