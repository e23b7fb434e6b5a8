package lead

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEscapeMarkdown(t *testing.T) {
	for _, c := range strings.Split("_*[]()~`>#+=|{}.!-", "") {
		assert.Equal(t, `\`+c, EscapeMarkdown(c), c)
	}
	assert.Equal(t, `a\_b`, EscapeMarkdown("a_b"))
	assert.Equal(t, "Привет", EscapeMarkdown("Привет"))
	assert.Equal(t, "", EscapeMarkdown(""))
}

func TestFormatMessage_Contact(t *testing.T) {
	l := &Lead{
		Source:    SourceContactForm,
		Name:      "Анна_К",
		Contact:   "anna@example.com",
		Package:   DefaultPackage,
		PageURL:   "https://example.com/",
		CreatedAt: time.Date(2026, 3, 1, 10, 5, 0, 0, time.UTC),
	}
	msg := FormatMessage(l, nil)

	assert.Contains(t, msg, "🔔 *Новая заявка с сайта!*")
	assert.Contains(t, msg, `👤 *Имя:* Анна\_К`)
	assert.Contains(t, msg, `📱 *Контакт:* anna@example\.com`)
	assert.Contains(t, msg, "💬 *Задача:*\nНе указана")
	assert.Contains(t, msg, "⏰ Время: 01.03.2026, 10:05:00")
}

func TestFormatMessage_Chat(t *testing.T) {
	moscow := time.FixedZone("MSK", 3*60*60)
	l := &Lead{
		Source:       SourceChatWidget,
		Contact:      "@client",
		TaskType:     "support",
		HoursPerWeek: "5-10",
		Timeline:     "asap",
		UTMSource:    "direct",
		CreatedAt:    time.Date(2026, 3, 1, 10, 5, 0, 0, time.UTC),
	}
	msg := FormatMessage(l, moscow)

	assert.Contains(t, msg, "🤖 *Новая заявка с чат-бота*")
	assert.Contains(t, msg, "📋 *Задача:* Клиентский сервис")
	assert.Contains(t, msg, "📅 *Сроки:* Как можно скорее")
	assert.Contains(t, msg, "🕐 *Время:* 01.03.2026, 13:05:00")
}

//Personal.AI order the ending
