package lead

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

var markdownSpecial = regexp.MustCompile("[_*\\[\\]()~`>#+=|{}.!-]")

// EscapeMarkdown escapes the characters Telegram Markdown treats specially.
func EscapeMarkdown(s string) string {
	return markdownSpecial.ReplaceAllString(s, `\$0`)
}

// TimestampLayout renders times the way the ru-RU locale does.
const TimestampLayout = "02.01.2006, 15:04:05"

// FormatMessage renders the Telegram notification of l.
func FormatMessage(l *Lead, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	at := l.CreatedAt.In(loc).Format(TimestampLayout)
	if l.Source == SourceChatWidget {
		return formatChat(l, at)
	}
	return formatContact(l, at)
}

func formatContact(l *Lead, at string) string {
	task := l.Task
	if task == "" {
		task = "Не указана"
	}
	var b strings.Builder
	b.WriteString("🔔 *Новая заявка с сайта!*\n\n")
	fmt.Fprintf(&b, "👤 *Имя:* %s\n", EscapeMarkdown(l.Name))
	fmt.Fprintf(&b, "📱 *Контакт:* %s\n", EscapeMarkdown(l.Contact))
	fmt.Fprintf(&b, "📦 *Пакет:* %s\n\n", l.Package)
	fmt.Fprintf(&b, "💬 *Задача:*\n%s\n\n", EscapeMarkdown(task))
	b.WriteString("---\n")
	fmt.Fprintf(&b, "🔗 Источник: %s\n", l.PageURL)
	fmt.Fprintf(&b, "⏰ Время: %s", at)
	return b.String()
}

func formatChat(l *Lead, at string) string {
	var b strings.Builder
	b.WriteString("🤖 *Новая заявка с чат-бота*\n\n")
	fmt.Fprintf(&b, "📋 *Задача:* %s\n", Label(FieldTaskType, l.TaskType))
	fmt.Fprintf(&b, "⏱ *Часов в неделю:* %s\n", l.HoursPerWeek)
	fmt.Fprintf(&b, "📅 *Сроки:* %s\n", Label(FieldTimeline, l.Timeline))
	fmt.Fprintf(&b, "📞 *Контакт:* %s\n\n", l.Contact)
	fmt.Fprintf(&b, "🔗 *Страница:* %s\n", l.PageURL)
	fmt.Fprintf(&b, "📊 *UTM:* %s\n", l.UTMSource)
	fmt.Fprintf(&b, "🕐 *Время:* %s", at)
	return b.String()
}

//Personal.AI order the ending
