package lead

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"
)

// Field error messages.
const (
	MessageRequired       = "Это поле обязательно"
	MessageInvalidContact = "Введите корректный email или Telegram"
)

// Toast messages shown after a form submission.
const (
	MessageSubmitted    = "Спасибо! Скоро свяжусь с вами"
	MessageSubmitFailed = "Ошибка отправки. Попробуйте через Telegram"
)

var (
	emailPattern    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	telegramPattern = regexp.MustCompile(`^@?[a-zA-Z0-9_]{5,}$`)
)

// cleanText composes decomposed input (macOS keyboards send "й" as two
// runes) and trims it.
func cleanText(s string) string { return strings.TrimSpace(norm.NFC.String(s)) }

// cleanContact also folds compatibility forms such as a fullwidth "＠".
func cleanContact(s string) string { return strings.TrimSpace(norm.NFKC.String(s)) }

// IsValidContact reports whether s is an email address or a Telegram handle.
func IsValidContact(s string) bool {
	return emailPattern.MatchString(s) || telegramPattern.MatchString(s)
}

// ContactForm is the submitted contact form.
type ContactForm struct {
	Name     string `json:"name"`
	Contact  string `json:"contact"`
	Task     string `json:"task"`
	Package  string `json:"package"`
	Source   string `json:"source"`
	Referrer string `json:"referrer"`
}

// FieldErrors maps a form field to its error message.
type FieldErrors map[string]string

// Validate checks the required fields and the contact format.
func (f ContactForm) Validate() FieldErrors {
	errs := FieldErrors{}
	for field, value := range map[string]string{"name": f.Name, "contact": f.Contact, "task": f.Task} {
		if cleanText(value) == "" {
			errs[field] = MessageRequired
		}
	}
	if c := cleanContact(f.Contact); c != "" && !IsValidContact(c) {
		errs["contact"] = MessageInvalidContact
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// ToLead converts a valid form into a lead.
func (f ContactForm) ToLead(visitorID string, now time.Time) *Lead {
	pkg := cleanText(f.Package)
	if pkg == "" {
		pkg = DefaultPackage
	}
	return &Lead{
		ID:        uuid.NewString(),
		Source:    SourceContactForm,
		VisitorID: visitorID,
		CreatedAt: now.UTC(),
		Name:      cleanText(f.Name),
		Contact:   cleanContact(f.Contact),
		Task:      cleanText(f.Task),
		Package:   pkg,
		PageURL:   f.Source,
		Referrer:  f.Referrer,
		UTMSource: UTMSource(f.Source),
	}
}

//Personal.AI order the ending
