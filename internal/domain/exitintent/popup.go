package exitintent

// Variants of the exit-intent test.
const (
	VariantNoPopup    = "no-popup"
	VariantDiscount   = "discount-popup"
	VariantLeadMagnet = "lead-magnet-popup"
)

// Popup is the content shown when exit intent is detected.
type Popup struct {
	Variant          string `json:"variant"`
	Title            string `json:"title"`
	Text             string `json:"text"`
	EmailPlaceholder string `json:"email_placeholder"`
	Button           string `json:"button"`
	Dismiss          string `json:"dismiss"`
}

var popups = map[string]Popup{
	VariantDiscount: {
		Variant:          VariantDiscount,
		Title:            "Подождите! 🎁",
		Text:             "Получите скидку 10% на первый проект",
		EmailPlaceholder: "Ваш email",
		Button:           "Получить скидку",
		Dismiss:          "Нет, спасибо",
	},
	VariantLeadMagnet: {
		Variant:          VariantLeadMagnet,
		Title:            "Бесплатный чек-лист 📋",
		Text:             "15 процессов, которые можно автоматизировать уже сегодня",
		EmailPlaceholder: "Ваш email",
		Button:           "Скачать бесплатно",
		Dismiss:          "Закрыть",
	},
}

// PopupFor returns the popup of variant.  no-popup and unknown variants have
// none.
func PopupFor(variant string) (Popup, bool) {
	p, ok := popups[variant]
	return p, ok
}

//Personal.AI order the ending
