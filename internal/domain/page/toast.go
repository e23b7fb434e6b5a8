package page

import "time"

// ToastKind selects the toast colour.
type ToastKind string

const (
	ToastInfo    ToastKind = "info"
	ToastSuccess ToastKind = "success"
	ToastError   ToastKind = "error"
)

// DefaultToastDuration is how long a toast stays on screen.
const DefaultToastDuration = 3 * time.Second

// Toast is a short notification returned with API responses.
type Toast struct {
	Message    string    `json:"message"`
	Kind       ToastKind `json:"kind"`
	DurationMS int64     `json:"duration_ms"`
}

// NewToast builds a toast with the default duration.
func NewToast(kind ToastKind, message string) Toast {
	return Toast{Message: message, Kind: kind, DurationMS: DefaultToastDuration.Milliseconds()}
}

// Fragment renders t as a toast element.
func (t Toast) Fragment() Fragment {
	kind := t.Kind
	if kind == "" {
		kind = ToastInfo
	}
	return TextEl("div", []Attr{A("class", "toast toast--"+string(kind)), A("role", "status")}, t.Message)
}

//Personal.AI order the ending
