package web

import "time"

// Toast kinds understood by the front end.
const (
	ToastSuccess = "success"
	ToastError   = "error"
)

// Toast is a transient notification shown by the client.
type Toast struct {
	Kind       string `json:"kind"`
	Text       string `json:"text"`
	DurationMS int64  `json:"durationMs"`
}

// ToastBuilder assembles a Toast. It defaults to a 2s success toast.
type ToastBuilder struct {
	toast Toast
}

func NewToast(text string) *ToastBuilder {
	return &ToastBuilder{
		toast: Toast{
			Kind:       ToastSuccess,
			Text:       text,
			DurationMS: (2 * time.Second).Milliseconds(),
		},
	}
}

// Error switches the toast to the error style.
func (b *ToastBuilder) Error() *ToastBuilder {
	b.toast.Kind = ToastError
	return b
}

func (b *ToastBuilder) WithDuration(d time.Duration) *ToastBuilder {
	b.toast.DurationMS = d.Milliseconds()
	return b
}

func (b *ToastBuilder) Build() *Toast {
	t := b.toast
	return &t
}

// Durations used across the handlers.
const (
	toastErrorDuration = 4 * time.Second
	toastSubmitFailure = 5 * time.Second
	toastLoginInvalid  = 3 * time.Second
)

func successToast(text string) *Toast {
	return NewToast(text).Build()
}

func errorToast(text string, d time.Duration) *Toast {
	return NewToast(text).Error().WithDuration(d).Build()
}
