package present

import (
	"context"
	"sync"

	"studentvoice/internal/validation"
)

// SubmitFunc dispatches validated text, typically to a mutation coordinator.
type SubmitFunc func(ctx context.Context, text string) error

// Composer is an input box. Submit validates the buffer, clears it before the
// network call starts, then dispatches.
type Composer struct {
	mu     sync.Mutex
	text   string
	submit SubmitFunc
}

func NewComposer(submit SubmitFunc) *Composer {
	return &Composer{submit: submit}
}

func (c *Composer) SetText(text string) {
	c.mu.Lock()
	c.text = text
	c.mu.Unlock()
}

func (c *Composer) Text() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.text
}

// CanSubmit reports whether the buffer holds non-blank text.
func (c *Composer) CanSubmit() bool {
	_, err := validation.NormalizeText(c.Text())
	return err == nil
}

// Submit sends the trimmed buffer. Invalid input is kept and nothing is sent.
// The buffer is not restored when dispatch fails.
func (c *Composer) Submit(ctx context.Context) error {
	c.mu.Lock()
	text, err := validation.NormalizeText(c.text)
	if err != nil {
		c.mu.Unlock()
		return err
	}
	c.text = ""
	c.mu.Unlock()

	return c.submit(ctx, text)
}
