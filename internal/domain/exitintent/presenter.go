package exitintent

import (
	"sync"
)

// Capture records the popup for delivery with the next response.
type Capture struct {
	mu     sync.Mutex
	popup  *Popup
	hidden bool
}

func (c *Capture) Show(p Popup) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.popup = &p
}

func (c *Capture) Hide() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.hidden = true
	c.popup = nil
}

// Take returns the shown popup once; later calls return nil.
func (c *Capture) Take() *Popup {
	c.mu.Lock()
	defer c.mu.Unlock()
	p := c.popup
	c.popup = nil
	return p
}

// Hidden reports whether the popup has been dismissed.
func (c *Capture) Hidden() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hidden
}

//Personal.AI order the ending
