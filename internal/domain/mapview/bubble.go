package mapview

import "github.com/Kilat-Pet-Delivery/service-routemap/internal/domain/geo"

// Bubble is the info popup anchored to a map position.
type Bubble struct {
	Position geo.Coordinate `json:"position"`
	Content  string         `json:"content"`
	IsOpen   bool           `json:"open"`
}

// SetPosition moves the bubble.
func (b *Bubble) SetPosition(c geo.Coordinate) { b.Position = c }

// SetContent replaces the bubble text.
func (b *Bubble) SetContent(text string) { b.Content = text }

// Open shows the bubble.
func (b *Bubble) Open() { b.IsOpen = true }

// Close hides the bubble.
func (b *Bubble) Close() { b.IsOpen = false }
