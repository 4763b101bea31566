package port

import "context"

// Clipboard receives copied text.
type Clipboard interface {
	WriteText(ctx context.Context, text string) error
}
