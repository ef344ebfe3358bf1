package httpapi

import (
	"context"

	"github.com/Overland-East-Bay/front-desk/internal/app/checkin"
)

type terminalKey struct{}

func WithTerminal(ctx context.Context, t *checkin.Terminal) context.Context {
	return context.WithValue(ctx, terminalKey{}, t)
}

func TerminalFromContext(ctx context.Context) (*checkin.Terminal, bool) {
	t, ok := ctx.Value(terminalKey{}).(*checkin.Terminal)
	return t, ok && t != nil
}
