// Package printing renders kitchen tickets and delivers them to printers.
package printing

import (
	"context"
	"errors"
	"fmt"

	"adisyo-api/models"
)

var ErrUnsupportedType = errors.New("unsupported printer type")

// Transport delivers rendered content to one printer.
type Transport interface {
	Print(ctx context.Context, printer models.Printer, content string) error
}

// TransportFunc adapts a function to Transport.
type TransportFunc func(ctx context.Context, printer models.Printer, content string) error

func (f TransportFunc) Print(ctx context.Context, printer models.Printer, content string) error {
	return f(ctx, printer, content)
}

// Router picks a transport by printer type.
type Router struct {
	transports map[string]Transport
}

func NewRouter() *Router {
	return &Router{transports: make(map[string]Transport)}
}

func (r *Router) Register(printerType string, t Transport) *Router {
	r.transports[printerType] = t
	return r
}

func (r *Router) Print(ctx context.Context, printer models.Printer, content string) error {
	t, ok := r.transports[printer.Type]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnsupportedType, printer.Type)
	}
	return t.Print(ctx, printer, content)
}
