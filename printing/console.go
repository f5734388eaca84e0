package printing

import (
	"context"

	"adisyo-api/logger"
	"adisyo-api/models"
)

// ConsoleTransport logs the ticket instead of printing it.
type ConsoleTransport struct {
	Log logger.Logger
}

func (c *ConsoleTransport) Print(ctx context.Context, printer models.Printer, content string) error {
	c.Log.Info("print_console", "console print", logger.RequestID(ctx), map[string]interface{}{
		"printer": printer.Name,
		"content": content,
	})
	return nil
}
