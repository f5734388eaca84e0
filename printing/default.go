package printing

import (
	"time"

	"adisyo-api/logger"
	"adisyo-api/models"
)

// Options configures the default transport set.
type Options struct {
	Timeout     time.Duration
	AMQPURL     string
	TicketQueue string
	Log         logger.Logger
}

// NewDefaultRouter wires every supported printer type.
func NewDefaultRouter(opts Options) (*Router, *QueueTransport) {
	queue := &QueueTransport{
		URL:          opts.AMQPURL,
		DefaultQueue: opts.TicketQueue,
		Timeout:      opts.Timeout,
	}
	router := NewRouter().
		Register(models.PrinterNetwork, &NetworkTransport{Timeout: opts.Timeout}).
		Register(models.PrinterConsole, &ConsoleTransport{Log: opts.Log}).
		Register(models.PrinterQueue, queue)
	return router, queue
}
