package printing

import (
	"fmt"
	"strings"
	"time"
)

const rule = "--------------------------------"

type TicketLine struct {
	Quantity int
	Name     string
	Note     string
}

// Ticket is the batch of an order's new items routed to one station.
type Ticket struct {
	Station   string
	Table     string
	ServerID  *uint
	PrintedAt time.Time
	Lines     []TicketLine
}

func (t Ticket) Render() string {
	var b strings.Builder
	b.WriteString("\n" + rule + "\n")
	fmt.Fprintf(&b, "%s TICKET\n", strings.ToUpper(t.Station))
	fmt.Fprintf(&b, "Table: %s\n", t.Table)
	if t.ServerID != nil {
		fmt.Fprintf(&b, "Server: %d\n", *t.ServerID)
	} else {
		b.WriteString("Server: -\n")
	}
	fmt.Fprintf(&b, "Time: %s\n", t.PrintedAt.Format("15:04"))
	b.WriteString(rule + "\n")
	for _, line := range t.Lines {
		b.WriteString(line.String())
		b.WriteString("\n")
	}
	b.WriteString("\n" + rule + "\n\n")
	return b.String()
}

func (l TicketLine) String() string {
	if l.Note == "" {
		return fmt.Sprintf("%d x %s", l.Quantity, l.Name)
	}
	return fmt.Sprintf("%d x %s (%s)", l.Quantity, l.Name, l.Note)
}

// RenderTestSlip is the content sent by the printer test endpoint.
func RenderTestSlip(printerName string, at time.Time) string {
	var b strings.Builder
	b.WriteString("\n" + rule + "\n")
	b.WriteString("TEST SLIP\n")
	b.WriteString(rule + "\n")
	fmt.Fprintf(&b, "Printer: %s\n", printerName)
	fmt.Fprintf(&b, "Date: %s\n", at.Format("02.01.2006 15:04"))
	b.WriteString(rule + "\n")
	b.WriteString("This is a test slip.\n")
	b.WriteString(rule + "\n")
	return b.String()
}
