package printing

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"adisyo-api/logger"
	"adisyo-api/models"
)

func TestTicketRender(t *testing.T) {
	server := uint(3)
	ticket := Ticket{
		Station:   "Kitchen",
		Table:     "Masa 4",
		ServerID:  &server,
		PrintedAt: time.Date(2026, 1, 5, 19, 42, 0, 0, time.UTC),
		Lines: []TicketLine{
			{Quantity: 2, Name: "Adana Kebap", Note: "acili"},
			{Quantity: 1, Name: "Lahmacun"},
		},
	}

	out := ticket.Render()
	assert.True(t, strings.HasPrefix(out, "\n"+rule+"\nKITCHEN TICKET\n"))
	assert.Contains(t, out, "Table: Masa 4\n")
	assert.Contains(t, out, "Server: 3\n")
	assert.Contains(t, out, "Time: 19:42\n")
	assert.Contains(t, out, "2 x Adana Kebap (acili)\n1 x Lahmacun\n")
	assert.True(t, strings.HasSuffix(out, "\n"+rule+"\n\n"))

	ticket.ServerID = nil
	assert.Contains(t, ticket.Render(), "Server: -\n")
}

func TestRenderTestSlip(t *testing.T) {
	out := RenderTestSlip("Bar", time.Date(2026, 2, 1, 9, 5, 0, 0, time.UTC))
	assert.Contains(t, out, "Printer: Bar")
	assert.Contains(t, out, "Date: 01.02.2026 09:05")
}

func TestPrinterAddr(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"192.168.1.10", "192.168.1.10:9100", false},
		{"printer.local:9101", "printer.local:9101", false},
		{" 10.0.0.2:9100 ", "10.0.0.2:9100", false},
		{"10.0.0.2:abc", "", true},
		{"10.0.0.2:70000", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := printerAddr(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNetworkTransportWritesEscPos(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	received := make(chan []byte, 1)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		data, _ := io.ReadAll(conn)
		received <- data
	}()

	transport := &NetworkTransport{Timeout: 2 * time.Second}
	printer := models.Printer{Name: "Mutfak", Type: models.PrinterNetwork, ConnectionString: ln.Addr().String()}
	require.NoError(t, transport.Print(context.Background(), printer, "1 x Ayran\n"))

	select {
	case data := <-received:
		assert.True(t, bytes.HasPrefix(data, escInit))
		assert.True(t, bytes.HasSuffix(data, escCut))
		assert.Contains(t, string(data), "1 x Ayran\n")
	case <-time.After(2 * time.Second):
		t.Fatal("printer received nothing")
	}
}

func TestNetworkTransportUnreachable(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	ln.Close()

	transport := &NetworkTransport{Timeout: 500 * time.Millisecond}
	err = transport.Print(context.Background(), models.Printer{Name: "Bar", ConnectionString: addr}, "x")
	assert.Error(t, err)
}

func TestRouterDispatchesByType(t *testing.T) {
	var got []string
	record := func(name string) Transport {
		return TransportFunc(func(_ context.Context, p models.Printer, _ string) error {
			got = append(got, name+":"+p.Name)
			return nil
		})
	}
	router := NewRouter().
		Register(models.PrinterNetwork, record("net")).
		Register(models.PrinterConsole, record("console"))

	ctx := context.Background()
	require.NoError(t, router.Print(ctx, models.Printer{Name: "A", Type: models.PrinterNetwork}, ""))
	require.NoError(t, router.Print(ctx, models.Printer{Name: "B", Type: models.PrinterConsole}, ""))
	assert.Equal(t, []string{"net:A", "console:B"}, got)

	err := router.Print(ctx, models.Printer{Name: "C", Type: "usb"}, "")
	assert.True(t, errors.Is(err, ErrUnsupportedType))
}

func TestConsoleTransportLogsTicket(t *testing.T) {
	var buf bytes.Buffer
	transport := &ConsoleTransport{Log: logger.NewWithWriter("test", false, &buf)}

	ctx := logger.WithRequestID(context.Background(), "req-1")
	require.NoError(t, transport.Print(ctx, models.Printer{Name: "Bar"}, "1 x Cay"))

	var entry logger.LogEntry
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "print_console", entry.Action)
	assert.Equal(t, "req-1", entry.RequestID)
	assert.Equal(t, "1 x Cay", entry.Details["content"])
}

func TestQueueTransportWithoutURL(t *testing.T) {
	router, queue := NewDefaultRouter(Options{Timeout: time.Second, TicketQueue: "kitchen_tickets", Log: logger.Discard()})
	defer queue.Close()

	err := router.Print(context.Background(), models.Printer{Name: "KDS", Type: models.PrinterQueue}, "x")
	assert.ErrorContains(t, err, "AMQP_URL")
}
