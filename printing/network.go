package printing

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"adisyo-api/models"
)

const defaultPrinterPort = 9100

// ESC/POS control sequences.
var (
	escInit = []byte{0x1b, 0x40}
	escCut  = []byte{0x1d, 0x56, 0x41, 0x03}
)

// NetworkTransport writes raw ESC/POS to a printer listening on TCP.
// The printer connection string is "host" or "host:port".
type NetworkTransport struct {
	Timeout time.Duration
}

func (n *NetworkTransport) Print(ctx context.Context, printer models.Printer, content string) error {
	addr, err := printerAddr(printer.ConnectionString)
	if err != nil {
		return err
	}

	dialer := net.Dialer{Timeout: n.Timeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("connect printer %s (%s): %w", printer.Name, addr, err)
	}
	defer conn.Close()

	if n.Timeout > 0 {
		_ = conn.SetWriteDeadline(time.Now().Add(n.Timeout))
	}

	payload := make([]byte, 0, len(content)+len(escInit)+len(escCut))
	payload = append(payload, escInit...)
	payload = append(payload, content...)
	payload = append(payload, escCut...)
	if _, err := conn.Write(payload); err != nil {
		return fmt.Errorf("write printer %s: %w", printer.Name, err)
	}
	return nil
}

func printerAddr(connection string) (string, error) {
	connection = strings.TrimSpace(connection)
	if connection == "" {
		return "", fmt.Errorf("printer connection string is empty")
	}
	host, portStr, err := net.SplitHostPort(connection)
	if err != nil {
		// bare host or IP
		return net.JoinHostPort(connection, strconv.Itoa(defaultPrinterPort)), nil
	}
	port, err := strconv.Atoi(portStr)
	if err != nil || port <= 0 || port > 65535 {
		return "", fmt.Errorf("invalid printer port %q", portStr)
	}
	return net.JoinHostPort(host, portStr), nil
}
