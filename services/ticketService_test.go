package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"adisyo-api/dtos"
	"adisyo-api/logger"
	"adisyo-api/models"
)

type sentTicket struct {
	printer string
	content string
}

// recordingTransport captures every ticket and fails for printers listed in
// failFor. onPrint, when set, runs before each ticket is recorded.
type recordingTransport struct {
	mu      sync.Mutex
	sent    []sentTicket
	failFor map[string]bool
	onPrint func(printer string)
}

func (r *recordingTransport) Print(_ context.Context, printer models.Printer, content string) error {
	if r.onPrint != nil {
		r.onPrint(printer.Name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failFor[printer.Name] {
		return errors.New("connection refused")
	}
	r.sent = append(r.sent, sentTicket{printer: printer.Name, content: content})
	return nil
}

type kitchenFixture struct {
	db      *gorm.DB
	orders  OrderService
	order   *models.Order
	kebap   models.MenuItem
	ayran   models.MenuItem
	salad   models.MenuItem
	kitchen models.Station
	bar     models.Station
}

// newKitchenFixture builds a kitchen and a bar station, each with its own
// printer, plus one menu item without a station.
func newKitchenFixture(t *testing.T) *kitchenFixture {
	t.Helper()
	db := newTestDB(t)
	f := &kitchenFixture{db: db, orders: NewOrderService(db)}

	kitchenPrinter := models.Printer{Name: "Mutfak", Type: models.PrinterNetwork, ConnectionString: "10.0.0.5", Status: models.PrinterActive}
	barPrinter := models.Printer{Name: "Bar", Type: models.PrinterConsole, Status: models.PrinterActive}
	require.NoError(t, db.Create(&kitchenPrinter).Error)
	require.NoError(t, db.Create(&barPrinter).Error)

	f.kitchen = models.Station{Name: "Kitchen", PrinterID: &kitchenPrinter.ID}
	f.bar = models.Station{Name: "Bar", PrinterID: &barPrinter.ID}
	require.NoError(t, db.Create(&f.kitchen).Error)
	require.NoError(t, db.Create(&f.bar).Error)

	f.kebap = seedMenuItem(t, db, "Adana Kebap", 220, &f.kitchen.ID)
	f.ayran = seedMenuItem(t, db, "Ayran", 30, &f.bar.ID)
	f.salad = seedMenuItem(t, db, "Coban Salata", 60, nil)

	table := seedTable(t, db, "Masa 1")
	order, err := f.orders.OpenTable(bg, table.ID, nil)
	require.NoError(t, err)
	f.order = order
	return f
}

func (f *kitchenFixture) add(t *testing.T, item models.MenuItem, qty int, note string) {
	t.Helper()
	_, err := f.orders.AddItem(bg, f.order.ID, dtos.AddItemInput{MenuItemID: item.ID, Quantity: intPtr(qty), Note: note})
	require.NoError(t, err)
}

func TestPrintOrderGroupsByStation(t *testing.T) {
	f := newKitchenFixture(t)
	f.add(t, f.kebap, 2, "az pismis")
	f.add(t, f.ayran, 1, "")

	transport := &recordingTransport{}
	svc := NewTicketService(f.db, transport, TicketOptions{MarkPrintedOnFailure: true}, logger.Discard())

	result, err := svc.PrintOrder(bg, f.order.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Stations)
	assert.Equal(t, "2 station tickets printed", result.Message)
	assert.Empty(t, result.UnroutedItems)

	require.Len(t, transport.sent, 2)
	assert.Equal(t, "Mutfak", transport.sent[0].printer)
	assert.Contains(t, transport.sent[0].content, "KITCHEN TICKET")
	assert.Contains(t, transport.sent[0].content, "Table: Masa 1")
	assert.Contains(t, transport.sent[0].content, "2 x Adana Kebap (az pismis)")
	assert.Equal(t, "Bar", transport.sent[1].printer)
	assert.Contains(t, transport.sent[1].content, "1 x Ayran")

	require.NotNil(t, result.Order)
	for _, item := range result.Order.Items {
		assert.True(t, item.IsPrinted, item.Name)
	}
}

func TestPrintOrderSecondRunIsNoop(t *testing.T) {
	f := newKitchenFixture(t)
	f.add(t, f.kebap, 1, "")

	transport := &recordingTransport{}
	svc := NewTicketService(f.db, transport, TicketOptions{MarkPrintedOnFailure: true}, logger.Discard())

	_, err := svc.PrintOrder(bg, f.order.ID)
	require.NoError(t, err)
	require.Len(t, transport.sent, 1)

	result, err := svc.PrintOrder(bg, f.order.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Stations)
	assert.Equal(t, "no new items to print", result.Message)
	assert.Len(t, transport.sent, 1)

	// only the newly added item goes out next time
	f.add(t, f.ayran, 2, "")
	result, err = svc.PrintOrder(bg, f.order.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Stations)
	require.Len(t, transport.sent, 2)
	assert.Equal(t, "Bar", transport.sent[1].printer)
}

func TestPrintOrderReportsUnroutedItems(t *testing.T) {
	f := newKitchenFixture(t)
	f.add(t, f.salad, 1, "")
	f.add(t, f.kebap, 1, "")

	transport := &recordingTransport{}
	svc := NewTicketService(f.db, transport, TicketOptions{MarkPrintedOnFailure: true}, logger.Discard())

	result, err := svc.PrintOrder(bg, f.order.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Stations)
	assert.Equal(t, []string{"Coban Salata"}, result.UnroutedItems)

	for _, item := range result.Order.Items {
		if item.MenuItemID == f.salad.ID {
			assert.False(t, item.IsPrinted)
		} else {
			assert.True(t, item.IsPrinted)
		}
	}
}

func TestPrintOrderFailurePolicy(t *testing.T) {
	tests := []struct {
		name        string
		markOnFail  bool
		wantPrinted bool
		wantCount   int
	}{
		{"marks printed on failure", true, true, 1},
		{"keeps pending on failure", false, false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newKitchenFixture(t)
			f.add(t, f.kebap, 1, "")

			transport := &recordingTransport{failFor: map[string]bool{"Mutfak": true}}
			svc := NewTicketService(f.db, transport, TicketOptions{MarkPrintedOnFailure: tt.markOnFail}, logger.Discard())

			result, err := svc.PrintOrder(bg, f.order.ID)
			require.NoError(t, err)
			assert.Equal(t, tt.wantCount, result.Stations)
			require.Len(t, result.Order.Items, 1)
			assert.Equal(t, tt.wantPrinted, result.Order.Items[0].IsPrinted)
		})
	}
}

func TestPrintOrderSkipsInactivePrinter(t *testing.T) {
	f := newKitchenFixture(t)
	require.NoError(t, f.db.Model(&models.Printer{}).Where("id = ?", *f.kitchen.PrinterID).
		Update("status", models.PrinterInactive).Error)
	f.add(t, f.kebap, 1, "")

	transport := &recordingTransport{}
	svc := NewTicketService(f.db, transport, TicketOptions{MarkPrintedOnFailure: true}, logger.Discard())

	result, err := svc.PrintOrder(bg, f.order.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Stations)
	assert.Empty(t, transport.sent)
	assert.False(t, result.Order.Items[0].IsPrinted)
}

func TestPrintOrderDisabled(t *testing.T) {
	f := newKitchenFixture(t)
	f.add(t, f.kebap, 1, "")
	seedSetting(t, f.db, models.SettingPrintEnabled, "false")

	transport := &recordingTransport{}
	svc := NewTicketService(f.db, transport, TicketOptions{MarkPrintedOnFailure: true}, logger.Discard())

	_, err := svc.PrintOrder(bg, f.order.ID)
	assert.ErrorIs(t, err, ErrPrintingDisabled)
	assert.Empty(t, transport.sent)
}

func TestTestPrint(t *testing.T) {
	f := newKitchenFixture(t)
	transport := &recordingTransport{failFor: map[string]bool{"Bar": true}}
	svc := NewTicketService(f.db, transport, TicketOptions{}, logger.Discard())

	result, err := svc.TestPrint(bg, *f.kitchen.PrinterID)
	require.NoError(t, err)
	assert.False(t, result.Demo)
	require.Len(t, transport.sent, 1)
	assert.Contains(t, transport.sent[0].content, "Mutfak")

	result, err = svc.TestPrint(bg, *f.bar.PrinterID)
	require.NoError(t, err)
	assert.True(t, result.Demo)

	_, err = svc.TestPrint(bg, 404)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPrintOrderDoesNotBlockEditsDuringDispatch(t *testing.T) {
	f := newKitchenFixture(t)
	f.add(t, f.kebap, 1, "")
	f.add(t, f.ayran, 1, "")

	transport := &recordingTransport{}
	transport.onPrint = func(printer string) {
		if printer != "Mutfak" {
			return
		}
		done := make(chan error, 1)
		go func() {
			_, err := f.orders.AddItem(bg, f.order.ID, dtos.AddItemInput{MenuItemID: f.ayran.ID, Note: "buzlu"})
			done <- err
		}()
		select {
		case err := <-done:
			require.NoError(t, err)
		case <-time.After(5 * time.Second):
			t.Fatal("adding an item blocked while a ticket was being sent")
		}
	}
	svc := NewTicketService(f.db, transport, TicketOptions{MarkPrintedOnFailure: true}, logger.Discard())

	result, err := svc.PrintOrder(bg, f.order.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Stations)
	require.Len(t, result.Order.Items, 3)
	for _, item := range result.Order.Items {
		assert.Equal(t, item.Note != "buzlu", item.IsPrinted, "%s %q", item.Name, item.Note)
	}

	// the line added mid-dispatch goes out on the next run
	transport.onPrint = nil
	result, err = svc.PrintOrder(bg, f.order.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Stations)
	require.Len(t, transport.sent, 3)
	assert.Contains(t, transport.sent[2].content, "1 x Ayran (buzlu)")
}
