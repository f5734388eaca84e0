package services

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"adisyo-api/dtos"
	"adisyo-api/logger"
	"adisyo-api/models"
	"adisyo-api/printing"
	"adisyo-api/utils/keylock"
)

type TicketService interface {
	PrintOrder(ctx context.Context, orderID uint) (*dtos.PrintResult, error)
	TestPrint(ctx context.Context, printerID uint) (*dtos.TestPrintResult, error)
}

// TicketOptions holds the dispatch policy.
type TicketOptions struct {
	// MarkPrintedOnFailure flags a station's items printed even when its
	// transport failed, so they are never sent twice.
	MarkPrintedOnFailure bool
}

type ticketService struct {
	db        *gorm.DB
	transport printing.Transport
	settings  SettingService
	opts      TicketOptions
	log       logger.Logger
}

func NewTicketService(db *gorm.DB, transport printing.Transport, opts TicketOptions, log logger.Logger) TicketService {
	return &ticketService{
		db:        db,
		transport: transport,
		settings:  NewSettingService(db),
		opts:      opts,
		log:       log,
	}
}

type stationGroup struct {
	stationID uint
	items     []models.OrderItem
}

// stationJob is one rendered ticket waiting for dispatch.
type stationJob struct {
	station string
	printer models.Printer
	content string
	itemIDs []uint
}

// PrintOrder sends every unprinted item of the order to its station's
// printer, one ticket per station. Runs for the same order are serialised;
// dispatch happens outside any transaction so a slow printer does not block
// edits to the order.
func (s *ticketService) PrintOrder(ctx context.Context, orderID uint) (*dtos.PrintResult, error) {
	enabled, err := s.settings.PrintEnabled(ctx)
	if err != nil {
		return nil, err
	}
	if !enabled {
		return nil, ErrPrintingDisabled
	}

	unlock := locks.Lock(keylock.Key("print", orderID))
	defer unlock()

	requestID := logger.RequestID(ctx)
	result := &dtos.PrintResult{}

	jobs, pending, err := s.collect(ctx, orderID, result)
	if err != nil {
		return nil, err
	}

	if pending == 0 {
		result.Message = "no new items to print"
	} else {
		for _, job := range jobs {
			if err := s.transport.Print(ctx, job.printer, job.content); err != nil {
				s.log.Error("print_failed", "ticket dispatch failed", requestID, map[string]interface{}{
					"printer": job.printer.Name,
					"station": job.station,
				}, err)
				s.log.Info("print_demo", "DEMO PRINT", requestID, map[string]interface{}{
					"printer": job.printer.Name,
					"station": job.station,
					"content": job.content,
				})
				if !s.opts.MarkPrintedOnFailure {
					continue
				}
			}
			if err := s.markPrinted(ctx, orderID, job.itemIDs); err != nil {
				return nil, err
			}
			result.Stations++
		}
		result.Message = fmt.Sprintf("%d station tickets printed", result.Stations)
	}

	if result.Order, err = loadOrder(s.db.WithContext(ctx), orderID); err != nil {
		return nil, err
	}
	return result, nil
}

// collect reads the order's unprinted items and renders one job per station
// with an active printer. pending counts every unprinted item, routed or not.
func (s *ticketService) collect(ctx context.Context, orderID uint, result *dtos.PrintResult) ([]stationJob, int, error) {
	requestID := logger.RequestID(ctx)
	var jobs []stationJob
	var pending []models.OrderItem

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		order, err := loadOrder(tx, orderID)
		if err != nil {
			return err
		}
		for _, item := range order.Items {
			if !item.IsPrinted {
				pending = append(pending, item)
			}
		}
		if len(pending) == 0 {
			return nil
		}

		groups, unrouted, err := groupByStation(tx, pending)
		if err != nil {
			return err
		}
		for _, item := range unrouted {
			result.UnroutedItems = append(result.UnroutedItems, item.Name)
		}
		if len(unrouted) > 0 {
			s.log.Warn("print_unrouted", "items without a station are not printed", requestID, map[string]interface{}{
				"order_id": order.ID,
				"items":    result.UnroutedItems,
			})
		}

		for _, group := range groups {
			var station models.Station
			if err := tx.Preload("Printer").First(&station, group.stationID).Error; err != nil {
				s.log.Warn("print_skip", "station not found", requestID, map[string]interface{}{"station_id": group.stationID})
				continue
			}
			if station.Printer == nil || station.Printer.Status == models.PrinterInactive {
				s.log.Warn("print_skip", "station has no active printer", requestID, map[string]interface{}{"station": station.Name})
				continue
			}

			ticket := printing.Ticket{
				Station:   station.Name,
				Table:     order.TableLabel(),
				ServerID:  order.UserID,
				PrintedAt: now(),
			}
			ids := make([]uint, 0, len(group.items))
			for _, item := range group.items {
				ticket.Lines = append(ticket.Lines, printing.TicketLine{Quantity: item.Quantity, Name: item.Name, Note: item.Note})
				ids = append(ids, item.ID)
			}
			jobs = append(jobs, stationJob{
				station: station.Name,
				printer: *station.Printer,
				content: ticket.Render(),
				itemIDs: ids,
			})
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	return jobs, len(pending), nil
}

// markPrinted flags the dispatched lines. Lines removed meanwhile are simply
// not matched.
func (s *ticketService) markPrinted(ctx context.Context, orderID uint, ids []uint) error {
	unlock := locks.Lock(keylock.Key("order", orderID))
	defer unlock()

	err := s.db.WithContext(ctx).Model(&models.OrderItem{}).
		Where("order_id = ? AND id IN ? AND is_printed = ?", orderID, ids, false).
		Update("is_printed", true).Error
	if err != nil {
		return fmt.Errorf("mark items printed: %w", err)
	}
	return nil
}

// groupByStation buckets items by their menu item's station, keeping first
// appearance order. Items whose menu item has no station are returned apart.
func groupByStation(tx *gorm.DB, items []models.OrderItem) ([]*stationGroup, []models.OrderItem, error) {
	menuIDs := make([]uint, 0, len(items))
	for _, item := range items {
		menuIDs = append(menuIDs, item.MenuItemID)
	}

	var menuItems []models.MenuItem
	if err := tx.Select("id", "station_id").Where("id IN ?", menuIDs).Find(&menuItems).Error; err != nil {
		return nil, nil, fmt.Errorf("load menu items: %w", err)
	}
	stationOf := make(map[uint]*uint, len(menuItems))
	for _, mi := range menuItems {
		stationOf[mi.ID] = mi.StationID
	}

	var groups []*stationGroup
	index := make(map[uint]*stationGroup)
	var unrouted []models.OrderItem
	for _, item := range items {
		stationID := stationOf[item.MenuItemID]
		if stationID == nil {
			unrouted = append(unrouted, item)
			continue
		}
		group, ok := index[*stationID]
		if !ok {
			group = &stationGroup{stationID: *stationID}
			index[*stationID] = group
			groups = append(groups, group)
		}
		group.items = append(group.items, item)
	}
	return groups, unrouted, nil
}

// TestPrint sends a test slip. Transport failures degrade to a demo result.
func (s *ticketService) TestPrint(ctx context.Context, printerID uint) (*dtos.TestPrintResult, error) {
	var printer models.Printer
	if err := s.db.WithContext(ctx).First(&printer, printerID).Error; err != nil {
		return nil, lookupErr(err, "printer")
	}

	content := printing.RenderTestSlip(printer.Name, now())
	if err := s.transport.Print(ctx, printer, content); err != nil {
		requestID := logger.RequestID(ctx)
		s.log.Error("print_test_failed", "test print failed", requestID, map[string]interface{}{"printer": printer.Name}, err)
		s.log.Info("print_demo", "DEMO PRINT", requestID, map[string]interface{}{"printer": printer.Name, "content": content})
		return &dtos.TestPrintResult{Message: "test slip sent (demo mode, check the logs)", Demo: true}, nil
	}
	return &dtos.TestPrintResult{Message: "test slip sent"}, nil
}
