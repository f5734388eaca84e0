package services

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"adisyo-api/dtos"
	"adisyo-api/models"
)

type PrinterService interface {
	List(ctx context.Context) ([]models.Printer, error)
	Create(ctx context.Context, input dtos.PrinterInput) (*models.Printer, error)
	Update(ctx context.Context, id uint, input dtos.PrinterInput) (*models.Printer, error)
	Delete(ctx context.Context, id uint) error
}

type printerService struct {
	db *gorm.DB
}

func NewPrinterService(db *gorm.DB) PrinterService {
	return &printerService{db: db}
}

func (s *printerService) List(ctx context.Context) ([]models.Printer, error) {
	var printers []models.Printer
	if err := s.db.WithContext(ctx).Order("id").Find(&printers).Error; err != nil {
		return nil, fmt.Errorf("load printers: %w", err)
	}
	return printers, nil
}

func (s *printerService) Create(ctx context.Context, input dtos.PrinterInput) (*models.Printer, error) {
	printer := models.Printer{
		Type:   models.PrinterNetwork,
		Status: models.PrinterActive,
	}
	applyPrinterInput(&printer, input)
	if err := validatePrinter(printer); err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Create(&printer).Error; err != nil {
		return nil, fmt.Errorf("create printer: %w", err)
	}
	return &printer, nil
}

func (s *printerService) Update(ctx context.Context, id uint, input dtos.PrinterInput) (*models.Printer, error) {
	db := s.db.WithContext(ctx)
	var printer models.Printer
	if err := db.First(&printer, id).Error; err != nil {
		return nil, lookupErr(err, "printer")
	}
	applyPrinterInput(&printer, input)
	if err := validatePrinter(printer); err != nil {
		return nil, err
	}
	if err := db.Save(&printer).Error; err != nil {
		return nil, fmt.Errorf("update printer: %w", err)
	}
	return &printer, nil
}

// Delete removes the printer and unassigns it from stations.
func (s *printerService) Delete(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var printer models.Printer
		if err := tx.First(&printer, id).Error; err != nil {
			return lookupErr(err, "printer")
		}
		if err := tx.Model(&models.Station{}).Where("printer_id = ?", id).Update("printer_id", nil).Error; err != nil {
			return fmt.Errorf("detach stations: %w", err)
		}
		return tx.Delete(&printer).Error
	})
}

func applyPrinterInput(p *models.Printer, input dtos.PrinterInput) {
	if input.Name != nil {
		p.Name = strings.TrimSpace(*input.Name)
	}
	if input.Type != nil {
		p.Type = *input.Type
	}
	if input.ConnectionString != nil {
		p.ConnectionString = strings.TrimSpace(*input.ConnectionString)
	}
	if input.Status != nil {
		p.Status = *input.Status
	}
}

func validatePrinter(p models.Printer) error {
	if p.Name == "" {
		return invalid("printer name is required")
	}
	switch p.Type {
	case models.PrinterNetwork:
		if p.ConnectionString == "" {
			return invalid("connection string is required for network printers")
		}
	case models.PrinterQueue, models.PrinterConsole:
	default:
		return invalid("unknown printer type %q", p.Type)
	}
	switch p.Status {
	case models.PrinterActive, models.PrinterInactive:
	default:
		return invalid("unknown printer status %q", p.Status)
	}
	return nil
}
