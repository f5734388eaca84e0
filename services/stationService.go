package services

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"adisyo-api/dtos"
	"adisyo-api/models"
)

type StationService interface {
	List(ctx context.Context) ([]dtos.StationResponse, error)
	Create(ctx context.Context, input dtos.StationInput) (*dtos.StationResponse, error)
	Update(ctx context.Context, id uint, input dtos.StationInput) (*dtos.StationResponse, error)
	Delete(ctx context.Context, id uint) error
}

type stationService struct {
	db *gorm.DB
}

func NewStationService(db *gorm.DB) StationService {
	return &stationService{db: db}
}

func (s *stationService) List(ctx context.Context) ([]dtos.StationResponse, error) {
	var stations []models.Station
	if err := s.db.WithContext(ctx).Preload("Printer").Order("id").Find(&stations).Error; err != nil {
		return nil, fmt.Errorf("load stations: %w", err)
	}
	result := make([]dtos.StationResponse, 0, len(stations))
	for _, station := range stations {
		result = append(result, stationResponse(station))
	}
	return result, nil
}

func (s *stationService) Create(ctx context.Context, input dtos.StationInput) (*dtos.StationResponse, error) {
	var station models.Station
	if input.Name != nil {
		station.Name = strings.TrimSpace(*input.Name)
	}
	if station.Name == "" {
		return nil, invalid("station name is required")
	}
	station.PrinterID = input.PrinterID.Value

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := checkPrinter(tx, station.PrinterID); err != nil {
			return err
		}
		return tx.Create(&station).Error
	})
	if err != nil {
		return nil, err
	}
	return s.get(ctx, station.ID)
}

func (s *stationService) Update(ctx context.Context, id uint, input dtos.StationInput) (*dtos.StationResponse, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var station models.Station
		if err := tx.First(&station, id).Error; err != nil {
			return lookupErr(err, "station")
		}
		if input.Name != nil {
			station.Name = strings.TrimSpace(*input.Name)
			if station.Name == "" {
				return invalid("station name is required")
			}
		}
		if input.PrinterID.Set {
			station.PrinterID = input.PrinterID.Value
		}
		if err := checkPrinter(tx, station.PrinterID); err != nil {
			return err
		}
		return tx.Model(&station).Select("name", "printer_id").Updates(&station).Error
	})
	if err != nil {
		return nil, err
	}
	return s.get(ctx, id)
}

// Delete removes the station and detaches menu items routed to it.
func (s *stationService) Delete(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var station models.Station
		if err := tx.First(&station, id).Error; err != nil {
			return lookupErr(err, "station")
		}
		if err := tx.Model(&models.MenuItem{}).Where("station_id = ?", id).Update("station_id", nil).Error; err != nil {
			return fmt.Errorf("detach menu items: %w", err)
		}
		return tx.Delete(&station).Error
	})
}

func (s *stationService) get(ctx context.Context, id uint) (*dtos.StationResponse, error) {
	var station models.Station
	if err := s.db.WithContext(ctx).Preload("Printer").First(&station, id).Error; err != nil {
		return nil, lookupErr(err, "station")
	}
	resp := stationResponse(station)
	return &resp, nil
}

func stationResponse(station models.Station) dtos.StationResponse {
	resp := dtos.StationResponse{Station: station}
	if station.Printer != nil {
		name := station.Printer.Name
		resp.PrinterName = &name
	}
	return resp
}

func checkPrinter(tx *gorm.DB, printerID *uint) error {
	if printerID == nil {
		return nil
	}
	var printer models.Printer
	if err := tx.Select("id").First(&printer, *printerID).Error; err != nil {
		return lookupErr(err, "printer")
	}
	return nil
}
