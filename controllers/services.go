package controllers

import (
	"github.com/gin-gonic/gin"

	"adisyo-api/config"
	"adisyo-api/logger"
	"adisyo-api/printing"
	"adisyo-api/services"
	"adisyo-api/utils/common"
)

// Transport delivers kitchen tickets. Replaced at startup by the configured
// printing router; the empty router sends every ticket to demo mode.
var Transport printing.Transport = printing.NewRouter()

func orderService() services.OrderService     { return services.NewOrderService(config.DB) }
func tableService() services.TableService     { return services.NewTableService(config.DB) }
func menuService() services.MenuService       { return services.NewMenuService(config.DB) }
func stationService() services.StationService { return services.NewStationService(config.DB) }
func printerService() services.PrinterService { return services.NewPrinterService(config.DB) }
func settingService() services.SettingService { return services.NewSettingService(config.DB) }
func reportService() services.ReportService   { return services.NewReportService(config.DB) }
func userService() services.UserService       { return services.NewUserService(config.DB) }

func authService() services.AuthService {
	return services.NewAuthService(config.DB, config.App.Auth.JWTSecret, config.App.Auth.TokenTTL)
}

func ticketService() services.TicketService {
	opts := services.TicketOptions{MarkPrintedOnFailure: config.App.Printing.MarkPrintedOnFailure}
	return services.NewTicketService(config.DB, Transport, opts, logger.L())
}

func actor(c *gin.Context) services.Actor {
	return services.Actor{UserID: common.GetUserID(c), IPAddress: c.ClientIP()}
}
