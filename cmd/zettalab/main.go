package main

import (
	"log/slog"
	"os"

	"zettalab-crm/config"
	"zettalab-crm/internal/routes"
	"zettalab-crm/models"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "zettalab",
		Short:        "Бэк-офис зуботехнической лаборатории",
		SilenceUsage: true,
	}

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Запустить HTTP-сервер",
		RunE: func(cmd *cobra.Command, args []string) error {
			config.ConnectDB()
			config.ConnectRedis()
			config.InitJWT()
			if err := config.InitGemini(); err != nil {
				slog.Warn("Gemini недоступен", "error", err)
			}

			if err := migrate(); err != nil {
				return err
			}

			r := gin.Default()
			routes.SetupRoutes(r)

			port := os.Getenv("PORT")
			if port == "" {
				port = "8080"
			}
			slog.Info("Сервер запускается", "port", port)
			return r.Run(":" + port)
		},
	}

	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Применить миграции схемы БД и выйти",
		RunE: func(cmd *cobra.Command, args []string) error {
			config.ConnectDB()
			return migrate()
		},
	}

	rootCmd.AddCommand(serveCmd, migrateCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func migrate() error {
	return config.DB.AutoMigrate(
		&models.Organization{},
		&models.Requisites{},
		&models.User{},
		&models.Account{},
		&models.Client{},
		&models.ClientPriceItem{},
		&models.ClientPriceList{},
		&models.WorkItem{},
		&models.PriceList{},
		&models.PriceListItem{},
		&models.Technician{},
		&models.Order{},
		&models.OrderItem{},
		&models.Payment{},
		&models.Expense{},
		&models.Invoice{},
		&models.InvoiceItem{},
		&models.InvoiceSequence{},
	)
}
