package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/openpoint/platform/internal/domain/integration"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type seedIntegration struct {
	name        string
	description string
	flowConfig  string
	status      integration.Status
	logs        []seedLog
}

type seedLog struct {
	level   integration.LogLevel
	message string
	ago     time.Duration
}

var demoIntegrations = []seedIntegration{
	{
		name:        "SAP to Salesforce Sync",
		description: "Real-time customer data sync between SAP ERP and Salesforce CRM",
		flowConfig:  "routes:\n  - from: \"timer:sync?period=60000\"\n    to: \"http://crm-api/customers\"",
		status:      integration.StatusDeployed,
		logs: []seedLog{
			{integration.LevelInfo, "Integration started successfully", 2 * time.Hour},
			{integration.LevelInfo, "Synced 150 customer records", time.Hour},
			{integration.LevelWarn, "Slow response from SAP endpoint (2.3s)", 30 * time.Minute},
		},
	},
	{
		name:        "Order Processing Pipeline",
		description: "Process orders from e-commerce to ERP",
		flowConfig:  "routes:\n  - from: \"kafka:orders\"\n    to: \"http://erp-api/orders\"",
		status:      integration.StatusDeployed,
		logs: []seedLog{
			{integration.LevelInfo, "Processed 45 orders", 45 * time.Minute},
		},
	},
	{
		name:        "Inventory Alert System",
		description: "Monitor inventory and send low stock alerts",
		flowConfig:  "routes:\n  - from: \"timer:check?period=300000\"\n    to: \"http://erp-api/inventory\"",
		status:      integration.StatusStopped,
	},
	{
		name:        "Payment Gateway Integration",
		description: "Connect payment processor with accounting",
		flowConfig:  "routes:\n  - from: \"webhook:payments\"\n    to: \"http://accounting-api/transactions\"",
		status:      integration.StatusDeployed,
	},
	{
		name:        "Customer 360 Aggregator",
		description: "Aggregate customer data from multiple sources",
		flowConfig:  "routes:\n  - from: \"direct:aggregate\"\n    multicast: [\"crm\", \"erp\", \"support\"]",
		status:      integration.StatusError,
		logs: []seedLog{
			{integration.LevelError, "Connection refused: CRM API unavailable", 10 * time.Minute},
			{integration.LevelError, "Retry attempt 3/3 failed", 5 * time.Minute},
		},
	},
}

// Seeder loads demo integrations into an empty database
type Seeder struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewSeeder creates a new Seeder
func NewSeeder(db *gorm.DB, logger *zap.Logger) *Seeder {
	return &Seeder{db: db, logger: logger}
}

// Seed inserts the demo data unless integrations already exist. It returns
// the number of integrations inserted.
func (s *Seeder) Seed(ctx context.Context, now time.Time) (int, error) {
	repo := NewGormIntegrationRepository(s.db)
	existing, err := repo.FindAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("check existing integrations: %w", err)
	}
	if len(existing) > 0 {
		s.logger.Info("Database already seeded", zap.Int("integrations", len(existing)))
		return 0, nil
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepo := NewGormIntegrationRepository(tx)
		for i, item := range demoIntegrations {
			in, err := integration.NewIntegration(item.name, item.description, item.flowConfig, nil)
			if err != nil {
				return err
			}
			// Stagger creation so listing order is stable.
			created := now.Add(-24 * time.Hour).Add(time.Duration(i) * time.Second)
			in.CreatedAt = created
			if err := in.SetStatus(item.status, created); err != nil {
				return err
			}

			entries := make([]integration.LogEntry, 0, len(item.logs))
			for _, l := range item.logs {
				entries = append(entries, integration.NewLogEntry(in.ID, l.level, l.message, now.Add(-l.ago)))
			}
			if err := txRepo.SaveWithLogs(ctx, in, entries); err != nil {
				return fmt.Errorf("seed %q: %w", item.name, err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	s.logger.Info("Database seeded successfully", zap.Int("integrations", len(demoIntegrations)))
	return len(demoIntegrations), nil
}
