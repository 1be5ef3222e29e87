package database

import (
	"context"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/chrissnell/sleepchart/internal/log"
)

// Client holds the connection to a PostgreSQL database
type Client struct {
	connectionString string
	DB               *gorm.DB // Exported so it can be accessed from other packages
	logger           *zap.SugaredLogger
}

// NewClient creates a new database client
func NewClient(connectionString string, logger *zap.SugaredLogger) *Client {
	if logger == nil {
		logger = log.GetSugaredLogger()
	}
	return &Client{
		connectionString: connectionString,
		logger:           logger,
	}
}

// Connect connects to the database and migrates the chart tables
func (c *Client) Connect(ctx context.Context) error {
	var err error

	c.logger.Info("connecting to PostgreSQL...")
	c.DB, err = CreateConnection(c.connectionString)
	if err != nil {
		c.logger.Warn("warning: unable to create a PostgreSQL connection:", err)
		return err
	}
	c.logger.Info("PostgreSQL connection successful")

	c.logger.Info("migrating sleepchart tables...")
	if err := c.DB.WithContext(ctx).AutoMigrate(Models()...); err != nil {
		c.logger.Warn("warning: could not migrate tables in database")
		return err
	}

	return nil
}

// Close releases the underlying connection pool
func (c *Client) Close() error {
	if c.DB == nil {
		return nil
	}
	sqlDB, err := c.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// NewGormLogger bridges gorm's logger to the package zap logger
func NewGormLogger() logger.Interface {
	return logger.New(
		zap.NewStdLog(log.GetZapLogger()),
		logger.Config{
			SlowThreshold:             time.Second, // Slow SQL threshold
			LogLevel:                  logger.Warn, // Log level
			IgnoreRecordNotFoundError: true,        // Ignore ErrRecordNotFound error for logger
			Colorful:                  false,
		},
	)
}

// CreateConnection is a helper function to create a database connection with standard GORM configuration
func CreateConnection(connectionString string) (*gorm.DB, error) {
	return gorm.Open(postgres.Open(connectionString), &gorm.Config{Logger: NewGormLogger()})
}
