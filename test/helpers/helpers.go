// test/helpers/helpers.go
package helpers

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/ammerola/franchise-reconcile/internal/adapters/db"
	"github.com/ammerola/franchise-reconcile/internal/core/domain"
	"github.com/ammerola/franchise-reconcile/internal/pkg/config"
	"github.com/ammerola/franchise-reconcile/migrations"
)

// TestDB represents a test database instance
type TestDB struct {
	PgxPool  *pgxpool.Pool
	Database *db.Database
	Resource *dockertest.Resource
	Pool     *dockertest.Pool
	Config   *db.Config
}

// TestRedis represents a test Redis instance
type TestRedis struct {
	Client *redis.Client
	Server *miniredis.Miniredis
}

// TestLogger returns a test logger
func TestLogger() *slog.Logger {
	level := slog.LevelError
	if testing.Verbose() {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
}

// SetupTestDB starts a PostgreSQL container and applies the embedded migrations
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	pool, err := dockertest.NewPool("")
	require.NoError(t, err, "Could not connect to Docker")

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "16-alpine",
		Env: []string{
			"POSTGRES_USER=test",
			"POSTGRES_PASSWORD=test",
			"POSTGRES_DB=test_reconcile",
		},
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	require.NoError(t, err, "Could not start PostgreSQL container")

	t.Cleanup(func() {
		if err := pool.Purge(resource); err != nil {
			t.Logf("Could not purge resource: %s", err)
		}
	})

	dbConfig := db.DefaultConfig()
	dbConfig.Port = resource.GetPort("5432/tcp")
	dbConfig.User = "test"
	dbConfig.Password = "test"
	dbConfig.Database = "test_reconcile"
	dbConfig.MaxConnections = 5
	dbConfig.MinConnections = 1
	dbConfig.EnableQueryLogging = testing.Verbose()

	var database *db.Database
	err = pool.Retry(func() error {
		ctx := context.Background()
		var err error
		database, err = db.NewDatabase(ctx, dbConfig, TestLogger())
		if err != nil {
			return err
		}
		return database.Ping(ctx)
	})
	require.NoError(t, err, "Could not connect to PostgreSQL")
	t.Cleanup(database.Close)

	err = db.RunMigrationsWithRetry(context.Background(), &db.MigrationConfig{
		DatabaseURL: dbConfig.URL(),
		Source:      migrations.FS,
	}, TestLogger(), 3)
	require.NoError(t, err, "Could not run migrations")

	return &TestDB{
		PgxPool:  database.Pool(),
		Database: database,
		Resource: resource,
		Pool:     pool,
		Config:   dbConfig,
	}
}

// SetupTestRedis starts an in-process Redis for testing
func SetupTestRedis(t *testing.T) *TestRedis {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	t.Cleanup(func() {
		client.Close()
		mr.Close()
	})

	return &TestRedis{Client: client, Server: mr}
}

// LoadTestConfig returns a test configuration
func LoadTestConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{
			Name:        "reconcile-test",
			Environment: "test",
			Version:     "test",
			LogLevel:    "debug",
			LogFormat:   "text",
		},
		Database: config.DatabaseConfig{
			Host:           "localhost",
			Port:           "5432",
			User:           "test",
			Password:       "test",
			Name:           "test_reconcile",
			SSLMode:        "disable",
			MaxConnections: 10,
			MinConnections: 2,
		},
		Redis: config.RedisConfig{
			Host:     "localhost",
			Port:     "6379",
			PoolSize: 10,
		},
		Backend: config.BackendConfig{
			BaseURL: "http://localhost:9000/api",
			Token:   "test-token",
			Timeout: 5 * time.Second,
		},
		Reconcile: config.ReconcileConfig{
			SnapshotTTL:     time.Minute,
			DraftTTL:        time.Hour,
			ReportURLExpiry: time.Hour,
			ReportDir:       os.TempDir(),
			MaxBatchCodes:   500,
		},
		FileProcessing: config.FileProcessingConfig{
			PDFMaxSizeMB:   5,
			ExcelMaxSizeMB: 5,
			TempDir:        os.TempDir(),
			TempFileMaxAge: time.Hour,
		},
		Security: config.SecurityConfig{
			RateLimitRequests: 100,
			RateLimitDuration: time.Minute,
			AllowedOrigins:    []string{"*"},
			RequestIDHeader:   "X-Request-ID",
		},
		Server: config.ServerConfig{
			Host:         "localhost",
			Port:         "8080",
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
		},
	}
}

// CreateTestProduct creates a product with distinct values in every price field
func CreateTestProduct(overrides ...func(*domain.Product)) *domain.Product {
	p := &domain.Product{
		ID:                7,
		Name:              "Linen Shirt",
		Price:             900,
		FirstPrice:        300,
		FranchisePrice:    500,
		VIPFranchisePrice: 700,
	}
	for _, override := range overrides {
		override(p)
	}
	return p
}

// CreateTestInventoryItem creates a priced inventory item for variant 42 / ABC123
func CreateTestInventoryItem(overrides ...func(*domain.InventoryItem)) *domain.InventoryItem {
	item := &domain.InventoryItem{
		ID:               1,
		ProductVariantID: 42,
		QRCode:           "ABC123",
		Quantity:         10,
		Product:          CreateTestProduct(),
		ProductVariant: domain.ProductVariant{
			ID:     42,
			QRCode: "ABC123",
			Color:  "White",
			Size:   "L",
		},
	}
	for _, override := range overrides {
		override(item)
	}
	return item
}

// CreateTestSnapshot creates count priced items with codes CODE0001, CODE0002, ...
func CreateTestSnapshot(count int) domain.Snapshot {
	snapshot := make(domain.Snapshot, count)
	for i := 0; i < count; i++ {
		id := int64(100 + i)
		code := fmt.Sprintf("CODE%04d", i+1)
		snapshot[i] = *CreateTestInventoryItem(func(item *domain.InventoryItem) {
			item.ID = id
			item.ProductVariantID = id
			item.QRCode = code
			item.ProductVariant = domain.ProductVariant{ID: id, QRCode: code, Name: fmt.Sprintf("Item %d", i+1)}
			item.Product = CreateTestProduct(func(p *domain.Product) {
				p.ID = id
				p.Name = fmt.Sprintf("Item %d", i+1)
				p.Price = float64(100 * (i + 1))
			})
		})
	}
	return snapshot
}

// CreateTestFranchise creates a franchise of the given tier
func CreateTestFranchise(tier domain.FranchiseType) *domain.Franchise {
	return &domain.Franchise{ID: 4, Name: "Downtown", FranchiseType: tier}
}

// CreateTestBill creates a bill with the given rows
func CreateTestBill(id int64, direction domain.BillDirection, items ...domain.LineItem) *domain.Bill {
	return &domain.Bill{
		ID:         id,
		Direction:  direction,
		LocationID: 1,
		Items:      items,
		CreatedAt:  time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
	}
}

// CreateTestDraft creates an empty draft, failing the test on invalid input
func CreateTestDraft(t *testing.T, kind domain.DocumentKind, franchise *domain.Franchise) *domain.Draft {
	t.Helper()
	draft, err := domain.NewDraft(kind, 1, franchise)
	require.NoError(t, err)
	return draft
}

// AssertEventuallyWithTimeout asserts that a condition is met within a timeout
func AssertEventuallyWithTimeout(t *testing.T, condition func() bool, timeout time.Duration, msg string) {
	t.Helper()

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if condition() {
			return
		}
		time.Sleep(50 * time.Millisecond)
	}
	t.Errorf("Condition not met within %v: %s", timeout, msg)
}

// TruncateAllTables empties the read model between tests
func TruncateAllTables(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	_, err := pool.Exec(context.Background(),
		"TRUNCATE TABLE bill_items, bills, inventory_items, franchises, product_variants, products RESTART IDENTITY CASCADE")
	require.NoError(t, err, "Failed to truncate tables")
}

// SeedSnapshot writes a location's inventory into the read model
func SeedSnapshot(t *testing.T, pool *pgxpool.Pool, locationID int64, snapshot domain.Snapshot) {
	t.Helper()
	ctx := context.Background()

	for _, item := range snapshot {
		var productID *int64
		if p := item.Product; p != nil {
			_, err := pool.Exec(ctx, `
				INSERT INTO products (id, name, price, first_price, franchise_price, vip_franchise_price)
				VALUES ($1, $2, $3, $4, $5, $6)
				ON CONFLICT (id) DO NOTHING`,
				p.ID, p.Name, p.Price, p.FirstPrice, p.FranchisePrice, p.VIPFranchisePrice)
			require.NoError(t, err, "Failed to seed product")
			productID = &p.ID
		}

		v := item.ProductVariant
		_, err := pool.Exec(ctx, `
			INSERT INTO product_variants (id, product_id, qr_code, color, size, name)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (id) DO NOTHING`,
			item.VariantID(), productID, v.QRCode, v.Color, v.Size, v.Name)
		require.NoError(t, err, "Failed to seed variant")

		_, err = pool.Exec(ctx, `
			INSERT INTO inventory_items (id, location_id, product_variant_id, quantity)
			VALUES ($1, $2, $3, $4)`,
			item.ID, locationID, item.VariantID(), item.Quantity)
		require.NoError(t, err, "Failed to seed inventory item")
	}
}

// SeedFranchise writes a franchise row
func SeedFranchise(t *testing.T, pool *pgxpool.Pool, f *domain.Franchise) {
	t.Helper()
	_, err := pool.Exec(context.Background(),
		"INSERT INTO franchises (id, name, franchise_type) VALUES ($1, $2, $3)",
		f.ID, f.Name, string(f.FranchiseType))
	require.NoError(t, err, "Failed to seed franchise")
}

// SeedBill writes a bill and its rows in order
func SeedBill(t *testing.T, pool *pgxpool.Pool, bill *domain.Bill) {
	t.Helper()
	ctx := context.Background()

	_, err := pool.Exec(ctx,
		"INSERT INTO bills (id, direction, location_id, franchise_id, created_at) VALUES ($1, $2, $3, $4, $5)",
		bill.ID, string(bill.Direction), bill.LocationID, bill.FranchiseID, bill.CreatedAt)
	require.NoError(t, err, "Failed to seed bill")

	for i, item := range bill.Items {
		_, err := pool.Exec(ctx, `
			INSERT INTO bill_items (bill_id, position, product_variant_id, quantity, price, qr_code, variant_name)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			bill.ID, i, item.ProductVariantID, item.Quantity, item.Price, item.QRCode, item.VariantName)
		require.NoError(t, err, "Failed to seed bill item")
	}
}

// CreateTempFile creates a temporary file for testing
func CreateTempFile(t *testing.T, content []byte, extension string) string {
	t.Helper()

	file, err := os.CreateTemp(t.TempDir(), fmt.Sprintf("test-*%s", extension))
	require.NoError(t, err, "Failed to create temp file")

	_, err = file.Write(content)
	require.NoError(t, err, "Failed to write to temp file")
	require.NoError(t, file.Close())

	return file.Name()
}
