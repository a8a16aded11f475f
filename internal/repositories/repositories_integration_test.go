package repositories

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aarondl/null/v8"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"umroh-system/internal/entities"
	"umroh-system/pkg/config"
	"umroh-system/pkg/database/postgresql"
	apperrors "umroh-system/pkg/errors"
)

var (
	testDS   *postgresql.DataSource
	testPool *pgxpool.Pool
)

// TestMain connects to the database named by TEST_DATABASE_URL and applies
// the schema. The integration tests skip themselves when the variable is
// unset, so the unit tests in this package still run without a database.
func TestMain(m *testing.M) {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		os.Exit(m.Run())
	}

	ctx := context.Background()
	var err error
	testPool, err = pgxpool.New(ctx, dsn)
	if err != nil {
		log.Fatalf("connect test database: %v", err)
	}
	applySchema(testPool)

	testDS, err = postgresql.NewDataSource(ctx, config.PostgresConfig{
		DSN:              dsn,
		ReadonlyDSN:      dsn,
		MaxConns:         4,
		ReadonlyMaxConns: 4,
		ConnectTimeout:   5 * time.Second,
		MaxConnIdleTime:  time.Minute,
	}, zap.NewNop())
	if err != nil {
		log.Fatalf("build datasource: %v", err)
	}

	code := m.Run()
	testDS.Close()
	testPool.Close()
	os.Exit(code)
}

func applySchema(pool *pgxpool.Pool) {
	path, _ := filepath.Abs("testdata/schema.sql")
	schema, err := os.ReadFile(path)
	if err != nil {
		log.Fatalf("read schema.sql: %v", err)
	}
	if _, err := pool.Exec(context.Background(), string(schema)); err != nil {
		log.Fatalf("apply schema: %v", err)
	}
}

func skipWithoutDatabase(t *testing.T) {
	t.Helper()
	if testDS == nil {
		t.Skip("TEST_DATABASE_URL is not set")
	}
}

func cleanupTables(t *testing.T) {
	t.Helper()
	_, err := testPool.Exec(context.Background(), `
		TRUNCATE TABLE
			inventory.distribution_items, inventory.equipment_distributions,
			inventory.checklist_templates, inventory.inventory_items,
			flight.pnr_payment_schedules, flight.pnr_passengers,
			flight.flight_segments, flight.flight_pnrs,
			jamaah.documents, jamaah.group_members, jamaah.departure_sub_groups,
			jamaah.departure_groups, jamaah.jamaah,
			core.package_templates, core.auto_reply_rules,
			core.conversation_summaries, core.marketing_conversations,
			core.marketing_customers, core.packages, core.users
		RESTART IDENTITY CASCADE`)
	require.NoError(t, err)
}

func intQuery(t *testing.T, sql string, args ...any) int {
	t.Helper()
	var n int
	require.NoError(t, testPool.QueryRow(context.Background(), sql, args...).Scan(&n))
	return n
}

func seedPackage(t *testing.T) int {
	t.Helper()
	var id int
	err := testPool.QueryRow(context.Background(), `
		INSERT INTO core.packages (code, name, package_type)
		VALUES ('UMR001', 'Umroh Reguler 9 Hari', 'reguler')
		RETURNING id`).Scan(&id)
	require.NoError(t, err)
	return id
}

func seedJamaah(t *testing.T, packageID, count int) []int {
	t.Helper()
	ids := make([]int, 0, count)
	for i := 0; i < count; i++ {
		var id int
		err := testPool.QueryRow(context.Background(), `
			INSERT INTO jamaah.jamaah (nik, name, gender, package_id)
			VALUES ($1, $2, 'L', $3)
			RETURNING id`,
			fmt.Sprintf("3174%012d", i+1), fmt.Sprintf("Jamaah %d", i+1), packageID).Scan(&id)
		require.NoError(t, err)
		ids = append(ids, id)
	}
	return ids
}

func seedInventoryItem(t *testing.T, name string, stock int) int {
	t.Helper()
	var id int
	err := testPool.QueryRow(context.Background(), `
		INSERT INTO inventory.inventory_items (name, category, current_stock)
		VALUES ($1, 'perlengkapan', $2)
		RETURNING id`, name, stock).Scan(&id)
	require.NoError(t, err)
	return id
}

func itemStock(t *testing.T, itemID int) int {
	t.Helper()
	return intQuery(t, `SELECT current_stock FROM inventory.inventory_items WHERE id = $1`, itemID)
}

func TestDepartureGroupRepository_Integration_MemberCountTracksRows(t *testing.T) {
	skipWithoutDatabase(t)
	cleanupTables(t)
	packageID := seedPackage(t)
	jamaahIDs := seedJamaah(t, packageID, 3)
	repo := NewDepartureGroupRepository(testDS, zap.NewNop())
	ctx := context.Background()

	group, err := repo.Create(ctx, &entities.DepartureGroup{
		PackageID:  packageID,
		Name:       "Grup Keberangkatan 1",
		Code:       "UMR001-A",
		MaxMembers: 2,
		Status:     "planning",
	})
	require.NoError(t, err)

	for _, id := range jamaahIDs[:2] {
		_, err := repo.AddMember(ctx, group.ID, &entities.GroupMember{JamaahID: id, Role: "member"})
		require.NoError(t, err)
	}
	liveCount := intQuery(t, `SELECT COUNT(*) FROM jamaah.group_members WHERE group_id = $1`, group.ID)
	assert.Equal(t, 2, liveCount)
	assert.Equal(t, liveCount, intQuery(t, `SELECT current_members FROM jamaah.departure_groups WHERE id = $1`, group.ID))

	_, err = repo.AddMember(ctx, group.ID, &entities.GroupMember{JamaahID: jamaahIDs[2], Role: "member"})
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindCapacityExceeded))
	assert.Equal(t, 2, intQuery(t, `SELECT current_members FROM jamaah.departure_groups WHERE id = $1`, group.ID))

	require.NoError(t, repo.RemoveMember(ctx, group.ID, jamaahIDs[0]))
	liveCount = intQuery(t, `SELECT COUNT(*) FROM jamaah.group_members WHERE group_id = $1`, group.ID)
	assert.Equal(t, 1, liveCount)
	assert.Equal(t, liveCount, intQuery(t, `SELECT current_members FROM jamaah.departure_groups WHERE id = $1`, group.ID))
}

func TestFlightPNRRepository_Integration_AssignRejectsOverCapacity(t *testing.T) {
	skipWithoutDatabase(t)
	cleanupTables(t)
	packageID := seedPackage(t)
	jamaahIDs := seedJamaah(t, packageID, 3)
	repo := NewFlightPNRRepository(testDS, zap.NewNop())
	ctx := context.Background()

	var pnrID int
	err := testPool.QueryRow(ctx, `
		INSERT INTO flight.flight_pnrs (pnr_code, package_id, airline, total_pax)
		VALUES ('ABC123', $1, 'Garuda Indonesia', 2)
		RETURNING id`, packageID).Scan(&pnrID)
	require.NoError(t, err)

	passengers := []entities.PNRPassenger{
		{JamaahID: jamaahIDs[0]},
		{JamaahID: jamaahIDs[1]},
		{JamaahID: jamaahIDs[2]},
	}

	err = repo.AssignJamaah(ctx, pnrID, passengers)
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindCapacityExceeded))
	assert.Contains(t, err.Error(), "butuh 3 kursi baru, tersisa 2")
	assert.Equal(t, 0, intQuery(t, `SELECT COUNT(*) FROM flight.pnr_passengers WHERE pnr_id = $1`, pnrID),
		"an over-capacity batch must not leave partial assignments")
	assert.Equal(t, 0, intQuery(t, `SELECT filled_pax FROM flight.flight_pnrs WHERE id = $1`, pnrID))

	require.NoError(t, repo.AssignJamaah(ctx, pnrID, passengers[:2]))
	assert.Equal(t, 2, intQuery(t, `SELECT filled_pax FROM flight.flight_pnrs WHERE id = $1`, pnrID))

	// Re-assigning an already seated jamaah only updates the seat.
	require.NoError(t, repo.AssignJamaah(ctx, pnrID, []entities.PNRPassenger{
		{JamaahID: jamaahIDs[0], SeatNumber: null.StringFrom("12A")},
	}))
	assert.Equal(t, 2, intQuery(t, `SELECT filled_pax FROM flight.flight_pnrs WHERE id = $1`, pnrID))
}

func TestEquipmentRepository_Integration_InsufficientStockRollsBackBatch(t *testing.T) {
	skipWithoutDatabase(t)
	cleanupTables(t)
	packageID := seedPackage(t)
	jamaahIDs := seedJamaah(t, packageID, 1)
	repo := NewEquipmentRepository(testDS, zap.NewNop())
	ctx := context.Background()

	koperID := seedInventoryItem(t, "Koper Besar", 5)
	mukenaID := seedInventoryItem(t, "Mukena", 1)

	_, err := repo.SaveDistribution(ctx,
		&entities.EquipmentDistribution{JamaahID: jamaahIDs[0]},
		[]entities.EquipmentItemLine{
			{ItemID: koperID, Quantity: 2},
			{ItemID: mukenaID, Quantity: 3},
		})
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindCapacityExceeded))
	assert.Contains(t, err.Error(), fmt.Sprintf("stok barang %d", mukenaID))

	assert.Equal(t, 5, itemStock(t, koperID), "the first item's decrement must roll back with the batch")
	assert.Equal(t, 1, itemStock(t, mukenaID))
	assert.Equal(t, 0, intQuery(t, `SELECT COUNT(*) FROM inventory.distribution_items`))
	assert.Equal(t, 0, intQuery(t, `SELECT COUNT(*) FROM inventory.equipment_distributions`))
}

func TestEquipmentRepository_Integration_ResubmitMovesStockByDelta(t *testing.T) {
	skipWithoutDatabase(t)
	cleanupTables(t)
	packageID := seedPackage(t)
	jamaahIDs := seedJamaah(t, packageID, 1)
	repo := NewEquipmentRepository(testDS, zap.NewNop())
	ctx := context.Background()

	itemID := seedInventoryItem(t, "Kain Ihram", 2)
	dist := &entities.EquipmentDistribution{JamaahID: jamaahIDs[0]}

	_, err := repo.SaveDistribution(ctx, dist, []entities.EquipmentItemLine{
		{ItemID: itemID, Quantity: 2},
	})
	require.NoError(t, err)
	assert.Equal(t, 0, itemStock(t, itemID))

	// Resubmitting the same quantity to fix size must not burn stock
	// again, even with nothing left on the shelf.
	saved, err := repo.SaveDistribution(ctx, dist, []entities.EquipmentItemLine{
		{ItemID: itemID, Quantity: 2, Size: null.StringFrom("L")},
	})
	require.NoError(t, err)
	assert.Equal(t, 0, itemStock(t, itemID))
	require.Len(t, saved.Items, 1)
	assert.Equal(t, 2, saved.Items[0].Quantity)
	assert.Equal(t, "L", saved.Items[0].Size.String)

	// Lowering the quantity returns the difference.
	saved, err = repo.SaveDistribution(ctx, dist, []entities.EquipmentItemLine{
		{ItemID: itemID, Quantity: 1},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, itemStock(t, itemID))
	require.Len(t, saved.Items, 1)
	assert.Equal(t, 1, saved.Items[0].Quantity)

	// Removing the line returns the rest.
	require.NoError(t, repo.RemoveItem(ctx, saved.ID, itemID))
	assert.Equal(t, 2, itemStock(t, itemID))
	assert.Equal(t, 0, intQuery(t, `SELECT COUNT(*) FROM inventory.distribution_items`))
}

func TestDataSource_Integration_RollbackReleasesConnections(t *testing.T) {
	skipWithoutDatabase(t)
	cleanupTables(t)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// More failing transactions than the pool holds connections; a leaked
	// connection would make a later acquire time out.
	for i := 0; i < 10; i++ {
		err := testDS.Transaction(ctx, postgresql.ModuleCore, func(tx pgx.Tx) error {
			if _, err := tx.Exec(ctx, `
				INSERT INTO users (email, full_name, password_hash)
				VALUES ($1, 'Uji Rollback', 'hash')`, fmt.Sprintf("rollback%d@umroh.local", i)); err != nil {
				return err
			}
			return apperrors.Validation("ditolak")
		})
		require.Error(t, err)
	}
	assert.Equal(t, 0, intQuery(t, `SELECT COUNT(*) FROM core.users`),
		"a failed transaction must not leave rows behind")

	// A panic inside the callback also rolls back and re-raises.
	require.Panics(t, func() {
		_ = testDS.Transaction(ctx, postgresql.ModuleCore, func(tx pgx.Tx) error {
			_, _ = tx.Exec(ctx, `
				INSERT INTO users (email, full_name, password_hash)
				VALUES ('panic@umroh.local', 'Uji Panic', 'hash')`)
			panic("boom")
		})
	})
	assert.Equal(t, 0, intQuery(t, `SELECT COUNT(*) FROM core.users`))

	// The pool still serves queries afterwards.
	var one int
	require.NoError(t, testDS.Query(ctx, postgresql.ModuleCore, func(q postgresql.Querier) error {
		return q.QueryRow(ctx, `SELECT 1`).Scan(&one)
	}))
	assert.Equal(t, 1, one)
}
