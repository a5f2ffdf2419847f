package migration

import (
	"fmt"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/smallbiznis/renova/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T, name string) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s-%s?mode=memory&cache=shared", t.Name(), name)
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := conn.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	return conn
}

func TestPartitionSchemasAreDisjoint(t *testing.T) {
	cfg := config.Config{DBType: "sqlite"}

	cases := []struct {
		set    Set
		tables []string
	}{
		{directorySet, []string{"customers", "plans"}},
		{billingSet, []string{"billing_cycles"}},
		{ledgerSet, []string{"invoices"}},
	}
	all := []string{"customers", "plans", "billing_cycles", "invoices"}

	for _, tc := range cases {
		conn := openTestDB(t, tc.set.Area)
		require.NoError(t, run(conn, cfg, tc.set))

		owned := make(map[string]bool, len(tc.tables))
		for _, table := range tc.tables {
			owned[table] = true
		}
		for _, table := range all {
			assert.Equal(t, owned[table], conn.Migrator().HasTable(table),
				"%s schema, table %s", tc.set.Area, table)
		}
	}
}

func TestAllSetsCoverEveryTable(t *testing.T) {
	cfg := config.Config{DBType: "sqlite"}
	conn := openTestDB(t, "all")

	for _, set := range []Set{directorySet, billingSet, ledgerSet} {
		require.NoError(t, run(conn, cfg, set))
	}

	for _, table := range []string{"customers", "plans", "billing_cycles", "invoices"} {
		assert.True(t, conn.Migrator().HasTable(table), table)
	}
}
