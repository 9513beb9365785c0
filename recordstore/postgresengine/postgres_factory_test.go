package postgresengine_test

import (
	"database/sql"
	"testing"

	_ "github.com/lib/pq" // postgres driver
	"github.com/stretchr/testify/assert"

	"github.com/shelfshare/shelfshare-go/recordstore"
	"github.com/shelfshare/shelfshare-go/recordstore/postgresengine"
	"github.com/shelfshare/shelfshare-go/testutil/postgresengine/config"
)

func Test_FactoryFunctions_ShouldFail_WithNilDatabaseConnection(t *testing.T) {
	testCases := []struct {
		name        string
		factoryFunc func() (postgresengine.Store, error)
	}{
		{
			name: "NewStoreFromPGXPool with nil",
			factoryFunc: func() (postgresengine.Store, error) {
				return postgresengine.NewStoreFromPGXPool(nil)
			},
		},
		{
			name: "NewStoreFromSQLDB with nil",
			factoryFunc: func() (postgresengine.Store, error) {
				return postgresengine.NewStoreFromSQLDB(nil)
			},
		},
		{
			name: "NewStoreFromSQLX with nil",
			factoryFunc: func() (postgresengine.Store, error) {
				return postgresengine.NewStoreFromSQLX(nil)
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// act
			_, err := tc.factoryFunc()

			// assert
			assert.ErrorContains(t, err, recordstore.ErrNilDatabaseConnection.Error())
		})
	}
}

func Test_FactoryFunctions_ShouldFail_WithEmptyTableName(t *testing.T) {
	// sql.Open is lazy, so no database needs to be reachable here.
	db, err := sql.Open("postgres", config.PostgresDSN())
	assert.NoError(t, err)
	defer func() { _ = db.Close() }()

	_, err = postgresengine.NewStoreFromSQLDB(db, postgresengine.WithTableName(""))

	assert.ErrorContains(t, err, recordstore.ErrEmptyTableNameSupplied.Error())
}
