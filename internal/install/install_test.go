package install

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/erazemk/trgovina/internal/attributes"
	"github.com/erazemk/trgovina/internal/db"
	"github.com/erazemk/trgovina/internal/htmltext"
	"github.com/erazemk/trgovina/internal/model"
	"github.com/erazemk/trgovina/internal/store"
)

func TestRunCreatesAdmin(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	res, err := Run(ctx, database, Options{AdminUser: "Admin"})
	require.NoError(t, err)
	assert.Len(t, res.AdminPassword, PasswordLength)
	assert.Zero(t, res.Shipments)

	user, err := store.GetUserByUsername(ctx, database, "Admin")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, model.RoleAdmin, user.Role)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(res.AdminPassword)))

	_, err = Run(ctx, database, Options{AdminUser: "Admin"})
	assert.Error(t, err, "admin username must be unique")
}

func TestSampleData(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	res, err := Run(ctx, database, Options{AdminUser: "Admin", SampleData: true})
	require.NoError(t, err)
	assert.Equal(t, 4, res.Shipments)

	page, err := store.SearchShipments(ctx, database, model.ShipmentFilter{VendorID: 1}, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 4, page.TotalCount)

	page, err = store.SearchShipments(ctx, database, model.ShipmentFilter{VendorID: 2}, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, page.TotalCount)

	page, err = store.SearchShipments(ctx, database, model.ShipmentFilter{CountryID: 2}, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, page.TotalCount, "only the pickup order ships to country 2")

	boots, err := store.GetProduct(ctx, database, 1)
	require.NoError(t, err)
	require.NotNil(t, boots)

	qty, err := store.QuantityInShipments(ctx, database, boots, 0, false, false)
	require.NoError(t, err)
	assert.Equal(t, 2, qty)
	qty, err = store.QuantityInShipments(ctx, database, boots, 0, false, true)
	require.NoError(t, err)
	assert.Equal(t, 1, qty)
	qty, err = store.QuantityInShipments(ctx, database, boots, 0, true, false)
	require.NoError(t, err)
	assert.Equal(t, 0, qty)

	addr, err := store.GetAddress(ctx, database, 1)
	require.NoError(t, err)
	require.NotNil(t, addr)

	f := attributes.NewStoreFormatter(database, model.AttributeKindAddress, htmltext.New(false), attributes.ContextLanguage(LanguageSlovenian))
	text, err := f.Format(ctx, addr.CustomAttributes, attributes.DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, "Nadstropje: 3<br />Opombe za dostavo: Ring twice.<br />The dog is friendly.", text)
}

func TestSampleDataOnlyOnce(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	_, err := SampleData(ctx, database)
	require.NoError(t, err)

	_, err = SampleData(ctx, database)
	assert.ErrorIs(t, err, ErrSampleInstalled)

	page, err := store.SearchShipments(ctx, database, model.ShipmentFilter{}, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 4, page.TotalCount)
}
