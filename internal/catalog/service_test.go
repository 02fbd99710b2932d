package catalog

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/angelmondragon/storefront-backoffice/pkg/db"
	"github.com/angelmondragon/storefront-backoffice/pkg/db/models"
	pkgerrors "github.com/angelmondragon/storefront-backoffice/pkg/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupCatalogTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&models.Category{}, &models.Product{}))
	return conn
}

func newCatalogService(t *testing.T) (Service, *gorm.DB) {
	t.Helper()
	conn := setupCatalogTestDB(t)
	svc, err := NewService(NewRepository(conn), db.FromConn(conn), nil)
	require.NoError(t, err)
	return svc, conn
}

func requireCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()
	require.Error(t, err)
	require.Equal(t, code, pkgerrors.CodeOf(err), "unexpected error: %v", err)
}

func productInput(name string, categoryID uuid.UUID) ProductInput {
	return ProductInput{
		Name:               name,
		Description:        "desc",
		Price:              decimal.RequireFromString("19.99"),
		CategoryID:         categoryID,
		StockQuantity:      5,
		DiscountPercentage: decimal.RequireFromString("10"),
	}
}

func TestCategoryLifecycle(t *testing.T) {
	svc, _ := newCatalogService(t)
	ctx := context.Background()

	created, err := svc.CreateCategory(ctx, CategoryInput{Name: " Books ", Description: "Paper"})
	require.NoError(t, err)
	assert.Equal(t, "Books", created.Name)
	assert.True(t, created.IsActive)

	_, err = svc.CreateCategory(ctx, CategoryInput{Name: "BOOKS"})
	requireCode(t, err, pkgerrors.CodeConflict)

	_, err = svc.DeleteCategory(ctx, created.ID)
	require.NoError(t, err)

	got, err := svc.GetCategory(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive)

	// A deactivated category keeps its name reserved.
	_, err = svc.CreateCategory(ctx, CategoryInput{Name: "books"})
	requireCode(t, err, pkgerrors.CodeConflict)

	list, err := svc.ListCategories(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.False(t, list[0].IsActive)
}

func TestUpdateCategoryRejectsItsOwnName(t *testing.T) {
	svc, _ := newCatalogService(t)
	ctx := context.Background()

	created, err := svc.CreateCategory(ctx, CategoryInput{Name: "Games"})
	require.NoError(t, err)

	_, err = svc.UpdateCategory(ctx, UpdateCategoryInput{ID: created.ID, CategoryInput: CategoryInput{Name: "games", Description: "new"}})
	requireCode(t, err, pkgerrors.CodeConflict)

	confirmation, err := svc.UpdateCategory(ctx, UpdateCategoryInput{ID: created.ID, CategoryInput: CategoryInput{Name: "Board Games", Description: "new"}})
	require.NoError(t, err)
	assert.Contains(t, confirmation.Message, created.ID.String())

	got, err := svc.GetCategory(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Board Games", got.Name)
	assert.Equal(t, "new", got.Description)

	_, err = svc.UpdateCategory(ctx, UpdateCategoryInput{ID: uuid.New(), CategoryInput: CategoryInput{Name: "Anything"}})
	requireCode(t, err, pkgerrors.CodeNotFound)
}

func TestDeleteCategoryMissing(t *testing.T) {
	svc, _ := newCatalogService(t)
	_, err := svc.DeleteCategory(context.Background(), uuid.New())
	requireCode(t, err, pkgerrors.CodeNotFound)
}

func TestCreateProductRules(t *testing.T) {
	svc, _ := newCatalogService(t)
	ctx := context.Background()

	category, err := svc.CreateCategory(ctx, CategoryInput{Name: "Toys"})
	require.NoError(t, err)

	_, err = svc.CreateProduct(ctx, productInput("Yo-yo", uuid.New()))
	requireCode(t, err, pkgerrors.CodeValidation)

	created, err := svc.CreateProduct(ctx, productInput("Yo-yo", category.ID))
	require.NoError(t, err)
	assert.True(t, created.IsAvailable)
	assert.True(t, created.Price.Equal(decimal.RequireFromString("19.99")))

	_, err = svc.CreateProduct(ctx, productInput("YO-YO", category.ID))
	requireCode(t, err, pkgerrors.CodeValidation)

	// Category existence is all that matters, not its activity state.
	_, err = svc.DeleteCategory(ctx, category.ID)
	require.NoError(t, err)
	_, err = svc.CreateProduct(ctx, productInput("Kite", category.ID))
	require.NoError(t, err)
}

func TestCreateProductFieldValidation(t *testing.T) {
	svc, _ := newCatalogService(t)
	ctx := context.Background()
	categoryID := uuid.New()

	negativePrice := productInput("a", categoryID)
	negativePrice.Price = decimal.RequireFromString("-0.01")

	negativeStock := productInput("b", categoryID)
	negativeStock.StockQuantity = -1

	bigDiscount := productInput("c", categoryID)
	bigDiscount.DiscountPercentage = decimal.RequireFromString("100.5")

	missingName := productInput("  ", categoryID)

	for _, input := range []ProductInput{negativePrice, negativeStock, bigDiscount, missingName} {
		_, err := svc.CreateProduct(ctx, input)
		requireCode(t, err, pkgerrors.CodeValidation)
	}
}

func TestUpdateProductRules(t *testing.T) {
	svc, _ := newCatalogService(t)
	ctx := context.Background()

	category, err := svc.CreateCategory(ctx, CategoryInput{Name: "Tools"})
	require.NoError(t, err)
	hammer, err := svc.CreateProduct(ctx, productInput("Hammer", category.ID))
	require.NoError(t, err)

	_, err = svc.UpdateProduct(ctx, UpdateProductInput{ID: uuid.New(), ProductInput: productInput("Saw", category.ID)})
	requireCode(t, err, pkgerrors.CodeNotFound)

	_, err = svc.UpdateProduct(ctx, UpdateProductInput{ID: hammer.ID, ProductInput: productInput("hammer", category.ID)})
	requireCode(t, err, pkgerrors.CodeValidation)

	_, err = svc.UpdateProduct(ctx, UpdateProductInput{ID: hammer.ID, ProductInput: productInput("Mallet", uuid.New())})
	requireCode(t, err, pkgerrors.CodeValidation)

	update := productInput("Mallet", category.ID)
	update.Price = decimal.RequireFromString("7.25")
	confirmation, err := svc.UpdateProduct(ctx, UpdateProductInput{ID: hammer.ID, ProductInput: update})
	require.NoError(t, err)
	assert.Equal(t, "Product Mallet was successfully updated", confirmation.Message)

	got, err := svc.GetProduct(ctx, hammer.ID)
	require.NoError(t, err)
	assert.Equal(t, "Mallet", got.Name)
	assert.True(t, got.Price.Equal(decimal.RequireFromString("7.25")))
}

func TestListProductsByCategoryOnlyAvailable(t *testing.T) {
	svc, _ := newCatalogService(t)
	ctx := context.Background()

	category, err := svc.CreateCategory(ctx, CategoryInput{Name: "Garden"})
	require.NoError(t, err)
	other, err := svc.CreateCategory(ctx, CategoryInput{Name: "Kitchen"})
	require.NoError(t, err)

	rake, err := svc.CreateProduct(ctx, productInput("Rake", category.ID))
	require.NoError(t, err)
	hose, err := svc.CreateProduct(ctx, productInput("Hose", category.ID))
	require.NoError(t, err)
	_, err = svc.CreateProduct(ctx, productInput("Whisk", other.ID))
	require.NoError(t, err)

	_, err = svc.DeleteProduct(ctx, rake.ID)
	require.NoError(t, err)

	listed, err := svc.ListProductsByCategory(ctx, category.ID)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, hose.ID, listed[0].ID)

	_, err = svc.SetAvailability(ctx, hose.ID, false)
	require.NoError(t, err)

	_, err = svc.ListProductsByCategory(ctx, category.ID)
	requireCode(t, err, pkgerrors.CodeNotFound)

	all, err := svc.ListProducts(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	_, err = svc.SetAvailability(ctx, rake.ID, true)
	require.NoError(t, err)
	listed, err = svc.ListProductsByCategory(ctx, category.ID)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, rake.ID, listed[0].ID)
}

func TestProductAvailabilityMissing(t *testing.T) {
	svc, _ := newCatalogService(t)
	ctx := context.Background()

	_, err := svc.DeleteProduct(ctx, uuid.New())
	requireCode(t, err, pkgerrors.CodeNotFound)
	_, err = svc.SetAvailability(ctx, uuid.New(), true)
	requireCode(t, err, pkgerrors.CodeNotFound)
	_, err = svc.GetProduct(ctx, uuid.New())
	requireCode(t, err, pkgerrors.CodeNotFound)
}

type brokenRepo struct {
	CatalogRepository
}

var errBroken = errors.New("disk full")

func (brokenRepo) WithTx(*gorm.DB) CatalogRepository { return brokenRepo{} }
func (brokenRepo) CategoryNameTaken(context.Context, string) (bool, error) {
	return false, nil
}
func (brokenRepo) CreateCategory(context.Context, *models.Category) error { return errBroken }
func (brokenRepo) ListProducts(context.Context) ([]models.Product, error) {
	return nil, errBroken
}

type stubTxRunner struct{}

func (stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

func TestCatalogFaultsBecomeInternal(t *testing.T) {
	svc, err := NewService(brokenRepo{}, stubTxRunner{}, nil)
	require.NoError(t, err)
	ctx := context.Background()

	_, err = svc.CreateCategory(ctx, CategoryInput{Name: "x"})
	requireCode(t, err, pkgerrors.CodeInternal)
	assert.ErrorIs(t, err, errBroken)

	_, err = svc.ListProducts(ctx)
	requireCode(t, err, pkgerrors.CodeInternal)
}

func TestCreateCategoryMapsStoreUniqueViolation(t *testing.T) {
	svc, err := NewService(uniqueRepo{}, stubTxRunner{}, nil)
	require.NoError(t, err)

	_, err = svc.CreateCategory(context.Background(), CategoryInput{Name: "Race"})
	requireCode(t, err, pkgerrors.CodeConflict)
}

type uniqueRepo struct {
	CatalogRepository
}

func (uniqueRepo) WithTx(*gorm.DB) CatalogRepository { return uniqueRepo{} }
func (uniqueRepo) CategoryNameTaken(context.Context, string) (bool, error) {
	return false, nil
}
func (uniqueRepo) CreateCategory(context.Context, *models.Category) error {
	return ErrCategoryNameTaken
}
