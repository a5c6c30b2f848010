package services

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tierlist-restful/apperrors"
	"tierlist-restful/models"
	"tierlist-restful/repositories"
	"tierlist-restful/storage"
	"tierlist-restful/testutil"
)

var pngBytes = append([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), bytes.Repeat([]byte{0}, 32)...)

type fixture struct {
	store      *repositories.Store
	images     *storage.ImageStore
	users      UserService
	tierlists  TierlistService
	categories CategoryService
	elements   ElementService
	uploads    ImageService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	logger := testutil.Logger(t)
	store := repositories.NewStore(testutil.NewDB(t))
	images, err := storage.NewImageStore(t.TempDir(), true, logger)
	require.NoError(t, err)
	return &fixture{
		store:      store,
		images:     images,
		users:      NewUserService(store, logger),
		tierlists:  NewTierlistService(store, logger),
		categories: NewCategoryService(store, logger),
		elements:   NewElementService(store, images, logger),
		uploads:    NewImageService(images, logger),
	}
}

func intPtr(v int) *int { return &v }

func strPtr(v string) *string { return &v }

func png(name string) *ImageUpload {
	return &ImageUpload{Filename: name, Content: bytes.NewReader(pngBytes)}
}

// seedTree creates a user owning one tierlist with one category.
func (f *fixture) seedTree(t *testing.T) (models.UserView, models.TierlistView, models.CategoryView) {
	t.Helper()
	ctx := context.Background()
	user, err := f.users.CreateUser(ctx, &CreateUserInput{Name: "Ada", Email: "ada@example.com"})
	require.NoError(t, err)
	tierlist, err := f.tierlists.CreateTierlist(ctx, &CreateTierlistInput{Title: "Fruits", CreatedBy: user.ID})
	require.NoError(t, err)
	category, err := f.categories.CreateCategory(ctx, &CreateCategoryInput{TierlistID: tierlist.ID, Name: "S", Order: intPtr(0)})
	require.NoError(t, err)
	return user, tierlist, category
}

func TestCreateUserNormalizesEmailAndRejectsDuplicates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	user, err := f.users.CreateUser(ctx, &CreateUserInput{Name: " Ada ", Email: "Ada@Example.com "})
	require.NoError(t, err)
	assert.Equal(t, "Ada", user.Name)
	assert.Equal(t, "ada@example.com", user.Email)
	assert.NotNil(t, user.Tierlists)

	_, err = f.users.CreateUser(ctx, &CreateUserInput{Name: "Other", Email: "ADA@example.com"})
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestUpdateUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ada, err := f.users.CreateUser(ctx, &CreateUserInput{Name: "Ada", Email: "ada@example.com"})
	require.NoError(t, err)
	bob, err := f.users.CreateUser(ctx, &CreateUserInput{Name: "Bob", Email: "bob@example.com"})
	require.NoError(t, err)

	updated, err := f.users.UpdateUser(ctx, ada.ID, &UpdateUserInput{Name: "Ada L.", Email: "ada@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "Ada L.", updated.Name)

	_, err = f.users.UpdateUser(ctx, ada.ID, &UpdateUserInput{Name: "Ada", Email: bob.Email})
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	_, err = f.users.UpdateUser(ctx, 999, &UpdateUserInput{Name: "Nobody", Email: "no@example.com"})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestDeleteUserBlockedWhileOwningTierlists(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user, tierlist, _ := f.seedTree(t)

	err := f.users.DeleteUser(ctx, user.ID)
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	require.NoError(t, f.tierlists.DeleteTierlist(ctx, tierlist.ID))
	require.NoError(t, f.users.DeleteUser(ctx, user.ID))

	_, err = f.users.GetUser(ctx, user.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestCreateTierlistForMissingUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.tierlists.CreateTierlist(ctx, &CreateTierlistInput{Title: "Orphan", CreatedBy: 42})
	require.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.Contains(t, err.Error(), "User 42")

	all, err := f.tierlists.ListTierlists(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestUpdateTierlistKeepsOwner(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user, tierlist, _ := f.seedTree(t)

	desc := "ranked by taste"
	_, err := f.tierlists.UpdateTierlist(ctx, tierlist.ID, &UpdateTierlistInput{Title: "Best fruits", Description: &desc})
	require.NoError(t, err)

	got, err := f.tierlists.GetTierlist(ctx, tierlist.ID)
	require.NoError(t, err)
	assert.Equal(t, "Best fruits", got.Title)
	assert.Equal(t, &desc, got.Description)
	assert.Equal(t, user.ID, got.CreatedBy)
	assert.Len(t, got.Categories, 1)

	got, err = f.tierlists.UpdateTierlist(ctx, tierlist.ID, &UpdateTierlistInput{Title: "Best fruits"})
	require.NoError(t, err)
	assert.Nil(t, got.Description, "absent description clears it")
}

func TestDeleteTierlistCascades(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user, tierlist, category := f.seedTree(t)
	_, err := f.elements.CreateElement(ctx, &CreateElementInput{CategoryID: category.ID, Name: "Mango"}, nil)
	require.NoError(t, err)

	require.NoError(t, f.tierlists.DeleteTierlist(ctx, tierlist.ID))

	categories, err := f.categories.ListCategories(ctx)
	require.NoError(t, err)
	assert.Empty(t, categories)
	elements, err := f.elements.ListElements(ctx)
	require.NoError(t, err)
	assert.Empty(t, elements)

	_, err = f.users.GetUser(ctx, user.ID)
	assert.NoError(t, err, "owner survives")

	assert.ErrorIs(t, f.tierlists.DeleteTierlist(ctx, tierlist.ID), apperrors.ErrNotFound)
}

func TestDeleteLastCategoryKeepsTierlist(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, tierlist, category := f.seedTree(t)
	_, err := f.elements.CreateElement(ctx, &CreateElementInput{CategoryID: category.ID, Name: "Mango"}, nil)
	require.NoError(t, err)

	require.NoError(t, f.categories.DeleteCategory(ctx, category.ID))

	got, err := f.tierlists.GetTierlist(ctx, tierlist.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Categories)
	assert.NotNil(t, got.Categories)

	elements, err := f.elements.ListElements(ctx)
	require.NoError(t, err)
	assert.Empty(t, elements)
}

func TestCategoryCreateAndUpdate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, tierlist, category := f.seedTree(t)

	_, err := f.categories.CreateCategory(ctx, &CreateCategoryInput{TierlistID: 77, Name: "A", Order: intPtr(1)})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	updated, err := f.categories.UpdateCategory(ctx, category.ID, &UpdateCategoryInput{Name: "F", Order: intPtr(-3)})
	require.NoError(t, err)
	assert.Equal(t, "F", updated.Name)
	assert.Equal(t, -3, updated.Order)
	assert.Equal(t, tierlist.ID, updated.TierlistID)
}

func TestCreateElementWithUploadShowsInCategory(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, _, category := f.seedTree(t)

	element, err := f.elements.CreateElement(ctx, &CreateElementInput{CategoryID: category.ID, Name: "Kiwi"}, png("pic.png"))
	require.NoError(t, err)
	require.NotNil(t, element.Img)
	assert.Equal(t, "pic.png", *element.Img)
	assert.FileExists(t, filepath.Join(f.images.Dir(), "pic.png"))

	got, err := f.categories.GetCategory(ctx, category.ID)
	require.NoError(t, err)
	require.Len(t, got.Elements, 1)
	assert.Equal(t, "pic.png", *got.Elements[0].Img)
}

func TestCreateElementReferencingUploadedImage(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, _, category := f.seedTree(t)

	name, err := f.uploads.UploadImage(ctx, *png("a.png"))
	require.NoError(t, err)

	element, err := f.elements.CreateElement(ctx, &CreateElementInput{CategoryID: category.ID, Name: "A", Img: &name}, nil)
	require.NoError(t, err)
	assert.Equal(t, name, *element.Img)

	_, err = f.elements.CreateElement(ctx, &CreateElementInput{CategoryID: category.ID, Name: "B", Img: strPtr("missing.png")}, nil)
	assert.ErrorIs(t, err, apperrors.ErrFileRejected)

	_, err = f.elements.CreateElement(ctx, &CreateElementInput{CategoryID: category.ID, Name: "C", Img: strPtr("../a.png")}, nil)
	assert.ErrorIs(t, err, apperrors.ErrFileRejected)
}

func TestCreateElementForMissingCategoryStoresNothing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.elements.CreateElement(ctx, &CreateElementInput{CategoryID: 5, Name: "Lost"}, png("lost.png"))
	require.ErrorIs(t, err, apperrors.ErrNotFound)

	entries, err := os.ReadDir(f.images.Dir())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestCreateElementRejectsNonImage(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, _, category := f.seedTree(t)

	upload := &ImageUpload{Filename: "a.exe", Content: bytes.NewReader([]byte("MZ"))}
	_, err := f.elements.CreateElement(ctx, &CreateElementInput{CategoryID: category.ID, Name: "Bad"}, upload)
	assert.ErrorIs(t, err, apperrors.ErrFileRejected)

	elements, err := f.elements.ListElements(ctx)
	require.NoError(t, err)
	assert.Empty(t, elements)
}

func TestUpdateElementImageRules(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, _, category := f.seedTree(t)
	element, err := f.elements.CreateElement(ctx, &CreateElementInput{CategoryID: category.ID, Name: "Kiwi"}, png("kiwi.png"))
	require.NoError(t, err)

	kept, err := f.elements.UpdateElement(ctx, element.ID, &UpdateElementInput{Name: "Green kiwi", KeepImage: true}, nil)
	require.NoError(t, err)
	assert.Equal(t, "Green kiwi", kept.Name)
	assert.Equal(t, "kiwi.png", *kept.Img)

	replaced, err := f.elements.UpdateElement(ctx, element.ID, &UpdateElementInput{Name: "Kiwi", KeepImage: true}, png("kiwi.png"))
	require.NoError(t, err)
	assert.NotEqual(t, "kiwi.png", *replaced.Img, "same name gets a suffix")
	assert.Equal(t, category.ID, replaced.CategoryID)

	cleared, err := f.elements.UpdateElement(ctx, element.ID, &UpdateElementInput{Name: "Kiwi"}, nil)
	require.NoError(t, err)
	assert.Nil(t, cleared.Img)

	_, err = f.elements.UpdateElement(ctx, 999, &UpdateElementInput{Name: "None"}, nil)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestDeleteElementLeavesFile(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, _, category := f.seedTree(t)
	element, err := f.elements.CreateElement(ctx, &CreateElementInput{CategoryID: category.ID, Name: "Kiwi"}, png("kiwi.png"))
	require.NoError(t, err)

	require.NoError(t, f.elements.DeleteElement(ctx, element.ID))
	assert.FileExists(t, filepath.Join(f.images.Dir(), "kiwi.png"))

	_, err = f.elements.GetElement(ctx, element.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestListCountsMatchRows(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedTree(t)
	_, err := f.users.CreateUser(ctx, &CreateUserInput{Name: "Bob", Email: "bob@example.com"})
	require.NoError(t, err)

	users, err := f.users.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 2)
	assert.Len(t, users[0].Tierlists, 1)
	assert.Empty(t, users[1].Tierlists)
}

func TestTranslate(t *testing.T) {
	assert.NoError(t, translate(nil, nil, "x"))

	conflict := apperrors.Conflict("taken")
	assert.Same(t, conflict, translate(conflict, nil, "x"))

	err := translate(errors.New("boom"), nil, "Failed to do it")
	assert.Equal(t, apperrors.KindInternal, apperrors.KindOf(err))
	assert.Contains(t, err.Error(), "Failed to do it")
}
