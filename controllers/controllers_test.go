package controllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	restful "github.com/emicklei/go-restful/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tierlist-restful/models"
	"tierlist-restful/repositories"
	"tierlist-restful/services"
	"tierlist-restful/storage"
	"tierlist-restful/testutil"
)

var (
	pngBytes  = append([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), bytes.Repeat([]byte{0}, 32)...)
	jpegBytes = append([]byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 'J', 'F', 'I', 'F', 0x00}, bytes.Repeat([]byte{0}, 32)...)
)

type testServer struct {
	container *restful.Container
	uploadDir string
}

func newTestServer(t *testing.T, maxBodyBytes int64) *testServer {
	t.Helper()
	logger := testutil.Logger(t)
	store := repositories.NewStore(testutil.NewDB(t))
	dir := filepath.Join(t.TempDir(), "uploads")
	images, err := storage.NewImageStore(dir, true, logger)
	require.NoError(t, err)

	svc := Services{
		Users:      services.NewUserService(store, logger),
		Tierlists:  services.NewTierlistService(store, logger),
		Categories: services.NewCategoryService(store, logger),
		Elements:   services.NewElementService(store, images, logger),
		Images:     services.NewImageService(images, logger),
	}
	opts := ContainerOptions{MaxBodyBytes: maxBodyBytes, AllowedOrigins: []string{"*"}}
	return &testServer{container: NewContainer(svc, opts, logger), uploadDir: dir}
}

func (s *testServer) do(t *testing.T, method, path string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	s.container.ServeHTTP(w, req)
	return w
}

func (s *testServer) doJSON(t *testing.T, method, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	if payload == nil {
		return s.do(t, method, path, nil, "")
	}
	raw, err := json.Marshal(payload)
	require.NoError(t, err)
	return s.do(t, method, path, bytes.NewReader(raw), restful.MIME_JSON)
}

type filePart struct {
	field, filename string
	content         []byte
}

func multipartForm(t *testing.T, values map[string]string, file *filePart) (io.Reader, string) {
	t.Helper()
	buf := new(bytes.Buffer)
	mw := multipart.NewWriter(buf)
	for k, v := range values {
		require.NoError(t, mw.WriteField(k, v))
	}
	if file != nil {
		fw, err := mw.CreateFormFile(file.field, file.filename)
		require.NoError(t, err)
		_, err = fw.Write(file.content)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return buf, mw.FormDataContentType()
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func fieldNames(resp ErrorResponse) []string {
	names := make([]string, len(resp.Fields))
	for i, f := range resp.Fields {
		names[i] = f.Field
	}
	return names
}

// seed creates a user, a tierlist and a category through the API.
func (s *testServer) seed(t *testing.T) (models.UserView, models.TierlistView, models.CategoryView) {
	t.Helper()
	w := s.doJSON(t, http.MethodPost, "/users", map[string]any{"name": "Ada", "email": "ada@example.com"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	user := decode[models.UserView](t, w)

	w = s.doJSON(t, http.MethodPost, "/tierlists", map[string]any{"title": "Fruits", "created_by": user.ID})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	tierlist := decode[models.TierlistView](t, w)

	w = s.doJSON(t, http.MethodPost, "/categories", map[string]any{"tierlist_id": tierlist.ID, "name": "S", "order": 0})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	category := decode[models.CategoryView](t, w)
	return user, tierlist, category
}

func TestGreeting(t *testing.T) {
	s := newTestServer(t, 1<<20)
	for _, method := range []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete} {
		w := s.do(t, method, "/", nil, "")
		assert.Equal(t, http.StatusOK, w.Code, method)
		assert.Equal(t, "Hola, Tierlist", decode[GreetingResponse](t, w).Msg)
	}
}

func TestUserEndpoints(t *testing.T) {
	s := newTestServer(t, 1<<20)

	t.Run("create", func(t *testing.T) {
		w := s.doJSON(t, http.MethodPost, "/users", map[string]any{"name": "Ada", "email": "ada@example.com"})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		user := decode[models.UserView](t, w)
		assert.Equal(t, "ada@example.com", user.Email)
		assert.Contains(t, w.Body.String(), `"tierlists":[]`)
		assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	})

	t.Run("duplicate email", func(t *testing.T) {
		w := s.doJSON(t, http.MethodPost, "/users", map[string]any{"name": "Imposter", "email": "ada@example.com"})
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.NotEmpty(t, decode[ErrorResponse](t, w).Error)
	})

	t.Run("missing fields", func(t *testing.T) {
		w := s.doJSON(t, http.MethodPost, "/users", map[string]any{})
		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.ElementsMatch(t, []string{"name", "email"}, fieldNames(decode[ErrorResponse](t, w)))
	})

	t.Run("markup in name", func(t *testing.T) {
		w := s.doJSON(t, http.MethodPost, "/users", map[string]any{"name": "<b>Bold</b>", "email": "bold@example.com"})
		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, []string{"name"}, fieldNames(decode[ErrorResponse](t, w)))
	})

	t.Run("invalid email", func(t *testing.T) {
		w := s.doJSON(t, http.MethodPost, "/users", map[string]any{"name": "Bob", "email": "not-an-email"})
		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, []string{"email"}, fieldNames(decode[ErrorResponse](t, w)))
	})

	t.Run("malformed json", func(t *testing.T) {
		w := s.do(t, http.MethodPost, "/users", strings.NewReader(`{"name":`), restful.MIME_JSON)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("get unknown and invalid id", func(t *testing.T) {
		w := s.doJSON(t, http.MethodGet, "/users/999", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)

		w = s.doJSON(t, http.MethodGet, "/users/abc", nil)
		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, []string{"id"}, fieldNames(decode[ErrorResponse](t, w)))

		w = s.doJSON(t, http.MethodGet, "/users/0", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("update", func(t *testing.T) {
		w := s.doJSON(t, http.MethodPut, "/users/1", map[string]any{"name": "Ada Lovelace", "email": "ada@example.com"})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Equal(t, "Ada Lovelace", decode[models.UserView](t, w).Name)
	})

	t.Run("list", func(t *testing.T) {
		w := s.doJSON(t, http.MethodGet, "/users", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Len(t, decode[[]models.UserView](t, w), 1)
	})
}

func TestRequestIDIsPropagated(t *testing.T) {
	s := newTestServer(t, 1<<20)
	req := httptest.NewRequest(http.MethodGet, "/users", nil)
	req.Header.Set("X-Request-ID", "req-123")
	w := httptest.NewRecorder()
	s.container.ServeHTTP(w, req)

	assert.Equal(t, "req-123", w.Header().Get("X-Request-ID"))
}

func TestDeleteUserOwningTierlists(t *testing.T) {
	s := newTestServer(t, 1<<20)
	user, tierlist, _ := s.seed(t)

	w := s.doJSON(t, http.MethodDelete, fmt.Sprintf("/users/%d", user.ID), nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = s.doJSON(t, http.MethodDelete, fmt.Sprintf("/tierlists/%d", tierlist.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Tierlist deleted", decode[MessageResponse](t, w).Message)

	w = s.doJSON(t, http.MethodDelete, fmt.Sprintf("/users/%d", user.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "User deleted", decode[MessageResponse](t, w).Message)
}

func TestCreateTierlistForUnknownUser(t *testing.T) {
	s := newTestServer(t, 1<<20)

	w := s.doJSON(t, http.MethodPost, "/tierlists", map[string]any{"title": "Orphan", "created_by": 99})
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, decode[ErrorResponse](t, w).Error, "User 99")

	w = s.doJSON(t, http.MethodGet, "/tierlists", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode[[]models.TierlistView](t, w))
}

func TestCreateTierlistMistypedField(t *testing.T) {
	s := newTestServer(t, 1<<20)

	w := s.doJSON(t, http.MethodPost, "/tierlists", map[string]any{"title": "Fruits", "created_by": "ada"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, []string{"created_by"}, fieldNames(decode[ErrorResponse](t, w)))
}

func TestUpdateTierlistKeepsCreator(t *testing.T) {
	s := newTestServer(t, 1<<20)
	user, tierlist, _ := s.seed(t)
	path := fmt.Sprintf("/tierlists/%d", tierlist.ID)

	w := s.doJSON(t, http.MethodPut, path, map[string]any{"title": "Best fruits", "created_by": user.ID + 7})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = s.doJSON(t, http.MethodGet, path, nil)
	require.Equal(t, http.StatusOK, w.Code)
	got := decode[models.TierlistView](t, w)
	assert.Equal(t, "Best fruits", got.Title)
	assert.Equal(t, user.ID, got.CreatedBy)
	assert.Nil(t, got.Description)
	assert.Len(t, got.Categories, 1)
}

func TestDeleteLastCategoryKeepsTierlist(t *testing.T) {
	s := newTestServer(t, 1<<20)
	_, tierlist, category := s.seed(t)

	w := s.doJSON(t, http.MethodDelete, fmt.Sprintf("/categories/%d", category.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Category deleted", decode[MessageResponse](t, w).Message)

	w = s.doJSON(t, http.MethodGet, fmt.Sprintf("/tierlists/%d", tierlist.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"categories":[]`)
}

func TestCategoryValidation(t *testing.T) {
	s := newTestServer(t, 1<<20)
	_, tierlist, _ := s.seed(t)

	w := s.doJSON(t, http.MethodPost, "/categories", map[string]any{"tierlist_id": tierlist.ID})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.ElementsMatch(t, []string{"name", "order"}, fieldNames(decode[ErrorResponse](t, w)))

	w = s.doJSON(t, http.MethodPost, "/categories", map[string]any{"tierlist_id": 404, "name": "A", "order": 1})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestBlankNamesAreRejected(t *testing.T) {
	s := newTestServer(t, 1<<20)
	user, tierlist, category := s.seed(t)

	cases := []struct {
		name   string
		method string
		path   string
		body   map[string]any
		field  string
	}{
		{"user create", http.MethodPost, "/users", map[string]any{"name": "   ", "email": "blank@example.com"}, "name"},
		{"user update", http.MethodPut, fmt.Sprintf("/users/%d", user.ID), map[string]any{"name": "\t", "email": "ada@example.com"}, "name"},
		{"tierlist create", http.MethodPost, "/tierlists", map[string]any{"title": " \t ", "created_by": user.ID}, "title"},
		{"tierlist update", http.MethodPut, fmt.Sprintf("/tierlists/%d", tierlist.ID), map[string]any{"title": "  "}, "title"},
		{"category create", http.MethodPost, "/categories", map[string]any{"tierlist_id": tierlist.ID, "name": " ", "order": 1}, "name"},
		{"category update", http.MethodPut, fmt.Sprintf("/categories/%d", category.ID), map[string]any{"name": "\n", "order": 1}, "name"},
		{"element create", http.MethodPost, "/elements", map[string]any{"category_id": category.ID, "name": "   "}, "name"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := s.doJSON(t, tc.method, tc.path, tc.body)
			require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
			assert.Equal(t, []string{tc.field}, fieldNames(decode[ErrorResponse](t, w)))
		})
	}

	t.Run("element multipart create", func(t *testing.T) {
		body, ct := multipartForm(t, map[string]string{"category_id": fmt.Sprint(category.ID), "name": "  "}, nil)
		w := s.do(t, http.MethodPost, "/elements", body, ct)
		require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
		assert.Equal(t, []string{"name"}, fieldNames(decode[ErrorResponse](t, w)))
	})

	w := s.doJSON(t, http.MethodGet, fmt.Sprintf("/users/%d", user.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	got := decode[models.UserView](t, w)
	assert.Equal(t, "Ada", got.Name)
	require.Len(t, got.Tierlists, 1)
	assert.Equal(t, "Fruits", got.Tierlists[0].Title)
	require.Len(t, got.Tierlists[0].Categories, 1)
	assert.Equal(t, "S", got.Tierlists[0].Categories[0].Name)
	assert.Empty(t, got.Tierlists[0].Categories[0].Elements)
}

func TestCollectionLengthMatchesRows(t *testing.T) {
	s := newTestServer(t, 1<<20)
	user, tierlist, category := s.seed(t)

	cases := []struct {
		collection string
		payload    func(i int) map[string]any
	}{
		{"/users", func(i int) map[string]any {
			return map[string]any{"name": fmt.Sprintf("User %d", i), "email": fmt.Sprintf("user%d@example.com", i)}
		}},
		{"/tierlists", func(i int) map[string]any {
			return map[string]any{"title": fmt.Sprintf("List %d", i), "created_by": user.ID}
		}},
		{"/categories", func(i int) map[string]any {
			return map[string]any{"tierlist_id": tierlist.ID, "name": fmt.Sprintf("Tier %d", i), "order": i}
		}},
		{"/elements", func(i int) map[string]any {
			return map[string]any{"category_id": category.ID, "name": fmt.Sprintf("Item %d", i)}
		}},
	}
	type row struct {
		ID uint `json:"id"`
	}
	for _, tc := range cases {
		t.Run(tc.collection, func(t *testing.T) {
			w := s.doJSON(t, http.MethodGet, tc.collection, nil)
			require.Equal(t, http.StatusOK, w.Code)
			before := len(decode[[]row](t, w))

			var created []row
			for i := 1; i <= 3; i++ {
				w := s.doJSON(t, http.MethodPost, tc.collection, tc.payload(i))
				require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
				created = append(created, decode[row](t, w))
			}
			w = s.doJSON(t, http.MethodDelete, fmt.Sprintf("%s/%d", tc.collection, created[1].ID), nil)
			require.Equal(t, http.StatusOK, w.Code, w.Body.String())

			w = s.doJSON(t, http.MethodGet, tc.collection, nil)
			require.Equal(t, http.StatusOK, w.Code)
			rows := decode[[]row](t, w)
			assert.Len(t, rows, before+2)
			assert.NotContains(t, rows, created[1])
		})
	}
}

func TestUploadEndpoint(t *testing.T) {
	s := newTestServer(t, 1<<20)

	t.Run("rejects disallowed extension", func(t *testing.T) {
		body, ct := multipartForm(t, nil, &filePart{field: "file", filename: "a.exe", content: []byte("MZ")})
		w := s.do(t, http.MethodPost, "/upload", body, ct)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("rejects missing file part", func(t *testing.T) {
		body, ct := multipartForm(t, map[string]string{"other": "x"}, nil)
		w := s.do(t, http.MethodPost, "/upload", body, ct)
		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "No file part", decode[ErrorResponse](t, w).Error)
	})

	t.Run("stores png and never overwrites", func(t *testing.T) {
		body, ct := multipartForm(t, nil, &filePart{field: "file", filename: "a.png", content: pngBytes})
		w := s.do(t, http.MethodPost, "/upload", body, ct)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		assert.Equal(t, "a.png", decode[UploadResponse](t, w).Filename)

		second := append(append([]byte{}, pngBytes...), 'x')
		body, ct = multipartForm(t, nil, &filePart{field: "file", filename: "a.png", content: second})
		w = s.do(t, http.MethodPost, "/upload", body, ct)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		renamed := decode[UploadResponse](t, w).Filename
		assert.NotEqual(t, "a.png", renamed)

		first, err := os.ReadFile(filepath.Join(s.uploadDir, "a.png"))
		require.NoError(t, err)
		assert.Equal(t, pngBytes, first)

		w = s.do(t, http.MethodGet, "/uploads/a.png", nil, "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, pngBytes, w.Body.Bytes())
	})

	t.Run("serving unknown image", func(t *testing.T) {
		w := s.do(t, http.MethodGet, "/uploads/missing.png", nil, "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestElementMultipartCreateShowsInCategory(t *testing.T) {
	s := newTestServer(t, 1<<20)
	_, _, category := s.seed(t)

	body, ct := multipartForm(t,
		map[string]string{"category_id": fmt.Sprint(category.ID), "name": "Mango"},
		&filePart{field: "img", filename: "pic.jpg", content: jpegBytes})
	w := s.do(t, http.MethodPost, "/elements", body, ct)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	element := decode[models.ElementView](t, w)
	require.NotNil(t, element.Img)
	assert.Equal(t, "pic.jpg", *element.Img)

	w = s.doJSON(t, http.MethodGet, fmt.Sprintf("/categories/%d", category.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	got := decode[models.CategoryView](t, w)
	require.Len(t, got.Elements, 1)
	assert.Equal(t, "pic.jpg", *got.Elements[0].Img)

	w = s.doJSON(t, http.MethodGet, fmt.Sprintf("/elements/%d", element.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestElementMultipartValidation(t *testing.T) {
	s := newTestServer(t, 1<<20)
	_, _, category := s.seed(t)

	body, ct := multipartForm(t, map[string]string{"category_id": "abc", "name": "Mango"}, nil)
	w := s.do(t, http.MethodPost, "/elements", body, ct)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, []string{"category_id"}, fieldNames(decode[ErrorResponse](t, w)))

	body, ct = multipartForm(t, map[string]string{"category_id": fmt.Sprint(category.ID)}, nil)
	w = s.do(t, http.MethodPost, "/elements", body, ct)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, []string{"name"}, fieldNames(decode[ErrorResponse](t, w)))

	body, ct = multipartForm(t,
		map[string]string{"category_id": fmt.Sprint(category.ID), "name": "Fake"},
		&filePart{field: "img", filename: "fake.png", content: []byte("plain text, not an image")})
	w = s.do(t, http.MethodPost, "/elements", body, ct)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	entries, err := os.ReadDir(s.uploadDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestElementJSONReferenceAndUpdates(t *testing.T) {
	s := newTestServer(t, 1<<20)
	_, _, category := s.seed(t)

	body, ct := multipartForm(t, nil, &filePart{field: "file", filename: "kiwi.png", content: pngBytes})
	w := s.do(t, http.MethodPost, "/upload", body, ct)
	require.Equal(t, http.StatusCreated, w.Code)
	stored := decode[UploadResponse](t, w).Filename

	w = s.doJSON(t, http.MethodPost, "/elements", map[string]any{"category_id": category.ID, "name": "Kiwi", "img": stored})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	element := decode[models.ElementView](t, w)
	path := fmt.Sprintf("/elements/%d", element.ID)

	w = s.doJSON(t, http.MethodPost, "/elements", map[string]any{"category_id": category.ID, "name": "Ghost", "img": "ghost.png"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	body, ct = multipartForm(t, map[string]string{"name": "Golden kiwi"}, nil)
	w = s.do(t, http.MethodPut, path, body, ct)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	updated := decode[models.ElementView](t, w)
	assert.Equal(t, "Golden kiwi", updated.Name)
	require.NotNil(t, updated.Img, "multipart update without img keeps it")
	assert.Equal(t, stored, *updated.Img)

	w = s.doJSON(t, http.MethodPut, path, map[string]any{"name": "Plain kiwi"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Nil(t, decode[models.ElementView](t, w).Img, "json update without img clears it")

	w = s.doJSON(t, http.MethodDelete, path, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Element deleted", decode[MessageResponse](t, w).Message)

	w = s.doJSON(t, http.MethodGet, "/elements", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode[[]models.ElementView](t, w))
}

func TestBodyOverLimit(t *testing.T) {
	s := newTestServer(t, 64)

	body, ct := multipartForm(t, nil, &filePart{field: "file", filename: "big.png", content: bytes.Repeat(pngBytes, 10)})
	w := s.do(t, http.MethodPost, "/upload", body, ct)
	require.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Equal(t, ErrorResponse{Error: "Request body exceeds 64 bytes"}, decode[ErrorResponse](t, w))
}

func TestRoutingErrorsUseErrorShape(t *testing.T) {
	s := newTestServer(t, 1<<20)

	w := s.doJSON(t, http.MethodGet, "/nowhere/at/all", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.NotEmpty(t, decode[ErrorResponse](t, w).Error)

	w = s.do(t, http.MethodPost, "/users", strings.NewReader("name=x"), "application/x-www-form-urlencoded")
	assert.Equal(t, http.StatusUnsupportedMediaType, w.Code)
}

func TestAPIDocsAndMetrics(t *testing.T) {
	s := newTestServer(t, 1<<20)

	w := s.do(t, http.MethodGet, "/apidocs.json", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Tierlist API")
	assert.Contains(t, w.Body.String(), "/tierlists/{id}")

	s.do(t, http.MethodGet, "/users", nil, "")
	w = s.do(t, http.MethodGet, "/metrics", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "tierlist_http_requests_total")
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(t, 1<<20)
	req := httptest.NewRequest(http.MethodOptions, "/users", nil)
	req.Header.Set("Origin", "https://tiers.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	s.container.ServeHTTP(w, req)

	assert.Equal(t, "https://tiers.example", w.Header().Get("Access-Control-Allow-Origin"))
}
