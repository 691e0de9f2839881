package handler

import (
	"bytes"
	"crypto/tls"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	restcontext "github.com/dtroode/recipes-server/internal/api/rest/context"
	servermocks "github.com/dtroode/recipes-server/internal/mocks"
	"github.com/dtroode/recipes-server/internal/model"
	"github.com/dtroode/recipes-server/internal/testutil"
)

const testMaxUpload = 1 << 20

var (
	ownerID  = uuid.MustParse("550e8400-e29b-41d4-a716-446655440000")
	recipeID = uuid.MustParse("550e8400-e29b-41d4-a716-446655440001")
)

func newTestRecipeHandler(t *testing.T, trustProxy bool) (*Recipe, *servermocks.RecipeService) {
	t.Helper()

	svc := servermocks.NewRecipeService(t)
	return NewRecipe(svc, restcontext.NewManager(), testutil.MakeNoopLogger(), testMaxUpload, trustProxy), svc
}

func withUser(req *http.Request, userID uuid.UUID) *http.Request {
	return req.WithContext(restcontext.NewManager().SetUserIDToContext(req.Context(), userID))
}

type multipartFile struct {
	name        string
	contentType string
	data        []byte
}

func multipartBody(t *testing.T, fields map[string]string, file *multipartFile) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if file != nil {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="image"; filename="`+file.name+`"`)
		h.Set("Content-Type", file.contentType)
		part, err := mw.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write(file.data)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	return &buf, mw.FormDataContentType()
}

func decodeMessage(t *testing.T, body []byte) string {
	t.Helper()

	var msg struct {
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(body, &msg))
	return msg.Message
}

func TestRecipe_Create_Multipart(t *testing.T) {
	h, svc := newTestRecipeHandler(t, false)
	created := model.Recipe{
		ID:             recipeID,
		Title:          "Soup",
		Description:    "Hot",
		ImagePath:      "http://example.com/images/soup.png-1.png",
		AuthorizedUser: ownerID,
		CreatedAt:      time.Now().UTC(),
		UpdatedAt:      time.Now().UTC(),
	}

	svc.On("CreateRecipe", mock.Anything, ownerID, mock.MatchedBy(func(p model.CreateRecipeParams) bool {
		if p.Image == nil {
			return false
		}
		data, err := io.ReadAll(p.Image.Reader)
		return err == nil &&
			p.Title == "Soup" && p.Description == "Hot" &&
			p.Image.Name == "soup.png" && p.Image.ContentType == "image/png" &&
			string(data) == "png-bytes" &&
			p.BaseURL == "http://example.com"
	})).Return(created, nil)

	body, ct := multipartBody(t,
		map[string]string{"title": "Soup", "description": "Hot", "authorizedUser": uuid.NewString()},
		&multipartFile{name: "soup.png", contentType: "image/png", data: []byte("png-bytes")})
	req := httptest.NewRequest(http.MethodPost, "http://example.com/api/recipes", body)
	req.Header.Set("Content-Type", ct)
	rec := httptest.NewRecorder()

	h.Create(rec, withUser(req, ownerID))

	require.Equal(t, http.StatusCreated, rec.Code)
	var resp struct {
		Message string         `json:"message"`
		Recipe  recipeResponse `json:"recipe"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Recipe added successfully!", resp.Message)
	assert.Equal(t, recipeID, resp.Recipe.ID)
	assert.Equal(t, ownerID, resp.Recipe.AuthorizedUser)
	assert.Equal(t, created.ImagePath, resp.Recipe.ImagePath)
}

func TestRecipe_Create_JSONWithoutImage(t *testing.T) {
	h, svc := newTestRecipeHandler(t, false)

	svc.On("CreateRecipe", mock.Anything, ownerID, mock.MatchedBy(func(p model.CreateRecipeParams) bool {
		return p.Title == "Soup" && p.Image == nil
	})).Return(model.Recipe{ID: recipeID, Title: "Soup", AuthorizedUser: ownerID}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/recipes", strings.NewReader(`{"title":"Soup","description":"Hot"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	h.Create(rec, withUser(req, ownerID))

	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestRecipe_Create_InvalidMimeType(t *testing.T) {
	h, _ := newTestRecipeHandler(t, false)

	body, ct := multipartBody(t,
		map[string]string{"title": "Soup", "description": "Hot"},
		&multipartFile{name: "soup.gif", contentType: "image/gif", data: []byte("gif")})
	req := httptest.NewRequest(http.MethodPost, "/api/recipes", body)
	req.Header.Set("Content-Type", ct)
	rec := httptest.NewRecorder()

	h.Create(rec, withUser(req, ownerID))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid mime type!", decodeMessage(t, rec.Body.Bytes()))
}

func TestRecipe_Create_ImageMediaTypeParameters(t *testing.T) {
	h, svc := newTestRecipeHandler(t, false)

	svc.On("CreateRecipe", mock.Anything, ownerID, mock.MatchedBy(func(p model.CreateRecipeParams) bool {
		return p.Image != nil && p.Image.ContentType == "image/png"
	})).Return(model.Recipe{ID: recipeID, AuthorizedUser: ownerID}, nil)

	body, ct := multipartBody(t,
		map[string]string{"title": "Soup", "description": "Hot"},
		&multipartFile{name: "soup.png", contentType: "Image/PNG; charset=binary", data: []byte("png")})
	req := httptest.NewRequest(http.MethodPost, "/api/recipes", body)
	req.Header.Set("Content-Type", ct)
	rec := httptest.NewRecorder()

	h.Create(rec, withUser(req, ownerID))

	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestRecipe_Create_Errors(t *testing.T) {
	tests := []struct {
		name       string
		serviceErr error
		wantStatus int
	}{
		{name: "validation", serviceErr: model.ErrInvalidInput, wantStatus: http.StatusBadRequest},
		{name: "mime from service", serviceErr: model.ErrInvalidMimeType, wantStatus: http.StatusBadRequest},
		{name: "database", serviceErr: errors.New("database error"), wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, svc := newTestRecipeHandler(t, false)
			svc.On("CreateRecipe", mock.Anything, ownerID, mock.Anything).Return(model.Recipe{}, tt.serviceErr)

			req := httptest.NewRequest(http.MethodPost, "/api/recipes", strings.NewReader("title=Soup&description=Hot"))
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
			rec := httptest.NewRecorder()

			h.Create(rec, withUser(req, ownerID))

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestRecipe_Create_MalformedJSON(t *testing.T) {
	h, _ := newTestRecipeHandler(t, false)

	req := httptest.NewRequest(http.MethodPost, "/api/recipes", strings.NewReader(`{"title":`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	h.Create(rec, withUser(req, ownerID))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRecipe_Create_BodyTooLarge(t *testing.T) {
	svc := servermocks.NewRecipeService(t)
	h := NewRecipe(svc, restcontext.NewManager(), testutil.MakeNoopLogger(), 16, false)

	req := httptest.NewRequest(http.MethodPost, "/api/recipes",
		strings.NewReader(`{"title":"Soup","description":"`+strings.Repeat("x", 64)+`"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	h.Create(rec, withUser(req, ownerID))

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestRecipe_Create_Unauthenticated(t *testing.T) {
	h, _ := newTestRecipeHandler(t, false)

	rec := httptest.NewRecorder()
	h.Create(rec, httptest.NewRequest(http.MethodPost, "/api/recipes", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRecipe_BaseURL(t *testing.T) {
	tests := []struct {
		name       string
		trustProxy bool
		tls        bool
		headers    map[string]string
		want       string
	}{
		{name: "plain", want: "http://example.com"},
		{name: "tls", tls: true, want: "https://example.com"},
		{
			name:    "forwarded headers ignored",
			headers: map[string]string{"X-Forwarded-Proto": "https", "X-Forwarded-Host": "cdn.example.org"},
			want:    "http://example.com",
		},
		{
			name:       "forwarded headers trusted",
			trustProxy: true,
			headers:    map[string]string{"X-Forwarded-Proto": "HTTPS, http", "X-Forwarded-Host": "cdn.example.org"},
			want:       "https://cdn.example.org",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, _ := newTestRecipeHandler(t, tt.trustProxy)
			req := httptest.NewRequest(http.MethodGet, "http://example.com/api/recipes", nil)
			if tt.tls {
				req.TLS = &tls.ConnectionState{}
			}
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}

			assert.Equal(t, tt.want, h.baseURL(req))
		})
	}
}

func TestRecipe_Update(t *testing.T) {
	tests := []struct {
		name       string
		pathID     string
		body       string
		mockSetup  func(*servermocks.RecipeService)
		wantStatus int
		wantMsg    string
	}{
		{
			name:   "owner keeps image path",
			pathID: recipeID.String(),
			body:   `{"id":"` + recipeID.String() + `","title":"Stew","description":"Thick","imagePath":"http://h/images/a.png"}`,
			mockSetup: func(svc *servermocks.RecipeService) {
				svc.On("UpdateRecipe", mock.Anything, ownerID, mock.MatchedBy(func(p model.UpdateRecipeParams) bool {
					return p.ID == recipeID && p.ImagePath == "http://h/images/a.png" && p.Image == nil
				})).Return(model.Recipe{ID: recipeID, ImagePath: "http://h/images/a.png", AuthorizedUser: ownerID}, nil)
			},
			wantStatus: http.StatusOK,
			wantMsg:    "Update successful!",
		},
		{
			name:   "not owner",
			pathID: recipeID.String(),
			body:   `{"title":"Stew","description":"Thick"}`,
			mockSetup: func(svc *servermocks.RecipeService) {
				svc.On("UpdateRecipe", mock.Anything, ownerID, mock.Anything).Return(model.Recipe{}, model.ErrNotAuthorized)
			},
			wantStatus: http.StatusUnauthorized,
			wantMsg:    "Not authorized!",
		},
		{
			name:       "malformed path id",
			pathID:     "abc",
			body:       `{"title":"Stew","description":"Thick"}`,
			mockSetup:  func(*servermocks.RecipeService) {},
			wantStatus: http.StatusUnauthorized,
			wantMsg:    "Not authorized!",
		},
		{
			name:       "body id mismatch",
			pathID:     recipeID.String(),
			body:       `{"id":"` + uuid.NewString() + `","title":"Stew","description":"Thick"}`,
			mockSetup:  func(*servermocks.RecipeService) {},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, svc := newTestRecipeHandler(t, false)
			tt.mockSetup(svc)

			req := httptest.NewRequest(http.MethodPut, "/api/recipes/"+tt.pathID, strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			req = mux.SetURLVars(withUser(req, ownerID), map[string]string{"id": tt.pathID})
			rec := httptest.NewRecorder()

			h.Update(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantMsg != "" {
				assert.Equal(t, tt.wantMsg, decodeMessage(t, rec.Body.Bytes()))
			}
		})
	}
}

func TestRecipe_Update_WithNewImage(t *testing.T) {
	h, svc := newTestRecipeHandler(t, false)

	svc.On("UpdateRecipe", mock.Anything, ownerID, mock.MatchedBy(func(p model.UpdateRecipeParams) bool {
		return p.Image != nil && p.Image.ContentType == "image/jpeg" && p.ImagePath == "http://h/images/old.png"
	})).Return(model.Recipe{ID: recipeID, AuthorizedUser: ownerID}, nil)

	body, ct := multipartBody(t,
		map[string]string{"title": "Stew", "description": "Thick", "imagePath": "http://h/images/old.png"},
		&multipartFile{name: "stew.jpg", contentType: "image/jpeg", data: []byte("jpg")})
	req := httptest.NewRequest(http.MethodPut, "/api/recipes/"+recipeID.String(), body)
	req.Header.Set("Content-Type", ct)
	req = mux.SetURLVars(withUser(req, ownerID), map[string]string{"id": recipeID.String()})
	rec := httptest.NewRecorder()

	h.Update(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRecipe_List(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		h, svc := newTestRecipeHandler(t, false)
		svc.On("GetRecipes", mock.Anything).Return([]model.Recipe{
			{ID: recipeID, Title: "Soup", AuthorizedUser: ownerID},
			{ID: uuid.New(), Title: "Stew", AuthorizedUser: uuid.New()},
		}, nil)

		rec := httptest.NewRecorder()
		h.List(rec, httptest.NewRequest(http.MethodGet, "/api/recipes", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		var resp recipesEnvelope
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "Recipes fetched successfully!", resp.Message)
		assert.Len(t, resp.Recipes, 2)
		assert.Equal(t, "Soup", resp.Recipes[0].Title)
	})

	t.Run("empty", func(t *testing.T) {
		h, svc := newTestRecipeHandler(t, false)
		svc.On("GetRecipes", mock.Anything).Return([]model.Recipe{}, nil)

		rec := httptest.NewRecorder()
		h.List(rec, httptest.NewRequest(http.MethodGet, "/api/recipes", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"recipes":[]`)
	})

	t.Run("store error", func(t *testing.T) {
		h, svc := newTestRecipeHandler(t, false)
		svc.On("GetRecipes", mock.Anything).Return(nil, errors.New("database error"))

		rec := httptest.NewRecorder()
		h.List(rec, httptest.NewRequest(http.MethodGet, "/api/recipes", nil))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, "Internal server error", decodeMessage(t, rec.Body.Bytes()))
	})
}

func TestRecipe_Get(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		h, svc := newTestRecipeHandler(t, false)
		svc.On("GetRecipe", mock.Anything, recipeID).Return(model.Recipe{ID: recipeID, Title: "Soup"}, nil)

		req := mux.SetURLVars(httptest.NewRequest(http.MethodGet, "/api/recipes/"+recipeID.String(), nil),
			map[string]string{"id": recipeID.String()})
		rec := httptest.NewRecorder()
		h.Get(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var resp recipeResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "Soup", resp.Title)
	})

	t.Run("not found", func(t *testing.T) {
		h, svc := newTestRecipeHandler(t, false)
		svc.On("GetRecipe", mock.Anything, recipeID).Return(model.Recipe{}, model.ErrNotFound)

		req := mux.SetURLVars(httptest.NewRequest(http.MethodGet, "/", nil), map[string]string{"id": recipeID.String()})
		rec := httptest.NewRecorder()
		h.Get(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "Recipe not found!", decodeMessage(t, rec.Body.Bytes()))
	})

	t.Run("malformed id", func(t *testing.T) {
		h, _ := newTestRecipeHandler(t, false)

		req := mux.SetURLVars(httptest.NewRequest(http.MethodGet, "/", nil), map[string]string{"id": "123"})
		rec := httptest.NewRecorder()
		h.Get(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestRecipe_Delete(t *testing.T) {
	tests := []struct {
		name       string
		pathID     string
		serviceErr error
		callsSvc   bool
		wantStatus int
		wantMsg    string
	}{
		{name: "owner", pathID: recipeID.String(), callsSvc: true, wantStatus: http.StatusOK, wantMsg: "Delete successful!"},
		{name: "not owner", pathID: recipeID.String(), serviceErr: model.ErrNotAuthorized, callsSvc: true, wantStatus: http.StatusUnauthorized, wantMsg: "Not authorized!"},
		{name: "malformed id", pathID: "nope", wantStatus: http.StatusUnauthorized, wantMsg: "Not authorized!"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, svc := newTestRecipeHandler(t, false)
			if tt.callsSvc {
				svc.On("DeleteRecipe", mock.Anything, ownerID, recipeID).Return(tt.serviceErr)
			}

			req := httptest.NewRequest(http.MethodDelete, "/api/recipes/"+tt.pathID, nil)
			req = mux.SetURLVars(withUser(req, ownerID), map[string]string{"id": tt.pathID})
			rec := httptest.NewRecorder()

			h.Delete(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantMsg, decodeMessage(t, rec.Body.Bytes()))
		})
	}
}
