package handlers

import (
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/mock"

	"github.com/tastebook/tastebook/internal/auth"
	"github.com/tastebook/tastebook/internal/constants"
	"github.com/tastebook/tastebook/internal/models"
)

// MockAuthManager is a mock implementation of AuthManager
type MockAuthManager struct {
	mock.Mock
}

func (m *MockAuthManager) RegisterUser(ctx context.Context, reg *models.UserRegistration) (*models.User, string, error) {
	args := m.Called(ctx, reg)
	if args.Get(0) == nil {
		return nil, "", args.Error(2)
	}
	return args.Get(0).(*models.User), args.String(1), args.Error(2)
}

func (m *MockAuthManager) AuthenticateUser(ctx context.Context, creds *models.UserCredentials) (*models.User, string, error) {
	args := m.Called(ctx, creds)
	if args.Get(0) == nil {
		return nil, "", args.Error(2)
	}
	return args.Get(0).(*models.User), args.String(1), args.Error(2)
}

func (m *MockAuthManager) GetCurrentUser(ctx context.Context, userID int64) (*models.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockAuthManager) UpdateDetails(ctx context.Context, userID int64, update *models.UserUpdate) (*models.User, error) {
	args := m.Called(ctx, userID, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockAuthManager) UpdatePassword(ctx context.Context, userID int64, update *models.PasswordUpdate) (string, error) {
	args := m.Called(ctx, userID, update)
	return args.String(0), args.Error(1)
}

// MockPasswordResetManager is a mock implementation of PasswordResetManager
type MockPasswordResetManager struct {
	mock.Mock
}

func (m *MockPasswordResetManager) RequestReset(ctx context.Context, email string) error {
	args := m.Called(ctx, email)
	return args.Error(0)
}

func (m *MockPasswordResetManager) ConsumeReset(ctx context.Context, token, newPassword string) (*models.User, string, error) {
	args := m.Called(ctx, token, newPassword)
	if args.Get(0) == nil {
		return nil, "", args.Error(2)
	}
	return args.Get(0).(*models.User), args.String(1), args.Error(2)
}

// MockRecipeManager is a mock implementation of RecipeManager
type MockRecipeManager struct {
	mock.Mock
}

func (m *MockRecipeManager) CreateRecipe(ctx context.Context, ownerID int64, create *models.RecipeCreate) (*models.Recipe, error) {
	args := m.Called(ctx, ownerID, create)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Recipe), args.Error(1)
}

func (m *MockRecipeManager) GetRecipe(ctx context.Context, id int64) (*models.Recipe, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Recipe), args.Error(1)
}

func (m *MockRecipeManager) ListRecipes(ctx context.Context, page, pageSize int) ([]*models.Recipe, int, error) {
	args := m.Called(ctx, page, pageSize)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*models.Recipe), args.Int(1), args.Error(2)
}

func (m *MockRecipeManager) SearchRecipes(ctx context.Context, term string, page, pageSize int) ([]*models.Recipe, int, error) {
	args := m.Called(ctx, term, page, pageSize)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*models.Recipe), args.Int(1), args.Error(2)
}

func (m *MockRecipeManager) ListNewest(ctx context.Context, limit int) ([]*models.Recipe, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Recipe), args.Error(1)
}

func (m *MockRecipeManager) ListByOwner(ctx context.Context, ownerID int64) ([]*models.Recipe, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Recipe), args.Error(1)
}

func (m *MockRecipeManager) UpdateRecipe(ctx context.Context, id, callerID int64, update *models.RecipeUpdate) (*models.Recipe, error) {
	args := m.Called(ctx, id, callerID, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Recipe), args.Error(1)
}

func (m *MockRecipeManager) DeleteRecipe(ctx context.Context, id, callerID int64) error {
	args := m.Called(ctx, id, callerID)
	return args.Error(0)
}

func (m *MockRecipeManager) UploadPhoto(ctx context.Context, id, callerID int64, file multipart.File, header *multipart.FileHeader) (string, error) {
	args := m.Called(ctx, id, callerID, file, header)
	return args.String(0), args.Error(1)
}

func (m *MockRecipeManager) LikeRecipe(ctx context.Context, recipeID, userID int64) (*models.Recipe, error) {
	args := m.Called(ctx, recipeID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Recipe), args.Error(1)
}

func (m *MockRecipeManager) UnlikeRecipe(ctx context.Context, recipeID, userID int64) (*models.Recipe, error) {
	args := m.Called(ctx, recipeID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Recipe), args.Error(1)
}

func (m *MockRecipeManager) TopLiked(ctx context.Context, limit int) ([]*models.Recipe, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Recipe), args.Error(1)
}

func (m *MockRecipeManager) LikedBy(ctx context.Context, userID int64) ([]*models.Recipe, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Recipe), args.Error(1)
}

// withAuthenticatedUser binds an authenticated identity to the request the
// way the auth middleware does.
func withAuthenticatedUser(r *http.Request, userID int64) *http.Request {
	ctx := context.WithValue(r.Context(), auth.UserIDContextKey, userID)
	ctx = context.WithValue(ctx, auth.UserNameContextKey, "Test User")
	ctx = context.WithValue(ctx, auth.EmailContextKey, "test@example.com")
	return r.WithContext(ctx)
}

// withRecipeIDParam binds a recipe ID path parameter the way the chi router
// does.
func withRecipeIDParam(r *http.Request, id int64) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(constants.ParamRecipeID, strconv.FormatInt(id, 10))
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// withResetTokenParam binds a reset token path parameter.
func withResetTokenParam(r *http.Request, token string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(constants.ParamResetToken, token)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// doRequest runs a handler function and returns the recorder.
func doRequest(handler http.HandlerFunc, r *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	handler(rec, r)
	return rec
}
