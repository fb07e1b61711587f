package service

import (
	"context"
	"errors"
	"time"

	"github.com/tastebook/tastebook/internal/constants"
	"github.com/tastebook/tastebook/internal/models"
	"github.com/tastebook/tastebook/internal/utils"
)

// In-memory fakes for testing

type MockUserRepository struct {
	users        map[int64]*models.User
	usersByEmail map[string]*models.User
	nextID       int64
}

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		users:        make(map[int64]*models.User),
		usersByEmail: make(map[string]*models.User),
		nextID:       1,
	}
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	if _, ok := m.usersByEmail[user.Email]; ok {
		return utils.NewDuplicateError("User", "email", user.Email)
	}
	user.ID = m.nextID
	m.nextID++

	m.users[user.ID] = user
	m.usersByEmail[user.Email] = user

	return nil
}

func (m *MockUserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	user, ok := m.users[id]
	if !ok {
		return nil, utils.NewNotFoundError("User", id)
	}
	copied := *user
	return &copied, nil
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	user, ok := m.usersByEmail[email]
	if !ok {
		return nil, utils.NewNotFoundError("User", email)
	}
	copied := *user
	return &copied, nil
}

func (m *MockUserRepository) Update(ctx context.Context, user *models.User) error {
	existing, ok := m.users[user.ID]
	if !ok {
		return utils.NewNotFoundError("User", user.ID)
	}

	delete(m.usersByEmail, existing.Email)
	copied := *user
	m.users[user.ID] = &copied
	m.usersByEmail[user.Email] = &copied

	return nil
}

func (m *MockUserRepository) ChangePassword(ctx context.Context, id int64, passwordHash, salt string) error {
	user, ok := m.users[id]
	if !ok {
		return utils.NewNotFoundError("User", id)
	}
	user.PasswordHash = passwordHash
	user.Salt = salt
	return nil
}

func (m *MockUserRepository) ExistsByID(ctx context.Context, id int64) (bool, error) {
	_, ok := m.users[id]
	return ok, nil
}

func (m *MockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, ok := m.usersByEmail[email]
	return ok, nil
}

func (m *MockUserRepository) SetResetToken(ctx context.Context, id int64, tokenHash string, expiry time.Time) error {
	user, ok := m.users[id]
	if !ok {
		return utils.NewNotFoundError("User", id)
	}
	user.ResetTokenHash = &tokenHash
	user.ResetTokenExpiry = &expiry
	return nil
}

func (m *MockUserRepository) ClearResetToken(ctx context.Context, id int64) error {
	user, ok := m.users[id]
	if !ok {
		return utils.NewNotFoundError("User", id)
	}
	user.ResetTokenHash = nil
	user.ResetTokenExpiry = nil
	return nil
}

func (m *MockUserRepository) GetByResetTokenHash(ctx context.Context, tokenHash string, now time.Time) (*models.User, error) {
	for _, user := range m.users {
		if user.ResetTokenHash != nil && *user.ResetTokenHash == tokenHash &&
			user.ResetTokenExpiry != nil && user.ResetTokenExpiry.After(now) {
			copied := *user
			return &copied, nil
		}
	}
	return nil, utils.NewBadRequestError(constants.MsgResetTokenInvalid)
}

func (m *MockUserRepository) ResetPassword(ctx context.Context, id int64, passwordHash, salt string) error {
	user, ok := m.users[id]
	if !ok {
		return utils.NewNotFoundError("User", id)
	}
	user.PasswordHash = passwordHash
	user.Salt = salt
	user.ResetTokenHash = nil
	user.ResetTokenExpiry = nil
	return nil
}

type likeKey struct {
	recipeID int64
	userID   int64
}

type MockRecipeRepository struct {
	recipes map[int64]*models.Recipe
	likes   map[likeKey]bool
	nextID  int64
}

func NewMockRecipeRepository() *MockRecipeRepository {
	return &MockRecipeRepository{
		recipes: make(map[int64]*models.Recipe),
		likes:   make(map[likeKey]bool),
		nextID:  1,
	}
}

func (m *MockRecipeRepository) Create(ctx context.Context, recipe *models.Recipe) error {
	recipe.ID = m.nextID
	m.nextID++
	copied := *recipe
	m.recipes[recipe.ID] = &copied
	return nil
}

func (m *MockRecipeRepository) GetByID(ctx context.Context, id int64) (*models.Recipe, error) {
	recipe, ok := m.recipes[id]
	if !ok {
		return nil, utils.NewNotFoundError("Recipe", id)
	}
	copied := *recipe
	copied.LikedBy = nil
	for key := range m.likes {
		if key.recipeID == id {
			copied.LikedBy = append(copied.LikedBy, key.userID)
		}
	}
	return &copied, nil
}

func (m *MockRecipeRepository) List(ctx context.Context, offset, limit int) ([]*models.Recipe, int, error) {
	all := m.all()
	if offset > len(all) {
		offset = len(all)
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], len(all), nil
}

func (m *MockRecipeRepository) ListNewest(ctx context.Context, limit int) ([]*models.Recipe, error) {
	all := m.all()
	if limit < len(all) {
		all = all[:limit]
	}
	return all, nil
}

func (m *MockRecipeRepository) ListByOwner(ctx context.Context, ownerID int64) ([]*models.Recipe, error) {
	var out []*models.Recipe
	for _, r := range m.all() {
		if r.OwnerID == ownerID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *MockRecipeRepository) Search(ctx context.Context, term string, offset, limit int) ([]*models.Recipe, int, error) {
	return m.List(ctx, offset, limit)
}

func (m *MockRecipeRepository) Update(ctx context.Context, recipe *models.Recipe) error {
	if _, ok := m.recipes[recipe.ID]; !ok {
		return utils.NewNotFoundError("Recipe", recipe.ID)
	}
	copied := *recipe
	m.recipes[recipe.ID] = &copied
	return nil
}

func (m *MockRecipeRepository) Delete(ctx context.Context, id int64) error {
	if _, ok := m.recipes[id]; !ok {
		return utils.NewNotFoundError("Recipe", id)
	}
	delete(m.recipes, id)
	for key := range m.likes {
		if key.recipeID == id {
			delete(m.likes, key)
		}
	}
	return nil
}

func (m *MockRecipeRepository) UpdatePhoto(ctx context.Context, id int64, photo string) error {
	recipe, ok := m.recipes[id]
	if !ok {
		return utils.NewNotFoundError("Recipe", id)
	}
	recipe.Photo = photo
	return nil
}

func (m *MockRecipeRepository) Like(ctx context.Context, recipeID, userID int64) error {
	recipe, ok := m.recipes[recipeID]
	if !ok {
		return utils.NewNotFoundError("Recipe", recipeID)
	}
	key := likeKey{recipeID: recipeID, userID: userID}
	if m.likes[key] {
		return utils.NewConflictError(constants.MsgAlreadyLiked)
	}
	m.likes[key] = true
	recipe.Likes++
	return nil
}

func (m *MockRecipeRepository) Unlike(ctx context.Context, recipeID, userID int64) error {
	recipe, ok := m.recipes[recipeID]
	if !ok {
		return utils.NewNotFoundError("Recipe", recipeID)
	}
	key := likeKey{recipeID: recipeID, userID: userID}
	if !m.likes[key] {
		return utils.NewConflictError(constants.MsgNotLiked)
	}
	delete(m.likes, key)
	recipe.Likes--
	return nil
}

func (m *MockRecipeRepository) ListTopLiked(ctx context.Context, limit int) ([]*models.Recipe, error) {
	all := m.all()
	for i := 0; i < len(all); i++ {
		for j := i + 1; j < len(all); j++ {
			if all[j].Likes > all[i].Likes {
				all[i], all[j] = all[j], all[i]
			}
		}
	}
	if limit < len(all) {
		all = all[:limit]
	}
	return all, nil
}

func (m *MockRecipeRepository) ListLikedBy(ctx context.Context, userID int64) ([]*models.Recipe, error) {
	var out []*models.Recipe
	for key := range m.likes {
		if key.userID == userID {
			if recipe, ok := m.recipes[key.recipeID]; ok {
				copied := *recipe
				out = append(out, &copied)
			}
		}
	}
	return out, nil
}

func (m *MockRecipeRepository) all() []*models.Recipe {
	out := make([]*models.Recipe, 0, len(m.recipes))
	for _, r := range m.recipes {
		copied := *r
		out = append(out, &copied)
	}
	return out
}

// MockEmailSender records sendPasswordResetEmail calls and can be told to fail.
type MockEmailSender struct {
	sent     []string
	lastURL  string
	failWith error
}

func (m *MockEmailSender) SendPasswordResetEmail(toEmail, toName, resetURL string) error {
	if m.failWith != nil {
		return m.failWith
	}
	m.sent = append(m.sent, toEmail)
	m.lastURL = resetURL
	return nil
}

var errSMTPDown = errors.New("email provider unavailable")
