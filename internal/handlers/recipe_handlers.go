package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/tastebook/tastebook/internal/auth"
	"github.com/tastebook/tastebook/internal/constants"
	"github.com/tastebook/tastebook/internal/models"
	"github.com/tastebook/tastebook/internal/utils"
)

// RecipeHandler handles recipe CRUD, search and photo upload routes.
type RecipeHandler struct {
	recipeService RecipeManager
}

// NewRecipeHandler creates a new RecipeHandler
func NewRecipeHandler(recipeService RecipeManager) *RecipeHandler {
	if recipeService == nil {
		panic("recipeService cannot be nil")
	}
	return &RecipeHandler{
		recipeService: recipeService,
	}
}

// recipeIDFromURL extracts and parses the recipe ID path parameter.
func recipeIDFromURL(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, constants.ParamRecipeID)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, utils.NewBadRequestError("Invalid recipe ID")
	}
	return id, nil
}

// List returns a page of recipes, or of search results when the search query
// parameter is present.
func (h *RecipeHandler) List(w http.ResponseWriter, r *http.Request) {
	params := utils.GetPaginationParams(r)

	var (
		recipes []*models.Recipe
		total   int
		err     error
	)

	if term := r.URL.Query().Get(constants.QueryParamSearch); term != "" {
		recipes, total, err = h.recipeService.SearchRecipes(r.Context(), term, params.Page, params.PageSize)
	} else {
		recipes, total, err = h.recipeService.ListRecipes(r.Context(), params.Page, params.PageSize)
	}
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	utils.Paginated(w, http.StatusOK, recipes, params.Page, params.PageSize, total)
}

// Newest returns the most recently added recipes.
func (h *RecipeHandler) Newest(w http.ResponseWriter, r *http.Request) {
	recipes, err := h.recipeService.ListNewest(r.Context(), constants.DefaultPageSize)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	utils.JSON(w, http.StatusOK, recipes)
}

// Get returns a single recipe by ID
func (h *RecipeHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := recipeIDFromURL(r)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	recipe, err := h.recipeService.GetRecipe(r.Context(), id)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	utils.JSON(w, http.StatusOK, recipe)
}

// Create creates a recipe owned by the authenticated user
func (h *RecipeHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserID(r)
	if !ok {
		utils.Unauthorized(w, "")
		return
	}

	var create models.RecipeCreate
	if err := utils.DecodeAndValidate(r, &create); err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	recipe, err := h.recipeService.CreateRecipe(r.Context(), userID, &create)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	utils.JSON(w, http.StatusCreated, recipe)
}

// Update modifies a recipe the authenticated user owns
func (h *RecipeHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserID(r)
	if !ok {
		utils.Unauthorized(w, "")
		return
	}

	id, err := recipeIDFromURL(r)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	var update models.RecipeUpdate
	if err := utils.DecodeAndValidate(r, &update); err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	recipe, err := h.recipeService.UpdateRecipe(r.Context(), id, userID, &update)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	utils.JSON(w, http.StatusOK, recipe)
}

// Delete removes a recipe the authenticated user owns
func (h *RecipeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserID(r)
	if !ok {
		utils.Unauthorized(w, "")
		return
	}

	id, err := recipeIDFromURL(r)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	if err := h.recipeService.DeleteRecipe(r.Context(), id, userID); err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	utils.NoContent(w)
}

// MyRecipes returns the authenticated user's own recipes
func (h *RecipeHandler) MyRecipes(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserID(r)
	if !ok {
		utils.Unauthorized(w, "")
		return
	}

	recipes, err := h.recipeService.ListByOwner(r.Context(), userID)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	utils.JSON(w, http.StatusOK, recipes)
}

// UploadPhoto stores a photo for a recipe the authenticated user owns.
// Expects a multipart form with the file under the "photo" field.
func (h *RecipeHandler) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserID(r)
	if !ok {
		utils.Unauthorized(w, "")
		return
	}

	id, err := recipeIDFromURL(r)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, constants.MaxPhotoUploadSize+constants.MaxRequestBodySize)
	if err := r.ParseMultipartForm(constants.MaxPhotoUploadSize); err != nil {
		utils.ErrorFromAppError(w, utils.NewBadRequestError("Invalid multipart form"))
		return
	}

	file, header, err := r.FormFile("photo")
	if err != nil {
		utils.ErrorFromAppError(w, utils.NewBadRequestError("Photo file is required"))
		return
	}
	defer file.Close()

	filename, err := h.recipeService.UploadPhoto(r.Context(), id, userID, file, header)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	utils.JSON(w, http.StatusOK, map[string]string{"photo": filename})
}
