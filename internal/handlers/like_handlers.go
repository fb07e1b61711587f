package handlers

import (
	"net/http"

	"github.com/tastebook/tastebook/internal/auth"
	"github.com/tastebook/tastebook/internal/constants"
	"github.com/tastebook/tastebook/internal/utils"
)

// LikeHandler handles the like/unlike protocol and like-based listings.
type LikeHandler struct {
	recipeService RecipeManager
}

// NewLikeHandler creates a new LikeHandler
func NewLikeHandler(recipeService RecipeManager) *LikeHandler {
	if recipeService == nil {
		panic("recipeService cannot be nil")
	}
	return &LikeHandler{
		recipeService: recipeService,
	}
}

// Like records a like by the authenticated user. Liking a recipe that is
// already liked returns a conflict.
func (h *LikeHandler) Like(w http.ResponseWriter, r *http.Request) {
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

	recipe, err := h.recipeService.LikeRecipe(r.Context(), id, userID)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	utils.JSON(w, http.StatusOK, recipe)
}

// Unlike removes the authenticated user's like. Unliking a recipe that was
// never liked returns a conflict.
func (h *LikeHandler) Unlike(w http.ResponseWriter, r *http.Request) {
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

	recipe, err := h.recipeService.UnlikeRecipe(r.Context(), id, userID)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	utils.JSON(w, http.StatusOK, recipe)
}

// TopLiked returns the most liked recipes
func (h *LikeHandler) TopLiked(w http.ResponseWriter, r *http.Request) {
	recipes, err := h.recipeService.TopLiked(r.Context(), constants.TopLikedLimit)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	utils.JSON(w, http.StatusOK, recipes)
}

// LikedRecipes returns the recipes the authenticated user has liked
func (h *LikeHandler) LikedRecipes(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserID(r)
	if !ok {
		utils.Unauthorized(w, "")
		return
	}

	recipes, err := h.recipeService.LikedBy(r.Context(), userID)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	utils.JSON(w, http.StatusOK, recipes)
}
