package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *Handler) listFavorites(c *gin.Context) {
	products, err := h.favorites.List(c.Request.Context(), claimsFrom(c).Email())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, productsToResponse(products))
}

func (h *Handler) addFavorite(c *gin.Context) {
	productID, ok := h.pathID(c, "productId")
	if !ok {
		return
	}

	product, err := h.favorites.Add(c.Request.Context(), claimsFrom(c).Email(), productID)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, productToResponse(*product))
}

func (h *Handler) removeFavorite(c *gin.Context) {
	productID, ok := h.pathID(c, "productId")
	if !ok {
		return
	}

	if err := h.favorites.Remove(c.Request.Context(), claimsFrom(c).Email(), productID); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
