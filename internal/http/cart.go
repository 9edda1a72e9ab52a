package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type addCartItemRequest struct {
	ProductID int64 `json:"productId" binding:"required"`
	Quantity  *int  `json:"quantity" binding:"required"`
}

type updateCartItemRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

func (h *Handler) getCart(c *gin.Context) {
	claims := claimsFrom(c)
	lines, err := h.cart.List(c.Request.Context(), claims.UserID)
	if err != nil {
		h.writeError(c, err)
		return
	}

	resp := make([]CartItemResponse, len(lines))
	for i := range lines {
		resp[i] = cartLineToResponse(lines[i])
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) addToCart(c *gin.Context) {
	var req addCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeBindError(c, err)
		return
	}

	claims := claimsFrom(c)
	line, err := h.cart.Add(c.Request.Context(), claims.UserID, req.ProductID, *req.Quantity)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, cartLineToResponse(*line))
}

func (h *Handler) updateCartItem(c *gin.Context) {
	productID, ok := h.pathID(c, "productId")
	if !ok {
		return
	}
	var req updateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeBindError(c, err)
		return
	}

	claims := claimsFrom(c)
	line, err := h.cart.Update(c.Request.Context(), claims.UserID, productID, *req.Quantity)
	if err != nil {
		h.writeError(c, err)
		return
	}
	if line == nil {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusOK, cartLineToResponse(*line))
}

func (h *Handler) removeFromCart(c *gin.Context) {
	productID, ok := h.pathID(c, "productId")
	if !ok {
		return
	}

	claims := claimsFrom(c)
	if err := h.cart.Remove(c.Request.Context(), claims.UserID, productID); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) clearCart(c *gin.Context) {
	claims := claimsFrom(c)
	if err := h.cart.Clear(c.Request.Context(), claims.UserID); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// pathID parses a positive integer path parameter, writing a 400 when it is not one.
func (h *Handler) pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, newErrorResponse(c, http.StatusBadRequest, "invalid "+name))
		return 0, false
	}
	return id, true
}
