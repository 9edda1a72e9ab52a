package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"frutolandia/internal/service"
)

const maxImageBytes = 5 << 20

type createProductRequest struct {
	Name          string  `json:"name" binding:"required,min=2,max=100"`
	Price         float64 `json:"price" binding:"required,gte=0.01"`
	Ingredients   string  `json:"ingredients" binding:"max=500"`
	Description   string  `json:"description" binding:"max=1000"`
	StockQuantity int     `json:"stockQuantity" binding:"gte=0"`
}

type updateProductRequest struct {
	Name          *string  `json:"name" binding:"omitempty,min=2,max=100"`
	Price         *float64 `json:"price" binding:"omitempty,gte=0.01"`
	Ingredients   *string  `json:"ingredients" binding:"omitempty,max=500"`
	Description   *string  `json:"description" binding:"omitempty,max=1000"`
	StockQuantity *int     `json:"stockQuantity" binding:"omitempty,gte=0"`
}

func (h *Handler) listProducts(c *gin.Context) {
	products, err := h.products.List(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, productsToResponse(products))
}

func (h *Handler) searchProducts(c *gin.Context) {
	name, ok := c.GetQuery("name")
	if !ok {
		c.JSON(http.StatusBadRequest, newErrorResponse(c, http.StatusBadRequest, "query parameter name is required"))
		return
	}
	products, err := h.products.Search(c.Request.Context(), name)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, productsToResponse(products))
}

func (h *Handler) getProduct(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	product, err := h.products.Get(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, productToResponse(*product))
}

func (h *Handler) createProduct(c *gin.Context) {
	var req createProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeBindError(c, err)
		return
	}

	product, err := h.products.Create(c.Request.Context(), service.ProductInput{
		Name:          req.Name,
		Price:         req.Price,
		Ingredients:   req.Ingredients,
		Description:   req.Description,
		StockQuantity: req.StockQuantity,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, productToResponse(*product))
}

func (h *Handler) updateProduct(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req updateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeBindError(c, err)
		return
	}

	product, err := h.products.Update(c.Request.Context(), id, service.ProductPatch{
		Name:          req.Name,
		Price:         req.Price,
		Ingredients:   req.Ingredients,
		Description:   req.Description,
		StockQuantity: req.StockQuantity,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, productToResponse(*product))
}

func (h *Handler) deleteProduct(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := h.products.Delete(c.Request.Context(), id); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) uploadProductImage(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	fh, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, newErrorResponse(c, http.StatusBadRequest, "multipart field image is required"))
		return
	}
	if fh.Size > maxImageBytes {
		c.JSON(http.StatusBadRequest, newErrorResponse(c, http.StatusBadRequest, "image exceeds 5MB"))
		return
	}

	file, err := fh.Open()
	if err != nil {
		h.writeError(c, err)
		return
	}
	defer file.Close()

	product, err := h.products.SetImage(c.Request.Context(), id, service.ImageUpload{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Body:        file,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, productToResponse(*product))
}

func (h *Handler) productImageURL(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	url, err := h.products.ImageURL(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url})
}
