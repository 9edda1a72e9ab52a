package http

import (
	"time"

	"frutolandia/internal/domain"
	"frutolandia/internal/service"
)

type AuthResponse struct {
	Token string      `json:"token"`
	Type  string      `json:"type"`
	ID    int64       `json:"id"`
	Email string      `json:"email"`
	Name  string      `json:"name"`
	Role  domain.Role `json:"role"`
}

type UserResponse struct {
	ID        int64       `json:"id"`
	Email     string      `json:"email"`
	Name      string      `json:"name"`
	Role      domain.Role `json:"role"`
	CreatedAt string      `json:"createdAt,omitempty"`
}

type VerifyResponse struct {
	Valid bool         `json:"valid"`
	User  UserResponse `json:"user"`
}

type ProductResponse struct {
	ID            int64   `json:"id"`
	Name          string  `json:"name"`
	Price         float64 `json:"price"`
	Ingredients   string  `json:"ingredients"`
	Description   string  `json:"description"`
	StockQuantity int     `json:"stockQuantity"`
	HasImage      bool    `json:"hasImage"`
}

type CartItemResponse struct {
	ID       int64           `json:"id"`
	Product  ProductResponse `json:"product"`
	Quantity int             `json:"quantity"`
}

func authToResponse(res *service.AuthResult) AuthResponse {
	return AuthResponse{
		Token: res.Token,
		Type:  "Bearer",
		ID:    res.User.ID,
		Email: res.User.Email,
		Name:  res.User.Name,
		Role:  res.User.Role,
	}
}

func userToResponse(user domain.User) UserResponse {
	resp := UserResponse{
		ID:    user.ID,
		Email: user.Email,
		Name:  user.Name,
		Role:  user.Role,
	}
	if !user.CreatedAt.IsZero() {
		resp.CreatedAt = user.CreatedAt.Format(time.RFC3339)
	}
	return resp
}

func productToResponse(p domain.Product) ProductResponse {
	return ProductResponse{
		ID:            p.ID,
		Name:          p.Name,
		Price:         p.Price,
		Ingredients:   p.Ingredients,
		Description:   p.Description,
		StockQuantity: p.StockQuantity,
		HasImage:      p.ImageKey != "",
	}
}

func productsToResponse(products []domain.Product) []ProductResponse {
	resp := make([]ProductResponse, len(products))
	for i := range products {
		resp[i] = productToResponse(products[i])
	}
	return resp
}

func cartLineToResponse(line domain.CartLine) CartItemResponse {
	return CartItemResponse{
		ID:       line.ID,
		Product:  productToResponse(line.Product),
		Quantity: line.Quantity,
	}
}
