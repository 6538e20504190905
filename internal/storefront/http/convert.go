package http

import (
	"github.com/aussiebroadwan/storefront/internal/storefront/domain"
	"github.com/aussiebroadwan/storefront/pkg/storesdk"
)

func toUserResponse(u domain.User) storesdk.UserResponse {
	return storesdk.UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt.UTC().Format(storesdk.DateLayout),
		UpdatedAt: u.UpdatedAt.UTC().Format(storesdk.DateLayout),
	}
}

func toUserSummary(u domain.UserWithProducts) storesdk.UserSummary {
	refs := make([]storesdk.ProductRef, len(u.Products))
	for i, p := range u.Products {
		refs[i] = storesdk.ProductRef{ID: p.ID, Title: p.Title}
	}
	return storesdk.UserSummary{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt.UTC(),
		UpdatedAt: u.UpdatedAt.UTC(),
		Products:  refs,
	}
}

// toProductResponse renders a single product, including its owner id.
func toProductResponse(p domain.ProductWithOwner) storesdk.ProductResponse {
	out := toProductListItem(p)
	out.OwnerID = p.OwnerID
	return out
}

// toProductListItem renders a catalogue entry; the owner is shown by name and
// email only.
func toProductListItem(p domain.ProductWithOwner) storesdk.ProductResponse {
	return storesdk.ProductResponse{
		ID:        p.ID,
		Title:     p.Title,
		Content:   p.Content,
		Price:     p.Price,
		Owner:     &storesdk.Owner{Email: p.Owner.Email, Name: p.Owner.Name},
		CreatedAt: p.CreatedAt.UTC(),
		UpdatedAt: p.UpdatedAt.UTC(),
	}
}

func toProductList(ps []domain.ProductWithOwner) []storesdk.ProductResponse {
	out := make([]storesdk.ProductResponse, len(ps))
	for i, p := range ps {
		out[i] = toProductListItem(p)
	}
	return out
}
