package http

import (
	"net/http"

	"github.com/aussiebroadwan/storefront/internal/storefront/service"
	"github.com/aussiebroadwan/storefront/pkg/httpx"
	"github.com/aussiebroadwan/storefront/pkg/storesdk"
)

type ProductHandler struct {
	ProductService *service.ProductService
}

// HandleCreate adds a product owned by the calling admin.
//
//	@Summary	Create product
//	@Tags		Products
//	@Accept		json
//	@Produce	json
//	@Param		body	body		storesdk.CreateProductRequest	true	"title, content, price"
//	@Success	201		{object}	storesdk.ProductResponse
//	@Failure	400		{object}	httpx.ErrorBody
//	@Failure	401		{object}	httpx.ErrorBody
//	@Security	CookieAuth
//	@Router		/api/v1/products/new [post].
func (h *ProductHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req storesdk.CreateProductRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeServiceError(w, r, err)
		return
	}

	p, err := h.ProductService.Create(r.Context(), actor.ID, service.CreateProductInput{
		Title:   req.Title,
		Content: req.Content,
		Price:   req.Price,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toProductResponse(p))
}

// HandleList returns the whole catalogue, newest first.
//
//	@Summary	List products
//	@Tags		Products
//	@Produce	json
//	@Success	200	{array}	storesdk.ProductResponse
//	@Router		/api/v1/products/all [get].
func (h *ProductHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ps, err := h.ProductService.List(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toProductList(ps))
}

// HandleListByOwner returns one owner's products.
//
//	@Summary	List products by owner
//	@Tags		Products
//	@Produce	json
//	@Param		ownerId	path	string	true	"Owner user ID"
//	@Success	200		{array}	storesdk.ProductResponse
//	@Failure	401		{object}	httpx.ErrorBody
//	@Security	CookieAuth
//	@Router		/api/v1/products/all/{ownerId} [get].
func (h *ProductHandler) HandleListByOwner(w http.ResponseWriter, r *http.Request) {
	ps, err := h.ProductService.ListByOwner(r.Context(), r.PathValue("ownerId"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toProductList(ps))
}

// HandleGet returns one product.
//
//	@Summary	Get product
//	@Tags		Products
//	@Produce	json
//	@Param		id	path		string	true	"Product ID"
//	@Success	200	{object}	storesdk.ProductResponse
//	@Failure	404	{object}	httpx.ErrorBody	"Product not found"
//	@Router		/api/v1/products/{id} [get].
func (h *ProductHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	p, err := h.ProductService.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toProductResponse(p))
}

// HandleUpdate changes a product's title, content or price.
//
//	@Summary	Update product
//	@Tags		Products
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string							true	"Product ID"
//	@Param		body	body		storesdk.UpdateProductRequest	true	"title, content, price"
//	@Success	200		{object}	storesdk.ProductResponse
//	@Failure	400		{object}	httpx.ErrorBody
//	@Failure	401		{object}	httpx.ErrorBody
//	@Failure	404		{object}	httpx.ErrorBody
//	@Security	CookieAuth
//	@Router		/api/v1/products/edit/{id} [patch].
func (h *ProductHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req storesdk.UpdateProductRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeServiceError(w, r, err)
		return
	}

	p, err := h.ProductService.Update(r.Context(), r.PathValue("id"), service.UpdateProductInput{
		Title:   req.Title,
		Content: req.Content,
		Price:   req.Price,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toProductResponse(p))
}

// HandleDelete removes a product.
//
//	@Summary	Delete product
//	@Tags		Products
//	@Produce	json
//	@Param		id	path		string	true	"Product ID"
//	@Success	200	{object}	storesdk.MessageResponse
//	@Failure	401	{object}	httpx.ErrorBody
//	@Failure	404	{object}	httpx.ErrorBody
//	@Security	CookieAuth
//	@Router		/api/v1/products/delete/{id} [delete].
func (h *ProductHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.ProductService.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, storesdk.MessageResponse{Message: "Product deleted"})
}
