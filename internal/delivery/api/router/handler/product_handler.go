package handler

import (
	"net/http"

	"majicmall/internal/delivery/api/response"
	deliverycontext "majicmall/internal/delivery/context"
	"majicmall/internal/errors"
	"majicmall/internal/usecase"

	"github.com/labstack/echo/v4"
)

// ProductHandler manages the products of the active store.
type ProductHandler struct {
	uc usecase.ProductUsecase
}

func NewProductHandler(uc usecase.ProductUsecase) *ProductHandler {
	return &ProductHandler{uc: uc}
}

func (h *ProductHandler) ListProducts(c echo.Context) error {
	products, err := h.uc.ListProducts(c.Request().Context(), deliverycontext.GetStore(c))
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, newProductViews(products))
}

func (h *ProductHandler) GetProduct(c echo.Context) error {
	productID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	product, err := h.uc.GetProduct(c.Request().Context(), deliverycontext.GetStore(c), productID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, newProductView(product))
}

func (h *ProductHandler) CreateProduct(c echo.Context) error {
	var input usecase.ProductInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "Invalid product input")
	}
	if err := c.Validate(&input); err != nil {
		return errors.WithStack(err)
	}

	product, err := h.uc.CreateProduct(c.Request().Context(), deliverycontext.GetStore(c), &input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.SuccessWithMessage(c, http.StatusCreated, newProductView(product), "Product created")
}

func (h *ProductHandler) UpdateProduct(c echo.Context) error {
	productID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var input usecase.ProductInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "Invalid product input")
	}
	if err := c.Validate(&input); err != nil {
		return errors.WithStack(err)
	}

	product, err := h.uc.UpdateProduct(c.Request().Context(), deliverycontext.GetStore(c), productID, &input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.SuccessWithMessage(c, http.StatusOK, newProductView(product), "Product updated")
}

// DeleteProduct is rejected with PRODUCT_IN_USE while orders reference the product.
func (h *ProductHandler) DeleteProduct(c echo.Context) error {
	productID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	if err := h.uc.DeleteProduct(c.Request().Context(), deliverycontext.GetStore(c), productID); err != nil {
		return errors.WithStack(err)
	}

	return c.NoContent(http.StatusNoContent)
}

// UploadImage replaces the product image from the "image" form file.
func (h *ProductHandler) UploadImage(c echo.Context) error {
	productID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	upload, err := readUpload(c, "image")
	if err != nil {
		return err
	}

	product, err := h.uc.UploadProductImage(c.Request().Context(), deliverycontext.GetStore(c), productID, upload)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.SuccessWithMessage(c, http.StatusOK, newProductView(product), "Image uploaded")
}
