package handlers

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sort"
	"strconv"

	"github.com/linemk/shop-admin/internal/domain/models"
	"github.com/linemk/shop-admin/internal/forms"
)

const (
	productsPath   = "/admin/products"
	maxUploadBytes = 32 << 20
)

// ProductsHandler – каталог товаров
func ProductsHandler(web *Web, products ProductService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.ProductsHandler"

		list, err := products.List(r.Context(), principal(r).Token)
		if err != nil {
			if web.Expired(w, r, err) {
				return
			}
			web.Log.Error("failed to list products", slog.String("op", op), slog.Any("error", err))
			web.Render(w, r, http.StatusBadGateway, "products.html", map[string]any{"Error": UserMessage(err)})
			return
		}
		web.Render(w, r, http.StatusOK, "products.html", map[string]any{"Products": list})
	}
}

func NewProductPageHandler(web *Web) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		web.Render(w, r, http.StatusOK, "product_form.html", map[string]any{"Form": forms.ProductForm{}})
	}
}

// CreateProductHandler – добавление товара; после успеха форма очищается переходом к списку
func CreateProductHandler(web *Web, products ProductService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.CreateProductHandler"

		form, err := productForm(r)
		if err != nil {
			http.Error(w, "invalid form", http.StatusBadRequest)
			return
		}
		in, err := form.Input()
		if err != nil {
			form.Files = nil
			web.Render(w, r, http.StatusUnprocessableEntity, "product_form.html", map[string]any{
				"Form":       form,
				"FieldError": UserMessage(err),
			})
			return
		}

		p, err := products.Create(r.Context(), principal(r).Token, in)
		if err != nil {
			if web.Expired(w, r, err) {
				return
			}
			web.Log.Error("failed to create product", slog.String("op", op), slog.Any("error", err))
			form.Files = nil
			web.Render(w, r, http.StatusBadGateway, "product_form.html", map[string]any{
				"Form":  form,
				"Error": UserMessage(err),
			})
			return
		}
		web.Redirect(w, r, productsPath, FlashSuccess, fmt.Sprintf("Product %q created.", p.Name))
	}
}

func EditProductPageHandler(web *Web, products ProductService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := idParam(r)
		if !ok {
			http.Error(w, "invalid product id", http.StatusBadRequest)
			return
		}
		p, err := products.Get(r.Context(), principal(r).Token, id)
		if err != nil {
			web.Fail(w, r, err, productsPath)
			return
		}
		web.Render(w, r, http.StatusOK, "product_form.html", editData(forms.NewEditProductForm(p)))
	}
}

// UpdateProductHandler – сохранение товара: отмеченные изображения убираются
// из текущей галереи, новые файлы добавляются
func UpdateProductHandler(web *Web, products ProductService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.UpdateProductHandler"
		token := principal(r).Token

		id, ok := idParam(r)
		if !ok {
			http.Error(w, "invalid product id", http.StatusBadRequest)
			return
		}
		fields, err := productForm(r)
		if err != nil {
			http.Error(w, "invalid form", http.StatusBadRequest)
			return
		}
		current, err := products.Get(r.Context(), token, id)
		if err != nil {
			web.Fail(w, r, err, productsPath)
			return
		}

		edit := forms.NewEditProductForm(current)
		files := fields.Files
		fields.Files = nil
		edit.Fields = fields
		// с конца, чтобы индексы оставшихся не сдвигались
		for _, i := range removedIndexes(r) {
			edit.RemoveExisting(i)
		}
		edit.Stage(files...)

		in, err := edit.Input()
		if err != nil {
			edit.Fields.Files = nil
			data := editData(edit)
			data["FieldError"] = UserMessage(err)
			web.Render(w, r, http.StatusUnprocessableEntity, "product_form.html", data)
			return
		}

		p, err := products.Update(r.Context(), token, id, in)
		if err != nil {
			web.Log.Error("failed to update product", slog.String("op", op), slog.Int64("productID", id), slog.Any("error", err))
			web.Fail(w, r, err, fmt.Sprintf("%s/%d/edit", productsPath, id))
			return
		}
		web.Redirect(w, r, productsPath, FlashSuccess, fmt.Sprintf("Product %q updated.", p.Name))
	}
}

func DeleteProductHandler(web *Web, products ProductService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.DeleteProductHandler"

		id, ok := idParam(r)
		if !ok {
			http.Error(w, "invalid product id", http.StatusBadRequest)
			return
		}
		if err := products.Delete(r.Context(), principal(r).Token, id); err != nil {
			web.Log.Error("failed to delete product", slog.String("op", op), slog.Int64("productID", id), slog.Any("error", err))
			web.Fail(w, r, err, productsPath)
			return
		}
		web.Redirect(w, r, productsPath, FlashSuccess, "Product deleted.")
	}
}

func editData(f *forms.EditProductForm) map[string]any {
	return map[string]any{
		"ProductID":       f.ProductID,
		"Form":            f.Fields,
		"ExistingGallery": f.ExistingGallery,
	}
}

// productForm читает поля и приложенные файлы из multipart-формы
func productForm(r *http.Request) (forms.ProductForm, error) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil && err != http.ErrNotMultipart {
		return forms.ProductForm{}, err
	}
	form := forms.ProductForm{
		Name:        r.FormValue("name"),
		Price:       r.FormValue("price"),
		Category:    r.FormValue("category"),
		Description: r.FormValue("description"),
	}
	if r.MultipartForm == nil {
		return form, nil
	}
	for _, fh := range r.MultipartForm.File["files"] {
		if fh.Filename == "" || fh.Size == 0 {
			continue
		}
		f, err := fh.Open()
		if err != nil {
			return forms.ProductForm{}, err
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return forms.ProductForm{}, err
		}
		form.Files = append(form.Files, models.FileUpload{
			Filename:    fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Data:        data,
		})
	}
	return form, nil
}

// removedIndexes - отмеченные индексы галереи по убыванию
func removedIndexes(r *http.Request) []int {
	var out []int
	seen := map[int]bool{}
	for _, v := range r.Form["remove_image"] {
		i, err := strconv.Atoi(v)
		if err != nil || seen[i] {
			continue
		}
		seen[i] = true
		out = append(out, i)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(out)))
	return out
}
