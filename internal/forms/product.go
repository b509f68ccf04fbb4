package forms

import (
	"strconv"

	"github.com/linemk/shop-admin/internal/domain/models"
)

var productMessages = map[string]string{
	"Name.required":     "Product name is required",
	"Price.required":    "Price is required",
	"Category.required": "Category is required",
}

// ProductForm - форма добавления товара
type ProductForm struct {
	Name        string `validate:"required"`
	Price       string `validate:"required"`
	Category    string `validate:"required"`
	Description string
	Files       []models.FileUpload `validate:"-"`
}

// Validate: название, цена и категория обязательны, цена - десятичное число.
// Описание и изображения не проверяются, товар без изображений допустим.
func (f ProductForm) Validate() (float64, error) {
	if err := checkStruct(f, productMessages); err != nil {
		return 0, err
	}
	price, ok := parseDecimal(f.Price)
	if !ok {
		return 0, &ValidationError{Field: "Price", Message: "Price must be a valid number"}
	}
	return price, nil
}

// Input собирает данные для создания товара (без existing_gallery)
func (f ProductForm) Input() (models.ProductInput, error) {
	price, err := f.Validate()
	if err != nil {
		return models.ProductInput{}, err
	}
	return models.ProductInput{
		Name:        f.Name,
		Price:       price,
		Category:    f.Category,
		Description: f.Description,
		Files:       f.Files,
	}, nil
}

// Reset очищает все поля после успешного создания
func (f *ProductForm) Reset() {
	*f = ProductForm{}
}

// EditProductForm - форма редактирования. Существующая галерея (URL) и новые файлы
// ведутся отдельно; объединяет их backend.
type EditProductForm struct {
	ProductID       int64
	Fields          ProductForm
	ExistingGallery []string
}

// NewEditProductForm заполняет форму из выбранного товара
func NewEditProductForm(p models.Product) *EditProductForm {
	return &EditProductForm{
		ProductID: p.ID,
		Fields: ProductForm{
			Name:        p.Name,
			Price:       strconv.FormatFloat(p.Price, 'f', -1, 64),
			Category:    p.Category,
			Description: p.Description,
		},
		ExistingGallery: p.DisplayGallery(),
	}
}

// RemoveExisting убирает изображение существующей галереи по индексу
func (f *EditProductForm) RemoveExisting(index int) bool {
	if index < 0 || index >= len(f.ExistingGallery) {
		return false
	}
	f.ExistingGallery = append(f.ExistingGallery[:index:index], f.ExistingGallery[index+1:]...)
	return true
}

// Stage добавляет новые файлы к отправке
func (f *EditProductForm) Stage(files ...models.FileUpload) {
	f.Fields.Files = append(f.Fields.Files, files...)
}

// RemoveStaged убирает новый файл по индексу
func (f *EditProductForm) RemoveStaged(index int) bool {
	if index < 0 || index >= len(f.Fields.Files) {
		return false
	}
	f.Fields.Files = append(f.Fields.Files[:index:index], f.Fields.Files[index+1:]...)
	return true
}

// Input всегда отправляет existing_gallery (в том числе пустой массив) и новые файлы
func (f *EditProductForm) Input() (models.ProductInput, error) {
	in, err := f.Fields.Input()
	if err != nil {
		return models.ProductInput{}, err
	}
	gallery := make([]string, len(f.ExistingGallery))
	copy(gallery, f.ExistingGallery)
	in.ExistingGallery = &gallery
	return in, nil
}
