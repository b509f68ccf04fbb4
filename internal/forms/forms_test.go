package forms_test

import (
	"testing"

	"github.com/linemk/shop-admin/internal/domain/models"
	"github.com/linemk/shop-admin/internal/forms"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductForm_Validate(t *testing.T) {
	tests := []struct {
		name    string
		form    forms.ProductForm
		field   string
		wantErr bool
	}{
		{name: "valid without images", form: forms.ProductForm{Name: "Scarf", Price: "12.50", Category: "Accessories"}},
		{name: "missing name", form: forms.ProductForm{Price: "1", Category: "c"}, field: "Name", wantErr: true},
		{name: "missing price", form: forms.ProductForm{Name: "n", Category: "c"}, field: "Price", wantErr: true},
		{name: "missing category", form: forms.ProductForm{Name: "n", Price: "1"}, field: "Category", wantErr: true},
		{name: "price not a number", form: forms.ProductForm{Name: "n", Price: "abc", Category: "c"}, field: "Price", wantErr: true},
		{name: "price NaN", form: forms.ProductForm{Name: "n", Price: "NaN", Category: "c"}, field: "Price", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.form.Validate()
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, forms.IsValidation(err))
			var vErr *forms.ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tt.field, vErr.Field)
		})
	}
}

func TestProductForm_InputAndReset(t *testing.T) {
	f := forms.ProductForm{Name: "Hat", Price: "99.9", Category: "Hats", Description: "warm",
		Files: []models.FileUpload{{Filename: "a.jpg"}}}

	in, err := f.Input()
	require.NoError(t, err)
	assert.Equal(t, 99.9, in.Price)
	assert.Nil(t, in.ExistingGallery)
	assert.Len(t, in.Files, 1)

	f.Reset()
	assert.Equal(t, forms.ProductForm{}, f)
}

// удаление одного существующего изображения и добавление одного нового файла
func TestEditProductForm_GalleryChanges(t *testing.T) {
	product := models.Product{ID: 4, Name: "Blanket", Price: 300, Category: "Home",
		Gallery: []string{"a.jpg", "b.jpg", "c.jpg"}}

	f := forms.NewEditProductForm(product)
	assert.Equal(t, "300", f.Fields.Price)
	assert.Equal(t, []string{"a.jpg", "b.jpg", "c.jpg"}, f.ExistingGallery)

	assert.True(t, f.RemoveExisting(1))
	assert.False(t, f.RemoveExisting(10))
	f.Stage(models.FileUpload{Filename: "new.jpg"})

	in, err := f.Input()
	require.NoError(t, err)
	require.NotNil(t, in.ExistingGallery)
	assert.Len(t, *in.ExistingGallery, len(product.Gallery)-1)
	assert.Equal(t, []string{"a.jpg", "c.jpg"}, *in.ExistingGallery)
	assert.Len(t, in.Files, 1)

	// исходный товар не изменился
	assert.Equal(t, []string{"a.jpg", "b.jpg", "c.jpg"}, product.Gallery)
}

func TestEditProductForm_RemoveStaged(t *testing.T) {
	f := forms.NewEditProductForm(models.Product{ID: 1, Name: "n", Price: 1, Category: "c", ImageURL: "main.jpg"})
	assert.Equal(t, []string{"main.jpg"}, f.ExistingGallery)

	f.Stage(models.FileUpload{Filename: "1.jpg"}, models.FileUpload{Filename: "2.jpg"})
	assert.True(t, f.RemoveStaged(0))
	assert.False(t, f.RemoveStaged(5))
	require.Len(t, f.Fields.Files, 1)
	assert.Equal(t, "2.jpg", f.Fields.Files[0].Filename)

	f.RemoveExisting(0)
	in, err := f.Input()
	require.NoError(t, err)
	// пустая галерея всё равно отправляется
	require.NotNil(t, in.ExistingGallery)
	assert.Empty(t, *in.ExistingGallery)
}

func TestSettingsForm_Validate(t *testing.T) {
	tests := []struct {
		name string
		form forms.SettingsForm
		msg  string
	}{
		{name: "bad email", form: forms.SettingsForm{Email: "admin.shop.test"}, msg: "Please enter a valid email address"},
		{name: "short password", form: forms.SettingsForm{Email: "a@b", Password: "123", ConfirmPassword: "123"}, msg: "Password must be at least 6 characters"},
		{name: "mismatch", form: forms.SettingsForm{Email: "a@b", Password: "123456", ConfirmPassword: "654321"}, msg: "Passwords do not match"},
		{name: "confirmation without password", form: forms.SettingsForm{Email: "a@b", ConfirmPassword: "123456"}, msg: "Passwords do not match"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.form.Validate()
			var vErr *forms.ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tt.msg, vErr.Message)
		})
	}
}

func TestSettingsForm_Update(t *testing.T) {
	f := forms.NewSettingsForm(models.AdminProfile{ID: 1, Email: "admin@shop.test", FullName: "Admin", Role: "admin"})

	update, err := f.Update()
	require.NoError(t, err)
	assert.Nil(t, update.Password, "blank password must be omitted")
	assert.Equal(t, "Admin", update.FullName)

	f.Password, f.ConfirmPassword = "newpass", "newpass"
	update, err = f.Update()
	require.NoError(t, err)
	require.NotNil(t, update.Password)
	assert.Equal(t, "newpass", *update.Password)

	f.ClearPasswords()
	assert.Empty(t, f.Password)
	assert.Empty(t, f.ConfirmPassword)
}

func TestApprovalForm_Validate(t *testing.T) {
	w, err := forms.ApprovalForm{Weight: "1.25"}.Validate()
	require.NoError(t, err)
	assert.Equal(t, 1.25, w)

	for _, bad := range []string{"", "heavy", "0", "-2"} {
		_, err := forms.ApprovalForm{Weight: bad}.Validate()
		assert.True(t, forms.IsValidation(err), "weight %q must be rejected", bad)
	}
}

func TestLoginForm_Validate(t *testing.T) {
	assert.NoError(t, forms.LoginForm{Email: "admin@shop.test", Password: "x"}.Validate())
	assert.True(t, forms.IsValidation(forms.LoginForm{Email: "admin", Password: "x"}.Validate()))
	assert.True(t, forms.IsValidation(forms.LoginForm{Email: "admin@shop.test"}.Validate()))
}
