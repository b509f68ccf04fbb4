package forms

import "github.com/linemk/shop-admin/internal/domain/models"

// SettingsForm - форма настроек учётной записи. Пустой пароль означает "не менять".
type SettingsForm struct {
	Email           string `validate:"contains=@"`
	FullName        string
	WhatsAppNumber  string
	Password        string `validate:"omitempty,min=6"`
	ConfirmPassword string `validate:"eqfield=Password"`
}

func NewSettingsForm(p models.AdminProfile) SettingsForm {
	return SettingsForm{
		Email:          p.Email,
		FullName:       p.FullName,
		WhatsAppNumber: p.WhatsAppNumber,
	}
}

func (f SettingsForm) Validate() error {
	return checkStruct(f, map[string]string{
		"Email.contains":          "Please enter a valid email address",
		"Password.min":            "Password must be at least 6 characters",
		"ConfirmPassword.eqfield": "Passwords do not match",
	})
}

// Update проверяет форму и собирает частичный профиль; пароль попадает в него только если задан
func (f SettingsForm) Update() (models.SettingsUpdate, error) {
	if err := f.Validate(); err != nil {
		return models.SettingsUpdate{}, err
	}
	update := models.SettingsUpdate{
		Email:          f.Email,
		FullName:       f.FullName,
		WhatsAppNumber: f.WhatsAppNumber,
	}
	if f.Password != "" {
		password := f.Password
		update.Password = &password
	}
	return update, nil
}

// ClearPasswords сбрасывает поля пароля после успешного сохранения
func (f *SettingsForm) ClearPasswords() {
	f.Password = ""
	f.ConfirmPassword = ""
}
