package models

// AdminProfile - профиль администратора. Пароль никогда не приходит с backend.
type AdminProfile struct {
	ID             int64  `json:"id"`
	Email          string `json:"email"`
	FullName       string `json:"full_name,omitempty"`
	WhatsAppNumber string `json:"whatsapp_number,omitempty"`
	Role           string `json:"role"`
}

// SettingsUpdate - частичное обновление профиля. Password == nil не попадает в JSON.
type SettingsUpdate struct {
	Email          string  `json:"email"`
	FullName       string  `json:"full_name"`
	WhatsAppNumber string  `json:"whatsapp_number"`
	Password       *string `json:"password,omitempty"`
}
