package models

// Product представляет товар каталога
type Product struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	Price       float64  `json:"price"`
	Category    string   `json:"category"`
	Description string   `json:"description"`
	ImageURL    string   `json:"image_url"`
	Gallery     []string `json:"gallery,omitempty"`
}

// DisplayGallery - галерея для показа: gallery, иначе основное изображение, иначе пусто
func (p Product) DisplayGallery() []string {
	if len(p.Gallery) > 0 {
		out := make([]string, len(p.Gallery))
		copy(out, p.Gallery)
		return out
	}
	if p.ImageURL != "" {
		return []string{p.ImageURL}
	}
	return []string{}
}

// FileUpload - файл изображения, отправляемый в multipart-форме
type FileUpload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ProductInput - данные формы создания/редактирования товара.
// ExistingGallery == nil означает, что поле existing_gallery не отправляется.
type ProductInput struct {
	Name            string
	Price           float64
	Category        string
	Description     string
	ExistingGallery *[]string
	Files           []FileUpload
}
