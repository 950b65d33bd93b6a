package dto

// Catalog enrichment DTOs. These calls are best-effort helpers used during
// product creation; they never touch the checkout path.

type SuggestCategoryRequest struct {
	ProductName string `json:"product_name" validate:"required,min=2"`
}

type SuggestCategoryResponse struct {
	Category string `json:"category"`
}

// RecognizeProductRequest carries a base64 data URI of a product photo
// ("data:<mimetype>;base64,<data>").
type RecognizeProductRequest struct {
	PhotoDataURI string `json:"photo_data_uri" validate:"required,startswith=data:"`
}

type RecognizeProductResponse struct {
	ProductName string `json:"product_name"`
	Brand       string `json:"brand"`
	Category    string `json:"category"`
}

type GenerateImageRequest struct {
	ProductName string `json:"product_name" validate:"required,min=2"`
	Brand       string `json:"brand"`
	Description string `json:"description"`
}

type GenerateImageResponse struct {
	ImageURL string `json:"image_url"`
}

// UploadResponse is returned by POST /v1/uploads/image.
type UploadResponse struct {
	URL string `json:"url"`
}
