package dto

// FileUploadResponse represents the result of a file upload
type FileUploadResponse struct {
	FileURL  string `json:"fileUrl" example:"/uploads/3f2b8c7e-1a9d-4e6f-b2c1-8d7a6e5f4c3b.jpg"`
	FileName string `json:"fileName" example:"proof.jpg"`
	FileSize int64  `json:"fileSize" example:"1048576"`
	MimeType string `json:"mimeType" example:"image/jpeg"`
}
