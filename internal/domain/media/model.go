package media

// AllowedFormats is the image format allow-list. It is both what upload
// requests are validated against and what the signed URL advertises to the
// provider in allowed_formats.
var AllowedFormats = []string{"png", "jpg", "jpeg"}

// SignUploadRequest is the payload for requesting a signed upload URL.
// The format field is a 3 character lowercase image format subtype.
type SignUploadRequest struct {
	Filename string `json:"filename" binding:"required"`
	Format   string `json:"format" binding:"required,len=3"`
}
