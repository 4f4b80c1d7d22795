package services

import (
	"bytes"
	"context"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/google/uuid"
)

// Uploader stores raw image bytes and returns a publicly resolvable URL.
type Uploader interface {
	Upload(ctx context.Context, data []byte) (string, error)
}

type CloudinaryUploader struct {
	cld    *cloudinary.Cloudinary
	folder string
}

func NewCloudinaryUploader(cloudinaryURL string) (*CloudinaryUploader, error) {
	cld, err := cloudinary.NewFromURL(cloudinaryURL)
	if err != nil {
		return nil, err
	}
	return &CloudinaryUploader{cld: cld, folder: "picfeed/posts"}, nil
}

// Upload stores the bytes under a fresh random public ID. Key collisions
// are treated as negligible; there is no collision retry.
func (u *CloudinaryUploader) Upload(ctx context.Context, data []byte) (string, error) {
	result, err := u.cld.Upload.Upload(ctx, bytes.NewReader(data), uploader.UploadParams{
		Folder:   u.folder,
		PublicID: uuid.NewString(),
	})
	if err != nil {
		return "", err
	}
	return result.SecureURL, nil
}
