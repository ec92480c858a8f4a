package services

import (
	"bytes"
	"context"
	"fmt"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// GuideArchive stores downloaded guides and returns a shareable URL.
type GuideArchive interface {
	Archive(ctx context.Context, name string, data []byte) (string, error)
}

type CloudinaryService struct {
	cld    *cloudinary.Cloudinary
	folder string
}

func NewCloudinaryService(cloudName, apiKey, apiSecret, folder string) (*CloudinaryService, error) {
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Cloudinary: %w", err)
	}
	if folder == "" {
		folder = "innerbloom/guides"
	}
	return &CloudinaryService{cld: cld, folder: folder}, nil
}

// Archive uploads data as a raw asset named name, replacing an earlier upload
// of the same name.
func (s *CloudinaryService) Archive(ctx context.Context, name string, data []byte) (string, error) {
	overwrite := true
	result, err := s.cld.Upload.Upload(ctx, bytes.NewReader(data), uploader.UploadParams{
		Folder:       s.folder,
		PublicID:     name,
		Overwrite:    &overwrite,
		ResourceType: "raw",
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to Cloudinary: %w", err)
	}
	if result.Error.Message != "" {
		return "", fmt.Errorf("cloudinary rejected upload: %s", result.Error.Message)
	}
	return result.SecureURL, nil
}
