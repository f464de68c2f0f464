package media_storage

import (
	"context"
	"fmt"
	"io"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"

	"github.com/khoahotran/devconnect/internal/application/service"
	"github.com/khoahotran/devconnect/internal/config"
	"github.com/khoahotran/devconnect/pkg/logger"
)

type cloudinaryAdapter struct {
	cld *cloudinary.Cloudinary
}

func NewCloudinaryAdapter(cfg config.Config, log logger.Logger) (service.Uploader, error) {
	if cfg.Cloudinary.CloudName == "" {
		return nil, fmt.Errorf("cloudinary cloud_name has not config")
	}

	cld, err := cloudinary.NewFromParams(
		cfg.Cloudinary.CloudName,
		cfg.Cloudinary.ApiKey,
		cfg.Cloudinary.ApiSecret,
	)
	if err != nil {
		return nil, fmt.Errorf("cannot init cloudinary: %w", err)
	}

	log.Info("Connect Cloudinary successfully.")
	return &cloudinaryAdapter{cld: cld}, nil
}

// Upload overwrites any asset with the same public id, so re-uploading an avatar
// replaces the previous one.
func (a *cloudinaryAdapter) Upload(ctx context.Context, file io.Reader, folder string, publicID string) (string, error) {
	result, err := a.cld.Upload.Upload(ctx, file, uploader.UploadParams{
		PublicID:     publicID,
		Folder:       folder,
		Overwrite:    api.Bool(true),
		ResourceType: "image",
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload cloudinary: %w", err)
	}
	if result.Error.Message != "" {
		return "", fmt.Errorf("cloudinary rejected upload: %s", result.Error.Message)
	}
	return result.SecureURL, nil
}

func (a *cloudinaryAdapter) Delete(ctx context.Context, publicID string) error {
	_, err := a.cld.Upload.Destroy(ctx, uploader.DestroyParams{
		PublicID: publicID,
	})
	if err != nil {
		return fmt.Errorf("failed to delete cloudinary: %w", err)
	}
	return nil
}
