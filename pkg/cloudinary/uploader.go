package cloudinary

import (
	"bytes"
	"context"
	"strings"

	cld "github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

type CloudinaryUploader struct {
	cld *cld.Cloudinary
}

func NewCloudinaryUploader(cloud *cld.Cloudinary) *CloudinaryUploader {
	return &CloudinaryUploader{cld: cloud}
}

func (u *CloudinaryUploader) UploadBytes(
	ctx context.Context,
	folder string,
	filename string,
	b []byte,
) (string, error) {

	reader := bytes.NewReader(b)

	// PDFs must go up as raw, images as image, or Cloudinary rejects them.
	resourceType := "image"
	if strings.HasSuffix(strings.ToLower(filename), ".pdf") {
		resourceType = "raw"
	}

	res, err := u.cld.Upload.Upload(
		ctx,
		reader,
		uploader.UploadParams{
			Folder:       folder,
			PublicID:     filename,
			ResourceType: resourceType,
		},
	)
	if err != nil {
		return "", err
	}

	return res.SecureURL, nil
}
