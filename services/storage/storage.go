package storage

import (
	"context"
	"fmt"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// StorageService stores uploaded binary content, currently payment proof
// images, and returns publicly reachable URLs.
type StorageService interface {
	// UploadProof stores a transfer receipt and returns its secure URL.
	// file may be a local path, an io.Reader, or a multipart file header.
	UploadProof(ctx context.Context, file interface{}, trxID string) (string, error)

	// DeleteFile removes a previously uploaded file by its public ID.
	DeleteFile(ctx context.Context, publicID string) error
}

// StorageServiceImpl implements StorageService on top of Cloudinary.
type StorageServiceImpl struct {
	cld       *cloudinary.Cloudinary
	cloudName string
}

// NewStorageService creates a new StorageServiceImpl instance.
func NewStorageService(cld *cloudinary.Cloudinary, cloudName string) StorageService {
	return &StorageServiceImpl{
		cld:       cld,
		cloudName: cloudName,
	}
}

// UploadProof uploads a payment proof into the payment-proofs folder. The
// transaction ID becomes the public ID so re-submissions overwrite the old
// receipt instead of piling up.
func (s *StorageServiceImpl) UploadProof(ctx context.Context, file interface{}, trxID string) (string, error) {
	overwrite := true
	result, err := s.cld.Upload.Upload(ctx, file, uploader.UploadParams{
		Folder:    "payment-proofs",
		PublicID:  trxID,
		Overwrite: &overwrite,
	})
	if err != nil {
		return "", fmt.Errorf("StorageServiceImpl: failed to upload proof: %w", err)
	}
	if result.SecureURL == "" {
		return "", fmt.Errorf("StorageServiceImpl: no URL returned")
	}
	return result.SecureURL, nil
}

// DeleteFile deletes a file from Cloudinary given its public ID.
func (s *StorageServiceImpl) DeleteFile(ctx context.Context, publicID string) error {
	_, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID})
	if err != nil {
		return fmt.Errorf("StorageServiceImpl: failed to delete file: %w", err)
	}
	return nil
}
