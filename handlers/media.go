package handlers

import (
	"context"
	"io"
	"os"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// uploadMedia sends a post's media file to Cloudinary. resource_type auto
// lets the host accept images, video and audio from the same endpoint.
func uploadMedia(ctx context.Context, file io.Reader) (url, publicID string, err error) {
	cld, err := cloudinary.NewFromURL(os.Getenv("CLOUDINARY_URL"))
	if err != nil {
		return "", "", err
	}

	result, err := cld.Upload.Upload(ctx, file, uploader.UploadParams{
		Folder:       "snapgram/posts",
		ResourceType: "auto",
	})
	if err != nil {
		return "", "", err
	}
	return result.SecureURL, result.PublicID, nil
}

// destroyMedia releases a previously uploaded asset.
func destroyMedia(ctx context.Context, publicID string) error {
	cld, err := cloudinary.NewFromURL(os.Getenv("CLOUDINARY_URL"))
	if err != nil {
		return err
	}
	_, err = cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID})
	return err
}
