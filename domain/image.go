package domain

import (
	"fmt"
	"mime/multipart"
)

const (
	// ImagesBaseDir determines the general storage location of uploaded images.
	ImagesBaseDir = "images"
	// MaxUploadSize determines the maximum filesize of an image to be uploaded.
	MaxUploadSize int64 = 5 << 20 // 5 Megabyte
)

// Image represents an image file uploaded for a post. Images live only in
// the blob store (the filesystem); the database never sees them. The stable
// reference to a stored image is its Path, which gets recorded on the post.
type Image struct {
	PostID      int            `json:"-"`
	Path        string         `json:"path"`
	File        multipart.File `json:"-"`
	Filename    string         `json:"-"`
	Extension   string         `json:"-"`
	ContentType string         `json:"-"`
}

// ImageService stores uploaded images. Writes are write-once: a stored image
// is never modified, only its post's reference to it changes.
type ImageService interface {
	Create(img *Image) error
}

// RelativePath returns the storage path of an image inside ImagesBaseDir.
func (i *Image) RelativePath() string {
	return fmt.Sprintf("%v/posts/%v/%v", ImagesBaseDir, i.PostID, i.Filename)
}
