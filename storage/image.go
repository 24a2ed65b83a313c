// Package storage is the blob store for post images: write-once files on
// the local filesystem, addressed by the path recorded on the post.
package storage

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"groupblog/domain"
	"groupblog/errs"
)

// ImageService stores uploaded post images in the filesystem.
// It implements the domain.ImageService interface.
type ImageService struct {
	imageValidator
}

// imageValidator runs validations on incoming Image data.
// On success, it passes the data on to imageStore.
// Otherwise, it returns the error of the validation that has failed.
type imageValidator struct {
	imageStore
}

// imageStore writes validated image files to the filesystem.
type imageStore struct{}

// NewImageService returns an instance of ImageService.
func NewImageService() *ImageService {
	return &ImageService{
		imageValidator{
			imageStore{},
		},
	}
}

// Ensure the ImageService struct properly implements the domain.ImageService interface.
// If it does not, then this expression becomes invalid and won't compile.
var _ domain.ImageService = &ImageService{}

// Create runs validations needed for storing an uploaded image, then writes
// it. On success the image's Path holds the stable reference to the stored
// file.
func (iv *imageValidator) Create(img *domain.Image) error {
	err := runImageValFns(img,
		iv.postIdValid,
		iv.extensionValid,
		iv.contentTypeValid,
		iv.contentTypeExtensionMatch,
		iv.belowMaxSize,
		iv.fileNameUnique,
	)
	if err != nil {
		return err
	}
	return iv.imageStore.Create(img)
}

// runImageValFns runs any number of functions of type imageValFn on the passed in Image object.
// If none of them returns an error, it returns nil. Otherwise, it returns the respective error.
func runImageValFns(img *domain.Image, fns ...imageValFn) error {
	for _, fn := range fns {
		if err := fn(img); err != nil {
			return err
		}
	}
	return nil
}

// An imageValFn is any function that takes in a pointer to a domain.Image object and returns an error.
type imageValFn func(img *domain.Image) error

// postIdValid makes sure the image is bound to a post.
func (iv *imageValidator) postIdValid(img *domain.Image) error {
	if img.PostID <= 0 {
		return errs.Errorf(errs.EINVALID, "Invalid post ID.")
	}
	return nil
}

// belowMaxSize makes sure the file does not exceed the upload size limit.
func (iv *imageValidator) belowMaxSize(img *domain.Image) error {
	size, err := img.File.Seek(0, io.SeekEnd)
	if err != nil {
		return err
	}
	if err = resetReaderPosition(img); err != nil {
		return err
	}
	if size > domain.MaxUploadSize {
		return errs.Errorf(errs.EINVALID,
			"Image %s exceeds upload size limit of %dMB.", img.Filename, domain.MaxUploadSize/1000000)
	}
	return nil
}

// contentTypeValid sniffs the file's content type and makes sure it is an
// accepted image format.
func (iv *imageValidator) contentTypeValid(img *domain.Image) error {
	buffer := make([]byte, 512)
	if _, err := img.File.Read(buffer); err != nil {
		return err
	}
	if err := resetReaderPosition(img); err != nil {
		return err
	}
	contentType := http.DetectContentType(buffer)
	if contentType != "image/jpeg" && contentType != "image/png" {
		return errs.Errorf(errs.EINVALID,
			"Image %s invalid content-type, must be image/jpeg or image/png.", img.Filename)
	}
	img.ContentType = contentType
	return nil
}

// contentTypeExtensionMatch makes sure the sniffed content type matches the
// file extension.
func (iv *imageValidator) contentTypeExtensionMatch(img *domain.Image) error {
	contentType := strings.TrimPrefix(img.ContentType, "image/")
	ext := strings.TrimPrefix(img.Extension, ".")
	if contentType != ext {
		return errs.Errorf(errs.EINVALID,
			"Image %s content-type %s does not match extension %s.", img.Filename, img.ContentType, img.Extension)
	}
	return nil
}

// extensionValid makes sure the file extension is an accepted image format.
func (iv *imageValidator) extensionValid(img *domain.Image) error {
	ext := strings.ToLower(filepath.Ext(img.Filename))
	if ext != ".png" && ext != ".jpg" && ext != ".jpeg" {
		return errs.Errorf(errs.EINVALID,
			"Image %s invalid extension, must be .jpeg or .png.", img.Filename)
	}
	if ext == ".jpg" {
		ext = ".jpeg"
	}
	img.Extension = ext
	return nil
}

// fileNameUnique replaces the client's filename with a fresh unique one, so
// two uploads can never collide.
func (iv *imageValidator) fileNameUnique(img *domain.Image) error {
	img.Filename = uuid.NewString() + img.Extension
	return nil
}

// resetReaderPosition seeks back to the beginning of the file, so that
// subsequent reads will work.
func resetReaderPosition(img *domain.Image) error {
	_, err := img.File.Seek(0, io.SeekStart)
	return err
}

// Create writes the image file and sets the image's Path.
func (is *imageStore) Create(img *domain.Image) error {
	dir := fmt.Sprintf("%s/posts/%d", domain.ImagesBaseDir, img.PostID)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	path := img.RelativePath()
	dst, err := os.Create(path)
	if err != nil {
		return err
	}
	defer dst.Close()
	if _, err := io.Copy(dst, img.File); err != nil {
		return err
	}
	img.Path = path
	return nil
}
