package controllers

import (
	"net/http"

	"github.com/AkaOko/react-trpo/app/services"
	"github.com/AkaOko/react-trpo/pkg/ctx"
)

// multipart overhead allowed on top of the image itself
const formOverhead = 1 << 20

type UploadController struct {
	uploads *services.UploadService
}

func NewUploadController(uploads *services.UploadService) *UploadController {
	return &UploadController{uploads: uploads}
}

// Store saves the multipart "image" field and returns its URL.
func (u *UploadController) Store(c *ctx.Context) {
	limit := u.uploads.MaxBytes()
	c.R.Body = http.MaxBytesReader(c.W, c.R.Body, limit+formOverhead)
	if err := c.R.ParseMultipartForm(limit); err != nil {
		c.Error(http.StatusBadRequest, "invalid multipart form or file too large")
		return
	}

	file, header, err := c.R.FormFile("image")
	if err != nil {
		c.ValidationError(map[string]string{"image": "The image field is required."})
		return
	}
	defer file.Close()

	if header.Size > limit {
		c.ValidationError(map[string]string{"image": "The image is too large."})
		return
	}

	url, err := u.uploads.StoreImage(c.Context(), header.Filename, file)
	if err != nil {
		fail(c, err)
		return
	}
	c.Created(map[string]string{"url": url})
}
