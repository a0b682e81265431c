// File HTTP handlers.
//
//   - GET  /files/{fileId}  (download the demo document)
//   - POST /files           (multipart PDF upload, field "file")
package handlers

import (
	"encoding/xml"
	"mime"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/cityinfo-api/internal/services"
)

// UploadResponse names the stored upload.
type UploadResponse struct {
	XMLName  xml.Name `json:"-" xml:"Upload" swaggerignore:"true"`
	FileName string   `json:"fileName" xml:"fileName" example:"uploaded_file_141add05-4415-4938-b5a1-17e0d3171aff.pdf"`
}

// GetFile godoc
// @ID          getFile
// @Summary     Download a file
// @Description Returns the demo document as an attachment; its content type is derived from the extension.
// @Tags        Files
// @Produce     application/pdf,application/octet-stream
//
// @Param       fileId  path  string  true  "File ID"  example(1)
//
// @Success     200  {file}    file
// @Header      200  {string}  Content-Disposition  "attachment; filename=..."
// @Failure     404  {object}  handlers.ErrorResponse  "File not found"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /files/{fileId} [get]
func (h *Handlers) GetFile(c *gin.Context) {
	f, err := h.fileSvc.Get(c.Request.Context(), c.Param("fileId"))
	if err != nil {
		serviceError(c, err)
		return
	}

	c.Header("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": f.Name}))
	c.Data(http.StatusOK, f.ContentType, f.Data)
}

// UploadFile godoc
// @ID          uploadFile
// @Summary     Upload a PDF
// @Description Stores a PDF of at most 20 MiB and returns its generated name.
// @Tags        Files
// @Accept      multipart/form-data
// @Produce     json,xml
//
// @Param       file  formData  file  true  "PDF document (application/pdf)"
//
// @Success     200  {object}  handlers.UploadResponse
// @Failure     400  {object}  handlers.ErrorResponse  "No file or an invalid one"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /files [post]
func (h *Handlers) UploadFile(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, services.ErrInvalidUpload.Error())
		return
	}

	f, err := fh.Open()
	if err != nil {
		failInternal(c, err)
		return
	}
	defer f.Close()

	name, err := h.fileSvc.Upload(c.Request.Context(), f, fh.Size, fh.Header.Get("Content-Type"))
	if err != nil {
		serviceError(c, err)
		return
	}
	ok(c, http.StatusOK, UploadResponse{FileName: name})
}
