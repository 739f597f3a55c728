package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mockmate/backend/internal/services"
	"github.com/mockmate/backend/internal/utils"
)

const maxCVSize = 5 << 20 // 5 MB

type CVHandler struct {
	svc services.CVService
}

func NewCVHandler(svc services.CVService) *CVHandler {
	return &CVHandler{svc: svc}
}

func (h *CVHandler) Upload(c *gin.Context) {
	const op = "CVHandler.Upload"

	fileHeader, err := c.FormFile("file")
	if err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "multipart field 'file' is required", err))
		return
	}
	if fileHeader.Size > maxCVSize {
		c.JSON(http.StatusRequestEntityTooLarge, apiError{
			Code:    utils.CodeInvalidArgument,
			Message: "file exceeds the 5 MB limit",
		})
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		writeError(c, utils.E(utils.CodeInternal, op, "failed to open upload", err))
		return
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxCVSize+1))
	if err != nil {
		writeError(c, utils.E(utils.CodeInternal, op, "failed to read upload", err))
		return
	}
	if len(data) > maxCVSize {
		c.JSON(http.StatusRequestEntityTooLarge, apiError{
			Code:    utils.CodeInvalidArgument,
			Message: "file exceeds the 5 MB limit",
		})
		return
	}

	res, err := h.svc.Ingest(c.Request.Context(), fileHeader.Filename, data)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
