package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/abrefacil/briefing-backend/internal/errors"
	"github.com/abrefacil/briefing-backend/internal/middleware"
	"github.com/abrefacil/briefing-backend/internal/storage"
)

type UploadController struct {
	documentStorage *storage.DocumentStorage
}

func NewUploadController(documentStorage *storage.DocumentStorage) *UploadController {
	return &UploadController{
		documentStorage: documentStorage,
	}
}

type PresignRequest struct {
	Protocolo   string `json:"protocolo" binding:"required"`
	Filename    string `json:"filename" binding:"required"`
	ContentType string `json:"contentType" binding:"required"`
	Size        int64  `json:"size" binding:"required"`
}

// Presign issues a pre-signed upload URL for a briefing document
// POST /api/v1/uploads/presign
func (ctrl *UploadController) Presign(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req PresignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "dados do arquivo inválidos")
		return
	}

	if err := ctrl.documentStorage.ValidateFileSize(req.Size); err != nil {
		apperrors.BadRequest(c, apperrors.UploadInvalidFileType, err.Error())
		return
	}
	if err := ctrl.documentStorage.ValidateContentType(req.ContentType); err != nil {
		apperrors.BadRequest(c, apperrors.UploadInvalidFileType, err.Error())
		return
	}

	upload, err := ctrl.documentStorage.PresignDocumentUpload(c.Request.Context(), req.Protocolo, req.Filename, req.ContentType)
	if err != nil {
		log.Error("Failed to presign document upload", err, map[string]interface{}{
			"protocolo": req.Protocolo,
			"filename":  req.Filename,
		})
		apperrors.RespondWithError(c, http.StatusInternalServerError, apperrors.UploadFailed, "falha ao preparar o upload do documento")
		return
	}

	log.Info("Document upload presigned", map[string]interface{}{
		"protocolo": req.Protocolo,
		"key":       upload.Key,
	})

	c.JSON(http.StatusOK, gin.H{"upload": upload})
}
