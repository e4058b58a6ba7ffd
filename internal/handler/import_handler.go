package handler

import (
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/grana-app/backend/internal/apperror"
	"github.com/grana-app/backend/internal/importer"
	"github.com/grana-app/backend/internal/service"
)

// maxStatementSize caps uploaded statements at 5 MB.
const maxStatementSize = 5 << 20

// ImportServiceInterface defines the service contract for statement
// imports.
type ImportServiceInterface interface {
	Import(ctx context.Context, input service.ImportInput) (*importer.Result, error)
}

// ImportHandler handles CSV statement uploads. It accepts either a JSON
// body or a multipart form with a file field.
type ImportHandler struct {
	service ImportServiceInterface
}

func NewImportHandler(service ImportServiceInterface) *ImportHandler {
	return &ImportHandler{service: service}
}

func (h *ImportHandler) Import(w http.ResponseWriter, r *http.Request) {
	input, err := readImportInput(r)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	result, err := h.service.Import(r.Context(), *input)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

func readImportInput(r *http.Request) (*service.ImportInput, error) {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(maxStatementSize); err != nil {
			return nil, apperror.BadRequest("invalid multipart form: " + err.Error())
		}

		file, _, err := r.FormFile("file")
		if err != nil {
			return nil, apperror.ValidationError("file", "statement file is required")
		}
		defer func() { _ = file.Close() }()

		data, err := io.ReadAll(io.LimitReader(file, maxStatementSize))
		if err != nil {
			return nil, apperror.BadRequest("reading statement file: " + err.Error())
		}

		return &service.ImportInput{
			ImportType: r.FormValue("importType"),
			AssetID:    r.FormValue("assetId"),
			CSV:        string(data),
		}, nil
	}

	var input service.ImportInput
	if err := decodeJSON(r, &input); err != nil {
		return nil, err
	}
	return &input, nil
}
