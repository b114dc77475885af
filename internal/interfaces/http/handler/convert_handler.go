package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	convertapp "github.com/lrcatalog/mapper/internal/application/convert"
	"github.com/lrcatalog/mapper/internal/infrastructure/logger"
	"github.com/lrcatalog/mapper/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// Response headers of a single file conversion
const (
	HeaderMissingHeaders   = "X-Missing-Headers"
	HeaderConversionStatus = "X-Conversion-Status"
)

// Converter converts uploaded marketplace exports
type Converter interface {
	ConvertFile(ctx context.Context, in convertapp.FileInput, opts convertapp.Options) convertapp.FileOutcome
	ConvertBatch(ctx context.Context, inputs []convertapp.FileInput, opts convertapp.Options) *convertapp.BatchResult
}

// ConvertHandler serves catalog conversions
type ConvertHandler struct {
	BaseHandler
	converter      Converter
	proceedDefault bool
}

// ConvertHandlerOption is a functional option for ConvertHandler
type ConvertHandlerOption func(*ConvertHandler)

// WithProceedAnyway sets the policy used when a request does not choose one
func WithProceedAnyway(proceed bool) ConvertHandlerOption {
	return func(h *ConvertHandler) {
		h.proceedDefault = proceed
	}
}

// NewConvertHandler creates a new ConvertHandler
func NewConvertHandler(converter Converter, opts ...ConvertHandlerOption) *ConvertHandler {
	h := &ConvertHandler{converter: converter}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// ConvertFile converts one uploaded file and returns the LR csv as an attachment
// POST /convert/:marketplace
func (h *ConvertHandler) ConvertFile(c *gin.Context) {
	form, ok := h.parseForm(c)
	if !ok {
		return
	}
	opts, err := h.options(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	files := form.File["file"]
	if len(files) == 0 {
		h.BadRequest(c, "multipart field \"file\" is required")
		return
	}
	fh := files[0]
	data, err := readUpload(fh)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	out := h.converter.ConvertFile(c.Request.Context(), convertapp.FileInput{
		Name:        fh.Filename,
		Marketplace: c.Param("marketplace"),
		Data:        data,
	}, opts)

	switch out.Status {
	case convertapp.StatusSuccess, convertapp.StatusWarning:
		missing, _ := json.Marshal(out.MissingHeaders)
		c.Header(HeaderMissingHeaders, string(missing))
		c.Header(HeaderConversionStatus, string(out.Status))
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", out.OutputName))
		c.Data(http.StatusOK, "text/csv; charset=utf-8", out.Output)
	case convertapp.StatusBlocked:
		c.JSON(http.StatusUnprocessableEntity, dto.NewErrorResponseWithDetails(
			dto.ErrCodeMissingHeaders,
			out.Error,
			getRequestID(c),
			dto.MissingHeadersDetails{MissingHeaders: out.MissingHeaders},
		))
	default:
		h.HandleError(c, out.Err)
	}
}

// ConvertBatch converts several uploaded files independently. Each file is
// paired with the marketplace value at the same position; a single
// marketplace value applies to every file.
// POST /convert
func (h *ConvertHandler) ConvertBatch(c *gin.Context) {
	form, ok := h.parseForm(c)
	if !ok {
		return
	}
	opts, err := h.options(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	files := form.File["files"]
	if len(files) == 0 {
		h.BadRequest(c, "multipart field \"files\" is required")
		return
	}
	marketplaces := form.Value["marketplace"]
	if len(marketplaces) != 1 && len(marketplaces) != len(files) {
		h.BadRequest(c, fmt.Sprintf("expected 1 or %d marketplace values, got %d", len(files), len(marketplaces)))
		return
	}

	inputs := make([]convertapp.FileInput, len(files))
	for i, fh := range files {
		data, err := readUpload(fh)
		if err != nil {
			h.HandleError(c, err)
			return
		}
		mp := marketplaces[0]
		if len(marketplaces) > 1 {
			mp = marketplaces[i]
		}
		inputs[i] = convertapp.FileInput{Name: fh.Filename, Marketplace: mp, Data: data}
	}

	result := h.converter.ConvertBatch(c.Request.Context(), inputs, opts)
	logger.GetGinLogger(c).Info("Batch request completed",
		zap.String("batch_id", result.BatchID.String()),
		zap.Int("files", result.Summary.Total),
		zap.Bool("has_problems", result.HasProblems()),
	)
	h.Success(c, newBatchResponse(result))
}

// parseForm parses the multipart body and answers the request itself on failure
func (h *ConvertHandler) parseForm(c *gin.Context) (*multipart.Form, bool) {
	form, err := c.MultipartForm()
	if err == nil {
		return form, true
	}
	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) {
		h.RequestTooLarge(c)
		return nil, false
	}
	h.BadRequest(c, "expected a multipart/form-data body: "+err.Error())
	return nil, false
}

// options reads proceed_anyway from the form or query string
func (h *ConvertHandler) options(c *gin.Context) (convertapp.Options, error) {
	opts := convertapp.Options{ProceedAnyway: h.proceedDefault}
	raw, ok := c.GetPostForm("proceed_anyway")
	if !ok {
		raw, ok = c.GetQuery("proceed_anyway")
	}
	if !ok || raw == "" {
		return opts, nil
	}
	proceed, err := strconv.ParseBool(raw)
	if err != nil {
		return opts, fmt.Errorf("proceed_anyway must be a boolean, got %q", raw)
	}
	opts.ProceedAnyway = proceed
	return opts, nil
}

func readUpload(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload %s: %w", fh.Filename, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read upload %s: %w", fh.Filename, err)
	}
	return data, nil
}
