package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/BillChill/billchill-backend/config"
	apperrors "github.com/BillChill/billchill-backend/errors"
	"github.com/BillChill/billchill-backend/internal/storage"
	"github.com/BillChill/billchill-backend/logger"
	"github.com/BillChill/billchill-backend/pkg/pdftext"
	"github.com/BillChill/billchill-backend/services"
	"github.com/BillChill/billchill-backend/types"
	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	defaultPatientName   = "John Doe"
	customProviderName   = "Custom Provider"
	defaultHouseholdSize = 1
	multipartMemory      = 32 << 20
	pdfMIME              = "application/pdf"
	msgBillRequired      = "Please upload a patient bill PDF."
	msgBillNotPDF        = "Only PDF files are supported for now."
	msgRulesNotPDF       = "Rules file must be a PDF."
	msgNoRulesSelected   = "No rules PDF selected or provider invalid."
)

type DisputeHandler struct {
	auditor        BillAuditor
	providers      ProviderCatalog
	fileStorage    storage.FileStorage
	maxUploadBytes int64
	uniqueNames    bool
	log            *zap.SugaredLogger

	// Swappable in tests.
	extractBytes func(data []byte) (string, error)
	extractFile  func(path string) (string, error)
}

func NewDisputeHandler(auditor BillAuditor, providers ProviderCatalog, fileStorage storage.FileStorage, cfg config.DisputeConfig) *DisputeHandler {
	return &DisputeHandler{
		auditor:        auditor,
		providers:      providers,
		fileStorage:    fileStorage,
		maxUploadBytes: int64(cfg.MaxUploadMB) << 20,
		uniqueNames:    cfg.UniqueUploadNames,
		log:            logger.GetLogger().Named("dispute_handler"),
		extractBytes:   pdftext.ExtractBytes,
		extractFile:    pdftext.ExtractFile,
	}
}

// ListProviders godoc
// @Summary List providers with built-in charge policies
// @Tags dispute
// @Produce json
// @Success 200 {object} types.ProviderListResponse "Provider names"
// @Router /api/dispute [get]
func (h *DisputeHandler) ListProviders(c *gin.Context) {
	c.JSON(http.StatusOK, types.ProviderListResponse{
		Status:    "ok",
		Providers: h.providers.Names(),
	})
}

// Analyze godoc
// @Summary Audit a bill against a charge policy
// @Description Extracts text from the bill and the uploaded or provider policy PDF, asks the audit model for overcharges and a discount estimate, and drafts a dispute letter when overcharges are found.
// @Tags dispute
// @Accept multipart/form-data
// @Produce json
// @Param bill_pdf formData file true "Patient bill PDF"
// @Param rules_pdf formData file false "Charge policy PDF, overrides provider"
// @Param provider formData string false "Provider with a built-in policy"
// @Param household_size formData int false "Household size" default(1)
// @Param annual_income formData number false "Annual household income in USD"
// @Param zip_code formData string false "Patient ZIP code"
// @Param patient_name formData string false "Name used in the letter" default(John Doe)
// @Success 200 {object} types.DisputeAnalysisResponse "Audit result and optional letter"
// @Failure 400 {object} middleware.ErrorResponse "Missing bill, unreadable PDF or unknown provider"
// @Failure 415 {object} middleware.ErrorResponse "Upload is not named .pdf"
// @Failure 429 {object} middleware.ErrorResponse "Rate limit exceeded"
// @Failure 500 {object} middleware.ErrorResponse "Model processing failed"
// @Router /api/dispute/analyze [post]
func (h *DisputeHandler) Analyze(c *gin.Context) {
	ctx := c.Request.Context()

	if h.maxUploadBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes)
	}
	if err := c.Request.ParseMultipartForm(multipartMemory); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			_ = c.Error(apperrors.ValidationFailed(
				fmt.Sprintf("Upload exceeds the %d MB limit.", h.maxUploadBytes>>20), err.Error()))
			return
		}
		_ = c.Error(apperrors.ValidationFailed("Invalid multipart form", err.Error()))
		return
	}

	provider := c.PostForm("provider")
	input := types.AnalyzeBillInput{
		HouseholdSize: parseHouseholdSize(c.PostForm("household_size")),
		AnnualIncome:  parseAnnualIncome(c.PostForm("annual_income")),
		ZipCode:       c.PostForm("zip_code"),
	}

	billHeader := formFile(c.Request, "bill_pdf")
	if billHeader == nil {
		_ = c.Error(apperrors.ValidationFailed(msgBillRequired, ""))
		return
	}
	if !hasPDFExtension(billHeader.Filename) {
		_ = c.Error(apperrors.UnsupportedMediaType(msgBillNotPDF))
		return
	}

	billData, err := h.acceptUpload(c, billHeader, "bill")
	if err != nil {
		_ = c.Error(err)
		return
	}
	input.BillText, err = h.extractBytes(billData)
	if err != nil {
		_ = c.Error(apperrors.ValidationFailed(fmt.Sprintf("Failed to read bill PDF: %v", err), ""))
		return
	}

	rulesHeader := formFile(c.Request, "rules_pdf")
	switch {
	case rulesHeader != nil:
		if !hasPDFExtension(rulesHeader.Filename) {
			_ = c.Error(apperrors.UnsupportedMediaType(msgRulesNotPDF))
			return
		}
		rulesData, err := h.acceptUpload(c, rulesHeader, "rules")
		if err != nil {
			_ = c.Error(err)
			return
		}
		input.RulesText, err = h.extractBytes(rulesData)
		if err != nil {
			_ = c.Error(apperrors.ValidationFailed(fmt.Sprintf("Failed to read rules PDF: %v", err), ""))
			return
		}
	default:
		rulesPath, ok := h.providers.RulesPath(provider)
		if !ok {
			_ = c.Error(apperrors.ValidationFailed(msgNoRulesSelected, ""))
			return
		}
		input.RulesText, err = h.extractFile(rulesPath)
		if err != nil {
			_ = c.Error(apperrors.ValidationFailed(fmt.Sprintf("Failed to read rules PDF: %v", err), ""))
			return
		}
	}

	analysis, err := h.auditor.Analyze(ctx, input)
	if err != nil {
		h.log.Errorw("Bill analysis failed", "error", err)
		_ = c.Error(apperrors.InternalServerError(fmt.Sprintf("AI processing failed: %v", err)))
		return
	}

	letter := ""
	if analysis.OverchargesFound() {
		patientName, ok := c.GetPostForm("patient_name")
		if !ok {
			patientName = defaultPatientName
		}
		hospitalName := provider
		if hospitalName == "" {
			hospitalName = customProviderName
		}

		letter, err = h.auditor.DraftLetter(ctx, patientName, hospitalName, analysis)
		if err != nil {
			h.log.Errorw("Dispute letter drafting failed", "error", err)
			_ = c.Error(apperrors.InternalServerError(fmt.Sprintf("AI processing failed: %v", err)))
			return
		}
	}

	c.JSON(http.StatusOK, types.DisputeAnalysisResponse{
		Providers:     h.providers.Names(),
		AIResult:      services.LegacySummary(analysis),
		AIStructured:  analysis,
		DisputeLetter: letter,
	})
}

// acceptUpload reads an uploaded file, checks that its content really is a
// PDF and persists it. Stored uploads are kept. Content that is not a PDF is
// reported as a read failure of the named document, like any other
// extraction error.
func (h *DisputeHandler) acceptUpload(c *gin.Context, header *multipart.FileHeader, document string) ([]byte, error) {
	file, err := header.Open()
	if err != nil {
		return nil, apperrors.ValidationFailed("Failed to open uploaded file", err.Error())
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, apperrors.ValidationFailed("Failed to read uploaded file", err.Error())
	}

	detected := mimetype.Detect(data)
	if !detected.Is(pdfMIME) {
		h.log.Infow("Rejected upload with non-PDF content",
			"filename", header.Filename,
			"detected_mime", detected.String(),
		)
		return nil, apperrors.ValidationFailed(
			fmt.Sprintf("Failed to read %s PDF: content is not a PDF", document), "detected "+detected.String())
	}

	key := storage.SanitizeFilename(header.Filename)
	if h.uniqueNames {
		key = uuid.New().String() + "_" + key
	}
	if err := h.fileStorage.Save(c.Request.Context(), key, bytes.NewReader(data), int64(len(data))); err != nil {
		h.log.Errorw("Failed to store upload", "key", key, "error", err)
		return nil, apperrors.InternalServerError("Failed to store uploaded file")
	}
	h.log.Debugw("Stored upload", "location", h.fileStorage.GetPath(c.Request.Context(), key), "bytes", len(data))

	return data, nil
}

func formFile(r *http.Request, field string) *multipart.FileHeader {
	if r.MultipartForm == nil {
		return nil
	}
	headers := r.MultipartForm.File[field]
	if len(headers) == 0 || headers[0].Filename == "" {
		return nil
	}
	return headers[0]
}

func hasPDFExtension(filename string) bool {
	return strings.HasSuffix(strings.ToLower(filename), ".pdf")
}

func parseHouseholdSize(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return defaultHouseholdSize
	}
	return n
}

func parseAnnualIncome(raw string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0
	}
	return f
}
