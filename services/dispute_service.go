package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/BillChill/billchill-backend/internal/metrics"
	"github.com/BillChill/billchill-backend/logger"
	"github.com/BillChill/billchill-backend/pkg/llm"
	"github.com/BillChill/billchill-backend/pkg/valueobjects"
	"github.com/BillChill/billchill-backend/types"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ErrMissingOpenAIKey is returned by every model call when no key is set.
var ErrMissingOpenAIKey = errors.New("Missing OPENAI_API_KEY")

const auditSystemInstructions = "You are a hospital billing auditor AI. OUTPUT ONLY VALID JSON. No commentary outside JSON. " +
	"Return an object with keys: state_abbr (string|null), total_eligible_discount_percent (number|null), " +
	"discount_explanation (string), overcharges (array). Each overcharge is an object with: line_number (string|number|null), " +
	"service (string), amount (number|null), reason (string). Amount MUST be numeric (no $ or commas) if possible. " +
	"Do not include percent signs in total_eligible_discount_percent. Empty lists are allowed."

// auditExampleJSON is shown to the model as the expected shape.
const auditExampleJSON = `{"state_abbr":"CA","total_eligible_discount_percent":45,` +
	`"discount_explanation":"Applied state charity care 30% + provider financial aid 15%.",` +
	`"overcharges":[{"line_number":12,"service":"MRI Scan","amount":1800.0,"reason":"Exceeds contract allowed amount per Section 4.A"}]}`

// DisputeService runs the bill audit and drafts dispute letters.
type DisputeService struct {
	client  ChatCompleter
	model   string
	metrics *metrics.Metrics
	log     *zap.SugaredLogger
}

func NewDisputeService(client ChatCompleter, model string) *DisputeService {
	return &DisputeService{
		client:  client,
		model:   model,
		metrics: metrics.Get(),
		log:     logger.GetLogger().Named("dispute"),
	}
}

// Analyze asks the audit model for overcharges and discount eligibility and
// normalizes its answer. Errors come only from the model call itself.
func (s *DisputeService) Analyze(ctx context.Context, in types.AnalyzeBillInput) (*types.BillingAnalysis, error) {
	raw, err := s.complete(ctx, []llm.Message{
		{Role: "system", Content: auditSystemInstructions},
		{Role: "user", Content: buildAuditPrompt(in)},
	})
	if err != nil {
		return nil, err
	}

	analysis := NormalizeBillingAnalysis(strings.TrimSpace(raw))
	s.metrics.BillAnalyses.WithLabelValues(strconv.FormatBool(analysis.OverchargesFound())).Inc()
	s.log.Infow("Bill analysis complete",
		"overcharges", len(analysis.Overcharges),
		"state", analysis.StateAbbr,
		"structured", analysis.DiscountExplanation != UnexpectedFormatExplanation,
	)
	return analysis, nil
}

// DraftLetter writes a dispute letter from the analysis summary.
func (s *DisputeService) DraftLetter(ctx context.Context, patientName, hospitalName string, analysis *types.BillingAnalysis) (string, error) {
	prompt := fmt.Sprintf(`
Draft a formal, concise yet firm letter to dispute identified overcharges for patient %s at %s.
Include citation to financial assistance and discount eligibility if relevant. Maintain professional tone.

Structured Analysis Summary:
%s
`, patientName, hospitalName, LetterSummary(analysis))

	return s.complete(ctx, []llm.Message{{Role: "user", Content: prompt}})
}

func (s *DisputeService) complete(ctx context.Context, messages []llm.Message) (string, error) {
	if !s.client.HasAPIKey() {
		return "", ErrMissingOpenAIKey
	}

	start := time.Now()
	content, err := s.client.ChatCompletion(ctx, llm.ChatRequest{
		Model:       s.model,
		Messages:    messages,
		Temperature: 0,
	})
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	s.metrics.UpstreamDuration.WithLabelValues("openai", outcome).Observe(time.Since(start).Seconds())

	if errors.Is(err, llm.ErrMissingAPIKey) {
		return "", ErrMissingOpenAIKey
	}
	return content, err
}

func buildAuditPrompt(in types.AnalyzeBillInput) string {
	var b strings.Builder
	fmt.Fprintf(&b, "\nHospital Rules Document (extract):\n%s\n\n", in.RulesText)
	fmt.Fprintf(&b, "Patient Bill (extract):\n%s\n\n", in.BillText)
	b.WriteString("Context:\n")
	fmt.Fprintf(&b, "Household Size: %d\n", in.HouseholdSize)
	fmt.Fprintf(&b, "Annual Income: %s\n", strconv.FormatFloat(in.AnnualIncome, 'f', -1, 64))
	fmt.Fprintf(&b, "ZIP Code: %s\n\n", in.ZipCode)
	b.WriteString("Tasks:\n")
	b.WriteString("1. Identify any overcharges referencing rule rationale precisely (section/page if available).\n")
	b.WriteString("2. Infer two-letter state from ZIP (or null if unsure).\n")
	b.WriteString("3. Estimate total eligible discount considering state programs, provider policy, and federal (CMS) where applicable. Use numeric percent without % symbol.\n")
	b.WriteString("4. Provide concise multi-line discount_explanation summarizing derivation components.\n")
	b.WriteString("5. Ensure overcharges array is empty when none found.\n\n")
	fmt.Fprintf(&b, "Return ONLY JSON with exactly these keys. Example structure: %s\n", auditExampleJSON)
	return b.String()
}

// LegacySummary renders the analysis in the plain-text format older clients
// display as ai_result.
func LegacySummary(analysis *types.BillingAnalysis) string {
	var lines []string
	if len(analysis.Overcharges) > 0 {
		lines = append(lines, "Overcharges:")
		for _, oc := range analysis.Overcharges {
			lines = append(lines, formatOverchargeLine(oc, "(n/a)"))
		}
	} else {
		lines = append(lines, "Overcharges: No overcharges detected")
	}
	if analysis.StateAbbr != nil {
		lines = append(lines, "State: "+*analysis.StateAbbr)
	}
	if analysis.TotalEligibleDiscountPercent != nil {
		lines = append(lines, formatDiscount(*analysis.TotalEligibleDiscountPercent))
	}
	if analysis.DiscountExplanation != "" {
		lines = append(lines, strings.TrimSpace(analysis.DiscountExplanation))
	}
	return strings.Join(lines, "\n")
}

// LetterSummary renders the analysis for the letter drafting prompt.
func LetterSummary(analysis *types.BillingAnalysis) string {
	if analysis == nil {
		return "No analysis available."
	}

	var lines []string
	if analysis.StateAbbr != nil {
		lines = append(lines, "State: "+*analysis.StateAbbr)
	}
	if analysis.TotalEligibleDiscountPercent != nil {
		lines = append(lines, formatDiscount(*analysis.TotalEligibleDiscountPercent))
	}
	if analysis.DiscountExplanation != "" {
		lines = append(lines, "Discount Explanation:\n"+strings.TrimSpace(analysis.DiscountExplanation))
	}
	if len(analysis.Overcharges) == 0 {
		lines = append(lines, "Overcharges: None detected")
	} else {
		lines = append(lines, "Overcharges:")
		for _, oc := range analysis.Overcharges {
			lines = append(lines, formatOverchargeLine(oc, "(amount n/a)"))
		}
	}
	return strings.Join(lines, "\n")
}

func formatOverchargeLine(oc types.OverchargeLine, missingAmount string) string {
	amount := missingAmount
	if oc.Amount != nil {
		amount = valueobjects.FormatUSD(decimal.NewFromFloat(*oc.Amount))
	}
	return fmt.Sprintf("- Line %s: %s %s | Reason: %s", formatLineNumber(oc.LineNumber), oc.Service, amount, oc.Reason)
}

func formatLineNumber(v interface{}) string {
	if v == nil {
		return "n/a"
	}
	return stringify(v)
}

// formatDiscount truncates toward zero, so 45.9 is shown as 45%.
func formatDiscount(percent float64) string {
	return fmt.Sprintf("Total Eligible Discount: %d%%", int64(math.Trunc(percent)))
}
