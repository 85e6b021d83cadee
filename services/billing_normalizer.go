package services

import (
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/BillChill/billchill-backend/pkg/jsonextract"
	"github.com/BillChill/billchill-backend/pkg/valueobjects"
	"github.com/BillChill/billchill-backend/types"
)

// UnexpectedFormatExplanation replaces the explanation when the audit model
// did not return a JSON object.
const UnexpectedFormatExplanation = "Model returned unexpected format."

var noOverchargesPattern = regexp.MustCompile(`(?i)\bno overcharges? detected\b`)

// NormalizeBillingAnalysis coerces audit model output into a BillingAnalysis.
// It always returns a usable value; fields that cannot be read are left nil
// or empty and overcharge entries without a service and a reason are dropped.
func NormalizeBillingAnalysis(raw string) *types.BillingAnalysis {
	analysis := &types.BillingAnalysis{
		Overcharges:  make([]types.OverchargeLine, 0),
		RawModelText: raw,
	}

	data, ok := jsonextract.ExtractObject(raw)
	if !ok {
		analysis.DiscountExplanation = UnexpectedFormatExplanation
		return analysis
	}

	analysis.StateAbbr = normalizeStateAbbr(data["state_abbr"])
	analysis.TotalEligibleDiscountPercent = normalizePercent(data["total_eligible_discount_percent"])
	analysis.DiscountExplanation = strings.TrimSpace(stringify(data["discount_explanation"]))

	entries, _ := data["overcharges"].([]interface{})
	for _, entry := range entries {
		if line, ok := normalizeOvercharge(entry); ok {
			analysis.Overcharges = append(analysis.Overcharges, line)
		}
	}
	return analysis
}

// LegacyOverchargesFound interprets a free-text audit answer. Any non-empty
// text counts as a finding unless it says "no overcharges detected".
func LegacyOverchargesFound(text string) bool {
	if text == "" {
		return false
	}
	return !noOverchargesPattern.MatchString(text)
}

func normalizeStateAbbr(v interface{}) *string {
	s, ok := v.(string)
	if !ok {
		return nil
	}
	runes := []rune(strings.ToUpper(strings.TrimSpace(s)))
	if len(runes) < 2 {
		return nil
	}
	abbr := string(runes[:2])
	return &abbr
}

func normalizePercent(v interface{}) *float64 {
	var f float64
	switch val := v.(type) {
	case float64:
		f = val
	case string:
		cleaned := strings.TrimSpace(strings.ReplaceAll(strings.TrimSpace(val), "%", ""))
		if cleaned == "" {
			return nil
		}
		parsed, err := strconv.ParseFloat(cleaned, 64)
		if err != nil {
			return nil
		}
		f = parsed
	default:
		return nil
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

func normalizeOvercharge(entry interface{}) (types.OverchargeLine, bool) {
	obj, ok := entry.(map[string]interface{})
	if !ok {
		return types.OverchargeLine{}, false
	}

	service, _ := obj["service"].(string)
	reason, _ := obj["reason"].(string)
	if strings.TrimSpace(service) == "" || strings.TrimSpace(reason) == "" {
		return types.OverchargeLine{}, false
	}

	line := types.OverchargeLine{
		LineNumber: obj["line_number"],
		Service:    service,
		Reason:     reason,
	}
	if amount, ok := valueobjects.ParseAmount(obj["amount"]); ok {
		f := valueobjects.AmountFloat(amount)
		line.Amount = &f
	}
	return line, true
}

// stringify renders a scalar the way it would be read back from JSON.
func stringify(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		b, err := json.Marshal(val)
		if err != nil {
			return ""
		}
		return string(b)
	}
}
