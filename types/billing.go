package types

// OverchargeLine is one disputed line of a bill. LineNumber keeps whatever
// the model produced (string, number or nil).
type OverchargeLine struct {
	LineNumber interface{} `json:"line_number"`
	Service    string      `json:"service"`
	Amount     *float64    `json:"amount"`
	Reason     string      `json:"reason"`
}

// BillingAnalysis is the normalized result of a bill audit. RawModelText is
// kept for diagnostics and never sent to clients.
type BillingAnalysis struct {
	StateAbbr                    *string          `json:"state_abbr"`
	TotalEligibleDiscountPercent *float64         `json:"total_eligible_discount_percent"`
	DiscountExplanation          string           `json:"discount_explanation"`
	Overcharges                  []OverchargeLine `json:"overcharges"`
	RawModelText                 string           `json:"-"`
}

// OverchargesFound reports whether there is anything to dispute.
func (a *BillingAnalysis) OverchargesFound() bool {
	return a != nil && len(a.Overcharges) > 0
}

// AnalyzeBillInput carries everything the audit prompt needs.
type AnalyzeBillInput struct {
	RulesText     string
	BillText      string
	HouseholdSize int
	AnnualIncome  float64
	ZipCode       string
}

// DisputeAnalysisResponse is the body of POST /api/dispute/analyze.
type DisputeAnalysisResponse struct {
	Providers     []string         `json:"providers"`
	AIResult      string           `json:"ai_result"`
	AIStructured  *BillingAnalysis `json:"ai_structured"`
	DisputeLetter string           `json:"dispute_letter"`
}

type ProviderListResponse struct {
	Status    string   `json:"status"`
	Providers []string `json:"providers"`
}

// Provider maps a selectable insurer or payer to its charge policy PDF.
type Provider struct {
	Name string `json:"name" yaml:"name"`
	File string `json:"file" yaml:"file"`
}
