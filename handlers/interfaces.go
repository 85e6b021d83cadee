package handlers

import (
	"context"

	"github.com/BillChill/billchill-backend/types"
)

// HospitalSearcher is the hospital price search used by HospitalHandler.
type HospitalSearcher interface {
	Search(ctx context.Context, req types.HospitalSearchRequest) ([]types.HospitalResult, error)
}

// BillAuditor runs the bill audit and drafts dispute letters.
type BillAuditor interface {
	Analyze(ctx context.Context, in types.AnalyzeBillInput) (*types.BillingAnalysis, error)
	DraftLetter(ctx context.Context, patientName, hospitalName string, analysis *types.BillingAnalysis) (string, error)
}

// ProviderCatalog maps insurance provider names to their policy PDFs.
type ProviderCatalog interface {
	Names() []string
	RulesPath(name string) (string, bool)
}

// HealthChecker reports component health for the readiness probe.
type HealthChecker interface {
	CheckHealth(ctx context.Context) types.HealthCheck
}
