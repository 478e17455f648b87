package http

type createProposalReq struct {
	CustomerName   string  `json:"customerName"`
	CustomerEmail  string  `json:"customerEmail"`
	InsuranceType  string  `json:"insuranceType"`
	CoverageAmount float64 `json:"coverageAmount"`
	PremiumAmount  float64 `json:"premiumAmount"`
}

type updateStatusReq struct {
	Status          string `json:"status"`
	RejectionReason string `json:"rejectionReason"`
}
