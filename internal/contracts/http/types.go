package http

type issueContractReq struct {
	ProposalID string `json:"proposalId"`
}
