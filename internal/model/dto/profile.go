package dto

// SubmitFiles 提交成功后返回的文档 URL
type SubmitFiles struct {
	IdentityProof       string   `json:"identityProof"`
	MedicalLicense      string   `json:"medicalLicense"`
	AdditionalDocuments []string `json:"additionalDocuments"`
}

// SubmitResult 提交端点的成功响应体
type SubmitResult struct {
	Message string      `json:"message"`
	Files   SubmitFiles `json:"files"`
}
