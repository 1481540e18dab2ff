package form

// 表单状态机。固定四步，向前推进要过当前步的 schema，向后随意；
// 最后一步用弱守卫（两份必传文件 + 同意条款）而不是完整 schema，
// 这是沿用下来的产品行为，不要顺手收紧。

// Phase 状态机所处阶段
type Phase string

const (
	PhaseFilling          Phase = "filling"
	PhaseSubmitting       Phase = "submitting"
	PhaseSubmitted        Phase = "submitted"
	PhaseSubmissionFailed Phase = "submission_failed"
)

// Step 表单步骤描述
type Step struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Steps 固定的步骤序列，进程生命周期内不变。
var Steps = []Step{
	{Title: "Personal Information", Description: "Tell us about yourself"},
	{Title: "Professional Information", Description: "Your qualifications and specialties"},
	{Title: "Practice Details", Description: "Where you practice medicine"},
	{Title: "Verification Documents", Description: "Upload your credentials for verification"},
}

// State 一次引导会话的可变状态：当前步 + 已合并的累积数据。
type State struct {
	StepIndex int         `json:"step_index"`
	Phase     Phase       `json:"phase"`
	Data      Data        `json:"data"`
	Sync      AddressSync `json:"sync"`
	LastError string      `json:"last_error,omitempty"`
}

// NewState 从第 0 步、空累积数据开始。
func NewState() *State {
	return &State{StepIndex: 0, Phase: PhaseFilling}
}

// IsFinalStep 是否处于最后一步
func (s *State) IsFinalStep() bool {
	return s.StepIndex == len(Steps)-1
}

// CurrentStep 当前步骤描述
func (s *State) CurrentStep() Step {
	return Steps[s.StepIndex]
}

// Next 用当前步的实时值尝试前进。
// 非最后一步：过当前步 schema，成功则合并进累积数据并推进；
// 失败返回字段错误，停在原地，累积数据不丢。
// 最后一步：只检查两份必传文件句柄和 termsAgreed，通过则进入 Submitting。
func (s *State) Next(live Data) Errors {
	if s.Phase == PhaseSubmitting || s.Phase == PhaseSubmitted {
		return Errors{{Path: "", Message: "Submission already in progress"}}
	}

	if s.IsFinalStep() {
		s.Data.VerificationDocuments = live.VerificationDocuments
		if !s.HasRequiredFiles() {
			return Errors{{
				Path:    "verificationDocuments",
				Message: "Please ensure all required documents are uploaded and terms are accepted",
			}}
		}
		s.Phase = PhaseSubmitting
		s.LastError = ""
		return nil
	}

	switch s.StepIndex {
	case 0:
		if errs := ValidatePersonalInfo(live.PersonalInfo); !errs.Empty() {
			return errs
		}
		s.Data.PersonalInfo = live.PersonalInfo
	case 1:
		if errs := ValidateProfessionalInfo(live.ProfessionalInfo); !errs.Empty() {
			return errs
		}
		s.Data.ProfessionalInfo = live.ProfessionalInfo
	case 2:
		if errs := ValidatePracticeDetails(live.PracticeDetails); !errs.Empty() {
			return errs
		}
		s.Data.PracticeDetails = live.PracticeDetails
	}

	s.StepIndex++
	return nil
}

// HasRequiredFiles 最后一步的弱守卫：两份文件句柄在、条款已同意。
// 其余最后一步字段的有效性在这里故意不管。
func (s *State) HasRequiredFiles() bool {
	v := s.Data.VerificationDocuments
	return v.IdentityProof != nil && v.MedicalLicense != nil && v.TermsAgreed
}

// Back 无条件后退，已填内容全部保留。
func (s *State) Back() {
	if s.Phase == PhaseSubmitting || s.Phase == PhaseSubmitted {
		return
	}
	if s.StepIndex > 0 {
		s.StepIndex--
	}
	if s.Phase == PhaseSubmissionFailed {
		s.Phase = PhaseFilling
	}
}

// MarkSubmitted 提交被端点接受。累积数据清空，会话可以丢弃。
func (s *State) MarkSubmitted() {
	s.Phase = PhaseSubmitted
	s.Data = Data{}
	s.LastError = ""
}

// MarkSubmissionFailed 端点拒绝或网络失败。回到最后一步，
// 数据原样保留，用户可以直接重试。
func (s *State) MarkSubmissionFailed(reason string) {
	s.Phase = PhaseSubmissionFailed
	s.StepIndex = len(Steps) - 1
	s.LastError = reason
}

// CanRetry 失败态永远允许重试
func (s *State) CanRetry() bool {
	return s.Phase == PhaseSubmissionFailed
}
