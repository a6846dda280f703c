package flow

// Event is something the user did on the currently open step. Each concrete
// event carries the data that step collects; the transition function decides
// where the flow goes next.
type Event interface {
	// Name returns the event code used in audit logs.
	Name() string
}

// JobResponse answers "Have you found a job yet?" on the initial step.
type JobResponse struct {
	FoundJob bool
}

func (JobResponse) Name() string { return "job_response" }

// SurveySubmitted carries the congrats-survey answers (found-a-job branch).
type SurveySubmitted struct {
	FoundWithMigrateMate bool
	RolesApplied         string
	CompaniesEmailed     string
	CompaniesInterviewed string
}

func (SurveySubmitted) Name() string { return "survey_submitted" }

// FeedbackSubmitted carries the free-text feedback. The text must already be
// sanitized; the machine only routes it.
type FeedbackSubmitted struct {
	Text string
}

func (FeedbackSubmitted) Name() string { return "feedback_submitted" }

// VisaAnswer is the submit on the visa-offer or downsell-offer step.
type VisaAnswer struct {
	HasLawyer bool
	VisaType  string
}

func (VisaAnswer) Name() string { return "visa_answer" }

// DownsellDecision is accept/decline on the job-search-downsell step.
type DownsellDecision struct {
	Accepted bool
}

func (DownsellDecision) Name() string { return "downsell_decision" }

// JobSearchSurveyCompleted completes the job-search survey, either by
// accepting the 50%-off offer shown alongside it or by submitting the answers.
type JobSearchSurveyCompleted struct {
	AcceptedOffer        bool
	RolesApplied         string
	CompaniesEmailed     string
	CompaniesInterviewed string
}

func (JobSearchSurveyCompleted) Name() string { return "job_search_survey_completed" }

// ReasonSubmitted completes the cancellation-reason step, either by accepting
// the 50%-off offer or by confirming the cancellation with a reason.
type ReasonSubmitted struct {
	AcceptedOffer bool
	Reason        string
	Details       string
}

func (ReasonSubmitted) Name() string { return "reason_submitted" }

// Finish is the single action on the subscription-continued step.
type Finish struct{}

func (Finish) Name() string { return "finish" }

// Back returns to the immediately preceding step in the path actually taken.
type Back struct{}

func (Back) Name() string { return "back" }
