package domain

// RecruitmentStatus is the lifecycle state of a recruitment
type RecruitmentStatus int

const (
	RecruitmentDraft     RecruitmentStatus = 0
	RecruitmentOpen      RecruitmentStatus = 1
	RecruitmentClosed    RecruitmentStatus = 2
	RecruitmentCancelled RecruitmentStatus = 3
)

func (s RecruitmentStatus) String() string {
	switch s {
	case RecruitmentDraft:
		return "draft"
	case RecruitmentOpen:
		return "open"
	case RecruitmentClosed:
		return "closed"
	case RecruitmentCancelled:
		return "cancelled"
	}
	return "unknown"
}

// ApplicationStatus is the lifecycle state of an application
type ApplicationStatus int

const (
	ApplicationPending   ApplicationStatus = 0
	ApplicationApproved  ApplicationStatus = 1
	ApplicationRejected  ApplicationStatus = 2
	ApplicationWithdrawn ApplicationStatus = 3
)

func (s ApplicationStatus) String() string {
	switch s {
	case ApplicationPending:
		return "pending"
	case ApplicationApproved:
		return "approved"
	case ApplicationRejected:
		return "rejected"
	case ApplicationWithdrawn:
		return "withdrawn"
	}
	return "unknown"
}

// Occupying reports whether the application counts against the
// one-application-per-account rule
func (s ApplicationStatus) Occupying() bool {
	return s != ApplicationWithdrawn
}

// InterviewStatus is the lifecycle state of an interview
type InterviewStatus int

const (
	InterviewScheduled InterviewStatus = 0
	// InterviewInProgress is reserved; no transition enters it.
	InterviewInProgress InterviewStatus = 1
	InterviewCompleted  InterviewStatus = 2
	InterviewCancelled  InterviewStatus = 3
)

func (s InterviewStatus) String() string {
	switch s {
	case InterviewScheduled:
		return "scheduled"
	case InterviewInProgress:
		return "in_progress"
	case InterviewCompleted:
		return "completed"
	case InterviewCancelled:
		return "cancelled"
	}
	return "unknown"
}

// Occupying reports whether the interview counts against the
// one-interview-per-application rule
func (s InterviewStatus) Occupying() bool {
	return s != InterviewCancelled
}

// InterviewResult is the outcome recorded by the interviewer
type InterviewResult int

const (
	InterviewPass InterviewResult = 1
	InterviewFail InterviewResult = 2
)

// Valid reports whether r is a known result
func (r InterviewResult) Valid() bool {
	return r == InterviewPass || r == InterviewFail
}
