package constants

// RunStatus is the outcome recorded on a pipeline result.
type RunStatus string

const (
	RunStatusPlanned    RunStatus = "PLANNED"     // plan text generated
	RunStatusPlanFailed RunStatus = "PLAN_FAILED" // generation failed, placeholder plan used
)
