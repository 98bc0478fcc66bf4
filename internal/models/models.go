package models

import (
	"time"

	"github.com/google/uuid"
)

// RunStatus is the lifecycle status of a test run.
type RunStatus string

const (
	RunStatusPending   RunStatus = "pending"
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
	RunStatusCancelled RunStatus = "cancelled"
)

// Terminal reports whether the status can no longer change.
func (s RunStatus) Terminal() bool {
	return s == RunStatusCompleted || s == RunStatusFailed || s == RunStatusCancelled
}

// TriggerType identifies what created a run.
type TriggerType string

const (
	TriggerManual    TriggerType = "manual"
	TriggerScheduled TriggerType = "scheduled"
	TriggerAPI       TriggerType = "api"
	TriggerCI        TriggerType = "ci"
)

// Story last-run results.
const (
	LastResultPassed = "passed"
	LastResultFailed = "failed"
)

// Run is one execution of a selected set of stories against one environment.
// Created by a trigger, mutated only by the orchestrator, terminal once
// completed/failed/cancelled. Invariant: passed + failed <= total.
type Run struct {
	ID             uuid.UUID   `db:"id"`
	OrganizationID uuid.UUID   `db:"organization_id"`
	AppID          uuid.UUID   `db:"app_id"`
	EnvironmentID  uuid.UUID   `db:"environment_id"`
	TriggerType    TriggerType `db:"trigger_type"`
	Status         RunStatus   `db:"status"`
	StoriesTotal   int         `db:"stories_total"`
	StoriesPassed  int         `db:"stories_passed"`
	StoriesFailed  int         `db:"stories_failed"`
	StoriesSkipped int         `db:"stories_skipped"`
	DurationMs     *int64      `db:"duration_ms"`
	StartedAt      *time.Time  `db:"started_at"`
	CompletedAt    *time.Time  `db:"completed_at"`
	CreatedAt      time.Time   `db:"created_at"`
}

// Environment is the target the stories run against.
type Environment struct {
	ID        uuid.UUID `db:"id"`
	AppID     uuid.UUID `db:"app_id"`
	Name      string    `db:"name"`
	BaseURL   string    `db:"base_url"`
	IsDefault bool      `db:"is_default"`
	CreatedAt time.Time `db:"created_at"`
}

// Step is one atomic browser interaction. Immutable during execution.
type Step struct {
	Action      string `json:"action"`
	Element     string `json:"element,omitempty"`
	Selector    string `json:"selector,omitempty"`
	Value       string `json:"value,omitempty"`
	Description string `json:"description,omitempty"`
}

// Target returns the locator for the step: the explicit selector when
// present, otherwise the element description.
func (s Step) Target() string {
	if s.Selector != "" {
		return s.Selector
	}
	return s.Element
}

// VerificationType is the kind of post-condition check.
type VerificationType string

const (
	VerificationURL     VerificationType = "url"
	VerificationElement VerificationType = "element"
	VerificationContent VerificationType = "content"
	VerificationVisual  VerificationType = "visual"
)

// Verification is one declared success condition evaluated after all steps.
type Verification struct {
	Type     VerificationType `json:"type"`
	Target   string           `json:"target,omitempty"`
	Expected string           `json:"expected"`
}

// Outcome is a story's declared success state.
type Outcome struct {
	Description   string         `json:"description"`
	Verifications []Verification `json:"verifications"`
}

// Story is an ordered step sequence plus a declared outcome. Read-only to
// the engine except for the last-run fields.
type Story struct {
	ID          uuid.UUID
	JourneyID   uuid.UUID
	JourneyName string
	Name        string
	Title       string
	Steps       []Step
	Outcome     Outcome
	Position    int
	IsEnabled   bool
	LastRunAt   *time.Time
	LastResult  *string
}

// StepResult is the outcome of the final attempt of one step.
type StepResult struct {
	Step       int    `json:"step"`
	Action     string `json:"action"`
	Passed     bool   `json:"passed"`
	DurationMs int64  `json:"duration_ms"`
	Error      string `json:"error,omitempty"`
}

// HealCategory classifies what kind of fix a heal proposal suggests.
type HealCategory string

const (
	HealCategorySelector HealCategory = "selector"
	HealCategoryFlow     HealCategory = "flow"
	HealCategoryContent  HealCategory = "content"
	HealCategoryNone     HealCategory = ""
)

// HealProposal is an AI-suggested fix for a failing step. Advisory only:
// the engine never applies it to the story definition. AutoApply marks
// proposals whose confidence clears the automatic-application threshold.
type HealProposal struct {
	Category   HealCategory `json:"type"`
	Original   string       `json:"original"`
	Proposed   string       `json:"proposed"`
	Line       int          `json:"line,omitempty"`
	Confidence float64      `json:"confidence"`
	Reasoning  string       `json:"reasoning"`
	AutoApply  bool         `json:"auto_apply,omitempty"`
}

// ExecutionResult is what the story runner hands back for one story.
type ExecutionResult struct {
	Passed        bool
	DurationMs    int64
	Steps         []StepResult
	Error         string
	ScreenshotURL string
	ConsoleErrors []string
	HealProposal  *HealProposal
	Retries       int
}

// StoryResult is the persisted record of one story within one run.
// Append-only; created exactly once per story per run.
type StoryResult struct {
	ID            uuid.UUID
	RunID         uuid.UUID
	StoryID       uuid.UUID
	JourneyName   string
	StoryName     string
	Passed        bool
	DurationMs    int64
	Steps         []StepResult
	Error         string
	ScreenshotURL string
	ConsoleErrors []string
	HealProposal  *HealProposal
	Retries       int
	CreatedAt     time.Time
}

// ScheduledJob is a recurring run definition driven by a cron expression.
type ScheduledJob struct {
	ID             uuid.UUID
	OrganizationID uuid.UUID
	AppID          uuid.UUID
	EnvironmentID  uuid.UUID
	Name           string
	CronExpression string
	Timezone       string
	JourneyIDs     []uuid.UUID
	IsEnabled      bool
	NextRunAt      *time.Time
	LastRunAt      *time.Time
	CreatedAt      time.Time
}
