package messaging

import "github.com/google/uuid"

// Queue topology. The run queue dead-letters rejected messages so failed
// payloads stay inspectable instead of vanishing.
const (
	RunQueueName  = "test_runs"
	RunDLXName    = "test_runs_dlx"
	RunDLQName    = "test_runs_dlq"
	dlqRoutingKey = "dlq"
)

// RunTaskPayload is the message enqueued per run. Story and journey
// selectors are optional; both empty means every enabled story of the app.
type RunTaskPayload struct {
	TestRunID      uuid.UUID   `json:"test_run_id"`
	OrganizationID uuid.UUID   `json:"organization_id"`
	AppID          uuid.UUID   `json:"app_id"`
	EnvironmentID  uuid.UUID   `json:"environment_id"`
	StoryIDs       []uuid.UUID `json:"story_ids,omitempty"`
	JourneyIDs     []uuid.UUID `json:"journey_ids,omitempty"`
}
