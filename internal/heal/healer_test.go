package heal

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"queuay-worker/internal/models"
)

func TestExtractJSON(t *testing.T) {
	raw := `{"type":"selector","proposed":"#login-btn","confidence":0.9}`

	tests := []struct {
		name  string
		input string
	}{
		{"bare json", raw},
		{"json fence", "Here is the fix:\n```json\n" + raw + "\n```"},
		{"plain fence", "```\n" + raw + "\n```"},
		{"padded", "  \n" + raw + "\n  "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			extracted := extractJSON(tt.input)

			var proposal models.HealProposal
			require.NoError(t, json.Unmarshal([]byte(extracted), &proposal))
			assert.Equal(t, models.HealCategorySelector, proposal.Category)
			assert.Equal(t, "#login-btn", proposal.Proposed)
			assert.InDelta(t, 0.9, proposal.Confidence, 0.001)
		})
	}
}

func TestExtractJSONGarbage(t *testing.T) {
	extracted := extractJSON("sorry, I cannot help with that")

	var proposal models.HealProposal
	assert.Error(t, json.Unmarshal([]byte(extracted), &proposal))
}
