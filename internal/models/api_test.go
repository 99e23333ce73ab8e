package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompletionRequestValidate(t *testing.T) {
	tests := []struct {
		name       string
		req        CompletionRequest
		wantFields []string
	}{
		{
			name: "valid request",
			req:  CompletionRequest{Message: "Hello", Username: "alice"},
		},
		{
			name:       "empty message",
			req:        CompletionRequest{Message: "", Username: "alice"},
			wantFields: []string{"message"},
		},
		{
			name:       "whitespace message",
			req:        CompletionRequest{Message: "   ", Username: "alice"},
			wantFields: []string{"message"},
		},
		{
			name:       "empty username",
			req:        CompletionRequest{Message: "Hello", Username: ""},
			wantFields: []string{"username"},
		},
		{
			name:       "both empty",
			req:        CompletionRequest{},
			wantFields: []string{"message", "username"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := tt.req.Validate()
			var fields []string
			for _, e := range errs {
				assert.NotEmpty(t, e.Reason)
				fields = append(fields, e.Field)
			}
			assert.Equal(t, tt.wantFields, fields)
		})
	}
}

func TestValidateIsPure(t *testing.T) {
	req := CompletionRequest{Message: "  hi  ", Username: " alice "}
	req.Validate()
	assert.Equal(t, "  hi  ", req.Message)
	assert.Equal(t, " alice ", req.Username)
}

func TestRoleValid(t *testing.T) {
	assert.True(t, RoleUser.Valid())
	assert.True(t, RoleAssistant.Valid())
	assert.False(t, Role("system").Valid())
	assert.False(t, Role("").Valid())
}
