package chat

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateConversation(t *testing.T) {
	tests := []struct {
		name    string
		turns   []Turn
		wantErr bool
		wantMsg string
	}{
		{
			name:    "empty conversation is valid",
			turns:   nil,
			wantErr: false,
		},
		{
			name: "system-only conversation is valid",
			turns: []Turn{
				{Role: RoleSystem, Content: "prompt"},
			},
			wantErr: false,
		},
		{
			name: "single user turn is valid",
			turns: []Turn{
				{Role: RoleUser, Content: "best cashback card?"},
			},
			wantErr: false,
		},
		{
			name: "alternating conversation ending on user is valid",
			turns: []Turn{
				{Role: RoleSystem, Content: "prompt"},
				{Role: RoleUser, Content: "hi"},
				{Role: RoleAssistant, Content: "hello"},
				{Role: RoleUser, Content: "best travel card?"},
			},
			wantErr: false,
		},
		{
			name: "repeated user turns rejected",
			turns: []Turn{
				{Role: RoleUser, Content: "one"},
				{Role: RoleUser, Content: "two"},
			},
			wantErr: true,
			wantMsg: "messages must alternate between user and assistant",
		},
		{
			name: "repeated assistant turns rejected",
			turns: []Turn{
				{Role: RoleUser, Content: "one"},
				{Role: RoleAssistant, Content: "a"},
				{Role: RoleAssistant, Content: "b"},
				{Role: RoleUser, Content: "two"},
			},
			wantErr: true,
			wantMsg: "messages must alternate between user and assistant",
		},
		{
			name: "system turns are ignored when checking alternation",
			turns: []Turn{
				{Role: RoleUser, Content: "one"},
				{Role: RoleSystem, Content: "mid-conversation system"},
				{Role: RoleAssistant, Content: "a"},
				{Role: RoleUser, Content: "two"},
			},
			wantErr: false,
		},
		{
			name: "conversation ending on assistant rejected",
			turns: []Turn{
				{Role: RoleUser, Content: "one"},
				{Role: RoleAssistant, Content: "a"},
			},
			wantErr: true,
			wantMsg: "last message must be from user",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateConversation(tt.turns)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}

			require.Error(t, err)
			var chatErr *ChatError
			require.True(t, errors.As(err, &chatErr))
			assert.Equal(t, ErrorTypeInvalidStructure, chatErr.Type)
			assert.Equal(t, tt.wantMsg, chatErr.Message)
		})
	}
}
