package uniquest_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/uniquest/uniquest"
)

func TestMessageTypeSwitch_Exhaustive(t *testing.T) {
	t.Parallel()
	messages := []uniquest.Message{
		uniquest.UserMessage{Content: "hello"},
		uniquest.AssistantMessage{Content: "hi"},
	}
	for _, msg := range messages {
		switch msg.(type) {
		case uniquest.UserMessage:
		case uniquest.AssistantMessage:
		default:
			t.Fatalf("unexpected message type: %T", msg)
		}
	}
}

func TestMessage_Role(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		msg  uniquest.Message
		want uniquest.Role
	}{
		{"UserMessage", uniquest.UserMessage{}, uniquest.RoleUser},
		{"AssistantMessage", uniquest.AssistantMessage{}, uniquest.RoleAssistant},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.msg.Role())
		})
	}
}

func TestStatus_String(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "idle", uniquest.StatusIdle.String())
	assert.Equal(t, "pending", uniquest.StatusPending.String())
	assert.Equal(t, "success", uniquest.StatusSuccess.String())
	assert.Equal(t, "error", uniquest.StatusError.String())
	assert.Equal(t, "unknown", uniquest.Status(42).String())
}
