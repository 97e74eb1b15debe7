package voxelcore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChatBackend_AddMessageFansOutToBothBuffers(t *testing.T) {
	cb := NewChatBackend(nil)
	cb.AddMessage("alice", "hello")

	require.EqualValues(t, 1, cb.Console.LineCount())
	require.EqualValues(t, 1, cb.Recent.LineCount())
	assert.Equal(t, "hello", cb.Console.Line(0).Text)
	assert.Equal(t, "hello", cb.Recent.Line(0).Text)
}

func TestChatBackend_GetRecentChatJoinsWithNewlines(t *testing.T) {
	cb := NewChatBackend(nil)
	cb.AddMessage("", "first")
	cb.AddMessage("", "second")

	assert.Equal(t, "first\nsecond", cb.GetRecentChat())
}

func TestChatBackend_StepAgesOutRecentMessages(t *testing.T) {
	cb := NewChatBackend(nil)
	cb.AddMessage("", "old")
	cb.Step(DefaultRecentMaxAge + 1)

	assert.EqualValues(t, 0, cb.Recent.LineCount())
	assert.EqualValues(t, 1, cb.Console.LineCount())
}

func TestChatBackend_ReformatForwardsToConsole(t *testing.T) {
	cb := NewChatBackend(nil)
	cb.Reformat(5, 30)
	cb.AddMessage("", "hello")

	assert.EqualValues(t, 5, cb.Console.Rows())
	require.NotEmpty(t, cb.Console.formatted)
}

func TestChatBackend_AddLegacyMessageWithName(t *testing.T) {
	cb := NewChatBackend(nil)
	cb.AddLegacyMessage("<bob> hi there")

	assert.Equal(t, "bob", cb.Console.Line(0).Name)
	assert.Equal(t, "hi there", cb.Console.Line(0).Text)
}

func TestChatBackend_AddLegacyMessageWithoutPrefixIsServerMessage(t *testing.T) {
	cb := NewChatBackend(nil)
	cb.AddLegacyMessage("the server has restarted")

	assert.Equal(t, "", cb.Console.Line(0).Name)
	assert.Equal(t, "the server has restarted", cb.Console.Line(0).Text)
}

func TestChatBackend_ConsoleScrollbackBound(t *testing.T) {
	cb := NewChatBackend(nil)
	for i := 0; i < int(DefaultConsoleScrollback)+10; i++ {
		cb.AddMessage("", "x")
	}
	assert.EqualValues(t, DefaultConsoleScrollback, cb.Console.LineCount())
}
