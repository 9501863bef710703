package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skillswap/pkg/errors"
)

func TestMessageUseCase_PostRequiresAcceptedChat(t *testing.T) {
	f := newChatFixture(t)
	messages := NewMessageUseCase(f.stores.requests, f.stores.messages, f.users, f.notifier)
	ctx := context.Background()

	pending := f.create(t)
	_, err := messages.PostMessage(ctx, f.sender.ID, pending.ID, "hello")
	assert.True(t, errors.Is(err, errors.CodeInvalidState), "pending: %v", err)

	_, err = f.requests.Respond(ctx, f.receiver.ID, pending.ID, ActionReject)
	require.NoError(t, err)
	_, err = messages.PostMessage(ctx, f.sender.ID, pending.ID, "hello")
	assert.True(t, errors.Is(err, errors.CodeInvalidState), "rejected: %v", err)

	other := f.addCourse(t, f.receiver.ID, "Advanced Python", "Python")
	accepted, err := f.requests.Create(ctx, f.sender.ID, CreateChatRequestInput{ReceiverID: f.receiver.ID, CourseID: other.ID})
	require.NoError(t, err)
	_, err = f.requests.Respond(ctx, f.receiver.ID, accepted.ID, ActionAccept)
	require.NoError(t, err)

	view, err := messages.PostMessage(ctx, f.sender.ID, accepted.ID, "hello")
	require.NoError(t, err)
	assert.Equal(t, "hello", view.Content)
	assert.Equal(t, "Sam", view.Sender.Name)
	assert.Empty(t, view.Sender.Email)
}

func TestMessageUseCase_PostErrorsInOrder(t *testing.T) {
	f := newChatFixture(t)
	messages := NewMessageUseCase(f.stores.requests, f.stores.messages, f.users, f.notifier)
	outsider := f.addUser(t, "Olga", nil, nil)
	ctx := context.Background()

	_, err := messages.PostMessage(ctx, f.sender.ID, "missing", "hi")
	assert.True(t, errors.Is(err, errors.CodeNotFound))
	_, err = messages.PostMessage(ctx, f.sender.ID, "missing", "")
	assert.True(t, errors.Is(err, errors.CodeNotFound), "empty content does not mask a missing chat")

	// A pending chat reports INVALID_STATE even to outsiders.
	view := f.create(t)
	_, err = messages.PostMessage(ctx, outsider.ID, view.ID, "hi")
	assert.True(t, errors.Is(err, errors.CodeInvalidState))
	_, err = messages.PostMessage(ctx, f.sender.ID, view.ID, "  ")
	assert.True(t, errors.Is(err, errors.CodeInvalidState))

	_, err = f.requests.Respond(ctx, f.receiver.ID, view.ID, ActionAccept)
	require.NoError(t, err)
	_, err = messages.PostMessage(ctx, outsider.ID, view.ID, "hi")
	assert.True(t, errors.Is(err, errors.CodeForbidden))
	_, err = messages.PostMessage(ctx, outsider.ID, view.ID, "")
	assert.True(t, errors.Is(err, errors.CodeForbidden))

	_, err = messages.PostMessage(ctx, f.sender.ID, view.ID, "   ")
	assert.True(t, errors.Is(err, errors.CodeValidation))
}

func TestMessageUseCase_BroadcastFollowsPersistence(t *testing.T) {
	f := newChatFixture(t)
	messages := NewMessageUseCase(f.stores.requests, f.stores.messages, f.users, f.notifier)
	ctx := context.Background()

	view := f.create(t)
	_, err := f.requests.Respond(ctx, f.receiver.ID, view.ID, ActionAccept)
	require.NoError(t, err)

	var storedAtBroadcast int
	f.notifier.onBroadcast = func(chatID string) {
		thread, err := f.stores.messages.ListByChatRequest(ctx, chatID)
		require.NoError(t, err)
		storedAtBroadcast = len(thread)
	}

	_, err = messages.PostMessage(ctx, f.receiver.ID, view.ID, "welcome")
	require.NoError(t, err)

	assert.Equal(t, 1, storedAtBroadcast)
	require.Len(t, f.notifier.broadcasts, 1)
	assert.Equal(t, view.ID, f.notifier.broadcasts[0].Target)
	assert.Equal(t, EventNewMessage, f.notifier.broadcasts[0].Event)
}

func TestMessageUseCase_FetchMarksOtherParticipantsMessagesRead(t *testing.T) {
	f := newChatFixture(t)
	messages := NewMessageUseCase(f.stores.requests, f.stores.messages, f.users, f.notifier)
	ctx := context.Background()

	view := f.create(t)
	_, err := f.requests.Respond(ctx, f.receiver.ID, view.ID, ActionAccept)
	require.NoError(t, err)

	_, err = messages.PostMessage(ctx, f.sender.ID, view.ID, "one")
	require.NoError(t, err)
	_, err = messages.PostMessage(ctx, f.sender.ID, view.ID, "two")
	require.NoError(t, err)
	_, err = messages.PostMessage(ctx, f.receiver.ID, view.ID, "three")
	require.NoError(t, err)

	first, err := messages.FetchMessages(ctx, f.receiver.ID, view.ID)
	require.NoError(t, err)
	require.Len(t, first, 3)
	assert.Equal(t, []string{"one", "two", "three"}, contents(first))
	assert.True(t, first[0].Read)
	assert.True(t, first[1].Read)
	assert.False(t, first[2].Read, "own message is not marked read")

	second, err := messages.FetchMessages(ctx, f.receiver.ID, view.ID)
	require.NoError(t, err)
	require.Len(t, second, 3)
	for i := range first {
		assert.Equal(t, first[i].ID, second[i].ID)
		assert.Equal(t, first[i].Read, second[i].Read)
	}
}

func TestMessageUseCase_FetchChecks(t *testing.T) {
	f := newChatFixture(t)
	messages := NewMessageUseCase(f.stores.requests, f.stores.messages, f.users, f.notifier)
	outsider := f.addUser(t, "Olga", nil, nil)
	ctx := context.Background()

	_, err := messages.FetchMessages(ctx, f.sender.ID, "missing")
	assert.True(t, errors.Is(err, errors.CodeNotFound))

	view := f.create(t)
	_, err = messages.FetchMessages(ctx, outsider.ID, view.ID)
	assert.True(t, errors.Is(err, errors.CodeForbidden))

	// Reading does not require an accepted chat.
	thread, err := messages.FetchMessages(ctx, f.sender.ID, view.ID)
	require.NoError(t, err)
	assert.Empty(t, thread)
}

func contents(views []*MessageView) []string {
	out := make([]string, 0, len(views))
	for _, v := range views {
		out = append(out, v.Content)
	}
	return out
}
