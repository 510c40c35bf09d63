package service

import (
	"context"
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"

	"github.com/campusconnect/campus-api/internal/dto"
)

type stubAdvisor struct {
	answer string
	err    error
	asked  string
}

func (a *stubAdvisor) Advise(_ context.Context, question string, _ []string) (string, error) {
	a.asked = question
	return a.answer, a.err
}

func newAssistantFixture(advisor Advisor) AssistantService {
	return NewAssistantService(advisor, validator.New(), testLogger())
}

func TestAssistantWelcomeTransitions(t *testing.T) {
	svc := newAssistantFixture(nil)

	tests := []struct {
		message string
		state   string
	}{
		{"I need help", StateHelpCategory},
		{"I have a complaint", StateComplaintCategory},
		{"guidance please", StateGuidanceCategory},
	}
	for _, tc := range tests {
		resp, err := svc.Chat(context.Background(), dto.AssistantChatRequest{Message: tc.message})
		require.NoError(t, err)
		require.Equal(t, tc.state, resp.State)
		require.NotEmpty(t, resp.Reply)
	}
}

func TestAssistantWelcomeUnknownInput(t *testing.T) {
	svc := newAssistantFixture(nil)

	resp, err := svc.Chat(context.Background(), dto.AssistantChatRequest{Message: "what"})
	require.NoError(t, err)
	require.Equal(t, StateWelcome, resp.State)
	require.Contains(t, resp.Reply, "help / complaint / guidance")
}

func TestAssistantHelpCategorySelection(t *testing.T) {
	svc := newAssistantFixture(nil)

	resp, err := svc.Chat(context.Background(), dto.AssistantChatRequest{Message: "3", State: StateHelpCategory})
	require.NoError(t, err)
	require.Equal(t, StateWelcome, resp.State, "terminal replies return to the start")
	require.Contains(t, resp.Reply, "Skill match")

	resp, err = svc.Chat(context.Background(), dto.AssistantChatRequest{Message: "9", State: StateHelpCategory})
	require.NoError(t, err)
	require.Equal(t, StateHelpCategory, resp.State, "invalid options stay in the same state")
	require.Contains(t, resp.Reply, "valid option")
}

func TestAssistantComplaintCategorySelection(t *testing.T) {
	svc := newAssistantFixture(nil)

	resp, err := svc.Chat(context.Background(), dto.AssistantChatRequest{Message: "1", State: StateComplaintCategory})
	require.NoError(t, err)
	require.Equal(t, StateWelcome, resp.State)
	require.Contains(t, resp.Reply, "resetting the password")
}

func TestAssistantGuidanceScriptedReplies(t *testing.T) {
	svc := newAssistantFixture(nil)

	resp, err := svc.Chat(context.Background(), dto.AssistantChatRequest{Message: "1", State: StateGuidanceCategory})
	require.NoError(t, err)
	require.Contains(t, resp.Reply, "Internship guidance")

	resp, err = svc.Chat(context.Background(), dto.AssistantChatRequest{Message: "2", State: StateGuidanceCategory})
	require.NoError(t, err)
	require.Contains(t, resp.Reply, "Placement preparation")
}

func TestAssistantGuidanceUsesAdvisor(t *testing.T) {
	advisor := &stubAdvisor{answer: "Focus on distributed systems fundamentals."}
	svc := newAssistantFixture(advisor)

	resp, err := svc.Chat(context.Background(), dto.AssistantChatRequest{
		Message: "how do I prepare for backend roles?",
		Skills:  []string{"Go", "SQL"},
		State:   StateGuidanceCategory,
	})
	require.NoError(t, err)
	require.Contains(t, resp.Reply, "distributed systems")
	require.Equal(t, "how do i prepare for backend roles?", advisor.asked)
	require.Equal(t, StateWelcome, resp.State)
}

func TestAssistantGuidanceAdvisorFailureFallsBack(t *testing.T) {
	advisor := &stubAdvisor{err: errors.New("rate limited")}
	svc := newAssistantFixture(advisor)

	resp, err := svc.Chat(context.Background(), dto.AssistantChatRequest{
		Message: "free-form question",
		State:   StateGuidanceCategory,
	})
	require.NoError(t, err)
	require.Equal(t, StateGuidanceCategory, resp.State)
	require.Contains(t, resp.Reply, "1 or 2")
}

func TestAssistantDeterministicReplies(t *testing.T) {
	svc := newAssistantFixture(nil)

	first, err := svc.Chat(context.Background(), dto.AssistantChatRequest{Message: "help"})
	require.NoError(t, err)
	second, err := svc.Chat(context.Background(), dto.AssistantChatRequest{Message: "help"})
	require.NoError(t, err)
	require.Equal(t, first, second)
}
