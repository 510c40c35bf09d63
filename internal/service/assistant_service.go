package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/campusconnect/campus-api/internal/dto"
)

// Assistant conversation states.
const (
	StateWelcome           = "welcome"
	StateHelpCategory      = "help-category"
	StateComplaintCategory = "complaint-category"
	StateGuidanceCategory  = "guidance-category"
)

// Advisor answers free-form guidance questions with a language model.
type Advisor interface {
	Advise(ctx context.Context, question string, skills []string) (string, error)
}

// AssistantService drives the scripted help dialogue. Replies are
// deterministic per state and input; only guidance questions may be
// delegated to the advisor when one is configured.
type AssistantService interface {
	Chat(ctx context.Context, req dto.AssistantChatRequest) (dto.AssistantChatResponse, error)
}

type assistantService struct {
	advisor   Advisor
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewAssistantService constructs the assistant. advisor may be nil.
func NewAssistantService(advisor Advisor, validate *validator.Validate, logger zerolog.Logger) AssistantService {
	return &assistantService{
		advisor:   advisor,
		validator: validate,
		logger:    logger.With().Str("component", "assistant_service").Logger(),
	}
}

const welcomePrompt = "How can I assist you today?\nType: help / complaint / guidance"

func reply(state, text string) dto.AssistantChatResponse {
	return dto.AssistantChatResponse{Reply: text, State: state}
}

// closing appends the return-to-start prompt used after every terminal reply.
func closing(text string) dto.AssistantChatResponse {
	return reply(StateWelcome, text+"\n\nIs there anything else I can help you with?\nType: help / complaint / guidance")
}

func (s *assistantService) Chat(ctx context.Context, req dto.AssistantChatRequest) (dto.AssistantChatResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.AssistantChatResponse{}, err
	}

	state := req.State
	if state == "" {
		state = StateWelcome
	}
	input := strings.ToLower(strings.TrimSpace(req.Message))

	switch state {
	case StateHelpCategory:
		return s.helpCategory(input), nil
	case StateComplaintCategory:
		return s.complaintCategory(input), nil
	case StateGuidanceCategory:
		return s.guidanceCategory(ctx, input, req.Skills), nil
	default:
		return s.welcome(input), nil
	}
}

func (s *assistantService) welcome(input string) dto.AssistantChatResponse {
	switch {
	case strings.Contains(input, "help"):
		return reply(StateHelpCategory, "Sure, I will guide you.\nPlease choose your help category:\n"+
			"1. Account Help\n2. Opportunities Help\n3. Skill Match Help\n4. Resume and Profile Help\n5. Technical Issue\n6. Placement Guidance\nPlease enter the number.")
	case strings.Contains(input, "complaint"):
		return reply(StateComplaintCategory, "Sorry you are facing an issue.\nPlease choose complaint type:\n"+
			"1. Login/Register Problem\n2. Application Not Submitted\n3. Opportunity Not Visible\n4. Skill Match Error\n5. Website Bug\n6. Other\nPlease enter the number.")
	case strings.Contains(input, "guidance"):
		return reply(StateGuidanceCategory, "Are you looking for:\n1. Internship Guidance\n2. Placement Preparation\nPlease enter 1 or 2, or ask your question directly.")
	default:
		return reply(StateWelcome, "Please type: help / complaint / guidance")
	}
}

func (s *assistantService) helpCategory(input string) dto.AssistantChatResponse {
	switch input {
	case "1":
		return closing("Account Help selected.\nYou can reset your password from the login page and manage credentials on the Profile page.")
	case "2":
		return closing("Opportunities Help selected.\nListings are sorted by newest first; keep your skills updated to improve recommendations.")
	case "3":
		return closing("Skill match depends on your profile skills and required skills.\nTo improve it:\n- Add relevant technical skills\n- Keep your resume updated\n- Apply to matching opportunities")
	case "4":
		return closing("You can update resume and skills from the Profile page.\nComplete profile data improves recommendations.")
	case "5":
		return closing("Please describe the technical issue briefly via the support desk.\nOur support team will review it.")
	case "6":
		return closing("Placement guidance tips:\n- Practice coding and DSA daily\n- Prepare aptitude and communication\n- Build strong projects")
	default:
		return reply(StateHelpCategory, "Please enter a valid option (1-6).")
	}
}

func (s *assistantService) complaintCategory(input string) dto.AssistantChatResponse {
	switch input {
	case "1":
		return closing("Login/Register problem selected.\nTry resetting the password from the login page.\nIf it continues, contact the support desk.")
	case "2":
		return closing("Application Not Submitted.\nCheck your dashboard for submission confirmation.\nEnsure all required fields are filled.")
	case "3":
		return closing("Opportunity Not Visible.\nMake sure your skills are updated.\nListings are filtered by profile skills.")
	case "4":
		return closing("Skill Match Error.\nUpdate your profile skills carefully.\nRefresh after updating.")
	case "5":
		return closing("Website bug reported.\nPlease describe the issue in detail via the support desk.\nOur technical team will investigate.")
	case "6":
		return closing("For other complaints, contact the support desk.")
	default:
		return reply(StateComplaintCategory, "Please enter a valid option (1-6).")
	}
}

func (s *assistantService) guidanceCategory(ctx context.Context, input string, skills []string) dto.AssistantChatResponse {
	switch input {
	case "1":
		return closing("Internship guidance:\n- Build strong projects\n- Maintain your GitHub profile\n- Apply early and consistently\n- Learn industry-relevant skills")
	case "2":
		return closing("Placement preparation:\n- Practice coding daily\n- Prepare HR questions\n- Study core subjects\n- Attend mock interviews")
	default:
		if s.advisor != nil {
			answer, err := s.advisor.Advise(ctx, input, skills)
			if err == nil && strings.TrimSpace(answer) != "" {
				return closing(answer)
			}
			if err != nil {
				s.logger.Warn().Err(err).Msg("advisor request failed, using scripted reply")
			}
		}
		return reply(StateGuidanceCategory, "Please enter 1 or 2.")
	}
}
