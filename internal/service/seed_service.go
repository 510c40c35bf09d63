package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/datatypes"

	"github.com/campusconnect/campus-api/internal/models"
	"github.com/campusconnect/campus-api/internal/repository"
)

// ErrAlreadySeeded indicates sample data exists and seeding was skipped.
var ErrAlreadySeeded = errors.New("opportunities already exist, skipping seed")

// SeedService loads sample opportunities into an empty database.
type SeedService interface {
	SeedOpportunities(ctx context.Context) (int64, error)
}

type seedService struct {
	repo   repository.OpportunityRepository
	logger zerolog.Logger
}

// NewSeedService constructs the seeding service.
func NewSeedService(repo repository.OpportunityRepository, logger zerolog.Logger) SeedService {
	return &seedService{
		repo:   repo,
		logger: logger.With().Str("component", "seed_service").Logger(),
	}
}

func (s *seedService) SeedOpportunities(ctx context.Context) (int64, error) {
	count, err := s.repo.Count(ctx)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		return 0, ErrAlreadySeeded
	}

	affected, err := s.repo.CreateBatch(ctx, sampleOpportunities())
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to seed opportunities")
		return 0, err
	}

	s.logger.Info().Int64("created", affected).Msg("sample opportunities seeded")
	return affected, nil
}

func sampleOpportunity(title, company, description, category, location, logo string, skills []string, deadlineDays int) models.Opportunity {
	deadline := time.Now().UTC().AddDate(0, 0, deadlineDays)
	return models.Opportunity{
		Title:          title,
		Company:        company,
		Description:    description,
		Category:       category,
		Location:       location,
		LogoURL:        logo,
		SkillsRequired: datatypes.JSONSlice[string](skills),
		Deadline:       &deadline,
		Status:         models.OpportunityOpen,
		PostedAt:       time.Now().UTC(),
	}
}

func sampleOpportunities() []models.Opportunity {
	return []models.Opportunity{
		sampleOpportunity("Frontend Intern", "Google",
			"Join our team to build amazing web experiences. Work with React, TypeScript, and modern web technologies.",
			models.CategoryInternship, "Mountain View, CA / Remote",
			"https://upload.wikimedia.org/wikipedia/commons/0/0f/Google_Logo.png",
			[]string{"JavaScript", "React", "CSS"}, 30),
		sampleOpportunity("Backend Developer", "Microsoft",
			"Build scalable backend services using Node.js and cloud technologies. Ideal for passionate developers.",
			models.CategoryJob, "Seattle, WA",
			"https://upload.wikimedia.org/wikipedia/commons/4/44/Microsoft_logo.svg",
			[]string{"Node.js", "Python", "Database Design"}, 45),
		sampleOpportunity("Full Stack Development", "Amazon",
			"Develop full-stack applications with React and Django. Work on high-impact projects.",
			models.CategoryInternship, "Seattle, WA / Remote",
			"https://upload.wikimedia.org/wikipedia/commons/a/a9/Amazon_logo.svg",
			[]string{"React", "Python", "Django"}, 20),
		sampleOpportunity("HackFest 2026", "Campus Tech Club",
			"48-hour hackathon where you can build innovative projects. Cash prizes and internship opportunities!",
			models.CategoryHackathon, "On-campus", "",
			[]string{"Any"}, 10),
		sampleOpportunity("Data Science Intern", "Facebook",
			"Work on machine learning projects at scale. Analyze billions of data points to improve user experiences.",
			models.CategoryInternship, "Menlo Park, CA",
			"https://upload.wikimedia.org/wikipedia/commons/0/05/Facebook_logo_%282019%29.png",
			[]string{"Python", "Machine Learning", "SQL"}, 25),
		sampleOpportunity("Mobile App Developer", "Apple",
			"Create delightful iOS apps. Learn from the best in the industry.",
			models.CategoryJob, "Cupertino, CA",
			"https://upload.wikimedia.org/wikipedia/commons/f/fa/Apple_logo_black.svg",
			[]string{"Swift", "iOS", "UI/UX"}, 35),
		sampleOpportunity("DevOps Engineer", "Netflix",
			"Scale infrastructure to serve millions. Work with Kubernetes, Docker, and cloud platforms.",
			models.CategoryJob, "Los Gatos, CA / Remote",
			"https://upload.wikimedia.org/wikipedia/commons/0/08/Netflix_2015_logo.svg",
			[]string{"Docker", "Kubernetes", "Cloud", "Linux"}, 40),
		sampleOpportunity("AI/ML Researcher", "OpenAI",
			"Push the boundaries of artificial intelligence. Work on cutting-edge research.",
			models.CategoryJob, "San Francisco, CA",
			"https://upload.wikimedia.org/wikipedia/commons/4/4d/OpenAI_Logo.svg",
			[]string{"Python", "Machine Learning", "Data Science"}, 32),
		sampleOpportunity("QA Engineer", "LinkedIn",
			"Ensure quality at scale. Test features used by millions worldwide.",
			models.CategoryInternship, "Sunnyvale, CA",
			"https://upload.wikimedia.org/wikipedia/commons/c/ca/LinkedIn_logo_initials.png",
			[]string{"Testing", "Automation", "JavaScript"}, 22),
		sampleOpportunity("UI/UX Designer", "Airbnb",
			"Design beautiful and intuitive user experiences. Shape the future of travel.",
			models.CategoryInternship, "San Francisco, CA / Remote",
			"https://upload.wikimedia.org/wikipedia/commons/6/6e/Airbnb_logo.svg",
			[]string{"UI/UX", "Design", "Figma"}, 28),
		sampleOpportunity("Software Engineer", "Tesla",
			"Build autonomous driving software. Work on cutting-edge automotive technology.",
			models.CategoryJob, "Palo Alto, CA",
			"https://upload.wikimedia.org/wikipedia/commons/b/bb/Tesla_T_symbol.svg",
			[]string{"C++", "Python", "Robotics"}, 50),
		sampleOpportunity("Campus Ambassador Program", "GitHub",
			"Represent GitHub on your campus. Free resources, training, and networking opportunities.",
			models.CategoryEvent, "On-campus",
			"https://upload.wikimedia.org/wikipedia/commons/9/91/Octicons-mark-github.svg",
			[]string{"Any"}, 15),
	}
}
