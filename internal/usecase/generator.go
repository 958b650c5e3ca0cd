package usecase

import (
	"context"
	"strings"
	"sync"
	"time"

	"cv-builder/internal/domain"
	"cv-builder/internal/logger"
	"cv-builder/internal/state"
	"cv-builder/pkg/ai"

	"github.com/google/uuid"
)

// TextClient is the generative-text collaborator.
type TextClient interface {
	GenerateProfessionalSummary(ctx context.Context, jobTitle string, data domain.CVData) (string, error)
	GenerateExperienceDescription(ctx context.Context, position, company string) (string, error)
	SuggestSkills(ctx context.Context, jobTitle string) (ai.SkillSuggestions, error)
	Ready() error
}

// Generator runs generation requests in the background and applies their
// results to the store as ordinary actions. A failed request leaves the
// target field unchanged.
type Generator struct {
	client  TextClient
	store   *state.Store
	tasks   *TaskRegistry
	timeout time.Duration
	wg      sync.WaitGroup
}

func NewGenerator(client TextClient, store *state.Store, tasks *TaskRegistry, timeout time.Duration) *Generator {
	if timeout <= 0 {
		timeout = 90 * time.Second
	}
	return &Generator{client: client, store: store, tasks: tasks, timeout: timeout}
}

func (g *Generator) Tasks() *TaskRegistry { return g.tasks }

// Wait blocks until every started task has finished.
func (g *Generator) Wait() { g.wg.Wait() }

func (g *Generator) StartSummary(jobTitle string) (Task, error) {
	jobTitle = strings.TrimSpace(jobTitle)
	if jobTitle == "" {
		return Task{}, &ErrValidation{Field: "jobTitle", Message: "required"}
	}
	data := g.store.State().Data
	return g.start(TaskSummary, jobTitle, func(ctx context.Context) (bool, error) {
		summary, err := g.client.GenerateProfessionalSummary(ctx, jobTitle, data)
		if err != nil {
			return false, err
		}
		g.store.Dispatch(state.UpdateProfessionalSummary{Summary: summary})
		return false, nil
	})
}

// StartExperience generates a description for the experience item id from
// its position and company.
func (g *Generator) StartExperience(id string) (Task, error) {
	var exp *domain.Experience
	for _, e := range g.store.State().Data.Experience {
		if e.ID == id {
			e := e
			exp = &e
			break
		}
	}
	if exp == nil {
		return Task{}, &ErrNotFound{Kind: "experience", ID: id}
	}
	if strings.TrimSpace(exp.Position) == "" || strings.TrimSpace(exp.Company) == "" {
		return Task{}, &ErrValidation{Field: "experience", Message: "position and company are required"}
	}

	position, company := exp.Position, exp.Company
	return g.start(TaskExperience, id, func(ctx context.Context) (bool, error) {
		desc, err := g.client.GenerateExperienceDescription(ctx, position, company)
		if err != nil {
			return false, err
		}
		g.store.Dispatch(state.UpdateExperience{ID: id, Patch: state.ExperiencePatch{Description: &desc}})
		return false, nil
	})
}

// StartSkills appends every suggested skill to the CV with a fresh id.
func (g *Generator) StartSkills(jobTitle string) (Task, error) {
	jobTitle = strings.TrimSpace(jobTitle)
	if jobTitle == "" {
		return Task{}, &ErrValidation{Field: "jobTitle", Message: "required"}
	}
	return g.start(TaskSkills, jobTitle, func(ctx context.Context) (bool, error) {
		res, err := g.client.SuggestSkills(ctx, jobTitle)
		if err != nil {
			return false, err
		}
		for _, s := range res.Skills {
			g.store.Dispatch(state.AddSkill{Item: domain.Skill{
				ID:       uuid.NewString(),
				Name:     s.Name,
				Level:    s.Level,
				Category: s.Category,
			}})
		}
		return res.Fallback, nil
	})
}

func (g *Generator) start(kind TaskKind, target string, run func(ctx context.Context) (bool, error)) (Task, error) {
	if err := g.client.Ready(); err != nil {
		return Task{}, err
	}
	task := g.tasks.Start(kind, target)
	g.wg.Add(1)
	go func() {
		defer g.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), g.timeout)
		defer cancel()

		fallback, err := run(ctx)
		if err != nil {
			logger.Warn().Err(err).Str("task_id", task.ID).Str("kind", string(kind)).Msg("generation failed")
			g.tasks.Finish(task.ID, ai.UserMessage(err), false)
			return
		}
		logger.Info().Str("task_id", task.ID).Str("kind", string(kind)).Bool("fallback", fallback).Msg("generation finished")
		g.tasks.Finish(task.ID, "", fallback)
	}()
	return task, nil
}
