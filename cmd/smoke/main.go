// Command smoke runs the generation and print pipeline end to end against a
// local mock of the chat service. It needs no API key and no Chrome.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"strings"
	"time"

	"cv-builder/internal/domain"
	"cv-builder/internal/logger"
	"cv-builder/internal/render"
	"cv-builder/internal/state"
	"cv-builder/internal/usecase"
	"cv-builder/pkg/ai"

	"golang.org/x/sync/errgroup"
)

const mockSkills = "```json\n" + `[
  {"name": "Go", "level": "Experto", "category": "Técnica"},
  {"name": "PostgreSQL", "level": "Avanzado", "category": "Técnica"},
  {"name": "Docker", "level": "Avanzado", "category": "Técnica"},
  {"name": "Kubernetes", "level": "Intermedio", "category": "Técnica"},
  {"name": "gRPC", "level": "Intermedio", "category": "Técnica"},
  {"name": "Comunicación", "level": "Avanzado", "category": "Blanda"},
  {"name": "Mentoría", "level": "Intermedio", "category": "Blanda"},
  {"name": "Resolución de problemas", "level": "Experto", "category": "Blanda"}
]` + "\n```"

func startMockAI() (*http.Server, string, error) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/chat", func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		var req struct {
			Input string `json:"input"`
		}
		_ = json.Unmarshal(body, &req)
		if req.Input == "" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		var output string
		switch {
		case strings.Contains(req.Input, "Sugiere habilidades"):
			output = mockSkills
		case strings.Contains(req.Input, "experiencia laboral"):
			output = "Diseñé y mantuve servicios de facturación en Go con 99,9% de disponibilidad. " +
				"Reduje la latencia media un 35% migrando consultas críticas a PostgreSQL particionado."
		default:
			output = "Ingeniero backend con 6 años de experiencia construyendo servicios distribuidos en Go. " +
				"Enfocado en fiabilidad, observabilidad y entrega continua."
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"agent": "mock", "output": output})
	})

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, "", err
	}
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("mock ai server failed")
		}
	}()
	return srv, "http://" + ln.Addr().String(), nil
}

func main() {
	logger.Init(logger.Config{Level: "info", Format: "pretty"})
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "smoke failed: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	srv, url, err := startMockAI()
	if err != nil {
		return err
	}
	defer srv.Shutdown(context.Background())

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := ai.New(ctx, ai.Options{Provider: ai.ProviderChat, ServiceURL: url, Timeout: 10 * time.Second})
	if err != nil {
		return err
	}

	initial := domain.EmptyState()
	initial.Data.PersonalInfo.FullName = "Carlos Ruiz"
	initial.Data.Experience = []domain.Experience{{
		ID:        "exp1",
		Company:   "Pagos Norte",
		Position:  "Ingeniero Backend",
		StartDate: "2021-04",
		Current:   true,
	}}
	store := state.NewStore(initial)
	gen := usecase.NewGenerator(client, store, usecase.NewTaskRegistry(), 20*time.Second)

	var tasks []usecase.Task
	for _, start := range []func() (usecase.Task, error){
		func() (usecase.Task, error) { return gen.StartSummary("Ingeniero Backend") },
		func() (usecase.Task, error) { return gen.StartExperience("exp1") },
		func() (usecase.Task, error) { return gen.StartSkills("Ingeniero Backend") },
	} {
		t, err := start()
		if err != nil {
			return err
		}
		tasks = append(tasks, t)
	}
	gen.Wait()

	for _, t := range tasks {
		done, _ := gen.Tasks().Get(t.ID)
		fmt.Printf("task %-10s %s %s\n", done.Kind, done.Status, done.Error)
		if done.Status != usecase.TaskSucceeded {
			return fmt.Errorf("task %s did not succeed", done.Kind)
		}
	}

	exporter := usecase.NewExporter(render.MustNew(), nil, nil, nil, 1)
	st := store.State()

	// every template must render the generated content
	g, _ := errgroup.WithContext(ctx)
	for _, tpl := range []string{domain.TemplateClassic, domain.TemplateModern, domain.TemplateCreative} {
		g.Go(func() error {
			s := st.Clone()
			s.Settings.Template = tpl
			html, err := exporter.PrintView(s)
			if err != nil {
				return fmt.Errorf("%s: %w", tpl, err)
			}
			if !strings.Contains(html, st.Data.ProfessionalSummary) {
				return fmt.Errorf("%s: summary missing from print view", tpl)
			}
			fmt.Printf("template %-8s print view %d bytes\n", tpl, len(html))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	fmt.Printf("summary: %s\n", st.Data.ProfessionalSummary)
	fmt.Printf("experience: %s\n", st.Data.Experience[0].Description)
	fmt.Printf("skills: %d\n", len(st.Data.Skills))
	fmt.Println("smoke OK")
	return nil
}
