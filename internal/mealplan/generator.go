package mealplan

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"
)

/* =================================================================================
							EXTERNAL COLLABORATORS
	The pipeline depends on interfaces; the openrouter and tavily packages
	provide the production implementations. Tests substitute fakes.
=================================================================================*/

// ChatMessage is one turn of the completion request.
type ChatMessage struct {
	Role    string `json:"role"` // "system", "user", "assistant"
	Content string `json:"content"`
}

// GenerateOptions are the sampling parameters forwarded to the model.
type GenerateOptions struct {
	Temperature      float64
	MaxTokens        int
	TopP             float64
	FrequencyPenalty float64
}

type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Completion is a successful model response.
type Completion struct {
	Content string
	Model   string
	Usage   Usage
}

// TextGenerator is the opaque completion service. Implementations classify
// HTTP 429 as ErrRateLimited and everything else as ErrGenerationFailed, and
// never retry internally.
type TextGenerator interface {
	Invoke(ctx context.Context, messages []ChatMessage, opts GenerateOptions) (*Completion, error)
}

// SearchResult is one hit from the evidence search service.
type SearchResult struct {
	Title   string  `json:"title"`
	URL     string  `json:"url"`
	Content string  `json:"content"`
	Score   float64 `json:"score"`
}

// EvidenceSearcher is the opaque search service used to attach citation URLs.
// Configured distinguishes "not set up, skip entirely" from a runtime failure.
type EvidenceSearcher interface {
	Configured() bool
	Search(ctx context.Context, query string, maxResults int) ([]SearchResult, error)
}

// Sampling parameters per operation. Single-item calls get a smaller token
// budget than full-plan generation.
var (
	planGenerateOptions  = GenerateOptions{Temperature: 0.7, MaxTokens: 8000, TopP: 1}
	editGenerateOptions  = GenerateOptions{Temperature: 0.7, MaxTokens: 2000, TopP: 1}
	snackGenerateOptions = GenerateOptions{Temperature: 0.7, MaxTokens: 1500, TopP: 1}
)

// Pipeline wires the prompt builder, generation client, parser, and evidence
// annotator into the three generation operations. It holds no mutable state;
// persistence belongs to the caller (validate-then-commit).
type Pipeline struct {
	generator TextGenerator
	evidence  EvidenceSearcher
}

func NewPipeline(generator TextGenerator, evidence EvidenceSearcher) *Pipeline {
	return &Pipeline{generator: generator, evidence: evidence}
}

// GenerateDayPlan runs the full one-day generation: targets -> prompt ->
// model -> parse -> evidence annotation. Nothing is persisted here; on any
// error the caller has nothing to roll back.
func (p *Pipeline) GenerateDayPlan(ctx context.Context, settings Settings, customPrompt string) (*GeneratedDay, error) {
	targets := CalculateTargets(settings.Biometrics, settings.PrimaryGoal)
	prompt := BuildPlanPrompt(settings, targets)

	user := prompt.User
	if customPrompt != "" {
		user = "User's custom request: " + customPrompt + "\n\n" + user
	}

	completion, err := p.generator.Invoke(ctx, []ChatMessage{
		{Role: "system", Content: prompt.System},
		{Role: "user", Content: user},
	}, planGenerateOptions)
	if err != nil {
		return nil, err
	}

	day, err := ParseDayPlan(completion.Content)
	if err != nil {
		logRawOutput(err)
		return nil, err
	}

	p.AnnotateDay(ctx, day)
	return day, nil
}

// GenerateEditedItem regenerates a single meal/snack from a natural-language
// instruction. The returned item has a fresh ID; the edit engine decides
// which fields to carry onto the stored record.
func (p *Pipeline) GenerateEditedItem(ctx context.Context, item PlanItem, instruction string, settings Settings) (*PlanItem, error) {
	prompt := BuildEditPrompt(item, instruction, settings)

	completion, err := p.generator.Invoke(ctx, []ChatMessage{
		{Role: "system", Content: prompt.System},
		{Role: "user", Content: prompt.User},
	}, editGenerateOptions)
	if err != nil {
		return nil, err
	}

	updated, err := ParseItem(completion.Content, item.Kind)
	if err != nil {
		logRawOutput(err)
		return nil, err
	}
	return updated, nil
}

// GenerateSnack produces one standalone snack for a timing slot and calorie
// target.
func (p *Pipeline) GenerateSnack(ctx context.Context, settings Settings, prefs SnackPreferences) (*PlanItem, error) {
	prompt := BuildSnackPrompt(settings, prefs)

	completion, err := p.generator.Invoke(ctx, []ChatMessage{
		{Role: "system", Content: prompt.System},
		{Role: "user", Content: prompt.User},
	}, snackGenerateOptions)
	if err != nil {
		return nil, err
	}

	snack, err := ParseItem(completion.Content, KindSnack)
	if err != nil {
		logRawOutput(err)
		return nil, err
	}

	p.annotateItems(ctx, []*PlanItem{snack})
	return snack, nil
}

// logRawOutput keeps the unparseable completion in the logs for debugging
// without ever surfacing it to end users.
func logRawOutput(err error) {
	var ioe *InvalidOutputError
	if errors.As(err, &ioe) {
		log.Debug().Str("raw_output", ioe.RawOutput).Msg("Model returned unparseable completion")
	}
}
