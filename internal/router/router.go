// Package router resolves which external model and sampling temperature a
// task uses, and builds the ordered fallback chain of models tried for one
// logical request.
package router

import "github.com/studyforge/studyforge/internal/config"

// Task identifies a model-backed operation in the pipeline.
type Task string

const (
	TaskTextExtract         Task = "text_extract"
	TaskPageClassify        Task = "page_classify"
	TaskDocumentRestructure Task = "document_restructure"
	TaskTopicExtract        Task = "topic_extract"
	TaskQuizGenerate        Task = "quiz_generate"
)

// Source names where a resolved model came from, in precedence order.
type Source string

const (
	SourceTaskEnv   Source = "task-env"
	SourceGlobalEnv Source = "global-env"
	SourceDefault   Source = "default"
)

// ResolvedModel is the outcome of model resolution for one task.
type ResolvedModel struct {
	ModelID     string
	Temperature float64
	Source      Source
}

// defaultModels are the hardcoded per-task defaults, used when neither a
// task override nor the global override is configured.
var defaultModels = map[Task]string{
	TaskTextExtract:         "gemini-2.5-flash",
	TaskPageClassify:        "gemini-2.5-flash-lite",
	TaskDocumentRestructure: "gemini-2.5-flash",
	TaskTopicExtract:        "gemini-2.5-flash",
	TaskQuizGenerate:        "gemini-2.5-pro",
}

// fallbackDefault is the general-purpose model used when no fallback list
// is configured.
const fallbackDefault = "gemini-2.5-flash"

// Router resolves models from an injected configuration snapshot.
type Router struct {
	cfg config.ModelsConfig
}

// New creates a Router over the given model configuration.
func New(cfg config.ModelsConfig) *Router {
	return &Router{cfg: cfg}
}

// Resolve returns the model for a task: task override, then global
// override, then the hardcoded default. The sampling temperature is fixed
// per task regardless of where the model name came from.
func (r *Router) Resolve(task Task) ResolvedModel {
	temp := Temperature(task)

	if model, ok := r.cfg.Tasks[string(task)]; ok && model != "" {
		return ResolvedModel{ModelID: model, Temperature: temp, Source: SourceTaskEnv}
	}
	if r.cfg.Default != "" {
		return ResolvedModel{ModelID: r.cfg.Default, Temperature: temp, Source: SourceGlobalEnv}
	}

	model, ok := defaultModels[task]
	if !ok {
		model = fallbackDefault
	}
	return ResolvedModel{ModelID: model, Temperature: temp, Source: SourceDefault}
}

// FallbackChain returns [primary, fallbacks...] for a task, with the
// primary deduplicated out of the fallback list if it reappears there.
func (r *Router) FallbackChain(task Task) []string {
	primary := r.Resolve(task).ModelID

	fallbacks := r.cfg.Fallbacks
	if len(fallbacks) == 0 {
		fallbacks = []string{fallbackDefault}
	}

	chain := []string{primary}
	for _, m := range fallbacks {
		if m == "" || m == primary {
			continue
		}
		chain = append(chain, m)
	}
	return chain
}

// Temperature returns the fixed sampling temperature for a task: 0.1 for
// extraction and classification, 0.3 for generation tasks.
func Temperature(task Task) float64 {
	switch task {
	case TaskTextExtract, TaskPageClassify:
		return 0.1
	default:
		return 0.3
	}
}
