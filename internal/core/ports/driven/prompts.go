package driven

// PromptStore provides LLM prompt templates by name.
type PromptStore interface {
	// Load returns the template for name. Implementations fall back to a
	// built-in default when one exists.
	Load(name string) (string, error)
}

// PromptAnswerSystem is the system message sent with every question. It has
// no placeholders; the context-only instruction lives in the user message
// and cannot be replaced.
const PromptAnswerSystem = "answer_system"
