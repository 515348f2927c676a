package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/custodia-labs/ragdesk/internal/core/domain"
	"github.com/custodia-labs/ragdesk/internal/core/ports/driven"
	"github.com/custodia-labs/ragdesk/internal/core/ports/driving"
	"github.com/custodia-labs/ragdesk/internal/logger"
)

// Ensure QueryService implements the interface.
var _ driving.QueryService = (*QueryService)(nil)

// DefaultSystemPrompt is used when no prompt store is configured.
const DefaultSystemPrompt = "You are a helpful assistant."

// contextSeparator joins retrieved chunks into one context block.
const contextSeparator = "\n\n"

// answerTemplate is the user message. The context-only instruction is fixed.
const answerTemplate = "Given the following context, please answer the question from given context only. " +
	"If context is insufficient then say i do not know \n\nContext:\n%s\n\nQuestion: %s"

// QueryService answers questions from an organization's documents.
type QueryService struct {
	index   driven.VectorIndex
	llm     driven.LLMService
	prompts driven.PromptStore
	topK    int
}

// NewQueryService creates a new query service.
// prompts is optional; topK <= 0 uses domain.DefaultTopK.
func NewQueryService(index driven.VectorIndex, llm driven.LLMService, prompts driven.PromptStore, topK int) *QueryService {
	if topK <= 0 {
		topK = domain.DefaultTopK
	}
	return &QueryService{
		index:   index,
		llm:     llm,
		prompts: prompts,
		topK:    topK,
	}
}

// Query answers searchText using the organization's documents only.
func (s *QueryService) Query(ctx context.Context, searchText, orgID string) (*domain.QueryResult, error) {
	return s.QueryWithOptions(ctx, searchText, orgID, domain.QueryOptions{})
}

// QueryWithOptions is Query with retrieval refinements.
func (s *QueryService) QueryWithOptions(
	ctx context.Context, searchText, orgID string, opts domain.QueryOptions,
) (*domain.QueryResult, error) {
	searchText = strings.TrimSpace(searchText)
	orgID = strings.TrimSpace(orgID)
	if searchText == "" {
		return nil, fmt.Errorf("%w: query text is required", domain.ErrInvalidInput)
	}
	if orgID == "" {
		return nil, fmt.Errorf("%w: organization id is required", domain.ErrInvalidInput)
	}

	topK := opts.TopK
	if topK <= 0 {
		topK = s.topK
	}

	logger.Section("Query")
	logger.Debug("Organization %s, top %d: %q", orgID, topK, searchText)

	filter := domain.MetadataFilter{OrganizationID: orgID, DocumentID: opts.DocumentID}
	hits, err := s.index.SimilaritySearch(ctx, searchText, topK, filter)
	if err != nil {
		return nil, queryFailed("retrieve context", err)
	}
	logger.Debug("Retrieved %d chunk(s)", len(hits))

	if len(hits) == 0 {
		return &domain.QueryResult{
			Query:       searchText,
			Answer:      domain.NoRelevantInformationAnswer,
			DocumentIDs: []string{},
			Confidence:  0,
		}, nil
	}

	texts := make([]string, len(hits))
	docIDs := make([]string, 0, len(hits))
	seen := make(map[string]bool, len(hits))
	for i, h := range hits {
		texts[i] = h.Text
		id := h.Metadata.DocumentID()
		if id != "" && !seen[id] {
			seen[id] = true
			docIDs = append(docIDs, id)
		}
	}
	contextText := strings.Join(texts, contextSeparator)

	if s.llm == nil {
		return nil, queryFailed("generate answer", domain.ErrLLMUnavailable)
	}
	messages := BuildAnswerPrompt(s.systemPrompt(), contextText, searchText)

	done := logger.Timed("generate answer")
	answer, err := s.llm.Chat(ctx, messages, driven.ChatOptions{})
	done()
	if err != nil {
		return nil, queryFailed("generate answer", err)
	}

	return &domain.QueryResult{
		Query:       searchText,
		Answer:      strings.TrimSpace(answer),
		DocumentIDs: docIDs,
		Confidence:  domain.Confidence(len(hits), topK),
		Context:     contextText,
	}, nil
}

// BuildAnswerPrompt returns the messages sent to the model for one question.
// The user message always restricts the answer to the given context.
func BuildAnswerPrompt(systemPrompt, contextText, question string) []driven.ChatMessage {
	if strings.TrimSpace(systemPrompt) == "" {
		systemPrompt = DefaultSystemPrompt
	}
	return []driven.ChatMessage{
		{Role: driven.RoleSystem, Content: systemPrompt},
		{Role: driven.RoleUser, Content: fmt.Sprintf(answerTemplate, contextText, question)},
	}
}

func (s *QueryService) systemPrompt() string {
	if s.prompts == nil {
		return DefaultSystemPrompt
	}
	prompt, err := s.prompts.Load(driven.PromptAnswerSystem)
	if err != nil {
		logger.Warn("Failed to load %s prompt, using default: %v", driven.PromptAnswerSystem, err)
		return DefaultSystemPrompt
	}
	return prompt
}

// queryFailed collapses every pipeline failure into ErrQueryFailed while
// keeping the cause inspectable.
func queryFailed(stage string, err error) error {
	if errors.Is(err, domain.ErrUnscopedQuery) || errors.Is(err, domain.ErrInvalidInput) {
		return fmt.Errorf("%w: %s: %w", domain.ErrQueryFailed, stage, err)
	}
	return fmt.Errorf("%w: %s: %w: %w", domain.ErrQueryFailed, stage, domain.ErrExternalDependency, err)
}
