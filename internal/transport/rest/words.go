package rest

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/heartmarshall/wordtier/internal/domain"
	"github.com/heartmarshall/wordtier/internal/service/dictionary"
)

// dictionaryService defines the minimal interface needed by WordsHandler.
type dictionaryService interface {
	GenerateDictionary(ctx context.Context, input dictionary.GenerateInput) (*dictionary.GenerateResult, error)
	Classify(ctx context.Context, input dictionary.ClassifyInput) (*domain.Classification, error)
}

// WordsHandler serves the word dictionary endpoints.
type WordsHandler struct {
	svc dictionaryService
	log *slog.Logger
}

// NewWordsHandler creates a WordsHandler.
func NewWordsHandler(svc dictionaryService, logger *slog.Logger) *WordsHandler {
	return &WordsHandler{svc: svc, log: logger.With("handler", "words")}
}

// Register mounts the handler's routes on mux.
func (h *WordsHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /words/generate-dictionary/{ageGroup}/{difficultyLevel}", h.GenerateDictionary)
	mux.HandleFunc("GET /words/classify/{ageGroup}", h.Classify)
}

// GenerateDictionary handles GET /words/generate-dictionary/{ageGroup}/{difficultyLevel}.
// The response is a JSON array of words, empty when the tier has none.
func (h *WordsHandler) GenerateDictionary(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.GenerateDictionary(r.Context(), dictionary.GenerateInput{
		PoolID: r.PathValue("ageGroup"),
		Tier:   r.PathValue("difficultyLevel"),
		Metric: domain.MetricKind(r.URL.Query().Get("metric")),
	})
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	words := make([]string, len(result.Words))
	for i, t := range result.Words {
		words[i] = t.String()
	}
	writeJSON(w, http.StatusOK, words)
}

type classificationResponse struct {
	Pool        string               `json:"pool"`
	Metric      string               `json:"metric"`
	K           int                  `json:"k"`
	Tiers       map[string][]string  `json:"tiers"`
	Assignments []assignmentResponse `json:"assignments"`
	Excluded    []excludedResponse   `json:"excluded"`
}

type assignmentResponse struct {
	Index     int                `json:"index"`
	Word      string             `json:"word"`
	Magnitude float64            `json:"magnitude"`
	Tier      int                `json:"tier"`
	Neighbors []neighborResponse `json:"neighbors"`
}

type neighborResponse struct {
	Index int     `json:"index"`
	Word  string  `json:"word"`
	Score float64 `json:"score"`
}

type excludedResponse struct {
	Word   string `json:"word"`
	Reason string `json:"reason"`
}

// Classify handles GET /words/classify/{ageGroup}.
func (h *WordsHandler) Classify(w http.ResponseWriter, r *http.Request) {
	cls, err := h.svc.Classify(r.Context(), dictionary.ClassifyInput{
		PoolID: r.PathValue("ageGroup"),
		Metric: domain.MetricKind(r.URL.Query().Get("metric")),
	})
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toClassificationResponse(cls))
}

func (h *WordsHandler) handleError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "word pool not found")
	case errors.Is(err, context.Canceled):
		// Client went away; nobody reads the response.
		h.log.DebugContext(r.Context(), "request cancelled", slog.String("error", err.Error()))
	default:
		h.log.ErrorContext(r.Context(), "internal error", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

func toClassificationResponse(cls *domain.Classification) classificationResponse {
	resp := classificationResponse{
		Pool:        cls.PoolID,
		Metric:      cls.Metric.String(),
		K:           cls.K,
		Tiers:       make(map[string][]string, len(cls.Tiers)),
		Assignments: make([]assignmentResponse, 0, len(cls.Assignments)),
		Excluded:    make([]excludedResponse, 0, len(cls.Excluded)),
	}

	for _, tier := range cls.Tiers.Tiers() {
		words := cls.Tiers.Words(tier)
		out := make([]string, len(words))
		for i, w := range words {
			out[i] = w.String()
		}
		resp.Tiers[tier.String()] = out
	}

	for _, a := range cls.Assignments {
		neighbors := make([]neighborResponse, len(a.Neighbors))
		for i, n := range a.Neighbors {
			neighbors[i] = neighborResponse{Index: n.Index, Word: n.Word.String(), Score: n.Score}
		}
		resp.Assignments = append(resp.Assignments, assignmentResponse{
			Index:     a.Index,
			Word:      a.Word.String(),
			Magnitude: a.Magnitude,
			Tier:      int(a.Tier),
			Neighbors: neighbors,
		})
	}

	for _, e := range cls.Excluded {
		reason := ""
		if e.Reason != nil {
			reason = e.Reason.Error()
		}
		resp.Excluded = append(resp.Excluded, excludedResponse{Word: e.Word.String(), Reason: reason})
	}

	return resp
}
