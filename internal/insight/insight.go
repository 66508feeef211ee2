// Package insight turns a snapshot of the user's state into a short piece
// of advice from a text generation model.
package insight

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/sadopc/quadra/internal/logger"
	"github.com/sadopc/quadra/internal/store"
)

func log() *zap.SugaredLogger { return logger.Get().Named("insight") }

const (
	FallbackConfigure = "Please configure your API Key to receive personalized AI insights."
	FallbackEmpty     = "Keep moving forward at your own pace."
	FallbackError     = "Remember to take breaks and drink water."
)

// recentMoodCount is how many of the newest mood entries go into a summary.
const recentMoodCount = 3

// Summary is the reduced view of the state sent to the model.
type Summary struct {
	AssignmentsPending int             `json:"assignmentsPending"`
	UpcomingDeadlines  []string        `json:"upcomingDeadlines"`
	BudgetRemaining    decimal.Decimal `json:"budgetRemaining"`
	RecentMoods        []store.Mood    `json:"recentMoods"`
}

// Summarize builds a Summary. Moods are stored newest first, so the recent
// moods are the head of the slice.
func Summarize(s store.UserState) Summary {
	sum := Summary{
		UpcomingDeadlines: []string{},
		RecentMoods:       []store.Mood{},
	}
	for _, a := range s.Assignments {
		if a.Completed {
			continue
		}
		sum.AssignmentsPending++
		sum.UpcomingDeadlines = append(sum.UpcomingDeadlines,
			fmt.Sprintf("%s (Due: %s)", a.Title, a.DueDate.Format(time.RFC3339)))
	}

	spent := decimal.Zero
	for _, e := range s.Expenses {
		spent = spent.Add(e.Amount)
	}
	sum.BudgetRemaining = s.Budget.Sub(spent)

	for i, m := range s.Moods {
		if i == recentMoodCount {
			break
		}
		sum.RecentMoods = append(sum.RecentMoods, m.Mood)
	}
	return sum
}

// Prompt renders the instruction sent to the model.
func Prompt(sum Summary) (string, error) {
	data, err := json.MarshalIndent(sum, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal summary: %w", err)
	}
	var b strings.Builder
	b.WriteString("You are a helpful, calm, student life assistant for an app called Quadra.\n")
	b.WriteString("Based on this student's current data, give one short, encouraging, and actionable piece of advice (max 2 sentences).\n\n")
	b.WriteString("Data:\n")
	b.Write(data)
	b.WriteString("\n\nTone: Calm, supportive, minimalist.\n")
	return b.String(), nil
}

// Generator produces text for a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Client asks a Generator for advice and never fails: every error path
// degrades to one of the fallback strings. A nil Generator means no
// credential is configured.
type Client struct {
	gen Generator
}

// NewClient wraps gen. A nil gen, including a nil *GeminiGenerator, gives an
// unconfigured client.
func NewClient(gen Generator) *Client {
	if g, ok := gen.(*GeminiGenerator); ok && g == nil {
		gen = nil
	}
	return &Client{gen: gen}
}

// Configured reports whether a generator is available.
func (c *Client) Configured() bool { return c != nil && c.gen != nil }

func (c *Client) Insight(ctx context.Context, s store.UserState) string {
	if !c.Configured() {
		return FallbackConfigure
	}
	prompt, err := Prompt(Summarize(s))
	if err != nil {
		log().Warnw("build prompt", "error", err)
		return FallbackError
	}
	text, err := c.gen.Generate(ctx, prompt)
	if err != nil {
		log().Warnw("generate insight", "error", err)
		return FallbackError
	}
	text = TrimSentences(text, 2)
	if text == "" {
		return FallbackEmpty
	}
	return text
}

// TrimSentences keeps at most n sentences of text. A sentence ends at '.',
// '!' or '?' followed by whitespace or the end of the text.
func TrimSentences(text string, n int) string {
	text = strings.TrimSpace(text)
	if n <= 0 {
		return ""
	}
	runes := []rune(text)
	count := 0
	for i, r := range runes {
		if r != '.' && r != '!' && r != '?' {
			continue
		}
		if i+1 < len(runes) && !isSpace(runes[i+1]) {
			continue
		}
		count++
		if count == n {
			return strings.TrimSpace(string(runes[:i+1]))
		}
	}
	return text
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\n' || r == '\t' || r == '\r'
}

// Latest serializes insight requests so that only the newest one counts.
// Starting a fetch cancels the one in flight.
type Latest struct {
	client *Client

	mu     sync.Mutex
	seq    uint64
	cancel context.CancelFunc
}

func NewLatest(c *Client) *Latest {
	return &Latest{client: c}
}

// Fetch returns the insight text and whether this call is still the most
// recent one when it finishes. Callers drop results with current == false.
func (l *Latest) Fetch(ctx context.Context, s store.UserState) (string, bool) {
	ctx, cancel := context.WithCancel(ctx)
	l.mu.Lock()
	if l.cancel != nil {
		l.cancel()
	}
	l.seq++
	seq := l.seq
	l.cancel = cancel
	l.mu.Unlock()

	text := l.client.Insight(ctx, s)

	l.mu.Lock()
	defer l.mu.Unlock()
	cancel()
	current := seq == l.seq
	if current {
		l.cancel = nil
	}
	return text, current
}

// Stop cancels any request in flight.
func (l *Latest) Stop() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
}
