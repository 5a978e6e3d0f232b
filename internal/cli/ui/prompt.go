package ui

import (
	"errors"
	"io"
	"sort"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"

	aqlerrors "github.com/artifactql/aql/compiler/errors"
	"github.com/artifactql/aql/compiler/lexer"
	"github.com/artifactql/aql/pkg/domain"
)

// Prompter reads one line of query text. It returns io.EOF when the user ends the
// session with Ctrl-C or Ctrl-D.
type Prompter interface {
	Prompt(message string) (string, error)
}

// SurveyPrompter prompts on the terminal with tab completion of query words
type SurveyPrompter struct {
	completer *Completer
	opts      []survey.AskOpt
}

// NewSurveyPrompter creates a prompter completing against graph. A nil graph disables
// completion.
func NewSurveyPrompter(graph *domain.Graph, opts ...survey.AskOpt) *SurveyPrompter {
	p := &SurveyPrompter{opts: opts}
	if graph != nil {
		p.completer = NewCompleter(graph)
	}
	return p
}

// Prompt asks for one line
func (p *SurveyPrompter) Prompt(message string) (string, error) {
	input := &survey.Input{
		Message: message,
		Help:    "A query such as: items.name = \"x.jar\" include items.path limit 10. Ctrl-D exits.",
	}
	if p.completer != nil {
		input.Suggest = p.completer.Complete
	}

	var text string
	if err := survey.AskOne(input, &text, p.opts...); err != nil {
		if errors.Is(err, terminal.InterruptErr) || errors.Is(err, io.EOF) {
			return "", io.EOF
		}
		return "", err
	}
	return strings.TrimSpace(text), nil
}

// Completer proposes completions for the last word of partial query text
type Completer struct {
	words []string
}

// NewCompleter collects the domain names, field names and keywords of graph
func NewCompleter(graph *domain.Graph) *Completer {
	seen := make(map[string]bool)
	var words []string
	add := func(w string) {
		if !seen[w] {
			seen[w] = true
			words = append(words, w)
		}
	}
	for _, d := range graph.Domains() {
		add(d.Name())
		for _, f := range d.FieldNames() {
			add(f)
		}
	}
	for _, kw := range lexer.Keywords() {
		add(kw)
	}
	sort.Strings(words)
	return &Completer{words: words}
}

// Complete returns text with its last word replaced by each candidate. Prefix matches
// come first; when nothing starts with the word, close misspellings are offered.
func (c *Completer) Complete(text string) []string {
	cut := strings.LastIndexAny(text, " .(,") + 1
	head, word := text[:cut], text[cut:]
	if word == "" {
		return nil
	}

	var matches []string
	lowered := strings.ToLower(word)
	for _, w := range c.words {
		if strings.HasPrefix(strings.ToLower(w), lowered) && w != word {
			matches = append(matches, w)
		}
	}
	if len(matches) == 0 {
		matches = aqlerrors.FindSimilar(word, c.words)
	}

	out := make([]string, 0, len(matches))
	for _, m := range matches {
		if m == word {
			continue
		}
		out = append(out, head+m)
	}
	return out
}
