package gemini

import (
	"bytes"
	_ "embed"
	"fmt"
	"strings"
	"text/template"
)

//go:embed prompt.tmpl
var promptSource string

// promptTemplate is parsed once at init; a broken template is a build defect.
var promptTemplate = template.Must(template.New("blogpost").Parse(promptSource))

// promptData is the data passed to the prompt template.
type promptData struct {
	Topic string
}

// buildPrompt renders the prompt for topic.
func buildPrompt(topic string) (string, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return "", ErrEmptyTopic
	}

	var buf bytes.Buffer
	if err := promptTemplate.Execute(&buf, promptData{Topic: topic}); err != nil {
		return "", fmt.Errorf("failed to execute prompt template: %w", err)
	}

	return buf.String(), nil
}
