// Package prompt owns the interactive confirmation handle for a run.
package prompt

import (
	"github.com/AlecAivazis/survey/v2"
)

// Prompt is the interactive surface consumed by the workflow. Ask blocks
// until the operator answers. Close releases the handle and is called exactly
// once by the pipeline finalizer.
type Prompt interface {
	Ask(question string) (string, error)
	Close() error
}

// Interactive prompts on the controlling terminal.
type Interactive struct{}

// NewInteractive returns a terminal-backed prompt.
func NewInteractive() *Interactive {
	return &Interactive{}
}

// Ask poses the question and returns the raw answer. Interpreting the answer
// is the caller's concern.
func (p *Interactive) Ask(question string) (string, error) {
	var answer string
	if err := survey.AskOne(&survey.Input{Message: question}, &answer); err != nil {
		return "", err
	}
	return answer, nil
}

// Close releases the terminal handle.
func (p *Interactive) Close() error {
	return nil
}
