package main

import (
	"errors"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
)

// ErrPromptCancelled is returned when the user interrupts a prompt.
var ErrPromptCancelled = errors.New("prompt cancelled")

// Prompter abstracts the terminal so interactive flows can be tested without
// a real TTY.
type Prompter interface {
	Select(message string, options []string) (int, error)
	Input(message, defaultValue string) (string, error)
}

type surveyPrompter struct{}

func newSurveyPrompter() Prompter {
	return surveyPrompter{}
}

func (surveyPrompter) Select(message string, options []string) (int, error) {
	var out int
	prompt := &survey.Select{
		Message:  message,
		Options:  options,
		PageSize: 12,
	}
	if err := survey.AskOne(prompt, &out); err != nil {
		return 0, translateSurveyErr(err)
	}
	return out, nil
}

func (surveyPrompter) Input(message, defaultValue string) (string, error) {
	var out string
	prompt := &survey.Input{
		Message: message,
		Default: defaultValue,
	}
	if err := survey.AskOne(prompt, &out); err != nil {
		return "", translateSurveyErr(err)
	}
	return out, nil
}

func translateSurveyErr(err error) error {
	if errors.Is(err, terminal.InterruptErr) {
		return ErrPromptCancelled
	}
	return err
}
