// Package assembler renders section values into the final prompt text.
package assembler

import (
	"fmt"
	"strings"

	"prompt_architect/pkg/models"
)

// ReasoningInstruction is appended when step-by-step reasoning is enabled.
const ReasoningInstruction = "Before giving the final answer, think step by step about the problem. " +
	"Analyze the constraints, consider multiple perspectives and plan your response to ensure the best solution."

const fragmentSeparator = "\n\n"

// Assemble renders data into a single prompt. Fragments follow a fixed order
// and are separated by exactly one blank line; empty sections produce nothing.
func Assemble(data models.PromptData) string {
	return strings.Join(Fragments(data), fragmentSeparator)
}

// Fragments returns the rendered pieces of the prompt in assembly order.
func Fragments(data models.PromptData) []string {
	var parts []string
	add := func(s string) {
		if s != "" {
			parts = append(parts, s)
		}
	}

	if data.Role != "" {
		add(fmt.Sprintf("Act as a %s.", data.Role))
	}
	add(data.Task)
	add(data.Context)
	if data.Reasoning {
		add(ReasoningInstruction)
	}
	if data.Framework != models.FrameworkNone {
		add(fmt.Sprintf("Use the %s structure to organize your answer.", data.Framework.DisplayName()))
	}
	if data.Format != models.FormatNone {
		add(fmt.Sprintf("The answer must be presented in the following format: %s.", data.Format.DisplayName()))
	}
	if data.Validation != "" {
		add("Make sure to follow these criteria: " + data.Validation)
	}
	if data.Language != "" {
		add(fmt.Sprintf("Respond ONLY in %s.", data.Language.DisplayName()))
	}
	return parts
}
