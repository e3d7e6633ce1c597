package utils

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/repexport/repexport/constants/lipgloss"
)

var (
	yesAnswers = map[string]bool{"y": true, "yes": true, "s": true, "si": true, "sí": true}
	noAnswers  = map[string]bool{"n": true, "no": true}
)

// PromptYesNo asks a yes/no question until it gets a valid answer. An empty
// answer or end of input selects defaultYes.
func PromptYesNo(reader *bufio.Reader, question string, defaultYes bool) (bool, error) {
	hint := "y/N"
	if defaultYes {
		hint = "Y/n"
	}

	for {
		fmt.Print(lipgloss.BlueSky.Render(fmt.Sprintf("%s [%s]: ", question, hint)))

		answer, err := reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return false, fmt.Errorf("error reading input: %w", err)
		}

		answer = strings.ToLower(strings.TrimSpace(answer))
		switch {
		case answer == "":
			return defaultYes, nil
		case yesAnswers[answer]:
			return true, nil
		case noAnswers[answer]:
			return false, nil
		}

		if errors.Is(err, io.EOF) {
			return defaultYes, nil
		}
		fmt.Println(lipgloss.Yellow.Render("Invalid answer. Use 'y' or 'n'."))
	}
}

// PromptLine asks for a free-text value, returning fallback when the answer is empty.
func PromptLine(reader *bufio.Reader, question string, fallback string) (string, error) {
	if fallback != "" {
		question = fmt.Sprintf("%s [%s]", question, fallback)
	}
	fmt.Print(lipgloss.BlueSky.Render(question + ": "))

	answer, err := reader.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("error reading input: %w", err)
	}

	answer = strings.TrimSpace(answer)
	if answer == "" {
		return fallback, nil
	}
	return answer, nil
}

// ConfirmOverwrite returns true when path does not exist or the user agrees to replace it.
func ConfirmOverwrite(reader *bufio.Reader, path string) (bool, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return true, nil
	}
	return PromptYesNo(reader, fmt.Sprintf("File '%s' already exists. Overwrite?", filepath.Base(path)), false)
}
