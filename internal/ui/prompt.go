package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
)

// sanitizeInput removes null bytes and other invisible control characters from input
func sanitizeInput(s string) string {
	return strings.Map(func(r rune) rune {
		if r == 0 || (r < 32 && r != '\t' && r != '\n' && r != '\r') {
			return -1
		}
		return r
	}, s)
}

// ScreenOption is one entry of the screen picker
type ScreenOption struct {
	Name  string
	Title string
}

// PromptForScreen asks which screen profile a page should be read with
func PromptForScreen(options []ScreenOption) (string, error) {
	if len(options) == 0 {
		return "", fmt.Errorf("no screens configured")
	}

	huhOptions := make([]huh.Option[string], len(options))
	for i, o := range options {
		label := o.Name
		if o.Title != "" {
			label = fmt.Sprintf("%s (%s)", o.Title, o.Name)
		}
		huhOptions[i] = huh.NewOption(label, o.Name)
	}

	var screen string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Filter screen").
				Description("How should the page's records and controls be read?").
				Options(huhOptions...).
				Value(&screen),
		),
	).WithTheme(NewAppTheme())

	if err := form.Run(); err != nil {
		return "", fmt.Errorf("prompt cancelled: %w", err)
	}
	return screen, nil
}

// PromptForSource asks for the file path or URL of a rendered filter page.
// An empty answer means a stored snapshot should be picked instead.
func PromptForSource() (string, error) {
	var source string

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Page to filter").
				Description("Saved HTML file or http(s) URL, empty to pick a stored snapshot").
				Placeholder("audit.html").
				Value(&source),
		),
	).WithTheme(NewAppTheme())

	if err := form.Run(); err != nil {
		return "", fmt.Errorf("prompt cancelled: %w", err)
	}
	return strings.TrimSpace(sanitizeInput(source)), nil
}

// ConfirmDelete asks before removing a stored snapshot
func ConfirmDelete(name string) (bool, error) {
	var confirm bool

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Delete snapshot %s?", name)).
				Description("Its records are removed from the snapshot store").
				Affirmative("Yes, delete").
				Negative("Cancel").
				Value(&confirm),
		),
	).WithTheme(NewAppTheme())

	if err := form.Run(); err != nil {
		return false, err
	}
	return confirm, nil
}
