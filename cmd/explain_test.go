package cmd

import (
	"strings"
	"testing"

	"github.com/pable/go-nhl-metrics/internal/analysis"
)

func TestExplainPromptGlossaryMatchesRegistry(t *testing.T) {
	prompt := explainPrompt(analysis.DefaultFeatures)

	for _, name := range analysis.DefaultFeatures {
		f, _ := analysis.LookupFeature(name)
		want := "- " + name + ": " + f.Description()
		if !strings.Contains(prompt, want) {
			t.Errorf("glossary entry %q missing from prompt", want)
		}
	}

	glossary := prompt[len(explainPromptHeader):]
	for _, line := range strings.Split(strings.TrimSpace(glossary), "\n") {
		name, _, ok := strings.Cut(strings.TrimPrefix(line, "- "), ":")
		if !ok {
			t.Errorf("malformed glossary line %q", line)
			continue
		}
		if _, known := analysis.LookupFeature(name); !known {
			t.Errorf("glossary defines unknown feature %q", name)
		}
	}

	if !strings.Contains(prompt, "- gwgPerGame: gameWinningGoals / gamesPlayed") {
		t.Errorf("gwgPerGame should be per game played:\n%s", prompt)
	}
}

func TestExplainPromptFollowsRunFeatures(t *testing.T) {
	prompt := explainPrompt([]string{"pointsPerGame", "goals"})
	if !strings.Contains(prompt, "- pointsPerGame: points / gamesPlayed") {
		t.Errorf("missing pointsPerGame entry:\n%s", prompt)
	}
	if !strings.Contains(prompt, "- goals: raw goals") {
		t.Errorf("missing raw stat entry:\n%s", prompt)
	}
	if strings.Contains(prompt, "goalsPerShot") {
		t.Errorf("features outside the run should not be listed:\n%s", prompt)
	}
}
