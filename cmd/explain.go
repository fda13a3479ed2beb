package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/spf13/cobra"

	"github.com/pable/go-nhl-metrics/internal/analysis"
	"github.com/pable/go-nhl-metrics/internal/model"
)

const explainPromptHeader = `You are an NHL analytics assistant. You are given the stored result of a
player-style analysis: per-player ratio features were z-scored, projected onto
principal components and grouped with K-Means. You also get a question.

Rules:
- Answer ONLY from the data provided. Never invent statistics or players.
- Cite component loadings and cluster members when making a claim.
- Components have no inherent sign; describe them by their top features.
- If the data is insufficient to answer confidently, say so explicitly.
- Be concise.

Feature glossary (stat names are NHL stats API fields):
`

// explainPrompt builds the system prompt with a glossary entry for every
// feature of the run, taken from the feature registry.
func explainPrompt(features []string) string {
	var b strings.Builder
	b.WriteString(explainPromptHeader)
	for _, name := range features {
		f, ok := analysis.LookupFeature(name)
		if !ok {
			fmt.Fprintf(&b, "- %s: unknown feature\n", name)
			continue
		}
		fmt.Fprintf(&b, "- %s: %s\n", f.Name, f.Description())
	}
	return b.String()
}

// maxClusterMembers caps the names sent per cluster.
const maxClusterMembers = 15

var (
	explainModel  string
	explainAPIKey string
)

var explainCmd = &cobra.Command{
	Use:   "explain <run-prefix> <question>",
	Short: "Ask an AI model about a saved run (requires ANTHROPIC_API_KEY)",
	Args:  cobra.ExactArgs(2),
	RunE:  runExplain,
}

func init() {
	explainCmd.Flags().StringVar(&explainModel, "model", "", "Anthropic model to use (default from config)")
	explainCmd.Flags().StringVar(&explainAPIKey, "api-key", "", "Anthropic API key (falls back to $ANTHROPIC_API_KEY)")
}

func runExplain(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	run, err := db.GetAnalysisRunByPrefix(args[0])
	if err != nil {
		return fmt.Errorf("query run: %w", err)
	}
	if run == nil {
		return fmt.Errorf("no run found with id prefix %q", args[0])
	}
	points, err := db.GetAnalysisPoints(run.ID)
	if err != nil {
		return fmt.Errorf("get run points: %w", err)
	}
	loadings, err := db.GetAnalysisLoadings(run.ID)
	if err != nil {
		return fmt.Errorf("get run loadings: %w", err)
	}

	contextJSON, err := buildRunContext(run, points, loadings)
	if err != nil {
		return fmt.Errorf("build context: %w", err)
	}

	modelID := explainModel
	if modelID == "" {
		modelID = cfg.AnthropicModel
	}
	return callAnthropic(cmd.Context(), explainAPIKey, modelID, explainPrompt(run.Features), contextJSON, args[1])
}

type clusterEntry struct {
	Cluster int      `json:"cluster"`
	Size    int      `json:"size"`
	MeanX   float64  `json:"meanX"`
	MeanY   float64  `json:"meanY"`
	Members []string `json:"members"`
}

type loadingEntry struct {
	Feature string  `json:"feature"`
	Weight  float64 `json:"weight"`
}

// buildRunContext renders a stored run as the JSON document sent to the model.
func buildRunContext(run *model.AnalysisRun, points []model.AnalysisPoint, loadings []model.AnalysisLoading) (string, error) {
	comps := make(map[string][]loadingEntry)
	loadings = append([]model.AnalysisLoading(nil), loadings...)
	sort.SliceStable(loadings, func(i, j int) bool {
		if loadings[i].Component != loadings[j].Component {
			return loadings[i].Component < loadings[j].Component
		}
		return loadings[i].Rank < loadings[j].Rank
	})
	for _, l := range loadings {
		key := analysis.ComponentKey(l.Component)
		comps[key] = append(comps[key], loadingEntry{Feature: l.Feature, Weight: round2(l.Weight)})
	}

	clusters := make([]clusterEntry, run.Clusters)
	for i := range clusters {
		clusters[i].Cluster = i + 1
		clusters[i].Members = []string{}
	}
	for _, p := range points {
		if p.ClusterID < 0 || p.ClusterID >= len(clusters) {
			continue
		}
		c := &clusters[p.ClusterID]
		c.Size++
		c.MeanX += p.X
		c.MeanY += p.Y
		if len(c.Members) < maxClusterMembers {
			c.Members = append(c.Members, fmt.Sprintf("%s (%s)", p.Name, p.Team))
		}
	}
	for i := range clusters {
		if n := clusters[i].Size; n > 0 {
			clusters[i].MeanX = round2(clusters[i].MeanX / float64(n))
			clusters[i].MeanY = round2(clusters[i].MeanY / float64(n))
		}
	}

	doc := map[string]any{
		"subject":  "style analysis",
		"season":   run.SeasonID,
		"players":  run.Players,
		"features": run.Features,
		"loadings": comps,
		"clusters": clusters,
	}
	b, err := json.Marshal(doc)
	return string(b), err
}

// round2 rounds a float64 to 2 decimal places, half away from zero.
func round2(v float64) float64 {
	if v < 0 {
		return -round2(-v)
	}
	return float64(int64(v*100+0.5)) / 100
}

// callAnthropic streams a response from the Anthropic API and prints it to stdout.
func callAnthropic(ctx context.Context, apiKey, modelID, systemPrompt, dataJSON, question string) error {
	if apiKey == "" {
		apiKey = os.Getenv("ANTHROPIC_API_KEY")
	}
	if apiKey == "" {
		return fmt.Errorf("no API key: set ANTHROPIC_API_KEY or use --api-key")
	}

	client := anthropic.NewClient(option.WithAPIKey(apiKey))
	userMsg := fmt.Sprintf("DATA:\n%s\n\nQUESTION: %s", dataJSON, question)

	fmt.Fprintln(os.Stdout, "\n─── Style Analysis ──────────────────────────────────")

	stream := client.Messages.NewStreaming(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(modelID),
		MaxTokens: 1024,
		System: []anthropic.TextBlockParam{
			{Text: systemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(userMsg)),
		},
	})

	for stream.Next() {
		evt := stream.Current()
		if evt.Type == "content_block_delta" {
			delta := evt.AsContentBlockDelta()
			if delta.Delta.Type == "text_delta" {
				fmt.Fprint(os.Stdout, delta.Delta.AsTextDelta().Text)
			}
		}
	}
	fmt.Fprintln(os.Stdout, "\n─────────────────────────────────────────────────────")

	if err := stream.Err(); err != nil {
		errStr := err.Error()
		if strings.Contains(errStr, "401") || strings.Contains(errStr, "authentication") {
			return fmt.Errorf("API authentication failed: check your API key")
		}
		return fmt.Errorf("streaming error: %w", err)
	}
	return nil
}
