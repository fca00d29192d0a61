package cmd

import (
	"context"
	"fmt"
	"sort"

	"github.com/kozaktomas/faceid/internal/config"
	"github.com/spf13/cobra"
)

var labelsCmd = &cobra.Command{
	Use:   "labels",
	Short: "List enrolled labels",
	Long: `List all enrolled labels in lexicographic order.
Reads the embedding store directly; the model server is not contacted.`,
	RunE: runLabels,
}

func init() {
	rootCmd.AddCommand(labelsCmd)
}

func runLabels(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	ctx := context.Background()

	st, cleanup, err := newStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	snapshot, err := st.LoadAll(ctx)
	if err != nil {
		return fmt.Errorf("listing labels: %w", err)
	}

	if len(snapshot) == 0 {
		fmt.Println("No faces enrolled yet")
		return nil
	}

	labels := make([]string, 0, len(snapshot))
	for label := range snapshot {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	for _, label := range labels {
		fmt.Println(label)
	}
	fmt.Printf("\n%d enrolled\n", len(labels))
	return nil
}
