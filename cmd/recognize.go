package cmd

import (
	"context"
	"fmt"

	"github.com/kozaktomas/faceid/internal/config"
	"github.com/kozaktomas/faceid/internal/recognition"
	"github.com/spf13/cobra"
)

var recognizeCmd = &cobra.Command{
	Use:   "recognize <file>",
	Short: "Identify the face in an image",
	Long: `Identify the face in an image against the enrolled population.
Prints the closest enrolled label when its Euclidean distance is within
the acceptance threshold.

Examples:
  # Identify with the configured threshold
  faceid recognize visitor.jpg

  # Identify with a stricter threshold
  faceid recognize visitor.jpg --threshold 0.8`,
	Args: cobra.ExactArgs(1),
	RunE: runRecognize,
}

func init() {
	rootCmd.AddCommand(recognizeCmd)

	recognizeCmd.Flags().Float64("threshold", 0, "Maximum accepted distance (default: model profile)")
}

func runRecognize(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if t := mustGetFloat64(cmd, "threshold"); t > 0 {
		cfg.Model.Threshold = t
	}
	ctx := context.Background()

	svc, cleanup, err := newService(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	img, err := loadImage(args[0])
	if err != nil {
		return err
	}

	outcome, err := svc.Recognize(ctx, img)
	if err != nil {
		return fmt.Errorf("recognizing %s: %w", args[0], err)
	}

	switch outcome.Status {
	case recognition.RecognizeIdentified:
		fmt.Printf("Identified: %s (distance %.4f, threshold %.2f)\n",
			outcome.Label, outcome.Distance, cfg.Model.Threshold)
	case recognition.RecognizeUnknown:
		fmt.Printf("Unknown face (closest distance %.4f exceeds threshold %.2f)\n",
			outcome.Distance, cfg.Model.Threshold)
	case recognition.RecognizeNoEnrollments:
		fmt.Println("No faces enrolled yet")
	case recognition.RecognizeNoFace:
		fmt.Printf("No face detected in %s\n", args[0])
	}
	return nil
}
