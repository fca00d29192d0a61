package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/kozaktomas/faceid/internal/config"
	"github.com/kozaktomas/faceid/internal/recognition"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

var enrollCmd = &cobra.Command{
	Use:   "enroll [file]",
	Short: "Enroll a face from an image file",
	Long: `Enroll the face in an image under a label. The label is derived from
the filename unless --label is given. Re-enrolling a label overwrites
its previous embedding.

Examples:
  # Enroll a single face, label "alice"
  faceid enroll alice.jpg

  # Enroll with an explicit label
  faceid enroll IMG_1234.jpg --label alice

  # Enroll every image in a directory, one label per file
  faceid enroll --dir ./people`,
	Args: cobra.MaximumNArgs(1),
	RunE: runEnroll,
}

func init() {
	rootCmd.AddCommand(enrollCmd)

	enrollCmd.Flags().String("label", "", "Label to store the embedding under (default: from filename)")
	enrollCmd.Flags().String("dir", "", "Enroll every image in this directory")
}

func runEnroll(cmd *cobra.Command, args []string) error {
	dir := mustGetString(cmd, "dir")
	if dir == "" && len(args) == 0 {
		return errors.New("either an image file or --dir is required")
	}
	if dir != "" && len(args) > 0 {
		return errors.New("an image file and --dir are mutually exclusive")
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	ctx := context.Background()

	svc, cleanup, err := newService(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	if dir != "" {
		return enrollDir(ctx, svc, dir)
	}
	return enrollFile(ctx, svc, args[0], mustGetString(cmd, "label"))
}

func enrollFile(ctx context.Context, svc *recognition.Service, path, label string) error {
	if label == "" {
		label = recognition.LabelFromFilename(path)
	} else {
		label = recognition.SanitizeLabel(label)
	}
	if label == "" {
		return fmt.Errorf("could not derive a usable label for %s, use --label", path)
	}

	img, err := loadImage(path)
	if err != nil {
		return err
	}

	outcome, err := svc.Enroll(ctx, img, label)
	if err != nil {
		return fmt.Errorf("enrolling %s: %w", path, err)
	}

	switch outcome.Status {
	case recognition.EnrollNoFace:
		return fmt.Errorf("no face detected in %s", path)
	case recognition.EnrollStoreFailed:
		return fmt.Errorf("storing embedding for %s: %w", label, outcome.Err)
	default:
		fmt.Printf("Enrolled %s as %q\n", path, outcome.Label)
		return nil
	}
}

func enrollDir(ctx context.Context, svc *recognition.Service, dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("reading directory %s: %w", dir, err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() || !imageExtension(entry.Name()) {
			continue
		}
		files = append(files, filepath.Join(dir, entry.Name()))
	}

	if len(files) == 0 {
		fmt.Printf("No images found in %s\n", dir)
		return nil
	}

	fmt.Printf("Enrolling %d faces from %s\n\n", len(files), dir)

	bar := progressbar.NewOptions(len(files),
		progressbar.OptionSetDescription("Enrolling faces"),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("faces"),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionFullWidth(),
	)

	var enrolled, noFace, failed int
	for _, path := range files {
		label := recognition.LabelFromFilename(path)
		if label == "" {
			failed++
			bar.Add(1)
			continue
		}

		img, err := loadImage(path)
		if err != nil {
			failed++
			bar.Add(1)
			continue
		}

		outcome, err := svc.Enroll(ctx, img, label)
		if err != nil {
			return fmt.Errorf("enrolling %s: %w", path, err)
		}

		switch outcome.Status {
		case recognition.EnrollNoFace:
			noFace++
		case recognition.EnrollStoreFailed:
			failed++
		default:
			enrolled++
		}
		bar.Add(1)
	}

	fmt.Printf("\n\nEnrolled: %d\n", enrolled)
	if noFace > 0 {
		fmt.Printf("No face detected: %d\n", noFace)
	}
	if failed > 0 {
		fmt.Printf("Failed: %d\n", failed)
	}
	return nil
}
