package pipeline

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// copyArtifacts copies a stage's artifacts to every configured
// destination. One artifact is copied as-is; multiple artifacts (one
// PNG per page) get a 1-based page index appended before the file
// suffix of each destination.
func copyArtifacts(artifacts []string, destinations []string) error {
	if len(artifacts) == 0 || len(destinations) == 0 {
		return nil
	}
	for _, destination := range destinations {
		if len(artifacts) == 1 {
			if err := copyFile(artifacts[0], destination); err != nil {
				return err
			}
			continue
		}
		ext := filepath.Ext(destination)
		stem := strings.TrimSuffix(destination, ext)
		for i, artifact := range artifacts {
			numbered := fmt.Sprintf("%s_%d%s", stem, i+1, ext)
			if err := copyFile(artifact, numbered); err != nil {
				return err
			}
		}
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("copying %s: %w", src, err)
	}
	defer in.Close()

	if dir := filepath.Dir(dst); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("copying to %s: %w", dst, err)
		}
	}
	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("copying to %s: %w", dst, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("copying %s to %s: %w", src, dst, err)
	}
	return nil
}
