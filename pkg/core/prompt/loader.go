package prompt

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// LoadFromDirectory overlays templates found under baseDir/prompts onto r.
// Expected structure:
//
//	baseDir/
//	  prompts/
//	    refine/
//	      section.json   -> id "refine.section"
//
// A missing prompts directory is not an error; the built-ins stay in place.
func LoadFromDirectory(r *Registry, baseDir string) (int, error) {
	dir := filepath.Join(baseDir, "prompts")
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return 0, nil
	}

	loaded := 0
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || filepath.Ext(path) != ".json" {
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}

		var pt PromptTemplate
		if err := json.Unmarshal(data, &pt); err != nil {
			return fmt.Errorf("failed to parse %s: %w", path, err)
		}
		if pt.ID == "" {
			pt.ID = generateIDFromPath(path, dir)
		}
		if pt.Category == "" {
			pt.Category = detectCategory(path, dir)
		}

		if err := r.Register(&pt); err != nil {
			return fmt.Errorf("failed to register %s: %w", pt.ID, err)
		}
		loaded++
		return nil
	})
	if err != nil {
		return loaded, fmt.Errorf("failed to load prompts: %w", err)
	}
	return loaded, nil
}

// generateIDFromPath creates a prompt ID from the file path
// e.g., "prompts/refine/section.json" -> "refine.section"
func generateIDFromPath(path string, baseDir string) string {
	relPath, _ := filepath.Rel(baseDir, path)
	relPath = strings.TrimSuffix(relPath, ".json")
	return strings.ReplaceAll(relPath, string(filepath.Separator), ".")
}

// detectCategory extracts the category from the folder structure
func detectCategory(path string, baseDir string) string {
	relPath, _ := filepath.Rel(baseDir, path)
	parts := strings.Split(relPath, string(filepath.Separator))
	if len(parts) > 1 {
		return parts[0]
	}
	return "default"
}
