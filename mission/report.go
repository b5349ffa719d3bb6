package mission

import (
	"encoding/json"
	"os"

	"github.com/m-mizutani/goerr/v2"
)

// SaveResult writes a mission result (including the step log) as indented
// JSON.
func SaveResult(path string, result *Result) error {
	return saveJSON(path, result)
}

// SaveReport writes a batch evaluation report as indented JSON.
func SaveReport(path string, report *Report) error {
	return saveJSON(path, report)
}

func saveJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return goerr.Wrap(err, "failed to marshal report")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return goerr.Wrap(err, "failed to write report", goerr.V("path", path))
	}
	return nil
}
