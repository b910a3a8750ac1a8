package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/forcelift/forcelift/internal/config"
	"github.com/forcelift/forcelift/internal/domain/promotion/domain"
)

// marshalReport writes the whole report to w in the given format.
func marshalReport(w io.Writer, report *domain.Report, format string) error {
	switch format {
	case config.FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			return fmt.Errorf("failed to encode report: %w", err)
		}
		return nil
	case config.FormatYAML:
		out, err := yaml.Marshal(report)
		if err != nil {
			return fmt.Errorf("failed to encode report: %w", err)
		}
		_, err = w.Write(out)
		return err
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}
