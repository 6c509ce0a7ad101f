// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package history

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/textfile-editor/pkg/types"
)

// Format selects the export encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// Export writes entries matching opts to w. opts.Limit 0 exports everything.
func (s *Store) Export(ctx context.Context, w io.Writer, format Format, opts ListOptions) error {
	if opts.Limit == 0 {
		opts.Limit = -1
	}
	entries, err := s.List(ctx, opts)
	if err != nil {
		return fmt.Errorf("querying for export: %w", err)
	}
	if entries == nil {
		entries = []types.HistoryEntry{}
	}

	switch format {
	case FormatYAML, "":
		data, err := yaml.Marshal(entries)
		if err != nil {
			return fmt.Errorf("marshaling YAML: %w", err)
		}
		_, err = w.Write(data)
		return err
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	default:
		return fmt.Errorf("unsupported format %q: use yaml or json", format)
	}
}
