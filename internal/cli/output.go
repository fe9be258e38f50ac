package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/jmylchreest/dynpal/internal/colour"
)

// Output formats accepted by --format.
const (
	formatHexName  = "hex"
	formatRGBName  = "rgb"
	formatJSONName = "json"
)

func validFormats() []string {
	return []string{formatHexName, formatRGBName, formatJSONName}
}

func validateFormat(format string) error {
	switch format {
	case formatHexName, formatRGBName, formatJSONName:
		return nil
	default:
		return fmt.Errorf("unsupported format: %s (supported: %s)", format, strings.Join(validFormats(), ", "))
	}
}

// Preview modes accepted by --preview.
const (
	previewAuto   = "auto"
	previewAlways = "always"
	previewNever  = "never"
)

// previewEnabled resolves a --preview mode against the destination writer.
func previewEnabled(mode string, w io.Writer) (bool, error) {
	switch mode {
	case previewAlways:
		return true, nil
	case previewNever:
		return false, nil
	case previewAuto:
		return colour.SupportsANSIColours(w), nil
	default:
		return false, fmt.Errorf("invalid preview mode: %s (valid: auto, always, never)", mode)
	}
}

// renderResults formats one palette per extraction, in argument order.
func renderResults(results []extraction, format string, preview bool) (string, error) {
	if format == formatJSONName {
		docs := make([]colour.PaletteJSON, len(results))
		for i, r := range results {
			docs[i] = r.json()
		}
		var (
			data []byte
			err  error
		)
		if len(docs) == 1 {
			data, err = json.MarshalIndent(docs[0], "", "  ")
		} else {
			data, err = json.MarshalIndent(docs, "", "  ")
		}
		if err != nil {
			return "", fmt.Errorf("failed to convert to JSON: %w", err)
		}
		return string(data) + "\n", nil
	}

	var b strings.Builder
	for i, r := range results {
		if len(results) > 1 {
			if i > 0 {
				b.WriteString("\n")
			}
			fmt.Fprintf(&b, "# %s\n", r.source)
		}
		out, err := formatPalette(r.palette, format, preview)
		if err != nil {
			return "", err
		}
		b.WriteString(out)
	}
	return b.String(), nil
}

// formatPalette formats the palette according to the specified format.
func formatPalette(palette *colour.Palette, format string, showPreview bool) (string, error) {
	switch format {
	case formatHexName:
		return formatHex(palette, showPreview), nil
	case formatRGBName:
		return formatRGB(palette, showPreview), nil
	case formatJSONName:
		data, err := palette.ToJSON()
		if err != nil {
			return "", fmt.Errorf("failed to convert to JSON: %w", err)
		}
		return string(data) + "\n", nil
	default:
		return "", validateFormat(format)
	}
}

// formatHex formats the palette as hex colour codes.
func formatHex(palette *colour.Palette, showPreview bool) string {
	var b strings.Builder
	for _, rgb := range palette.ToRGBSlice() {
		if showPreview {
			b.WriteString(colour.FormatColourWithPreview(rgb, 8))
		} else {
			b.WriteString(rgb.Hex())
		}
		b.WriteString("\n")
	}
	return b.String()
}

// formatRGB formats the palette as RGB values.
func formatRGB(palette *colour.Palette, showPreview bool) string {
	var b strings.Builder
	for _, rgb := range palette.ToRGBSlice() {
		if showPreview {
			b.WriteString(colour.ColourPreview(rgb, 8) + "  ")
		}
		b.WriteString(rgb.String())
		b.WriteString("\n")
	}
	return b.String()
}
