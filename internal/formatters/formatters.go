package formatters

import (
	"encoding/json"
	"fmt"
	"strings"

	"jobmatch/internal/types"
)

// Formatter interface for different output formats
type Formatter interface {
	Format(data any) (string, error)
	SupportedType() string
}

// FormatterRegistry manages all available formatters
type FormatterRegistry struct {
	formatters map[string]map[string]Formatter // format -> type -> formatter
}

// NewFormatterRegistry creates a new formatter registry with default formatters
func NewFormatterRegistry() *FormatterRegistry {
	registry := &FormatterRegistry{
		formatters: make(map[string]map[string]Formatter),
	}

	registry.RegisterFormatter("json", "any", &JSONFormatter{})
	registry.RegisterFormatter("text", "Recommendations", &RecommendationsTextFormatter{})
	registry.RegisterFormatter("markdown", "Recommendations", &RecommendationsMarkdownFormatter{})

	return registry
}

// RegisterFormatter registers a new formatter for a specific format and data type
func (fr *FormatterRegistry) RegisterFormatter(format, dataType string, formatter Formatter) {
	if fr.formatters[format] == nil {
		fr.formatters[format] = make(map[string]Formatter)
	}
	fr.formatters[format][dataType] = formatter
}

// Format formats data using the appropriate formatter
func (fr *FormatterRegistry) Format(data any, format string) (string, error) {
	dataType := getDataType(data)

	// Try specific formatter first
	if formatters, exists := fr.formatters[format]; exists {
		if formatter, exists := formatters[dataType]; exists {
			return formatter.Format(data)
		}
		// Fall back to generic formatter
		if formatter, exists := formatters["any"]; exists {
			return formatter.Format(data)
		}
	}

	return "", fmt.Errorf("no formatter found for format '%s' and type '%s'", format, dataType)
}

// GetSupportedFormats returns all supported formats
func (fr *FormatterRegistry) GetSupportedFormats() []string {
	formats := make([]string, 0, len(fr.formatters))
	for format := range fr.formatters {
		formats = append(formats, format)
	}
	return formats
}

func getDataType(data any) string {
	switch data.(type) {
	case types.Recommendations:
		return "Recommendations"
	default:
		return "any"
	}
}

// JSONFormatter handles JSON formatting for any data type
type JSONFormatter struct{}

func (jf *JSONFormatter) Format(data any) (string, error) {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", err
	}
	return string(jsonData), nil
}

func (jf *JSONFormatter) SupportedType() string {
	return "any"
}

// RecommendationsTextFormatter renders a ranked recommendation list for the
// terminal.
type RecommendationsTextFormatter struct{}

func (rtf *RecommendationsTextFormatter) Format(data any) (string, error) {
	result, ok := data.(types.Recommendations)
	if !ok {
		return "", fmt.Errorf("expected Recommendations, got %T", data)
	}

	var output strings.Builder

	output.WriteString("=== JOB RECOMMENDATIONS ===\n\n")

	if result.SoftError != "" {
		output.WriteString("Note: ")
		output.WriteString(result.SoftError)
		output.WriteString("\n\n")
	}

	if len(result.Candidates) == 0 {
		output.WriteString("No recommendations available.\n")
		return output.String(), nil
	}

	for i, c := range result.Candidates {
		output.WriteString(fmt.Sprintf("%d. %s", i+1, c.Title))
		if c.Company != "" {
			output.WriteString(fmt.Sprintf(" at %s", c.Company))
		}
		output.WriteString(fmt.Sprintf(" (score %d)\n", c.Score))

		if c.Location != "" {
			output.WriteString(fmt.Sprintf("   Location: %s\n", c.Location))
		}
		if c.Salary != "" {
			output.WriteString(fmt.Sprintf("   Salary: %s\n", c.Salary))
		}
		output.WriteString(fmt.Sprintf("   Why: %s\n", c.PrimaryReason))
		if len(c.Reasons) > 1 {
			for _, reason := range c.Reasons[1:] {
				output.WriteString(fmt.Sprintf("   - %s\n", reason))
			}
		}
		if c.AIScore != nil {
			output.WriteString(fmt.Sprintf("   AI assessment: %d/100", *c.AIScore))
			if c.AIReason != "" {
				output.WriteString(fmt.Sprintf(" (%s)", c.AIReason))
			}
			output.WriteString("\n")
		}
		if c.Source != types.SourcePosting {
			output.WriteString(fmt.Sprintf("   Source: %s\n", c.Source))
		}
		output.WriteString("\n")
	}

	return output.String(), nil
}

func (rtf *RecommendationsTextFormatter) SupportedType() string {
	return "Recommendations"
}

// RecommendationsMarkdownFormatter renders a ranked recommendation list as
// markdown.
type RecommendationsMarkdownFormatter struct{}

func (rmf *RecommendationsMarkdownFormatter) Format(data any) (string, error) {
	result, ok := data.(types.Recommendations)
	if !ok {
		return "", fmt.Errorf("expected Recommendations, got %T", data)
	}

	var output strings.Builder

	output.WriteString("# Job Recommendations\n\n")

	if result.SoftError != "" {
		output.WriteString("> ")
		output.WriteString(result.SoftError)
		output.WriteString("\n\n")
	}

	if len(result.Candidates) == 0 {
		output.WriteString("No recommendations available.\n")
		return output.String(), nil
	}

	for i, c := range result.Candidates {
		output.WriteString(fmt.Sprintf("## %d. %s", i+1, c.Title))
		if c.Company != "" {
			output.WriteString(fmt.Sprintf(" at %s", c.Company))
		}
		output.WriteString("\n\n")

		output.WriteString(fmt.Sprintf("**Score:** %d\n\n", c.Score))
		if c.Location != "" {
			output.WriteString(fmt.Sprintf("**Location:** %s\n\n", c.Location))
		}
		output.WriteString(fmt.Sprintf("**Why:** %s\n\n", c.PrimaryReason))
		if len(c.Reasons) > 1 {
			for _, reason := range c.Reasons[1:] {
				output.WriteString(fmt.Sprintf("- %s\n", reason))
			}
			output.WriteString("\n")
		}
		if c.AIScore != nil {
			output.WriteString(fmt.Sprintf("**AI assessment:** %d/100", *c.AIScore))
			if c.AIReason != "" {
				output.WriteString(fmt.Sprintf(": %s", c.AIReason))
			}
			output.WriteString("\n\n")
		}
	}

	if len(result.JobTitlesUsed) > 0 {
		output.WriteString("---\n\nTitles considered: ")
		output.WriteString(strings.Join(result.JobTitlesUsed, ", "))
		output.WriteString("\n")
	}

	return output.String(), nil
}

func (rmf *RecommendationsMarkdownFormatter) SupportedType() string {
	return "Recommendations"
}

// Global formatter registry
var GlobalRegistry = NewFormatterRegistry()
