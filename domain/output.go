package domain

// OutputFormat represents the supported output formats
type OutputFormat string

const (
	OutputFormatText    OutputFormat = "text"
	OutputFormatJSON    OutputFormat = "json"
	OutputFormatYAML    OutputFormat = "yaml"
	OutputFormatMermaid OutputFormat = "mermaid"
)

// SortCriteria represents the criteria for sorting report rows
type SortCriteria string

const (
	SortByName       SortCriteria = "name"
	SortByComplexity SortCriteria = "complexity"
	SortByRisk       SortCriteria = "risk"
	SortByConfidence SortCriteria = "confidence"
	SortByLocation   SortCriteria = "location"
)
