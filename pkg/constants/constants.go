// Package constants provides shared constants used throughout the assetlink
// codebase: file permissions, key modes, scoring weights and configuration
// defaults that must stay consistent between the library and the CLI.
package constants

// File permission constants define standard Unix file permissions
const (
	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0644
)

// Key mode constants select which normalizer variants the indexer and
// matcher use.
const (
	// KeyModeDefault uses the pure-numeric station variant and plain area keys.
	KeyModeDefault = "default"

	// KeyModeCanonical uses the digit-run station variant and expanded area keys.
	KeyModeCanonical = "canonical"
)

// Fuzzy scoring weights. Each signal contributes a fixed number of points.
const (
	// ScorePartialKey is awarded when one key contains the other
	ScorePartialKey = 40

	// ScoreENumber is awarded when robot E-numbers agree (strongest robot identifier)
	ScoreENumber = 50

	// ScoreToolCode is awarded when tool codes agree
	ScoreToolCode = 30

	// ScoreGunCode is awarded when gun codes agree
	ScoreGunCode = 25

	// ScoreCaption is awarded when robot captions agree
	ScoreCaption = 25

	// ScoreLine is awarded when station lines agree
	ScoreLine = 20

	// ScoreBay is awarded when station bays agree
	ScoreBay = 15

	// ScoreName is awarded for an order and whitespace insensitive name match
	ScoreName = 20

	// ScoreInactivePenalty is applied to records marked inactive
	ScoreInactivePenalty = -10
)

// Limits and defaults
const (
	// DefaultMaxCandidates is the default cap on fuzzy candidates returned to a reviewer
	DefaultMaxCandidates = 10

	// ConfigFileName is the config file name searched in $HOME and the working directory
	ConfigFileName = ".assetlink"

	// AppName is the CLI binary name
	AppName = "assetlink"
)

// Format constants
const (
	// FormatTable represents table output format
	FormatTable = "table"

	// FormatJSON represents JSON output format
	FormatJSON = "json"

	// FormatYAML represents YAML output format
	FormatYAML = "yaml"

	// FormatWide represents wide table output format
	FormatWide = "wide"
)
