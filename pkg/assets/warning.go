package assets

import (
	"github.com/google/uuid"
)

// WarningKind classifies an ingestion warning.
type WarningKind string

const (
	// WarningMissingTarget is emitted once per asset that matched nothing.
	WarningMissingTarget WarningKind = "LINKING_MISSING_TARGET"
	// WarningAmbiguous is emitted once per match that had more than one candidate.
	WarningAmbiguous WarningKind = "LINKING_AMBIGUOUS"
)

// warningNamespace seeds deterministic warning ids.
var warningNamespace = uuid.MustParse("5d4b0c39-2f7e-4c1a-9a53-7f8e3b1d2c60")

// WarningDetails carries the structured context a reviewer needs.
type WarningDetails struct {
	EntityType     Kind     `json:"entityType" yaml:"entityType"`
	EntityID       string   `json:"entityId" yaml:"entityId"`
	EntityName     string   `json:"entityName,omitempty" yaml:"entityName,omitempty"`
	MatchKey       string   `json:"matchKey,omitempty" yaml:"matchKey,omitempty"`
	Attempted      []string `json:"attempted,omitempty" yaml:"attempted,omitempty"`
	CandidateCount int      `json:"candidateCount,omitempty" yaml:"candidateCount,omitempty"`
	Reason         string   `json:"reason" yaml:"reason"`
}

// IngestionWarning is consumed by the host application's reporting layer.
type IngestionWarning struct {
	ID       string         `json:"id" yaml:"id"`
	Kind     WarningKind    `json:"kind" yaml:"kind"`
	FileName string         `json:"fileName,omitempty" yaml:"fileName,omitempty"`
	Message  string         `json:"message" yaml:"message"`
	Details  WarningDetails `json:"details" yaml:"details"`
}

// NewWarning builds a warning whose id is stable for the same kind and entity,
// so identical runs report identical warnings.
func NewWarning(kind WarningKind, fileName, message string, details WarningDetails) IngestionWarning {
	seed := string(kind) + "|" + string(details.EntityType) + "|" + details.EntityID
	return IngestionWarning{
		ID:       uuid.NewSHA1(warningNamespace, []byte(seed)).String(),
		Kind:     kind,
		FileName: fileName,
		Message:  message,
		Details:  details,
	}
}
