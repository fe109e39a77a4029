package domain

// DefaultSequenceCeiling is the highest number any (tenant, document type) sequence may issue.
const DefaultSequenceCeiling int64 = 999_999_999

// SequenceKey identifies one independent numbering sequence.
type SequenceKey struct {
	TenantID     string
	DocumentType DocumentType
}

func (k SequenceKey) String() string {
	return k.TenantID + "|" + string(k.DocumentType)
}
