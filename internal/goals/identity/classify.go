package identity

import "regexp"

// Classification of a submitted node id.
type Class int

const (
	// Ephemeral ids come from the authoring surface (empty strings or
	// short placeholders like "okr-3"). They are discarded after the
	// write allocates a persisted id and are never reused.
	Ephemeral Class = iota
	// Persisted ids were generated by NewID and reference a stored row.
	Persisted
)

var idPattern = regexp.MustCompile(`^(gol|met|act)_[0-9a-f]{32}$`)

// Classify reports whether a submitted id references a stored row of the
// given kind. Only the exact shape produced by NewID classifies as
// Persisted; everything else is a new node. The preferred "new" signal
// from clients is an empty id.
func Classify(kind Kind, id string) Class {
	if id == "" {
		return Ephemeral
	}
	if !idPattern.MatchString(id) {
		return Ephemeral
	}
	if id[:3] != string(kind) {
		return Ephemeral
	}
	return Persisted
}

// IsPersisted is a convenience wrapper around Classify.
func IsPersisted(kind Kind, id string) bool {
	return Classify(kind, id) == Persisted
}
