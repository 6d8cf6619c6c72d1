package ir

// Version constants for the IR and the Quil dialect it models.
const (
	// IRVersion is the IR schema version.
	IRVersion = "1"

	// QuilVersion is the Quil-T language revision the IR renders.
	QuilVersion = "2021.1"
)
