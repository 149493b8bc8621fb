package schema

// Custom string types for type safety.
type (
	// OpKind represents the operation carried by a ranking event.
	OpKind string

	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for caching and run tracking.
	DatabaseBackend string

	// LayoutStrategy represents the algorithm used to assign tracks.
	LayoutStrategy string

	// RatingKind selects which catalog rating is used for rankings.
	RatingKind string

	// InputFormat represents the encoding of the event records.
	InputFormat string

	// MarkerKind is the plot marker attached to an item.
	MarkerKind string
)

// All event operations supported.
const (
	InsertOp OpKind = "insert"
	MoveOp   OpKind = "move"
	RemoveOp OpKind = "remove"
)

// All output modes supported.
const (
	CSVOut     OutputMode = "csv"
	TextOut    OutputMode = "text" // default
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
)

// All database backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// All layout strategies supported.
const (
	StableLayout LayoutStrategy = "stable" // default
	RankLayout   LayoutStrategy = "rank"
)

// All rating kinds supported.
const (
	UserRating   RatingKind = "user"
	CriticRating RatingKind = "critic"
	TotalRating  RatingKind = "total" // default
)

// All input formats supported.
const (
	CSVInput   InputFormat = "csv"
	JSONInput  InputFormat = "json"
	YAMLInput  InputFormat = "yaml"
	ListsInput InputFormat = "lists"
)

// All marker kinds, in cycling order.
const (
	TriangleMarker MarkerKind = "triangle"
	CircleMarker   MarkerKind = "circle"
	CrossMarker    MarkerKind = "cross"
)

// MarkerCycle is the order in which markers are handed out.
var MarkerCycle = []MarkerKind{TriangleMarker, CircleMarker, CrossMarker}

// ValidOpKinds lists all valid event operations.
var ValidOpKinds = map[OpKind]struct{}{
	InsertOp: {},
	MoveOp:   {},
	RemoveOp: {},
}

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:     {},
	TextOut:    {},
	JSONOut:    {},
	ParquetOut: {},
}

// ValidDatabaseBackends lists all valid database backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// ValidLayoutStrategies lists all valid layout strategies.
var ValidLayoutStrategies = map[LayoutStrategy]struct{}{
	StableLayout: {},
	RankLayout:   {},
}

// ValidRatingKinds lists all valid rating kinds.
var ValidRatingKinds = map[RatingKind]struct{}{
	UserRating:   {},
	CriticRating: {},
	TotalRating:  {},
}

// ValidInputFormats lists all valid input formats.
var ValidInputFormats = map[InputFormat]struct{}{
	CSVInput:   {},
	JSONInput:  {},
	YAMLInput:  {},
	ListsInput: {},
}

// RatingTitle returns the human-readable name for a rating kind.
func RatingTitle(kind RatingKind) string {
	switch kind {
	case UserRating:
		return "Catalog User Ranking"
	case CriticRating:
		return "Catalog Critic Ranking"
	default:
		return "Catalog Ranking"
	}
}
