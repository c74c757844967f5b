package dialect

import "fmt"

// Feature optional capability of a dialect, see Dialect.Supports
type Feature int

const (
	NoWaitLocks Feature = iota + 1
	SkipLockedLocks
	// WaitLocks lock clauses accept a wait timeout
	WaitLocks
	// AliasLocks "for update of" restricted to some tables or columns
	AliasLocks
	ForShare
	FetchWithTies
	Sequences
	IdentityColumns
	// StructAggregates embeddables stored in a user defined composite type
	StructAggregates
	// JSONAggregates embeddables stored in a JSON column
	JSONAggregates
	Returning
	Lateral
	WindowFunctions
	IfExistsBeforeTableName
	CommentOn
)

var featureNames = map[Feature]string{
	NoWaitLocks:             "nowait_locks",
	SkipLockedLocks:         "skip_locked_locks",
	WaitLocks:               "wait_locks",
	AliasLocks:              "alias_locks",
	ForShare:                "for_share",
	FetchWithTies:           "fetch_with_ties",
	Sequences:               "sequences",
	IdentityColumns:         "identity_columns",
	StructAggregates:        "struct_aggregates",
	JSONAggregates:          "json_aggregates",
	Returning:               "returning",
	Lateral:                 "lateral",
	WindowFunctions:         "window_functions",
	IfExistsBeforeTableName: "if_exists_before_table_name",
	CommentOn:               "comment_on",
}

func (f Feature) String() string {
	if name, ok := featureNames[f]; ok {
		return name
	}
	return fmt.Sprintf("feature(%d)", int(f))
}

// Features every known feature in declaration order
func Features() []Feature {
	features := make([]Feature, 0, len(featureNames))
	for f := NoWaitLocks; f <= CommentOn; f++ {
		features = append(features, f)
	}
	return features
}

// Template vendor SQL fragment looked up with Dialect.Template
type Template int

const (
	CurrentDate Template = iota + 1
	CurrentTime
	CurrentTimestamp
	CurrentTimestampWithTimeZone
	// CurrentTimestampSelect query returning the database time
	CurrentTimestampSelect
	CurrentSchemaCommand
	CascadeConstraints
	// NoColumnsInsert insert tail for a row with only default values
	NoColumnsInsert
	CaseInsensitiveLike
	IdentityColumn
	// SequenceNextVal query returning the next value of sequence ?1
	SequenceNextVal
)

var templateNames = map[Template]string{
	CurrentDate:                  "current_date",
	CurrentTime:                  "current_time",
	CurrentTimestamp:             "current_timestamp",
	CurrentTimestampWithTimeZone: "current_timestamp_with_timezone",
	CurrentTimestampSelect:       "current_timestamp_select",
	CurrentSchemaCommand:         "current_schema_command",
	CascadeConstraints:           "cascade_constraints",
	NoColumnsInsert:              "no_columns_insert",
	CaseInsensitiveLike:          "case_insensitive_like",
	IdentityColumn:               "identity_column",
	SequenceNextVal:              "sequence_next_val",
}

func (t Template) String() string {
	if name, ok := templateNames[t]; ok {
		return name
	}
	return fmt.Sprintf("template(%d)", int(t))
}
