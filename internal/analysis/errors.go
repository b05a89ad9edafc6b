package analysis

import "linkscout/internal/tabular"

// ParseError reports malformed delimited text in one of the inputs.
type ParseError = tabular.ParseError

// SchemaError reports required headers missing from a non-empty input.
type SchemaError = tabular.SchemaError

// EmptyInputError means there is nothing to analyse: the embeddings input has
// no rows, or none of its rows decode to a vector.
type EmptyInputError struct {
	Msg string
}

func (e *EmptyInputError) Error() string {
	return e.Msg
}

// ValidationError reports a caller precondition that does not hold.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}
