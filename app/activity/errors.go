package activity

import (
	"fmt"
)

// MalformedFeedError reports that the byte stream is not a well-formed
// feed document. No partial result is produced alongside it.
type MalformedFeedError struct {
	Err error
}

func (e *MalformedFeedError) Error() string {
	return fmt.Sprintf("malformed feed: %v", e.Err)
}

func (e *MalformedFeedError) Unwrap() error {
	return e.Err
}

// MissingFieldError reports a required field absent from a specific entry.
type MissingFieldError struct {
	EntryID string
	Field   string
}

func (e *MissingFieldError) Error() string {
	if e.EntryID == "" {
		return fmt.Sprintf("entry is missing required field %q", e.Field)
	}
	return fmt.Sprintf("entry %s is missing required field %q", e.EntryID, e.Field)
}

// TimestampFormatError reports a published value that does not match the
// strict feed timestamp format.
type TimestampFormatError struct {
	EntryID string
	Value   string
}

func (e *TimestampFormatError) Error() string {
	return fmt.Sprintf("entry %s has unparseable published timestamp %q", e.EntryID, e.Value)
}
