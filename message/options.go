package message

import "github.com/M1tsumi/ZeroProto/internal/options"

// ReaderConfig holds the tunable decoding behavior of a Reader.
type ReaderConfig struct {
	// StrictBool rejects bool payloads other than 0 and 1.
	StrictBool bool
}

// ReaderOption represents a functional option for configuring a Reader.
type ReaderOption = options.Option[*ReaderConfig]

// WithStrictBool makes bool accessors fail with errs.ErrInvalidBool for any
// payload byte other than 0 or 1. The default accepts any non-zero byte as
// true.
func WithStrictBool() ReaderOption {
	return options.NoError(func(c *ReaderConfig) {
		c.StrictBool = true
	})
}

// BuilderConfig holds the tunable behavior of a Builder.
type BuilderConfig struct {
	// StrictDuplicates rejects setting the same field index twice instead
	// of overwriting.
	StrictDuplicates bool
	// AllowSparse permits gaps in the set field indices at Finish. The
	// emitted field count is the number of set indices; absent indices are
	// simply not in the table. Schemas with optional fields rely on this.
	AllowSparse bool
}

// BuilderOption represents a functional option for configuring a Builder.
type BuilderOption = options.Option[*BuilderConfig]

// WithStrictDuplicates makes the builder fail with errs.ErrDuplicateIndex
// when a field index is set twice. The default overwrites the earlier value.
func WithStrictDuplicates() BuilderOption {
	return options.NoError(func(c *BuilderConfig) {
		c.StrictDuplicates = true
	})
}

// WithAllowSparse permits non-contiguous field indices at Finish. Without it,
// gaps fail with errs.ErrSparseFields.
func WithAllowSparse() BuilderOption {
	return options.NoError(func(c *BuilderConfig) {
		c.AllowSparse = true
	})
}
