package ucsf

// Option configures Open.
type Option func(*openOptions)

type openOptions struct {
	allowTruncated bool
}

func defaultOpenOptions() *openOptions {
	return &openOptions{}
}

// AllowTruncated disables the open-time check that the byte source is large
// enough for the full tile grid the header declares. Points that fall inside
// the missing region then fail at read time instead. Useful for salvaging
// cut-short acquisitions.
func AllowTruncated() Option {
	return func(o *openOptions) {
		o.allowTruncated = true
	}
}
