package domain

// RawList is the unparsed body of one source as returned by a fetcher.
// It is consumed once by the format parser.
type RawList struct {
	Source string // URL or path the body came from
	Body   []byte
}
