package types

// BookMetadata describes a book as reported by a single source.
// Only Title is required; nil pointers and empty strings mean "not reported".
type BookMetadata struct {
	Title     string  `json:"title" yaml:"title"`
	Author    *string `json:"author" yaml:"author"`
	CoverURL  *string `json:"cover" yaml:"cover"`
	PageCount *int    `json:"pages" yaml:"pages"`
	ISBN      *string `json:"isbn" yaml:"isbn"`
	Publisher *string `json:"publisher" yaml:"publisher"`
	Year      *string `json:"year" yaml:"year"`
	SourceID  *string `json:"source_id" yaml:"source_id"`
	SourceURL *string `json:"source_url" yaml:"source_url"`
}

// StringPtr returns a pointer to s, or nil when s is empty.
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// IntPtr returns a pointer to n, or nil when n is not positive.
func IntPtr(n int) *int {
	if n <= 0 {
		return nil
	}
	return &n
}

// Deref returns the pointed-to string or "".
func Deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
