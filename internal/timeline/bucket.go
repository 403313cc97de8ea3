package timeline

import "time"

// Bucket is a named, age-based classification band used to group records
// for display.
type Bucket string

const (
	BucketJustNow   Bucket = "just_now"
	BucketToday     Bucket = "today"
	BucketYesterday Bucket = "yesterday"
	BucketThisWeek  Bucket = "this_week"
	BucketOlder     Bucket = "older"
)

// BucketDef pairs a bucket with its inclusive age ceiling. A zero Ceiling
// marks the terminal catch-all bucket.
type BucketDef struct {
	Bucket  Bucket
	Ceiling time.Duration
}

// Scheme is an ordered list of bucket definitions. Ceilings strictly
// increase; the last entry is the unbounded catch-all.
type Scheme []BucketDef

// DefaultScheme returns the standard display bands.
func DefaultScheme() Scheme {
	return Scheme{
		{Bucket: BucketJustNow, Ceiling: time.Hour},
		{Bucket: BucketToday, Ceiling: 24 * time.Hour},
		{Bucket: BucketYesterday, Ceiling: 48 * time.Hour},
		{Bucket: BucketThisWeek, Ceiling: 7 * 24 * time.Hour},
		{Bucket: BucketOlder},
	}
}

// Classify returns the first bucket whose ceiling covers the record's age.
// Negative ages (clock skew) land in the first bucket. A zero createdAt is
// unclassifiable and goes to the terminal catch-all rather than being
// rejected.
func (s Scheme) Classify(createdAt, now time.Time) Bucket {
	if len(s) == 0 {
		return BucketOlder
	}
	if createdAt.IsZero() {
		return s[len(s)-1].Bucket
	}
	age := now.Sub(createdAt)
	for _, def := range s[:len(s)-1] {
		if age <= def.Ceiling {
			return def.Bucket
		}
	}
	return s[len(s)-1].Bucket
}
