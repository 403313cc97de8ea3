package timeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestClassifyDefaultScheme(t *testing.T) {
	scheme := DefaultScheme()
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		age  time.Duration
		want Bucket
	}{
		{"thirty seconds", 30 * time.Second, BucketJustNow},
		{"exactly one hour", time.Hour, BucketJustNow},
		{"six hours", 6 * time.Hour, BucketToday},
		{"thirty hours", 30 * time.Hour, BucketYesterday},
		{"four days", 4 * 24 * time.Hour, BucketThisWeek},
		{"nine days", 9 * 24 * time.Hour, BucketOlder},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := scheme.Classify(now.Add(-tt.age), now)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClassifyNegativeAge(t *testing.T) {
	scheme := DefaultScheme()
	now := time.Now()

	// Clock skew: a record from the "future" belongs to the newest bucket.
	got := scheme.Classify(now.Add(5*time.Minute), now)
	assert.Equal(t, BucketJustNow, got)
}

func TestClassifyZeroTimestamp(t *testing.T) {
	scheme := DefaultScheme()

	// Missing timestamp classifies into the catch-all instead of erroring.
	got := scheme.Classify(time.Time{}, time.Now())
	assert.Equal(t, BucketOlder, got)
}

func TestClassifyMonotonic(t *testing.T) {
	scheme := DefaultScheme()
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	index := func(b Bucket) int {
		for i, def := range scheme {
			if def.Bucket == b {
				return i
			}
		}
		t.Fatalf("unknown bucket %s", b)
		return -1
	}

	ages := []time.Duration{
		0, time.Minute, time.Hour, 2 * time.Hour, 23 * time.Hour,
		25 * time.Hour, 47 * time.Hour, 3 * 24 * time.Hour, 30 * 24 * time.Hour,
	}
	prev := -1
	for _, age := range ages {
		got := index(scheme.Classify(now.Add(-age), now))
		assert.GreaterOrEqual(t, got, prev, "age %v jumped into a newer bucket", age)
		prev = got
	}
}
