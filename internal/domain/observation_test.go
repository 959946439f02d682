package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRecord_Value(t *testing.T) {
	r := Record{Values: map[string]*float64{
		"temperature_air_200":  Float(21.4),
		"precipitation_height": nil,
	}}

	v, ok := r.Value("temperature_air_200")
	assert.True(t, ok)
	assert.Equal(t, 21.4, v)

	_, ok = r.Value("precipitation_height")
	assert.False(t, ok, "sentinel-mapped missing value must not read as present")

	_, ok = r.Value("no_such_column")
	assert.False(t, ok)
}

func TestRecord_EqualValues(t *testing.T) {
	base := Record{Values: map[string]*float64{"a": Float(1), "b": nil}}

	_, equal := base.EqualValues(Record{Values: map[string]*float64{"a": Float(1), "b": nil}})
	assert.True(t, equal)

	// Missing and absent are the same thing.
	_, equal = base.EqualValues(Record{Values: map[string]*float64{"a": Float(1)}})
	assert.True(t, equal)

	col, equal := base.EqualValues(Record{Values: map[string]*float64{"a": Float(2), "b": nil}})
	assert.False(t, equal)
	assert.Equal(t, "a", col)

	col, equal = base.EqualValues(Record{Values: map[string]*float64{"a": Float(1), "b": Float(0)}})
	assert.False(t, equal, "zero and missing are different values")
	assert.Equal(t, "b", col)
}

func TestStation_CoversRange(t *testing.T) {
	s := Station{
		From: time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2000, 12, 31, 0, 0, 0, 0, time.UTC),
	}

	assert.True(t, s.CoversRange(
		time.Date(1995, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(1996, 1, 1, 0, 0, 0, 0, time.UTC)))
	assert.True(t, s.CoversRange(time.Time{}, time.Time{}), "open range always overlaps")
	assert.False(t, s.CoversRange(
		time.Date(2010, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2011, 1, 1, 0, 0, 0, 0, time.UTC)))
	assert.False(t, s.CoversRange(
		time.Date(1980, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(1985, 1, 1, 0, 0, 0, 0, time.UTC)))
}

func TestRemoteFileRef_OverlapsRange(t *testing.T) {
	dated := RemoteFileRef{
		From: time.Date(1937, 1, 1, 0, 0, 0, 0, time.UTC),
		To:   time.Date(1986, 6, 30, 0, 0, 0, 0, time.UTC),
	}
	assert.True(t, dated.OverlapsRange(
		time.Date(1950, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(1960, 1, 1, 0, 0, 0, 0, time.UTC)))
	assert.False(t, dated.OverlapsRange(
		time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC), time.Time{}))

	undated := RemoteFileRef{}
	assert.True(t, undated.OverlapsRange(
		time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(1991, 1, 1, 0, 0, 0, 0, time.UTC)))
}
