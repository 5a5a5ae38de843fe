package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFiltersClauseAndArgs(t *testing.T) {
	begin := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2020, 2, 1, 0, 0, 0, 0, time.UTC)

	f := NewFilters("user_0")
	f.Equal("status", "circulating")
	f.Equal("amount", int64(100))
	f.Since("created", begin)
	f.Before("created", end)

	assert.Equal(t,
		" WHERE user_key = ? AND status = ? AND amount = ?"+
			" AND created >= ? AND created < ?",
		f.Clause())
	assert.Equal(t,
		[]interface{}{"user_0", "circulating", int64(100), begin, end},
		f.Args())

	// Extra args are appended after the filter args.
	assert.Equal(t,
		[]interface{}{"user_0", "circulating", int64(100), begin, end,
			uint64(10), uint64(20)},
		f.Args(uint64(10), uint64(20)))
}

func TestFiltersPrefixBindsEscapedPattern(t *testing.T) {
	f := NewFilters("user_0")
	f.Prefix("currency_id", "ab")

	assert.Equal(t,
		" WHERE user_key = ? AND currency_id LIKE ? ESCAPE '\\'",
		f.Clause())
	assert.Equal(t, []interface{}{"user_0", "ab%"}, f.Args())
}

func TestEscapeLikePattern(t *testing.T) {
	// Caller-supplied metacharacters match literally.
	assert.Equal(t, `ab\%cd`, escapeLikePattern("ab%cd"))
	assert.Equal(t, `ab\_cd`, escapeLikePattern("ab_cd"))
	assert.Equal(t, `ab\\cd`, escapeLikePattern(`ab\cd`))
	assert.Equal(t, `ab\\\%`, escapeLikePattern(`ab\%`))
	assert.Equal(t, "abcd", escapeLikePattern("abcd"))

	f := NewFilters("user_0")
	f.Prefix("currency_id", "a%_")
	assert.Equal(t, []interface{}{"user_0", `a\%\_%`}, f.Args())
}
