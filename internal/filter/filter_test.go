package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRelevantKeywordMatch(t *testing.T) {
	f := New("iphone", "phone", false, DefaultRules())

	assert.True(t, f.Relevant("iPhone 16 128GB"))
	assert.True(t, f.Relevant("  IPHONE 15 pro max  "))
	assert.False(t, f.Relevant("Samsung Galaxy S24"))
	assert.False(t, f.Relevant(""))
	assert.False(t, f.Relevant("   "))
}

func TestAccessoryExclusionBeatsKeywordMatch(t *testing.T) {
	f := New("iphone", "phone", false, DefaultRules())

	// The keyword substring matches, but the accessory group must fire.
	assert.False(t, f.Relevant("  IPHONE case  "))
	assert.False(t, f.Relevant("iPhone 16 Case"))
	assert.False(t, f.Relevant("iphone screen protector"))
	assert.False(t, f.Relevant("iphone charger"))
}

func TestBaseExclusionGroups(t *testing.T) {
	f := New("iphone", "phone", false, DefaultRules())

	assert.False(t, f.Relevant("iphone swap for motorbike"))
	assert.False(t, f.Relevant("iphone 14 box only"))
	assert.False(t, f.Relevant("wanted: iphone repair service"))
}

func TestFamilyGroupsOnlyApplyToTheirFamily(t *testing.T) {
	// Without the phone family tag, "case" is not an exclusion.
	f := New("pelican", "", false, DefaultRules())
	assert.True(t, f.Relevant("Pelican hard case 1510"))
}

func TestCaseSensitiveMode(t *testing.T) {
	f := New("iPhone", "phone", true, DefaultRules())

	assert.True(t, f.Relevant("iPhone 16 128GB"))
	assert.False(t, f.Relevant("IPHONE 16 128GB"))
}

func TestEmptyKeywordMatchesNothing(t *testing.T) {
	f := New("", "phone", false, DefaultRules())
	assert.False(t, f.Relevant("iPhone 16"))
}
