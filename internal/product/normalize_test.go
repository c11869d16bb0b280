package product

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeyFamilyExtraction(t *testing.T) {
	n := NewNormalizer()

	assert.Equal(t, "iphone 16 128gb", n.Key("iPhone 16 128GB"))
	assert.Equal(t, "iphone 16 128gb", n.Key("iphone 16 128gb unlocked"))
	assert.Equal(t, "iphone 16 128gb", n.Key("Brand New iPhone 16 128GB, Excellent Condition!"))
	assert.Equal(t, "iphone 15 pro max 256gb", n.Key("Apple iPhone 15 Pro Max 256GB Space Black"))
	assert.Equal(t, "iphone 13", n.Key("iPhone 13 - like new, with box"))
}

func TestKeyStripsNoiseAndColors(t *testing.T) {
	n := NewNormalizer()

	assert.Equal(t, "samsung galaxy s22", n.Key("Samsung Galaxy S22 Black, Excellent Condition"))
	assert.Equal(t, "nintendo switch oled", n.Key("Nintendo Switch OLED white - barely used"))
}

func TestKeyIdempotent(t *testing.T) {
	n := NewNormalizer()

	titles := []string{
		"iPhone 16 128GB Brand New",
		"Samsung Galaxy S22 black",
		"Sony WH-1000XM4",
		"Nintendo Switch OLED, boxed",
	}

	for _, title := range titles {
		key := n.Key(title)
		assert.Equal(t, key, n.Key(key), "normalizing key of %q twice must be stable", title)
	}
}

func TestKeyDropsUnusableTitles(t *testing.T) {
	n := NewNormalizer()

	assert.Equal(t, "", n.Key(""))
	assert.Equal(t, "", n.Key("   "))
	// Titles reducing below the minimum length are dropped rather than
	// merged into a meaningless bucket.
	assert.Equal(t, "", n.Key("New!"))
	assert.Equal(t, "", n.Key("Used, black"))
}

func TestKeyWordBoundaries(t *testing.T) {
	n := NewNormalizer()

	// "new" inside another word must survive noise stripping.
	key := n.Key("Newbridge silverware set")
	assert.Contains(t, key, "newbridge")
}
