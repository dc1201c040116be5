package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	t.Run("lowercases and hyphenates", func(t *testing.T) {
		assert.Equal(t, "basic-cotton-shirt", Slugify("Basic Cotton Shirt"))
	})

	t.Run("folds Turkish letters", func(t *testing.T) {
		assert.Equal(t, "buyuk-beden-siyah-pantolon", Slugify("Büyük Beden Siyah Pantolon"))
	})

	t.Run("folds dotless i and dotted capital I", func(t *testing.T) {
		assert.Equal(t, "isil-islem", Slugify("Isıl İşlem"))
	})

	t.Run("strips diacritics", func(t *testing.T) {
		assert.Equal(t, "cagdas-urun", Slugify("Çağdaş Ürün"))
	})

	t.Run("collapses repeated separators", func(t *testing.T) {
		assert.Equal(t, "a-b-c", Slugify("a  -  b / c"))
	})

	t.Run("drops punctuation", func(t *testing.T) {
		assert.Equal(t, "v-yaka-tisort-2li", Slugify("V-Yaka Tişört (2'li)"))
	})

	t.Run("trims leading and trailing hyphens", func(t *testing.T) {
		assert.Equal(t, "ic-giyim", Slugify(" - İç Giyim - "))
	})

	t.Run("empty title yields empty handle", func(t *testing.T) {
		assert.Equal(t, "", Slugify(""))
	})
}
