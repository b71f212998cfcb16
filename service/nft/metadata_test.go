package nft

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/superpiccell/spen-minter/service/persist"
)

func TestBuildMetadata(t *testing.T) {
	t.Run("fallbacks and a single attribute", func(t *testing.T) {
		md, err := BuildMetadata(persist.ContentItem{ID: "9", Content: `{"name":"A","foo":"bar"}`})
		require.NoError(t, err)
		assert.Equal(t, "A", md.Name)
		assert.Equal(t, "No Description", md.Description)
		assert.Equal(t, "No Image", md.Image)
		assert.Equal(t, []persist.Attribute{{TraitType: "Foo", Value: "bar"}}, md.Attributes)
		assert.Equal(t, persist.ContentID("9"), md.ContentID)
	})

	t.Run("attributes keep key order and title case", func(t *testing.T) {
		md, err := BuildMetadata(persist.ContentItem{ID: "1", Content: `{"image":"ipfs://x","art_style":"oil","year":1999,"is_original":true,"name":"N","description":"D"}`})
		require.NoError(t, err)
		assert.Equal(t, "N", md.Name)
		assert.Equal(t, "D", md.Description)
		assert.Equal(t, "ipfs://x", md.Image)
		assert.Equal(t, []persist.Attribute{
			{TraitType: "Art Style", Value: "oil"},
			{TraitType: "Year", Value: "1999"},
			{TraitType: "Is Original", Value: "true"},
		}, md.Attributes)
	})

	t.Run("falsy values become empty strings", func(t *testing.T) {
		md, err := BuildMetadata(persist.ContentItem{ID: "1", Content: `{"count":0,"flag":false,"note":null,"empty":"","name":""}`})
		require.NoError(t, err)
		assert.Equal(t, "No Name", md.Name)
		for _, a := range md.Attributes {
			assert.Equal(t, "", a.Value, a.TraitType)
		}
		assert.Len(t, md.Attributes, 4)
	})

	t.Run("non string values are stringified", func(t *testing.T) {
		md, err := BuildMetadata(persist.ContentItem{ID: "1", Content: `{"tags":["a",1,null,true],"meta":{"k":"v"},"ratio":1.50,"tiny":0.0000001}`})
		require.NoError(t, err)
		assert.Equal(t, []persist.Attribute{
			{TraitType: "Tags", Value: "a,1,,true"},
			{TraitType: "Meta", Value: "[object Object]"},
			{TraitType: "Ratio", Value: "1.5"},
			{TraitType: "Tiny", Value: "1e-7"},
		}, md.Attributes)
	})

	t.Run("integer keys come first", func(t *testing.T) {
		md, err := BuildMetadata(persist.ContentItem{ID: "1", Content: `{"b":"1","10":"2","a":"3","2":"4"}`})
		require.NoError(t, err)
		var traits []string
		for _, a := range md.Attributes {
			traits = append(traits, a.TraitType)
		}
		assert.Equal(t, []string{"2", "10", "B", "A"}, traits)
	})

	t.Run("null content has no attributes", func(t *testing.T) {
		md, err := BuildMetadata(persist.ContentItem{ID: "1", Content: `null`})
		require.NoError(t, err)
		assert.Equal(t, "No Name", md.Name)
		assert.Empty(t, md.Attributes)
	})

	t.Run("malformed content", func(t *testing.T) {
		_, err := BuildMetadata(persist.ContentItem{ID: "1", Content: `{"name":`})
		assert.ErrorIs(t, err, ErrMetadataParse)

		_, err = BuildMetadata(persist.ContentItem{ID: "1", Content: ``})
		assert.ErrorIs(t, err, ErrMetadataParse)
	})
}

func TestTraitType(t *testing.T) {
	cases := map[string]string{
		"foo":         "Foo",
		"foo_bar":     "Foo Bar",
		"fooBar":      "FooBar",
		"already Up":  "Already Up",
		"_leading":    " Leading",
		"x1_y2":       "X1 Y2",
		"content-url": "Content-Url",
	}
	for in, want := range cases {
		assert.Equal(t, want, TraitType(in), in)
	}
}

func TestMarshalMetadata(t *testing.T) {
	s, err := MarshalMetadata(persist.NFTMetadata{
		Name:        "<A & B>",
		Description: "No Description",
		Image:       "No Image",
		Attributes:  []persist.Attribute{},
		ContentID:   "3",
	})
	require.NoError(t, err)
	assert.Equal(t, `{"name":"<A & B>","description":"No Description","image":"No Image","attributes":[],"contentId":"3"}`, s)
}

func TestDisplayFields(t *testing.T) {
	fields, image, err := DisplayFields(`{"name":"A","image":"ipfs://img","year":2020,"note":null}`)
	require.NoError(t, err)
	assert.Equal(t, "ipfs://img", image)
	assert.Equal(t, []persist.Attribute{{TraitType: "name", Value: "A"}, {TraitType: "year", Value: "2020"}, {TraitType: "note", Value: "-"}}, fields)
}
