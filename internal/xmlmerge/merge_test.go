package xmlmerge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMergePaperVerbatimReplacement(t *testing.T) {
	original := []byte(`<root><paper id="P1" nation="X"><field/></paper></root>`)
	patch := []byte(`<root><paper id="P1" nation="X"><field/><added/></paper></root>`)

	out, err := Merge(original, patch, "document.xml")
	require.NoError(t, err)
	assert.Equal(t, `<root><paper id="P1" nation="X"><field/><added/></paper></root>`, string(out))
}

func TestMergeNewSibling(t *testing.T) {
	original := []byte(`<root><group><item id="A"/></group></root>`)
	patch := []byte(`<root><group><item id="B"/></group></root>`)

	out, err := Merge(original, patch, "document.xml")
	require.NoError(t, err)
	assert.Equal(t, `<root><group><item id="A"/><item id="B"/></group></root>`, string(out))
}

func TestMergeOverrideSentinelMatchesAttributelessElement(t *testing.T) {
	original := []byte(`<root><note>old</note></root>`)
	patch := []byte(`<root><note id="override">new</note></root>`)

	out, err := Merge(original, patch, "document.xml")
	require.NoError(t, err)
	assert.Equal(t, `<root><note>new</note></root>`, string(out))
}

func TestMergeUnrelatedAttributedElementPassesThroughVerbatim(t *testing.T) {
	original := []byte(`<root><config enabled="true"><child/></config></root>`)
	patch := []byte(`<root></root>`)

	out, err := Merge(original, patch, "document.xml")
	require.NoError(t, err)
	assert.Equal(t, `<root><config enabled="true"><child/></config></root>`, string(out))
}

func TestMergeFactsXMLEscapesAmpersandAmpersand(t *testing.T) {
	original := []byte(`<root><line val="a && b"/></root>`)
	patch := []byte(`<root></root>`)

	out, err := Merge(original, patch, "Facts.xml")
	require.NoError(t, err)
	assert.Equal(t, `<root><line val="a && b"/></root>`, string(out))
}

// A no-id, attributed element's identity includes its attribute values
// (§4.7's "<tag>[k1=v1,...]" rule), so a patch entry only matches when
// every value is identical to the original; a differing value falls
// through to step 2 and the original element passes through untouched,
// while the unmatched patch element is appended as a new sibling.
func TestMergeNonIDElementWithDifferingAttrValueDoesNotMatch(t *testing.T) {
	original := []byte(`<root><cfg b="2" a="1"/></root>`)
	patch := []byte(`<root><cfg b="9" a="1"/></root>`)

	out, err := Merge(original, patch, "document.xml")
	require.NoError(t, err)
	assert.Equal(t, `<root><cfg b="2" a="1"/><cfg b="9" a="1"/></root>`, string(out))
}

func TestMergeNonIDElementWithMatchingAttrsSubstitutesChildren(t *testing.T) {
	original := []byte(`<root><cfg b="2" a="1"><old/></cfg></root>`)
	patch := []byte(`<root><cfg b="2" a="1"><new/></cfg></root>`)

	out, err := Merge(original, patch, "document.xml")
	require.NoError(t, err)
	assert.Equal(t, `<root><cfg b="2" a="1"><new/></cfg></root>`, string(out))
}
