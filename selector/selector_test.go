package selector

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/use-agent/br/models"
)

func TestClassify_NumericIDKnown(t *testing.T) {
	c, err := Classify("42", map[int]string{42: "/html/body"})
	require.NoError(t, err)
	assert.Equal(t, KindNumericID, c.Kind)
	assert.Equal(t, "/html/body", c.EffectiveXPath)
}

func TestClassify_NumericIDUnknown(t *testing.T) {
	_, err := Classify("42", map[int]string{7: "/html/body"})
	require.Error(t, err)
	var berr *models.Error
	require.ErrorAs(t, err, &berr)
	assert.Equal(t, models.ErrCodeSelectorMiss, berr.Code)
	assert.Contains(t, berr.Message, "XPath not found for ID")
}

func TestClassify_CSS(t *testing.T) {
	c, err := Classify("button.submit", nil)
	require.NoError(t, err)
	assert.Equal(t, KindCSS, c.Kind)
}

func TestClassify_XPath(t *testing.T) {
	c, err := Classify("//button[1]", nil)
	require.NoError(t, err)
	assert.Equal(t, KindXPath, c.Kind)
	assert.Equal(t, "//button[1]", c.EffectiveXPath)
}

func TestClassify_XPathPrefixed(t *testing.T) {
	c, err := Classify("xpath=/html/body/div", nil)
	require.NoError(t, err)
	assert.Equal(t, KindXPath, c.Kind)
	assert.Equal(t, "/html/body/div", c.EffectiveXPath)
}

func TestClassify_InvalidCSS(t *testing.T) {
	_, err := Classify(":::not-a-selector", nil)
	require.Error(t, err)
	var berr *models.Error
	require.ErrorAs(t, err, &berr)
	assert.Equal(t, models.ErrCodeBadInput, berr.Code)
}
