// Package selector classifies an agent-supplied selector token into one
// of three forms — numeric accessibility-node ID, XPath, or CSS — and
// resolves it against the current ID→XPath map and the driver.
package selector

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/andybalholm/cascadia"
	"github.com/use-agent/br/driver"
	"github.com/use-agent/br/models"
)

// Kind is the classification tag. Classification is deterministic and
// first-match-wins, exactly per spec §4.2:
//  1. decimal number AND a key of the current ID→XPath map -> NumericID
//  2. "xpath=" prefix, or starts with "/" or "(" -> XPath
//  3. otherwise -> CSS
type Kind int

const (
	KindCSS Kind = iota
	KindXPath
	KindNumericID
)

func (k Kind) String() string {
	switch k {
	case KindXPath:
		return "xpath"
	case KindNumericID:
		return "numeric-id"
	default:
		return "css"
	}
}

// Classified is the result of classifying a token: the original token,
// its Kind, and (for XPath/NumericID) the effective XPath to query with.
type Classified struct {
	Token    string
	Kind     Kind
	EffectiveXPath string // set for KindXPath and resolved KindNumericID
}

// Classify applies the three-way rule. idToXPath is the most recent
// ID→XPath map produced by a view-tree call (nil/empty is valid — it
// just means no numeric ID will ever match).
func Classify(token string, idToXPath map[int]string) (Classified, error) {
	if n, err := strconv.Atoi(token); err == nil {
		if xpath, ok := idToXPath[n]; ok {
			return Classified{Token: token, Kind: KindNumericID, EffectiveXPath: xpath}, nil
		}
		if looksLikeBareNumber(token) {
			return Classified{}, &models.Error{
				Code:    models.ErrCodeSelectorMiss,
				Message: fmt.Sprintf("XPath not found for ID: %s (hint: accepted forms are numeric ID from the last view-tree, xpath=... or /.../( , or a CSS selector)", token),
			}
		}
	}

	if strings.HasPrefix(token, "xpath=") {
		return Classified{Token: token, Kind: KindXPath, EffectiveXPath: strings.TrimPrefix(token, "xpath=")}, nil
	}
	if strings.HasPrefix(token, "/") || strings.HasPrefix(token, "(") {
		return Classified{Token: token, Kind: KindXPath, EffectiveXPath: token}, nil
	}

	if _, err := cascadia.ParseGroup(token); err != nil {
		return Classified{}, &models.Error{
			Code:    models.ErrCodeBadInput,
			Message: fmt.Sprintf("selector %q is not a valid CSS selector, XPath (prefix with xpath= or start with / or (), or a known numeric ID: %v", token, err),
		}
	}
	return Classified{Token: token, Kind: KindCSS}, nil
}

func looksLikeBareNumber(token string) bool {
	for _, r := range token {
		if r < '0' || r > '9' {
			return false
		}
	}
	return token != ""
}

// Resolve classifies token and resolves it to a driver.Element against
// the given page.
func Resolve(ctx context.Context, page driver.Page, token string, idToXPath map[int]string) (driver.Element, error) {
	c, err := Classify(token, idToXPath)
	if err != nil {
		return nil, err
	}

	var el driver.Element
	switch c.Kind {
	case KindNumericID, KindXPath:
		el, err = page.ElementByXPath(ctx, c.EffectiveXPath)
	default:
		el, err = page.ElementByCSS(ctx, c.Token)
	}
	if err != nil {
		return nil, &models.Error{
			Code:    models.ErrCodeSelectorMiss,
			Message: fmt.Sprintf("Element not found for selector: %s (classified as %s)", token, c.Kind),
			Err:     err,
		}
	}
	return el, nil
}
