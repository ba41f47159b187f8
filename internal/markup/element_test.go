package markup

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

func TestElementBuilder_AttributeOrderAndEscaping(t *testing.T) {
	out, err := Div().
		Class(`chart "big"`).
		Data("kind", "a<b").
		Build()
	require.NoError(t, err)
	assert.Equal(t, `<div class="chart &#34;big&#34;" data-kind="a&lt;b"></div>`, out)
}

func TestElementBuilder_EmptyClassIsSkipped(t *testing.T) {
	out, err := NewElement("span").Class("").Text("x & y").Build()
	require.NoError(t, err)
	assert.Equal(t, `<span>x &amp; y</span>`, out)
}

func TestElementBuilder_DataJSONSurvivesHTMLParsing(t *testing.T) {
	source := "graph TD\n  A-->B \"quoted\" & <tag>\n"

	out, err := Div().DataJSON("source", source).Build()
	require.NoError(t, err)
	assert.NotContains(t, out, "\n", "element must stay on one line")

	doc, err := html.Parse(strings.NewReader(out))
	require.NoError(t, err)

	var value string
	var find func(n *html.Node)
	find = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "div" {
			for _, a := range n.Attr {
				if a.Key == "data-source" {
					value = a.Val
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			find(c)
		}
	}
	find(doc)

	assert.Equal(t, `"graph TD\n  A-->B \"quoted\" & <tag>\n"`, value)
}

func TestElementBuilder_DataJSONError(t *testing.T) {
	_, err := Div().DataJSON("bad", make(chan int)).Build()
	require.Error(t, err)
}
