package xmlnav

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, doc string) *Node {
	t.Helper()
	root, err := Parse(strings.NewReader(doc))
	require.NoError(t, err)
	return root
}

func TestParse(t *testing.T) {
	t.Run("well-formed document", func(t *testing.T) {
		root := mustParse(t, `<Fattura><Linea>uno</Linea><Linea>due</Linea></Fattura>`)
		assert.Equal(t, "Fattura", root.Name.Local)
		require.Len(t, root.Children, 2)
		assert.Equal(t, "uno", strings.TrimSpace(root.Children[0].Text))
		assert.Equal(t, "due", strings.TrimSpace(root.Children[1].Text))
	})

	t.Run("malformed document", func(t *testing.T) {
		_, err := Parse(strings.NewReader(`<Fattura><Linea>uno`))
		assert.Error(t, err)
	})

	t.Run("not xml at all", func(t *testing.T) {
		_, err := Parse(strings.NewReader(`this is not xml`))
		assert.Error(t, err)
	})

	t.Run("empty input", func(t *testing.T) {
		_, err := Parse(strings.NewReader(``))
		assert.Error(t, err)
	})
}

func TestFindFirst(t *testing.T) {
	tests := []struct {
		name     string
		doc      string
		tag      string
		wantText string
		wantNil  bool
	}{
		{
			name:     "unprefixed document",
			doc:      `<Fattura><DettaglioLinee><Descrizione>cancelleria</Descrizione></DettaglioLinee></Fattura>`,
			tag:      "Descrizione",
			wantText: "cancelleria",
		},
		{
			name:     "namespace-prefixed document",
			doc:      `<p:FatturaElettronica xmlns:p="http://ivaservizi.agenziaentrate.gov.it/docs/xsd/fatture/v1.2"><p:DettaglioLinee><p:Descrizione>cancelleria</p:Descrizione></p:DettaglioLinee></p:FatturaElettronica>`,
			tag:      "Descrizione",
			wantText: "cancelleria",
		},
		{
			name:     "default namespace document",
			doc:      `<FatturaElettronica xmlns="http://example.com/ns"><DettaglioLinee><Descrizione>cancelleria</Descrizione></DettaglioLinee></FatturaElettronica>`,
			tag:      "Descrizione",
			wantText: "cancelleria",
		},
		{
			name:     "root element itself matches",
			doc:      `<Descrizione>al livello radice</Descrizione>`,
			tag:      "Descrizione",
			wantText: "al livello radice",
		},
		{
			name:    "no match",
			doc:     `<Fattura><Altro>x</Altro></Fattura>`,
			tag:     "Descrizione",
			wantNil: true,
		},
		{
			name: "suffix false positive is documented behavior",
			doc:  `<Fattura><IndirizzoSede>Via Roma 1</IndirizzoSede></Fattura>`,
			tag:  "Sede",
			// "Sede" is a suffix of "IndirizzoSede", so the permissive
			// matcher finds it.
			wantText: "Via Roma 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := mustParse(t, tt.doc)
			got := FindFirst(root, tt.tag)
			if tt.wantNil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.wantText, strings.TrimSpace(got.Text))
		})
	}
}

func TestFindFirst_NilRoot(t *testing.T) {
	// A failed prior lookup chains without panicking.
	assert.Nil(t, FindFirst(nil, "Comune"))

	root := mustParse(t, `<Fattura/>`)
	sede := FindFirst(root, "Sede")
	assert.Nil(t, sede)
	assert.Nil(t, FindFirst(sede, "Comune"))
}

func TestFindAll(t *testing.T) {
	t.Run("document order preserved", func(t *testing.T) {
		root := mustParse(t, `<Fattura>
			<Corpo><DettaglioLinee><Descrizione>prima</Descrizione></DettaglioLinee></Corpo>
			<Corpo><DettaglioLinee><Descrizione>seconda</Descrizione></DettaglioLinee>
			       <DettaglioLinee><Descrizione>terza</Descrizione></DettaglioLinee></Corpo>
		</Fattura>`)

		lines := FindAll(root, "DettaglioLinee")
		require.Len(t, lines, 3)

		var descriptions []string
		for _, line := range lines {
			desc := FindFirst(line, "Descrizione")
			require.NotNil(t, desc)
			descriptions = append(descriptions, strings.TrimSpace(desc.Text))
		}
		assert.Equal(t, []string{"prima", "seconda", "terza"}, descriptions)
	})

	t.Run("no matches", func(t *testing.T) {
		root := mustParse(t, `<Fattura><Altro/></Fattura>`)
		assert.Empty(t, FindAll(root, "DettaglioLinee"))
	})

	t.Run("nil root", func(t *testing.T) {
		assert.Empty(t, FindAll(nil, "DettaglioLinee"))
	})

	t.Run("nested matches are all visited", func(t *testing.T) {
		// Every node is visited exactly once, so a match nested inside
		// another match is reported too, parent first.
		root := mustParse(t, `<Sede><AltraSede>interna</AltraSede></Sede>`)
		matches := FindAll(root, "Sede")
		require.Len(t, matches, 2)
		assert.Equal(t, "Sede", matches[0].Name.Local)
		assert.Equal(t, "AltraSede", matches[1].Name.Local)
	})
}

func TestWalk_Predicate(t *testing.T) {
	root := mustParse(t, `<A><B>x</B><C>y</C></A>`)

	visited := 0
	Walk(root, func(n *Node) bool {
		visited++
		return false
	})
	// Root plus two children, each exactly once.
	assert.Equal(t, 3, visited)
}
