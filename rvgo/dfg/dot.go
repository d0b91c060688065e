package dfg

import (
	"io"
	"text/template"
)

// edge is a template-friendly producer→consumer pair.
type edge struct {
	From, To int
}

type dotView struct {
	Nodes []Node
	Edges []edge
}

// dotTmpl emits a Graphviz strict digraph with one labeled node per
// instruction and one edge per producer→consumer dependency (spec.md §6
// "DFG tool", grounded on original_source/dfg.cpp's DotPrinter).
var dotTmpl = template.Must(template.New("dfg.dot").Parse(
	`strict digraph {
{{- range .Nodes }}
{{ .Index }} [label ="{{ .Index }} {{ .Disasm }}"]
{{- end }}
{{- range .Edges }}
{{ .From }} -> {{ .To }}
{{- end }}
}
`))

// WriteDOT renders g as Graphviz source to w.
func (g *Graph) WriteDOT(w io.Writer) error {
	view := dotView{Nodes: g.Nodes}
	for _, n := range g.Nodes {
		for _, p := range n.Producers {
			view.Edges = append(view.Edges, edge{From: p, To: n.Index})
		}
	}
	return dotTmpl.Execute(w, view)
}
