package viz

import (
	"bytes"
	"fmt"
	"html/template"
)

// compiledTemplate is parsed at init time to fail fast on template errors.
var compiledTemplate *template.Template

func init() {
	compiledTemplate = template.Must(template.New("viz").Parse(htmlTemplate))
}

// HTMLOptions configures HTML generation.
type HTMLOptions struct {
	Title  string // Page title; defaults to the dataset name
	Layout string // "force", "circle", or "grid"
}

// DefaultOptions returns default HTML generation options.
func DefaultOptions() HTMLOptions {
	return HTMLOptions{Layout: "circle"}
}

// ValidLayouts lists the supported layout algorithm names.
var ValidLayouts = []string{"force", "circle", "grid"}

// GenerateHTML generates a self-contained HTML page for the graph
// visualization, loading Cytoscape.js from a CDN.
func GenerateHTML(graph *GraphData, opts HTMLOptions) (string, error) {
	if graph == nil {
		return "", fmt.Errorf("graph cannot be nil")
	}
	if err := validateLayout(opts.Layout); err != nil {
		return "", err
	}

	graphJSON, err := graph.ToCytoscapeJSON()
	if err != nil {
		return "", err
	}

	title := opts.Title
	if title == "" {
		title = "Link Prediction Graph"
	}

	data := templateData{
		Title:     title,
		GraphJSON: template.JS(graphJSON),
		Layout:    layoutToCytoscape(opts.Layout),
	}

	var buf bytes.Buffer
	if err := compiledTemplate.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// validateLayout checks if the layout option is valid.
func validateLayout(layout string) error {
	switch layout {
	case "", "force", "circle", "grid":
		return nil
	default:
		return fmt.Errorf("invalid layout %q: must be force, circle, or grid", layout)
	}
}

// templateData holds data for the HTML template.
type templateData struct {
	Title     string
	GraphJSON template.JS
	Layout    string
}

// layoutToCytoscape converts user-friendly layout names to Cytoscape.js
// layout algorithm names.
func layoutToCytoscape(layout string) string {
	switch layout {
	case "circle":
		return "circle"
	case "grid":
		return "grid"
	default:
		return "cose"
	}
}

const htmlTemplate = `<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <title>{{.Title}}</title>
  <script src="https://unpkg.com/cytoscape@3/dist/cytoscape.min.js"></script>
  <style>
    body {
      font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, Helvetica, Arial, sans-serif;
      margin: 0;
      background: #f5f5f5;
    }
    #cy {
      width: 100%;
      height: 100vh;
      background: white;
    }
    #legend {
      position: absolute;
      top: 12px;
      left: 12px;
      background: white;
      border: 1px solid #ccc;
      border-radius: 4px;
      padding: 8px 12px;
      font-size: 13px;
      z-index: 1000;
    }
    .swatch {
      display: inline-block;
      width: 10px;
      height: 10px;
      border-radius: 50%;
      margin-right: 4px;
    }
  </style>
</head>
<body>
  <div id="legend">
    <div><span class="swatch" style="background:#4a90d9"></span>mr-hi</div>
    <div><span class="swatch" style="background:#d94a4a"></span>officer</div>
    <div><span style="border-top:2px dashed #888;display:inline-block;width:14px;margin-right:4px"></span>predicted link</div>
  </div>
  <div id="cy"></div>
  <script>
    var elements = {{.GraphJSON}};
    cytoscape({
      container: document.getElementById('cy'),
      elements: elements,
      layout: { name: '{{.Layout}}' },
      style: [
        {
          selector: 'node',
          style: {
            'label': 'data(label)',
            'font-size': '9px',
            'text-valign': 'center',
            'color': '#fff',
            'background-color': '#888',
            'width': 'mapData(degree, 1, 17, 14, 34)',
            'height': 'mapData(degree, 1, 17, 14, 34)'
          }
        },
        { selector: 'node[group = "mr-hi"]', style: { 'background-color': '#4a90d9' } },
        { selector: 'node[group = "officer"]', style: { 'background-color': '#d94a4a' } },
        {
          selector: 'edge',
          style: { 'width': 1, 'line-color': '#bbb', 'curve-style': 'bezier' }
        },
        {
          selector: 'edge[kind = "predicted"]',
          style: {
            'line-style': 'dashed',
            'line-color': '#888',
            'width': 'mapData(score, 0.5, 1, 1, 4)'
          }
        }
      ]
    });
  </script>
</body>
</html>`
