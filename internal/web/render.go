// internal/web/render.go
package web

import (
	"bytes"
	"encoding/json"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/yuin/goldmark"
)

var funcMap = template.FuncMap{
	"statusClass": func(status string) string {
		switch status {
		case "completed":
			return "ok"
		case "in_progress":
			return "warn"
		case "failed":
			return "err"
		default:
			return "dim"
		}
	},
	"truncate": func(s string, n int) string {
		if len(s) > n {
			return s[:n] + "…"
		}
		return s
	},
}

func render(w http.ResponseWriter, tmplStr string, data any) {
	t, err := template.New("page").Funcs(funcMap).Parse(tmplBase + tmplStr)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if err := t.ExecuteTemplate(w, "base", data); err != nil {
		slog.Error("render failed", "error", err)
	}
}

func renderError(w http.ResponseWriter, headline string, err error) {
	w.WriteHeader(http.StatusInternalServerError)
	render(w, tmplError, map[string]any{
		"Headline": headline,
		"Detail":   err.Error(),
	})
}

// summaryHTML renders the opaque session summary blob for display. A JSON
// string renders as markdown; anything else pretty-prints.
func summaryHTML(raw json.RawMessage) template.HTML {
	if len(raw) == 0 {
		return ""
	}
	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		var buf bytes.Buffer
		if err := goldmark.Convert([]byte(text), &buf); err == nil {
			return template.HTML(buf.String())
		}
	}
	var pretty bytes.Buffer
	if err := json.Indent(&pretty, raw, "", "  "); err != nil {
		pretty.Reset()
		pretty.Write(raw)
	}
	escaped := new(bytes.Buffer)
	template.HTMLEscape(escaped, pretty.Bytes())
	return template.HTML("<pre>" + escaped.String() + "</pre>")
}

// prettyJSON indents an opaque stats blob for a <pre> block.
func prettyJSON(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return string(raw)
	}
	return buf.String()
}
