package emit

import (
	_ "embed"
	"io"
	"text/template"

	"github.com/packster/packster"
)

//go:embed templates/bootstrap.sh.tmpl
var bootstrapTmpl string

var bootstrap = template.Must(template.New("bootstrap").Parse(bootstrapTmpl))

// WriteBootstrap renders the bootstrap shell script.
//
// Post-install commands from auto-approved mappings run after "brew
// bundle" so their formulae are guaranteed to be present.
func WriteBootstrap(w io.Writer, results []packster.MappingResult) error {
	var post []string
	for _, r := range results {
		if r.Decision != packster.Auto || r.Candidate == nil {
			continue
		}
		post = append(post, r.Candidate.PostInstall...)
	}
	return bootstrap.Execute(w, struct {
		PostInstall []string
	}{PostInstall: post})
}
