package fragment

import (
	"fmt"
	"html/template"
)

type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
)

// Flash builds the out-of-band status fragment. Unknown severities fall back
// to success. The message is HTML-escaped.
func Flash(message string, severity Severity) Fragment {
	if severity != SeverityError {
		severity = SeveritySuccess
	}
	html := fmt.Sprintf(`<div id="%s" hx-swap-oob="true" class="flash flash-%s" role="status">%s</div>`,
		RegionFlash, severity, template.HTMLEscapeString(message))
	return Fragment{Target: RegionFlash, HTML: html}
}
