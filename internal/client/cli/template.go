package cli

import (
	"text/template"
	"time"
)

var templateFuncs = template.FuncMap{
	"rfc3339": func(t time.Time) string { return t.Format(time.RFC3339) },
	"round":   func(d time.Duration) time.Duration { return d.Round(time.Second) },
}

const statusTemplate = `=== Status ===

{{ if .Session -}}
Scope:         {{ .Session.Scope }}
{{- if not .Session.ExpiresAt.IsZero }}
Token expires: {{ rfc3339 .Session.ExpiresAt }}{{ if .Expired }} (expired){{ end }}
{{- end }}
{{- else -}}
Scope:         not authenticated
{{- end }}
Connectivity:  {{ if .Online }}online{{ else }}offline{{ end }}
Last sync:     {{ if .LastSync.IsZero }}never{{ else }}{{ rfc3339 .LastSync }}{{ end }}
{{- if .Pending }}

Pending uploads: {{ .Pending.Uploads }}
Pending actions: {{ .Pending.Actions }}
{{- if or .Pending.DeadUploads .Pending.DeadActions }}
⚠️  Dead items: {{ .Pending.DeadUploads }} upload(s), {{ .Pending.DeadActions }} action(s). See 'keepsake queue'.
{{- end }}
{{- end }}
`

const cacheInfoTemplate = `=== Cache ===

Max age:     {{ .MaxAge }}
Hot entries: {{ .HotEntries }}
Hits:        {{ .Hits }}
Misses:      {{ .Misses }}
Expired:     {{ .Expired }}
Total size:  {{ .TotalBytes }} bytes
{{- if .Entries }}

{{ range .Entries -}}
{{ .Key }}  {{ .Bytes }} bytes, written {{ rfc3339 .WrittenAt }} ({{ round .Age }} ago){{ if .Stale }} [stale]{{ end }}
{{ end -}}
{{- else }}

No cached collections.
{{ end -}}
`

var (
	statusTmpl    = template.Must(template.New("status").Funcs(templateFuncs).Parse(statusTemplate))
	cacheInfoTmpl = template.Must(template.New("cache-info").Funcs(templateFuncs).Parse(cacheInfoTemplate))
)
