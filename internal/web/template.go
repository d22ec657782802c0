package web

import (
	"fmt"
	"html/template"
	"io"
	"strconv"
	"time"

	"github.com/lau-bin/acer-brightness/internal/backlight"
	"github.com/lau-bin/acer-brightness/internal/status"
)

var indexTmpl = template.Must(template.New("index").Funcs(template.FuncMap{
	"uptime": func(d time.Duration) string {
		d = d.Truncate(time.Second)
		days := int(d.Hours()) / 24
		h := int(d.Hours()) % 24
		m := int(d.Minutes()) % 60
		s := int(d.Seconds()) % 60
		if days > 0 {
			return fmt.Sprintf("%dd %dh %dm %ds", days, h, m, s)
		}
		if h > 0 {
			return fmt.Sprintf("%dh %dm %ds", h, m, s)
		}
		if m > 0 {
			return fmt.Sprintf("%dm %ds", m, s)
		}
		return fmt.Sprintf("%ds", s)
	},
	"applied": func(level int) string {
		if level == backlight.LevelUnknown {
			return "unknown"
		}
		return strconv.Itoa(level)
	},
	"onoff": func(lit bool) string {
		if lit {
			return "ON"
		}
		return "OFF"
	},
}).Parse(indexHTML))

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>acer-backlight</title>
<style>
body { font-family: monospace; margin: 2em; background: #111; color: #ddd; }
h1 { font-size: 1.2em; }
table { border-collapse: collapse; }
td { padding: 0.2em 1em 0.2em 0; }
.on { color: #7c5; }
.off { color: #c75; }
</style>
</head>
<body>
<h1>acer-backlight</h1>
<table>
<tr><td>Backlight</td><td class="{{if .Lit}}on{{else}}off{{end}}">{{onoff .Lit}}</td></tr>
<tr><td>Level (intended)</td><td>{{.Level}}</td></tr>
<tr><td>Applied (believed)</td><td>{{applied .Applied}}</td></tr>
<tr><td>Uptime</td><td>{{uptime .Uptime}}</td></tr>
<tr><td>MQTT</td><td>{{if .MQTTConnected}}connected{{else}}disconnected{{end}}</td></tr>
<tr><td>Sets</td><td>{{.Counts.Sets}}</td></tr>
<tr><td>Turn-ons</td><td>{{.Counts.TurnOns}}</td></tr>
<tr><td>Turn-offs</td><td>{{.Counts.TurnOffs}}</td></tr>
<tr><td>Apply errors</td><td>{{.Counts.ApplyErrors}}</td></tr>
<tr><td>Auto-off</td><td>{{.Config.AutoOffMs}} ms</td></tr>
<tr><td>Debounce</td><td>{{.Config.DebounceMs}} ms</td></tr>
<tr><td>Device</td><td>{{.Config.Device}}</td></tr>
</table>
<p><a href="/index.json">JSON</a></p>
</body>
</html>
`

type indexData struct {
	Level         int
	Applied       int
	Lit           bool
	Uptime        time.Duration
	MQTTConnected bool
	Counts        backlight.Counts
	Config        status.Config
}

func renderHTML(w io.Writer, snap status.Snapshot) {
	data := indexData{
		Level:         snap.Level,
		Applied:       snap.Applied,
		Lit:           snap.Lit,
		Uptime:        snap.Uptime(),
		MQTTConnected: snap.MQTTConnected,
		Counts:        snap.Counts,
		Config:        snap.Config,
	}
	if err := indexTmpl.Execute(w, data); err != nil {
		fmt.Fprintf(w, "template error: %v", err)
	}
}
