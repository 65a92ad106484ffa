package web

import (
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/sweeney/traffic-light/internal/lamp"
	"github.com/sweeney/traffic-light/internal/status"
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
	"lit": func(p lamp.Pattern, i int) bool {
		return p.Lit(lamp.Lamp(i))
	},
	"clock": func(t time.Time) string {
		return t.Format("15:04:05")
	},
}).Parse(indexHTML))

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Traffic Light</title>
<style>
body { font-family: monospace; max-width: 600px; margin: 2em auto; padding: 0 1em; }
h1 { font-size: 1.4em; }
table { border-collapse: collapse; width: 100%; margin: 1em 0; }
td, th { text-align: left; padding: 4px 8px; border-bottom: 1px solid #ddd; }
th { width: 40%; }
.signal { background: #333; border-radius: 12px; display: inline-block; padding: 12px; }
.bulb { width: 48px; height: 48px; border-radius: 50%; margin: 8px; background: #222; }
.bulb.red.on { background: #e33; box-shadow: 0 0 24px #e33; }
.bulb.amber.on { background: #fa0; box-shadow: 0 0 24px #fa0; }
.bulb.green.on { background: #3c3; box-shadow: 0 0 24px #3c3; }
.connected { color: green; }
.disconnected { color: red; }
.muted { color: #888; }
</style>
</head>
<body>
<h1>Traffic Light</h1>

<div class="signal">
<div id="bulb-red" class="bulb red{{if lit .Output 0}} on{{end}}"></div>
<div id="bulb-amber" class="bulb amber{{if lit .Output 1}} on{{end}}"></div>
<div id="bulb-green" class="bulb green{{if lit .Output 2}} on{{end}}"></div>
</div>

<h2>Mode</h2>
<table>
<tr><th>Selected</th><td id="mode">{{if .ModeSelected}}{{.Mode}}{{else}}<span class="muted">none</span>{{end}}</td></tr>
<tr><th>Sequence</th><td id="sequence">{{.Sequence}}</td></tr>
</table>

<h2>Overrides</h2>
<table>
<tr><th>Force on</th><td id="force-on">{{.ForceOn}}</td></tr>
<tr><th>Force off</th><td id="force-off">{{.ForceOff}}</td></tr>
</table>

<h2>Connectivity</h2>
<table>
<tr><th>MQTT</th><td class="{{if .MQTTConnected}}connected{{else}}disconnected{{end}}">{{if .MQTTConnected}}connected{{else}}disconnected{{end}}</td></tr>
<tr><th>Broker</th><td>{{.Config.Broker}}</td></tr>
</table>

<h2>Event Counts</h2>
<table>
<tr><th>Ticks</th><td>{{.Counts.Ticks}}</td></tr>
<tr><th>Mode changes</th><td>{{.Counts.ModeChanges}}</td></tr>
<tr><th>Override changes</th><td>{{.Counts.OverrideChanges}}</td></tr>
</table>

{{if .Recent}}<h2>Recent Events</h2>
<table>
{{range .Recent}}<tr><th>{{clock .Time}}</th><td>{{.Kind}} {{.Detail}}</td></tr>
{{end}}</table>{{end}}

<h2>Daemon</h2>
<table>
<tr><th>Uptime</th><td>{{uptime .Uptime}}</td></tr>
<tr><th>Started</th><td>{{.StartTime.UTC.Format "2006-01-02T15:04:05Z"}}</td></tr>
<tr><th>GPIO chip</th><td>{{.Config.Chip}}</td></tr>
<tr><th>HTTP</th><td>{{.Config.HTTPAddr}}</td></tr>
</table>

<script>
// Poll the JSON endpoint so the bulbs track the hardware without a
// full page reload.
function refresh() {
	fetch('/index.json').then(function (r) { return r.json(); }).then(function (data) {
		var s = data.status;
		['red', 'amber', 'green'].forEach(function (name) {
			var el = document.getElementById('bulb-' + name);
			el.classList.toggle('on', s.lights[name] === 'ON');
		});
		document.getElementById('sequence').textContent = s.sequence;
		document.getElementById('force-on').textContent = s.overrides.force_on;
		document.getElementById('force-off').textContent = s.overrides.force_off;
		if (s.mode.selected) {
			document.getElementById('mode').textContent = s.mode.rotation + '/' + (s.mode.interval_ms / 1000) + 's';
		}
	}).catch(function () { /* daemon restarting; keep last view */ });
}
setInterval(refresh, 1000);
</script>
</body>
</html>
`

func renderHTML(w io.Writer, snap status.Snapshot) {
	// Render errors mid-stream can't be reported to the client; the
	// template is static so they only happen if it is broken.
	_ = indexTmpl.Execute(w, snap)
}
