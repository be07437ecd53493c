package dashboard

import (
	"html/template"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"airsage/internal/common"
	"airsage/internal/model"
)

type inputField struct {
	Name    string
	Default float64
	Step    float64
}

type inputGroup struct {
	Title  string
	Fields []inputField
}

type indexData struct {
	ModelAvailable bool
	Features       []string
	Threshold      float64
	MinThreshold   float64
	MaxThreshold   float64
	LowBand        float64
	Groups         []inputGroup
}

func (d *Dashboard) handleIndex(w http.ResponseWriter, r *http.Request) {
	now := time.Now()
	data := indexData{
		ModelAvailable: model.Describe(d.provider).Available,
		Features:       d.pipe.ExpectedFeatures(),
		Threshold:      d.defaultThreshold,
		MinThreshold:   common.MinThreshold,
		MaxThreshold:   common.MaxThreshold,
		LowBand:        common.LowBand,
		Groups: []inputGroup{
			{Title: "Pollutant Sensors", Fields: []inputField{
				{Name: "PT08.S1(CO)", Default: 1000.0, Step: 0.1},
				{Name: "NMHC(GT)", Default: 200.0, Step: 0.1},
				{Name: "NOx(GT)", Default: 150.0, Step: 0.1},
				{Name: "NO2(GT)", Default: 50.0, Step: 0.1},
				{Name: "PT08.S3(NOx)", Default: 800.0, Step: 0.1},
			}},
			{Title: "Environmental Data", Fields: []inputField{
				{Name: "T", Default: 20.0, Step: 0.5},
				{Name: "RH", Default: 50.0, Step: 0.5},
				{Name: "AH", Default: 1.0, Step: 0.01},
			}},
			{Title: "Temporal Data", Fields: []inputField{
				{Name: "Hour", Default: float64(now.Hour()), Step: 1},
				{Name: "Month", Default: float64(now.Month()), Step: 1},
				{Name: "DayOfWeek", Default: 0, Step: 1},
			}},
		},
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTemplate.Execute(w, data); err != nil {
		log.Error().Err(err).Msg("failed to render dashboard page")
	}
}

var indexTemplate = template.Must(template.New("index").Parse(`
<!DOCTYPE html>
<html>
<head>
    <title>AirSage - Air Quality Monitoring</title>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <style>
        body { font-family: 'Segoe UI', Tahoma, Geneva, Verdana, sans-serif; margin: 0; padding: 20px; background-color: #f5f5f5; }
        .container { max-width: 1200px; margin: 0 auto; }
        .header { background: linear-gradient(135deg, #667eea 0%, #764ba2 100%); color: white; padding: 20px; border-radius: 10px; margin-bottom: 20px; }
        .header h1 { margin: 0; font-size: 2.2em; text-align: center; }
        .header p { margin: 5px 0 0; text-align: center; opacity: 0.9; }
        .grid { display: grid; grid-template-columns: repeat(auto-fit, minmax(280px, 1fr)); gap: 20px; margin-bottom: 20px; }
        .card { background: white; border-radius: 10px; padding: 20px; box-shadow: 0 4px 6px rgba(0,0,0,0.1); }
        .card h3 { margin-top: 0; color: #333; border-bottom: 2px solid #eee; padding-bottom: 10px; }
        .field { margin: 10px 0; }
        .field label { display: block; font-weight: 500; color: #666; margin-bottom: 4px; }
        .field input { width: 100%; padding: 6px 8px; border: 1px solid #ccc; border-radius: 4px; box-sizing: border-box; }
        .run-btn { width: 100%; padding: 14px; font-size: 1.1em; font-weight: bold; color: white; background: #667eea; border: none; border-radius: 8px; cursor: pointer; }
        .run-btn:disabled { background: #aaa; cursor: not-allowed; }
        .result { display: none; text-align: center; }
        .alert { padding: 12px; border-radius: 8px; font-weight: bold; margin: 10px 0; }
        .alert-safe { background: #d4edda; color: #155724; }
        .alert-moderate { background: #fff3cd; color: #856404; }
        .alert-hazardous { background: #f8d7da; color: #721c24; }
        .metric-value { font-size: 2em; font-weight: bold; color: #333; }
        .notice { background: #f8d7da; color: #721c24; padding: 12px; border-radius: 8px; margin-bottom: 20px; }
        .feature-list { color: #666; font-size: 0.9em; }
        table { width: 100%; border-collapse: collapse; }
        th, td { text-align: left; padding: 8px; border-bottom: 1px solid #eee; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>AirSage</h1>
            <p>Industrial-Grade Air Quality Monitoring System</p>
        </div>

        {{if not .ModelAvailable}}
        <div class="notice">Model not loaded - predictions are unavailable.</div>
        {{end}}

        <div class="grid">
            {{range .Groups}}
            <div class="card">
                <h3>{{.Title}}</h3>
                {{range .Fields}}
                <div class="field">
                    <label>{{.Name}}</label>
                    <input type="number" class="feature-input" data-name="{{.Name}}" value="{{.Default}}" step="{{.Step}}">
                </div>
                {{end}}
            </div>
            {{end}}
            <div class="card">
                <h3>Configuration</h3>
                <div class="field">
                    <label>Alert Threshold (mg/m&sup3;): <span id="threshold-label">{{.Threshold}}</span></label>
                    <input type="range" id="threshold" min="{{.MinThreshold}}" max="{{.MaxThreshold}}" step="0.1" value="{{.Threshold}}">
                </div>
                <p class="feature-list">Expected features: {{range $i, $f := .Features}}{{if $i}}, {{end}}{{$f}}{{end}}</p>
            </div>
        </div>

        <button class="run-btn" id="run" {{if not .ModelAvailable}}disabled{{end}}>Run Analysis</button>

        <div class="card result" id="result">
            <canvas id="gauge" width="420" height="260"></canvas>
            <div class="alert" id="alert"></div>
            <div>Predicted CO Concentration</div>
            <div class="metric-value" id="prediction"></div>
        </div>

        <div class="card" id="error-card" style="display:none">
            <div class="alert alert-hazardous" id="error-message"></div>
        </div>

        <div class="card">
            <h3>Safety Thresholds</h3>
            <table>
                <tr><th>Level</th><th>CO (mg/m&sup3;)</th><th>Health Impact</th></tr>
                <tr><td>Safe</td><td>&lt; {{.LowBand}}</td><td>Normal conditions</td></tr>
                <tr><td>Moderate</td><td>{{.LowBand}}&ndash;{{.Threshold}}</td><td>Sensitive groups affected</td></tr>
                <tr><td>Hazardous</td><td>&gt; {{.Threshold}}</td><td>Health warnings issued</td></tr>
            </table>
        </div>
    </div>

    <script>
        const thresholdInput = document.getElementById('threshold');
        thresholdInput.addEventListener('input', () => {
            document.getElementById('threshold-label').textContent = thresholdInput.value;
        });

        document.getElementById('run').addEventListener('click', async () => {
            const inputs = {};
            document.querySelectorAll('.feature-input').forEach(el => {
                inputs[el.dataset.name] = parseFloat(el.value);
            });
            const body = { inputs: inputs, threshold: parseFloat(thresholdInput.value) };

            const resp = await fetch('/api/analyze', {
                method: 'POST',
                headers: { 'Content-Type': 'application/json' },
                body: JSON.stringify(body)
            });
            const data = await resp.json();

            const errorCard = document.getElementById('error-card');
            const resultCard = document.getElementById('result');
            if (!resp.ok) {
                errorCard.style.display = 'block';
                resultCard.style.display = 'none';
                document.getElementById('error-message').textContent = data.message || data.error;
                return;
            }
            errorCard.style.display = 'none';
            resultCard.style.display = 'block';

            const alertBox = document.getElementById('alert');
            alertBox.textContent = data.message;
            alertBox.className = 'alert alert-' + data.severity;
            document.getElementById('prediction').textContent = data.prediction.toFixed(2) + ' mg/m³';
            drawGauge(data.gauge);
        });

        function drawGauge(spec) {
            const canvas = document.getElementById('gauge');
            const ctx = canvas.getContext('2d');
            ctx.clearRect(0, 0, canvas.width, canvas.height);
            const cx = canvas.width / 2, cy = canvas.height - 30, radius = 150;
            const toAngle = v => Math.PI + Math.PI * (v - spec.min) / (spec.max - spec.min);

            spec.bands.forEach(band => {
                ctx.beginPath();
                ctx.arc(cx, cy, radius, toAngle(band.from), toAngle(band.to));
                ctx.lineWidth = 30;
                ctx.strokeStyle = band.color;
                ctx.stroke();
            });

            const markerAngle = toAngle(spec.marker.value);
            ctx.beginPath();
            ctx.moveTo(cx + Math.cos(markerAngle) * (radius - 25), cy + Math.sin(markerAngle) * (radius - 25));
            ctx.lineTo(cx + Math.cos(markerAngle) * (radius + 25), cy + Math.sin(markerAngle) * (radius + 25));
            ctx.lineWidth = spec.marker.width;
            ctx.strokeStyle = spec.marker.color;
            ctx.stroke();

            const needleValue = Math.min(Math.max(spec.value, spec.min), spec.max);
            const needleAngle = toAngle(needleValue);
            ctx.beginPath();
            ctx.moveTo(cx, cy);
            ctx.lineTo(cx + Math.cos(needleAngle) * (radius - 40), cy + Math.sin(needleAngle) * (radius - 40));
            ctx.lineWidth = 5;
            ctx.strokeStyle = spec.needleColor;
            ctx.stroke();

            ctx.fillStyle = '#333';
            ctx.font = 'bold 22px sans-serif';
            ctx.textAlign = 'center';
            ctx.fillText(spec.value.toFixed(2), cx, cy - 20);
        }
    </script>
</body>
</html>
`))
