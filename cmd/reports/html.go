package reports

import (
	"bytes"
	"fmt"
	"html/template"
	"path/filepath"

	"github.com/verityio/data-reconciler/cmd/recon"
)

var consolidatedTemplate = template.Must(template.New("consolidated").Funcs(template.FuncMap{
	"yesno": func(b bool) string {
		if b {
			return "Yes"
		}
		return "No"
	},
	"passfail": func(b bool) string {
		if b {
			return "pass"
		}
		return "fail"
	},
}).Parse(`<!DOCTYPE html>
<html>
<head>
    <title>Consolidated Data Reconciliation Report</title>
    <style>
        body { font-family: Arial, sans-serif; margin: 20px; }
        .header { background-color: #f0f0f0; padding: 20px; border-radius: 5px; }
        .summary { background-color: #e8f5e8; padding: 15px; margin: 10px 0; border-radius: 5px; }
        .dataset { background-color: #fff3cd; padding: 15px; margin: 10px 0; border-radius: 5px; }
        .metric { display: inline-block; margin: 10px; padding: 10px; background-color: white; border-radius: 3px; }
        .pass { color: green; font-weight: bold; }
        .fail { color: red; font-weight: bold; }
        .success { color: green; }
        .error { color: red; }
        table { border-collapse: collapse; width: 100%; margin: 10px 0; }
        th, td { border: 1px solid #ddd; padding: 8px; text-align: left; }
        th { background-color: #f2f2f2; }
    </style>
</head>
<body>
    <div class="header">
        <h1>Consolidated Data Reconciliation Report</h1>
        <p>Generated on: {{.GeneratedAt.Format "2006-01-02 15:04:05"}}</p>
    </div>

    <div class="summary">
        <h2>Overall Summary</h2>
        <div class="metric"><strong>Total Datasets:</strong> {{.TotalDatasets}}</div>
        <div class="metric"><strong>Successful:</strong> <span class="success">{{.SuccessfulComparisons}}</span></div>
        <div class="metric"><strong>Failed:</strong> <span class="error">{{.FailedComparisons}}</span></div>
        <div class="metric"><strong>Success Rate:</strong> {{printf "%.1f" .SuccessRate}}%</div>
        <div class="metric"><strong>Overall Match:</strong> <span class="{{passfail .OverallMatch}}">{{yesno .OverallMatch}}</span></div>
        <div class="metric"><strong>Total Processing Time:</strong> {{printf "%.2f" .TotalProcessingSeconds}} seconds</div>
        <div class="metric"><strong>Total Rows Processed:</strong> {{.TotalRowsProcessed}}</div>
    </div>

    <div class="dataset">
        <h2>Dataset Summary</h2>
        <table>
            <tr>
                <th>Dataset</th>
                <th>Description</th>
                <th>Status</th>
                <th>Overall Match</th>
                <th>Metadata Match</th>
                <th>Fingerprint Match</th>
                <th>Full Match</th>
                <th>Source Rows</th>
                <th>Destination Rows</th>
                <th>Processing Time</th>
            </tr>
            {{range .Summaries}}
            <tr>
                <td>{{.Name}}</td>
                <td>{{.Description}}</td>
                <td class="{{if eq .Status "success"}}success{{else}}error{{end}}">{{.Status}}</td>
                <td class="{{passfail .OverallMatch}}">{{yesno .OverallMatch}}</td>
                <td class="{{passfail .MetadataMatch}}">{{yesno .MetadataMatch}}</td>
                <td class="{{passfail .FingerprintMatch}}">{{yesno .FingerprintMatch}}</td>
                <td class="{{passfail .FullMatch}}">{{yesno .FullMatch}}</td>
                <td>{{.SourceRows}}</td>
                <td>{{.DestinationRows}}</td>
                <td>{{printf "%.2f" .ProcessingSeconds}}s</td>
            </tr>
            {{end}}
        </table>
    </div>
</body>
</html>
`))

// WriteHTML renders the consolidated result for web viewing.
func (w *Writer) WriteHTML(result *recon.ConsolidatedResult) (string, error) {
	if err := w.ensureDir(); err != nil {
		return "", err
	}
	path := filepath.Join(w.OutputDir, fmt.Sprintf("consolidated_summary_%s.html", w.timestamp()))

	var buffer bytes.Buffer
	if err := consolidatedTemplate.Execute(&buffer, result); err != nil {
		return "", fmt.Errorf("failed to render HTML report: %w", err)
	}
	path, err := w.writeFile(path, buffer.Bytes())
	if err != nil {
		return "", err
	}
	w.log(fmt.Sprintf("HTML report generated: %s", path))
	return path, nil
}
